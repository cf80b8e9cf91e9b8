package domain

// OrderItem is a snapshot of a catalog service at purchase time, so
// later catalog edits don't rewrite past orders.
type OrderItem struct {
	ServiceID ServiceID
	Name      string
	UnitPrice int64
	Quantity  int
}

type Order struct {
	ID     OrderID
	UserID UserID
	Items  []OrderItem

	CouponCode CouponCode
	Discount   int64
	Total      int64

	Status        OrderStatus
	PaymentStatus PaymentStatus

	OrderDate Timestamp
	UpdatedAt Timestamp
}

// Subtotal is the pre-discount sum of all items.
func (o *Order) Subtotal() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.UnitPrice * int64(it.Quantity)
	}
	return sum
}
