package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/observability"
)

var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrServiceUnavailable = errors.New("service is not available")
	ErrCouponInvalid      = errors.New("coupon cannot be applied")
)

// Service handles order placement and back-office order management.
type Service struct {
	orders  domain.OrderStore
	catalog domain.ServiceStore
	coupons domain.CouponStore
	now     func() time.Time
}

func NewService(orders domain.OrderStore, catalog domain.ServiceStore, coupons domain.CouponStore) *Service {
	return &Service{
		orders:  orders,
		catalog: catalog,
		coupons: coupons,
		now:     time.Now,
	}
}

type ItemInput struct {
	ServiceID domain.ServiceID
	Quantity  int
}

type PlaceInput struct {
	UserID     domain.UserID
	Items      []ItemInput
	CouponCode domain.CouponCode
}

// Place resolves the requested services against the live catalog,
// applies the coupon if one is given and persists the order. Item
// snapshots keep the order stable against later catalog edits.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)
	now := s.now()

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		svc, err := s.catalog.GetService(ctx, it.ServiceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrServiceUnavailable, it.ServiceID)
			}
			return nil, err
		}
		if !svc.Active {
			return nil, fmt.Errorf("%w: %s", ErrServiceUnavailable, svc.Name)
		}
		items = append(items, domain.OrderItem{
			ServiceID: svc.ID,
			Name:      svc.Name,
			UnitPrice: svc.Price,
			Quantity:  qty,
		})
	}

	order := &domain.Order{
		ID:            domain.OrderID(uuid.NewString()),
		UserID:        in.UserID,
		Items:         items,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		OrderDate:     now,
		UpdatedAt:     now,
	}

	subtotal := order.Subtotal()
	if in.CouponCode != "" {
		coupon, err := s.redeemCoupon(ctx, in.CouponCode, now)
		if err != nil {
			return nil, err
		}
		order.CouponCode = coupon.Code
		order.Discount = coupon.DiscountOn(subtotal)
	}
	order.Total = subtotal - order.Discount

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	log.Info("order placed",
		"order_id", order.ID,
		"items", len(order.Items),
		"total", order.Total,
		"coupon", order.CouponCode)
	return order, nil
}

// redeemCoupon validates the code and burns one use.
func (s *Service) redeemCoupon(ctx context.Context, code domain.CouponCode, now time.Time) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown code %s", ErrCouponInvalid, code)
		}
		return nil, err
	}
	if !coupon.Usable(now) {
		return nil, fmt.Errorf("%w: %s is expired or exhausted", ErrCouponInvalid, code)
	}

	coupon.Uses++
	if err := s.coupons.UpdateCoupon(ctx, coupon); err != nil {
		return nil, fmt.Errorf("record coupon use: %w", err)
	}
	return coupon, nil
}

// CheckCoupon validates a code without consuming a use; the storefront
// calls this while the cart is still open.
func (s *Service) CheckCoupon(ctx context.Context, code domain.CouponCode) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown code %s", ErrCouponInvalid, code)
		}
		return nil, err
	}
	if !coupon.Usable(s.now()) {
		return nil, fmt.Errorf("%w: %s is expired or exhausted", ErrCouponInvalid, code)
	}
	return coupon, nil
}

type CouponInput struct {
	Code       string
	PercentOff int
	ExpiresAt  time.Time
	MaxUses    int
}

// CreateCoupon registers a new discount code (back office).
func (s *Service) CreateCoupon(ctx context.Context, in CouponInput) (*domain.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrCouponInvalid)
	}
	if in.PercentOff <= 0 || in.PercentOff > 100 {
		return nil, fmt.Errorf("%w: percent_off must be between 1 and 100", ErrCouponInvalid)
	}

	coupon := &domain.Coupon{
		Code:       domain.CouponCode(code),
		PercentOff: in.PercentOff,
		ExpiresAt:  in.ExpiresAt,
		Active:     true,
		MaxUses:    in.MaxUses,
		CreatedAt:  s.now(),
	}
	if err := s.coupons.CreateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *Service) Get(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// ListBetween returns orders in [start, end], newest first.
func (s *Service) ListBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Order, error) {
	return s.orders.ListOrdersBetween(ctx, start, end, limit)
}

// UpdateStatus sets the fulfilment and/or payment status; nil means
// leave as is.
func (s *Service) UpdateStatus(ctx context.Context, id domain.OrderID, status *domain.OrderStatus, payment *domain.PaymentStatus) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if status != nil {
		order.Status = *status
	}
	if payment != nil {
		order.PaymentStatus = *payment
	}
	order.UpdatedAt = s.now()

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("order updated",
		"order_id", order.ID,
		"status", order.Status,
		"payment_status", order.PaymentStatus)
	return order, nil
}
