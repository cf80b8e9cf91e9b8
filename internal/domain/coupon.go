package domain

import "time"

type Coupon struct {
	Code       CouponCode
	PercentOff int
	ExpiresAt  Timestamp
	Active     bool
	MaxUses    int
	Uses       int
	CreatedAt  Timestamp
}

// Usable reports whether the coupon can still be applied at the given
// instant. MaxUses == 0 means unlimited.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt) {
		return false
	}
	if c.MaxUses > 0 && c.Uses >= c.MaxUses {
		return false
	}
	return true
}

// DiscountOn returns the discount amount for a given subtotal.
func (c *Coupon) DiscountOn(subtotal int64) int64 {
	if c.PercentOff <= 0 {
		return 0
	}
	return subtotal * int64(c.PercentOff) / 100
}
