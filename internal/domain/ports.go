package domain

import (
	"context"
	"time"
)

// ChatCompleter defines how the application talks to a chat-completion
// endpoint. When tools are passed the response may carry tool calls
// instead of content; the caller owns the resolution loop.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage, tools []ToolSpec) (*ChatMessage, error)
}

// Session is what the identity layer hands us after verifying a token.
type Session struct {
	UserID UserID
	Role   UserRole
}

// SessionVerifier checks a bearer token / session cookie value. The
// identity provider itself is external; we only consume its verdict.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

// UserStore defines user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id UserID) (*User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*User, error)
	// ListUsersCreatedBetween returns users with start <= CreatedAt <= end,
	// newest first. limit <= 0 means no limit.
	ListUsersCreatedBetween(ctx context.Context, start, end time.Time, limit int) ([]*User, error)
}

// ServiceStore defines catalog persistence.
type ServiceStore interface {
	CreateService(ctx context.Context, s *WeddingService) error
	UpdateService(ctx context.Context, s *WeddingService) error
	GetService(ctx context.Context, id ServiceID) (*WeddingService, error)
	// ListServices returns catalog items, optionally restricted to a
	// category and/or to active ones, newest first.
	ListServices(ctx context.Context, category string, activeOnly bool, limit int) ([]*WeddingService, error)
}

// OrderStore defines order persistence.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *Order) error
	UpdateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id OrderID) (*Order, error)
	// ListOrdersBetween returns orders with start <= OrderDate <= end,
	// newest first. limit <= 0 means no limit.
	ListOrdersBetween(ctx context.Context, start, end time.Time, limit int) ([]*Order, error)
}

// CouponStore defines coupon persistence.
type CouponStore interface {
	CreateCoupon(ctx context.Context, c *Coupon) error
	UpdateCoupon(ctx context.Context, c *Coupon) error
	GetCoupon(ctx context.Context, code CouponCode) (*Coupon, error)
	ListActiveCoupons(ctx context.Context, now time.Time) ([]*Coupon, error)
}
