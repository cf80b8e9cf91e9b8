package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

// defaultQueryLimit caps how many records a tool feeds back to the
// model when the model doesn't ask for a limit itself.
const defaultQueryLimit = 10

// Clock pins "now" for range resolution; tests inject a fixed one.
type Clock func() time.Time

var timeFrameValues = []string{
	string(FrameToday), string(FrameYesterday), string(FrameThisWeek),
	string(FrameThisMonth), string(FrameAllTime),
}

// rangeArgs is the argument shape shared by the listing tools.
type rangeArgs struct {
	Limit     int    `json:"limit"`
	TimeFrame string `json:"time_frame"`
}

func (a rangeArgs) limitOrDefault() int {
	if a.Limit > 0 {
		return a.Limit
	}
	return defaultQueryLimit
}

func decodeArgs(raw string, v any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

func listingSchema(limitDesc string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": limitDesc,
			},
			"time_frame": map[string]any{
				"type":        "string",
				"enum":        timeFrameValues,
				"description": "reporting window, defaults to this-week",
			},
		},
	}
}

func formatMoney(symbol string, minor int64) string {
	return fmt.Sprintf("%s%.2f", symbol, float64(minor)/100)
}

func noRecords(what string, frame TimeFrame) map[string]any {
	return map[string]any{"message": fmt.Sprintf("no %s found for %s", what, frame)}
}

// ─────────────────────────────────────────────
// list_new_users
// ─────────────────────────────────────────────

type usersTool struct {
	users     domain.UserStore
	clock     Clock
	weekStart time.Weekday
}

// NewUsersTool reports signups within a time frame.
func NewUsersTool(users domain.UserStore, clock Clock, weekStart time.Weekday) Tool {
	return &usersTool{users: users, clock: clock, weekStart: weekStart}
}

func (t *usersTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        "list_new_users",
		Description: "List users who signed up within a time frame, newest first.",
		Parameters:  listingSchema("maximum number of users to return, default 10"),
	}
}

type userSummary struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	SignedUp   string `json:"signed_up"`
	ReferredBy string `json:"referred_by,omitempty"`
}

func (t *usersTool) Call(ctx context.Context, argumentsJSON string) (any, error) {
	var args rangeArgs
	if err := decodeArgs(argumentsJSON, &args); err != nil {
		return nil, err
	}
	frame, err := ParseTimeFrame(args.TimeFrame)
	if err != nil {
		return nil, err
	}

	rng := ResolveRange(frame, t.clock(), t.weekStart)
	users, err := t.users.ListUsersCreatedBetween(ctx, rng.Start, rng.End, args.limitOrDefault())
	if err != nil {
		return nil, fmt.Errorf("list new users: %w", err)
	}
	if len(users) == 0 {
		return noRecords("new users", frame), nil
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{
			Name:       u.Name,
			Email:      u.Email,
			SignedUp:   u.CreatedAt.Format(time.RFC3339),
			ReferredBy: u.ReferredBy,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────────
// list_recent_orders
// ─────────────────────────────────────────────

type ordersTool struct {
	orders    domain.OrderStore
	clock     Clock
	weekStart time.Weekday
	currency  string
}

// NewOrdersTool reports orders placed within a time frame.
func NewOrdersTool(orders domain.OrderStore, clock Clock, weekStart time.Weekday, currency string) Tool {
	return &ordersTool{orders: orders, clock: clock, weekStart: weekStart, currency: currency}
}

func (t *ordersTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        "list_recent_orders",
		Description: "List orders placed within a time frame, newest first, with totals and payment state.",
		Parameters:  listingSchema("maximum number of orders to return, default 10"),
	}
}

type orderSummary struct {
	OrderID       string `json:"order_id"`
	Total         string `json:"total"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	OrderDate     string `json:"order_date"`
	ItemCount     int    `json:"item_count"`
}

func (t *ordersTool) Call(ctx context.Context, argumentsJSON string) (any, error) {
	var args rangeArgs
	if err := decodeArgs(argumentsJSON, &args); err != nil {
		return nil, err
	}
	frame, err := ParseTimeFrame(args.TimeFrame)
	if err != nil {
		return nil, err
	}

	rng := ResolveRange(frame, t.clock(), t.weekStart)
	orders, err := t.orders.ListOrdersBetween(ctx, rng.Start, rng.End, args.limitOrDefault())
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	if len(orders) == 0 {
		return noRecords("orders", frame), nil
	}

	out := make([]orderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderSummary{
			OrderID:       string(o.ID),
			Total:         formatMoney(t.currency, o.Total),
			Status:        string(o.Status),
			PaymentStatus: string(o.PaymentStatus),
			OrderDate:     o.OrderDate.Format(time.RFC3339),
			ItemCount:     len(o.Items),
		})
	}
	return out, nil
}

// ─────────────────────────────────────────────
// app_status
// ─────────────────────────────────────────────

type statusTool struct {
	users     domain.UserStore
	orders    domain.OrderStore
	clock     Clock
	weekStart time.Weekday
	currency  string
}

// NewStatusTool aggregates signups, orders and paid revenue for a
// required time frame.
func NewStatusTool(users domain.UserStore, orders domain.OrderStore, clock Clock, weekStart time.Weekday, currency string) Tool {
	return &statusTool{users: users, orders: orders, clock: clock, weekStart: weekStart, currency: currency}
}

func (t *statusTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        "app_status",
		Description: "Summarize new users, new orders and paid revenue for a time frame.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"time_frame": map[string]any{
					"type":        "string",
					"enum":        timeFrameValues,
					"description": "reporting window",
				},
			},
			"required": []string{"time_frame"},
		},
	}
}

type statusArgs struct {
	TimeFrame string `json:"time_frame"`
}

type statusReport struct {
	TimeFrame    string `json:"time_frame"`
	NewUsers     int    `json:"new_users"`
	NewOrders    int    `json:"new_orders"`
	PaidOrders   int    `json:"paid_orders"`
	TotalRevenue string `json:"total_revenue"`
}

func (t *statusTool) Call(ctx context.Context, argumentsJSON string) (any, error) {
	var args statusArgs
	if err := decodeArgs(argumentsJSON, &args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.TimeFrame) == "" {
		return nil, fmt.Errorf("time_frame is required")
	}
	frame, err := ParseTimeFrame(args.TimeFrame)
	if err != nil {
		return nil, err
	}

	rng := ResolveRange(frame, t.clock(), t.weekStart)

	users, err := t.users.ListUsersCreatedBetween(ctx, rng.Start, rng.End, 0)
	if err != nil {
		return nil, fmt.Errorf("count new users: %w", err)
	}
	orders, err := t.orders.ListOrdersBetween(ctx, rng.Start, rng.End, 0)
	if err != nil {
		return nil, fmt.Errorf("count new orders: %w", err)
	}

	var revenue int64
	paid := 0
	for _, o := range orders {
		if o.PaymentStatus == domain.PaymentPaid {
			revenue += o.Total
			paid++
		}
	}

	return statusReport{
		TimeFrame:    string(frame),
		NewUsers:     len(users),
		NewOrders:    len(orders),
		PaidOrders:   paid,
		TotalRevenue: formatMoney(t.currency, revenue),
	}, nil
}
