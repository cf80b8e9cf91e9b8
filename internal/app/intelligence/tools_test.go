package intelligence_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/storage/memory"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/intelligence"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

func fixedClock(at time.Time) intelligence.Clock {
	return func() time.Time { return at }
}

// decodeResult re-encodes a tool result the way the orchestrator would
// and decodes it into target, keeping the tests independent of the
// tools' internal summary structs.
func decodeResult(t *testing.T, result, target any) {
	t.Helper()
	body, err := json.Marshal(result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func seedOrder(t *testing.T, store domain.OrderStore, id string, placedAt time.Time, total int64, payment domain.PaymentStatus) {
	t.Helper()
	err := store.CreateOrder(context.Background(), &domain.Order{
		ID:     domain.OrderID(id),
		UserID: "user-1",
		Items: []domain.OrderItem{
			{ServiceID: "svc-1", Name: "Candid Photography", UnitPrice: total, Quantity: 1},
		},
		Total:         total,
		Status:        domain.OrderConfirmed,
		PaymentStatus: payment,
		OrderDate:     placedAt,
		UpdatedAt:     placedAt,
	})
	require.NoError(t, err)
}

func seedUser(t *testing.T, store domain.UserStore, id string, createdAt time.Time) {
	t.Helper()
	err := store.CreateUser(context.Background(), &domain.User{
		ID:        domain.UserID(id),
		Email:     id + "@example.com",
		Name:      "User " + id,
		Role:      domain.RoleCustomer,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

type orderRow struct {
	OrderID       string `json:"order_id"`
	Total         string `json:"total"`
	PaymentStatus string `json:"payment_status"`
}

func TestOrdersToolFiltersAndLimits(t *testing.T) {
	now := time.Date(2026, time.March, 11, 18, 0, 0, 0, time.UTC)
	store := memory.NewOrderStore()

	// Five orders today, two yesterday.
	for i := 0; i < 5; i++ {
		seedOrder(t, store, fmt.Sprintf("today-%d", i),
			now.Add(-time.Duration(i)*time.Hour), 10_000, domain.PaymentPaid)
	}
	seedOrder(t, store, "old-1", now.AddDate(0, 0, -1), 5_000, domain.PaymentPaid)
	seedOrder(t, store, "old-2", now.AddDate(0, 0, -1).Add(time.Hour), 5_000, domain.PaymentPaid)

	tool := intelligence.NewOrdersTool(store, fixedClock(now), time.Monday, "₹")

	result, err := tool.Call(context.Background(), `{"time_frame":"today","limit":3}`)
	require.NoError(t, err)

	var rows []orderRow
	decodeResult(t, result, &rows)
	require.Len(t, rows, 3, "limit must cap the result")
	require.Equal(t, "today-0", rows[0].OrderID, "newest first")
	require.Equal(t, "today-1", rows[1].OrderID)
	require.Equal(t, "today-2", rows[2].OrderID)
	require.Equal(t, "₹100.00", rows[0].Total)
}

func TestOrdersToolEmptyWindow(t *testing.T) {
	now := time.Date(2026, time.March, 11, 18, 0, 0, 0, time.UTC)
	store := memory.NewOrderStore()
	seedOrder(t, store, "last-week", now.AddDate(0, 0, -10), 5_000, domain.PaymentPaid)

	tool := intelligence.NewOrdersTool(store, fixedClock(now), time.Monday, "₹")

	result, err := tool.Call(context.Background(), `{"time_frame":"today"}`)
	require.NoError(t, err)

	msg, ok := result.(map[string]any)
	require.True(t, ok, "empty window should yield a message payload")
	require.Contains(t, msg["message"], "no orders")
}

func TestOrdersToolRejectsUnknownTimeFrame(t *testing.T) {
	tool := intelligence.NewOrdersTool(memory.NewOrderStore(), fixedClock(wednesday), time.Monday, "₹")

	_, err := tool.Call(context.Background(), `{"time_frame":"last-decade"}`)
	require.Error(t, err)
}

func TestOrdersToolOmittedFrameDefaultsToThisWeek(t *testing.T) {
	now := time.Date(2026, time.March, 11, 18, 0, 0, 0, time.UTC)
	store := memory.NewOrderStore()
	seedOrder(t, store, "this-week", now.AddDate(0, 0, -2), 5_000, domain.PaymentPaid)
	seedOrder(t, store, "last-month", now.AddDate(0, -1, 0), 5_000, domain.PaymentPaid)

	tool := intelligence.NewOrdersTool(store, fixedClock(now), time.Monday, "₹")

	result, err := tool.Call(context.Background(), "")
	require.NoError(t, err)

	var rows []orderRow
	decodeResult(t, result, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "this-week", rows[0].OrderID)
}

func TestUsersToolListsSignups(t *testing.T) {
	now := time.Date(2026, time.March, 11, 18, 0, 0, 0, time.UTC)
	store := memory.NewUserStore()
	seedUser(t, store, "fresh", now.Add(-2*time.Hour))
	seedUser(t, store, "stale", now.AddDate(0, 0, -30))

	tool := intelligence.NewUsersTool(store, fixedClock(now), time.Monday)

	result, err := tool.Call(context.Background(), `{"time_frame":"today"}`)
	require.NoError(t, err)

	var rows []struct {
		Email string `json:"email"`
	}
	decodeResult(t, result, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "fresh@example.com", rows[0].Email)
}

func TestStatusToolSumsOnlyPaidRevenue(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	orders := memory.NewOrderStore()
	users := memory.NewUserStore()

	seedOrder(t, orders, "paid-1", now.AddDate(0, 0, -2), 10_000, domain.PaymentPaid)
	seedOrder(t, orders, "paid-2", now.AddDate(0, 0, -5), 25_000, domain.PaymentPaid)
	seedOrder(t, orders, "unpaid", now.AddDate(0, 0, -3), 50_000, domain.PaymentPending)
	seedUser(t, users, "new-signup", now.AddDate(0, 0, -1))

	tool := intelligence.NewStatusTool(users, orders, fixedClock(now), time.Monday, "₹")

	result, err := tool.Call(context.Background(), `{"time_frame":"this-month"}`)
	require.NoError(t, err)

	var report struct {
		TimeFrame    string `json:"time_frame"`
		NewUsers     int    `json:"new_users"`
		NewOrders    int    `json:"new_orders"`
		PaidOrders   int    `json:"paid_orders"`
		TotalRevenue string `json:"total_revenue"`
	}
	decodeResult(t, result, &report)

	require.Equal(t, "this-month", report.TimeFrame)
	require.Equal(t, 1, report.NewUsers)
	require.Equal(t, 3, report.NewOrders)
	require.Equal(t, 2, report.PaidOrders)
	require.Equal(t, "₹350.00", report.TotalRevenue)
}

func TestStatusToolRequiresTimeFrame(t *testing.T) {
	tool := intelligence.NewStatusTool(memory.NewUserStore(), memory.NewOrderStore(),
		fixedClock(wednesday), time.Monday, "₹")

	_, err := tool.Call(context.Background(), `{}`)
	require.ErrorContains(t, err, "time_frame is required")
}
