package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/storage/memory"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/order"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

type fixture struct {
	svc     *order.Service
	orders  *memory.OrderStore
	catalog *memory.ServiceStore
	coupons *memory.CouponStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:  memory.NewOrderStore(),
		catalog: memory.NewServiceStore(),
		coupons: memory.NewCouponStore(),
	}
	f.svc = order.NewService(f.orders, f.catalog, f.coupons)
	return f
}

func (f *fixture) addService(t *testing.T, id string, price int64, active bool) {
	t.Helper()
	err := f.catalog.CreateService(context.Background(), &domain.WeddingService{
		ID:     domain.ServiceID(id),
		Name:   "Service " + id,
		Price:  price,
		Active: active,
	})
	require.NoError(t, err)
}

func (f *fixture) addCoupon(t *testing.T, c domain.Coupon) {
	t.Helper()
	require.NoError(t, f.coupons.CreateCoupon(context.Background(), &c))
}

func TestPlaceSnapshotsItems(t *testing.T) {
	f := newFixture(t)
	f.addService(t, "photo", 50_000, true)

	placed, err := f.svc.Place(context.Background(), order.PlaceInput{
		UserID: "user-1",
		Items:  []order.ItemInput{{ServiceID: "photo", Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, placed.Items, 1)
	require.Equal(t, "Service photo", placed.Items[0].Name)
	require.EqualValues(t, 50_000, placed.Items[0].UnitPrice)
	require.EqualValues(t, 100_000, placed.Total)
	require.Equal(t, domain.OrderPending, placed.Status)
	require.Equal(t, domain.PaymentPending, placed.PaymentStatus)

	stored, err := f.orders.GetOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	require.Equal(t, placed.Total, stored.Total)
}

func TestPlaceRejectsEmptyOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Place(context.Background(), order.PlaceInput{UserID: "user-1"})
	require.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestPlaceRejectsInactiveService(t *testing.T) {
	f := newFixture(t)
	f.addService(t, "retired", 10_000, false)

	_, err := f.svc.Place(context.Background(), order.PlaceInput{
		UserID: "user-1",
		Items:  []order.ItemInput{{ServiceID: "retired", Quantity: 1}},
	})
	require.ErrorIs(t, err, order.ErrServiceUnavailable)
}

func TestPlaceRejectsUnknownService(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Place(context.Background(), order.PlaceInput{
		UserID: "user-1",
		Items:  []order.ItemInput{{ServiceID: "ghost", Quantity: 1}},
	})
	require.ErrorIs(t, err, order.ErrServiceUnavailable)
}

func TestPlaceAppliesCouponAndBurnsUse(t *testing.T) {
	f := newFixture(t)
	f.addService(t, "decor", 200_000, true)
	f.addCoupon(t, domain.Coupon{
		Code: "SHAADI10", PercentOff: 10, Active: true, MaxUses: 1,
	})

	placed, err := f.svc.Place(context.Background(), order.PlaceInput{
		UserID:     "user-1",
		Items:      []order.ItemInput{{ServiceID: "decor", Quantity: 1}},
		CouponCode: "SHAADI10",
	})
	require.NoError(t, err)
	require.EqualValues(t, 20_000, placed.Discount)
	require.EqualValues(t, 180_000, placed.Total)

	// The single use is burnt, so a second order cannot apply it.
	_, err = f.svc.Place(context.Background(), order.PlaceInput{
		UserID:     "user-2",
		Items:      []order.ItemInput{{ServiceID: "decor", Quantity: 1}},
		CouponCode: "SHAADI10",
	})
	require.ErrorIs(t, err, order.ErrCouponInvalid)
}

func TestPlaceRejectsExpiredCoupon(t *testing.T) {
	f := newFixture(t)
	f.addService(t, "decor", 200_000, true)
	f.addCoupon(t, domain.Coupon{
		Code: "BYGONE", PercentOff: 15, Active: true,
		ExpiresAt: time.Now().Add(-time.Hour),
	})

	_, err := f.svc.Place(context.Background(), order.PlaceInput{
		UserID:     "user-1",
		Items:      []order.ItemInput{{ServiceID: "decor", Quantity: 1}},
		CouponCode: "BYGONE",
	})
	require.ErrorIs(t, err, order.ErrCouponInvalid)
}

func TestCheckCouponDoesNotBurnUse(t *testing.T) {
	f := newFixture(t)
	f.addCoupon(t, domain.Coupon{
		Code: "PREVIEW", PercentOff: 5, Active: true, MaxUses: 1,
	})

	for i := 0; i < 3; i++ {
		c, err := f.svc.CheckCoupon(context.Background(), "PREVIEW")
		require.NoError(t, err)
		require.Equal(t, 0, c.Uses)
	}
}

func TestCreateCouponValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCoupon(context.Background(), order.CouponInput{Code: "", PercentOff: 10})
	require.ErrorIs(t, err, order.ErrCouponInvalid)

	_, err = f.svc.CreateCoupon(context.Background(), order.CouponInput{Code: "TOOMUCH", PercentOff: 120})
	require.ErrorIs(t, err, order.ErrCouponInvalid)

	c, err := f.svc.CreateCoupon(context.Background(), order.CouponInput{Code: " mehndi20 ", PercentOff: 20})
	require.NoError(t, err)
	require.Equal(t, domain.CouponCode("MEHNDI20"), c.Code)
	require.True(t, c.Active)
}

func TestUpdateStatusPartial(t *testing.T) {
	f := newFixture(t)
	f.addService(t, "catering", 80_000, true)

	placed, err := f.svc.Place(context.Background(), order.PlaceInput{
		UserID: "user-1",
		Items:  []order.ItemInput{{ServiceID: "catering", Quantity: 1}},
	})
	require.NoError(t, err)

	paid := domain.PaymentPaid
	updated, err := f.svc.UpdateStatus(context.Background(), placed.ID, nil, &paid)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	require.Equal(t, domain.OrderPending, updated.Status, "fulfilment status untouched")

	confirmed := domain.OrderConfirmed
	updated, err = f.svc.UpdateStatus(context.Background(), placed.ID, &confirmed, nil)
	require.NoError(t, err)
	require.Equal(t, domain.OrderConfirmed, updated.Status)
	require.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
}
