package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

// Store implements every persistence port on one Firestore client.
// Collections: users, services, orders, coupons. Range listings filter
// on the timestamp field and order descending, which needs the
// matching single-field index Firestore creates by default.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func (s *Store) servicesCol() *firestore.CollectionRef {
	return s.client.Collection("services")
}

func (s *Store) ordersCol() *firestore.CollectionRef {
	return s.client.Collection("orders")
}

func (s *Store) couponsCol() *firestore.CollectionRef {
	return s.client.Collection("coupons")
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type userDoc struct {
	Email        string    `firestore:"email"`
	Name         string    `firestore:"name"`
	Role         string    `firestore:"role"`
	ReferralCode string    `firestore:"referral_code"`
	ReferredBy   string    `firestore:"referred_by"`
	CreatedAt    time.Time `firestore:"created_at"`
}

type serviceDoc struct {
	Name        string    `firestore:"name"`
	Slug        string    `firestore:"slug"`
	Category    string    `firestore:"category"`
	Description string    `firestore:"description"`
	Price       int64     `firestore:"price"`
	Active      bool      `firestore:"active"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

type orderItemDoc struct {
	ServiceID string `firestore:"service_id"`
	Name      string `firestore:"name"`
	UnitPrice int64  `firestore:"unit_price"`
	Quantity  int    `firestore:"quantity"`
}

type orderDoc struct {
	UserID        string         `firestore:"user_id"`
	Items         []orderItemDoc `firestore:"items"`
	CouponCode    string         `firestore:"coupon_code"`
	Discount      int64          `firestore:"discount"`
	Total         int64          `firestore:"total"`
	Status        string         `firestore:"status"`
	PaymentStatus string         `firestore:"payment_status"`
	OrderDate     time.Time      `firestore:"order_date"`
	UpdatedAt     time.Time      `firestore:"updated_at"`
}

type couponDoc struct {
	PercentOff int       `firestore:"percent_off"`
	ExpiresAt  time.Time `firestore:"expires_at"`
	Active     bool      `firestore:"active"`
	MaxUses    int       `firestore:"max_uses"`
	Uses       int       `firestore:"uses"`
	CreatedAt  time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// UserStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	doc := userDoc{
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		ReferralCode: u.ReferralCode,
		ReferredBy:   u.ReferredBy,
		CreatedAt:    u.CreatedAt,
	}

	_, err := s.usersCol().Doc(string(u.ID)).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrConflict
		}
		return fmt.Errorf("firestore CreateUser: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	snap, err := s.usersCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetUser: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetUser decode: %w", err)
	}
	return userFromDoc(id, doc), nil
}

func (s *Store) GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	iter := s.usersCol().Where("referral_code", "==", code).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetUserByReferralCode: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode userDoc: %w", err)
	}
	return userFromDoc(domain.UserID(snap.Ref.ID), doc), nil
}

func (s *Store) ListUsersCreatedBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.User, error) {
	q := s.usersCol().
		Where("created_at", ">=", start).
		Where("created_at", "<=", end).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.User
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListUsersCreatedBetween: %w", err)
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode userDoc: %w", err)
		}
		out = append(out, userFromDoc(domain.UserID(snap.Ref.ID), doc))
	}
	return out, nil
}

func userFromDoc(id domain.UserID, doc userDoc) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        doc.Email,
		Name:         doc.Name,
		Role:         domain.UserRole(doc.Role),
		ReferralCode: doc.ReferralCode,
		ReferredBy:   doc.ReferredBy,
		CreatedAt:    doc.CreatedAt,
	}
}

// ─────────────────────────────────────────
// ServiceStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateService(ctx context.Context, svc *domain.WeddingService) error {
	_, err := s.servicesCol().Doc(string(svc.ID)).Create(ctx, serviceToDoc(svc))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrConflict
		}
		return fmt.Errorf("firestore CreateService: %w", err)
	}
	return nil
}

func (s *Store) UpdateService(ctx context.Context, svc *domain.WeddingService) error {
	_, err := s.servicesCol().Doc(string(svc.ID)).Set(ctx, serviceToDoc(svc))
	if err != nil {
		return fmt.Errorf("firestore UpdateService: %w", err)
	}
	return nil
}

func (s *Store) GetService(ctx context.Context, id domain.ServiceID) (*domain.WeddingService, error) {
	snap, err := s.servicesCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetService: %w", err)
	}

	var doc serviceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetService decode: %w", err)
	}
	return serviceFromDoc(id, doc), nil
}

func (s *Store) ListServices(ctx context.Context, category string, activeOnly bool, limit int) ([]*domain.WeddingService, error) {
	q := s.servicesCol().Query
	if category != "" {
		q = q.Where("category", "==", category)
	}
	if activeOnly {
		q = q.Where("active", "==", true)
	}
	q = q.OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.WeddingService
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListServices: %w", err)
		}

		var doc serviceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode serviceDoc: %w", err)
		}
		out = append(out, serviceFromDoc(domain.ServiceID(snap.Ref.ID), doc))
	}
	return out, nil
}

func serviceToDoc(svc *domain.WeddingService) serviceDoc {
	return serviceDoc{
		Name:        svc.Name,
		Slug:        svc.Slug,
		Category:    svc.Category,
		Description: svc.Description,
		Price:       svc.Price,
		Active:      svc.Active,
		CreatedAt:   svc.CreatedAt,
		UpdatedAt:   svc.UpdatedAt,
	}
}

func serviceFromDoc(id domain.ServiceID, doc serviceDoc) *domain.WeddingService {
	return &domain.WeddingService{
		ID:          id,
		Name:        doc.Name,
		Slug:        doc.Slug,
		Category:    doc.Category,
		Description: doc.Description,
		Price:       doc.Price,
		Active:      doc.Active,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// ─────────────────────────────────────────
// OrderStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	_, err := s.ordersCol().Doc(string(o.ID)).Create(ctx, orderToDoc(o))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrConflict
		}
		return fmt.Errorf("firestore CreateOrder: %w", err)
	}
	return nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *domain.Order) error {
	_, err := s.ordersCol().Doc(string(o.ID)).Set(ctx, orderToDoc(o))
	if err != nil {
		return fmt.Errorf("firestore UpdateOrder: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	snap, err := s.ordersCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetOrder: %w", err)
	}

	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetOrder decode: %w", err)
	}
	return orderFromDoc(id, doc), nil
}

func (s *Store) ListOrdersBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Order, error) {
	q := s.ordersCol().
		Where("order_date", ">=", start).
		Where("order_date", "<=", end).
		OrderBy("order_date", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Order
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListOrdersBetween: %w", err)
		}

		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode orderDoc: %w", err)
		}
		out = append(out, orderFromDoc(domain.OrderID(snap.Ref.ID), doc))
	}
	return out, nil
}

func orderToDoc(o *domain.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{
			ServiceID: string(it.ServiceID),
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return orderDoc{
		UserID:        string(o.UserID),
		Items:         items,
		CouponCode:    string(o.CouponCode),
		Discount:      o.Discount,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		OrderDate:     o.OrderDate,
		UpdatedAt:     o.UpdatedAt,
	}
}

func orderFromDoc(id domain.OrderID, doc orderDoc) *domain.Order {
	items := make([]domain.OrderItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, domain.OrderItem{
			ServiceID: domain.ServiceID(it.ServiceID),
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return &domain.Order{
		ID:            id,
		UserID:        domain.UserID(doc.UserID),
		Items:         items,
		CouponCode:    domain.CouponCode(doc.CouponCode),
		Discount:      doc.Discount,
		Total:         doc.Total,
		Status:        domain.OrderStatus(doc.Status),
		PaymentStatus: domain.PaymentStatus(doc.PaymentStatus),
		OrderDate:     doc.OrderDate,
		UpdatedAt:     doc.UpdatedAt,
	}
}

// ─────────────────────────────────────────
// CouponStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	_, err := s.couponsCol().Doc(string(c.Code)).Create(ctx, couponToDoc(c))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrConflict
		}
		return fmt.Errorf("firestore CreateCoupon: %w", err)
	}
	return nil
}

func (s *Store) UpdateCoupon(ctx context.Context, c *domain.Coupon) error {
	_, err := s.couponsCol().Doc(string(c.Code)).Set(ctx, couponToDoc(c))
	if err != nil {
		return fmt.Errorf("firestore UpdateCoupon: %w", err)
	}
	return nil
}

func (s *Store) GetCoupon(ctx context.Context, code domain.CouponCode) (*domain.Coupon, error) {
	snap, err := s.couponsCol().Doc(string(code)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetCoupon: %w", err)
	}

	var doc couponDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetCoupon decode: %w", err)
	}
	return couponFromDoc(code, doc), nil
}

// ListActiveCoupons filters on the active flag server-side; expiry and
// use-count checks happen in the caller because Firestore cannot
// compare two fields of the same document in a query.
func (s *Store) ListActiveCoupons(ctx context.Context, now time.Time) ([]*domain.Coupon, error) {
	iter := s.couponsCol().Where("active", "==", true).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Coupon
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListActiveCoupons: %w", err)
		}

		var doc couponDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode couponDoc: %w", err)
		}

		coupon := couponFromDoc(domain.CouponCode(snap.Ref.ID), doc)
		if coupon.Usable(now) {
			out = append(out, coupon)
		}
	}
	return out, nil
}

func couponToDoc(c *domain.Coupon) couponDoc {
	return couponDoc{
		PercentOff: c.PercentOff,
		ExpiresAt:  c.ExpiresAt,
		Active:     c.Active,
		MaxUses:    c.MaxUses,
		Uses:       c.Uses,
		CreatedAt:  c.CreatedAt,
	}
}

func couponFromDoc(code domain.CouponCode, doc couponDoc) *domain.Coupon {
	return &domain.Coupon{
		Code:       code,
		PercentOff: doc.PercentOff,
		ExpiresAt:  doc.ExpiresAt,
		Active:     doc.Active,
		MaxUses:    doc.MaxUses,
		Uses:       doc.Uses,
		CreatedAt:  doc.CreatedAt,
	}
}
