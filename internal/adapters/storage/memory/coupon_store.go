package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

type CouponStore struct {
	mu      sync.RWMutex
	coupons map[domain.CouponCode]*domain.Coupon
}

func NewCouponStore() *CouponStore {
	return &CouponStore{
		coupons: make(map[domain.CouponCode]*domain.Coupon),
	}
}

func (s *CouponStore) CreateCoupon(_ context.Context, c *domain.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.coupons[c.Code]; exists {
		return domain.ErrConflict
	}

	cp := *c
	s.coupons[c.Code] = &cp
	return nil
}

func (s *CouponStore) UpdateCoupon(_ context.Context, c *domain.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.coupons[c.Code]; !exists {
		return domain.ErrNotFound
	}

	cp := *c
	s.coupons[c.Code] = &cp
	return nil
}

func (s *CouponStore) GetCoupon(_ context.Context, code domain.CouponCode) (*domain.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.coupons[code]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *c
	return &cp, nil
}

func (s *CouponStore) ListActiveCoupons(_ context.Context, now time.Time) ([]*domain.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Coupon
	for _, c := range s.coupons {
		if !c.Usable(now) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}
