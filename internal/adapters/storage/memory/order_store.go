package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[domain.OrderID]*domain.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[domain.OrderID]*domain.Order),
	}
}

func (s *OrderStore) CreateOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return domain.ErrConflict
	}

	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	s.orders[o.ID] = &cp
	return nil
}

func (s *OrderStore) UpdateOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; !exists {
		return domain.ErrNotFound
	}

	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	s.orders[o.ID] = &cp
	return nil
}

func (s *OrderStore) GetOrder(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (s *OrderStore) ListOrdersBetween(_ context.Context, start, end time.Time, limit int) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Order
	for _, o := range s.orders {
		if o.OrderDate.Before(start) || o.OrderDate.After(end) {
			continue
		}
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
