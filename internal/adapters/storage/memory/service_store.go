package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

type ServiceStore struct {
	mu       sync.RWMutex
	services map[domain.ServiceID]*domain.WeddingService
}

func NewServiceStore() *ServiceStore {
	return &ServiceStore{
		services: make(map[domain.ServiceID]*domain.WeddingService),
	}
}

func (s *ServiceStore) CreateService(_ context.Context, svc *domain.WeddingService) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.services[svc.ID]; exists {
		return domain.ErrConflict
	}

	cp := *svc
	s.services[svc.ID] = &cp
	return nil
}

func (s *ServiceStore) UpdateService(_ context.Context, svc *domain.WeddingService) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.services[svc.ID]; !exists {
		return domain.ErrNotFound
	}

	cp := *svc
	s.services[svc.ID] = &cp
	return nil
}

func (s *ServiceStore) GetService(_ context.Context, id domain.ServiceID) (*domain.WeddingService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *svc
	return &cp, nil
}

func (s *ServiceStore) ListServices(_ context.Context, category string, activeOnly bool, limit int) ([]*domain.WeddingService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.WeddingService
	for _, svc := range s.services {
		if activeOnly && !svc.Active {
			continue
		}
		if category != "" && svc.Category != category {
			continue
		}
		cp := *svc
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
