package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[domain.UserID]*domain.User),
	}
}

func (s *UserStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return domain.ErrConflict
	}

	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *UserStore) GetUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *u
	return &cp, nil
}

func (s *UserStore) GetUserByReferralCode(_ context.Context, code string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *UserStore) ListUsersCreatedBetween(_ context.Context, start, end time.Time, limit int) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.User
	for _, u := range s.users {
		if u.CreatedAt.Before(start) || u.CreatedAt.After(end) {
			continue
		}
		cp := *u
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
