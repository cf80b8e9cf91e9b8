package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/observability"
)

var (
	ErrInvalidUser     = errors.New("invalid user")
	ErrUnknownReferral = errors.New("unknown referral code")
)

// Service manages storefront accounts and the referral program.
type Service struct {
	users domain.UserStore
	now   func() time.Time
}

func NewService(users domain.UserStore) *Service {
	return &Service{users: users, now: time.Now}
}

type RegisterInput struct {
	Email      string
	Name       string
	ReferredBy string
}

// Register creates a customer account with a fresh referral code. A
// supplied referral code must belong to an existing user; a typo here
// should fail loudly rather than silently drop the credit.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidUser)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidUser)
	}

	referredBy := strings.ToUpper(strings.TrimSpace(in.ReferredBy))
	if referredBy != "" {
		if _, err := s.users.GetUserByReferralCode(ctx, referredBy); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownReferral, referredBy)
			}
			return nil, err
		}
	}

	user := &domain.User{
		ID:           domain.UserID(uuid.NewString()),
		Email:        email,
		Name:         in.Name,
		Role:         domain.RoleCustomer,
		CreatedAt:    s.now(),
		ReferralCode: newReferralCode(),
		ReferredBy:   referredBy,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("user registered",
		"user_id", user.ID, "referred_by", user.ReferredBy)
	return user, nil
}

func (s *Service) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// GetByReferralCode resolves a shared code to its owner; the storefront
// uses it to show "referred by <name>" before signup.
func (s *Service) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	return s.users.GetUserByReferralCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// ListBetween returns users who signed up in [start, end], newest first.
func (s *Service) ListBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.User, error) {
	return s.users.ListUsersCreatedBetween(ctx, start, end, limit)
}

// newReferralCode derives a short shareable code from a UUID.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
