package catalog

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

var ErrInvalidService = errors.New("invalid service")

// Service manages the wedding-services catalog, including the
// AI-assisted description generator used by the back office.
type Service struct {
	services domain.ServiceStore
	llm      domain.ChatCompleter
	now      func() time.Time
}

func NewService(services domain.ServiceStore, llm domain.ChatCompleter) *Service {
	return &Service{
		services: services,
		llm:      llm,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, category string, activeOnly bool) ([]*domain.WeddingService, error) {
	return s.services.ListServices(ctx, category, activeOnly, 0)
}

func (s *Service) Get(ctx context.Context, id domain.ServiceID) (*domain.WeddingService, error) {
	return s.services.GetService(ctx, id)
}

type CreateInput struct {
	Name        string
	Category    string
	Description string
	Price       int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.WeddingService, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidService)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidService)
	}

	now := s.now()
	svc := &domain.WeddingService{
		ID:          domain.ServiceID(uuid.NewString()),
		Name:        in.Name,
		Slug:        slugify(in.Name),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Description: in.Description,
		Price:       in.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.services.CreateService(ctx, svc); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("service created",
		"service_id", svc.ID, "category", svc.Category)
	return svc, nil
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Category    *string
	Description *string
	Price       *int64
	Active      *bool
}

func (s *Service) Update(ctx context.Context, id domain.ServiceID, in UpdateInput) (*domain.WeddingService, error) {
	svc, err := s.services.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidService)
		}
		svc.Name = *in.Name
		svc.Slug = slugify(*in.Name)
	}
	if in.Category != nil {
		svc.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidService)
		}
		svc.Price = *in.Price
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}
	svc.UpdatedAt = s.now()

	if err := s.services.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

const describeSystemPrompt = `
You write product copy for ApnaBandhan, a wedding-services marketplace.
Write a warm, specific description of the service you are given:
2 short paragraphs, no headings, no emoji, no price. Mention what is
included and who it suits.
`

type DescribeInput struct {
	Name       string
	Category   string
	Highlights []string
}

// GenerateDescription asks the model for storefront copy. No tools are
// attached; this is a single round-trip.
func (s *Service) GenerateDescription(ctx context.Context, in DescribeInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidService)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Service: %s\n", in.Name)
	if in.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", in.Category)
	}
	if len(in.Highlights) > 0 {
		fmt.Fprintf(&b, "Highlights: %s\n", strings.Join(in.Highlights, "; "))
	}

	resp, err := s.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: describeSystemPrompt},
		{Role: domain.ChatRoleUser, Content: b.String()},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("generate description: model returned empty text")
	}
	return resp.Content, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
