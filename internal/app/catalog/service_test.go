package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/storage/memory"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/catalog"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

// cannedCompleter returns a fixed reply; the catalog only needs one
// round-trip for description copy.
type cannedCompleter struct {
	reply string
	err   error
}

func (c *cannedCompleter) Complete(_ context.Context, _ []domain.ChatMessage, _ []domain.ToolSpec) (*domain.ChatMessage, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: c.reply}, nil
}

func TestCreateNormalizesAndSlugs(t *testing.T) {
	svc := catalog.NewService(memory.NewServiceStore(), &cannedCompleter{})

	created, err := svc.Create(context.Background(), catalog.CreateInput{
		Name:     "Mandap Decoration (Premium)",
		Category: "  Decoration ",
		Price:    250_000,
	})
	require.NoError(t, err)
	require.Equal(t, "mandap-decoration-premium", created.Slug)
	require.Equal(t, "decoration", created.Category)
	require.True(t, created.Active, "new services start active")
}

func TestCreateValidation(t *testing.T) {
	svc := catalog.NewService(memory.NewServiceStore(), &cannedCompleter{})

	_, err := svc.Create(context.Background(), catalog.CreateInput{Name: "  "})
	require.ErrorIs(t, err, catalog.ErrInvalidService)

	_, err = svc.Create(context.Background(), catalog.CreateInput{Name: "X", Price: -1})
	require.ErrorIs(t, err, catalog.ErrInvalidService)
}

func TestUpdatePartialFields(t *testing.T) {
	store := memory.NewServiceStore()
	svc := catalog.NewService(store, &cannedCompleter{})

	created, err := svc.Create(context.Background(), catalog.CreateInput{
		Name:  "Bridal Mehndi",
		Price: 15_000,
	})
	require.NoError(t, err)

	inactive := false
	newPrice := int64(18_000)
	updated, err := svc.Update(context.Background(), created.ID, catalog.UpdateInput{
		Price:  &newPrice,
		Active: &inactive,
	})
	require.NoError(t, err)
	require.EqualValues(t, 18_000, updated.Price)
	require.False(t, updated.Active)
	require.Equal(t, "Bridal Mehndi", updated.Name, "name untouched")
}

func TestGenerateDescription(t *testing.T) {
	svc := catalog.NewService(memory.NewServiceStore(),
		&cannedCompleter{reply: "A dreamy package for your big day."})

	text, err := svc.GenerateDescription(context.Background(), catalog.DescribeInput{
		Name:       "Candid Photography",
		Category:   "photography",
		Highlights: []string{"2 photographers", "same-day teaser"},
	})
	require.NoError(t, err)
	require.Equal(t, "A dreamy package for your big day.", text)
}

func TestGenerateDescriptionErrors(t *testing.T) {
	t.Run("name required", func(t *testing.T) {
		svc := catalog.NewService(memory.NewServiceStore(), &cannedCompleter{})
		_, err := svc.GenerateDescription(context.Background(), catalog.DescribeInput{})
		require.ErrorIs(t, err, catalog.ErrInvalidService)
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		svc := catalog.NewService(memory.NewServiceStore(),
			&cannedCompleter{err: errors.New("model offline")})
		_, err := svc.GenerateDescription(context.Background(), catalog.DescribeInput{Name: "X"})
		require.ErrorContains(t, err, "model offline")
	})

	t.Run("empty copy is an error", func(t *testing.T) {
		svc := catalog.NewService(memory.NewServiceStore(), &cannedCompleter{reply: "   "})
		_, err := svc.GenerateDescription(context.Background(), catalog.DescribeInput{Name: "X"})
		require.Error(t, err)
	})
}
