// Package assistant wires the customer-facing content assistant: the
// same orchestration loop as the admin intelligence endpoint, with its
// own smaller registry of storefront tools.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/intelligence"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

const systemPrompt = `
You are the ApnaBandhan shopping assistant. You help couples plan their
wedding by answering questions about the services we offer and any
running discounts.

Rules:
- Use the tools to look up services and coupons; never invent
  offerings, prices or coupon codes.
- Recommend at most three services per answer and mention prices.
- If nothing in the catalog matches, say so and suggest the closest
  category instead.
- You cannot place orders or change anything; guide the user to the
  order page instead.
`

// New builds the storefront assistant over the catalog and coupon
// stores.
func New(llm domain.ChatCompleter, services domain.ServiceStore, coupons domain.CouponStore, clock intelligence.Clock, currency string) (*intelligence.Orchestrator, error) {
	registry, err := intelligence.NewRegistry(
		newServicesTool(services, currency),
		newCouponsTool(coupons, clock),
	)
	if err != nil {
		return nil, fmt.Errorf("assistant registry: %w", err)
	}
	return intelligence.NewOrchestrator(llm, registry, systemPrompt), nil
}

// ─────────────────────────────────────────────
// list_services
// ─────────────────────────────────────────────

const maxListedServices = 10

func decodeArgs(raw string, v any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

type servicesTool struct {
	services domain.ServiceStore
	currency string
}

func newServicesTool(services domain.ServiceStore, currency string) intelligence.Tool {
	return &servicesTool{services: services, currency: currency}
}

func (t *servicesTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        "list_services",
		Description: "List active wedding services in the catalog, optionally filtered by category.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type":        "string",
					"description": "catalog category such as photography, decoration, catering",
				},
			},
		},
	}
}

type servicesArgs struct {
	Category string `json:"category"`
}

type serviceSummary struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

func (t *servicesTool) Call(ctx context.Context, argumentsJSON string) (any, error) {
	var args servicesArgs
	if err := decodeArgs(argumentsJSON, &args); err != nil {
		return nil, err
	}

	services, err := t.services.ListServices(ctx, args.Category, true, maxListedServices)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	if len(services) == 0 {
		if args.Category != "" {
			return map[string]any{"message": fmt.Sprintf("no services found in category %q", args.Category)}, nil
		}
		return map[string]any{"message": "no services found"}, nil
	}

	out := make([]serviceSummary, 0, len(services))
	for _, s := range services {
		out = append(out, serviceSummary{
			Name:        s.Name,
			Category:    s.Category,
			Price:       fmt.Sprintf("%s%.2f", t.currency, float64(s.Price)/100),
			Description: s.Description,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────────
// active_coupons
// ─────────────────────────────────────────────

type couponsTool struct {
	coupons domain.CouponStore
	clock   intelligence.Clock
}

func newCouponsTool(coupons domain.CouponStore, clock intelligence.Clock) intelligence.Tool {
	return &couponsTool{coupons: coupons, clock: clock}
}

func (t *couponsTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        "active_coupons",
		Description: "List discount coupons customers can use right now.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

type couponSummary struct {
	Code       string `json:"code"`
	PercentOff int    `json:"percent_off"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

func (t *couponsTool) Call(ctx context.Context, _ string) (any, error) {
	now := t.clock()
	coupons, err := t.coupons.ListActiveCoupons(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}

	out := make([]couponSummary, 0, len(coupons))
	for _, c := range coupons {
		if !c.Usable(now) {
			continue
		}
		summary := couponSummary{Code: string(c.Code), PercentOff: c.PercentOff}
		if !c.ExpiresAt.IsZero() {
			summary.ExpiresAt = c.ExpiresAt.Format(time.RFC3339)
		}
		out = append(out, summary)
	}
	if len(out) == 0 {
		return map[string]any{"message": "no active coupons right now"}, nil
	}
	return out, nil
}
