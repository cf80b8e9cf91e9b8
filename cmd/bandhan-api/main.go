package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/auth"
	httpadapter "github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/http"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/llm"
	firestorestore "github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/storage/firestore"
	memstore "github.com/Abhayrat6030/ApnaBandhan-sub000/internal/adapters/storage/memory"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/account"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/assistant"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/catalog"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/intelligence"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/order"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/config"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/observability"
)

func main() {
	ctx := context.Background()
	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	weekStart, _ := cfg.WeekStart()

	// LLM client: OpenAI-compatible endpoint or the mock (dev, tests).
	var llmClient domain.ChatCompleter
	switch cfg.LLM.Provider {
	case "openai":
		log.Info("using OpenAI chat client", "model", cfg.LLM.Model)
		llmClient, err = llm.NewOpenAIClient(llm.OpenAIOptions{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			Temperature:    cfg.LLM.Temperature,
			MaxTokens:      cfg.LLM.MaxTokens,
			RequestTimeout: cfg.LLM.RequestTimeout,
		})
		if err != nil {
			log.Error("initializing OpenAI client", "error", err)
			os.Exit(1)
		}
	default:
		log.Info("using mock chat client")
		llmClient = llm.NewMockClient()
	}

	// Storage: Firestore or memory. One Firestore store implements all
	// four ports.
	var (
		users    domain.UserStore
		services domain.ServiceStore
		orders   domain.OrderStore
		coupons  domain.CouponStore
	)
	switch cfg.Storage.Backend {
	case "firestore":
		log.Info("using Firestore storage", "project", cfg.Storage.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.Storage.GCPProjectID)
		if err != nil {
			log.Error("initializing Firestore", "error", err)
			os.Exit(1)
		}
		defer fs.Close()

		users, services, orders, coupons = fs, fs, fs, fs
	default:
		log.Info("using in-memory storage")
		users = memstore.NewUserStore()
		services = memstore.NewServiceStore()
		orders = memstore.NewOrderStore()
		coupons = memstore.NewCouponStore()
	}

	// Back-office intelligence assistant.
	registry, err := intelligence.NewRegistry(
		intelligence.NewUsersTool(users, time.Now, weekStart),
		intelligence.NewOrdersTool(orders, time.Now, weekStart, cfg.Intelligence.Currency),
		intelligence.NewStatusTool(users, orders, time.Now, weekStart, cfg.Intelligence.Currency),
	)
	if err != nil {
		log.Error("building intelligence registry", "error", err)
		os.Exit(1)
	}
	adminAssistant := intelligence.NewOrchestrator(llmClient, registry, intelligence.AdminSystemPrompt)

	// Storefront assistant.
	shopAssistant, err := assistant.New(llmClient, services, coupons, time.Now, cfg.Intelligence.Currency)
	if err != nil {
		log.Error("building storefront assistant", "error", err)
		os.Exit(1)
	}

	handler := httpadapter.NewServer(httpadapter.Options{
		Catalog:        catalog.NewService(services, llmClient),
		Orders:         order.NewService(orders, services, coupons),
		Accounts:       account.NewService(users),
		AdminAssistant: adminAssistant,
		ShopAssistant:  shopAssistant,
		Verifier:       auth.NewStaticVerifier(cfg.Admin.SessionToken),
		WeekStart:      weekStart,
	})

	addr := ":" + cfg.Server.Port
	log.Info("ApnaBandhan API listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
