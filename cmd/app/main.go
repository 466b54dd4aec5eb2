package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tender-analysis-service/internal/config"
	"tender-analysis-service/internal/domain/ports/adapter"
	aiAdapters "tender-analysis-service/internal/infra/adapters/ai"
	"tender-analysis-service/internal/infra/api"
	pg "tender-analysis-service/internal/infra/db/postgres"
	"tender-analysis-service/internal/infra/logging"
	"tender-analysis-service/internal/infra/metrics"
	"tender-analysis-service/internal/infra/notify"
	red "tender-analysis-service/internal/infra/redis"
	"tender-analysis-service/internal/queue"
	"tender-analysis-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop evaluator fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema setup failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	docCache := red.NewDocumentCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	documentRepo := pg.NewPostgresDocumentRepo(pool)
	checklistRepo := pg.NewPostgresChecklistRepo(pool)
	analysisRepo := pg.NewPostgresAnalysisRepo(pool)

	// ---- AI evaluator (anthropic / openai / gemini, routed by model prefix) ----
	providers := map[string]adapter.AIEvaluator{}
	if cfg.AI.AnthropicKey != "" {
		a, err := aiAdapters.NewAnthropicAdapter(cfg.AI.AnthropicKey, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("anthropic adapter")
		}
		providers["anthropic"] = a
	}
	if cfg.AI.OpenAIKey != "" {
		a, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, "", cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		providers["openai"] = a
	}
	if cfg.AI.GeminiKey != "" {
		a, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, "gemini-2.0-flash", cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		providers["gemini"] = a
	}
	var evaluator adapter.AIEvaluator
	switch {
	case len(providers) > 0:
		defaultProvider := aiAdapters.ResolveProvider(cfg.AI.DefaultModel)
		evaluator = aiAdapters.NewMultiAIAdapter(defaultProvider, providers)
		logger.Info().Int("providers", len(providers)).Str("default_model", cfg.AI.DefaultModel).Msg("ai evaluator ready")
	case cfg.Runtime.Dev:
		evaluator = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("no ai provider configured, using noop evaluator")
	default:
		logger.Fatal().Msg("no ai provider configured: set ai.anthropic_key, ai.openai_key or ai.gemini_key")
	}
	evaluator = aiAdapters.NewInstrumentedAI(evaluator)
	evaluator = aiAdapters.NewLimitedAI(evaluator, cfg.AI.ConcurrentLimit)

	// ---- Notification hub and analysis queue ----
	hub := notify.NewHub(logger)
	units := queue.NewUnitProcessor(evaluator, cfg.AI.PromptBudget, cfg.AI.RequestTimeout, logger)
	runner := queue.NewRunner(analysisRepo, documentRepo, checklistRepo, units, hub, logger)
	manager := queue.NewManager(ctx, cfg.Analysis.MaxConcurrent, runner, analysisRepo, hub, logger)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, txManager, rateLimiter, logger)
	documentUC := usecase.NewDocumentUseCase(documentRepo, txManager, docCache, cfg.Upload.Dir, logger)
	checklistUC := usecase.NewChecklistUseCase(checklistRepo, txManager, logger)
	analysisUC := usecase.NewAnalysisUseCase(analysisRepo, documentRepo, checklistRepo, txManager, manager, cfg.AI.DefaultModel, logger)

	// ---- HTTP server ----
	tokens := api.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	server := api.NewServer(cfg, userUC, documentUC, checklistUC, analysisUC, hub, tokens, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
	manager.Wait()
	logger.Info().Msg("stopped")
}
