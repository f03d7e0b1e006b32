package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"supportpilot/internal/api"
	"supportpilot/internal/api/handlers"
	"supportpilot/internal/repository"
	"supportpilot/internal/service"
	"supportpilot/pkg/auth"
	"supportpilot/pkg/config"
	"supportpilot/pkg/logger"
	"supportpilot/pkg/postgres"
)

// @title SupportPilot API
// @version 1.0
// @description Documentation question-answering service with deterministic retrieval, confidence scoring, and support-ticket drafts.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting SupportPilot service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	docRepo := repository.NewDocumentRepository(db, appLogger)
	workspaceRepo := repository.NewWorkspaceRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	authService := service.NewAuthService(workspaceRepo, jwtManager, appLogger)
	ingestService := service.NewIngestService(docRepo, chunkingConfig(cfg), appLogger)

	// Without a GigaChat key the service runs draft-only: ranking,
	// confidence, and ticket drafts all work with no generator.
	var generator service.Generator
	if cfg.GigaChat.APIKey != "" {
		llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
		}
		defer llmService.Close()
		generator = llmService
	} else {
		appLogger.Info("No GigaChat API key configured, running draft-only")
	}

	queryService := service.NewQueryService(
		docRepo, generator,
		searchConfig(cfg), confidenceConfig(cfg), ticketConfig(cfg),
		appLogger,
	)

	authHandler := handlers.NewAuthHandler(authService, appLogger)
	askHandler := handlers.NewAskHandler(queryService, appLogger)
	ingestHandler := handlers.NewIngestHandler(ingestService, appLogger)

	app := api.SetupRouter(authHandler, askHandler, ingestHandler, jwtManager, db, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

func chunkingConfig(cfg *config.Config) service.ChunkingConfig {
	return service.ChunkingConfig{
		MaxChars:     cfg.Chunking.MaxChars,
		OverlapChars: cfg.Chunking.OverlapChars,
	}
}

func searchConfig(cfg *config.Config) service.SearchConfig {
	sc := service.DefaultSearchConfig()
	sc.DefaultTopK = cfg.Search.TopK
	sc.ScoreFloor = cfg.Search.ScoreFloor
	sc.HeadingWeight = cfg.Search.HeadingWeight
	sc.ProximityBonus = cfg.Search.ProximityBonus
	sc.ExcerptMaxChars = cfg.Search.ExcerptMaxChars
	return sc
}

func confidenceConfig(cfg *config.Config) service.ConfidenceConfig {
	return service.ConfidenceConfig{
		MinRelevance:    cfg.Confidence.MinRelevance,
		HighGap:         cfg.Confidence.HighGap,
		HighAvgTop3:     cfg.Confidence.HighAvgTop3,
		MediumRelevance: cfg.Confidence.MediumRelevance,
	}
}

func ticketConfig(cfg *config.Config) service.TicketConfig {
	tc := service.DefaultTicketConfig()
	tc.MaxTitleChars = cfg.Ticket.MaxTitleChars
	tc.MaxSuggestions = cfg.Ticket.MaxSuggestions
	return tc
}
