package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"quoteserver/database"
	"quoteserver/distance"
	"quoteserver/internal/config"
	"quoteserver/matching"
	"quoteserver/quote"
	"quoteserver/registry"
	"quoteserver/server"
	"quoteserver/shortlink"
)

// clickAdapter lets the link issuer record clicks through the store.
type clickAdapter struct {
	store *database.Store
}

func (a clickAdapter) RecordClick(ctx context.Context, supplierID, name, email, phone, search string) error {
	return a.store.RecordClick(ctx, database.Click{
		SupplierID:       supplierID,
		RequesterName:    name,
		RequesterEmail:   email,
		RequesterPhone:   phone,
		SearchedProducts: search,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	store, err := database.NewStoreWithConfig(cfg.DatabasePath, database.Config{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	routeClient := distance.NewRouteClient(distance.Config{
		APIKey:    cfg.DistanceAPIKey,
		BaseURL:   cfg.DistanceBaseURL,
		Timeout:   cfg.DistanceTimeout,
		RateLimit: rate.Every(100 * time.Millisecond),
	}, logger)

	links := shortlink.NewIssuer(cfg.BaseURL, clickAdapter{store: store}, logger)

	matcher := matching.NewMatcher(matching.DefaultConfig(), matching.DefaultCompatibilityWeights(), logger)
	aggregator := quote.NewAggregator(matcher, routeClient, quote.DefaultScoreWeights(), logger)
	inventory := quote.NewCachedInventory(store, cfg.InventoryCacheTTL)
	search := quote.NewSearchService(store, inventory, links, aggregator, cfg.SupplierBatchSize, logger)

	identity := registry.NewIdentityClient(cfg.IdentityAPIToken, cfg.IdentityBaseURL, logger)
	var council *registry.CouncilClient
	if cfg.CouncilSearchURL != "" {
		council = registry.NewCouncilClient(cfg.CouncilSearchURL, logger)
	}

	srv := server.New(cfg, store, search, links, identity, council, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		slogLevel = slog.LevelDebug
	case "WARN":
		slogLevel = slog.LevelWarn
	case "ERROR":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}
