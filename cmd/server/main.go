package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantfolio/quantfolio/internal/clients/yahoo"
	"github.com/quantfolio/quantfolio/internal/config"
	"github.com/quantfolio/quantfolio/internal/database"
	"github.com/quantfolio/quantfolio/internal/modules/analytics"
	"github.com/quantfolio/quantfolio/internal/modules/marketdata"
	"github.com/quantfolio/quantfolio/internal/modules/portfolio"
	"github.com/quantfolio/quantfolio/internal/modules/rebalancing"
	"github.com/quantfolio/quantfolio/internal/modules/swot"
	"github.com/quantfolio/quantfolio/internal/scheduler"
	"github.com/quantfolio/quantfolio/internal/server"
	"github.com/quantfolio/quantfolio/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet, config failure has to go to stderr directly.
		errLog := logger.New(logger.Config{Level: "error", Pretty: true})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	log.Info().Msg("Starting quantfolio")

	// Database of record: portfolios, positions, allocations.
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Per-symbol price history cache.
	historyDB, err := marketdata.NewHistoryDB(cfg.HistoryDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history store")
	}

	yahooClient := yahoo.NewClient(log)
	marketService := marketdata.NewService(historyDB, yahooClient, log)

	portfolioRepo := portfolio.NewRepository(db.Conn(), log)
	portfolioService := portfolio.NewService(portfolioRepo, yahooClient, log)

	analyticsService := analytics.NewService(marketService, portfolioRepo, analytics.Params{
		RiskFreeRate:        cfg.RiskFreeRate,
		AssumedMarketReturn: cfg.AssumedMarketReturn,
		BenchmarkSymbol:     cfg.BenchmarkSymbol,
		HistoryDays:         cfg.HistoryDays,
	}, log)

	rebalancingService := rebalancing.NewService(portfolioRepo, log)
	swotService := swot.NewService(yahooClient, marketService, log)

	// Nightly refresh keeps the history cache warm for every tracked
	// ticker plus the benchmark.
	sched := scheduler.New(log)
	refreshJob := marketdata.NewPriceRefreshJob(marketService, portfolioRepo, cfg.BenchmarkSymbol, cfg.HistoryDays, log)
	if err := sched.AddJob("0 30 5 * * *", refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DevMode: cfg.DevMode,
		Modules: []server.RouteRegistrar{
			portfolio.NewHandler(portfolioRepo, portfolioService, log),
			analytics.NewHandler(analyticsService, log),
			rebalancing.NewHandler(rebalancingService, log),
			swot.NewHandler(swotService, log),
			marketdata.NewHandler(marketService, portfolioRepo, cfg.BenchmarkSymbol, cfg.HistoryDays, log),
		},
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}
