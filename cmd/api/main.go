package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/RandyMyers/mbzserver12-sub001/internal/api/http"
	"github.com/RandyMyers/mbzserver12-sub001/internal/api/http/handlers"
	"github.com/RandyMyers/mbzserver12-sub001/internal/audit"
	"github.com/RandyMyers/mbzserver12-sub001/internal/auth"
	"github.com/RandyMyers/mbzserver12-sub001/internal/config"
	"github.com/RandyMyers/mbzserver12-sub001/internal/observability"
	"github.com/RandyMyers/mbzserver12-sub001/internal/persistence"
	"github.com/RandyMyers/mbzserver12-sub001/internal/repository"
	"github.com/RandyMyers/mbzserver12-sub001/internal/service"
	"github.com/RandyMyers/mbzserver12-sub001/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var ticketRepo repository.TicketRepository
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewPostgresTicketRepository(pool)
	} else {
		logger.Warn("using in-memory ticket store; data is not persisted")
		ticketRepo = repository.NewMemoryTicketRepository()
	}

	recorder := audit.NewInMemoryRecorder()
	auditLogService := service.NewAuditLogService(recorder, logger)
	worker.StartAuditWorker(auditLogService)

	statsCache := service.NewStatsCache(redis.ClientHandle(), cfg.Stats.CacheTTL())

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Auditor:    recorder,
		StatsCache: statsCache,
	})
	integrationService := service.NewIntegrationService(service.IntegrationDependencies{
		TicketRepo: ticketRepo,
		Auditor:    recorder,
		StatsCache: statsCache,
	})
	statsService := service.NewStatsService(ticketRepo, statsCache)

	scopeMiddleware := auth.NewScopeMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret))
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:      handlers.NewTicketsHandler(ticketService),
		Integrations: handlers.NewIntegrationsHandler(integrationService),
		Stats:        handlers.NewStatsHandler(statsService),
		Scope:        scopeMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
