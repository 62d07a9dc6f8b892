package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stockline-backend/api"
	"github.com/angelmondragon/stockline-backend/api/routes"
	"github.com/angelmondragon/stockline-backend/internal/auditlog"
	"github.com/angelmondragon/stockline-backend/internal/auth"
	"github.com/angelmondragon/stockline-backend/internal/orders"
	"github.com/angelmondragon/stockline-backend/internal/parties"
	"github.com/angelmondragon/stockline-backend/internal/products"
	"github.com/angelmondragon/stockline-backend/internal/statistics"
	"github.com/angelmondragon/stockline-backend/internal/users"
	"github.com/angelmondragon/stockline-backend/pkg/auth/session"
	"github.com/angelmondragon/stockline-backend/pkg/config"
	"github.com/angelmondragon/stockline-backend/pkg/db"
	"github.com/angelmondragon/stockline-backend/pkg/instance"
	"github.com/angelmondragon/stockline-backend/pkg/logger"
	"github.com/angelmondragon/stockline-backend/pkg/metrics"
	"github.com/angelmondragon/stockline-backend/pkg/migrate"
	"github.com/angelmondragon/stockline-backend/pkg/redis"
	"github.com/angelmondragon/stockline-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if sqlDB, err := dbClient.DB().DB(); err == nil {
		registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "stockline"))
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	hasher := security.NewHasher(cfg.Password)
	userRepo := users.NewRepository(gormDB)
	partyRepo := parties.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)

	auditService, err := auditlog.NewService(auditlog.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit log service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Audit:          auditService,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, hasher, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	stepUp, err := users.NewStepUp(userRepo, hasher)
	if err != nil {
		logg.Error(context.Background(), "failed to create step-up verifier", err)
		os.Exit(1)
	}

	orderSync, err := orders.NewSync(orderRepo, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order sync", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:    orderRepo,
		Tx:      dbClient,
		Parties: partyRepo,
		Users:   userRepo,
		Audit:   auditService,
		Metrics: orderMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	partyService, err := parties.NewService(parties.ServiceParams{
		Repo:   partyRepo,
		Tx:     dbClient,
		Orders: orderSync,
		StepUp: stepUp,
		Audit:  auditService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create party service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:   products.NewRepository(gormDB),
		Tx:     dbClient,
		Orders: orderSync,
		StepUp: stepUp,
		Audit:  auditService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	statisticsService, err := statistics.NewService(statistics.NewRepository(gormDB), orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create statistics service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if created, err := userService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap); err != nil {
		logg.Error(ctx, "failed to bootstrap admin account", err)
		os.Exit(1)
	} else if created {
		logg.Info(logg.WithField(ctx, "email", cfg.Bootstrap.AdminEmail), "bootstrap owner account created")
	}
	if created, err := statisticsService.EnsureInitialized(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "failed to initialize statistics")
	} else if created {
		logg.Info(ctx, "initial statistics snapshot written")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"instance":    instance.ID(),
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		httpMetrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		sessionManager,
		userRepo,
		authService,
		userService,
		partyService,
		productService,
		orderService,
		auditService,
		statisticsService,
	)

	if err := api.Serve(ctx, api.NewServer(addr, handler), logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
