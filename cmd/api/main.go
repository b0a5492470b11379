package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/3est3est/motorcycle-service/api/routes"
	"github.com/3est3est/motorcycle-service/internal/auth"
	"github.com/3est3est/motorcycle-service/internal/bookings"
	"github.com/3est3est/motorcycle-service/internal/customers"
	"github.com/3est3est/motorcycle-service/internal/dashboard"
	"github.com/3est3est/motorcycle-service/internal/estimates"
	"github.com/3est3est/motorcycle-service/internal/inventory"
	"github.com/3est3est/motorcycle-service/internal/loyalty"
	"github.com/3est3est/motorcycle-service/internal/motorcycles"
	"github.com/3est3est/motorcycle-service/internal/payments"
	"github.com/3est3est/motorcycle-service/internal/quotations"
	"github.com/3est3est/motorcycle-service/internal/repairs"
	"github.com/3est3est/motorcycle-service/internal/users"
	"github.com/3est3est/motorcycle-service/pkg/auth/session"
	"github.com/3est3est/motorcycle-service/pkg/config"
	"github.com/3est3est/motorcycle-service/pkg/db"
	"github.com/3est3est/motorcycle-service/pkg/logger"
	"github.com/3est3est/motorcycle-service/pkg/metrics"
	"github.com/3est3est/motorcycle-service/pkg/migrate"
	"github.com/3est3est/motorcycle-service/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, dbClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, httpMetrics, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client, sessionManager *session.Manager) (routes.Services, error) {
	gdb := dbClient.DB()

	userRepo := users.NewRepository(gdb)
	customerRepo := customers.NewRepository(gdb)
	motorcycleRepo := motorcycles.NewRepository(gdb)
	bookingRepo := bookings.NewRepository(gdb)
	estimateRepo := estimates.NewRepository(gdb)
	quotationRepo := quotations.NewRepository(gdb)
	repairRepo := repairs.NewRepository(gdb)
	inventoryRepo := inventory.NewRepository(gdb)
	paymentRepo := payments.NewRepository(gdb)
	loyaltyRepo := loyalty.NewRepository(gdb)
	dashboardRepo := dashboard.NewRepository(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		Tx:             dbClient,
		UserRepo:       userRepo,
		CustomerRepo:   customerRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		return routes.Services{}, err
	}
	customersService, err := customers.NewService(customerRepo)
	if err != nil {
		return routes.Services{}, err
	}
	motorcyclesService, err := motorcycles.NewService(motorcycleRepo)
	if err != nil {
		return routes.Services{}, err
	}
	bookingsService, err := bookings.NewService(bookingRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	estimatesService, err := estimates.NewService(estimateRepo)
	if err != nil {
		return routes.Services{}, err
	}
	quotationsService, err := quotations.NewService(quotationRepo)
	if err != nil {
		return routes.Services{}, err
	}
	quotationBuilder, err := quotations.NewBuilder(quotationRepo)
	if err != nil {
		return routes.Services{}, err
	}
	paymentUpserter, err := payments.NewUpserter(paymentRepo)
	if err != nil {
		return routes.Services{}, err
	}
	partInventory, err := repairs.NewPartInventory(inventoryRepo)
	if err != nil {
		return routes.Services{}, err
	}
	repairsService, err := repairs.NewService(repairRepo, dbClient, quotationBuilder, paymentUpserter, partInventory)
	if err != nil {
		return routes.Services{}, err
	}
	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		return routes.Services{}, err
	}
	loyaltyService, err := loyalty.NewService(loyaltyRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	paymentsService, err := payments.NewService(paymentRepo, dbClient, loyaltyService, cfg.Loyalty.EarnDivisor)
	if err != nil {
		return routes.Services{}, err
	}
	dashboardService, err := dashboard.NewService(dashboardRepo)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:        authService,
		Register:    registerService,
		Users:       usersService,
		Customers:   customersService,
		Motorcycles: motorcyclesService,
		Bookings:    bookingsService,
		Estimates:   estimatesService,
		Quotations:  quotationsService,
		Repairs:     repairsService,
		Inventory:   inventoryService,
		Payments:    paymentsService,
		Loyalty:     loyaltyService,
		Dashboard:   dashboardService,
	}, nil
}
