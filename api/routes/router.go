package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/3est3est/motorcycle-service/api/controllers"
	"github.com/3est3est/motorcycle-service/api/middleware"
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
	"github.com/3est3est/motorcycle-service/pkg/redis"
)

// Services bundles the domain services mounted on the router.
type Services struct {
	Auth        auth.Service
	Register    auth.RegisterService
	Users       users.Service
	Customers   customers.Service
	Motorcycles motorcycles.Service
	Bookings    bookings.Service
	Estimates   estimates.Service
	Quotations  quotations.Service
	Repairs     repairs.Service
	Inventory   inventory.Service
	Payments    payments.Service
	Loyalty     loyalty.Service
	Dashboard   dashboard.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager session.AccessSessionChecker,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Use(middleware.CustomerContext(svcs.Customers, logg))

		r.Get("/v1/dashboard", controllers.DashboardGet(svcs.Dashboard, logg))

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileDetail(svcs.Customers, logg))
			r.Put("/", controllers.ProfileUpdate(svcs.Customers, logg))
		})

		r.Route("/v1/motorcycles", func(r chi.Router) {
			r.Post("/", controllers.MotorcycleRegister(svcs.Motorcycles, logg))
			r.Get("/", controllers.MotorcycleList(svcs.Motorcycles, logg))
			r.Get("/{motorcycleId}", controllers.MotorcycleDetail(svcs.Motorcycles, logg))
			r.Patch("/{motorcycleId}", controllers.MotorcycleUpdate(svcs.Motorcycles, logg))
			r.Delete("/{motorcycleId}", controllers.MotorcycleRemove(svcs.Motorcycles, logg))
		})

		r.Route("/v1/bookings", func(r chi.Router) {
			r.Post("/", controllers.BookingCreate(svcs.Bookings, logg))
			r.Get("/", controllers.BookingList(svcs.Bookings, logg))
			r.Get("/{bookingId}", controllers.BookingDetail(svcs.Bookings, logg))
			r.Post("/{bookingId}/status", controllers.BookingSetStatus(svcs.Bookings, logg))
			r.Route("/{bookingId}/estimate", func(r chi.Router) {
				r.Get("/", controllers.EstimateDetail(svcs.Estimates, logg))
				r.With(middleware.RequireStaff(logg)).Put("/", controllers.EstimateUpsert(svcs.Estimates, logg))
			})
			r.Route("/{bookingId}/quotation", func(r chi.Router) {
				r.Get("/", controllers.QuotationDetail(svcs.Quotations, logg))
				r.Post("/decision", controllers.QuotationDecide(svcs.Quotations, logg))
			})
		})

		r.Route("/v1/repairs", func(r chi.Router) {
			r.Get("/", controllers.RepairList(svcs.Repairs, logg))
			r.Get("/{jobId}", controllers.RepairDetail(svcs.Repairs, logg))
			r.Post("/{jobId}/confirm", controllers.RepairConfirm(svcs.Repairs, logg))
			r.Post("/{jobId}/cancel", controllers.RepairCancel(svcs.Repairs, logg))
			r.Get("/{jobId}/payment", controllers.PaymentForJob(svcs.Payments, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/{jobId}/status", controllers.RepairAdvanceStatus(svcs.Repairs, logg))
				r.Patch("/{jobId}", controllers.RepairUpdateDetails(svcs.Repairs, logg))
				r.Post("/{jobId}/parts", controllers.RepairAddPart(svcs.Repairs, logg))
				r.Delete("/{jobId}/parts/{repairPartId}", controllers.RepairRemovePart(svcs.Repairs, logg))
				r.Post("/{jobId}/payment/settle", controllers.PaymentSettle(svcs.Payments, logg))
			})
		})

		r.Route("/v1/parts", func(r chi.Router) {
			r.Get("/", controllers.PartList(svcs.Inventory, logg))
			r.Get("/{partId}", controllers.PartDetail(svcs.Inventory, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/", controllers.PartCreate(svcs.Inventory, logg))
				r.Patch("/{partId}", controllers.PartUpdate(svcs.Inventory, logg))
				r.Delete("/{partId}", controllers.PartDelete(svcs.Inventory, logg))
			})
		})

		r.With(middleware.RequireStaff(logg)).Get("/v1/payments", controllers.PaymentList(svcs.Payments, logg))

		r.Route("/v1/points", func(r chi.Router) {
			r.Get("/balance", controllers.PointsBalance(svcs.Loyalty, logg))
			r.Get("/history", controllers.PointsHistory(svcs.Loyalty, logg))
			r.Post("/redeem", controllers.PointsRedeem(svcs.Loyalty, logg))
		})

		r.Route("/v1/customers", func(r chi.Router) {
			r.Use(middleware.RequireStaff(logg))
			r.Get("/", controllers.CustomerList(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(svcs.Customers, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.Post("/{userId}/role", controllers.UserChangeRole(svcs.Users, logg))
			r.Post("/{userId}/active", controllers.UserSetActive(svcs.Users, logg))
		})
	})

	return r
}
