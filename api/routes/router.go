package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/stockline-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/stockline-backend/api/controllers/orders"
	"github.com/angelmondragon/stockline-backend/api/middleware"
	"github.com/angelmondragon/stockline-backend/internal/auth"
	"github.com/angelmondragon/stockline-backend/internal/auditlog"
	"github.com/angelmondragon/stockline-backend/internal/orders"
	"github.com/angelmondragon/stockline-backend/internal/parties"
	"github.com/angelmondragon/stockline-backend/internal/products"
	"github.com/angelmondragon/stockline-backend/internal/users"
	pkgAuth "github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/auth/session"
	"github.com/angelmondragon/stockline-backend/pkg/config"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/angelmondragon/stockline-backend/pkg/logger"
	"github.com/angelmondragon/stockline-backend/pkg/metrics"
	"github.com/angelmondragon/stockline-backend/pkg/pagination"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// RedisStore is the part of the redis client the HTTP layer depends on.
type RedisStore interface {
	Get(context.Context, string) (string, error)
	Set(context.Context, string, any, time.Duration) error
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	Del(context.Context, ...string) error
	IdempotencyKey(scope, id string) string
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(context.Context) error
}

type auditLogLister interface {
	List(ctx context.Context, params pagination.Params, req pkgAuth.Requester) (pagination.Page[auditlog.Entry], error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisStore RedisStore,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	sessionManager sessionManager,
	userLookup middleware.UserLookup,
	authService auth.Service,
	userService users.Service,
	partyService parties.Service,
	productService products.Service,
	orderService orders.Service,
	auditLogs auditLogLister,
	statisticsService controllers.StatisticsService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentLimit,
	)

	deps := map[string]controllers.Pinger{"db": dbP}
	if redisStore != nil {
		deps["redis"] = redisStore
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	authenticate := middleware.Auth(cfg.JWT, sessionManager, userLookup, logg)
	ownerOnly := middleware.RequireRoles(logg, enums.RoleOwner)
	staffOnly := middleware.RequireRoles(logg, enums.RoleOwner, enums.RoleEmployee)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisStore, logg)).Post("/login", controllers.AuthLogin(authService, logg))
			r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", controllers.AuthMe(userService, logg))
				r.Put("/profile", controllers.AuthUpdateProfile(userService, logg))
				r.Put("/password", controllers.AuthChangePassword(userService, logg))
				r.With(ownerOnly).Post("/register", controllers.AuthRegister(userService, logg))
				r.With(ownerOnly).Get("/users", controllers.AuthListUsers(userService, logg))
				r.With(ownerOnly).Delete("/users/{userId}", controllers.AuthDeleteUser(userService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Idempotency(redisStore, cfg.Redis.IdempotencyTTL, logg))

			r.Get("/users/delivery-persons", controllers.DeliveryPersons(userService, logg))

			r.Route("/parties", func(r chi.Router) {
				r.Get("/", controllers.PartyList(partyService, logg))
				r.With(ownerOnly).Post("/", controllers.PartyCreate(partyService, logg))
				r.With(staffOnly).Put("/{partyId}", controllers.PartyUpdate(partyService, logg))
				r.With(staffOnly).Delete("/{partyId}", controllers.PartyDelete(partyService, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.With(staffOnly).Get("/", controllers.ProductList(productService, logg))
				r.With(ownerOnly).Post("/", controllers.ProductCreate(productService, logg))
				r.With(staffOnly).Put("/{productId}", controllers.ProductUpdate(productService, logg))
				r.With(ownerOnly).Delete("/{productId}", controllers.ProductDelete(productService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(orderService, logg))
				r.With(staffOnly).Post("/", ordercontrollers.Create(orderService, logg))
				r.With(middleware.RequireRoles(logg, enums.RoleDeliveryPerson)).
					Get("/assigned-deliveries", ordercontrollers.AssignedDeliveries(orderService, logg))
				r.Get("/pending-by-party/{partyName}", ordercontrollers.PendingByParty(orderService, logg))
				r.Get("/{id}", ordercontrollers.Get(orderService, logg))
				r.With(staffOnly).Put("/{id}", ordercontrollers.Update(orderService, logg))
				r.With(staffOnly).Delete("/{id}", ordercontrollers.Delete(orderService, logg))
				r.With(staffOnly).Put("/{id}/complete", ordercontrollers.Complete(orderService, logg))
				r.With(staffOnly).Put("/{id}/pending", ordercontrollers.SetPending(orderService, logg))
				r.With(staffOnly).Put("/{id}/lines/{lineId}/ship", ordercontrollers.ShipLine(orderService, logg))
			})

			r.With(ownerOnly).Get("/logs", controllers.AuditLogs(auditLogs, logg))

			r.Route("/statistics", func(r chi.Router) {
				r.Use(ownerOnly)
				r.Get("/latest", controllers.StatisticsLatest(statisticsService, logg))
				r.Get("/order-time-series", controllers.StatisticsTimeSeries(statisticsService, logg))
				r.Post("/update", controllers.StatisticsUpdate(statisticsService, logg))
				r.Get("/report.pdf", controllers.StatisticsReport(statisticsService, logg))
			})
		})
	})

	return r
}
