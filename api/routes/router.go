package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/fueltrips-backend/api/controllers"
	tripcontrollers "github.com/angelmondragon/fueltrips-backend/api/controllers/trips"
	"github.com/angelmondragon/fueltrips-backend/api/middleware"
	"github.com/angelmondragon/fueltrips-backend/internal/auth"
	"github.com/angelmondragon/fueltrips-backend/internal/trips"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
	"github.com/angelmondragon/fueltrips-backend/pkg/metrics"
	"github.com/angelmondragon/fueltrips-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	userLookup middleware.UserLookup,
	authService auth.Service,
	tripService trips.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// redis is optional; keep the interfaces nil when it is not configured.
	var rateStore middleware.RateLimitStore
	deps := map[string]controllers.Pinger{"db": dbPinger}
	if redisClient != nil {
		rateStore = redisClient
		deps["redis"] = redisClient
	}

	loginPolicy := middleware.AuthRateLimitPolicy{
		Name:       "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
	}
	registerPolicy := middleware.AuthRateLimitPolicy{
		Name:       "register",
		Window:     cfg.AuthRateLimit.RegisterWindow,
		IPLimit:    cfg.AuthRateLimit.RegisterIPLimit,
		EmailLimit: cfg.AuthRateLimit.RegisterEmailLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, userLookup, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", controllers.AuthLogout(logg))
			r.Get("/me", controllers.AuthMe(authService, logg))
			r.Put("/password", controllers.AuthChangePassword(authService, logg))
		})
	})

	r.Route("/api/v1/trips", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", tripcontrollers.List(tripService, logg))
		r.Post("/", tripcontrollers.Create(tripService, logg))
		r.Get("/stats/dashboard", tripcontrollers.Stats(tripService, logg))
		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", tripcontrollers.Get(tripService, logg))
			r.Put("/", tripcontrollers.Update(tripService, logg))
			r.Delete("/", tripcontrollers.Cancel(tripService, logg))
		})
	})

	r.Route("/api/v1/admin/users", func(r chi.Router) {
		r.Use(requireAuth, middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Post("/{userId}/activate", controllers.AdminSetUserActive(authService, true, logg))
		r.Post("/{userId}/deactivate", controllers.AdminSetUserActive(authService, false, logg))
	})

	return r
}
