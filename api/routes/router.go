package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mobimart/mobimart-backend/api/controllers"
	"github.com/mobimart/mobimart-backend/api/middleware"
	"github.com/mobimart/mobimart-backend/internal/auth"
	"github.com/mobimart/mobimart-backend/internal/cart"
	"github.com/mobimart/mobimart-backend/internal/catalog"
	syncbus "github.com/mobimart/mobimart-backend/internal/sync"
	"github.com/mobimart/mobimart-backend/internal/wishlist"
	"github.com/mobimart/mobimart-backend/pkg/auth/session"
	"github.com/mobimart/mobimart-backend/pkg/config"
	"github.com/mobimart/mobimart-backend/pkg/logger"
	"github.com/mobimart/mobimart-backend/pkg/metrics"
	"github.com/mobimart/mobimart-backend/pkg/redis"
)

// Deps carries everything the HTTP surface is wired with.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        controllers.Pinger
	RedisClient     *redis.Client
	SessionManager  session.AccessSessionChecker
	AuthService     auth.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	WishlistService wishlist.Service
	Users           controllers.UserFinder
	Mirror          *syncbus.Mirror
	HTTPMetrics     *metrics.HTTPMetrics
	PromGatherer    prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(deps.DBPinger, deps.RedisClient)))
	})

	if deps.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.GuestToken())
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, cfg.JWT, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
	})
	r.Route("/api/v1/accessories", func(r chi.Router) {
		r.Get("/", controllers.AccessoryList(deps.CatalogService, logg))
		r.Get("/{accessoryId}", controllers.AccessoryDetail(deps.CatalogService, logg))
	})

	// Cart endpoints serve signed-in users and guests alike: the owner is
	// resolved from the JWT when present, else from the guest token.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.GuestToken())
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.SessionManager, logg))
		r.Post("/add", controllers.CartAdd(deps.CartService, logg))
		r.Put("/", controllers.CartReplace(deps.CartService, logg))
		r.Delete("/", controllers.CartClear(deps.CartService, logg))
		r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
		r.Get("/{userId}", controllers.CartFetch(deps.CartService, deps.Users, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Post("/add", controllers.WishlistAdd(deps.WishlistService, logg))
		r.Put("/", controllers.WishlistReplace(deps.WishlistService, logg))
		r.Delete("/items/{productId}", controllers.WishlistRemove(deps.WishlistService, logg))
		r.Get("/{userId}", controllers.WishlistFetch(deps.WishlistService, deps.Users, logg))
	})

	r.Route("/api/v1/state", func(r chi.Router) {
		r.Use(middleware.GuestToken())
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.SessionManager, logg))
		r.Get("/", controllers.StateSnapshot(deps.Mirror, logg))
	})

	return r
}
