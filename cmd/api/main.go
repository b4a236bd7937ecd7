package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mobimart/mobimart-backend/api/routes"
	"github.com/mobimart/mobimart-backend/internal/auth"
	"github.com/mobimart/mobimart-backend/internal/cart"
	"github.com/mobimart/mobimart-backend/internal/catalog"
	syncbus "github.com/mobimart/mobimart-backend/internal/sync"
	"github.com/mobimart/mobimart-backend/internal/users"
	"github.com/mobimart/mobimart-backend/internal/wishlist"
	"github.com/mobimart/mobimart-backend/pkg/auth/session"
	"github.com/mobimart/mobimart-backend/pkg/config"
	"github.com/mobimart/mobimart-backend/pkg/db"
	"github.com/mobimart/mobimart-backend/pkg/logger"
	"github.com/mobimart/mobimart-backend/pkg/metrics"
	"github.com/mobimart/mobimart-backend/pkg/migrate"
	"github.com/mobimart/mobimart-backend/pkg/redis"
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

	catalogRepo := catalog.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	resolver, err := catalog.NewResolver(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog resolver", err)
		os.Exit(1)
	}

	bus := syncbus.NewBus(0)
	defer bus.Close()

	guestStore, err := cart.NewGuestStore(redisClient, cfg.Cart.GuestTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest cart store", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Logger:      logg,
		ServerStore: cart.NewRepository(dbClient.DB()),
		GuestStore:  guestStore,
		Resolver:    resolver,
		Catalog:     catalogRepo,
		Bus:         bus,
		MaxQuantity: cfg.Cart.MaxQuantity,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Logger:   logg,
		Repo:     wishlist.NewRepository(dbClient.DB()),
		Resolver: resolver,
		Catalog:  catalogRepo,
		Bus:      bus,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	mirror, err := syncbus.NewMirror(bus, snapshotFetcher(cartService, wishlistService))
	if err != nil {
		logg.Error(context.Background(), "failed to create state mirror", err)
		os.Exit(1)
	}
	defer mirror.Close()

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		CartMerger:     cartService,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisClient:     redisClient,
			SessionManager:  sessionManager,
			AuthService:     authService,
			CatalogService:  catalogService,
			CartService:     cartService,
			WishlistService: wishlistService,
			Users:           userRepo,
			Mirror:          mirror,
			HTTPMetrics:     httpMetrics,
			PromGatherer:    promRegistry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// snapshotFetcher rebuilds an owner's mirrored state from the authoritative
// services. Owner keys are either a user id or an opaque guest token; guests
// have no wishlist.
func snapshotFetcher(carts cart.Service, wishlists wishlist.Service) syncbus.SnapshotFunc {
	return func(ctx context.Context, key string) (syncbus.Snapshot, error) {
		owner := cart.Owner{GuestToken: key}
		if id, err := uuid.Parse(key); err == nil {
			owner = cart.Owner{UserID: id}
		}

		cartDTO, err := carts.GetCart(ctx, owner)
		if err != nil {
			return syncbus.Snapshot{}, err
		}

		snapshot := syncbus.Snapshot{Cart: cartDTO}
		if !owner.IsGuest() {
			wishlistDTO, err := wishlists.GetWishlist(ctx, owner.UserID)
			if err != nil {
				return syncbus.Snapshot{}, err
			}
			snapshot.Wishlist = wishlistDTO
		}
		return snapshot, nil
	}
}
