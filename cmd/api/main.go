package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/fueltrips-backend/api/routes"
	"github.com/angelmondragon/fueltrips-backend/internal/auth"
	"github.com/angelmondragon/fueltrips-backend/internal/trips"
	"github.com/angelmondragon/fueltrips-backend/internal/users"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
	"github.com/angelmondragon/fueltrips-backend/pkg/metrics"
	"github.com/angelmondragon/fueltrips-backend/pkg/migrate"
	"github.com/angelmondragon/fueltrips-backend/pkg/redis"
	"github.com/angelmondragon/fueltrips-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		Hasher:    security.NewHasher(cfg.Password),
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		return err
	}

	tripService, err := trips.NewService(trips.ServiceParams{
		DB:      dbClient,
		Metrics: metrics.NewTripMetrics(reg),
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, reg, metrics.NewHTTPMetrics(reg), dbClient, redisClient, userRepo, authService, tripService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Driver(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
