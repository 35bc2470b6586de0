// README: Entry point; loads config, wires services, serves the planner UI and shuts down gracefully.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nomad/internal/config"
	httptransport "nomad/internal/http"
	"nomad/internal/infra"
	"nomad/internal/logger"
	"nomad/internal/metrics"
	"nomad/internal/modules/itinerary"
	"nomad/internal/modules/places"
	"nomad/internal/modules/planner"
	"nomad/internal/modules/session"
	"nomad/internal/modules/workspace"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.LogLevel, zap.String("service", "nomad-web"))
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openTokenStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()

	client, err := itinerary.NewClient(itinerary.ClientConfig{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		Recorder: m,
	})
	if err != nil {
		return err
	}

	placesSvc, err := places.NewService(cfg.Maps.APIKey, "en")
	if err != nil {
		return err
	}
	if !placesSvc.Enabled() {
		lg.Info("GOOGLE_MAPS_API_KEY not set, place suggestions disabled")
	}

	registry := workspace.NewRegistry(workspace.RegistryConfig{
		TTL:   cfg.Workspace.TTL,
		Store: store,
		Log:   lg,
		Gauge: m,
	})

	server := httptransport.NewServer(httptransport.ServerDeps{
		Log:            lg,
		Registry:       registry,
		Planner:        planner.NewService(client, lg, m),
		Places:         placesSvc,
		Metrics:        m,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		CookieMaxAge:   cfg.Workspace.TTL,
		SecureCookies:  cfg.HTTP.SecureCookies,
	})
	handler, err := server.Routes()
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("nomad-web listening", zap.String("addr", cfg.HTTP.Addr), zap.String("api_url", client.BaseURL()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return registry.RunJanitor(gctx, time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		lg.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openTokenStore picks the session token backend named in the config.
func openTokenStore(ctx context.Context, cfg config.Config, lg *zap.Logger) (session.TokenStore, func(), error) {
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		lg.Info("token store: redis", zap.String("addr", cfg.Redis.Addr))
		return session.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	case config.TokenStorePostgres:
		if err := infra.RunMigrations(cfg.DB.DSN, lg); err != nil {
			return nil, nil, err
		}
		pool, err := infra.NewDB(ctx, cfg.DB.DSN, lg)
		if err != nil {
			return nil, nil, err
		}
		lg.Info("token store: postgres")
		return session.NewPostgresStore(pool), pool.Close, nil
	default:
		lg.Info("token store: memory")
		return session.NewMemoryStore(), func() {}, nil
	}
}
