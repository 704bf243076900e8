// Package main is the entry point for the storefront server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/kv"
	"storefront/internal/middleware"
	"storefront/internal/render"
	"storefront/internal/router"
	"storefront/internal/session"
	"storefront/internal/shop"
	"storefront/internal/store"
	"storefront/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if env := os.Getenv("APP_ENV"); env == "" || env == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
		"sessions", cfg.SessionBackend,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Metrics are always on; tracing only when an OTLP endpoint is set.
	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.OTelServiceName, version)
	if err != nil {
		slog.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer shutdownMeter(context.Background())

	if cfg.OTelEndpoint != "" {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTelEndpoint, cfg.OTelServiceName, version)
		if err != nil {
			slog.Error("failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer shutdownTracer(context.Background())
		slog.Info("tracing enabled", "endpoint", cfg.OTelEndpoint)
	}

	// Connect to Valkey when either backend lives there.
	var valkeyClient *redis.Client
	if cfg.NeedsValkey() {
		valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
	}

	// Open the key-value store the shop state lives in.
	var kvStore kv.Store
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		var db *sql.DB
		db, err = database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		kvStore = kv.NewPostgres(db, cfg.DSN())
	case config.BackendValkey:
		kvStore = kv.NewValkey(valkeyClient)
	default:
		kvStore = kv.NewMemory()
	}

	// Seed the demo catalog and default settings (no-op for keys already set).
	if err := store.Seed(ctx, kvStore); err != nil {
		slog.Error("failed to seed store", "error", err)
		os.Exit(1)
	}

	// Sessions hold each browser's cart and the admin's viewer state.
	// Outside development the cookies are marked Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	var sessionBackend session.Backend = session.NewMemoryBackend()
	if cfg.SessionBackend == config.BackendValkey {
		sessionBackend = session.NewValkeyBackend(valkeyClient)
	}
	sessionStore := session.NewStore(sessionBackend, secureCookies)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// The rendered product grid is cached and dropped whenever a catalog
	// key is written, by this process or any other sharing the store.
	fragments := cache.NewFragmentCache(valkeyClient, cache.DefaultFragmentTTL)
	if err := fragments.Watch(ctx, kvStore); err != nil {
		slog.Error("failed to watch store for catalog changes", "error", err)
		os.Exit(1)
	}

	shopMetrics, err := telemetry.NewShopMetrics(otel.Meter("storefront/shop"))
	if err != nil {
		slog.Error("failed to create shop metrics", "error", err)
		os.Exit(1)
	}

	// Order events are optional.
	var publisher shop.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrdersTopic)
		defer producer.Close()
		publisher = producer
		slog.Info("order events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaOrdersTopic)
	}

	// Initialize data stores and domain services.
	catalogStore := store.NewCatalogStore(kvStore)
	orderStore := store.NewOrderStore(kvStore)
	settingsStore := store.NewSettingsStore(kvStore)

	catalog := shop.NewCatalog(catalogStore)
	settings := shop.NewSettings(settingsStore)
	viewer := shop.NewViewer(orderStore, settingsStore)
	placer := shop.NewOrderPlacer(orderStore, cfg.PaymentDelay, publisher, shopMetrics)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(renderer, sessionStore, catalog, settings, viewer, orderStore, cfg.OrdersPollInterval)
	publicHandlers := handlers.NewPublic(renderer, sessionStore, catalog, settings, placer, fragments)

	// At most 10 checkout submissions per client per minute.
	checkoutLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer checkoutLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:        sessionStore,
		Admin:           adminHandlers,
		Public:          publicHandlers,
		Metrics:         metricsHandler,
		CheckoutLimiter: checkoutLimiter,
		SecureCookies:   secureCookies,
	})

	// WriteTimeout must cover the simulated payment delay.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15*time.Second + cfg.PaymentDelay,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests (including in-flight payments) time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	stop()

	slog.Info("server stopped gracefully")
}
