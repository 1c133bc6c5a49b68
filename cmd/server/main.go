package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitease/internal/auth"
	"github.com/mmynk/splitease/internal/config"
	"github.com/mmynk/splitease/internal/ledger"
	"github.com/mmynk/splitease/internal/middleware"
	"github.com/mmynk/splitease/internal/service"
	"github.com/mmynk/splitease/internal/storage"
	"github.com/mmynk/splitease/internal/storage/postgres"
	"github.com/mmynk/splitease/internal/storage/sqlite"
	"github.com/mmynk/splitease/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	l := ledger.New(store, ledger.WithPayeeCredit(cfg.WalletCreditPayee))
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	// Auth runs before logging so log lines carry the user ID
	public := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)
	protected := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	mount := func(path string, handler http.Handler) {
		r.Handle(path+"*", handler)
	}
	mount(service.NewAuthServiceHandler(service.NewAuthService(authenticator, store, jwtManager, logger), public))
	mount(service.NewGroupServiceHandler(service.NewGroupService(l), protected))
	mount(service.NewExpenseServiceHandler(service.NewExpenseService(l), protected))
	mount(service.NewWalletServiceHandler(service.NewWalletService(l), protected))

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "payee_credit", cfg.WalletCreditPayee)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutdown signal received, draining connections", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	default:
		return sqlite.New(cfg.DBPath)
	}
}
