package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/spinlens/internal/adapters/http/api"
	"github.com/okian/spinlens/internal/adapters/http/swagger"
	"github.com/okian/spinlens/internal/adapters/source"
	app "github.com/okian/spinlens/internal/app"
	"github.com/okian/spinlens/internal/config"
	"github.com/okian/spinlens/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	// writeMargin leaves room to encode a report after a slow upstream fetch.
	writeMargin = 10 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)

	handler, err := newHandler(cfg, svc)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build routes", logger.Error(err))
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.Source.Timeout() + writeMargin,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Bool("sourceConfigured", svc.SourceConfigured()),
			logger.String("strategy", cfg.Suggest.Strategy),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService builds the analysis service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithFieldMapping(cfg.Mapping),
		app.WithStrategy(cfg.Suggest.Strategy),
		app.WithK(cfg.Suggest.K),
		app.WithDecay(cfg.Suggest.Decay),
	}
	if cfg.Source.Configured() {
		opts = append(opts,
			app.WithFetcher(source.NewHTTPFetcher(source.WithTimeout(cfg.Source.Timeout()))),
			app.WithSource(source.Request{
				URL:          cfg.Source.URL,
				Headers:      cfg.Source.Headers,
				Params:       cfg.Source.Params,
				RootListPath: cfg.Source.RootListPath,
			}),
		)
	}
	return app.New(opts...)
}

// newHandler registers every route and wraps the mux with CORS.
func newHandler(cfg *config.Config, svc *app.Service) (http.Handler, error) {
	mux := http.NewServeMux()

	if err := swagger.Register(mux); err != nil {
		return nil, err
	}

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(mux)

	return api.WithCORS(mux, cfg.CORSAllowedOrigins), nil
}
