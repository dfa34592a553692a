package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corrplot/internal"
	"corrplot/internal/chart"
	"corrplot/internal/config"
	"corrplot/internal/session"
	"corrplot/ui"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	internal.DefaultLogger = internal.NewLogger(
		internal.ParseLogLevel(appConfig.Logging.Level),
		appConfig.Logging.Format,
		os.Stderr,
	)
	logger := internal.DefaultLogger.Component("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run serves until ctx is cancelled or one of the servers fails
func run(ctx context.Context, appConfig *config.Config, logger *internal.Logger) error {
	store := session.NewStore(appConfig.Session.TTL)

	server, err := ui.NewServer(store, ui.Options{
		GinMode:          appConfig.Server.GinMode,
		MaxUploadBytes:   appConfig.Upload.MaxUploadBytes(),
		PreviewRows:      appConfig.Upload.PreviewRows,
		UploadRatePerSec: appConfig.Upload.RatePerSec,
		UploadBurst:      appConfig.Upload.Burst,
		Chart: chart.Options{
			Width:  appConfig.Chart.Width,
			Height: appConfig.Chart.Height,
		},
	})
	if err != nil {
		return err
	}

	// net/http reports accept and TLS errors through the component logger
	errorLog := slog.NewLogLogger(logger.Slog().Handler(), slog.LevelError)

	servers := []*http.Server{{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          errorLog,
	}}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		r := chi.NewRouter()
		r.Mount("/debug", middleware.Profiler())
		servers = append(servers, &http.Server{
			Addr:              ":" + appConfig.Profiling.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          errorLog,
		})
		logger.Info("profiling enabled",
			"port", appConfig.Profiling.Port,
			"hint", "go tool pprof -http=:8081 http://localhost:"+appConfig.Profiling.Port+"/debug/pprof/profile?seconds=30")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return store.Run(gctx, appConfig.Session.SweepInterval)
	})

	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down", "timeout", appConfig.Server.ShutdownTimeout)
		var firstErr error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})

	return g.Wait()
}
