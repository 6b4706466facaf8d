package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/napolitain/lastwar-buildtime/internal/config"
	"github.com/napolitain/lastwar-buildtime/internal/httpapi"
	"github.com/napolitain/lastwar-buildtime/internal/loader"
	"github.com/napolitain/lastwar-buildtime/internal/logs"
)

var configPath = flag.String("config", "", "Path to YAML config file")

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	cfgLoader, err := config.NewLoader(path)
	if err != nil {
		return err
	}
	cfg, err := cfgLoader.Config()
	if err != nil {
		return err
	}

	log := logs.New("lwcalc", cfg.Log)
	defer func() { _ = log.Close() }()

	cfgLoader.Watch(func(next config.Config, err error) {
		if err != nil {
			log.Warn("config reload rejected", zap.Error(err))
			return
		}
		log.SetLevel(next.Log.Level)
		log.Info("config reloaded", zap.String("log_level", next.Log.Level))
	})

	srv, err := newServer(cfg, log.Logger, time.Now)
	if err != nil {
		return err
	}
	return serve(ctx, srv, cfg.Server.ShutdownGrace, log.Logger)
}

// newServer loads the catalog named by cfg and wires it into an HTTP server
func newServer(cfg config.Config, log *zap.Logger, now func() time.Time) (*httpapi.Server, error) {
	cat, err := loader.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	loc, err := cfg.Calculator.Location()
	if err != nil {
		return nil, err
	}
	policy := cfg.Calculator.Policy()

	log.Info("catalog loaded",
		zap.Int("buildings", len(cat.Buildings())),
		zap.Int("transitions", cat.Len()),
		zap.String("source", catalogSource(cfg.Catalog.Path)),
	)

	if !cfg.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	h := httpapi.NewHandler(cat, httpapi.Options{
		Policy:   &policy,
		Location: loc,
		Now:      now,
	})
	return httpapi.NewServer(cfg.Server, httpapi.NewEngine(h, log)), nil
}

// serve runs srv until ctx is done, then shuts it down within grace
func serve(ctx context.Context, srv *httpapi.Server, grace time.Duration, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started", zap.String("addr", srv.Addr()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve failed: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("http server stopped")
	return nil
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
