package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"idsynth/internal/identity/fieldcrypt"
	"idsynth/internal/identity/handler"
	identitymetrics "idsynth/internal/identity/metrics"
	"idsynth/internal/identity/prediction"
	"idsynth/internal/identity/prediction/forest"
	"idsynth/internal/identity/service"
	"idsynth/internal/identity/store"
	"idsynth/internal/platform/config"
	"idsynth/internal/platform/httpserver"
	"idsynth/internal/platform/logger"
	httpmetrics "idsynth/internal/platform/metrics"
	"idsynth/pkg/platform/middleware/metadata"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and keeps the server lifecycle small. Pipeline
// logic lives in internal/identity.
func main() {
	if err := run(); err != nil {
		slog.Error("idsynth exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	identityMetrics := identitymetrics.New(reg)

	forestCfg := forest.DefaultConfig()
	forestCfg.Trees = cfg.Model.Trees
	forestCfg.Seed = cfg.Model.Seed
	model := prediction.New(
		prediction.WithForestConfig(forestCfg),
		prediction.WithTestFraction(cfg.Model.TestFraction),
		prediction.WithLogger(log),
		prediction.WithMetrics(identityMetrics),
	)

	cipher, err := fieldcrypt.New()
	if err != nil {
		return err
	}

	system, err := service.New(
		service.WithLogger(log),
		service.WithMetrics(identityMetrics),
		service.WithModel(model),
		service.WithCipher(cipher),
		service.WithCodec(store.New(store.WithLogger(log), store.WithMetrics(identityMetrics))),
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(metadata.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(httpmetrics.New(reg).Middleware)
	handler.New(system, cfg.DataDir, log, handler.WithSQLDSN(cfg.SQLDSN)).Register(router)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting idsynth", "addr", cfg.Addr, "data_dir", cfg.DataDir, "key_id", cipher.KeyID())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down idsynth")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
