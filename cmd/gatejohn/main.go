package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/gatejohn/internal/config"
	"github.com/dropDatabas3/gatejohn/internal/http/server"
	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

const version = "1.0.0"

func main() {
	// .env opcional, el deploy típico solo usa env vars
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al YAML de configuración (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// logger todavía no inicializado
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "gatejohn",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, opsHandler, cleanup, err := server.Build(ctx, cfg)
	if err != nil {
		log.Fatal("wiring failed", logger.Err(err))
	}
	defer func() { _ = cleanup() }()

	// ping de arranque al provider: no fatal, el provider puede estar
	// temporalmente abajo
	pingProvider(ctx, cfg, log)

	readTO, _ := time.ParseDuration(cfg.Server.ReadTimeout)
	writeTO, _ := time.ParseDuration(cfg.Server.WriteTimeout)

	api := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  readTO,
		WriteTimeout: writeTO,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("api server listening", logger.String("addr", cfg.Server.Addr))
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var ops *http.Server
	if cfg.Server.MetricsAddr != "" {
		ops = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: opsHandler}
		g.Go(func() error {
			log.Info("ops server listening", logger.String("addr", cfg.Server.MetricsAddr))
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		log.Info("shutting down")
		if err := api.Shutdown(shutdownCtx); err != nil {
			log.Warn("api shutdown error", logger.Err(err))
		}
		if ops != nil {
			if err := ops.Shutdown(shutdownCtx); err != nil {
				log.Warn("ops shutdown error", logger.Err(err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server failed", logger.Err(err))
	}
	log.Info("bye")
}

func pingProvider(ctx context.Context, cfg *config.Config, log *zap.Logger) {
	client := identity.New(cfg.Provider.BaseURL, cfg.Provider.AnonKey, cfg.Provider.ServiceKey, cfg.ProviderTimeout())
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		log.Warn("identity provider unreachable at startup", logger.Err(err))
		return
	}
	log.Info("identity provider reachable")
}
