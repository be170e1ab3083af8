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

	"smpeduli/internal/bankdir"
	"smpeduli/internal/catalog"
	"smpeduli/internal/donation"
	"smpeduli/internal/gateway"
	"smpeduli/internal/http/handlers"
	httpapi "smpeduli/internal/http/httpapi"
	"smpeduli/internal/infra"
	"smpeduli/internal/web"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Klien API platform donasi
	client, err := gateway.NewClient(gateway.Options{
		Host:           cfg.APIHost,
		APIKey:         cfg.APIKey,
		Logger:         &logger,
		RequestTimeout: cfg.APIRequestTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build API client")
	}

	views, err := web.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	// Penyimpanan sesi wizard + sweeper
	store := donation.NewStore(cfg.WorkflowTTL)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go store.Run(sweepCtx, time.Minute)

	// App container
	app := handlers.NewApp(
		catalog.NewProvider(client),
		bankdir.NewProvider(client),
		client,
		store,
		client,
		views,
		logger,
	)

	router := httpapi.NewRouter(cfg, logger, app)
	server := infra.NewHTTPServer(cfg, router)

	// Start async
	go func() {
		logger.Info().Msgf("web listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
