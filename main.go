// Command statcan-tables-api serves download URLs and metadata for
// Statistics Canada data tables.
package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shinysc/statcan-tables-api/config"
	"github.com/shinysc/statcan-tables-api/data"
	"github.com/shinysc/statcan-tables-api/handlers"
	"github.com/shinysc/statcan-tables-api/health"
	"github.com/shinysc/statcan-tables-api/logging"
	"github.com/shinysc/statcan-tables-api/scheduler"
	"github.com/shinysc/statcan-tables-api/server"
	"github.com/shinysc/statcan-tables-api/statcan"
	"github.com/shinysc/statcan-tables-api/validation"
)

func main() {
	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	dataStore := data.NewContainer(cfg.MetadataCacheSize, cfg.MetadataCacheTTL)
	client := statcan.NewClient(cfg.WDSBaseURL, cfg.WDSTimeout)

	refresher := scheduler.NewRefreshScheduler(dataStore, client)
	if err := refresher.Start(); err != nil {
		logging.Error("Failed to start the refresh scheduler", "error", err)
		os.Exit(1)
	}
	defer refresher.Stop()

	handler := handlers.NewHTTPHandler(
		dataStore,
		client,
		validation.NewInputValidator(),
		health.NewHealthChecker(dataStore),
	)

	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
