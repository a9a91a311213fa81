package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vbonduro/salonbook/internal/config"
	"github.com/vbonduro/salonbook/internal/logging"
	"github.com/vbonduro/salonbook/internal/service"
	"github.com/vbonduro/salonbook/internal/store"
	"github.com/vbonduro/salonbook/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs := store.Connect(cfg.DatabaseURL, cfg.DatabaseName, logger)
	defer func() {
		if err := docs.Close(); err != nil {
			logger.Error("failed to close document store", "error", err)
		}
	}()

	server := web.NewServer(
		service.NewReviewService(docs, logger),
		service.NewAppointmentService(docs, logger),
		service.NewDiagnosticsService(docs, cfg.DatabaseURLSet(), cfg.DatabaseNameSet()),
		cfg.CORSOrigins,
		logger,
	)

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
