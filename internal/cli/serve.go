package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auditlab/invoice-reconciler/internal/api"
	"github.com/auditlab/invoice-reconciler/internal/infrastructure/config"
	"github.com/auditlab/invoice-reconciler/internal/infrastructure/logging"
	"github.com/auditlab/invoice-reconciler/internal/ingest"
	"github.com/auditlab/invoice-reconciler/internal/parsers/scan"
)

// RunServe runs the API server.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithScope(loggingCfg, "api")

	// OCR engine lives for the whole server process when enabled
	var ocr *scan.Engine
	if cfg.OCR.Enabled {
		var err error
		ocr, err = scan.NewEngine(scan.Config{
			Languages:      cfg.OCR.Languages,
			TessdataPrefix: cfg.OCR.TessdataPrefix,
		})
		if err != nil {
			return err
		}
		defer func() { _ = ocr.Close() }()
		logger.Info("ocr engine ready", "languages", cfg.OCR.Languages)
	}

	loader := ingest.NewLoader(ocr, logger)

	apiCfg := api.Config{
		Port:           flags.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadMB:    cfg.Server.MaxUploadMB,
	}
	server := api.NewServer(apiCfg, loader, cfg.Recon.EngineOptions(), logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
