package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/infrastructure/config"
	"github.com/auditlab/invoice-reconciler/internal/infrastructure/logging"
	"github.com/auditlab/invoice-reconciler/internal/ingest"
	"github.com/auditlab/invoice-reconciler/internal/parsers"
	"github.com/auditlab/invoice-reconciler/internal/parsers/scan"
	"github.com/auditlab/invoice-reconciler/internal/report"
)

// RunReconcile runs one reconciliation from the command line.
func RunReconcile(cfg *config.Config, flags *ReconcileFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithScope(loggingCfg, "cli")

	if flags.ReconciliationPath == "" || flags.InvoicePath == "" {
		return fmt.Errorf("both -recon and -invoice are required")
	}

	var ocr *scan.Engine
	if needsOCR(cfg, flags.InvoicePath) {
		var err error
		ocr, err = scan.NewEngine(scan.Config{
			Languages:      cfg.OCR.Languages,
			TessdataPrefix: cfg.OCR.TessdataPrefix,
		})
		if err != nil {
			return fmt.Errorf("initialize ocr: %w", err)
		}
		defer func() { _ = ocr.Close() }()
	}

	loader := ingest.NewLoader(ocr, logger)

	reconData, err := os.ReadFile(flags.ReconciliationPath)
	if err != nil {
		return err
	}
	invoiceData, err := os.ReadFile(flags.InvoicePath)
	if err != nil {
		return err
	}

	reconDoc, err := loader.LoadReconciliation(reconData, flags.ReconciliationPath)
	if err != nil {
		return err
	}
	invoiceDoc, err := loader.LoadInvoice(invoiceData, flags.InvoicePath)
	if err != nil {
		return err
	}

	res, err := engine.Reconcile(engine.Input{
		Reconciliation: engine.Source{LineItems: reconDoc.LineItems, Totals: reconDoc.Totals},
		Invoice:        engine.Source{LineItems: invoiceDoc.LineItems, Totals: invoiceDoc.Totals},
	}, flags.EngineOptions())
	if err != nil {
		return err
	}

	if flags.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		PrintResult(os.Stdout, res)
	}

	if flags.ReportPath != "" {
		f, err := report.Generate(res)
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := f.SaveAs(flags.ReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", flags.ReportPath)
	}

	return nil
}

// needsOCR reports whether the invoice path requires the Tesseract
// engine. The engine is only initialized when an image is actually
// submitted, since it binds native resources.
func needsOCR(cfg *config.Config, invoicePath string) bool {
	return cfg.OCR.Enabled && parsers.DetectFormat(invoicePath) == parsers.FormatImage
}
