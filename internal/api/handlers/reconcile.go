package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/auditlab/invoice-reconciler/internal/api/dto"
	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/ingest"
	"github.com/auditlab/invoice-reconciler/internal/parsers/pdftext"
	"github.com/auditlab/invoice-reconciler/internal/report"
)

// form field names for the reconcile endpoints
const (
	fieldReconciliationFile = "reconciliation_file"
	fieldInvoiceFile        = "invoice_file"
)

// ReconcileHandler runs reconciliations over uploaded document pairs.
type ReconcileHandler struct {
	loader    *ingest.Loader
	defaults  engine.Options
	maxUpload int64
	logger    *slog.Logger
}

// NewReconcileHandler creates a reconcile handler. The defaults apply to
// every option a request leaves unset; maxUploadMB bounds the combined
// size of one request's uploads.
func NewReconcileHandler(loader *ingest.Loader, defaults engine.Options, maxUploadMB int, logger *slog.Logger) *ReconcileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileHandler{
		loader:    loader,
		defaults:  defaults,
		maxUpload: int64(maxUploadMB) << 20,
		logger:    logger,
	}
}

// Reconcile handles POST /api/reconcile: multipart upload of the
// worksheet and the invoice, JSON comparison result back.
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}

	runID := uuid.NewString()
	h.logger.Info("reconciliation finished",
		"run_id", runID,
		"rows", res.Summary.TotalItems,
		"matched", res.Summary.MatchedItems,
		"totals_match", res.Summary.TotalsMatch,
	)

	WriteJSON(w, http.StatusOK, dto.NewReconcileResponse(runID, res))
}

// Report handles POST /api/reconcile/report: same input as Reconcile,
// but the response is the rendered Excel workbook.
func (h *ReconcileHandler) Report(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}

	f, err := report.Generate(res)
	if err != nil {
		h.logger.Error("report generation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	defer func() { _ = f.Close() }()

	filename := fmt.Sprintf("reconciliation_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		h.logger.Error("report write failed", "error", err)
	}
}

// run parses the request, loads both documents and executes the engine.
// On failure it writes the error response itself and reports !ok.
func (h *ReconcileHandler) run(w http.ResponseWriter, r *http.Request) (*engine.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid multipart upload: "+err.Error()))
		return nil, false
	}

	opts, err := h.options(r)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, dto.ValidationError(err.Error()))
		return nil, false
	}
	eng, err := engine.New(opts)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, dto.ValidationError(err.Error()))
		return nil, false
	}

	reconData, reconName, err := readUpload(r, fieldReconciliationFile)
	if err != nil {
		WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return nil, false
	}
	invoiceData, invoiceName, err := readUpload(r, fieldInvoiceFile)
	if err != nil {
		WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return nil, false
	}

	reconDoc, err := h.loader.LoadReconciliation(reconData, reconName)
	if err != nil {
		h.writeLoadError(w, err)
		return nil, false
	}
	invoiceDoc, err := h.loader.LoadInvoice(invoiceData, invoiceName)
	if err != nil {
		h.writeLoadError(w, err)
		return nil, false
	}

	res, err := eng.Run(engine.Input{
		Reconciliation: engine.Source{LineItems: reconDoc.LineItems, Totals: reconDoc.Totals},
		Invoice:        engine.Source{LineItems: invoiceDoc.LineItems, Totals: invoiceDoc.Totals},
	})
	if err != nil {
		h.logger.Error("reconciliation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return nil, false
	}
	return res, true
}

// options merges form overrides onto the configured defaults.
func (h *ReconcileHandler) options(r *http.Request) (engine.Options, error) {
	opts := h.defaults

	var err error
	if opts.VATTolerance, err = FormFloat(r, "vat_tolerance", opts.VATTolerance); err != nil {
		return opts, fmt.Errorf("vat_tolerance: %w", err)
	}
	if opts.AmountTolerance, err = FormFloat(r, "amount_tolerance", opts.AmountTolerance); err != nil {
		return opts, fmt.Errorf("amount_tolerance: %w", err)
	}
	if opts.FuzzyThreshold, err = FormFloat(r, "fuzzy_threshold", opts.FuzzyThreshold); err != nil {
		return opts, fmt.Errorf("fuzzy_threshold: %w", err)
	}
	opts.FuzzyMatch = FormBool(r, "fuzzy_match", opts.FuzzyMatch)
	opts.CompareAfterDiscount = FormBool(r, "compare_after_discount", opts.CompareAfterDiscount)
	return opts, nil
}

func (h *ReconcileHandler) writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat), errors.Is(err, ingest.ErrOCRUnavailable):
		WriteError(w, http.StatusUnsupportedMediaType, dto.UnsupportedMediaError(err.Error()))
	case errors.Is(err, pdftext.ErrNoText):
		WriteError(w, http.StatusUnprocessableEntity, dto.ValidationError(
			err.Error()+"; submit the invoice as an image to use OCR"))
	default:
		WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
	}
}

// readUpload reads one uploaded file fully into memory.
func readUpload(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("missing upload %q", field)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload %q: %w", field, err)
	}
	return data, header.Filename, nil
}
