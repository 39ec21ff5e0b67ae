package dto

import (
	"time"

	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ReconcileResponse is the full outcome of one reconciliation request.
type ReconcileResponse struct {
	RunID       string                 `json:"run_id"`
	Summary     recon.Summary          `json:"summary"`
	Rows        []recon.ComparisonRow  `json:"comparison_table"`
	Totals      recon.TotalsComparison `json:"totals_comparison"`
	Diagnostics engine.Diagnostics     `json:"diagnostics"`
}

// NewReconcileResponse wraps an engine result for the wire.
func NewReconcileResponse(runID string, res *engine.Result) ReconcileResponse {
	return ReconcileResponse{
		RunID:       runID,
		Summary:     res.Summary,
		Rows:        res.Rows,
		Totals:      res.Totals,
		Diagnostics: res.Diagnostics,
	}
}
