// Package engine orchestrates one reconciliation run: normalization of
// both documents, line-item matching, totals cross-checking and summary
// aggregation.
//
// The engine is pure and stateless. It holds no shared mutable state, so
// a single Engine may serve concurrent runs over different document
// pairs; every Result is freshly allocated.
package engine

import (
	"errors"
	"fmt"

	"github.com/auditlab/invoice-reconciler/internal/domain/matcher"
	"github.com/auditlab/invoice-reconciler/internal/domain/normalize"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
	"github.com/auditlab/invoice-reconciler/internal/domain/totals"
)

// ErrInvalidTolerance reports a tolerance configured outside [0,1). An
// out-of-range tolerance silently changes matching semantics, so it is
// rejected before any comparison runs.
var ErrInvalidTolerance = errors.New("tolerance must be in [0,1)")

// ErrInvalidFuzzyThreshold reports a fuzzy acceptance threshold outside (0,1].
var ErrInvalidFuzzyThreshold = errors.New("fuzzy threshold must be in (0,1]")

// Options configures one reconciliation run.
type Options struct {
	// VATTolerance is the relative tolerance for vat_rate and vat_amount
	// totals, a fraction in [0,1).
	VATTolerance float64
	// AmountTolerance is the relative tolerance for line-item fields and
	// the monetary totals, a fraction in [0,1).
	AmountTolerance float64
	// FuzzyMatch enables similarity-based pairing when exact match-key
	// lookup fails.
	FuzzyMatch bool
	// FuzzyThreshold overrides the fuzzy acceptance score; zero keeps the
	// default of matcher.DefaultFuzzyThreshold.
	FuzzyThreshold float64
	// CompareAfterDiscount makes line-amount comparison use the stated
	// amount net of discount.
	CompareAfterDiscount bool
}

// Validate rejects configurations that would silently change matching
// semantics. It runs before any comparison.
func (o Options) Validate() error {
	if o.VATTolerance < 0 || o.VATTolerance >= 1 {
		return fmt.Errorf("vat_tolerance %v: %w", o.VATTolerance, ErrInvalidTolerance)
	}
	if o.AmountTolerance < 0 || o.AmountTolerance >= 1 {
		return fmt.Errorf("amount_tolerance %v: %w", o.AmountTolerance, ErrInvalidTolerance)
	}
	if o.FuzzyThreshold < 0 || o.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold %v: %w", o.FuzzyThreshold, ErrInvalidFuzzyThreshold)
	}
	return nil
}

// Source is one side's input: the raw line items and sparse totals a
// document parser extracted.
type Source struct {
	LineItems []recon.RawLineItem
	Totals    recon.Totals
}

// Input is one document pair.
type Input struct {
	Reconciliation Source
	Invoice        Source
}

// Diagnostics counts rows silently discarded during normalization so the
// caller can surface them.
type Diagnostics struct {
	ReconciliationDropped int `json:"reconciliation_dropped"`
	InvoiceDropped        int `json:"invoice_dropped"`
}

// Result is the complete outcome of one run. Rows, Totals and Summary are
// produced together; a failing run yields no partial output.
type Result struct {
	Rows        []recon.ComparisonRow  `json:"comparison_table"`
	Totals      recon.TotalsComparison `json:"totals_comparison"`
	Summary     recon.Summary          `json:"summary"`
	Diagnostics Diagnostics            `json:"diagnostics"`
}

// Engine runs reconciliations with a fixed, validated configuration.
type Engine struct {
	opts Options
}

// New validates the options and returns an engine. Invalid tolerance
// configuration fails here, before any document is touched.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

// Run reconciles one document pair.
func (e *Engine) Run(in Input) (*Result, error) {
	normLeft := normalize.Normalize(in.Reconciliation.LineItems, recon.OriginReconciliation, e.opts.CompareAfterDiscount)
	normRight := normalize.Normalize(in.Invoice.LineItems, recon.OriginInvoice, e.opts.CompareAfterDiscount)

	m := matcher.New(matcher.Config{
		AmountTolerance: e.opts.AmountTolerance,
		Fuzzy:           e.opts.FuzzyMatch,
		FuzzyThreshold:  e.opts.FuzzyThreshold,
	})
	rows := m.Match(normLeft.Items, normRight.Items)

	totalsCmp := totals.Reconcile(in.Reconciliation.Totals, in.Invoice.Totals,
		e.opts.AmountTolerance, e.opts.VATTolerance)

	return &Result{
		Rows:    rows,
		Totals:  totalsCmp,
		Summary: summarize(rows, totalsCmp),
		Diagnostics: Diagnostics{
			ReconciliationDropped: normLeft.Dropped,
			InvoiceDropped:        normRight.Dropped,
		},
	}, nil
}

// Reconcile is the one-shot form: validate, run, report.
func Reconcile(in Input, opts Options) (*Result, error) {
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	return e.Run(in)
}
