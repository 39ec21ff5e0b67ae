package cli

import (
	"flag"

	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/infrastructure/config"
)

// ReconcileFlags are the flags for the reconcile command. Comparison
// options default to the loaded configuration.
type ReconcileFlags struct {
	ReconciliationPath string
	InvoicePath        string
	ReportPath         string
	JSON               bool
	Verbose            bool

	VATTolerance         float64
	AmountTolerance      float64
	Fuzzy                bool
	FuzzyThreshold       float64
	CompareAfterDiscount bool
}

// ParseReconcileFlags parses the reconcile command line. defaults seeds
// the comparison flags so unset flags keep the configured behavior.
func ParseReconcileFlags(defaults config.ReconConfig) *ReconcileFlags {
	flags := &ReconcileFlags{}
	flag.StringVar(&flags.ReconciliationPath, "recon", "", "Path to the reconciliation worksheet (.xlsx)")
	flag.StringVar(&flags.InvoicePath, "invoice", "", "Path to the invoice (.xlsx, .xml, .pdf, or image)")
	flag.StringVar(&flags.ReportPath, "report", "", "Write an Excel report to this path")
	flag.BoolVar(&flags.JSON, "json", false, "Print the full result as JSON")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")

	flag.Float64Var(&flags.VATTolerance, "vat-tolerance", defaults.VATTolerance, "Relative tolerance for VAT fields, in [0,1)")
	flag.Float64Var(&flags.AmountTolerance, "amount-tolerance", defaults.AmountTolerance, "Relative tolerance for amounts, in [0,1)")
	flag.BoolVar(&flags.Fuzzy, "fuzzy", defaults.FuzzyMatch, "Enable fuzzy product name matching")
	flag.Float64Var(&flags.FuzzyThreshold, "fuzzy-threshold", defaults.FuzzyThreshold, "Similarity score a fuzzy pairing must reach (0 = default)")
	flag.BoolVar(&flags.CompareAfterDiscount, "after-discount", defaults.CompareAfterDiscount, "Compare amounts net of discount")
	flag.Parse()
	return flags
}

// EngineOptions converts the parsed flags to engine options.
func (f *ReconcileFlags) EngineOptions() engine.Options {
	return engine.Options{
		VATTolerance:         f.VATTolerance,
		AmountTolerance:      f.AmountTolerance,
		FuzzyMatch:           f.Fuzzy,
		FuzzyThreshold:       f.FuzzyThreshold,
		CompareAfterDiscount: f.CompareAfterDiscount,
	}
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port    int
	Verbose bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags(defaultPort int) *ServeFlags {
	flags := &ServeFlags{}
	flag.IntVar(&flags.Port, "port", defaultPort, "Port to listen on")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
