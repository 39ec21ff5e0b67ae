package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

// PrintResult writes the human-readable run outcome: one line per
// comparison row, the totals cross-check, and the summary counts.
func PrintResult(w io.Writer, res *engine.Result) {
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, row := range res.Rows {
		fmt.Fprintln(w, formatRow(row))
	}

	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, field := range recon.TotalFields {
		fc, ok := res.Totals.Fields[field]
		if !ok || (fc.Reconciliation == nil && fc.Invoice == nil) {
			continue
		}
		fmt.Fprintf(w, "%-18s %14s %14s  %s\n",
			field, formatOptional(fc.Reconciliation), formatOptional(fc.Invoice), totalsVerdict(fc))
	}

	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "Summary: rows=%d matched=%d review=%d totals_match=%v\n",
		res.Summary.TotalItems,
		res.Summary.MatchedItems,
		res.Summary.MismatchedItems,
		res.Summary.TotalsMatch)

	if res.Diagnostics.ReconciliationDropped > 0 || res.Diagnostics.InvoiceDropped > 0 {
		fmt.Fprintf(w, "Dropped nameless rows: worksheet=%d invoice=%d\n",
			res.Diagnostics.ReconciliationDropped,
			res.Diagnostics.InvoiceDropped)
	}
}

func formatRow(row recon.ComparisonRow) string {
	switch row.Status {
	case recon.StatusMissingInInvoice:
		return fmt.Sprintf("%-20s %s", row.Status, row.Left.ProductType)
	case recon.StatusExtraInInvoice:
		return fmt.Sprintf("%-20s %s", row.Status, row.Right.ProductType)
	default:
		line := fmt.Sprintf("%-20s %s", row.Status, row.Left.ProductType)
		if row.Status == recon.StatusMismatch {
			line += " (" + strings.Join(failedFields(row), ", ") + ")"
		}
		return line
	}
}

// failedFields lists the compared fields that disagreed, in a stable
// order.
func failedFields(row recon.ComparisonRow) []string {
	var out []string
	for _, field := range []string{"denomination", "quantity", "amount"} {
		if matched, ok := row.FieldResults[field]; ok && !matched {
			out = append(out, field)
		}
	}
	return out
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func totalsVerdict(fc recon.FieldComparison) string {
	if fc.Reconciliation == nil || fc.Invoice == nil {
		return "only one side"
	}
	if fc.Match {
		return "OK"
	}
	return "MISMATCH"
}
