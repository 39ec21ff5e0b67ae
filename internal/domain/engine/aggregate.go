package engine

import "github.com/auditlab/invoice-reconciler/internal/domain/recon"

// summarize counts rows by status and carries the totals verdict through.
// Mismatched covers every row that is not a clean match: field-level
// mismatches plus items missing from or extra in the invoice.
func summarize(rows []recon.ComparisonRow, t recon.TotalsComparison) recon.Summary {
	s := recon.Summary{
		TotalItems:  len(rows),
		TotalsMatch: t.Match,
	}
	for _, row := range rows {
		if row.Status == recon.StatusMatch {
			s.MatchedItems++
		} else {
			s.MismatchedItems++
		}
	}
	return s
}
