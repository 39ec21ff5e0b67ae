// Package totals cross-checks the sparse document-level aggregates of the
// two sources: VAT rate, VAT amount, pre-tax total and total payment.
package totals

import (
	"github.com/auditlab/invoice-reconciler/internal/domain/compare"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

// Reconcile compares the recognized totals fields of both documents. The
// VAT tolerance applies to vat_rate and vat_amount, the amount tolerance
// to total_before_tax and total_payment.
//
// A field missing on either side is recorded with the values that do
// exist and excluded from the overall verdict; only fields stated by both
// documents can make the totals disagree.
func Reconcile(reconciliation, invoice recon.Totals, amountTolerance, vatTolerance float64) recon.TotalsComparison {
	out := recon.TotalsComparison{
		Fields: make(map[recon.TotalField]recon.FieldComparison, len(recon.TotalFields)),
		Match:  true,
	}

	for _, field := range recon.TotalFields {
		tol := amountTolerance
		if field == recon.TotalVATRate || field == recon.TotalVATAmount {
			tol = vatTolerance
		}

		left, leftOK := reconciliation[field]
		right, rightOK := invoice[field]

		fc := recon.FieldComparison{}
		if leftOK {
			fc.Reconciliation = ptr(left)
		}
		if rightOK {
			fc.Invoice = ptr(right)
		}
		if leftOK && rightOK {
			fc.Match = compare.NumericMatch(left, right, tol)
			if !fc.Match {
				out.Match = false
			}
		}
		out.Fields[field] = fc
	}

	return out
}

func ptr(v float64) *float64 { return &v }
