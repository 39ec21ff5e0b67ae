// Package normalize converts raw, loosely typed line items from either
// document into canonical records with a deterministic matching key.
//
// The policy is deliberately lenient: malformed numeric text becomes 0.0
// rather than an error, because upstream extraction (spreadsheet cells,
// PDF text, OCR) is expected to be noisy. The only row-level drop is an
// item whose product name is empty after trimming; the drop count is
// reported so callers can surface it as a diagnostic.
package normalize

import (
	"strings"

	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

// Result is the outcome of normalizing one document's line items.
type Result struct {
	Items   []recon.CanonicalLineItem
	Dropped int // rows discarded for an empty product name
}

// Normalize converts raw items into canonical form, tagging each with its
// origin. When compareAfterDiscount is set, the comparison amount is the
// stated amount net of discount; the stated amount is kept for display.
func Normalize(raw []recon.RawLineItem, origin recon.Origin, compareAfterDiscount bool) Result {
	res := Result{Items: make([]recon.CanonicalLineItem, 0, len(raw))}

	for _, r := range raw {
		name := strings.TrimSpace(r.ProductType)
		if name == "" {
			res.Dropped++
			continue
		}

		item := recon.CanonicalLineItem{
			ProductType:  name,
			MatchKey:     MatchKey(name),
			Denomination: ParseNumber(r.Denomination),
			Quantity:     ParseNumber(r.Quantity),
			Amount:       ParseNumber(r.Amount),
			Discount:     ParseNumber(r.Discount),
			Origin:       origin,
		}
		item.CompareAmount = item.Amount
		if compareAfterDiscount {
			item.CompareAmount = item.Amount - item.Discount
		}
		res.Items = append(res.Items, item)
	}
	return res
}

// MatchKey folds a product name into the form used for pairing: lower
// case with runs of whitespace collapsed to single spaces. Diacritics are
// kept as written; Vietnamese product names rely on them to distinguish
// otherwise identical words.
func MatchKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
