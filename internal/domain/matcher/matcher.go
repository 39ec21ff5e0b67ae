// Package matcher pairs canonical reconciliation items against canonical
// invoice items and produces one comparison row per matched pair or
// unmatched item.
//
// Matching is deterministic: exact match-key lookup first, then an
// optional fuzzy pass over the remaining invoice pool, with fixed
// tie-break rules (closest quantity for duplicate keys, lowest original
// index otherwise). Running it twice on the same inputs yields the same
// rows in the same order.
package matcher

import (
	"github.com/auditlab/invoice-reconciler/internal/domain/compare"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

// DefaultFuzzyThreshold is the acceptance score for fuzzy pairing when
// the caller does not configure one.
const DefaultFuzzyThreshold = 0.8

// Config holds matcher configuration.
type Config struct {
	// AmountTolerance is the relative tolerance applied to denomination,
	// quantity and amount comparisons on paired rows.
	AmountTolerance float64
	// Fuzzy enables similarity-based pairing for items whose match key
	// has no exact counterpart.
	Fuzzy bool
	// FuzzyThreshold is the minimum similarity score an invoice item must
	// reach to be accepted as a fuzzy pair. Zero means DefaultFuzzyThreshold.
	FuzzyThreshold float64
}

// Matcher pairs line items across the two documents.
type Matcher struct {
	config Config
}

// New creates a matcher with the given config.
func New(config Config) *Matcher {
	if config.FuzzyThreshold == 0 {
		config.FuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Matcher{config: config}
}

// poolEntry is one invoice item awaiting consumption. Pool order is the
// invoice input order, which makes lowest-original-index tie-breaks fall
// out of plain forward iteration.
type poolEntry struct {
	item recon.CanonicalLineItem
	used bool
}

// Match produces the full row sequence: every reconciliation item in
// input order (MATCH, MISMATCH or MISSING_IN_INVOICE), followed by every
// unconsumed invoice item in input order (EXTRA_IN_INVOICE). Each input
// item appears in exactly one row.
func (m *Matcher) Match(reconciliation, invoice []recon.CanonicalLineItem) []recon.ComparisonRow {
	pool := make([]poolEntry, len(invoice))
	byKey := make(map[string][]int, len(invoice))
	for i, item := range invoice {
		pool[i] = poolEntry{item: item}
		byKey[item.MatchKey] = append(byKey[item.MatchKey], i)
	}

	rows := make([]recon.ComparisonRow, 0, len(reconciliation)+len(invoice))

	for i := range reconciliation {
		left := reconciliation[i]

		idx := m.pickExact(pool, byKey[left.MatchKey], left)
		if idx < 0 && m.config.Fuzzy {
			idx = m.pickFuzzy(pool, left)
		}
		if idx < 0 {
			rows = append(rows, recon.ComparisonRow{
				Left:   &reconciliation[i],
				Status: recon.StatusMissingInInvoice,
			})
			continue
		}

		pool[idx].used = true
		rows = append(rows, m.compareRow(&reconciliation[i], &pool[idx].item))
	}

	for i := range pool {
		if pool[i].used {
			continue
		}
		rows = append(rows, recon.ComparisonRow{
			Right:  &pool[i].item,
			Status: recon.StatusExtraInInvoice,
		})
	}

	return rows
}

// pickExact selects the unconsumed pool entry sharing the match key whose
// quantity is closest to the reconciliation item's; ties go to the lowest
// original index. Returns -1 when no candidate remains.
func (m *Matcher) pickExact(pool []poolEntry, candidates []int, left recon.CanonicalLineItem) int {
	best := -1
	var bestDiff float64
	for _, idx := range candidates {
		if pool[idx].used {
			continue
		}
		diff := left.Quantity - pool[idx].item.Quantity
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best = idx
			bestDiff = diff
		}
	}
	return best
}

// pickFuzzy scores every remaining pool entry against the item's match
// key and selects the highest scorer at or above the acceptance
// threshold; ties go to the lowest original index.
func (m *Matcher) pickFuzzy(pool []poolEntry, left recon.CanonicalLineItem) int {
	best := -1
	var bestScore float64
	for i := range pool {
		if pool[i].used {
			continue
		}
		score := compare.TextSimilarity(left.MatchKey, pool[i].item.MatchKey)
		if score < m.config.FuzzyThreshold {
			continue
		}
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// compareRow evaluates the compared fields of a paired row and classifies
// it MATCH only when every field agrees within tolerance.
func (m *Matcher) compareRow(left, right *recon.CanonicalLineItem) recon.ComparisonRow {
	tol := m.config.AmountTolerance
	results := map[string]bool{
		"denomination": compare.NumericMatch(left.Denomination, right.Denomination, tol),
		"quantity":     compare.NumericMatch(left.Quantity, right.Quantity, tol),
		"amount":       compare.NumericMatch(left.CompareAmount, right.CompareAmount, tol),
	}

	status := recon.StatusMatch
	for _, ok := range results {
		if !ok {
			status = recon.StatusMismatch
			break
		}
	}

	return recon.ComparisonRow{
		Left:         left,
		Right:        right,
		Status:       status,
		FieldResults: results,
	}
}
