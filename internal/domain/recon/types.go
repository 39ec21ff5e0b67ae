// Package recon defines the value types shared by the reconciliation
// engine: raw and canonical line items, sparse document totals, and the
// comparison output consumed by the report and API layers.
//
// All values are plain data. A reconciliation run builds everything fresh
// from its two input documents and nothing here outlives the run.
package recon

// Origin identifies which document a line item came from.
type Origin string

const (
	// OriginReconciliation marks items from the internally produced worksheet.
	OriginReconciliation Origin = "RECONCILIATION"
	// OriginInvoice marks items from the received invoice document.
	OriginInvoice Origin = "INVOICE"
)

// RawLineItem is a line item exactly as a document parser produced it.
// Numeric fields are kept as text because upstream sources mix numeric
// notations (dot/comma separators, currency suffixes) and may be garbled.
// An empty string means the field was absent.
type RawLineItem struct {
	ProductType  string `json:"product_type"`
	Denomination string `json:"denomination"`
	Quantity     string `json:"quantity"`
	Amount       string `json:"amount"`
	Discount     string `json:"discount,omitempty"`
}

// CanonicalLineItem is a normalized line item ready for matching.
//
// MatchKey is the case-folded, whitespace-collapsed product name used only
// for pairing; ProductType keeps the trimmed original for display.
// CompareAmount is the amount the matcher compares: equal to Amount, or
// Amount minus Discount when the run compares after discount.
type CanonicalLineItem struct {
	ProductType   string  `json:"product_type"`
	MatchKey      string  `json:"-"`
	Denomination  float64 `json:"denomination"`
	Quantity      float64 `json:"quantity"`
	Amount        float64 `json:"amount"`
	CompareAmount float64 `json:"-"`
	Discount      float64 `json:"discount"`
	Origin        Origin  `json:"origin"`
}

// TotalField names one of the recognized document-level aggregates.
type TotalField string

const (
	TotalVATRate   TotalField = "vat_rate"
	TotalVATAmount TotalField = "vat_amount"
	TotalBeforeTax TotalField = "total_before_tax"
	TotalPayment   TotalField = "total_payment"
)

// TotalFields lists the recognized totals in report order.
var TotalFields = []TotalField{TotalVATRate, TotalVATAmount, TotalBeforeTax, TotalPayment}

// Totals is a sparse mapping of recognized aggregate fields to values.
// A missing key means the document did not state the figure, which is
// different from a stated value of zero.
type Totals map[TotalField]float64

// Clone returns an independent copy of the totals map.
func (t Totals) Clone() Totals {
	out := make(Totals, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// RowStatus classifies one comparison row.
type RowStatus string

const (
	StatusMatch            RowStatus = "MATCH"
	StatusMismatch         RowStatus = "MISMATCH"
	StatusMissingInInvoice RowStatus = "MISSING_IN_INVOICE"
	StatusExtraInInvoice   RowStatus = "EXTRA_IN_INVOICE"
)

// ComparisonRow pairs a reconciliation item with an invoice item, or holds
// the single unpaired item for MISSING/EXTRA rows. FieldResults records the
// per-field outcome (denomination, quantity, amount) for paired rows.
type ComparisonRow struct {
	Left         *CanonicalLineItem `json:"reconciliation,omitempty"`
	Right        *CanonicalLineItem `json:"invoice,omitempty"`
	Status       RowStatus          `json:"status"`
	FieldResults map[string]bool    `json:"field_results,omitempty"`
}

// FieldComparison is the totals outcome for one recognized field. A nil
// value means the side did not state the figure; Match is true only when
// both sides stated it and the values agree within tolerance.
type FieldComparison struct {
	Reconciliation *float64 `json:"reconciliation"`
	Invoice        *float64 `json:"invoice"`
	Match          bool     `json:"match"`
}

// TotalsComparison is the outcome of reconciling the two totals maps.
// Match is the conjunction over fields present on both sides; a field
// missing on either side is excluded rather than counted as a mismatch.
type TotalsComparison struct {
	Fields map[TotalField]FieldComparison `json:"fields"`
	Match  bool                           `json:"totals_match"`
}

// Summary holds the aggregate counts for one reconciliation run.
type Summary struct {
	TotalItems      int  `json:"total_items"`
	MatchedItems    int  `json:"matched_items"`
	MismatchedItems int  `json:"mismatched_items"`
	TotalsMatch     bool `json:"totals_match"`
}
