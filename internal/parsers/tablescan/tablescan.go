// Package tablescan recovers line-item tables and document totals from a
// grid of cell text, regardless of where the grid came from (spreadsheet
// rows, PDF text lines, OCR output).
//
// Documents in this domain carry Vietnamese headers, can hold several
// table sections per sheet, and put totals in free-form keyword rows.
// The scan is pure over [][]string so every heuristic is testable
// without touching a file.
package tablescan

import (
	"regexp"
	"strings"

	"github.com/auditlab/invoice-reconciler/internal/domain/normalize"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

// header cell patterns: a row is a table header when any of these occur
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`loại\s*sản\s*phẩm`),
	regexp.MustCompile(`mệnh\s*giá`),
	regexp.MustCompile(`số\s*lượng`),
	regexp.MustCompile(`thành\s*tiền`),
}

var (
	productPattern      = regexp.MustCompile(`loại|sản\s*phẩm|tên`)
	denominationPattern = regexp.MustCompile(`mệnh\s*giá|denomination`)
	quantityPattern     = regexp.MustCompile(`số\s*lượng|quantity`)
	amountPattern       = regexp.MustCompile(`thành\s*tiền|amount|tổng`)
	discountPattern     = regexp.MustCompile(`chiết\s*khấu|discount|giảm\s*giá`)
)

var summaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tổng\s*cộng`),
	regexp.MustCompile(`tổng\s*thanh\s*toán`),
	regexp.MustCompile(`thuế\s*vat`),
	regexp.MustCompile(`grand\s*total`),
	regexp.MustCompile(`total\s*payment`),
}

var totalsPatterns = map[recon.TotalField]*regexp.Regexp{
	recon.TotalVATRate:   regexp.MustCompile(`thuế\s*suất|vat\s*rate|%\s*vat`),
	recon.TotalVATAmount: regexp.MustCompile(`tiền\s*thuế|thuế\s*vat|vat\s*amount`),
	recon.TotalBeforeTax: regexp.MustCompile(`tổng\s*trước\s*thuế|trước\s*thuế|before\s*tax|subtotal`),
	recon.TotalPayment:   regexp.MustCompile(`tổng\s*thanh\s*toán|total\s*payment|grand\s*total|tổng\s*cộng`),
}

// ColumnMap maps logical fields to column indices; -1 means the header
// did not announce the column.
type ColumnMap struct {
	Product      int
	Denomination int
	Quantity     int
	Amount       int
	Discount     int
}

// Found reports whether the header announced enough columns to read rows.
func (c ColumnMap) Found() bool { return c.Product >= 0 }

// Scan walks a whole grid: every header section contributes line items,
// and keyword rows anywhere contribute totals.
func Scan(rows [][]string) ([]recon.RawLineItem, recon.Totals) {
	var items []recon.RawLineItem

	for _, headerIdx := range FindHeaderRows(rows) {
		items = append(items, ExtractSection(rows, headerIdx)...)
	}

	return items, ExtractTotals(rows)
}

// FindHeaderRows returns the indices of rows that look like table
// headers.
func FindHeaderRows(rows [][]string) []int {
	var found []int
	for i, row := range rows {
		joined := foldRow(row)
		for _, p := range headerPatterns {
			if p.MatchString(joined) {
				found = append(found, i)
				break
			}
		}
	}
	return found
}

// MapColumns resolves a header row into column positions.
func MapColumns(header []string) ColumnMap {
	cm := ColumnMap{Product: -1, Denomination: -1, Quantity: -1, Amount: -1, Discount: -1}
	for i, cell := range header {
		c := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case cm.Product < 0 && productPattern.MatchString(c):
			cm.Product = i
		case cm.Denomination < 0 && denominationPattern.MatchString(c):
			cm.Denomination = i
		case cm.Quantity < 0 && quantityPattern.MatchString(c):
			cm.Quantity = i
		case cm.Amount < 0 && amountPattern.MatchString(c) && !strings.Contains(c, "tổng cộng"):
			cm.Amount = i
		case cm.Discount < 0 && discountPattern.MatchString(c):
			cm.Discount = i
		}
	}
	return cm
}

// ExtractSection reads data rows below the header at headerIdx until an
// empty row, a summary row, or the next header ends the section.
func ExtractSection(rows [][]string, headerIdx int) []recon.RawLineItem {
	cm := MapColumns(rows[headerIdx])
	if !cm.Found() {
		return nil
	}

	var items []recon.RawLineItem
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if IsEmptyRow(row) || IsSummaryRow(row) || isHeaderRow(row) {
			break
		}
		item := recon.RawLineItem{
			ProductType:  cellAt(row, cm.Product),
			Denomination: cellAt(row, cm.Denomination),
			Quantity:     cellAt(row, cm.Quantity),
			Amount:       cellAt(row, cm.Amount),
			Discount:     cellAt(row, cm.Discount),
		}
		if strings.TrimSpace(item.ProductType) == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ExtractTotals scans every row for totals keywords and picks the first
// plausible numeric cell of each matching row. The VAT rate additionally
// has to look like a percentage.
func ExtractTotals(rows [][]string) recon.Totals {
	totals := recon.Totals{}

	for _, row := range rows {
		joined := foldRow(row)
		for field, pattern := range totalsPatterns {
			if _, seen := totals[field]; seen {
				continue
			}
			if !pattern.MatchString(joined) {
				continue
			}
			if v, ok := numericCell(row, field == recon.TotalVATRate); ok {
				totals[field] = v
			}
		}
	}
	return totals
}

// IsEmptyRow reports whether at most one cell of the row carries text.
func IsEmptyRow(row []string) bool {
	filled := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			filled++
		}
	}
	return filled <= 1
}

// IsSummaryRow reports whether the row carries totals-section keywords,
// which also terminates a line-item section.
func IsSummaryRow(row []string) bool {
	joined := foldRow(row)
	for _, p := range summaryPatterns {
		if p.MatchString(joined) {
			return true
		}
	}
	return false
}

func isHeaderRow(row []string) bool {
	joined := foldRow(row)
	for _, p := range headerPatterns {
		if p.MatchString(joined) {
			return true
		}
	}
	return false
}

// foldRow joins the row's cells lower-cased for keyword matching.
func foldRow(row []string) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if c := strings.TrimSpace(cell); c != "" {
			parts = append(parts, strings.ToLower(c))
		}
	}
	return strings.Join(parts, " ")
}

// cellAt fetches a cell by mapped index, tolerating short rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// numericCell finds the first cell holding a parsable number. Labels
// like "Tổng thanh toán: 1.100.000" keep the number after the colon, so
// that part is tried too. A cell stating "0" is a value, not an absence,
// so parse success decides, not the parsed value. Percentage mode
// restricts to [0,100) and accepts values with a % suffix.
func numericCell(row []string, percentage bool) (float64, bool) {
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		candidates := []string{cell}
		if i := strings.LastIndexByte(cell, ':'); i >= 0 {
			candidates = append(candidates, cell[i+1:])
		}
		for _, cand := range candidates {
			cand = strings.TrimSuffix(strings.TrimSpace(cand), "%")
			v, ok := normalize.ParseNumberOK(cand)
			if !ok {
				continue
			}
			if percentage {
				if v >= 0 && v < 100 {
					return v, true
				}
				continue
			}
			return v, true
		}
	}
	return 0, false
}
