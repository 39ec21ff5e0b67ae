// Package report renders a reconciliation result as an Excel workbook
// with a summary sheet, the row-by-row comparison, and the totals
// comparison. Status rows are tinted so a reviewer can skim for trouble.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

const (
	sheetSummary    = "Summary"
	sheetComparison = "Comparison"
	sheetTotals     = "Totals"

	matchFill    = "#D4EDDA"
	mismatchFill = "#F8D7DA"
)

var totalFieldLabels = map[recon.TotalField]string{
	recon.TotalVATRate:   "VAT rate (%)",
	recon.TotalVATAmount: "VAT amount",
	recon.TotalBeforeTax: "Total before tax",
	recon.TotalPayment:   "Total payment",
}

// Generate builds the workbook for one reconciliation result. The caller
// owns the returned file and closes it after writing it out.
func Generate(res *engine.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	matchStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{matchFill}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create match style: %w", err)
	}
	mismatchStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{mismatchFill}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create mismatch style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	writeSummary(f, res)

	if _, err := f.NewSheet(sheetComparison); err != nil {
		return nil, err
	}
	writeComparison(f, res.Rows, matchStyle, mismatchStyle)

	if _, err := f.NewSheet(sheetTotals); err != nil {
		return nil, err
	}
	writeTotals(f, res.Totals, matchStyle, mismatchStyle)

	for _, sheet := range []string{sheetSummary, sheetComparison, sheetTotals} {
		_ = f.SetRowStyle(sheet, 1, 1, headerStyle)
	}
	_ = f.SetColWidth(sheetComparison, "A", "B", 32)
	_ = f.SetColWidth(sheetComparison, "C", "I", 16)
	_ = f.SetColWidth(sheetSummary, "A", "A", 28)
	_ = f.SetColWidth(sheetTotals, "A", "A", 24)

	return f, nil
}

func writeSummary(f *excelize.File, res *engine.Result) {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total compared rows", res.Summary.TotalItems},
		{"Matched rows", res.Summary.MatchedItems},
		{"Rows needing review", res.Summary.MismatchedItems},
		{"Totals agree", res.Summary.TotalsMatch},
		{"Worksheet rows dropped", res.Diagnostics.ReconciliationDropped},
		{"Invoice rows dropped", res.Diagnostics.InvoiceDropped},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetSheetRow(sheetSummary, cell, &row)
	}
}

func writeComparison(f *excelize.File, rows []recon.ComparisonRow, matchStyle, mismatchStyle int) {
	header := []interface{}{
		"Worksheet product", "Invoice product", "Status",
		"Worksheet qty", "Invoice qty",
		"Worksheet amount", "Invoice amount",
		"Worksheet denom", "Invoice denom",
	}
	_ = f.SetSheetRow(sheetComparison, "A1", &header)

	for i, cr := range rows {
		rowNum := i + 2
		out := make([]interface{}, 9)
		out[2] = string(cr.Status)
		if cr.Left != nil {
			out[0] = cr.Left.ProductType
			out[3] = cr.Left.Quantity
			out[5] = cr.Left.Amount
			out[7] = cr.Left.Denomination
		}
		if cr.Right != nil {
			out[1] = cr.Right.ProductType
			out[4] = cr.Right.Quantity
			out[6] = cr.Right.Amount
			out[8] = cr.Right.Denomination
		}

		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		_ = f.SetSheetRow(sheetComparison, cell, &out)

		style := mismatchStyle
		if cr.Status == recon.StatusMatch {
			style = matchStyle
		}
		_ = f.SetRowStyle(sheetComparison, rowNum, rowNum, style)
	}
}

func writeTotals(f *excelize.File, tc recon.TotalsComparison, matchStyle, mismatchStyle int) {
	header := []interface{}{"Field", "Worksheet", "Invoice", "Match"}
	_ = f.SetSheetRow(sheetTotals, "A1", &header)

	rowNum := 2
	for _, field := range recon.TotalFields {
		fc, ok := tc.Fields[field]
		if !ok || (fc.Reconciliation == nil && fc.Invoice == nil) {
			continue
		}

		out := make([]interface{}, 4)
		out[0] = totalFieldLabels[field]
		if fc.Reconciliation != nil {
			out[1] = *fc.Reconciliation
		}
		if fc.Invoice != nil {
			out[2] = *fc.Invoice
		}
		out[3] = fc.Match

		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		_ = f.SetSheetRow(sheetTotals, cell, &out)

		if fc.Reconciliation != nil && fc.Invoice != nil {
			style := mismatchStyle
			if fc.Match {
				style = matchStyle
			}
			_ = f.SetRowStyle(sheetTotals, rowNum, rowNum, style)
		}
		rowNum++
	}
}
