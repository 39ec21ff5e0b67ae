// Package spreadsheet parses reconciliation worksheets and invoices in
// Excel form. Every sheet is scanned; a sheet may carry several table
// sections, and totals found on a later sheet override earlier ones.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
	"github.com/auditlab/invoice-reconciler/internal/parsers"
	"github.com/auditlab/invoice-reconciler/internal/parsers/tablescan"
)

// Parse reads an .xlsx/.xls workbook into the common document shape.
func Parse(r io.Reader) (*parsers.Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc := &parsers.Document{Totals: recon.Totals{}}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		items, totals := tablescan.Scan(rows)
		doc.LineItems = append(doc.LineItems, items...)

		// last sheet stating a figure wins
		for field, v := range totals {
			doc.Totals[field] = v
		}
	}

	return doc, nil
}
