// Package pdftext parses text-based PDF invoices. Extraction uses
// ledongthuc/pdf for the byte-to-text step; everything after that is the
// pure line-level table recovery shared with the OCR path.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/auditlab/invoice-reconciler/internal/parsers"
	"github.com/auditlab/invoice-reconciler/internal/parsers/tablescan"
)

// ErrNoText reports a PDF with no extractable text layer, typically a
// scan that needs the OCR path instead.
var ErrNoText = errors.New("pdf has no extractable text (scanned document?)")

// Parse reads a text-based PDF invoice into the common document shape.
func Parse(data []byte) (*parsers.Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	return ParseText(text), nil
}

// columnGap splits a text line on tabs or runs of two and more spaces,
// the gaps a table layout leaves behind in extracted text.
var columnGap = regexp.MustCompile(`\t+| {2,}`)

// ParseText recovers a document from already extracted text. It is the
// shared entry point for the PDF and OCR paths and is pure, so layout
// heuristics are testable without a real document.
func ParseText(text string) *parsers.Document {
	rows := RowsFromText(text)
	items, totals := tablescan.Scan(rows)
	return &parsers.Document{LineItems: items, Totals: totals}
}

// RowsFromText turns raw text into a cell grid, one row per non-blank
// line, columns split on tab stops and wide space runs.
func RowsFromText(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \r")
		if strings.TrimSpace(line) == "" {
			// keep the blank line: it terminates a table section
			rows = append(rows, nil)
			continue
		}
		cells := columnGap.Split(strings.TrimLeft(line, " "), -1)
		rows = append(rows, cells)
	}
	return rows
}
