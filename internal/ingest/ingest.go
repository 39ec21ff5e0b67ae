// Package ingest routes uploaded files to the right document parser by
// format and hands the engine a uniform pair of documents.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/auditlab/invoice-reconciler/internal/parsers"
	"github.com/auditlab/invoice-reconciler/internal/parsers/einvoice"
	"github.com/auditlab/invoice-reconciler/internal/parsers/pdftext"
	"github.com/auditlab/invoice-reconciler/internal/parsers/scan"
	"github.com/auditlab/invoice-reconciler/internal/parsers/spreadsheet"
)

// ErrUnsupportedFormat reports a file extension none of the parsers
// accept.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrOCRUnavailable reports an image upload on a loader built without an
// OCR engine.
var ErrOCRUnavailable = errors.New("ocr engine not configured, cannot parse image")

// Loader turns uploads into parsed documents. The OCR engine is
// optional; without it image invoices are rejected with
// ErrOCRUnavailable.
type Loader struct {
	ocr    *scan.Engine
	logger *slog.Logger
}

// NewLoader builds a loader. ocr may be nil.
func NewLoader(ocr *scan.Engine, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{ocr: ocr, logger: logger}
}

// LoadReconciliation parses the internal reconciliation worksheet, which
// is always a spreadsheet.
func (l *Loader) LoadReconciliation(data []byte, filename string) (*parsers.Document, error) {
	if parsers.DetectFormat(filename) != parsers.FormatSpreadsheet {
		return nil, fmt.Errorf("reconciliation file %q: %w (want .xlsx/.xls)", filename, ErrUnsupportedFormat)
	}

	doc, err := spreadsheet.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse reconciliation %q: %w", filename, err)
	}

	l.logger.Debug("parsed reconciliation file",
		"file", filename, "items", len(doc.LineItems), "totals", len(doc.Totals))
	return doc, nil
}

// LoadInvoice parses the received invoice in any supported format.
func (l *Loader) LoadInvoice(data []byte, filename string) (*parsers.Document, error) {
	format := parsers.DetectFormat(filename)

	var (
		doc *parsers.Document
		err error
	)
	switch format {
	case parsers.FormatSpreadsheet:
		doc, err = spreadsheet.Parse(bytes.NewReader(data))
	case parsers.FormatXML:
		doc, err = einvoice.Parse(bytes.NewReader(data))
	case parsers.FormatPDF:
		doc, err = pdftext.Parse(data)
	case parsers.FormatImage:
		if l.ocr == nil {
			return nil, ErrOCRUnavailable
		}
		doc, err = l.ocr.Parse(data)
	default:
		return nil, fmt.Errorf("invoice file %q: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parse invoice %q: %w", filename, err)
	}

	l.logger.Debug("parsed invoice file",
		"file", filename, "format", format, "items", len(doc.LineItems), "totals", len(doc.Totals))
	return doc, nil
}
