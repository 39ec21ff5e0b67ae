// Package parsers defines the shape every document parser produces and
// the extension-based format detection used to route an uploaded invoice
// to the right one. The engine places no constraint on how a parser
// extracts its data, only on this output shape.
package parsers

import (
	"path/filepath"
	"strings"

	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

// Document is the parser output consumed by the engine: the raw line
// items in document order and whatever totals the document stated.
type Document struct {
	LineItems []recon.RawLineItem `json:"line_items"`
	Totals    recon.Totals        `json:"totals"`
}

// Format identifies a supported invoice file format.
type Format string

const (
	FormatSpreadsheet Format = "spreadsheet"
	FormatXML         Format = "xml"
	FormatPDF         Format = "pdf"
	FormatImage       Format = "image"
	FormatUnknown     Format = "unknown"
)

// DetectFormat routes a filename to a parser by extension.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return FormatSpreadsheet
	case ".xml":
		return FormatXML
	case ".pdf":
		return FormatPDF
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return FormatImage
	default:
		return FormatUnknown
	}
}
