package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"doi_soat_thang_07.xlsx", FormatSpreadsheet},
		{"legacy.XLS", FormatSpreadsheet},
		{"hoadon.xml", FormatXML},
		{"invoice.pdf", FormatPDF},
		{"scan.png", FormatImage},
		{"scan.JPG", FormatImage},
		{"page.tiff", FormatImage},
		{"notes.txt", FormatUnknown},
		{"noextension", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename))
		})
	}
}
