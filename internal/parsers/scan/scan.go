// Package scan parses photographed or scanned invoices by running them
// through Tesseract and feeding the recognized text to the shared table
// recovery in pdftext.
//
// The OCR engine is an explicit handle the caller constructs once and
// closes when done, not process-global state: the underlying Tesseract
// client owns native resources and is not safe for concurrent use, so
// the handle serializes access itself.
package scan

import (
	"errors"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/auditlab/invoice-reconciler/internal/parsers"
	"github.com/auditlab/invoice-reconciler/internal/parsers/pdftext"
)

// ErrNoTextRecognized reports an image in which OCR found nothing usable.
var ErrNoTextRecognized = errors.New("ocr recognized no text in image")

// Config holds OCR engine settings.
type Config struct {
	// Languages are Tesseract language codes, tried in order.
	// Vietnamese invoices want ["vie", "eng"].
	Languages []string
	// TessdataPrefix optionally points at the trained-data directory.
	TessdataPrefix string
}

// DefaultConfig returns settings for Vietnamese invoices.
func DefaultConfig() Config {
	return Config{Languages: []string{"vie", "eng"}}
}

// Engine is a live OCR handle. Construct with NewEngine, release with
// Close.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine initializes a Tesseract client with the configured
// languages.
func NewEngine(cfg Config) (*Engine, error) {
	client := gosseract.NewClient()

	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}

	langs := cfg.Languages
	if len(langs) == 0 {
		langs = DefaultConfig().Languages
	}
	if err := client.SetLanguage(langs...); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set ocr languages: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases the native Tesseract resources. The engine must not be
// used afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}

// Parse runs OCR over one image and recovers the document from the
// recognized text.
func (e *Engine) Parse(image []byte) (*parsers.Document, error) {
	text, err := e.Text(image)
	if err != nil {
		return nil, err
	}
	return pdftext.ParseText(text), nil
}

// Text returns the raw recognized text for one image.
func (e *Engine) Text(image []byte) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("run ocr: %w", err)
	}
	if text == "" {
		return "", ErrNoTextRecognized
	}
	return text, nil
}
