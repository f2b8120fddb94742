package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Tesseract extracts text locally via the shared OCR engine. PDFs are served
// from their embedded text layer when one exists; scanned PDFs would need
// page rasterization, which this variant does not implement.
type Tesseract struct {
	engine  *Engine
	prep    ImageOptions
	timeout time.Duration
}

// NewTesseract wraps the process-wide engine in an Extractor.
func NewTesseract(engine *Engine, prep ImageOptions, timeout time.Duration) *Tesseract {
	return &Tesseract{engine: engine, prep: prep, timeout: timeout}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) IsConfigured() bool { return t.engine.Ready() }

func (t *Tesseract) SupportsImage() bool { return true }
func (t *Tesseract) SupportsPDF() bool   { return true }
func (t *Tesseract) SupportsDocx() bool  { return false }

func (t *Tesseract) ExtractFromImage(ctx context.Context, path, mediaType string) (string, error) {
	if !t.engine.Ready() {
		return "", fmt.Errorf("%w: tesseract engine unavailable", ErrNotConfigured)
	}

	prepared, err := PrepareImage(path, t.prep)
	if err != nil {
		return "", fmt.Errorf("%w: read image: %v", ErrExtractionFailed, err)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	text, err := t.engine.Recognize(ctx, prepared)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: ocr timed out: %v", ErrExtractionFailed, ctx.Err())
		}
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text recognized in image", ErrExtractionFailed)
	}
	return text, nil
}

// ExtractFromPDF returns the embedded text layer when present. The OCR engine
// itself never sees PDF input.
func (t *Tesseract) ExtractFromPDF(ctx context.Context, path, mediaType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrExtractionFailed, err)
	}

	text, err := pdfTextLayer(data)
	if err != nil {
		return "", fmt.Errorf("%w: parse pdf: %v", ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: scanned PDF requires page rasterization", ErrUnsupportedOperation)
	}
	return text, nil
}

func (t *Tesseract) ExtractFromDocx(ctx context.Context, path string) (string, error) {
	return "", fmt.Errorf("%w: tesseract cannot read word documents", ErrUnsupportedOperation)
}

func pdfTextLayer(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
