package extract

import (
	"context"
	"fmt"
	"strings"
)

// FileKind classifies an upload by its declared media type.
type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindPDF   FileKind = "pdf"
	FileKindDocx  FileKind = "docx"
)

// Provider identifies the OCR backend used for image and PDF uploads.
type Provider string

const (
	ProviderGroq      Provider = "groq"
	ProviderGoogle    Provider = "google"
	ProviderTesseract Provider = "tesseract"
)

// ParseProvider maps a request value to a known provider. An empty value is
// valid and means "use the configured default".
func ParseProvider(raw string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "groq":
		return ProviderGroq, nil
	case "google":
		return ProviderGoogle, nil
	case "tesseract":
		return ProviderTesseract, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, raw)
	}
}

// Extractor converts one uploaded file into plain text via a specific backend.
// A variant implements only the capabilities its backend supports; callers
// check the Supports methods before dispatching so an unsupported call fails
// fast instead of reaching the backend.
type Extractor interface {
	Name() string
	IsConfigured() bool

	SupportsImage() bool
	SupportsPDF() bool
	SupportsDocx() bool

	ExtractFromImage(ctx context.Context, path, mediaType string) (string, error)
	ExtractFromPDF(ctx context.Context, path, mediaType string) (string, error)
	ExtractFromDocx(ctx context.Context, path string) (string, error)
}
