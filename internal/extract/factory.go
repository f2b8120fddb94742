package extract

import "fmt"

// Factory maps a (file kind, provider) pair to one Extractor variant.
type Factory struct {
	groq            *GroqVision
	google          *GoogleVision
	tesseract       *Tesseract
	docx            *Docx
	defaultProvider Provider
}

// NewFactory wires the variant set. defaultProvider is used when a request
// does not name one; unknown values fall back to groq.
func NewFactory(groq *GroqVision, google *GoogleVision, tesseract *Tesseract, docx *Docx, defaultProvider Provider) *Factory {
	switch defaultProvider {
	case ProviderGroq, ProviderGoogle, ProviderTesseract:
	default:
		defaultProvider = ProviderGroq
	}
	return &Factory{
		groq:            groq,
		google:          google,
		tesseract:       tesseract,
		docx:            docx,
		defaultProvider: defaultProvider,
	}
}

// ForFile returns the extractor for the given file kind. The provider is
// ignored for docx uploads; an empty provider selects the configured default.
func (f *Factory) ForFile(kind FileKind, provider Provider) (Extractor, error) {
	switch kind {
	case FileKindDocx:
		return f.docx, nil
	case FileKindImage, FileKindPDF:
		return f.visionFor(provider)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileKind, kind)
	}
}

func (f *Factory) visionFor(provider Provider) (Extractor, error) {
	if provider == "" {
		provider = f.defaultProvider
	}
	switch provider {
	case ProviderGroq:
		return f.groq, nil
	case ProviderGoogle:
		return f.google, nil
	case ProviderTesseract:
		return f.tesseract, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

// DefaultProvider exposes the fallback provider selection.
func (f *Factory) DefaultProvider() Provider { return f.defaultProvider }

// VariantStatus describes one variant's configuration state.
type VariantStatus struct {
	Configured bool   `json:"configured"`
	Model      string `json:"model,omitempty"`
}

// Status reports the configuration state of every known variant. Pure
// introspection: no side effects, identical output while configuration is
// unchanged.
func (f *Factory) Status() map[string]VariantStatus {
	return map[string]VariantStatus{
		"groq":      {Configured: f.groq.IsConfigured(), Model: f.groq.Model()},
		"google":    {Configured: f.google.IsConfigured()},
		"tesseract": {Configured: f.tesseract.IsConfigured()},
		"docx":      {Configured: f.docx.IsConfigured()},
	}
}
