package extract

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"timetable-backend/internal/shared/telemetry"
)

// GoogleVisionConfig carries the Document AI processor coordinates.
type GoogleVisionConfig struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
}

// GoogleVision extracts text through a Google Document AI processor. It
// handles both images (normalized first) and PDFs (sent as-is).
type GoogleVision struct {
	client      *documentai.DocumentProcessorClient
	projectID   string
	location    string
	processorID string
	prep        ImageOptions
	timeout     time.Duration
}

// NewGoogleVision builds the variant. The client is only created when the
// processor coordinates and credentials are all present; otherwise the
// variant stays unconfigured.
func NewGoogleVision(ctx context.Context, cfg GoogleVisionConfig, prep ImageOptions, timeout time.Duration) *GoogleVision {
	g := &GoogleVision{
		projectID:   cfg.ProjectID,
		location:    cfg.Location,
		processorID: cfg.ProcessorID,
		prep:        prep,
		timeout:     timeout,
	}
	if g.location == "" {
		g.location = "us"
	}
	if cfg.ProjectID == "" || cfg.ProcessorID == "" || cfg.CredentialsFile == "" {
		telemetry.Warn("extract.google.not_configured", map[string]any{"reason": "missing project, processor, or credentials"})
		return g
	}

	opts := []option.ClientOption{
		option.WithEndpoint(g.location + "-documentai.googleapis.com:443"),
		option.WithCredentialsFile(cfg.CredentialsFile),
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		telemetry.Warn("extract.google.init_failed", map[string]any{"err": err.Error()})
		return g
	}
	g.client = client
	telemetry.Info("extract.google.ready", map[string]any{"project": cfg.ProjectID, "location": g.location})
	return g
}

func (g *GoogleVision) Name() string { return "google" }

func (g *GoogleVision) IsConfigured() bool { return g.client != nil }

func (g *GoogleVision) SupportsImage() bool { return true }
func (g *GoogleVision) SupportsPDF() bool   { return true }
func (g *GoogleVision) SupportsDocx() bool  { return false }

// Close releases the underlying gRPC connection.
func (g *GoogleVision) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GoogleVision) ExtractFromImage(ctx context.Context, path, mediaType string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: google document AI credentials are not set", ErrNotConfigured)
	}

	prepared, err := PrepareImage(path, g.prep)
	if err != nil {
		return "", fmt.Errorf("%w: read image: %v", ErrExtractionFailed, err)
	}
	// The prep step falls back to the original bytes when it cannot decode
	// the image, so the MIME type has to come from the bytes themselves.
	return g.process(ctx, prepared, http.DetectContentType(prepared))
}

func (g *GoogleVision) ExtractFromPDF(ctx context.Context, path, mediaType string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: google document AI credentials are not set", ErrNotConfigured)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrExtractionFailed, err)
	}
	return g.process(ctx, data, mediaType)
}

func (g *GoogleVision) ExtractFromDocx(ctx context.Context, path string) (string, error) {
	return "", fmt.Errorf("%w: google document AI variant does not read word documents", ErrUnsupportedOperation)
}

func (g *GoogleVision) process(ctx context.Context, content []byte, mimeType string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := &documentaipb.ProcessRequest{
		Name: g.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
	}

	resp, err := g.client.ProcessDocument(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: document AI timed out: %v", ErrExtractionFailed, ctx.Err())
		}
		return "", fmt.Errorf("%w: document AI: %v", ErrExtractionFailed, err)
	}

	text := strings.TrimSpace(resp.GetDocument().GetText())
	if text == "" {
		return "", fmt.Errorf("%w: no text extracted from document", ErrExtractionFailed)
	}
	return text, nil
}

func (g *GoogleVision) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", g.projectID, g.location, g.processorID)
}
