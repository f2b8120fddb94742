package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"timetable-backend/internal/shared/telemetry"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

const groqOCRPrompt = `You are an expert OCR system.
Extract ALL text from this image, keeping the structure and layout as close to the original as possible.
Then describe the contents of the schedule in detail, cell by cell, in plain wording rather than a markdown table.

- Preserve day names (Monday, Tuesday, etc.)
- Preserve time slots
- Preserve subject and course names
- Preserve room numbers and locations
- Preserve teacher and instructor names
- Include the contents of merged cells on every day they span`

// GroqVision extracts text from images with a vision model on Groq's
// OpenAI-compatible API.
type GroqVision struct {
	client  *openai.Client
	model   string
	prep    ImageOptions
	timeout time.Duration
}

// NewGroqVision builds the variant. Without an API key it stays unconfigured
// and every extraction fails with ErrNotConfigured.
func NewGroqVision(apiKey, model string, prep ImageOptions, timeout time.Duration) *GroqVision {
	g := &GroqVision{model: model, prep: prep, timeout: timeout}
	if strings.TrimSpace(apiKey) == "" {
		telemetry.Warn("extract.groq.not_configured", map[string]any{"reason": "missing api key"})
		return g
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	g.client = openai.NewClientWithConfig(cfg)
	telemetry.Info("extract.groq.ready", map[string]any{"model": model})
	return g
}

func (g *GroqVision) Name() string { return "groq" }

// Model returns the active vision model name, for diagnostics.
func (g *GroqVision) Model() string { return g.model }

func (g *GroqVision) IsConfigured() bool { return g.client != nil }

func (g *GroqVision) SupportsImage() bool { return true }
func (g *GroqVision) SupportsPDF() bool   { return false }
func (g *GroqVision) SupportsDocx() bool  { return false }

func (g *GroqVision) ExtractFromImage(ctx context.Context, path, mediaType string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: GROQ_API_KEY is not set", ErrNotConfigured)
	}

	prepared, err := PrepareImage(path, g.prep)
	if err != nil {
		return "", fmt.Errorf("%w: read image: %v", ErrExtractionFailed, err)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(prepared), base64.StdEncoding.EncodeToString(prepared))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: groqOCRPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
		Temperature: 0.1,
		MaxTokens:   4096,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: groq vision timed out: %v", ErrExtractionFailed, ctx.Err())
		}
		return "", fmt.Errorf("%w: groq vision: %v", ErrExtractionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: groq vision returned no choices", ErrExtractionFailed)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: no text extracted from image", ErrExtractionFailed)
	}
	return text, nil
}

func (g *GroqVision) ExtractFromPDF(ctx context.Context, path, mediaType string) (string, error) {
	return "", fmt.Errorf("%w: groq vision requires PDF-to-image rasterization, which is not implemented", ErrUnsupportedOperation)
}

func (g *GroqVision) ExtractFromDocx(ctx context.Context, path string) (string, error) {
	return "", fmt.Errorf("%w: groq vision cannot read word documents", ErrUnsupportedOperation)
}
