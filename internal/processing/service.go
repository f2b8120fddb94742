package processing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"timetable-backend/internal/extract"
	"timetable-backend/internal/shared/telemetry"
	"timetable-backend/internal/structuring"
	"timetable-backend/internal/timetables"
)

const extractedTextPreviewLen = 500

// ExtractorFactory resolves the extractor variant for a file kind and
// requested provider.
type ExtractorFactory interface {
	ForFile(kind extract.FileKind, provider extract.Provider) (extract.Extractor, error)
	DefaultProvider() extract.Provider
}

// Structurer converts extracted text into a structured timetable.
type Structurer interface {
	Structure(ctx context.Context, text string) structuring.Result
}

// Service runs the extract-then-structure pipeline for one upload.
type Service struct {
	factory    ExtractorFactory
	structurer Structurer
}

func NewService(factory ExtractorFactory, structurer Structurer) *Service {
	return &Service{factory: factory, structurer: structurer}
}

// Process extracts text from the uploaded document with the requested OCR
// provider, structures it, and normalizes the result into a seven-day
// schedule. Every failure is wrapped in ErrProcessingFailed so the caller
// has a single class to match on.
func (s *Service) Process(ctx context.Context, doc timetables.UploadedDocument, provider string) (timetables.ProcessResult, error) {
	kind, err := ClassifyMediaType(doc.MediaType)
	if err != nil {
		return timetables.ProcessResult{}, fail(err)
	}

	requested, err := extract.ParseProvider(provider)
	if err != nil {
		return timetables.ProcessResult{}, fail(err)
	}

	extractor, err := s.factory.ForFile(kind, requested)
	if err != nil {
		return timetables.ProcessResult{}, fail(err)
	}
	if !supports(extractor, kind) {
		return timetables.ProcessResult{}, fail(fmt.Errorf("%w: %s cannot handle %s files", extract.ErrUnsupportedOperation, extractor.Name(), kind))
	}
	if !extractor.IsConfigured() {
		return timetables.ProcessResult{}, fail(fmt.Errorf("%w: %s", extract.ErrNotConfigured, extractor.Name()))
	}

	telemetry.Info("processing.start", map[string]any{
		"filename":  doc.OriginalName,
		"fileType":  string(kind),
		"extractor": extractor.Name(),
	})

	text, err := dispatch(ctx, extractor, kind, doc)
	if err != nil {
		return timetables.ProcessResult{}, fail(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return timetables.ProcessResult{}, fail(ErrEmptyExtraction)
	}

	result := s.structurer.Structure(ctx, text)

	week := normalizeSchedule(result.Schedule)
	title := result.Title
	if title == "" {
		title = titleFromFilename(doc.OriginalName)
	}

	metadata := map[string]any{
		"title":          title,
		"fileType":       string(kind),
		"visionProvider": providerLabel(kind, requested, s.factory.DefaultProvider()),
		"extractorUsed":  extractor.Name(),
		"extractedText":  preview(text),
		"processingDate": time.Now().UTC().Format(time.RFC3339),
	}
	if result.Degraded {
		metadata["degraded"] = true
		metadata["degradedReason"] = result.DegradedReason
	}

	return timetables.ProcessResult{Title: title, Week: week, Metadata: metadata}, nil
}

func supports(e extract.Extractor, kind extract.FileKind) bool {
	switch kind {
	case extract.FileKindImage:
		return e.SupportsImage()
	case extract.FileKindPDF:
		return e.SupportsPDF()
	case extract.FileKindDocx:
		return e.SupportsDocx()
	default:
		return false
	}
}

func dispatch(ctx context.Context, e extract.Extractor, kind extract.FileKind, doc timetables.UploadedDocument) (string, error) {
	switch kind {
	case extract.FileKindImage:
		return e.ExtractFromImage(ctx, doc.Path, doc.MediaType)
	case extract.FileKindPDF:
		return e.ExtractFromPDF(ctx, doc.Path, doc.MediaType)
	case extract.FileKindDocx:
		return e.ExtractFromDocx(ctx, doc.Path)
	default:
		return "", fmt.Errorf("%w: %s", extract.ErrUnsupportedFileKind, kind)
	}
}

// normalizeSchedule maps the wire schedule onto the persisted shape. All
// seven days come out non-nil regardless of what the model returned.
func normalizeSchedule(schedule map[string][]structuring.TimeBlock) timetables.WeekSchedule {
	var week timetables.WeekSchedule
	week.Normalize()
	for rawDay, blocks := range schedule {
		day := week.Day(strings.ToLower(strings.TrimSpace(rawDay)))
		if day == nil {
			continue
		}
		converted := make([]timetables.TimeBlock, 0, len(blocks))
		for _, b := range blocks {
			converted = append(converted, timetables.TimeBlock{
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
				Subject:   b.Subject,
				Location:  b.Location,
				Teacher:   b.TeacherName,
				Notes:     b.Notes,
			})
		}
		*day = converted
	}
	return week
}

func providerLabel(kind extract.FileKind, requested, fallback extract.Provider) string {
	if kind == extract.FileKindDocx {
		return "none"
	}
	if requested == "" {
		return string(fallback)
	}
	return string(requested)
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.TrimSpace(base) == "" {
		return "Extracted Timetable"
	}
	return base
}

// preview returns the first part of the extracted text, cut on a rune
// boundary so multi-byte characters are never split.
func preview(text string) string {
	if len(text) <= extractedTextPreviewLen {
		return text
	}
	cut := extractedTextPreviewLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func fail(err error) error {
	return fmt.Errorf("%w: %v", ErrProcessingFailed, err)
}

var _ timetables.Processor = (*Service)(nil)
