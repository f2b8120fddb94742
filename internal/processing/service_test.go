package processing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"timetable-backend/internal/extract"
	"timetable-backend/internal/structuring"
	"timetable-backend/internal/timetables"
)

type fakeExtractor struct {
	name       string
	configured bool
	image      bool
	pdf        bool
	docx       bool
	text       string
	err        error
}

func (f *fakeExtractor) Name() string        { return f.name }
func (f *fakeExtractor) IsConfigured() bool  { return f.configured }
func (f *fakeExtractor) SupportsImage() bool { return f.image }
func (f *fakeExtractor) SupportsPDF() bool   { return f.pdf }
func (f *fakeExtractor) SupportsDocx() bool  { return f.docx }

func (f *fakeExtractor) ExtractFromImage(ctx context.Context, path, mediaType string) (string, error) {
	return f.text, f.err
}

func (f *fakeExtractor) ExtractFromPDF(ctx context.Context, path, mediaType string) (string, error) {
	return f.text, f.err
}

func (f *fakeExtractor) ExtractFromDocx(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

type fakeFactory struct {
	extractor extract.Extractor
	err       error
}

func (f *fakeFactory) ForFile(kind extract.FileKind, provider extract.Provider) (extract.Extractor, error) {
	return f.extractor, f.err
}

func (f *fakeFactory) DefaultProvider() extract.Provider { return extract.ProviderGroq }

type fakeStructurer struct {
	result structuring.Result
}

func (f *fakeStructurer) Structure(ctx context.Context, text string) structuring.Result {
	return f.result
}

func okResult() structuring.Result {
	schedule := make(map[string][]structuring.TimeBlock)
	for _, day := range structuring.Weekdays {
		schedule[day] = []structuring.TimeBlock{}
	}
	schedule["monday"] = []structuring.TimeBlock{
		{StartTime: "09:00", EndTime: "10:00", Subject: "Maths", TeacherName: "Ms. Jones", Location: "Room 4"},
	}
	return structuring.Result{Title: "Year 3", Schedule: schedule}
}

func imageDoc() timetables.UploadedDocument {
	return timetables.UploadedDocument{
		Path:         "/tmp/upload.png",
		MediaType:    "image/png",
		OriginalName: "timetable.png",
		SizeBytes:    1024,
	}
}

func TestProcessSuccess(t *testing.T) {
	svc := NewService(
		&fakeFactory{extractor: &fakeExtractor{name: "groq", configured: true, image: true, text: "Monday 9-10 Maths"}},
		&fakeStructurer{result: okResult()},
	)

	result, err := svc.Process(context.Background(), imageDoc(), "")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Title != "Year 3" {
		t.Fatalf("expected title Year 3, got %q", result.Title)
	}
	if len(result.Week.Days.Monday) != 1 {
		t.Fatalf("expected one monday block, got %d", len(result.Week.Days.Monday))
	}
	if result.Week.Days.Monday[0].Teacher != "Ms. Jones" {
		t.Fatalf("expected teacher mapped from teacherName, got %q", result.Week.Days.Monday[0].Teacher)
	}
	for _, day := range []*[]timetables.TimeBlock{
		&result.Week.Days.Tuesday, &result.Week.Days.Wednesday, &result.Week.Days.Thursday,
		&result.Week.Days.Friday, &result.Week.Days.Saturday, &result.Week.Days.Sunday,
	} {
		if *day == nil {
			t.Fatal("expected every day slice non-nil")
		}
	}
	if result.Metadata["fileType"] != "image" {
		t.Fatalf("expected fileType image, got %v", result.Metadata["fileType"])
	}
	if result.Metadata["visionProvider"] != "groq" {
		t.Fatalf("expected default provider groq, got %v", result.Metadata["visionProvider"])
	}
	if result.Metadata["extractedText"] != "Monday 9-10 Maths" {
		t.Fatalf("unexpected extractedText: %v", result.Metadata["extractedText"])
	}
	if result.Metadata["title"] != "Year 3" {
		t.Fatalf("expected derived title in metadata, got %v", result.Metadata["title"])
	}
}

func TestProcessTitleFallsBackToFilename(t *testing.T) {
	result := okResult()
	result.Title = ""
	svc := NewService(
		&fakeFactory{extractor: &fakeExtractor{name: "groq", configured: true, image: true, text: "text"}},
		&fakeStructurer{result: result},
	)

	out, err := svc.Process(context.Background(), imageDoc(), "")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Title != "timetable" {
		t.Fatalf("expected title from filename, got %q", out.Title)
	}
	if out.Metadata["title"] != "timetable" {
		t.Fatalf("expected filename fallback title in metadata, got %v", out.Metadata["title"])
	}
}

func TestProcessDegradedMetadata(t *testing.T) {
	result := okResult()
	result.Degraded = true
	result.DegradedReason = "language model request failed"
	svc := NewService(
		&fakeFactory{extractor: &fakeExtractor{name: "tesseract", configured: true, image: true, text: "text"}},
		&fakeStructurer{result: result},
	)

	out, err := svc.Process(context.Background(), imageDoc(), "tesseract")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Metadata["degraded"] != true {
		t.Fatal("expected degraded flag in metadata")
	}
	if out.Metadata["degradedReason"] != "language model request failed" {
		t.Fatalf("unexpected degradedReason: %v", out.Metadata["degradedReason"])
	}
	if out.Metadata["visionProvider"] != "tesseract" {
		t.Fatalf("expected requested provider in metadata, got %v", out.Metadata["visionProvider"])
	}
}

func TestProcessDocxSkipsVisionProvider(t *testing.T) {
	svc := NewService(
		&fakeFactory{extractor: &fakeExtractor{name: "docx", configured: true, docx: true, text: "Monday Maths"}},
		&fakeStructurer{result: okResult()},
	)

	doc := timetables.UploadedDocument{
		Path:         "/tmp/upload.docx",
		MediaType:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		OriginalName: "plan.docx",
	}
	out, err := svc.Process(context.Background(), doc, "")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Metadata["visionProvider"] != "none" {
		t.Fatalf("expected visionProvider none for docx, got %v", out.Metadata["visionProvider"])
	}
}

func TestProcessFailures(t *testing.T) {
	cases := []struct {
		name     string
		factory  ExtractorFactory
		doc      timetables.UploadedDocument
		provider string
	}{
		{
			name:    "unsupported media type",
			factory: &fakeFactory{extractor: &fakeExtractor{configured: true, image: true}},
			doc:     timetables.UploadedDocument{Path: "/tmp/x", MediaType: "text/plain", OriginalName: "x.txt"},
		},
		{
			name:     "unknown provider",
			factory:  &fakeFactory{extractor: &fakeExtractor{configured: true, image: true}},
			doc:      imageDoc(),
			provider: "azure",
		},
		{
			name:    "factory rejects",
			factory: &fakeFactory{err: extract.ErrUnsupportedProvider},
			doc:     imageDoc(),
		},
		{
			name:    "extractor cannot handle kind",
			factory: &fakeFactory{extractor: &fakeExtractor{name: "groq", configured: true, pdf: true}},
			doc:     imageDoc(),
		},
		{
			name:    "extractor not configured",
			factory: &fakeFactory{extractor: &fakeExtractor{name: "google", image: true}},
			doc:     imageDoc(),
		},
		{
			name:    "extraction errors",
			factory: &fakeFactory{extractor: &fakeExtractor{name: "groq", configured: true, image: true, err: extract.ErrExtractionFailed}},
			doc:     imageDoc(),
		},
		{
			name:    "empty extraction",
			factory: &fakeFactory{extractor: &fakeExtractor{name: "groq", configured: true, image: true, text: "   \n\t "}},
			doc:     imageDoc(),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.factory, &fakeStructurer{result: okResult()})
			_, err := svc.Process(context.Background(), tc.doc, tc.provider)
			if !errors.Is(err, ErrProcessingFailed) {
				t.Fatalf("expected ErrProcessingFailed, got %v", err)
			}
		})
	}
}

func TestProcessTruncatesExtractedTextPreview(t *testing.T) {
	long := strings.Repeat("a", 2000)
	svc := NewService(
		&fakeFactory{extractor: &fakeExtractor{name: "groq", configured: true, image: true, text: long}},
		&fakeStructurer{result: okResult()},
	)

	out, err := svc.Process(context.Background(), imageDoc(), "")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	preview, _ := out.Metadata["extractedText"].(string)
	if len(preview) != extractedTextPreviewLen {
		t.Fatalf("expected preview of %d bytes, got %d", extractedTextPreviewLen, len(preview))
	}
}

func TestProcessPreviewKeepsRunesIntact(t *testing.T) {
	// Three-byte runes ensure the byte limit lands inside a sequence.
	long := strings.Repeat("日", 400)
	svc := NewService(
		&fakeFactory{extractor: &fakeExtractor{name: "groq", configured: true, image: true, text: long}},
		&fakeStructurer{result: okResult()},
	)

	out, err := svc.Process(context.Background(), imageDoc(), "")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	preview, _ := out.Metadata["extractedText"].(string)
	if len(preview) > extractedTextPreviewLen {
		t.Fatalf("expected preview of at most %d bytes, got %d", extractedTextPreviewLen, len(preview))
	}
	if !utf8.ValidString(preview) {
		t.Fatal("preview split a multi-byte rune")
	}
	if !strings.HasSuffix(preview, "日") {
		t.Fatalf("expected preview to end on a whole rune, got tail %q", preview[len(preview)-3:])
	}
}
