package processing

import (
	"fmt"
	"strings"

	"timetable-backend/internal/extract"
)

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ClassifyMediaType maps a declared media type onto a file kind.
func ClassifyMediaType(mediaType string) (extract.FileKind, error) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if idx := strings.IndexByte(mt, ';'); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return extract.FileKindImage, nil
	case mt == "application/pdf":
		return extract.FileKindPDF, nil
	case mt == docxMediaType:
		return extract.FileKindDocx, nil
	default:
		return "", fmt.Errorf("%w: %s", extract.ErrUnsupportedFileKind, mediaType)
	}
}
