package processing

import (
	"errors"

	"timetable-backend/internal/timetables"
)

// ErrEmptyExtraction means the extractor returned no usable text.
var ErrEmptyExtraction = errors.New("no text could be extracted from the document")

// ErrProcessingFailed wraps any failure in the extract-and-structure
// pipeline. It is the timetables sentinel, re-exported so callers of this
// package can match without importing both.
var ErrProcessingFailed = timetables.ErrProcessingFailed
