package timetables

import "errors"

var (
	// ErrNotFound means no timetable exists for the requested id.
	ErrNotFound = errors.New("timetable not found")
	// ErrProcessingFailed is the error class a Processor wraps every pipeline
	// failure in, so the HTTP boundary has a single sentinel to match on.
	ErrProcessingFailed = errors.New("processing failed")
)
