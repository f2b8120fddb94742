package extract

import "errors"

var (
	// ErrNotConfigured means the backend has no usable credentials or engine.
	ErrNotConfigured = errors.New("extractor not configured")
	// ErrExtractionFailed means the backend call errored or returned nothing usable.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrUnsupportedOperation means the backend categorically cannot handle this file kind.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrUnsupportedFileKind means the declared media type is outside the known set.
	ErrUnsupportedFileKind = errors.New("unsupported file kind")
	// ErrUnsupportedProvider means the requested provider is outside the known set.
	ErrUnsupportedProvider = errors.New("unsupported vision provider")
)
