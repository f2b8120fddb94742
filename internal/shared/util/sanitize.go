package util

import (
	"errors"
	"strings"
)

var errBadFileName = errors.New("invalid file name")

// SanitizeFileName makes an uploaded file name safe to join onto a local
// directory. Traversal sequences are rejected outright and path separators
// are flattened to underscores.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errBadFileName
	}
	s := strings.TrimSpace(name)
	for _, sep := range []string{"/", "\\"} {
		s = strings.ReplaceAll(s, sep, "_")
	}
	if s == "" {
		return "", errBadFileName
	}
	return s, nil
}
