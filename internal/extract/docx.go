package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Docx reads the raw text content of a Word document. Always configured;
// implements only the document-text capability.
type Docx struct{}

// NewDocx constructs the document-reader variant.
func NewDocx() *Docx { return &Docx{} }

func (d *Docx) Name() string { return "docx" }

func (d *Docx) IsConfigured() bool { return true }

func (d *Docx) SupportsImage() bool { return false }
func (d *Docx) SupportsPDF() bool   { return false }
func (d *Docx) SupportsDocx() bool  { return true }

func (d *Docx) ExtractFromImage(ctx context.Context, path, mediaType string) (string, error) {
	return "", fmt.Errorf("%w: document reader cannot process images", ErrUnsupportedOperation)
}

func (d *Docx) ExtractFromPDF(ctx context.Context, path, mediaType string) (string, error) {
	return "", fmt.Errorf("%w: document reader cannot process PDFs", ErrUnsupportedOperation)
}

func (d *Docx) ExtractFromDocx(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read docx: %v", ErrExtractionFailed, err)
	}
	text, err := docxText(data)
	if err != nil {
		return "", fmt.Errorf("%w: parse docx: %v", ErrExtractionFailed, err)
	}
	return text, nil
}

func docxText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
