package extract

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func preparedBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode prepared image: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestPrepareImageDownscalesLargeImages(t *testing.T) {
	path := writePNG(t, 4000, 3000)
	out, err := PrepareImage(path, ImageOptions{MaxWidth: 2000, MaxHeight: 2000, MinDimension: 800})
	if err != nil {
		t.Fatalf("PrepareImage: %v", err)
	}
	w, h := preparedBounds(t, out)
	if w > 2000 || h > 2000 {
		t.Fatalf("expected image bounded to 2000x2000, got %dx%d", w, h)
	}
	if w != 2000 {
		t.Fatalf("expected aspect-preserving fit with width 2000, got %d", w)
	}
}

func TestPrepareImageEnlargesSmallImages(t *testing.T) {
	path := writePNG(t, 400, 300)
	out, err := PrepareImage(path, ImageOptions{MaxWidth: 2000, MaxHeight: 2000, MinDimension: 800})
	if err != nil {
		t.Fatalf("PrepareImage: %v", err)
	}
	w, h := preparedBounds(t, out)
	if w != 1600 {
		t.Fatalf("expected width enlarged to 1600, got %d", w)
	}
	if h != 1200 {
		t.Fatalf("expected aspect-preserving height 1200, got %d", h)
	}
}

func TestPrepareImageKeepsMidSizeDimensions(t *testing.T) {
	path := writePNG(t, 1000, 900)
	out, err := PrepareImage(path, ImageOptions{MaxWidth: 2000, MaxHeight: 2000, MinDimension: 800})
	if err != nil {
		t.Fatalf("PrepareImage: %v", err)
	}
	w, h := preparedBounds(t, out)
	if w != 1000 || h != 900 {
		t.Fatalf("expected dimensions untouched, got %dx%d", w, h)
	}
}

func TestPrepareImageFallsBackOnUndecodableData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	raw := []byte("definitely not an image")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, err := PrepareImage(path, ImageOptions{})
	if err != nil {
		t.Fatalf("PrepareImage: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatal("expected original bytes back when decoding fails")
	}
}

func TestPrepareImageOutputContentType(t *testing.T) {
	// Normalized output is re-encoded, so sniffing reports PNG.
	path := writePNG(t, 200, 200)
	out, err := PrepareImage(path, ImageOptions{})
	if err != nil {
		t.Fatalf("PrepareImage: %v", err)
	}
	if got := http.DetectContentType(out); got != "image/png" {
		t.Fatalf("expected image/png for normalized output, got %q", got)
	}

	// Undecodable input passes through unchanged and keeps its own type.
	jpegish := append([]byte{0xFF, 0xD8, 0xFF}, []byte("truncated jpeg body")...)
	corrupt := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(corrupt, jpegish, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	out, err = PrepareImage(corrupt, ImageOptions{})
	if err != nil {
		t.Fatalf("PrepareImage: %v", err)
	}
	if got := http.DetectContentType(out); got != "image/jpeg" {
		t.Fatalf("expected image/jpeg for passed-through bytes, got %q", got)
	}
}

func TestPrepareImageMissingFile(t *testing.T) {
	if _, err := PrepareImage(filepath.Join(t.TempDir(), "missing.png"), ImageOptions{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
