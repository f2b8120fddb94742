package extract

import (
	"bytes"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"timetable-backend/internal/shared/telemetry"
)

// ImageOptions bounds the pre-OCR image normalization.
type ImageOptions struct {
	MaxWidth     int
	MaxHeight    int
	MinDimension int // short-side floor below which the image is enlarged
}

const enlargeTarget = 1600

func (o ImageOptions) withDefaults() ImageOptions {
	if o.MaxWidth <= 0 {
		o.MaxWidth = 2000
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = 2000
	}
	if o.MinDimension <= 0 {
		o.MinDimension = 800
	}
	return o
}

// PrepareImage normalizes an image for OCR: bound to MaxWidth x MaxHeight
// without upscaling, enlarge to fit 1600x1600 when the short side is below
// MinDimension, then contrast-stretch, sharpen, and convert to greyscale.
// If normalization fails at any point the original file bytes are returned
// so extraction can still proceed.
func PrepareImage(path string, opts ImageOptions) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	decoded, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		telemetry.Warn("extract.image_prep.decode_failed", map[string]any{"path": path, "err": err.Error()})
		return raw, nil
	}

	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var img image.Image = decoded
	switch {
	case width > opts.MaxWidth || height > opts.MaxHeight:
		img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	case min(width, height) < opts.MinDimension:
		img = enlargeToFit(img, width, height, enlargeTarget)
	}

	img = imaging.AdjustContrast(img, 15)
	img = imaging.Sharpen(img, 1.0)
	img = imaging.Grayscale(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		telemetry.Warn("extract.image_prep.encode_failed", map[string]any{"path": path, "err": err.Error()})
		return raw, nil
	}
	return buf.Bytes(), nil
}

// enlargeToFit upscales so the image fits a target x target box while
// preserving aspect ratio. imaging.Fit never upscales, so the scale is
// computed explicitly.
func enlargeToFit(img image.Image, width, height, target int) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	scale := float64(target) / float64(width)
	if s := float64(target) / float64(height); s < scale {
		scale = s
	}
	if scale <= 1 {
		return img
	}
	newWidth := int(float64(width) * scale)
	return imaging.Resize(img, newWidth, 0, imaging.Lanczos)
}
