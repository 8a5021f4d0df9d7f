package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // Register GIF format decoder
	"image/jpeg"
	"image/png"
	"strings"
)

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// jpegQuality is used for all JPEG encoding.
const jpegQuality = 92

// ParseFormat validates a format string from the tool boundary.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatJPEG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported image format %q (png, jpeg)", s)
	}
}

// FormatFromMime maps an API-reported MIME type to a Format, defaulting to
// JPEG for anything that is not PNG.
func FormatFromMime(mime string) Format {
	if strings.Contains(mime, "png") {
		return FormatPNG
	}
	return FormatJPEG
}

// Decode parses raw image bytes into pixel data, returning the detected
// format name as reported by the standard decoders.
func Decode(data []byte) (image.Image, string, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image payload: %w", err)
	}
	return img, name, nil
}

// Encode serializes pixel data in the given format. JPEG output is
// flattened onto white first because the format carries no alpha channel.
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(&buf, flattenOnWhite(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return buf.Bytes(), nil
}

// Convert re-encodes image bytes into the target format. Bytes already in
// the target format pass through untouched.
func Convert(data []byte, source, target Format) ([]byte, error) {
	if source == target {
		return data, nil
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Encode(img, target)
}

// flattenOnWhite composites an image over an opaque white background,
// discarding transparency.
func flattenOnWhite(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)
	return flat
}
