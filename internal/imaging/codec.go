package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp" // decode only, re-encoded as JPEG
)

var (
	// ErrDecode marks upload bytes that do not parse as a supported image.
	ErrDecode = errors.New("could not decode image")
	// ErrEncode marks a failed re-encode of a raster.
	ErrEncode = errors.New("could not encode image")
)

// DefaultFormat is used when a raster carries no usable format tag or the
// tagged format has no encoder.
const DefaultFormat = "image/jpeg"

// Codec decodes uploads into rasters and encodes rasters back to bytes.
// Quality applies to lossy re-encodes.
type Codec struct {
	Quality int
}

// Decode turns raw upload bytes into a Raster tagged with the detected
// mime type.
func (c *Codec) Decode(data []byte) (*Raster, error) {
	img, formatName, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("%w: zero-dimension bitmap", ErrDecode)
	}
	return NewRaster(img, "image/"+formatName), nil
}

// Encode serializes a raster using the given mime type. Formats without
// an encoder (webp, anything unknown) fall back to JPEG.
func (c *Codec) Encode(r *Raster, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch normalizeFormat(format) {
	case "png":
		err = png.Encode(&buf, r.Image())
	case "gif":
		err = gif.Encode(&buf, r.Image(), nil)
	case "bmp":
		err = bmp.Encode(&buf, r.Image())
	default:
		err = jpeg.Encode(&buf, r.Image(), &jpeg.Options{Quality: c.quality()})
	}
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %v", ErrEncode, format, err)
	}
	return buf.Bytes(), nil
}

// ExtensionForFormat derives a filename extension from a mime type.
func ExtensionForFormat(format string) string {
	switch normalizeFormat(format) {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "bmp":
		return ".bmp"
	default:
		return ".jpg"
	}
}

func (c *Codec) quality() int {
	if c.Quality <= 0 || c.Quality > 100 {
		return 75
	}
	return c.Quality
}

// normalizeFormat reduces a mime type or bare format name to the short
// encoder name, e.g. "image/png" -> "png", "jpg" -> "jpeg".
func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "image/"))
	if f == "jpg" {
		f = "jpeg"
	}
	return f
}
