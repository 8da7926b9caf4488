// Package imaging holds the in-memory raster model and the dimension
// fitting / progressive downscale core.
package imaging

import (
	"image"
	"image/draw"
)

// Raster is a decoded in-memory bitmap tagged with its source mime type.
// A Raster is never mutated after creation; transformations return a new one.
type Raster struct {
	img    *image.NRGBA
	format string
}

// NewRaster wraps an image into a Raster tagged with the given mime type.
// The pixel data is copied into an NRGBA buffer so later transformations
// cannot alias the caller's image.
func NewRaster(img image.Image, format string) *Raster {
	return &Raster{img: toNRGBA(img), format: format}
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.img.Bounds().Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.img.Bounds().Dy() }

// Format returns the source mime type, e.g. "image/jpeg".
func (r *Raster) Format() string { return r.format }

// Image exposes the underlying bitmap for resampling and encoding.
func (r *Raster) Image() image.Image { return r.img }

// Clone returns a deep copy with its own pixel buffer.
func (r *Raster) Clone() *Raster {
	dst := image.NewNRGBA(r.img.Bounds())
	copy(dst.Pix, r.img.Pix)
	return &Raster{img: dst, format: r.format}
}

// Crop extracts the sub-region starting at (left, top) with the given
// size. Bounds checking is the caller's responsibility; the result owns
// its own pixel buffer.
func (r *Raster) Crop(top, left, width, height int) *Raster {
	src := r.img.SubImage(image.Rect(left, top, left+width, top+height))
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), src, image.Pt(left, top), draw.Src)
	return &Raster{img: dst, format: r.format}
}

// toNRGBA normalizes any image into a zero-origin NRGBA bitmap.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
