package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingResampler captures the size of every resampling pass.
type recordingResampler struct {
	steps [][2]int
}

func (r *recordingResampler) Resample(img image.Image, width, height int) image.Image {
	r.steps = append(r.steps, [2]int{width, height})
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

func testRaster(w, h int) *Raster {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return NewRaster(img, "image/png")
}

func TestProgressiveScaler_HalvingSteps(t *testing.T) {
	rec := &recordingResampler{}
	s := &ProgressiveScaler{Resampler: rec}

	out := s.Scale(testRaster(4000, 3000), 100, 100)

	assert.Equal(t, 100, out.Width())
	assert.Equal(t, 100, out.Height())
	// Halve while the ratio exceeds 2, then snap to the exact target.
	assert.Equal(t, [][2]int{
		{2000, 1500},
		{1000, 750},
		{500, 375},
		{250, 187},
		{125, 100},
		{100, 100},
	}, rec.steps)
}

func TestProgressiveScaler_SnapWithinTwoX(t *testing.T) {
	rec := &recordingResampler{}
	s := &ProgressiveScaler{Resampler: rec}

	out := s.Scale(testRaster(1000, 800), 600, 480)

	assert.Equal(t, 600, out.Width())
	assert.Equal(t, 480, out.Height())
	assert.Equal(t, [][2]int{{600, 480}}, rec.steps)
}

func TestProgressiveScaler_NoUpscale(t *testing.T) {
	rec := &recordingResampler{}
	s := &ProgressiveScaler{Resampler: rec}

	src := testRaster(100, 80)
	out := s.Scale(src, 400, 320)

	// Source already within target: returned unchanged, no resampling.
	assert.Same(t, src, out)
	assert.Empty(t, rec.steps)
}

func TestProgressiveScaler_ExactTargetAllBackends(t *testing.T) {
	for _, name := range []string{"catmullrom", "bilinear", "lanczos"} {
		t.Run(name, func(t *testing.T) {
			r, err := NewResampler(name)
			require.NoError(t, err)
			s := &ProgressiveScaler{Resampler: r}

			out := s.Scale(testRaster(1357, 913), 200, 150)
			assert.Equal(t, 200, out.Width())
			assert.Equal(t, 150, out.Height())
			assert.Equal(t, "image/png", out.Format())
		})
	}
}

func TestNewResampler_Unknown(t *testing.T) {
	_, err := NewResampler("nearest-ish")
	assert.Error(t, err)
}
