package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDimensions_FitInside(t *testing.T) {
	// Both targets given with aspect kept: the tighter bound wins.
	w, h := ResolveDimensions(4000, 3000, ResolveOptions{
		TargetWidth:  1000,
		TargetHeight: 1000,
		KeepAspect:   true,
	})
	assert.Equal(t, 1000, w)
	assert.Equal(t, 750, h)

	// Portrait source, same target box.
	w, h = ResolveDimensions(3000, 4000, ResolveOptions{
		TargetWidth:  1000,
		TargetHeight: 1000,
		KeepAspect:   true,
	})
	assert.Equal(t, 750, w)
	assert.Equal(t, 1000, h)
}

func TestResolveDimensions_SingleTarget(t *testing.T) {
	// Only width requested: height derives from the source aspect.
	w, h := ResolveDimensions(4000, 3000, ResolveOptions{
		TargetWidth: 800,
		KeepAspect:  true,
	})
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	// Only height requested.
	w, h = ResolveDimensions(4000, 3000, ResolveOptions{
		TargetHeight: 600,
		KeepAspect:   true,
	})
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestResolveDimensions_NoAspect(t *testing.T) {
	// Distortion allowed: targets pass through independently.
	w, h := ResolveDimensions(4000, 3000, ResolveOptions{
		TargetWidth:  500,
		TargetHeight: 500,
	})
	assert.Equal(t, 500, w)
	assert.Equal(t, 500, h)

	// Missing target falls back to the source dimension.
	w, h = ResolveDimensions(4000, 3000, ResolveOptions{TargetWidth: 500})
	assert.Equal(t, 500, w)
	assert.Equal(t, 3000, h)
}

func TestResolveDimensions_MaxClamps(t *testing.T) {
	// Width clamp recomputes height in aspect mode.
	w, h := ResolveDimensions(4000, 1000, ResolveOptions{
		KeepAspect: true,
		MaxWidth:   2000,
	})
	assert.Equal(t, 2000, w)
	assert.Equal(t, 500, h)

	// Sequential clamps: the height clamp sees the width-adjusted value.
	// 1000x4000 fits to maxW 500 -> 500x2000, then maxH 1000 -> 250x1000.
	w, h = ResolveDimensions(1000, 4000, ResolveOptions{
		KeepAspect: true,
		MaxWidth:   500,
		MaxHeight:  1000,
	})
	assert.Equal(t, 250, w)
	assert.Equal(t, 1000, h)

	// Non-aspect mode clamps each side without cross-adjustment.
	w, h = ResolveDimensions(4000, 3000, ResolveOptions{
		MaxWidth:  1000,
		MaxHeight: 2000,
	})
	assert.Equal(t, 1000, w)
	assert.Equal(t, 2000, h)
}

func TestResolveDimensions_NeverExceedsLimits(t *testing.T) {
	sources := [][2]int{{100, 100}, {4000, 3000}, {3000, 4000}, {7680, 1080}, {33, 4521}}
	targets := [][2]int{{0, 0}, {5000, 5000}, {1234, 0}, {0, 987}, {50, 4000}}

	for _, src := range sources {
		for _, tgt := range targets {
			for _, keep := range []bool{true, false} {
				w, h := ResolveDimensions(src[0], src[1], ResolveOptions{
					TargetWidth:  tgt[0],
					TargetHeight: tgt[1],
					KeepAspect:   keep,
					MaxWidth:     1920,
					MaxHeight:    1080,
				})
				assert.LessOrEqual(t, w, 1920, "src=%v tgt=%v keep=%v", src, tgt, keep)
				assert.LessOrEqual(t, h, 1080, "src=%v tgt=%v keep=%v", src, tgt, keep)
				assert.GreaterOrEqual(t, w, 1)
				assert.GreaterOrEqual(t, h, 1)
			}
		}
	}
}

func TestResolveDimensions_AspectPreserved(t *testing.T) {
	// Output ratio differs from the source ratio by at most 1px rounding.
	cases := [][4]int{
		{4000, 3000, 777, 777},
		{1920, 1080, 640, 480},
		{3456, 2304, 100, 1000},
	}
	for _, c := range cases {
		w, h := ResolveDimensions(c[0], c[1], ResolveOptions{
			TargetWidth:  c[2],
			TargetHeight: c[3],
			KeepAspect:   true,
		})
		srcAspect := float64(c[0]) / float64(c[1])
		expectedH := float64(w) / srcAspect
		assert.InDelta(t, expectedH, float64(h), 1.0, "case %v", c)
	}
}

func TestResolveDimensions_DefaultsToSource(t *testing.T) {
	// No targets, no limits: the initial-load path resolves to the source.
	w, h := ResolveDimensions(1024, 768, ResolveOptions{KeepAspect: true})
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestIsNoopResize(t *testing.T) {
	assert.True(t, IsNoopResize(800, 600, 800, 600))
	assert.True(t, IsNoopResize(800, 600, 799, 601))
	assert.False(t, IsNoopResize(800, 600, 798, 600))
	assert.False(t, IsNoopResize(800, 600, 800, 602))
}
