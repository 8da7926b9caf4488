package imaging

import "math"

// ResolveOptions carries the requested target and the session limits for
// a dimension resolution. A zero target dimension means "not requested";
// zero limits mean unconstrained.
type ResolveOptions struct {
	TargetWidth  int
	TargetHeight int
	KeepAspect   bool
	MaxWidth     int
	MaxHeight    int
}

// ResolveDimensions maps a source size and a requested target onto the
// final output size.
//
// With KeepAspect set, both targets given means fit-inside (the tighter
// bound wins, never stretching past either target); a single target
// derives the other side from the source aspect ratio. Without
// KeepAspect, each target passes through independently and distortion is
// allowed. Max limits are applied afterwards, sequentially: the width
// clamp first, then the height clamp against the already width-adjusted
// value. The clamp order is observable and deliberate.
//
// When neither target is given the source size is used, so only the
// limits apply (the initial-load path).
func ResolveDimensions(srcW, srcH int, opts ResolveOptions) (int, int) {
	aspect := float64(srcW) / float64(srcH)

	var fw, fh float64
	switch {
	case !opts.KeepAspect:
		fw, fh = float64(srcW), float64(srcH)
		if opts.TargetWidth > 0 {
			fw = float64(opts.TargetWidth)
		}
		if opts.TargetHeight > 0 {
			fh = float64(opts.TargetHeight)
		}
	case opts.TargetWidth > 0 && opts.TargetHeight > 0:
		ratio := math.Min(
			float64(opts.TargetWidth)/float64(srcW),
			float64(opts.TargetHeight)/float64(srcH),
		)
		fw = float64(srcW) * ratio
		fh = float64(srcH) * ratio
	case opts.TargetWidth > 0:
		fw = float64(opts.TargetWidth)
		fh = fw / aspect
	case opts.TargetHeight > 0:
		fh = float64(opts.TargetHeight)
		fw = fh * aspect
	default:
		fw, fh = float64(srcW), float64(srcH)
	}

	if opts.MaxWidth > 0 && fw > float64(opts.MaxWidth) {
		fw = float64(opts.MaxWidth)
		if opts.KeepAspect {
			fh = fw / aspect
		}
	}
	if opts.MaxHeight > 0 && fh > float64(opts.MaxHeight) {
		fh = float64(opts.MaxHeight)
		if opts.KeepAspect {
			fw = fh * aspect
		}
	}

	w := int(math.Round(fw))
	h := int(math.Round(fh))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// IsNoopResize reports whether the resolved size is within one pixel of
// the source on both axes, in which case the caller may skip scaling.
func IsNoopResize(srcW, srcH, dstW, dstH int) bool {
	return abs(dstW-srcW) <= 1 && abs(dstH-srcH) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
