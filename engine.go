package grain

import (
	"fmt"
	"math"

	"github.com/gogpu/grain/surface"
)

// Overflow selects how granulate writes back channel values that leave the
// [0, 255] byte range.
type Overflow uint8

const (
	// OverflowClamp saturates out-of-range values to 0 or 255.
	OverflowClamp Overflow = iota
	// OverflowWrap lets out-of-range values wrap around the byte range.
	OverflowWrap
)

// String returns the name of the overflow policy.
func (o Overflow) String() string {
	switch o {
	case OverflowClamp:
		return "Clamp"
	case OverflowWrap:
		return "Wrap"
	default:
		return "Unknown"
	}
}

// Engine applies pixel-noise and texture effects to a single surface.
//
// An Engine is bound to one surface at creation. Animation counters (the
// tile-shift frame and the overlay anchor) live on the instance, so two
// surfaces animated side by side never share state; give each surface its
// own Engine.
//
// Engines are not safe for concurrent use. Operations run to completion
// one at a time, driven by the caller's frame loop.
type Engine struct {
	dst      surface.Surface
	random   RandomFn
	validate bool
	warnings bool
	overflow Overflow

	// TextureAnimate state.
	shiftFrame int

	// TextureOverlay animation state. Anchors are always <= 0.
	overlayFrame int
	anchorX      int
	anchorY      int
}

// New creates an Engine bound to dst.
//
// Example:
//
//	canvas := surface.NewCanvas(800, 600)
//	eng, err := grain.New(canvas)
//	if err != nil {
//		return err
//	}
//	err = eng.GranulateUniform(12, false)
func New(dst surface.Surface, opts ...Option) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.validate && dst == nil {
		return nil, fmt.Errorf("new engine: destination surface is nil: %w", ErrInvalidType)
	}
	if o.nilRandom && o.warnings {
		Logger().Warn("nil RandomFn ignored, keeping default source")
	}
	return &Engine{
		dst:      dst,
		random:   o.random,
		validate: o.validate,
		warnings: o.warnings,
		overflow: o.overflow,
	}, nil
}

// Surface returns the surface the engine is bound to.
func (e *Engine) Surface() surface.Surface {
	return e.dst
}

// GranulateUniform perturbs every pixel of the bound surface by one random
// delta, shared by the red, green, and blue channels, and by alpha when
// includeAlpha is set. Deltas are uniform over the inclusive range
// [-amount, +amount] after rounding amount to the nearest integer; negative
// amounts grain by their magnitude. Out-of-range results follow the
// engine's overflow policy.
//
// amount must be finite. NaN or infinite values report ErrInvalidValue.
func (e *Engine) GranulateUniform(amount float64, includeAlpha bool) error {
	return e.granulate("granulate uniform", amount, includeAlpha, true)
}

// GranulateChannels perturbs every channel of the bound surface by an
// independent random delta, including alpha when includeAlpha is set. The
// delta range and overflow behavior match GranulateUniform.
func (e *Engine) GranulateChannels(amount float64, includeAlpha bool) error {
	return e.granulate("granulate channels", amount, includeAlpha, false)
}

// granulate runs one load, mutate, commit pass over the pixel buffer.
func (e *Engine) granulate(op string, amount float64, includeAlpha, uniform bool) error {
	if e.validate && (math.IsNaN(amount) || math.IsInf(amount, 0)) {
		return fmt.Errorf("%s: amount %v is not finite: %w", op, amount, ErrInvalidValue)
	}
	a := int(math.Abs(math.Round(amount)))
	if a == 0 && e.warnings {
		Logger().Warn("noise amount rounds to zero, pass has no visible effect",
			"op", op,
			"amount", amount,
		)
	}
	pix := e.dst.LoadPixels()
	for i := 0; i+3 < len(pix); i += 4 {
		g := e.intBetween(-a, a)
		pix[i] = e.overflowByte(pix[i], g)
		if !uniform {
			g = e.intBetween(-a, a)
		}
		pix[i+1] = e.overflowByte(pix[i+1], g)
		if !uniform {
			g = e.intBetween(-a, a)
		}
		pix[i+2] = e.overflowByte(pix[i+2], g)
		if !includeAlpha {
			continue
		}
		if !uniform {
			g = e.intBetween(-a, a)
		}
		pix[i+3] = e.overflowByte(pix[i+3], g)
	}
	e.dst.UpdatePixels()
	return nil
}

// overflowByte writes v+g back under the engine's overflow policy.
func (e *Engine) overflowByte(v byte, g int) byte {
	n := int(v) + g
	if e.overflow == OverflowWrap {
		return byte(n) //nolint:gosec // wraparound is the policy here
	}
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return byte(n)
}

// TinkerFunc mutates the raw pixel buffer during TinkerPixels. pix is the
// surface's full RGBA buffer, i is the offset of the current pixel's red
// sample, and total is len(pix). The function reads and writes
// pix[i] through pix[i+3] directly.
type TinkerFunc func(pix []byte, i, total int)

// TinkerPixels loads the bound surface's pixel buffer, invokes fn once per
// pixel, and commits the result. It is the escape hatch for effects the
// engine does not ship: fn receives the whole buffer and may do anything
// with it.
//
// Example, a scanline effect that darkens every other row:
//
//	w := canvas.Width() * canvas.PixelDensity()
//	err := eng.TinkerPixels(func(pix []byte, i, total int) {
//		if (i/4/w)%2 == 0 {
//			return
//		}
//		pix[i] /= 2
//		pix[i+1] /= 2
//		pix[i+2] /= 2
//	})
func (e *Engine) TinkerPixels(fn TinkerFunc) error {
	if e.validate && fn == nil {
		return fmt.Errorf("tinker pixels: callback is nil: %w", ErrInvalidType)
	}
	pix := e.dst.LoadPixels()
	total := len(pix)
	for i := 0; i+3 < total; i += 4 {
		fn(pix, i, total)
	}
	e.dst.UpdatePixels()
	return nil
}
