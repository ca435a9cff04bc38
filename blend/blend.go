// Package blend provides the pixel blending modes used when compositing
// texture tiles onto a raster canvas.
//
// All math operates on non-premultiplied 8-bit channels. Mode selects the
// color mixing function; Pixel applies it and then composites the mixed
// color over the destination with Porter-Duff source-over, weighted by the
// source alpha. Replace is the exception: it bypasses compositing entirely
// and copies the source pixel, alpha included.
package blend

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Mode identifies a color mixing function.
//
// The zero value is Normal, plain source-over with no mixing.
type Mode uint8

const (
	// Normal performs no mixing; the source color is composited as-is.
	Normal Mode = iota

	// Multiply multiplies source and destination. The result is always
	// darker or equal; white leaves the destination unchanged.
	Multiply

	// Screen multiplies the complements of source and destination and
	// complements the result. Always lighter or equal.
	Screen

	// Darkest selects the darker of source and destination per channel.
	Darkest

	// Lightest selects the lighter of source and destination per channel.
	Lightest

	// Difference takes the absolute difference of source and destination.
	Difference

	// Exclusion is similar to Difference but lower in contrast.
	Exclusion

	// Replace copies the source pixel outright, including alpha.
	Replace

	// Overlay multiplies or screens depending on destination brightness.
	Overlay

	// HardLight multiplies or screens depending on source brightness,
	// like shining a harsh spotlight on the destination.
	HardLight

	// SoftLight darkens or lightens depending on source brightness,
	// like shining a diffused spotlight on the destination.
	SoftLight

	// Dodge brightens the destination to reflect the source.
	// Painting with black produces no change.
	Dodge

	// Burn darkens the destination to reflect the source.
	// Painting with white produces no change.
	Burn

	// Add sums source and destination, saturating at white.
	Add
)

const unknownMode = "Unknown"

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Multiply:
		return "Multiply"
	case Screen:
		return "Screen"
	case Darkest:
		return "Darkest"
	case Lightest:
		return "Lightest"
	case Difference:
		return "Difference"
	case Exclusion:
		return "Exclusion"
	case Replace:
		return "Replace"
	case Overlay:
		return "Overlay"
	case HardLight:
		return "HardLight"
	case SoftLight:
		return "SoftLight"
	case Dodge:
		return "Dodge"
	case Burn:
		return "Burn"
	case Add:
		return "Add"
	default:
		return unknownMode
	}
}

// ErrUnknownMode is returned by ParseMode for unrecognized mode names.
var ErrUnknownMode = errors.New("blend: unknown mode")

var modeNames = map[string]Mode{
	"normal":     Normal,
	"multiply":   Multiply,
	"screen":     Screen,
	"darkest":    Darkest,
	"lightest":   Lightest,
	"difference": Difference,
	"exclusion":  Exclusion,
	"replace":    Replace,
	"overlay":    Overlay,
	"hardlight":  HardLight,
	"softlight":  SoftLight,
	"dodge":      Dodge,
	"burn":       Burn,
	"add":        Add,
}

// ParseMode resolves a mode from its name. Matching is case-insensitive
// and ignores '-' and '_' separators, so "hard-light", "HARD_LIGHT" and
// "HardLight" all resolve to HardLight.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	m, ok := modeNames[key]
	if !ok {
		return Normal, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return m, nil
}

// Pixel mixes a source pixel into a destination pixel.
//
// For Replace the source pixel is returned unchanged. For every other mode
// the source RGB is first mixed with the destination RGB, then the mixed
// color is composited over the destination using source-over with the
// source alpha. A fully transparent source leaves the destination intact.
func Pixel(mode Mode, sr, sg, sb, sa, dr, dg, db, da uint8) (r, g, b, a uint8) {
	if mode == Replace {
		return sr, sg, sb, sa
	}
	if sa == 0 {
		return dr, dg, db, da
	}
	if mode == Normal {
		return compose(sr, sg, sb, sa, dr, dg, db, da)
	}
	mr := channel(mode, sr, dr)
	mg := channel(mode, sg, dg)
	mb := channel(mode, sb, db)
	return compose(mr, mg, mb, sa, dr, dg, db, da)
}

// channel applies the mixing function to a single channel pair.
func channel(mode Mode, src, dst uint8) uint8 {
	switch mode {
	case Multiply:
		return uint8((int(src) * int(dst)) / 255)
	case Screen:
		return uint8(255 - (255-int(src))*(255-int(dst))/255)
	case Darkest:
		return min(src, dst)
	case Lightest:
		return max(src, dst)
	case Difference:
		if src > dst {
			return src - dst
		}
		return dst - src
	case Exclusion:
		return uint8(int(src) + int(dst) - 2*int(src)*int(dst)/255)
	case Overlay:
		return hardMix(src, dst)
	case HardLight:
		return hardMix(dst, src)
	case SoftLight:
		return softLight(src, dst)
	case Dodge:
		if src == 255 {
			return 255
		}
		v := int(dst) * 255 / (255 - int(src))
		if v > 255 {
			return 255
		}
		return uint8(v)
	case Burn:
		if src == 0 {
			return 0
		}
		v := 255 - (255-int(dst))*255/int(src)
		if v < 0 {
			return 0
		}
		return uint8(v)
	case Add:
		v := int(src) + int(dst)
		if v > 255 {
			return 255
		}
		return uint8(v)
	default:
		return src
	}
}

// hardMix multiplies when the base channel is dark and screens when it is
// bright. Overlay bases the choice on the destination, HardLight on the
// source; callers swap the arguments accordingly.
func hardMix(src, dst uint8) uint8 {
	if dst < 128 {
		return uint8((2 * int(src) * int(dst)) / 255)
	}
	return uint8(255 - (2*(255-int(src))*(255-int(dst)))/255)
}

// softLight implements the W3C soft-light formula in floating point; the
// piecewise curve has no exact integer form.
func softLight(src, dst uint8) uint8 {
	s := float64(src) / 255
	d := float64(dst) / 255
	var out float64
	if s <= 0.5 {
		out = d - (1-2*s)*d*(1-d)
	} else {
		var dd float64
		if d <= 0.25 {
			dd = ((16*d-12)*d + 4) * d
		} else {
			dd = math.Sqrt(d)
		}
		out = d + (2*s-1)*(dd-d)
	}
	return uint8(out*255 + 0.5)
}

// compose performs Porter-Duff source-over on non-premultiplied channels.
func compose(sr, sg, sb, sa, dr, dg, db, da uint8) (r, g, b, a uint8) {
	if sa == 255 {
		return sr, sg, sb, 255
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	srcA := uint32(sa)
	dstA := uint32(da)
	invA := 255 - srcA

	outA := srcA + dstA*invA/255
	if outA == 0 {
		return 0, 0, 0, 0
	}

	r = uint8((uint32(sr)*srcA + uint32(dr)*dstA*invA/255) / outA)
	g = uint8((uint32(sg)*srcA + uint32(dg)*dstA*invA/255) / outA)
	b = uint8((uint32(sb)*srcA + uint32(db)*dstA*invA/255) / outA)
	a = uint8(outA)
	return r, g, b, a
}
