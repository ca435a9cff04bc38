// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"

	"github.com/gogpu/grain/blend"
)

// Surface is the pixel-buffer contract that grain effects operate on.
//
// A Surface owns a flat RGBA buffer of 4 x (Width x PixelDensity) x
// (Height x PixelDensity) bytes. Effects borrow the buffer for exactly one
// pass: LoadPixels, mutate in place, UpdatePixels. Implementations must not
// let any other operation observe the buffer between those two calls, and
// callers must not retain the slice after committing.
//
// Surfaces are not safe for concurrent use. Each surface belongs to a
// single goroutine, matching the frame-driven callers it is designed for.
type Surface interface {
	// Width returns the surface width in device-independent pixels.
	Width() int

	// Height returns the surface height in device-independent pixels.
	Height() int

	// PixelDensity returns the backing-store scale factor: 1 for a plain
	// canvas, 2 for a hiDPI canvas with four backing pixels per unit.
	PixelDensity() int

	// LoadPixels copies the canvas contents into a reusable staging buffer
	// and returns it. Layout is row-major RGBA, one row per backing pixel
	// row. The slice remains valid until the next LoadPixels call.
	LoadPixels() []byte

	// UpdatePixels commits the staging buffer back to the canvas.
	// Without a prior LoadPixels it is a no-op.
	UpdatePixels()
}

// Canvas extends Surface with the drawing operations texture compositing
// needs: transformed image blits, an isolated transform scope, and a
// selectable blend mode.
type Canvas interface {
	Surface

	// DrawImage draws img into the rectangle (x, y, w, h) in
	// device-independent units, resampling as needed. The current
	// transform applies first; a negative effective width or height
	// mirrors the image along that axis. Pixels falling outside the
	// canvas are clipped.
	DrawImage(img image.Image, x, y, w, h float64)

	// Scale multiplies the current transform by (sx, sy).
	Scale(sx, sy float64)

	// Push saves the current transform.
	Push()

	// Pop restores the most recently pushed transform. Pop on an empty
	// stack is a no-op.
	Pop()

	// SetBlendMode selects the mixing mode for subsequent draws.
	SetBlendMode(mode blend.Mode)

	// BlendMode returns the current mixing mode.
	BlendMode() blend.Mode

	// Reset returns the drawing state to its baseline: identity
	// transform, empty save stack, Normal blending. Pixel contents are
	// untouched.
	Reset()
}

// Interpolation selects the resampling filter DrawImage uses when the
// source and destination sizes differ.
type Interpolation uint8

const (
	// InterpNearest uses nearest-neighbor sampling. Fastest, blocky.
	InterpNearest Interpolation = iota

	// InterpBilinear uses bilinear filtering. Good quality/speed balance.
	InterpBilinear

	// InterpBicubic uses Catmull-Rom filtering. Highest quality.
	InterpBicubic
)

// String returns the interpolation mode name.
func (i Interpolation) String() string {
	switch i {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}
