// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/grain/blend"
)

// CanvasSurface is a CPU canvas backed by an *image.NRGBA.
//
// The backing store is density-scaled: a 100x50 canvas with pixel density 2
// holds 200x100 backing pixels. Drawing coordinates are always expressed in
// device-independent units; the canvas applies the density internally.
//
// Example:
//
//	c := surface.NewCanvas(800, 600)
//	c.Clear(color.White)
//	c.SetBlendMode(blend.Multiply)
//	c.DrawImage(tile, 0, 0, 64, 64)
//	img := c.Snapshot()
type CanvasSurface struct {
	width   int
	height  int
	density int

	img     *image.NRGBA
	staging []byte
	loaded  bool

	mode   blend.Mode
	interp Interpolation

	cur   scaleState
	stack []scaleState
}

// scaleState is the transform state tile mirroring needs: axis scale
// factors only.
type scaleState struct {
	sx, sy float64
}

// NewCanvas creates a canvas with the given dimensions and pixel density 1.
func NewCanvas(width, height int) *CanvasSurface {
	return NewCanvasWithDensity(width, height, 1)
}

// NewCanvasWithDensity creates a canvas whose backing store is scaled by
// density along both axes. Non-positive dimensions are clamped to 1, a
// density below 1 is clamped to 1.
func NewCanvasWithDensity(width, height, density int) *CanvasSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	if density < 1 {
		density = 1
	}

	return &CanvasSurface{
		width:   width,
		height:  height,
		density: density,
		img:     image.NewNRGBA(image.Rect(0, 0, width*density, height*density)),
		interp:  InterpBilinear,
		cur:     scaleState{1, 1},
	}
}

// NewCanvasFromImage creates a density-1 canvas over an existing image.
// When img is already a zero-origin *image.NRGBA the canvas draws into it
// directly; otherwise the pixels are converted into a fresh backing store.
func NewCanvasFromImage(img image.Image) *CanvasSurface {
	src := ToNRGBA(img)
	b := src.Bounds()

	return &CanvasSurface{
		width:   b.Dx(),
		height:  b.Dy(),
		density: 1,
		img:     src,
		interp:  InterpBilinear,
		cur:     scaleState{1, 1},
	}
}

// Width returns the canvas width in device-independent pixels.
func (c *CanvasSurface) Width() int {
	return c.width
}

// Height returns the canvas height in device-independent pixels.
func (c *CanvasSurface) Height() int {
	return c.height
}

// PixelDensity returns the backing-store scale factor.
func (c *CanvasSurface) PixelDensity() int {
	return c.density
}

// LoadPixels copies the backing store into the staging buffer and returns
// it. The buffer is reused across calls; it stays valid until the next
// LoadPixels.
func (c *CanvasSurface) LoadPixels() []byte {
	if len(c.staging) != len(c.img.Pix) {
		c.staging = make([]byte, len(c.img.Pix))
	}
	copy(c.staging, c.img.Pix)
	c.loaded = true
	return c.staging
}

// UpdatePixels commits the staging buffer back to the backing store.
// Without a matching LoadPixels it does nothing.
func (c *CanvasSurface) UpdatePixels() {
	if !c.loaded {
		return
	}
	copy(c.img.Pix, c.staging)
	c.loaded = false
}

// Scale multiplies the current transform by (sx, sy).
func (c *CanvasSurface) Scale(sx, sy float64) {
	c.cur.sx *= sx
	c.cur.sy *= sy
}

// Push saves the current transform.
func (c *CanvasSurface) Push() {
	c.stack = append(c.stack, c.cur)
}

// Pop restores the most recently pushed transform.
func (c *CanvasSurface) Pop() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// SetBlendMode selects the mixing mode for subsequent draws.
func (c *CanvasSurface) SetBlendMode(mode blend.Mode) {
	c.mode = mode
}

// BlendMode returns the current mixing mode.
func (c *CanvasSurface) BlendMode() blend.Mode {
	return c.mode
}

// SetInterpolation selects the resampling filter for scaled draws.
func (c *CanvasSurface) SetInterpolation(i Interpolation) {
	c.interp = i
}

// Interpolation returns the current resampling filter.
func (c *CanvasSurface) Interpolation() Interpolation {
	return c.interp
}

// Reset returns the drawing state to its baseline: identity transform,
// empty save stack, Normal blending. Pixels are untouched.
func (c *CanvasSurface) Reset() {
	c.cur = scaleState{1, 1}
	c.stack = c.stack[:0]
	c.mode = blend.Normal
}

// Clear fills the entire canvas with the given color.
func (c *CanvasSurface) Clear(col color.Color) {
	xdraw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Src)
}

// DrawImage draws img into the rectangle (x, y, w, h) in device-independent
// units. The current transform applies first; negative effective sizes
// mirror the image along that axis. Pixels outside the canvas are clipped.
func (c *CanvasSurface) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w == 0 || h == 0 {
		return
	}

	d := float64(c.density)
	x *= c.cur.sx * d
	y *= c.cur.sy * d
	w *= c.cur.sx * d
	h *= c.cur.sy * d

	flipH := false
	if w < 0 {
		x += w
		w = -w
		flipH = true
	}
	flipV := false
	if h < 0 {
		y += h
		h = -h
		flipV = true
	}

	// Round edges, not sizes, so adjacent tiles stay seam-free.
	dstX := int(math.Round(x))
	dstY := int(math.Round(y))
	dstW := int(math.Round(x+w)) - dstX
	dstH := int(math.Round(y+h)) - dstY
	if dstW <= 0 || dstH <= 0 {
		return
	}

	src := ToNRGBA(img)
	sb := src.Bounds()
	if sb.Dx() <= 0 || sb.Dy() <= 0 {
		return
	}
	if sb.Dx() != dstW || sb.Dy() != dstH {
		src = resample(src, dstW, dstH, c.interp)
	}

	c.blit(src, dstX, dstY, flipH, flipV)
}

// blit composites src onto the backing store at (dstX, dstY) using the
// current blend mode, flipping the sample order for mirrored draws.
func (c *CanvasSurface) blit(src *image.NRGBA, dstX, dstY int, flipH, flipV bool) {
	bw := c.img.Bounds().Dx()
	bh := c.img.Bounds().Dy()
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()

	for sy := range sh {
		dy := dstY + sy
		if dy < 0 || dy >= bh {
			continue
		}
		row := sy
		if flipV {
			row = sh - 1 - sy
		}
		for sx := range sw {
			dx := dstX + sx
			if dx < 0 || dx >= bw {
				continue
			}
			col := sx
			if flipH {
				col = sw - 1 - sx
			}

			si := src.PixOffset(col, row)
			di := c.img.PixOffset(dx, dy)
			r, g, b, a := blend.Pixel(c.mode,
				src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3],
				c.img.Pix[di], c.img.Pix[di+1], c.img.Pix[di+2], c.img.Pix[di+3])
			c.img.Pix[di] = r
			c.img.Pix[di+1] = g
			c.img.Pix[di+2] = b
			c.img.Pix[di+3] = a
		}
	}
}

// Snapshot returns a copy of the backing store. Modifying the returned
// image does not affect the canvas.
func (c *CanvasSurface) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// Image returns the live backing store, not a copy.
func (c *CanvasSurface) Image() *image.NRGBA {
	return c.img
}

// EncodePNG writes the canvas contents as PNG.
func (c *CanvasSurface) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("surface: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the canvas contents to a PNG file.
func (c *CanvasSurface) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("surface: create file: %w", err)
	}

	if err := c.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// ToNRGBA returns img as a zero-origin *image.NRGBA. The input is returned
// unchanged when it already has that shape; otherwise its pixels are
// converted into a new image.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// resample scales src to w x h with the selected filter.
func resample(src *image.NRGBA, w, h int, interp Interpolation) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	var scaler xdraw.Scaler
	switch interp {
	case InterpNearest:
		scaler = xdraw.NearestNeighbor
	case InterpBicubic:
		scaler = xdraw.CatmullRom
	default:
		scaler = xdraw.ApproxBiLinear
	}

	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Verify CanvasSurface implements the surface contracts.
var (
	_ Surface = (*CanvasSurface)(nil)
	_ Canvas  = (*CanvasSurface)(nil)
)
