package grain

import (
	"fmt"
	"image"

	"github.com/gogpu/grain/blend"
	"github.com/gogpu/grain/surface"
)

// OverlayOption adjusts one TextureOverlay call.
type OverlayOption func(*overlayConfig)

type overlayConfig struct {
	tileW   int
	tileH   int
	tileSet bool
	mode    blend.Mode
	reflect bool
	animate bool
	shift   shiftConfig
	target  surface.Surface
}

func defaultOverlayConfig() overlayConfig {
	return overlayConfig{mode: blend.Multiply}
}

// OverlayTile overrides the tile size in device-independent pixels. Without
// it, tiles use the texture's natural dimensions.
func OverlayTile(w, h int) OverlayOption {
	return func(c *overlayConfig) {
		c.tileW = w
		c.tileH = h
		c.tileSet = true
	}
}

// OverlayBlend selects the compositing mode for the pass. The default is
// blend.Multiply.
func OverlayBlend(mode blend.Mode) OverlayOption {
	return func(c *overlayConfig) {
		c.mode = mode
	}
}

// OverlayReflect mirrors alternating tiles so texture edges meet seamlessly:
// every second column flips horizontally and every second row vertically.
func OverlayReflect() OverlayOption {
	return func(c *overlayConfig) {
		c.reflect = true
	}
}

// OverlayAnimate drifts the tiling origin on a frame schedule, re-anchoring
// the sweep at a random offset every few calls. The shift options follow
// TextureAnimate: ShiftEvery for the cadence, ShiftAmount for the anchor
// bound (default min of the destination's dimensions).
func OverlayAnimate(opts ...ShiftOption) OverlayOption {
	return func(c *overlayConfig) {
		c.animate = true
		c.shift = defaultShiftConfig()
		for _, opt := range opts {
			opt(&c.shift)
		}
	}
}

// OverlayTarget redirects the pass to a surface other than the engine's
// own, typically an offscreen canvas composited later. The redirected
// target must be able to draw, and its drawing state is Reset to a clean
// baseline after the pass.
func OverlayTarget(s surface.Surface) OverlayOption {
	return func(c *overlayConfig) {
		c.target = s
	}
}

// TextureOverlay tiles tex across a destination surface and composites it
// with the configured blend mode, the heart of the package. Partial tiles
// at the right and bottom edges are clipped by the destination; the sweep
// covers every destination pixel regardless of how tile and destination
// sizes relate.
//
// With OverlayReflect, tile orientation alternates in both directions. With
// OverlayAnimate, the tiling origin drifts to a random anchor at the
// configured cadence; anchors are never positive, so the first row and
// column always start at or before the destination's edge. Call it once
// per rendered frame.
//
// Example:
//
//	err := eng.TextureOverlay(tex,
//		grain.OverlayBlend(blend.Overlay),
//		grain.OverlayReflect(),
//		grain.OverlayAnimate(grain.ShiftEvery(3)),
//	)
func (e *Engine) TextureOverlay(tex *Texture, opts ...OverlayOption) error {
	cfg := defaultOverlayConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if e.validate {
		if tex == nil {
			return fmt.Errorf("texture overlay: texture is nil: %w", ErrInvalidType)
		}
		if cfg.animate {
			if err := cfg.shift.check("texture overlay"); err != nil {
				return err
			}
		}
	}

	dst := e.dst
	offscreen := false
	if cfg.target != nil && cfg.target != e.dst {
		dst = cfg.target
		offscreen = true
	}
	canvas, ok := dst.(surface.Canvas)
	if !ok {
		return fmt.Errorf("texture overlay: target %T cannot draw: %w", dst, ErrInvalidType)
	}

	tileW, tileH := cfg.tileW, cfg.tileH
	if !cfg.tileSet {
		b := tex.Bounds()
		tileW, tileH = b.Dx(), b.Dy()
	}
	// A degenerate tile would sweep forever. This guard stays active even
	// with validation disabled.
	if tileW <= 0 || tileH <= 0 {
		return fmt.Errorf("texture overlay: tile %dx%d: %w", tileW, tileH, ErrInvalidValue)
	}

	destW, destH := dst.Width(), dst.Height()
	if destW <= 0 || destH <= 0 {
		return nil
	}

	if cfg.animate {
		amount := cfg.shift.amount
		if !cfg.shift.amountSet {
			amount = min(destW, destH)
		}
		e.overlayFrame++
		if e.overlayFrame >= cfg.shift.atFrame {
			e.anchorX = -e.intBelow(amount)
			e.anchorY = -e.intBelow(amount)
			e.overlayFrame = 0
		}
	}

	canvas.SetBlendMode(cfg.mode)
	tiles := e.sweep(canvas, tex.Image(), tileW, tileH, destW, destH, cfg.reflect)
	canvas.SetBlendMode(blend.Normal)
	if offscreen {
		canvas.Reset()
	}

	Logger().Debug("texture overlay: pass complete",
		"tiles", tiles,
		"tile", fmt.Sprintf("%dx%d", tileW, tileH),
		"dest", fmt.Sprintf("%dx%d", destW, destH),
		"anchor", fmt.Sprintf("%d,%d", e.anchorX, e.anchorY),
		"mode", cfg.mode.String(),
		"reflect", cfg.reflect)
	return nil
}

// sweep walks the tile grid from the current anchor and returns the number
// of tiles drawn. Orientation state: colFirst flips per tile within a row,
// rowFirst flips per row, and each row restarts with colFirst true.
func (e *Engine) sweep(dst surface.Canvas, img image.Image, tileW, tileH, destW, destH int, reflect bool) int {
	tiles := 0
	rowFirst := true
	for ty := e.anchorY; ty < destH; ty += tileH {
		colFirst := true
		for tx := e.anchorX; tx < destW; tx += tileW {
			drawTile(dst, img, tx, ty, tileW, tileH, reflect, rowFirst, colFirst)
			tiles++
			colFirst = !colFirst
		}
		rowFirst = !rowFirst
	}
	return tiles
}

// drawTile draws one tile. Mirrored orientations run inside a pushed scale
// scope so the flip never leaks to neighboring tiles.
func drawTile(dst surface.Canvas, img image.Image, tx, ty, tileW, tileH int, reflect, rowFirst, colFirst bool) {
	x, y := float64(tx), float64(ty)
	w, h := float64(tileW), float64(tileH)
	if !reflect || (rowFirst && colFirst) {
		dst.DrawImage(img, x, y, w, h)
		return
	}

	sx, sy := 1.0, 1.0
	if !colFirst {
		sx = -1
		x = -(x + w)
	}
	if !rowFirst {
		sy = -1
		y = -(y + h)
	}
	dst.Push()
	dst.Scale(sx, sy)
	dst.DrawImage(img, x, y, w, h)
	dst.Pop()
}
