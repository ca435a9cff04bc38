package grain

import "fmt"

// Styler is implemented by elements whose presentation is driven by string
// properties. TextureAnimate shifts such elements through a single
// "background-position" write carrying a "-Xpx -Ypx" shorthand value.
type Styler interface {
	Style(property, value string)
}

// Positioner is implemented by elements positioned through explicit pixel
// offsets. TextureAnimate shifts such elements with SetPosition(-y, -x),
// matching the direction of the Styler shorthand.
type Positioner interface {
	SetPosition(top, left int)
}

// ShiftOption adjusts one shift animation: a TextureAnimate call, or the
// OverlayAnimate schedule of a texture overlay.
type ShiftOption func(*shiftConfig)

type shiftConfig struct {
	atFrame   int
	amount    int
	amountSet bool
}

func defaultShiftConfig() shiftConfig {
	return shiftConfig{atFrame: 2}
}

// ShiftEvery sets the animation period: the shift applies on every n-th
// call. The default is 2, every other call.
func ShiftEvery(n int) ShiftOption {
	return func(c *shiftConfig) {
		c.atFrame = n
	}
}

// ShiftAmount bounds the random offset: draws are uniform over [0, px).
// The default is the smaller of the destination's width and height.
func ShiftAmount(px int) ShiftOption {
	return func(c *shiftConfig) {
		c.amount = px
		c.amountSet = true
	}
}

// check reports the first degenerate shift parameter. An unset amount is
// derived from the destination later and is not checked here.
func (c *shiftConfig) check(op string) error {
	if c.atFrame <= 0 {
		return fmt.Errorf("%s: shift cadence %d: %w", op, c.atFrame, ErrInvalidValue)
	}
	if c.amountSet && c.amount <= 0 {
		return fmt.Errorf("%s: shift amount %d: %w", op, c.amount, ErrInvalidValue)
	}
	return nil
}

// TextureAnimate nudges a texture-styled element by a random offset every
// few calls, so a repeated texture reads as living grain instead of a
// static pattern. Call it once per rendered frame.
//
// el must implement Styler or Positioner. Stylers receive one
// "background-position" write; Positioners receive SetPosition(-y, -x).
// When el implements both, the Styler path wins.
//
// The cadence and offset bound come from ShiftEvery and ShiftAmount. The
// frame counter lives on the engine, so elements animated through
// different engines never share a schedule.
func (e *Engine) TextureAnimate(el any, opts ...ShiftOption) error {
	cfg := defaultShiftConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if e.validate {
		if el == nil {
			return fmt.Errorf("texture animate: element is nil: %w", ErrInvalidType)
		}
		if !supportsShift(el) {
			return fmt.Errorf("texture animate: element %T: %w", el, ErrUnsupportedElement)
		}
		if err := cfg.check("texture animate"); err != nil {
			return err
		}
	}
	if !cfg.amountSet {
		cfg.amount = min(e.dst.Width(), e.dst.Height())
	}

	e.shiftFrame++
	if e.shiftFrame < cfg.atFrame {
		return nil
	}
	x := e.intBelow(cfg.amount)
	y := e.intBelow(cfg.amount)
	applyShift(el, x, y)
	e.shiftFrame = 0
	return nil
}

func supportsShift(el any) bool {
	switch el.(type) {
	case Styler, Positioner:
		return true
	default:
		return false
	}
}

// applyShift writes the offset through the element's capability. With
// validation disabled an unsupported element is skipped silently.
func applyShift(el any, x, y int) {
	switch t := el.(type) {
	case Styler:
		t.Style("background-position", fmt.Sprintf("-%dpx -%dpx", x, y))
	case Positioner:
		t.SetPosition(-y, -x)
	}
}
