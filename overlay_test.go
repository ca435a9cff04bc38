package grain

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/grain/blend"
	"github.com/gogpu/grain/surface"
)

// drawCall records one DrawImage with the scale and blend state active at
// draw time.
type drawCall struct {
	x, y, w, h float64
	sx, sy     float64
	mode       blend.Mode
}

// recordCanvas is a surface.Canvas double that records drawing traffic
// instead of rasterizing.
type recordCanvas struct {
	w, h int

	mode  blend.Mode
	cur   [2]float64
	stack [][2]float64

	calls  []drawCall
	modes  []blend.Mode
	pushes int
	pops   int
	resets int
}

func newRecordCanvas(w, h int) *recordCanvas {
	return &recordCanvas{w: w, h: h, cur: [2]float64{1, 1}}
}

func (r *recordCanvas) Width() int        { return r.w }
func (r *recordCanvas) Height() int       { return r.h }
func (r *recordCanvas) PixelDensity() int { return 1 }
func (r *recordCanvas) LoadPixels() []byte {
	return make([]byte, 4*r.w*r.h)
}
func (r *recordCanvas) UpdatePixels() {}

func (r *recordCanvas) DrawImage(img image.Image, x, y, w, h float64) {
	r.calls = append(r.calls, drawCall{x, y, w, h, r.cur[0], r.cur[1], r.mode})
}

func (r *recordCanvas) Scale(sx, sy float64) {
	r.cur[0] *= sx
	r.cur[1] *= sy
}

func (r *recordCanvas) Push() {
	r.pushes++
	r.stack = append(r.stack, r.cur)
}

func (r *recordCanvas) Pop() {
	r.pops++
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *recordCanvas) SetBlendMode(m blend.Mode) {
	r.mode = m
	r.modes = append(r.modes, m)
}

func (r *recordCanvas) BlendMode() blend.Mode { return r.mode }

func (r *recordCanvas) Reset() {
	r.resets++
	r.cur = [2]float64{1, 1}
	r.stack = nil
	r.mode = blend.Normal
}

// Verify recordCanvas implements Canvas.
var _ surface.Canvas = (*recordCanvas)(nil)

// pixelOnlySurface implements Surface but cannot draw.
type pixelOnlySurface struct {
	w, h int
	pix  []byte
}

func (p *pixelOnlySurface) Width() int         { return p.w }
func (p *pixelOnlySurface) Height() int        { return p.h }
func (p *pixelOnlySurface) PixelDensity() int  { return 1 }
func (p *pixelOnlySurface) LoadPixels() []byte { return p.pix }
func (p *pixelOnlySurface) UpdatePixels()      {}

var _ surface.Surface = (*pixelOnlySurface)(nil)

// testTexture builds a blank texture with the given natural size.
func testTexture(w, h int) *Texture {
	return TextureFromImage(image.NewNRGBA(image.Rect(0, 0, w, h)))
}

func TestTextureOverlayGrid(t *testing.T) {
	rc := newRecordCanvas(10, 10)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if err := eng.TextureOverlay(testTexture(4, 4)); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}

	want := []drawCall{
		{0, 0, 4, 4, 1, 1, blend.Multiply},
		{4, 0, 4, 4, 1, 1, blend.Multiply},
		{8, 0, 4, 4, 1, 1, blend.Multiply},
		{0, 4, 4, 4, 1, 1, blend.Multiply},
		{4, 4, 4, 4, 1, 1, blend.Multiply},
		{8, 4, 4, 4, 1, 1, blend.Multiply},
		{0, 8, 4, 4, 1, 1, blend.Multiply},
		{4, 8, 4, 4, 1, 1, blend.Multiply},
		{8, 8, 4, 4, 1, 1, blend.Multiply},
	}
	if len(rc.calls) != len(want) {
		t.Fatalf("draws = %d, want %d", len(rc.calls), len(want))
	}
	for i, call := range rc.calls {
		if call != want[i] {
			t.Errorf("draw %d = %+v, want %+v", i, call, want[i])
		}
	}
}

func TestTextureOverlayReflectOrientations(t *testing.T) {
	rc := newRecordCanvas(8, 8)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if err := eng.TextureOverlay(testTexture(4, 4), OverlayReflect()); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}

	// 2x2 grid: normal, horizontal mirror, vertical mirror, both.
	want := []drawCall{
		{0, 0, 4, 4, 1, 1, blend.Multiply},
		{-8, 0, 4, 4, -1, 1, blend.Multiply},
		{0, -8, 4, 4, 1, -1, blend.Multiply},
		{-8, -8, 4, 4, -1, -1, blend.Multiply},
	}
	if len(rc.calls) != len(want) {
		t.Fatalf("draws = %d, want %d", len(rc.calls), len(want))
	}
	for i, call := range rc.calls {
		if call != want[i] {
			t.Errorf("draw %d = %+v, want %+v", i, call, want[i])
		}
	}

	// Mirrored tiles run inside balanced Push/Pop scopes and the transform
	// never leaks past the pass.
	if rc.pushes != 3 || rc.pops != 3 {
		t.Errorf("pushes/pops = %d/%d, want 3/3", rc.pushes, rc.pops)
	}
	if rc.cur != [2]float64{1, 1} {
		t.Errorf("transform after pass = %v, want identity", rc.cur)
	}
}

func TestTextureOverlayBlendLifecycle(t *testing.T) {
	rc := newRecordCanvas(4, 4)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if err := eng.TextureOverlay(testTexture(4, 4), OverlayBlend(blend.Screen)); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}

	wantModes := []blend.Mode{blend.Screen, blend.Normal}
	if len(rc.modes) != len(wantModes) {
		t.Fatalf("mode changes = %v, want %v", rc.modes, wantModes)
	}
	for i, m := range rc.modes {
		if m != wantModes[i] {
			t.Errorf("mode change %d = %v, want %v", i, m, wantModes[i])
		}
	}
	if rc.mode != blend.Normal {
		t.Errorf("final mode = %v, want Normal", rc.mode)
	}
	if rc.resets != 0 {
		t.Errorf("resets = %d, want 0 for an on-surface pass", rc.resets)
	}
}

func TestTextureOverlayDefaultsToTextureSize(t *testing.T) {
	rc := newRecordCanvas(6, 4)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if err := eng.TextureOverlay(testTexture(3, 2)); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}

	if len(rc.calls) != 4 {
		t.Fatalf("draws = %d, want 4", len(rc.calls))
	}
	for i, call := range rc.calls {
		if call.w != 3 || call.h != 2 {
			t.Errorf("draw %d tile = %vx%v, want 3x2", i, call.w, call.h)
		}
	}
}

func TestTextureOverlayTileOption(t *testing.T) {
	rc := newRecordCanvas(10, 10)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if err := eng.TextureOverlay(testTexture(4, 4), OverlayTile(5, 5)); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}

	if len(rc.calls) != 4 {
		t.Fatalf("draws = %d, want 4", len(rc.calls))
	}
	for i, call := range rc.calls {
		if call.w != 5 || call.h != 5 {
			t.Errorf("draw %d tile = %vx%v, want 5x5", i, call.w, call.h)
		}
	}
}

func TestTextureOverlayDegenerateTile(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		tex  *Texture
		call []OverlayOption
	}{
		{"zero width", nil, testTexture(4, 4), []OverlayOption{OverlayTile(0, 4)}},
		{"zero height", nil, testTexture(4, 4), []OverlayOption{OverlayTile(4, 0)}},
		{"negative", nil, testTexture(4, 4), []OverlayOption{OverlayTile(-2, 4)}},
		{"empty texture", nil, testTexture(0, 0), nil},
		{"validation disabled", []Option{WithoutValidation()}, testTexture(4, 4), []OverlayOption{OverlayTile(0, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := newRecordCanvas(10, 10)
			eng, err := New(rc, tt.opts...)
			if err != nil {
				t.Fatalf("New() = %v", err)
			}
			if err := eng.TextureOverlay(tt.tex, tt.call...); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("TextureOverlay() = %v, want ErrInvalidValue", err)
			}
			if len(rc.calls) != 0 || len(rc.modes) != 0 {
				t.Error("degenerate tile touched the canvas")
			}
		})
	}
}

func TestTextureOverlayZeroSizeDestination(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {0, 0}, {-3, 4}} {
		rc := newRecordCanvas(dims[0], dims[1])
		eng, err := New(rc)
		if err != nil {
			t.Fatalf("New() = %v", err)
		}
		if err := eng.TextureOverlay(testTexture(4, 4)); err != nil {
			t.Errorf("TextureOverlay() on %dx%d = %v, want nil", dims[0], dims[1], err)
		}
		if len(rc.calls) != 0 || len(rc.modes) != 0 {
			t.Errorf("%dx%d destination touched the canvas", dims[0], dims[1])
		}
	}
}

func TestTextureOverlayNilTexture(t *testing.T) {
	rc := newRecordCanvas(8, 8)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := eng.TextureOverlay(nil); !errors.Is(err, ErrInvalidType) {
		t.Errorf("TextureOverlay(nil) = %v, want ErrInvalidType", err)
	}
}

func TestTextureOverlayTargetMustDraw(t *testing.T) {
	plain := &pixelOnlySurface{w: 8, h: 8, pix: make([]byte, 4*8*8)}

	eng, err := New(plain)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := eng.TextureOverlay(testTexture(4, 4)); !errors.Is(err, ErrInvalidType) {
		t.Errorf("TextureOverlay() on pixel-only surface = %v, want ErrInvalidType", err)
	}

	// The guard holds with validation disabled: a target that cannot draw
	// cannot be swept at all.
	loose, err := New(plain, WithoutValidation())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := loose.TextureOverlay(testTexture(4, 4)); !errors.Is(err, ErrInvalidType) {
		t.Errorf("TextureOverlay() without validation = %v, want ErrInvalidType", err)
	}
}

func TestTextureOverlayOffscreenTarget(t *testing.T) {
	main := newRecordCanvas(8, 8)
	off := newRecordCanvas(8, 8)

	eng, err := New(main)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := eng.TextureOverlay(testTexture(4, 4), OverlayTarget(off)); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}

	if len(main.calls) != 0 {
		t.Errorf("bound surface got %d draws, want 0", len(main.calls))
	}
	if len(off.calls) != 4 {
		t.Errorf("offscreen target got %d draws, want 4", len(off.calls))
	}
	// The redirected target is reset to a clean baseline after the pass.
	if off.resets != 1 {
		t.Errorf("offscreen resets = %d, want 1", off.resets)
	}
	if main.resets != 0 {
		t.Errorf("bound surface resets = %d, want 0", main.resets)
	}
}

func TestTextureOverlayTargetSameSurfaceNotOffscreen(t *testing.T) {
	rc := newRecordCanvas(8, 8)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	// Redirecting to the surface the engine is already bound to is not an
	// offscreen pass and must not reset its state.
	if err := eng.TextureOverlay(testTexture(4, 4), OverlayTarget(rc)); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}
	if rc.resets != 0 {
		t.Errorf("resets = %d, want 0", rc.resets)
	}
	if len(rc.calls) != 4 {
		t.Errorf("draws = %d, want 4", len(rc.calls))
	}
}

func TestTextureOverlayAnimateCadence(t *testing.T) {
	rc := newRecordCanvas(8, 8)
	eng, err := New(rc, WithRandom(seqRandom(0.5)))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	tex := testTexture(4, 4)

	// Pass 1: counter below the default cadence, anchor stays (0, 0).
	if err := eng.TextureOverlay(tex, OverlayAnimate()); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}
	if got := rc.calls[0]; got.x != 0 || got.y != 0 {
		t.Errorf("pass 1 first draw at (%v, %v), want (0, 0)", got.x, got.y)
	}

	// Pass 2: cadence reached, anchor redrawn. amount = min(8, 8), so the
	// 0.5 stub yields floor(0.5*8) = 4 and the anchor lands at (-4, -4).
	rc.calls = nil
	if err := eng.TextureOverlay(tex, OverlayAnimate()); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}
	if got := rc.calls[0]; got.x != -4 || got.y != -4 {
		t.Errorf("pass 2 first draw at (%v, %v), want (-4, -4)", got.x, got.y)
	}

	// Pass 3: counter restarted, anchor unchanged.
	rc.calls = nil
	if err := eng.TextureOverlay(tex, OverlayAnimate()); err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}
	if got := rc.calls[0]; got.x != -4 || got.y != -4 {
		t.Errorf("pass 3 first draw at (%v, %v), want (-4, -4)", got.x, got.y)
	}
}

func TestTextureOverlayAnimateShiftOptions(t *testing.T) {
	rc := newRecordCanvas(100, 100)
	eng, err := New(rc, WithRandom(seqRandom(0.5, 0.999)))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	// ShiftEvery(1) re-anchors immediately; ShiftAmount(2) bounds the
	// anchor to (-1, 0]: floor(0.5*2) = 1, floor(0.999*2) = 1.
	err = eng.TextureOverlay(testTexture(4, 4),
		OverlayAnimate(ShiftEvery(1), ShiftAmount(2)))
	if err != nil {
		t.Fatalf("TextureOverlay() = %v", err)
	}
	if got := rc.calls[0]; got.x != -1 || got.y != -1 {
		t.Errorf("first draw at (%v, %v), want (-1, -1)", got.x, got.y)
	}
}

func TestTextureOverlayAnchorNeverPositive(t *testing.T) {
	rc := newRecordCanvas(12, 12)
	eng, err := New(rc, WithRandom(seqRandom(0.0, 0.999, 0.25, 0.75, 0.5)))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	tex := testTexture(5, 5)

	for pass := range 6 {
		rc.calls = nil
		if err := eng.TextureOverlay(tex, OverlayAnimate(ShiftEvery(1))); err != nil {
			t.Fatalf("TextureOverlay() pass %d = %v", pass+1, err)
		}
		first := rc.calls[0]
		if first.x > 0 || first.y > 0 {
			t.Fatalf("pass %d anchored at (%v, %v), want both <= 0", pass+1, first.x, first.y)
		}
	}
}

func TestTextureOverlayAnimateValidation(t *testing.T) {
	rc := newRecordCanvas(8, 8)
	eng, err := New(rc)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	tex := testTexture(4, 4)

	cases := []struct {
		name string
		opt  OverlayOption
	}{
		{"zero cadence", OverlayAnimate(ShiftEvery(0))},
		{"negative amount", OverlayAnimate(ShiftAmount(-1))},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if err := eng.TextureOverlay(tex, tt.opt); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("TextureOverlay() = %v, want ErrInvalidValue", err)
			}
			if len(rc.calls) != 0 || len(rc.modes) != 0 {
				t.Error("rejected call touched the canvas")
			}
		})
	}
}

func TestTextureOverlayReflectWithAnchor(t *testing.T) {
	rc := newRecordCanvas(8, 8)
	eng, err := New(rc, WithRandom(seqRandom(0.5)))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	tex := testTexture(4, 4)

	// Drive the anchor to (-4, -4), then check mirrored coordinates still
	// invert around the drifted tile positions.
	for range 2 {
		rc.calls = nil
		if err := eng.TextureOverlay(tex, OverlayReflect(), OverlayAnimate()); err != nil {
			t.Fatalf("TextureOverlay() = %v", err)
		}
	}

	// Anchor (-4, -4) on an 8x8 destination: columns -4, 0, 4 and rows
	// -4, 0, 4, nine tiles alternating orientation from the anchor tile.
	if len(rc.calls) != 9 {
		t.Fatalf("draws = %d, want 9", len(rc.calls))
	}
	first := rc.calls[0]
	if first.x != -4 || first.y != -4 || first.sx != 1 || first.sy != 1 {
		t.Errorf("anchor tile = %+v, want unmirrored at (-4, -4)", first)
	}
	second := rc.calls[1]
	// Second column mirrors horizontally: tile spans [0, 4), drawn at
	// -(0+4) under Scale(-1, 1).
	if second.x != -4 || second.y != -4 || second.sx != -1 || second.sy != 1 {
		t.Errorf("second tile = %+v, want horizontal mirror of (0, -4)", second)
	}
	if rc.cur != [2]float64{1, 1} {
		t.Errorf("transform after pass = %v, want identity", rc.cur)
	}
}
