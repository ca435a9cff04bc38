package main

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/grain"
	"github.com/gogpu/grain/blend"
	"github.com/gogpu/grain/surface"
)

func newPreviewCmd() *cobra.Command {
	var (
		texPath string
		amount  float64
		fps     int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Live terminal preview of the animated overlay",
		Long: `preview runs the frame loop in the terminal: every tick the backdrop is
re-composited with the animated texture overlay plus grain, then blitted
with half-block cells, two pixels per character.

Keys: q or Esc quits, r toggles reflection, b cycles blend modes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(texPath, amount, fps)
		},
	}

	cmd.Flags().StringVarP(&texPath, "texture", "t", "", "texture image, default is a generated checkerboard")
	cmd.Flags().Float64Var(&amount, "amount", 8, "granulate amount per frame")
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")

	return cmd
}

// previewModes is the blend cycle for the b key.
var previewModes = []blend.Mode{
	blend.Multiply,
	blend.Overlay,
	blend.Screen,
	blend.SoftLight,
	blend.Difference,
}

func runPreview(texPath string, amount float64, fps int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	tex, err := loadPreviewTexture(texPath)
	if err != nil {
		return err
	}

	// One terminal cell shows two stacked pixels, so the canvas is twice
	// as tall as the screen.
	termW, termH := screen.Size()
	canvas := surface.NewCanvas(termW, termH*2)
	base := gradientBase(canvas.Width(), canvas.Height())
	eng, err := grain.New(canvas)
	if err != nil {
		return err
	}

	if fps < 1 {
		fps = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	reflect := false
	modeIdx := 0
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
					reflect = !reflect
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'b':
					modeIdx = (modeIdx + 1) % len(previewModes)
				}
			case *tcell.EventResize:
				screen.Sync()
				termW, termH = screen.Size()
				canvas = surface.NewCanvas(termW, termH*2)
				base = gradientBase(canvas.Width(), canvas.Height())
				eng, err = grain.New(canvas)
				if err != nil {
					return err
				}
			}

		case <-ticker.C:
			// Restore the backdrop, then run this frame's effect pass.
			copy(canvas.Image().Pix, base.Pix)

			overlayOpts := []grain.OverlayOption{
				grain.OverlayBlend(previewModes[modeIdx]),
				grain.OverlayAnimate(grain.ShiftEvery(2)),
			}
			if reflect {
				overlayOpts = append(overlayOpts, grain.OverlayReflect())
			}
			if err := eng.TextureOverlay(tex, overlayOpts...); err != nil {
				return err
			}
			if err := eng.GranulateUniform(amount, false); err != nil {
				return err
			}

			blitHalfBlocks(screen, canvas.Image())
			screen.Show()
		}
	}
}

// loadPreviewTexture loads the texture, or builds a checkerboard when no
// path is given.
func loadPreviewTexture(path string) (*grain.Texture, error) {
	if path != "" {
		return grain.LoadTexture(path)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			c := color.NRGBA{230, 230, 230, 255}
			if (x/4+y/4)%2 == 1 {
				c = color.NRGBA{25, 25, 25, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return grain.TextureFromImage(img), nil
}

// gradientBase renders the fallback backdrop, a vertical blue-to-amber
// ramp that makes every blend mode visibly distinct.
func gradientBase(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		t := float64(y) / float64(max(h-1, 1))
		c := color.NRGBA{
			R: uint8(40 + t*180),
			G: uint8(60 + t*120),
			B: uint8(160 - t*100),
			A: 255,
		}
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// blitHalfBlocks draws two canvas rows per terminal row with the upper
// half block: foreground carries the top pixel, background the bottom.
func blitHalfBlocks(screen tcell.Screen, img *image.NRGBA) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	for cy := range h / 2 {
		for x := range w {
			top := img.NRGBAAt(x, cy*2)
			bottom := img.NRGBAAt(x, cy*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			screen.SetContent(x, cy, '▀', nil, style)
		}
	}
}
