package grain

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/webp"

	"github.com/gogpu/grain/surface"
)

// Texture is a decoded image ready for overlay compositing. Pixels are
// normalized to non-premultiplied RGBA once at construction, so repeated
// overlay passes never re-convert.
type Texture struct {
	img *image.NRGBA
}

// LoadTexture loads a texture from a PNG, JPEG, or WebP file, picking the
// decoder by extension and falling back to content detection for anything
// else.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("load texture: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("load texture: decode PNG: %w", err)
		}
		return TextureFromImage(img), nil
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("load texture: decode JPEG: %w", err)
		}
		return TextureFromImage(img), nil
	case ".webp":
		img, err := webp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("load texture: decode WebP: %w", err)
		}
		return TextureFromImage(img), nil
	default:
		return DecodeTexture(f)
	}
}

// DecodeTexture decodes a texture from r, auto-detecting the format among
// the registered decoders (PNG, JPEG, WebP).
func DecodeTexture(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage wraps an already decoded image. Premultiplied sources
// are converted; a zero-origin *image.NRGBA is reused without copying.
func TextureFromImage(img image.Image) *Texture {
	return &Texture{img: surface.ToNRGBA(img)}
}

// Bounds returns the texture's natural pixel rectangle. Overlay tiles
// default to these dimensions.
func (t *Texture) Bounds() image.Rectangle {
	return t.img.Bounds()
}

// Image returns the decoded pixels.
func (t *Texture) Image() image.Image {
	return t.img
}
