// Package assets loads and caches the textures the background draws from.
package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/vfs"
)

// extensions are tried in order for every texture name.
var extensions = []string{".png", ".bmp"}

// TextureSet caches one sprite batch per texture name for one renderer.
type TextureSet struct {
	renderer backend.Dynamic
	fs       *vfs.VFS
	batches  map[string]backend.Texture
	// Tint colours synthesised atlases.
	Tint graphics.Color
}

// NewTextureSet creates an empty set. Textures load on first use.
func NewTextureSet(r backend.Dynamic, fs *vfs.VFS) *TextureSet {
	return &TextureSet{
		renderer: r,
		fs:       fs,
		batches:  map[string]backend.Texture{},
		Tint:     graphics.RGB(0x3a, 0x6e, 0xa5),
	}
}

// Batch returns the sprite batch for name, loading /<name>.png or
// /<name>.bmp, or synthesising an atlas when neither exists.
func (s *TextureSet) Batch(name string) (backend.Texture, error) {
	if b, ok := s.batches[name]; ok {
		return b, nil
	}

	img, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	if img == nil {
		p := PatternFor(name)
		img = Generate(p, s.Tint)
		slog.Debug("Synthesised texture", "name", name, "pattern", p)
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	tex, err := s.renderer.CreateTexture(uint16(w), uint16(h), img.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %s: %w", name, err)
	}
	s.batches[name] = tex
	return tex, nil
}

// Load decodes the image file for name. It returns nil, nil when no file
// exists under any known extension.
func (s *TextureSet) Load(name string) (*image.NRGBA, error) {
	for _, ext := range extensions {
		p := "/" + strings.TrimPrefix(name, "/") + ext
		if !s.fs.Exists(p) {
			continue
		}
		data, err := s.fs.ReadFile(p)
		if err != nil {
			return nil, &graphics.ResourceLoadError{Path: p, Err: err}
		}
		img, err := Decode(data, ext == ".bmp")
		if err != nil {
			return nil, &graphics.ResourceLoadError{Path: p, Err: err}
		}
		slog.Debug("Texture loaded", "path", p, "width", img.Rect.Dx(), "height", img.Rect.Dy())
		return img, nil
	}
	return nil, nil
}

// Decode reads a PNG or BMP into tightly packed NRGBA. Bitmaps use black
// as the transparent colour key.
func Decode(data []byte, colorKey bool) (*image.NRGBA, error) {
	var (
		src image.Image
		err error
	)
	if colorKey {
		src, err = bmp.Decode(bytes.NewReader(data))
	} else {
		src, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Rect, src, b.Min, draw.Src)

	if colorKey {
		for i := 0; i < len(img.Pix); i += 4 {
			if img.Pix[i] == 0 && img.Pix[i+1] == 0 && img.Pix[i+2] == 0 {
				img.Pix[i+3] = 0
			}
		}
	}
	return img, nil
}

// Invalidate drops the cached batch for name so the next Batch reloads it.
func (s *TextureSet) Invalidate(name string) {
	if b, ok := s.batches[name]; ok {
		b.Release()
		delete(s.batches, name)
	}
}

// Release frees every cached batch.
func (s *TextureSet) Release() {
	for name, b := range s.batches {
		b.Release()
		delete(s.batches, name)
	}
}

// Len is the number of cached batches.
func (s *TextureSet) Len() int {
	return len(s.batches)
}
