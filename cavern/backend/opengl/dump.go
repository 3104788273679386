package opengl

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"golang.org/x/image/bmp"

	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
)

// DumpTexture reads a texture back and writes it to w as a BMP.
func (r *Renderer) DumpTexture(t *Texture, w io.Writer) error {
	const op = "dump_texture"
	if err := r.check(op); err != nil {
		return err
	}
	if t == nil {
		return graphics.NewRenderError(op, fmt.Errorf("%w: no texture", graphics.ErrUnsupported))
	}
	if err := r.own(op, t); err != nil {
		return err
	}

	gl := r.gl
	fb := t.framebuffer
	if fb == 0 {
		fb = gl.GenFramebuffer()
		defer gl.DeleteFramebuffer(fb)
		gl.BindFramebuffer(Framebuffer, fb)
		gl.FramebufferTexture2D(Framebuffer, ColorAttachment0, Texture2D, t.id, 0)
	} else {
		gl.BindFramebuffer(Framebuffer, fb)
	}

	img := r.readPixels(int(t.width), int(t.height), false)
	r.restoreTarget()
	return encodeBMP(w, img)
}

// DumpSurface writes the offscreen surface to w as a BMP, top row first.
func (r *Renderer) DumpSurface(w io.Writer) error {
	if err := r.check("dump_surface"); err != nil {
		return err
	}
	r.gl.BindFramebuffer(Framebuffer, r.surfaceFB)
	img := r.readPixels(r.width, r.height, true)
	r.restoreTarget()
	return encodeBMP(w, img)
}

// DumpTextureFile is DumpTexture into a new file at path.
func (r *Renderer) DumpTextureFile(t *Texture, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &graphics.ResourceLoadError{Path: path, Err: err}
	}
	defer f.Close()

	if err := r.DumpTexture(t, f); err != nil {
		return err
	}
	slog.Info("Texture dumped", "path", path)
	return nil
}

// readPixels reads the bound framebuffer. The surface is stored bottom-up,
// so flip restores the on-screen row order.
func (r *Renderer) readPixels(w, h int, flip bool) *image.NRGBA {
	stride := w * display.BytesPerPixel
	pixels := make([]byte, stride*h)
	r.gl.ReadPixels(0, 0, int32(w), int32(h), pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := y
		if flip {
			src = h - 1 - y
		}
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], pixels[src*stride:(src+1)*stride])
	}
	return img
}

func encodeBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return graphics.NewRenderError("encode_bmp", err)
	}
	return nil
}
