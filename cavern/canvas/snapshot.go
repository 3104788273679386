package canvas

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/bmp"

	"github.com/valerio/go-cavern/cavern/display"
)

// Format selects the encoding used for canvas dumps.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// Image converts the canvas to an RGBA image.
func (c *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for i, px := range c.buffer {
		idx := i * display.BytesPerPixel
		img.Pix[idx] = uint8(channel(px, display.ARGBRedShift))
		img.Pix[idx+1] = uint8(channel(px, display.ARGBGreenShift))
		img.Pix[idx+2] = uint8(channel(px, display.ARGBBlueShift))
		img.Pix[idx+3] = uint8(channel(px, display.ARGBAlphaShift))
	}
	return img
}

// Encode writes the canvas in the given format.
func (c *Canvas) Encode(w io.Writer, format Format) error {
	img := c.Image()
	switch format {
	case FormatBMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode BMP: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
	}
	return nil
}

// SaveToDir writes the canvas with a timestamped name and returns the path.
// An empty directory means the current working directory.
func (c *Canvas) SaveToDir(baseName, directory string, format Format) (string, error) {
	timestamp := time.Now().Format("20060102_150405.000")
	filename := fmt.Sprintf("%s_%s.%s", baseName, timestamp, format)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := c.Encode(file, format); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", c.width, c.height), "format", format)
	return filePath, nil
}
