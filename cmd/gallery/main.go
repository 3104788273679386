package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/config"
	"github.com/valerio/go-cavern/cavern/game"
	"github.com/valerio/go-cavern/cavern/vfs"
)

const (
	startMarker = "<!-- GALLERY:START -->"
	endMarker   = "<!-- GALLERY:END -->"
)

// shot is one rendered stage.
type shot struct {
	Stage string
	File  string
}

func main() {
	app := cli.NewApp()
	app.Name = "gallery"
	app.Usage = "render every configured stage headless and update the gallery table"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "Path to the settings file", Value: config.Path()},
		cli.StringFlag{Name: "out", Usage: "Directory for the stage images", Value: filepath.Join("docs", "gallery")},
		cli.StringFlag{Name: "readme", Usage: "Markdown file to update in place", Value: "README.md"},
		cli.IntFlag{Name: "frames", Usage: "Frames to run per stage before the capture", Value: 60},
		cli.IntFlag{Name: "cols", Usage: "Number of columns per row", Value: 4},
		cli.IntFlag{Name: "width", Usage: "Image width in pixels", Value: 160},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error building gallery", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	settings, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	settings.Backend = config.BackendHeadless

	fs, err := vfs.NewOS(settings.DataDir, settings.UserDir)
	if err != nil {
		slog.Warn("Data directory unavailable, using built-in art", "error", err)
		if fs, err = vfs.NewMemory(); err != nil {
			return err
		}
	}

	out := c.String("out")
	shots, err := render(settings, fs, out, c.Int("frames"))
	if err != nil {
		return err
	}

	readme := c.String("readme")
	content, err := os.ReadFile(readme)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", readme, err)
	}
	updated, err := splice(string(content), table(shots, out, c.Int("cols"), c.Int("width")))
	if err != nil {
		return fmt.Errorf("%s: %w", readme, err)
	}
	if err := os.WriteFile(readme, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", readme, err)
	}
	slog.Info("Gallery updated", "readme", readme, "stages", len(shots))
	return nil
}

// render runs each stage for frames ticks and writes its last frame to dir.
func render(settings *config.Settings, fs *vfs.VFS, dir string, frames int) ([]shot, error) {
	if frames <= 0 {
		return nil, errors.New("frames must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create gallery directory: %w", err)
	}

	var shots []shot
	for _, st := range settings.Stages {
		g, err := game.New(settings, fs, game.Options{Stage: st.Name, Frames: frames, Fallback: []string{}})
		if err != nil {
			return nil, err
		}
		err = g.Run()
		frame := g.Headless().LastFrame()
		if cerr := g.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", st.Name, err)
		}

		name := slug(st.Name) + ".png"
		if err := save(frame, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		slog.Info("Saved stage", "stage", st.Name, "file", name)
		shots = append(shots, shot{Stage: st.Name, File: name})
	}
	return shots, nil
}

func save(frame *canvas.Canvas, path string) error {
	var buf bytes.Buffer
	if err := frame.Encode(&buf, canvas.FormatPNG); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// table lays the shots out as an HTML table, cols per row.
func table(shots []shot, dir string, cols, width int) []byte {
	if cols <= 0 {
		cols = 3
	}
	var buf bytes.Buffer
	buf.WriteString("<table>\n")
	for i := 0; i < len(shots); i += cols {
		buf.WriteString("  <tr>\n")
		for c := 0; c < cols; c++ {
			if i+c >= len(shots) {
				buf.WriteString("    <td></td>\n")
				continue
			}
			s := shots[i+c]
			src := filepath.ToSlash(filepath.Join(dir, url.PathEscape(s.File)))
			fmt.Fprintf(&buf, "    <td align=\"center\"><img src=\"%s\" width=\"%d\" /><br><sub>%s</sub></td>\n", src, width, s.Stage)
		}
		buf.WriteString("  </tr>\n")
	}
	buf.WriteString("</table>\n")
	return buf.Bytes()
}

// splice replaces whatever sits between the gallery markers.
func splice(content string, body []byte) (string, error) {
	start := strings.Index(content, startMarker)
	end := strings.Index(content, endMarker)
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("markers not found, add %s and %s", startMarker, endMarker)
	}
	var out strings.Builder
	out.WriteString(content[:start+len(startMarker)])
	out.WriteString("\n")
	out.Write(body)
	out.WriteString(content[end:])
	return out.String(), nil
}
