package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/valerio/go-cavern/cavern/backend/headless"
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/config"
	"github.com/valerio/go-cavern/cavern/game"
	"github.com/valerio/go-cavern/cavern/vfs"
)

func main() {
	app := cli.NewApp()
	app.Name = "cavern"
	app.Description = "Background and renderer demo for a Cave Story style engine"
	app.Usage = "cavern [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to the settings file",
			Value: config.Path(),
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Renderer backend: opengl, software, terminal or headless (overrides settings)",
		},
		cli.StringFlag{
			Name:  "stage",
			Usage: "Stage to start on, by name or background",
		},
		cli.IntFlag{
			Name:  "stage-ticks",
			Usage: "Advance to the next stage every N ticks (0 = never)",
		},
		cli.StringFlag{
			Name:  "data",
			Usage: "Data directory holding bkg/ and background images (overrides settings)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale (overrides settings)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "Seed for layer jitter (-1 = settings value)",
			Value: -1,
		},
		cli.BoolFlag{
			Name:  "no-jitter",
			Usage: "Disable random jitter on layer wrap",
		},
		cli.BoolFlag{
			Name:  "save-config",
			Usage: "Write the effective settings back to --config and exit",
		},
		cli.BoolFlag{
			Name:  "watch",
			Usage: "Reload background configs when they change on disk",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Stop after N frames (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "snapshot-format",
			Usage: "Snapshot image format: png or bmp",
			Value: string(canvas.FormatPNG),
		},
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running cavern", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	settings, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if err := applyFlags(c, settings); err != nil {
		return err
	}
	if c.Bool("save-config") {
		return config.Save(c.String("config"), settings)
	}

	frames := c.Int("frames")
	opts := game.Options{
		Stage:      c.String("stage"),
		StageTicks: c.Int("stage-ticks"),
		Frames:     frames,
		Watch:      c.Bool("watch"),
	}

	if settings.Backend == config.BackendHeadless {
		if frames <= 0 {
			return fmt.Errorf("headless mode requires --frames option with a positive value")
		}
		opts.Snapshot, err = headless.CreateSnapshotConfig(
			c.Int("snapshot-interval"),
			c.String("snapshot-dir"),
			"cavern",
			canvas.Format(c.String("snapshot-format")),
		)
		if err != nil {
			return err
		}
	}

	fs, err := vfs.NewOS(settings.DataDir, settings.UserDir)
	if err != nil {
		slog.Warn("Data directory unavailable, using built-in art", "error", err)
		if fs, err = vfs.NewMemory(); err != nil {
			return err
		}
	}

	g, err := game.New(settings, fs, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Warn("Shutdown incomplete", "error", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		if _, ok := <-sigs; ok {
			g.Stop()
		}
	}()

	return g.Run()
}

func applyFlags(c *cli.Context, s *config.Settings) error {
	if b := c.String("backend"); b != "" {
		s.Backend = b
	}
	if d := c.String("data"); d != "" {
		s.DataDir = d
	}
	if scale := c.Int("scale"); scale > 0 {
		s.Scale = scale
	}
	if seed := c.Int64("seed"); seed >= 0 {
		s.Seed = uint32(seed)
	}
	if c.Bool("no-jitter") {
		s.Jitter = false
	}
	return s.Validate()
}
