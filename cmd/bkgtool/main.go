package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli"

	"github.com/valerio/go-cavern/cavern/background"
	"github.com/valerio/go-cavern/cavern/game"
)

func main() {
	app := cli.NewApp()
	app.Name = "bkgtool"
	app.Usage = "inspect and edit background config files"
	app.Version = "1.0.0"
	app.Commands = []cli.Command{
		{
			Name:      "check",
			Usage:     "validate configs and print a summary",
			ArgsUsage: "<file>...",
			Action: func(c *cli.Context) error {
				return each(c, func(path string, data []byte) error {
					return check(os.Stdout, path, data)
				})
			},
		},
		{
			Name:      "fmt",
			Usage:     "rewrite configs in canonical form",
			ArgsUsage: "<file>...",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "l", Usage: "only list files that would change"},
			},
			Action: func(c *cli.Context) error {
				return each(c, func(path string, data []byte) error {
					return format(os.Stdout, path, data, c.Bool("l"))
				})
			},
		},
		{
			Name:      "set",
			Usage:     "set one field, e.g. layers.0.animation_style.scroll_speed_x 1.5",
			ArgsUsage: "<file> <field> <value>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 3 {
					cli.ShowCommandHelp(c, "set")
					return errors.New("set needs a file, a field and a value")
				}
				return set(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
			},
		},
		{
			Name:      "init",
			Usage:     "write a new config",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "demo", Usage: "include the demo layers"},
				cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					cli.ShowCommandHelp(c, "init")
					return errors.New("init needs a file")
				}
				return initConfig(c.Args().Get(0), c.Bool("demo"), c.Bool("force"))
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running bkgtool", "error", err)
		os.Exit(1)
	}
}

func each(c *cli.Context, fn func(path string, data []byte) error) error {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return errors.New("no files given")
	}
	var errs []error
	for _, path := range c.Args() {
		data, err := os.ReadFile(path)
		if err == nil {
			err = fn(path, data)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func check(w io.Writer, path string, data []byte) error {
	cfg, err := background.Parse(data)
	if err != nil {
		return err
	}
	enabled := 0
	for _, l := range cfg.Layers {
		if l.LayerEnabled {
			enabled++
		}
	}
	fmt.Fprintf(w, "%s: version %d, %d layers (%d enabled)", path, cfg.Version, len(cfg.Layers), enabled)
	if cfg.BmpFilename != "" {
		fmt.Fprintf(w, ", bitmap %s", cfg.BmpFilename)
	}
	fmt.Fprintln(w)
	return nil
}

func format(w io.Writer, path string, data []byte, listOnly bool) error {
	out, err := background.Canonical(data)
	if err != nil {
		return err
	}
	if bytes.Equal(out, data) {
		return nil
	}
	if listOnly {
		fmt.Fprintln(w, path)
		return nil
	}
	return writeFile(path, out)
}

// parseValue reads JSON literals as such and anything else as a string, so
// `set f bmp_filename bkFog` needs no quoting.
func parseValue(raw string) any {
	if gjson.Valid(raw) {
		return gjson.Parse(raw).Value()
	}
	return raw
}

func set(path, field, raw string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := background.Patch(data, field, parseValue(raw))
	if err != nil {
		return err
	}
	return writeFile(path, out)
}

func initConfig(path string, demo, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists, use --force to overwrite", path)
	}
	cfg := background.Default()
	if demo {
		cfg = game.DemoConfig()
	}
	out, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return writeFile(path, out)
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return err
	}
	slog.Info("Wrote background config", "path", path)
	return nil
}
