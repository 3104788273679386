// Package config holds the application settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/valerio/go-cavern/cavern/background"
	"github.com/valerio/go-cavern/cavern/display"
	"github.com/valerio/go-cavern/cavern/graphics"
)

const (
	appName  = "cavern"
	fileName = "cavern.toml"
	dirPerm  = 0o700
	filePerm = 0o600
)

// Backend names accepted in the settings file and on the command line.
const (
	BackendOpenGL   = "opengl"
	BackendSoftware = "software"
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

// Backends lists every backend name in fallback order.
var Backends = []string{BackendOpenGL, BackendSoftware, BackendTerminal, BackendHeadless}

// StageConfig describes one demo stage.
type StageConfig struct {
	Name       string                    `toml:"name"`
	Type       background.BackgroundType `toml:"type"`
	Color      graphics.Color            `toml:"color"`
	Background string                    `toml:"background"`
	WaterLevel int                       `toml:"water_level"`
}

// Stage is the engine view of the entry.
func (s StageConfig) Stage() background.Stage {
	return background.Stage{
		Type:       s.Type,
		Color:      s.Color,
		Background: s.Background,
		WaterLevel: s.WaterLevel,
	}
}

// Settings is the content of cavern.toml.
type Settings struct {
	Backend  string        `toml:"backend"`
	Scale    int           `toml:"scale"`
	VSync    bool          `toml:"vsync"`
	DataDir  string        `toml:"data_dir"`
	UserDir  string        `toml:"user_dir"`
	Jitter   bool          `toml:"jitter"`
	Seed     uint32        `toml:"seed"`
	TickRate int           `toml:"tick_rate"`
	Stages   []StageConfig `toml:"stage"`
}

// Default returns the settings used for absent keys.
func Default() *Settings {
	return &Settings{
		Backend:  BackendOpenGL,
		Scale:    display.DefaultScale,
		VSync:    true,
		DataDir:  "data",
		UserDir:  filepath.Join(Dir(), "user"),
		Jitter:   true,
		Seed:     0x5EED,
		TickRate: display.TicksPerSecond,
		Stages:   DefaultStages(),
	}
}

// DefaultStages is one stage per interesting background kind.
func DefaultStages() []StageConfig {
	return []StageConfig{
		{Name: "First Cave", Type: background.TiledStatic, Color: graphics.RGB(0, 0, 32), Background: "bkBlue"},
		{Name: "Mimiga Village", Type: background.TiledParallax, Color: graphics.RGB(0, 32, 0), Background: "bkGreen"},
		{Name: "Sand Zone", Type: background.Tiled, Color: graphics.RGB(32, 16, 0), Background: "bkSand"},
		{Name: "Labyrinth", Type: background.Scrolling, Color: graphics.RGB(0, 0, 0), Background: "bkMaze"},
		{Name: "Outer Wall", Type: background.OutsideWind, Color: graphics.Black, Background: "bkMoon"},
		{Name: "Waterway", Type: background.Waterway, Color: graphics.RGB(0, 16, 48), Background: "bkWater", WaterLevel: 160},
		{Name: "Custom", Type: background.Custom, Color: graphics.RGB(16, 16, 24), Background: "bkCustom", WaterLevel: 180},
	}
}

// Dir is $XDG_CONFIG_HOME/cavern, falling back to ~/.config/cavern.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName)
}

// Path is the default settings file.
func Path() string {
	return filepath.Join(Dir(), fileName)
}

// Load reads settings from path on top of Default. A missing file yields
// the defaults.
func Load(path string) (*Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, s)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No settings file, using defaults", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("Unknown settings keys", "path", path, "keys", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	slog.Info("Settings loaded", "path", path, "backend", s.Backend, "stages", len(s.Stages))
	return s, nil
}

// Validate checks values the loader cannot.
func (s *Settings) Validate() error {
	known := false
	for _, b := range Backends {
		if s.Backend == b {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if s.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", s.Scale)
	}
	if s.TickRate < 1 {
		return fmt.Errorf("tick_rate must be at least 1, got %d", s.TickRate)
	}
	return nil
}

// Save writes settings to path, creating the directory.
func Save(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	slog.Info("Settings saved", "path", path)
	return nil
}

// StageByName finds a stage case-insensitively.
func (s *Settings) StageByName(name string) (StageConfig, bool) {
	for _, st := range s.Stages {
		if strings.EqualFold(st.Name, name) {
			return st, true
		}
	}
	return StageConfig{}, false
}
