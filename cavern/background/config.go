// Package background implements the layered, animated stage background:
// the versioned JSON configuration and the engine that ticks and draws it.
package background

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/vfs"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 1

// Dir is the virtual directory background configs live in.
const Dir = "/bkg"

var (
	// ErrUnknownVersion is returned for configs newer than CurrentVersion or
	// with a version no upgrade step knows about.
	ErrUnknownVersion = errors.New("unknown background config version")
	// ErrInvalidJSON is returned when the document is not JSON at all.
	ErrInvalidJSON = errors.New("invalid background config JSON")
)

// LightingMode hints how the stage wants to be lit.
type LightingMode int

const (
	LightingNone LightingMode = iota
	LightingBackgroundOnly
	LightingFull
)

// ScrollFlags are the per-layer behaviour switches.
type ScrollFlags struct {
	FollowPCX              bool `json:"follow_pc_x"`
	FollowPCY              bool `json:"follow_pc_y"`
	AutoscrollX            bool `json:"autoscroll_x"`
	AutoscrollY            bool `json:"autoscroll_y"`
	AlignWithWaterLvl      bool `json:"align_with_water_lvl"`
	DrawAboveForeground    bool `json:"draw_above_foreground"`
	RandomScrollSpeedX     bool `json:"random_scroll_speed_x"`
	RandomScrollSpeedY     bool `json:"random_scroll_speed_y"`
	LockToXAxis            bool `json:"lock_to_x_axis"`
	LockToYAxis            bool `json:"lock_to_y_axis"`
	RandomizeAllParameters bool `json:"randomize_all_parameters"`
}

// AnimationStyle describes frame animation and scrolling. Speeds are in
// pixels per tick, AnimationSpeed in ticks per frame.
type AnimationStyle struct {
	FrameCount     uint32      `json:"frame_count"`
	FrameStart     uint32      `json:"frame_start"`
	AnimationSpeed uint32      `json:"animation_speed"`
	ScrollSpeedX   float32     `json:"scroll_speed_x"`
	ScrollSpeedY   float32     `json:"scroll_speed_y"`
	ScrollFlags    ScrollFlags `json:"scroll_flags"`
}

// LayerConfig is one layer: a sub-rect of the background bitmap repeated
// on a grid anchored at the corner offset.
type LayerConfig struct {
	LayerEnabled bool `json:"layer_enabled"`

	BmpXOffset uint32 `json:"bmp_x_offset"`
	BmpYOffset uint32 `json:"bmp_y_offset"`
	BmpWidth   uint32 `json:"bmp_width"`
	BmpHeight  uint32 `json:"bmp_height"`

	DrawRepeatX       uint32  `json:"draw_repeat_x"`
	DrawRepeatY       uint32  `json:"draw_repeat_y"`
	DrawRepeatGapX    uint32  `json:"draw_repeat_gap_x"`
	DrawRepeatGapY    uint32  `json:"draw_repeat_gap_y"`
	DrawCornerOffsetX float32 `json:"draw_corner_offset_x"`
	DrawCornerOffsetY float32 `json:"draw_corner_offset_y"`

	AnimationStyle AnimationStyle `json:"animation_style"`
}

// SourceRect is the bitmap rect of the given animation frame.
func (l *LayerConfig) SourceRect(frame uint32) graphics.Rect[int] {
	x := int(l.BmpXOffset + l.BmpWidth*frame)
	y := int(l.BmpYOffset + l.BmpHeight*frame)
	return graphics.NewRect(x, y, x+int(l.BmpWidth), y+int(l.BmpHeight))
}

// BkgConfig is the persisted description of one background.
type BkgConfig struct {
	Version      uint32        `json:"version"`
	BmpFilename  string        `json:"bmp_filename"`
	LightingMode LightingMode  `json:"lighting_mode"`
	Layers       []LayerConfig `json:"layers"`
}

// Default is the config used when none could be loaded: no layers, so
// custom stages fall back to a plain tiled fill.
func Default() *BkgConfig {
	return &BkgConfig{Version: CurrentVersion, Layers: []LayerConfig{}}
}

// upgrades maps a version to the fixup that lifts a config to the next one.
var upgrades = map[uint32]func(*BkgConfig){}

// Upgrade applies version fixups until the config is current.
func (c *BkgConfig) Upgrade() error {
	if c.Version == 0 || c.Version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnknownVersion, c.Version)
	}
	for c.Version < CurrentVersion {
		fix, ok := upgrades[c.Version]
		if !ok {
			return fmt.Errorf("%w: no upgrade from %d", ErrUnknownVersion, c.Version)
		}
		fix(c)
		slog.Info("Upgraded background config", "from", c.Version, "to", c.Version+1)
		c.Version++
	}
	return nil
}

// Parse decodes a config document. A missing version means current; the
// version is read before decoding so unknown schemas are never half-decoded.
func Parse(data []byte) (*BkgConfig, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	version := uint32(CurrentVersion)
	if v := gjson.GetBytes(data, "version"); v.Exists() {
		if v.Type != gjson.Number || v.Num < 0 || v.Num != float64(uint32(v.Num)) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, v.Raw)
		}
		version = uint32(v.Num)
	}
	if version == 0 || version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode background config: %w", err)
	}
	cfg.Version = version
	if cfg.Layers == nil {
		cfg.Layers = []LayerConfig{}
	}
	if err := cfg.Upgrade(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal pretty-prints the config the way Save writes it.
func (c *BkgConfig) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode background config: %w", err)
	}
	return buf.Bytes(), nil
}

// FilePath is the virtual path of a named config.
func FilePath(name string) string {
	return path.Join(Dir, name+".json")
}

// Load reads /bkg/<name>.json.
func Load(fs *vfs.VFS, name string) (*BkgConfig, error) {
	p := FilePath(name)
	data, err := fs.ReadFile(p)
	if err != nil {
		return nil, &graphics.ResourceLoadError{Path: p, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		slog.Debug("Failed to parse background config", "path", p, "error", err)
		return nil, &graphics.ResourceLoadError{Path: p, Err: err}
	}
	slog.Debug("Background config loaded", "name", name, "layers", len(cfg.Layers))
	return cfg, nil
}

// LoadOrDefault is Load that degrades to Default with a warning, so a broken
// config shows a plain background instead of failing the stage.
func LoadOrDefault(fs *vfs.VFS, name string) *BkgConfig {
	cfg, err := Load(fs, name)
	if err != nil {
		slog.Warn("Using default background config", "name", name, "error", err)
		return Default()
	}
	return cfg
}

// Save writes the config into the user overlay.
func Save(fs *vfs.VFS, name string, cfg *BkgConfig) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := fs.WriteUserFile(FilePath(name), data); err != nil {
		return fmt.Errorf("failed to save background config %s: %w", name, err)
	}
	slog.Info("Background config saved", "name", name)
	return nil
}

// Canonical is the document Save would write for data.
func Canonical(data []byte) ([]byte, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg.Marshal()
}

// Patch sets one field addressed by a gjson path, e.g.
// "layers.0.animation_style.scroll_speed_x", and returns the canonical
// result. The patched document must still parse.
func Patch(data []byte, field string, value any) ([]byte, error) {
	patched, err := sjson.SetBytes(data, field, value)
	if err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", field, err)
	}
	return Canonical(patched)
}
