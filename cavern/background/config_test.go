package background_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/valerio/go-cavern/cavern/background"
	"github.com/valerio/go-cavern/cavern/graphics"
	"github.com/valerio/go-cavern/cavern/vfs"
)

const layeredConfig = `{
	"bmp_filename": "bkCustom",
	"lighting_mode": 1,
	"layers": [
		{
			"layer_enabled": true,
			"bmp_width": 64, "bmp_height": 32,
			"draw_repeat_x": 3, "draw_repeat_y": 1,
			"draw_repeat_gap_x": 16,
			"animation_style": {
				"frame_count": 2, "frame_start": 1, "animation_speed": 4,
				"scroll_speed_x": 1.5,
				"scroll_flags": {"autoscroll_x": true, "follow_pc_y": true}
			}
		}
	]
}`

func newVFS(t *testing.T, files map[string]string) *vfs.VFS {
	t.Helper()
	fs, err := vfs.NewMemory()
	require.NoError(t, err)
	for name, data := range files {
		require.NoError(t, fs.WriteDataFile(name, []byte(data)))
	}
	return fs
}

func TestParse(t *testing.T) {
	t.Run("missing version defaults to current", func(t *testing.T) {
		cfg, err := background.Parse([]byte(layeredConfig))
		require.NoError(t, err)
		assert.Equal(t, uint32(background.CurrentVersion), cfg.Version)
		assert.Equal(t, "bkCustom", cfg.BmpFilename)
		assert.Equal(t, background.LightingBackgroundOnly, cfg.LightingMode)
		require.Len(t, cfg.Layers, 1)

		l := cfg.Layers[0]
		assert.True(t, l.LayerEnabled)
		assert.Equal(t, uint32(64), l.BmpWidth)
		assert.Equal(t, float32(1.5), l.AnimationStyle.ScrollSpeedX)
		assert.True(t, l.AnimationStyle.ScrollFlags.AutoscrollX)
		assert.True(t, l.AnimationStyle.ScrollFlags.FollowPCY)
		assert.False(t, l.AnimationStyle.ScrollFlags.DrawAboveForeground)
	})

	t.Run("explicit version", func(t *testing.T) {
		cfg, err := background.Parse([]byte(`{"version": 1}`))
		require.NoError(t, err)
		assert.Equal(t, uint32(1), cfg.Version)
		assert.NotNil(t, cfg.Layers)
		assert.Empty(t, cfg.Layers)
	})

	t.Run("rejects unknown versions", func(t *testing.T) {
		for _, doc := range []string{`{"version": 2}`, `{"version": 0}`, `{"version": "1"}`, `{"version": 1.5}`, `{"version": -1}`} {
			_, err := background.Parse([]byte(doc))
			assert.ErrorIs(t, err, background.ErrUnknownVersion, doc)
		}
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		_, err := background.Parse([]byte(`{"layers": [`))
		assert.ErrorIs(t, err, background.ErrInvalidJSON)

		_, err = background.Parse([]byte(`{"layers": 3}`))
		assert.Error(t, err)
	})
}

func TestUpgrade(t *testing.T) {
	cfg := background.Default()
	require.NoError(t, cfg.Upgrade())
	assert.Equal(t, uint32(background.CurrentVersion), cfg.Version)

	cfg.Version = background.CurrentVersion + 1
	assert.ErrorIs(t, cfg.Upgrade(), background.ErrUnknownVersion)
}

func TestLoad(t *testing.T) {
	fs := newVFS(t, map[string]string{
		"/bkg/custom.json": layeredConfig,
		"/bkg/broken.json": `{"layers": [`,
		"/bkg/future.json": `{"version": 9}`,
	})

	t.Run("reads from the bkg directory", func(t *testing.T) {
		cfg, err := background.Load(fs, "custom")
		require.NoError(t, err)
		assert.Len(t, cfg.Layers, 1)
	})

	t.Run("failures are resource errors", func(t *testing.T) {
		for _, name := range []string{"missing", "broken", "future"} {
			_, err := background.Load(fs, name)
			var loadErr *graphics.ResourceLoadError
			require.True(t, errors.As(err, &loadErr), name)
			assert.Equal(t, "/bkg/"+name+".json", loadErr.Path)
		}

		_, err := background.Load(fs, "future")
		assert.ErrorIs(t, err, background.ErrUnknownVersion)

		_, err = background.Load(fs, "missing")
		var fsErr *vfs.FilesystemError
		assert.True(t, errors.As(err, &fsErr))
	})

	t.Run("LoadOrDefault degrades to the empty config", func(t *testing.T) {
		assert.Equal(t, background.Default(), background.LoadOrDefault(fs, "broken"))
		assert.Len(t, background.LoadOrDefault(fs, "custom").Layers, 1)
	})

	t.Run("a broken config warns once", func(t *testing.T) {
		previous := slog.Default()
		t.Cleanup(func() { slog.SetDefault(previous) })
		var out bytes.Buffer
		slog.SetDefault(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn})))

		background.LoadOrDefault(fs, "broken")
		assert.Equal(t, 1, strings.Count(out.String(), "level=WARN"), out.String())
		assert.Contains(t, out.String(), "broken.json")
	})
}

func TestSaveRoundTrip(t *testing.T) {
	fs := newVFS(t, map[string]string{"/bkg/custom.json": layeredConfig})

	cfg, err := background.Load(fs, "custom")
	require.NoError(t, err)
	require.NoError(t, background.Save(fs, "custom", cfg))

	saved, err := fs.ReadFile("/bkg/custom.json")
	require.NoError(t, err)
	canonical, err := background.Canonical([]byte(layeredConfig))
	require.NoError(t, err)
	assert.Equal(t, string(canonical), string(saved))

	again, err := background.Canonical(saved)
	require.NoError(t, err)
	assert.Equal(t, string(saved), string(again), "canonical form must be stable")

	assert.Equal(t, int64(1), gjson.GetBytes(saved, "version").Int())
	assert.False(t, gjson.GetBytes(saved, "layers.0.ani_wait").Exists())
	assert.False(t, gjson.GetBytes(saved, "layers.0.layer_x_value").Exists())
	assert.True(t, gjson.GetBytes(saved, "layers.0.animation_style.scroll_flags.randomize_all_parameters").Exists())
}

func TestPatch(t *testing.T) {
	out, err := background.Patch([]byte(layeredConfig), "layers.0.animation_style.scroll_speed_x", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, gjson.GetBytes(out, "layers.0.animation_style.scroll_speed_x").Float())
	assert.Equal(t, int64(1), gjson.GetBytes(out, "version").Int())

	_, err = background.Patch([]byte(layeredConfig), "version", 7)
	assert.ErrorIs(t, err, background.ErrUnknownVersion)

	_, err = background.Patch([]byte(layeredConfig), "layers", "nope")
	assert.Error(t, err)
}

func TestBackgroundTypeText(t *testing.T) {
	for bt := background.TiledStatic; bt <= background.Custom; bt++ {
		text, err := bt.MarshalText()
		require.NoError(t, err)

		var back background.BackgroundType
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, bt, back)
	}

	var bt background.BackgroundType
	require.NoError(t, bt.UnmarshalText([]byte("outside_wind")))
	assert.Equal(t, background.OutsideWind, bt)
	assert.True(t, bt.IsOutside())
	assert.Error(t, bt.UnmarshalText([]byte("lava")))

	_, err := background.BackgroundType(99).MarshalText()
	assert.Error(t, err)
}
