package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-cavern/cavern/background"
	"github.com/valerio/go-cavern/cavern/config"
	"github.com/valerio/go-cavern/cavern/graphics"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cavern.toml")
	doc := `
backend = "software"
scale = 3
mystery = 1

[[stage]]
name = "Grasstown"
type = "tiled_parallax"
color = "#102030"
background = "bkGreen"
water_level = 64
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSoftware, s.Backend)
	assert.Equal(t, 3, s.Scale)
	assert.True(t, s.VSync, "absent keys keep defaults")
	assert.Equal(t, 50, s.TickRate)

	require.Len(t, s.Stages, 1)
	st := s.Stages[0]
	assert.Equal(t, background.TiledParallax, st.Type)
	assert.Equal(t, "#102030", st.Color.Hex())
	assert.Equal(t, background.Stage{
		Type:       background.TiledParallax,
		Color:      st.Color,
		Background: "bkGreen",
		WaterLevel: 64,
	}, st.Stage())
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"syntax":  `backend = `,
		"backend": `backend = "vulkan"`,
		"scale":   `scale = 0`,
		"type":    "[[stage]]\ntype = \"lava\"",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cavern.toml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cavern.toml")
	s := config.Default()
	s.Backend = config.BackendTerminal
	s.Stages[0].Color = graphics.RGB(0xAA, 0xBB, 0xCC)
	require.NoError(t, config.Save(path, s))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.BackendTerminal, loaded.Backend)
	assert.Equal(t, "#aabbcc", loaded.Stages[0].Color.Hex())
	assert.Len(t, loaded.Stages, len(s.Stages))
	for i := range s.Stages {
		assert.Equal(t, s.Stages[i].Type, loaded.Stages[i].Type)
		assert.Equal(t, s.Stages[i].Background, loaded.Stages[i].Background)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/cavern", config.Dir())
	assert.Equal(t, "/tmp/xdg/cavern/cavern.toml", config.Path())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/quote")
	assert.Equal(t, "/home/quote/.config/cavern", config.Dir())
}

func TestStageByName(t *testing.T) {
	s := config.Default()
	st, ok := s.StageByName("outer wall")
	require.True(t, ok)
	assert.Equal(t, background.OutsideWind, st.Type)

	_, ok = s.StageByName("Last Cave")
	assert.False(t, ok)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := config.NewWatcher(dir, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bkCustom.json"), []byte("{}"), 0o600))

	var names []string
	require.Eventually(t, func() bool {
		names = append(names, w.Drain()...)
		return len(names) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, names, "bkCustom")
	assert.NotContains(t, names, "notes")
}
