package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/valerio/go-cavern/cavern/background"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 1.5, parseValue("1.5"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "bkFog", parseValue("bkFog"))
	assert.Equal(t, "quoted", parseValue(`"quoted"`))
}

func TestInitSetCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bkTest.json")

	require.NoError(t, initConfig(path, true, false))
	assert.Error(t, initConfig(path, false, false), "refuses to overwrite")

	require.NoError(t, set(path, "layers.1.animation_style.scroll_speed_x", "2.5"))
	require.NoError(t, set(path, "bmp_filename", "bkFog"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, gjson.GetBytes(data, "layers.1.animation_style.scroll_speed_x").Float())

	var out bytes.Buffer
	require.NoError(t, check(&out, "bkTest.json", data))
	assert.Equal(t, "bkTest.json: version 1, 3 layers (3 enabled), bitmap bkFog\n", out.String())

	assert.Error(t, set(path, "version", "7"), "patched document must still parse")
}

func TestFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bkTest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"layers":[]}`), 0o600))

	var out bytes.Buffer
	require.NoError(t, format(&out, path, []byte(`{"version":1,"layers":[]}`), true))
	assert.Equal(t, path+"\n", out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, format(&out, path, data, false))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	want, err := background.Default().Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "keeps the file mode")

	out.Reset()
	require.NoError(t, format(&out, path, data, true))
	assert.Empty(t, out.String(), "canonical files are left alone")
}
