package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-cavern/cavern/config"
	"github.com/valerio/go-cavern/cavern/vfs"
)

func TestSplice(t *testing.T) {
	doc := "# Stages\n" + startMarker + "\nold\n" + endMarker + "\ntail\n"
	out, err := splice(doc, []byte("new\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Stages\n"+startMarker+"\nnew\n"+endMarker+"\ntail\n", out)

	_, err = splice("no markers", nil)
	assert.Error(t, err)

	_, err = splice(endMarker+startMarker, nil)
	assert.Error(t, err, "markers out of order")
}

func TestTable(t *testing.T) {
	shots := []shot{{"First Cave", "first_cave.png"}, {"Sand Zone", "sand_zone.png"}, {"Outer Wall", "outer_wall.png"}}
	out := string(table(shots, "docs/gallery", 2, 100))

	assert.Equal(t, 2, strings.Count(out, "<tr>"))
	assert.Equal(t, 1, strings.Count(out, "<td></td>"), "last row is padded")
	assert.Contains(t, out, `src="docs/gallery/sand_zone.png" width="100"`)
	assert.Contains(t, out, "<sub>Outer Wall</sub>")
}

func TestRender(t *testing.T) {
	fs, err := vfs.NewMemory()
	require.NoError(t, err)
	s := config.Default()
	s.Backend = config.BackendHeadless
	s.Stages = s.Stages[3:5]

	dir := filepath.Join(t.TempDir(), "gallery")
	shots, err := render(s, fs, dir, 3)
	require.NoError(t, err)
	require.Len(t, shots, 2)
	assert.Equal(t, shot{Stage: "Labyrinth", File: "labyrinth.png"}, shots[0])
	assert.Equal(t, "outer_wall.png", shots[1].File)

	for _, sh := range shots {
		info, err := os.Stat(filepath.Join(dir, sh.File))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err = render(s, fs, dir, 0)
	assert.Error(t, err)
}
