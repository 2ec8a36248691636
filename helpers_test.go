package brushbot

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/brushbot/palette"
	"github.com/stretchr/testify/require"
)

var (
	red   = palette.Color{R: 0xff}
	green = palette.Color{G: 0xff}
	blue  = palette.Color{B: 0xff}
)

// writePNG writes an image made of rows of colors to dir/name.
func writePNG(t *testing.T, dir, name string, rows [][]palette.Color) string {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, c := range row {
			m.Set(x, y, c)
		}
	}

	file := filepath.Join(dir, name)
	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, m))
	return file
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Settings.Step = 1
	cfg.Settings.Delay = 0
	cfg.Canvas.Box = Box{0, 0, 40, 20}
	cfg.Palette.Colors = []ColorEntry{
		{Hex: "#ff0000", X: 100, Y: 10},
		{Hex: "#00ff00", X: 110, Y: 10},
		{Hex: "#0000ff", X: 120, Y: 10},
	}
	return cfg
}

func newBot(t *testing.T, cfg *Config) *Bot {
	t.Helper()

	b, err := New(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}
