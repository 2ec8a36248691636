package palette

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = Color{0xff, 0x00, 0x00}
	green = Color{0x00, 0xff, 0x00}
	blue  = Color{0x00, 0x00, 0xff}
	black = Color{0x00, 0x00, 0x00}
)

func TestNew(t *testing.T) {
	p, err := New(
		Entry{red, image.Pt(1, 1)},
		Entry{green, image.Pt(2, 2)},
		Entry{red, image.Pt(3, 3)},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []Color{red, green}, p.Colors())

	pt, ok := p.Position(red)
	assert.True(t, ok)
	assert.Equal(t, image.Pt(3, 3), pt)

	assert.True(t, p.Contains(green))
	assert.False(t, p.Contains(blue))

	_, err = New()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFromMapIsOrdered(t *testing.T) {
	m := map[Color]image.Point{
		red:   image.Pt(0, 0),
		green: image.Pt(1, 0),
		blue:  image.Pt(2, 0),
		black: image.Pt(3, 0),
	}
	for i := 0; i < 10; i++ {
		p, err := FromMap(m)
		require.NoError(t, err)
		assert.Equal(t, []Color{black, blue, green, red}, p.Colors())
	}
}

func TestNearest(t *testing.T) {
	p, err := New(Entry{Color: red}, Entry{Color: green}, Entry{Color: blue})
	require.NoError(t, err)

	tables := []struct {
		name  string
		query Color
		want  Color
	}{
		{"exact", green, green},
		{"dark red", Color{0x80, 0x10, 0x10}, red},
		{"mostly blue", Color{0x20, 0x30, 0xd0}, blue},
		// Equidistant from all three, first one wins
		{"tie", black, red},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, p.Nearest(table.query))
		})
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance(red, red))
	assert.Equal(t, 2*255*255, Distance(red, green))
	assert.Equal(t, 1+4+9, Distance(Color{1, 2, 3}, Color{0, 0, 0}))
}

func TestSample(t *testing.T) {
	// A 2 row by 3 column palette of 10 pixel cells, offset in the screenshot
	screen := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	cells := []Color{red, green, blue, black, White, red}
	box := image.Rect(20, 30, 50, 50)
	for i, c := range cells {
		x, y := box.Min.X+(i%3)*10, box.Min.Y+(i/3)*10
		draw.Draw(screen, image.Rect(x, y, x+10, y+10), image.NewUniform(c), image.Point{}, draw.Src)
	}

	p, err := Sample(screen, box, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, []Color{red, green, blue, black, White}, p.Colors())

	pt, _ := p.Position(green)
	assert.Equal(t, image.Pt(35, 35), pt)
	pt, _ = p.Position(black)
	assert.Equal(t, image.Pt(25, 45), pt)
	// Repeated color takes the position of the last cell
	pt, _ = p.Position(red)
	assert.Equal(t, image.Pt(45, 45), pt)
}

func TestSampleErrors(t *testing.T) {
	screen := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	tables := []struct {
		name       string
		box        image.Rectangle
		rows, cols int
		err        error
	}{
		{"no rows", image.Rect(0, 0, 10, 10), 0, 1, ErrBadGrid},
		{"negative columns", image.Rect(0, 0, 10, 10), 1, -1, ErrBadGrid},
		{"empty box", image.Rect(5, 5, 5, 5), 1, 1, ErrBadGrid},
		{"cells too small", image.Rect(0, 0, 4, 4), 1, 5, ErrBadGrid},
		{"outside", image.Rect(5, 5, 20, 20), 1, 1, ErrOutOfBounds},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Sample(screen, table.box, table.rows, table.cols)
			assert.ErrorIs(t, err, table.err)
		})
	}
}

func TestChecksum(t *testing.T) {
	p1, err := New(Entry{red, image.Pt(1, 2)}, Entry{green, image.Pt(3, 4)})
	require.NoError(t, err)
	p2, err := New(Entry{red, image.Pt(1, 2)}, Entry{green, image.Pt(3, 4)})
	require.NoError(t, err)
	p3, err := New(Entry{red, image.Pt(1, 2)}, Entry{green, image.Pt(3, 5)})
	require.NoError(t, err)

	assert.Equal(t, p1.Checksum(), p2.Checksum())
	assert.NotEqual(t, p1.Checksum(), p3.Checksum())
}

func TestHex(t *testing.T) {
	c, err := ParseHex("#1e90ff")
	require.NoError(t, err)
	assert.Equal(t, Color{0x1e, 0x90, 0xff}, c)
	assert.Equal(t, "#1e90ff", c.Hex())

	_, err = ParseHex("not a color")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	assert.Equal(t, red, Convert(color.RGBA{0xff, 0, 0, 0xff}))
	assert.Equal(t, green, Convert(color.NRGBA{0, 0xff, 0, 0xff}))
	assert.Equal(t, blue, Convert(blue))
}
