package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 24-bit RGB color. It is comparable and so can be used
// as a map key.
type Color struct {
	R, G, B uint8
}

// White is the color skipped when ignoring white.
var White = Color{0xff, 0xff, 0xff}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

// Hex returns the color in "#rrggbb" form.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func (c Color) less(o Color) bool {
	if c.R != o.R {
		return c.R < o.R
	}
	if c.G != o.G {
		return c.G < o.G
	}
	return c.B < o.B
}

// ParseHex parses a "#rrggbb" color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

// Convert returns the RGB channels of c, discarding any alpha.
func Convert(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Distance returns the squared Euclidean distance between two colors.
func Distance(c1, c2 Color) int {
	dr := int(c1.R) - int(c2.R)
	dg := int(c1.G) - int(c2.G)
	db := int(c1.B) - int(c2.B)
	return dr*dr + dg*dg + db*db
}
