/*
Package compile turns an image into brush strokes.

The image is downsampled to a grid of step sized cells, each cell resolved to
either the nearest palette color or a quantized custom color, and every row
split into runs of the same color. A Strategy then turns the runs into a
ColorMap: the strokes of each color, in the order the colors are painted.
*/
package compile

import (
	"image"

	"github.com/bodgit/brushbot/palette"
)

// Strategy compiles an encoded image into strokes.
type Strategy interface {
	Compile(t *Table, opts Options) *ColorMap
}

// Compiler compiles images against a palette. A Compiler holds no state
// between calls beyond Progress so separate Compilers sharing a palette can
// run concurrently.
type Compiler struct {
	Palette  *palette.Palette
	Options  Options
	Progress *Progress
}

// Compile compiles m to be drawn within canvas.
func (c *Compiler) Compile(m image.Image, canvas image.Rectangle) (*ColorMap, error) {
	if canvas.Empty() {
		return nil, ErrNoCanvas
	}
	if c.Palette == nil && !c.Options.UseCustomColors {
		return nil, ErrNoPalette
	}

	g := Sample(m, canvas, c.Options.Step)
	r := NewResolver(c.Palette, c.Options.UseCustomColors, c.Options.Accuracy)
	t := Encode(g, r, c.Progress)

	return c.Options.Mode.Strategy().Compile(t, c.Options), nil
}
