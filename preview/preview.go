/*
Package preview renders a compiled ColorMap back into an image, painting the
layers in order exactly as they would be drawn.
*/
package preview

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/brushbot/compile"
)

// Render paints cm onto an image covering canvas, filled first with
// background. Each stroke paints step by step cells from its start to its
// end.
func Render(cm *compile.ColorMap, canvas image.Rectangle, step int, background color.Color) *image.NRGBA {
	if step < 1 {
		step = 1
	}

	m := image.NewNRGBA(canvas)
	draw.Draw(m, m.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, l := range cm.Layers() {
		src := image.NewUniform(l.Color)
		for _, s := range l.Strokes {
			lo, hi := s.Start, s.End
			if hi.X < lo.X {
				lo.X, hi.X = hi.X, lo.X
			}
			if hi.Y < lo.Y {
				lo.Y, hi.Y = hi.Y, lo.Y
			}
			r := image.Rectangle{Min: lo, Max: hi.Add(image.Pt(step, step))}
			draw.Draw(m, r, src, image.Point{}, draw.Src)
		}
	}

	return m
}
