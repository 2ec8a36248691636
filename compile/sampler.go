package compile

import (
	"image"

	"github.com/bodgit/brushbot/palette"
	xdraw "golang.org/x/image/draw"
)

// Grid is an image downsampled so that each pixel becomes one step sized
// cell on the drawing surface.
type Grid struct {
	m      *image.NRGBA
	origin image.Point
	step   int
}

// fit returns the size of an iw by ih image scaled down, keeping its aspect
// ratio, to fit within cw by ch. Images that already fit are left alone.
func fit(iw, ih, cw, ch int) (int, int) {
	if iw <= 0 || ih <= 0 {
		return 0, 0
	}
	scale := min(float64(cw)/float64(iw), float64(ch)/float64(ih), 1)
	return int(float64(iw) * scale), int(float64(ih) * scale)
}

// Sample downsamples m with nearest neighbour resampling so that it fits
// within canvas when every pixel is drawn as a step by step cell. The grid is
// centred within canvas.
func Sample(m image.Image, canvas image.Rectangle, step int) *Grid {
	if step < 1 {
		step = 1
	}

	cw, ch := canvas.Dx(), canvas.Dy()
	aw, ah := fit(m.Bounds().Dx(), m.Bounds().Dy(), cw, ch)
	tw, th := aw/step, ah/step

	g := &Grid{
		m:      image.NewNRGBA(image.Rect(0, 0, tw, th)),
		origin: canvas.Min.Add(image.Pt((cw-tw*step)/2, (ch-th*step)/2)),
		step:   step,
	}
	if tw > 0 && th > 0 {
		xdraw.NearestNeighbor.Scale(g.m, g.m.Bounds(), m, m.Bounds(), xdraw.Src, nil)
	}

	return g
}

// Width returns the number of cells in each row.
func (g *Grid) Width() int {
	return g.m.Rect.Dx()
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.m.Rect.Dy()
}

// Step returns the size of each cell on the surface.
func (g *Grid) Step() int {
	return g.step
}

// Origin returns the surface position of the top-left cell.
func (g *Grid) Origin() image.Point {
	return g.origin
}

// At returns the sampled color of the cell at x, y, ignoring alpha.
func (g *Grid) At(x, y int) palette.Color {
	i := g.m.PixOffset(x, y)
	return palette.Color{R: g.m.Pix[i], G: g.m.Pix[i+1], B: g.m.Pix[i+2]}
}

// Point returns the surface position of the cell at x, y.
func (g *Grid) Point(x, y int) image.Point {
	return g.origin.Add(image.Pt(x*g.step, y*g.step))
}
