/*
Package palette implements the fixed set of selectable colors used when
drawing, along with the screen position that activates each color.

A palette is either built directly from known colors and positions or sampled
from a screenshot of a rectangular region split into equal cells, reading the
color at the centre of each cell. Once built a palette is never modified so it
can be shared between concurrent compilations.
*/
package palette

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"sort"
)

var (
	// ErrBadGrid is returned when the sampling region or its rows and
	// columns cannot produce any cells
	ErrBadGrid = errors.New("palette: invalid region or grid dimensions")
	// ErrOutOfBounds is returned when the sampling region is not contained
	// within the screenshot
	ErrOutOfBounds = errors.New("palette: region outside of screenshot")
	// ErrEmpty is returned when a palette would contain no colors
	ErrEmpty = errors.New("palette: no colors")
)

// Entry pairs a color with the position that selects it.
type Entry struct {
	Color    Color
	Position image.Point
}

// Palette is an immutable ordered set of colors. The order is the order in
// which the colors were first seen and is used to break ties in Nearest.
type Palette struct {
	colors    []Color
	positions map[Color]image.Point
}

// New returns a palette built from the given entries. If a color appears
// more than once it keeps its first slot but the last position wins.
func New(entries ...Entry) (*Palette, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	p := &Palette{
		positions: make(map[Color]image.Point, len(entries)),
	}
	for _, e := range entries {
		p.add(e.Color, e.Position)
	}
	return p, nil
}

// FromMap returns a palette built from a color to position mapping. Colors
// are ordered by their red, green and blue channels so the result does not
// depend on map iteration order.
func FromMap(m map[Color]image.Point) (*Palette, error) {
	entries := make([]Entry, 0, len(m))
	for c, pt := range m {
		entries = append(entries, Entry{c, pt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Color.less(entries[j].Color)
	})
	return New(entries...)
}

// Sample builds a palette from screen, a screenshot of the display. The
// region box is split into rows by cols equal cells and the color at the
// centre of each cell is read, visiting the cells row by row. The position
// of each color is the centre of its cell in screen coordinates.
func Sample(screen image.Image, box image.Rectangle, rows, cols int) (*Palette, error) {
	if rows <= 0 || cols <= 0 || box.Empty() {
		return nil, ErrBadGrid
	}

	cw, ch := box.Dx()/cols, box.Dy()/rows
	if cw <= 0 || ch <= 0 {
		return nil, ErrBadGrid
	}

	if !box.In(screen.Bounds()) {
		return nil, ErrOutOfBounds
	}

	p := &Palette{
		positions: make(map[Color]image.Point, rows*cols),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			pt := box.Min.Add(image.Pt(x*cw+cw/2, y*ch+ch/2))
			p.add(Convert(screen.At(pt.X, pt.Y)), pt)
		}
	}

	if len(p.colors) == 0 {
		return nil, ErrEmpty
	}

	return p, nil
}

func (p *Palette) add(c Color, pt image.Point) {
	if _, ok := p.positions[c]; !ok {
		p.colors = append(p.colors, c)
	}
	p.positions[c] = pt
}

// Nearest returns the palette color with the smallest squared Euclidean
// distance to c. When two colors are equally close the one earlier in the
// palette is returned.
func (p *Palette) Nearest(c Color) Color {
	best, bestDist := p.colors[0], Distance(p.colors[0], c)
	for _, pc := range p.colors[1:] {
		if d := Distance(pc, c); d < bestDist {
			best, bestDist = pc, d
		}
	}
	return best
}

// Contains reports whether c is one of the palette colors.
func (p *Palette) Contains(c Color) bool {
	_, ok := p.positions[c]
	return ok
}

// Position returns the point that selects c.
func (p *Palette) Position(c Color) (image.Point, bool) {
	pt, ok := p.positions[c]
	return pt, ok
}

// Colors returns a copy of the palette colors in palette order.
func (p *Palette) Colors() []Color {
	return append([]Color(nil), p.colors...)
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Checksum returns a CRC-32 of the palette colors and positions, in order.
func (p *Palette) Checksum() uint32 {
	h := crc32.NewIEEE()
	var tmp [11]byte
	for _, c := range p.colors {
		pt := p.positions[c]
		tmp[0], tmp[1], tmp[2] = c.R, c.G, c.B
		binary.LittleEndian.PutUint32(tmp[3:], uint32(int32(pt.X)))
		binary.LittleEndian.PutUint32(tmp[7:], uint32(int32(pt.Y)))
		h.Write(tmp[:])
	}
	return h.Sum32()
}
