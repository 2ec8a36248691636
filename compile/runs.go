package compile

import (
	"image"
	"sync/atomic"

	"github.com/bodgit/brushbot/palette"
)

// Stroke is a straight drag from Start to End.
type Stroke struct {
	Start, End image.Point
}

// Run is a maximal sequence of same colored cells within a row.
type Run struct {
	Color  palette.Color
	Stroke Stroke
}

// Row holds the runs of one sampled row, left to right.
type Row struct {
	Runs   []Run
	colors map[palette.Color]struct{}
}

// Has reports whether any run in the row is of color c.
func (r *Row) Has(c palette.Color) bool {
	_, ok := r.colors[c]
	return ok
}

// Table is a whole image encoded as runs, along with the color statistics
// needed to order the colors.
type Table struct {
	Rows []Row

	// Colors in the order they were first seen
	order []palette.Color
	// Surface width covered by each color
	width map[palette.Color]int
	// Number of cells of each color
	count map[palette.Color]int
}

func newTable(rows int) *Table {
	return &Table{
		Rows:  make([]Row, 0, rows),
		width: make(map[palette.Color]int),
		count: make(map[palette.Color]int),
	}
}

func (t *Table) addRun(row *Row, c palette.Color, s Stroke, cells int) {
	if _, ok := t.count[c]; !ok {
		t.order = append(t.order, c)
	}
	row.Runs = append(row.Runs, Run{c, s})
	row.colors[c] = struct{}{}
	t.width[c] += s.End.X - s.Start.X + 1
	t.count[c] += cells
}

// Progress is an advisory counter of cells encoded. It may be read from
// another goroutine while an image is compiling.
type Progress struct {
	done  atomic.Int64
	total atomic.Int64
}

func (p *Progress) reset(total int) {
	if p == nil {
		return
	}
	p.done.Store(0)
	p.total.Store(int64(total))
}

func (p *Progress) add(n int) {
	if p == nil {
		return
	}
	p.done.Add(int64(n))
}

// Percent returns how much of the current image has been encoded.
func (p *Progress) Percent() float64 {
	total := p.total.Load()
	if total == 0 {
		return 0
	}
	return 100 * float64(p.done.Load()) / float64(total)
}

// Encode resolves every cell of g and splits each row into runs. progress
// may be nil.
func Encode(g *Grid, r *Resolver, progress *Progress) *Table {
	w, h := g.Width(), g.Height()
	t := newTable(h)
	progress.reset(w * h)
	if w == 0 {
		return t
	}

	for y := 0; y < h; y++ {
		row := Row{
			colors: make(map[palette.Color]struct{}),
		}

		start := 0
		prev := r.Resolve(g.At(0, y))
		progress.add(1)
		for x := 1; x < w; x++ {
			c := r.Resolve(g.At(x, y))
			progress.add(1)
			if c == prev {
				continue
			}
			t.addRun(&row, prev, Stroke{g.Point(start, y), g.Point(x-1, y)}, x-start)
			start, prev = x, c
		}
		t.addRun(&row, prev, Stroke{g.Point(start, y), g.Point(w-1, y)}, w-start)

		t.Rows = append(t.Rows, row)
	}

	return t
}
