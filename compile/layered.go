package compile

import "github.com/bodgit/brushbot/palette"

// layered paints colors from the most to the least frequent. Because every
// later color paints over an earlier one, a color's stroke may run straight
// through cells of any later color, merging runs that would otherwise be
// drawn separately.
type layered struct{}

func (layered) Compile(t *Table, opts Options) *ColorMap {
	colors := byFrequency(t, t.width)
	rank := make(map[palette.Color]int, len(colors))
	for i, c := range colors {
		rank[c] = i
	}

	cm := NewColorMap()
	for idc, c := range colors {
		if opts.IgnoreWhite && c == palette.White {
			continue
		}
		for i := range t.Rows {
			row := &t.Rows[i]
			if !row.Has(c) {
				continue
			}

			var span Stroke
			open, exposed := false, false
			for _, run := range row.Runs {
				r := rank[run.Color]
				if r < idc {
					// Drawn before c so c must not cover it
					if open && exposed {
						cm.Add(c, span)
					}
					open, exposed = false, false
					continue
				}
				if !open {
					span.Start, open = run.Stroke.Start, true
				}
				span.End = run.Stroke.End
				// A span painted only over later colors is never seen
				exposed = exposed || r == idc
			}
			if open && exposed {
				cm.Add(c, span)
			}
		}
	}
	return cm
}
