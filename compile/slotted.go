package compile

import (
	"sort"

	"github.com/bodgit/brushbot/palette"
)

// byFrequency returns the colors of t most frequent first. Colors with the
// same frequency stay in the order they were first seen.
func byFrequency(t *Table, freq map[palette.Color]int) []palette.Color {
	colors := append([]palette.Color(nil), t.order...)
	sort.SliceStable(colors, func(i, j int) bool {
		return freq[colors[i]] > freq[colors[j]]
	})
	return colors
}

// slotted draws every run as its own stroke, most common color first.
type slotted struct{}

func (slotted) Compile(t *Table, opts Options) *ColorMap {
	strokes := make(map[palette.Color][]Stroke)
	for _, row := range t.Rows {
		for _, run := range row.Runs {
			if opts.IgnoreWhite && run.Color == palette.White {
				continue
			}
			strokes[run.Color] = append(strokes[run.Color], run.Stroke)
		}
	}

	cm := NewColorMap()
	for _, c := range byFrequency(t, t.count) {
		if s, ok := strokes[c]; ok {
			cm.Add(c, s...)
		}
	}
	return cm
}
