package compile

import (
	"math"

	"github.com/bodgit/brushbot/palette"
)

// QuantizeInterval returns the channel rounding granularity for accuracy,
// never less than one.
func QuantizeInterval(accuracy float64) float64 {
	return math.Max((1-clamp(accuracy, 0, 1))*255, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Resolver maps raw pixel colors to the colors that will be drawn. Results
// are memoized so it should only live for one compilation; it is not safe
// for concurrent use.
type Resolver struct {
	palette  *palette.Palette
	custom   bool
	interval float64
	cache    map[palette.Color]palette.Color
}

// NewResolver returns a Resolver matching colors against p, or quantizing
// them by accuracy if custom is set, in which case p may be nil.
func NewResolver(p *palette.Palette, custom bool, accuracy float64) *Resolver {
	return &Resolver{
		palette:  p,
		custom:   custom,
		interval: QuantizeInterval(accuracy),
		cache:    make(map[palette.Color]palette.Color),
	}
}

// Resolve returns the color drawn for c.
func (r *Resolver) Resolve(c palette.Color) palette.Color {
	if rc, ok := r.cache[c]; ok {
		return rc
	}

	var rc palette.Color
	if r.custom {
		rc = palette.Color{
			R: r.quantize(c.R),
			G: r.quantize(c.G),
			B: r.quantize(c.B),
		}
	} else {
		rc = r.palette.Nearest(c)
	}

	r.cache[c] = rc
	return rc
}

func (r *Resolver) quantize(v uint8) uint8 {
	// Buckets round half to even; the product is rounded to absorb float
	// error in the interval
	q := math.RoundToEven(float64(v)/r.interval) * r.interval
	return uint8(clamp(math.Round(q), 0, 255))
}
