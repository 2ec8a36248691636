package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// ErrBadCount is returned when asking for fewer than one color
var ErrBadCount = errors.New("palette: color count must be at least one")

// Method selects how colors are extracted from an image.
type Method int

const (
	// MedianCut uses a median cut quantizer
	MedianCut Method = iota
	// KMeans clusters the pixels with k-means
	KMeans
	// Dominant uses the dominant color heuristic
	Dominant
)

// Keep clustering tractable on large images
const maxSamples = 12000

func (m Method) String() string {
	switch m {
	case KMeans:
		return "kmeans"
	case Dominant:
		return "dominant"
	default:
		return "mediancut"
	}
}

// ParseMethod returns the Method named by s.
func ParseMethod(s string) (Method, error) {
	for _, m := range []Method{MedianCut, KMeans, Dominant} {
		if m.String() == s {
			return m, nil
		}
	}
	return MedianCut, fmt.Errorf("palette: unknown extraction method %q", s)
}

type weighted struct {
	c Color
	w float64
}

// Extract returns up to k colors representative of m, most common first. It
// is intended to help write a palette definition and carries no positions.
func Extract(m image.Image, k int, method Method) ([]Color, error) {
	if k <= 0 {
		return nil, ErrBadCount
	}
	if m.Bounds().Empty() {
		return nil, ErrEmpty
	}

	var colors []weighted
	switch method {
	case KMeans:
		colors = extractKMeans(m, k)
	case Dominant:
		colors = extractDominant(m, k)
	default:
		colors = extractMedianCut(m, k)
	}

	// Stable so equal weights keep the extractor's order
	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].w > colors[j].w
	})

	seen := make(map[Color]struct{}, len(colors))
	out := make([]Color, 0, len(colors))
	for _, wc := range colors {
		if _, ok := seen[wc.c]; ok {
			continue
		}
		seen[wc.c] = struct{}{}
		out = append(out, wc.c)
		if len(out) == k {
			break
		}
	}

	if len(out) == 0 {
		return nil, ErrEmpty
	}

	return out, nil
}

func sampleStep(r image.Rectangle) int {
	if n := r.Dx() * r.Dy(); n > maxSamples {
		return int(math.Sqrt(float64(n)/maxSamples)) + 1
	}
	return 1
}

func extractMedianCut(m image.Image, k int) []weighted {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, k), m)

	// The quantizer doesn't report populations so count them
	counts := make([]float64, len(p))
	b := m.Bounds()
	step := sampleStep(b)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			counts[p.Index(m.At(x, y))]++
		}
	}

	out := make([]weighted, 0, len(p))
	for i, c := range p {
		out = append(out, weighted{Convert(c), counts[i]})
	}
	return out
}

func extractKMeans(m image.Image, k int) []weighted {
	b := m.Bounds()
	step := sampleStep(b)

	var dataset clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := Convert(m.At(x, y))
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255,
				float64(c.G) / 255,
				float64(c.B) / 255,
			})
		}
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(k, len(dataset)))
	if err != nil {
		// Fall back rather than fail, as the layer builder does
		return extractDominant(m, k)
	}

	out := make([]weighted, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		r, g, bl := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped().RGB255()
		out = append(out, weighted{Color{r, g, bl}, float64(len(c.Observations))})
	}
	return out
}

func extractDominant(m image.Image, k int) []weighted {
	found := dominantcolor.FindWeight(m, k)
	out := make([]weighted, 0, len(found))
	for _, c := range found {
		out = append(out, weighted{Convert(c.RGBA), c.Weight})
	}
	return out
}
