package palette

import (
	"image"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Three quarters red, one quarter blue
func twoTone() image.Image {
	m := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(m, m.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	draw.Draw(m, image.Rect(0, 30, 40, 40), image.NewUniform(blue), image.Point{}, draw.Src)
	return m
}

func TestExtract(t *testing.T) {
	for _, method := range []Method{MedianCut, KMeans} {
		t.Run(method.String(), func(t *testing.T) {
			colors, err := Extract(twoTone(), 2, method)
			require.NoError(t, err)
			require.NotEmpty(t, colors)
			assert.LessOrEqual(t, len(colors), 2)
			// Most common first
			assert.Less(t, Distance(colors[0], red), Distance(colors[0], blue))
		})
	}
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(twoTone(), 0, MedianCut)
	assert.ErrorIs(t, err, ErrBadCount)

	_, err = Extract(image.NewNRGBA(image.Rectangle{}), 4, KMeans)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{MedianCut, KMeans, Dominant} {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMethod("octree")
	assert.Error(t, err)
}
