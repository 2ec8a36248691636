package compile

import (
	"testing"
	"time"

	"github.com/bodgit/brushbot/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorMapOrder(t *testing.T) {
	cm := NewColorMap()
	cm.Add(green, stroke(0, 0, 1, 0))
	cm.Add(red, stroke(2, 0, 3, 0))
	cm.Add(green, stroke(4, 0, 5, 0), stroke(6, 0, 7, 0))

	assert.Equal(t, []palette.Color{green, red}, cm.Colors())
	assert.Equal(t, 2, cm.Len())
	assert.Equal(t, 4, cm.NumStrokes())
	assert.Equal(t, []Stroke{stroke(0, 0, 1, 0), stroke(4, 0, 5, 0), stroke(6, 0, 7, 0)}, cm.Strokes(green))
	assert.Nil(t, cm.Strokes(blue))
}

func TestColorMapBinary(t *testing.T) {
	cm := NewColorMap()
	cm.Add(white, stroke(-5, 10, 300, 10))
	cm.Add(blue, stroke(1, 2, 3, 2), stroke(7, 8, 7, 8))

	b, err := cm.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, 4+2*(3+4)+3*16)

	got := NewColorMap()
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, cm.Layers(), got.Layers())
	assert.Equal(t, cm.Strokes(blue), got.Strokes(blue))

	assert.Error(t, got.UnmarshalBinary(b[:len(b)-1]))
	assert.Error(t, got.UnmarshalBinary(append(b, 0)))
}

func TestEstimate(t *testing.T) {
	cm := NewColorMap()
	cm.Add(red, stroke(0, 0, 1, 0), stroke(0, 1, 1, 1))
	cm.Add(green, stroke(0, 2, 1, 2))

	timing := DefaultTiming()
	assert.Equal(t, 2*450*time.Millisecond+3*200*time.Millisecond, Estimate(cm, false, timing))
	assert.Equal(t, 2*1500*time.Millisecond+3*200*time.Millisecond, Estimate(cm, true, timing))

	assert.Zero(t, Estimate(NewColorMap(), true, timing))

	timing.Delay = -time.Hour
	assert.Equal(t, 2*450*time.Millisecond, Estimate(cm, false, timing))
}
