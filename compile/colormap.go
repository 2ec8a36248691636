package compile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"

	"github.com/bodgit/brushbot/palette"
)

// Layer is every stroke of one color.
type Layer struct {
	Color   palette.Color
	Strokes []Stroke
}

// ColorMap is the compiled drawing: layers in the order they are painted,
// each layer painting over any earlier layer where they overlap. It
// implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type ColorMap struct {
	layers []Layer
	index  map[palette.Color]int
}

// NewColorMap returns an empty ColorMap.
func NewColorMap() *ColorMap {
	return &ColorMap{
		index: make(map[palette.Color]int),
	}
}

// Add appends strokes to the layer for c, creating the layer on top of all
// others if it doesn't exist yet.
func (cm *ColorMap) Add(c palette.Color, strokes ...Stroke) {
	i, ok := cm.index[c]
	if !ok {
		i = len(cm.layers)
		cm.layers = append(cm.layers, Layer{Color: c})
		cm.index[c] = i
	}
	cm.layers[i].Strokes = append(cm.layers[i].Strokes, strokes...)
}

// Layers returns the layers in draw order. The returned slice must not be
// modified.
func (cm *ColorMap) Layers() []Layer {
	return cm.layers
}

// Colors returns the layer colors in draw order.
func (cm *ColorMap) Colors() []palette.Color {
	colors := make([]palette.Color, 0, len(cm.layers))
	for _, l := range cm.layers {
		colors = append(colors, l.Color)
	}
	return colors
}

// Strokes returns the strokes of color c.
func (cm *ColorMap) Strokes(c palette.Color) []Stroke {
	if i, ok := cm.index[c]; ok {
		return cm.layers[i].Strokes
	}
	return nil
}

// Len returns the number of layers.
func (cm *ColorMap) Len() int {
	return len(cm.layers)
}

// NumStrokes returns the total number of strokes across all layers.
func (cm *ColorMap) NumStrokes() int {
	n := 0
	for _, l := range cm.layers {
		n += len(l.Strokes)
	}
	return n
}

type wireStroke struct {
	X0, Y0, X1, Y1 int32
}

func pt(x, y int32) image.Point {
	return image.Pt(int(x), int(y))
}

// MarshalBinary encodes the color map into binary form and returns the
// result
func (cm *ColorMap) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)

	if err := binary.Write(b, binary.LittleEndian, uint32(len(cm.layers))); err != nil {
		return nil, err
	}

	for _, l := range cm.layers {
		if _, err := b.Write([]byte{l.Color.R, l.Color.G, l.Color.B}); err != nil {
			return nil, err
		}
		if err := binary.Write(b, binary.LittleEndian, uint32(len(l.Strokes))); err != nil {
			return nil, err
		}
		strokes := make([]wireStroke, len(l.Strokes))
		for i, s := range l.Strokes {
			strokes[i] = wireStroke{int32(s.Start.X), int32(s.Start.Y), int32(s.End.X), int32(s.End.Y)}
		}
		if err := binary.Write(b, binary.LittleEndian, strokes); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the color map from binary form
func (cm *ColorMap) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	cm.layers = nil
	cm.index = make(map[palette.Color]int)

	var layers uint32
	if err := binary.Read(r, binary.LittleEndian, &layers); err != nil {
		return err
	}

	for i := uint32(0); i < layers; i++ {
		var c [3]byte
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return err
		}
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return err
		}
		// Each stroke is 16 bytes so don't trust a bogus count
		if int64(n)*16 > int64(r.Len()) {
			return errors.New("compile: insufficient data")
		}
		strokes := make([]wireStroke, n)
		if err := binary.Read(r, binary.LittleEndian, strokes); err != nil {
			return err
		}

		color := palette.Color{R: c[0], G: c[1], B: c[2]}
		cm.Add(color)
		for _, s := range strokes {
			cm.Add(color, Stroke{pt(s.X0, s.Y0), pt(s.X1, s.Y1)})
		}
	}

	if r.Len() != 0 {
		return errors.New("compile: too much data")
	}

	return nil
}
