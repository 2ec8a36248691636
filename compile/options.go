package compile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCanvas is returned when compiling without a destination surface
	ErrNoCanvas = errors.New("compile: canvas is not initialized")
	// ErrNoPalette is returned when compiling to palette colors without a
	// palette
	ErrNoPalette = errors.New("compile: palette is not initialized")
	// ErrBadMode is returned when parsing an unknown mode
	ErrBadMode = errors.New("compile: unknown mode")
)

// Mode selects the stroke compilation strategy.
type Mode int

const (
	// Layered merges runs across colors that will be painted over later
	Layered Mode = iota
	// Slotted keeps every run as an independent stroke
	Slotted
)

func (m Mode) String() string {
	switch m {
	case Slotted:
		return "slotted"
	default:
		return "layered"
	}
}

// ParseMode returns the Mode named by s, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "layered", "":
		return Layered, nil
	case "slotted":
		return Slotted, nil
	}
	return Layered, fmt.Errorf("%w: %q", ErrBadMode, s)
}

// Strategy returns the Strategy implementing the mode.
func (m Mode) Strategy() Strategy {
	if m == Slotted {
		return slotted{}
	}
	return layered{}
}

// Options controls how an image is compiled.
type Options struct {
	// Size in surface pixels of each sampled cell
	Step int
	// Fineness of custom color quantization, from 0 to 1
	Accuracy float64
	// Don't draw white
	IgnoreWhite bool
	// Quantize colors rather than matching them to the palette
	UseCustomColors bool
	Mode            Mode
}

// DefaultOptions returns the default compilation options.
func DefaultOptions() Options {
	return Options{
		Step:        5,
		Accuracy:    0.9,
		IgnoreWhite: true,
		Mode:        Layered,
	}
}

// Fingerprint returns a string identifying every option that affects the
// compiled output.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("mode=%s step=%d accuracy=%g white=%t custom=%t",
		o.Mode, o.Step, o.Accuracy, o.IgnoreWhite, o.UseCustomColors)
}
