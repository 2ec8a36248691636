package compile

import "time"

// Timing holds the costs used to estimate how long a drawing takes.
type Timing struct {
	// Selecting a palette color
	PaletteSwitch time.Duration
	// Entering a custom color
	CustomSwitch time.Duration
	// Moving to the start of a stroke
	Reposition time.Duration
	// Pause before each stroke, and also how long each drag lasts
	Delay time.Duration
}

// DefaultTiming returns timings measured drawing in Paint.
func DefaultTiming() Timing {
	return Timing{
		PaletteSwitch: 450 * time.Millisecond,
		CustomSwitch:  1500 * time.Millisecond,
		Reposition:    100 * time.Millisecond,
		Delay:         50 * time.Millisecond,
	}
}

// Estimate returns how long drawing cm should take.
func Estimate(cm *ColorMap, custom bool, t Timing) time.Duration {
	perColor := t.PaletteSwitch
	if custom {
		perColor = t.CustomSwitch
	}
	perStroke := 2*t.Delay + t.Reposition

	d := time.Duration(cm.Len())*max(perColor, 0) + time.Duration(cm.NumStrokes())*max(perStroke, 0)
	return max(d, 0)
}
