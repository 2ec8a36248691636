/*
Package execute draws a compiled ColorMap by driving a pointer and keyboard.

The input devices are reached through the Driver interface; the executor
selects each color, either by clicking it in the palette or typing it into a
custom color dialog, and then drags out every stroke of that color.
*/
package execute

import (
	"context"
	"errors"
	"image"
	"strconv"
	"time"

	"github.com/bodgit/brushbot/compile"
	"github.com/bodgit/brushbot/palette"
	"go.uber.org/zap"
)

// ErrNoCustomColors is returned when a color isn't in the palette and there
// is nowhere to enter a custom color
var ErrNoCustomColors = errors.New("execute: custom colors are not initialized")

const (
	selectClicks  = 3
	clickInterval = 150 * time.Millisecond
	pressInterval = 50 * time.Millisecond
	dialogTabs    = 7
	keyTab        = "tab"
	keyEnter      = "enter"
)

// Driver moves the pointer and presses keys.
type Driver interface {
	Click(p image.Point, clicks int, interval time.Duration) error
	Press(key string, presses int, interval time.Duration) error
	MoveTo(p image.Point) error
	DragTo(p image.Point, d time.Duration) error
	MouseUp() error
}

// Executor draws color maps with a Driver.
type Executor struct {
	Driver  Driver
	Palette *palette.Palette
	// Region of the custom color control, if any
	CustomColors image.Rectangle
	// Pause before each stroke and how long each drag lasts
	Delay  time.Duration
	Logger *zap.Logger
}

func (e *Executor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Draw draws every stroke of cm, layer by layer. Cancelling ctx stops the
// drawing before the next stroke, releasing the mouse, and Draw returns
// false without an error. Draw returns true once every stroke is drawn.
func (e *Executor) Draw(ctx context.Context, cm *compile.ColorMap) (bool, error) {
	log := e.logger()

	for _, l := range cm.Layers() {
		if err := e.selectColor(l.Color); err != nil {
			return false, err
		}
		log.Debug("drawing color", zap.String("color", l.Color.Hex()), zap.Int("strokes", len(l.Strokes)))

		for _, s := range l.Strokes {
			if ctx.Err() != nil {
				log.Info("drawing cancelled")
				return false, e.Driver.MouseUp()
			}

			sleep(ctx, e.Delay)
			if err := e.Driver.MoveTo(s.Start); err != nil {
				return false, err
			}
			if err := e.Driver.DragTo(s.End, e.Delay); err != nil {
				return false, err
			}
		}
	}

	return true, nil
}

func (e *Executor) selectColor(c palette.Color) error {
	if e.Palette != nil {
		if pt, ok := e.Palette.Position(c); ok {
			return e.Driver.Click(pt, selectClicks, clickInterval)
		}
	}

	if e.CustomColors.Empty() {
		return ErrNoCustomColors
	}

	centre := e.CustomColors.Min.Add(e.CustomColors.Size().Div(2))
	if err := e.Driver.Click(centre, selectClicks, clickInterval); err != nil {
		return err
	}

	// Tab across to the red field
	if err := e.Driver.Press(keyTab, dialogTabs, pressInterval); err != nil {
		return err
	}

	for _, v := range []uint8{c.R, c.G, c.B} {
		for _, d := range strconv.Itoa(int(v)) {
			if err := e.Driver.Press(string(d), 1, 0); err != nil {
				return err
			}
		}
		if err := e.Driver.Press(keyTab, 1, 0); err != nil {
			return err
		}
	}

	if err := e.Driver.Press(keyTab, 1, 0); err != nil {
		return err
	}
	return e.Driver.Press(keyEnter, 1, 0)
}
