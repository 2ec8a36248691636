package execute

import (
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind is the type of a recorded Action.
type Kind int

// Kinds of Action
const (
	KindClick Kind = iota
	KindPress
	KindMove
	KindDrag
	KindMouseUp
)

func (k Kind) String() string {
	switch k {
	case KindClick:
		return "click"
	case KindPress:
		return "press"
	case KindMove:
		return "move"
	case KindDrag:
		return "drag"
	default:
		return "mouseup"
	}
}

// Action is a single Driver call.
type Action struct {
	Kind  Kind
	Point image.Point
	Key   string
	Count int
}

// Recorder is a Driver that records every call instead of acting on it.
type Recorder struct {
	mu      sync.Mutex
	actions []Action

	// If set, called after each action is recorded
	OnAction func(Action)
}

func (r *Recorder) record(a Action) error {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
	if r.OnAction != nil {
		r.OnAction(a)
	}
	return nil
}

// Actions returns a copy of the recorded actions.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.actions...)
}

// Click implements the Driver interface.
func (r *Recorder) Click(p image.Point, clicks int, _ time.Duration) error {
	return r.record(Action{Kind: KindClick, Point: p, Count: clicks})
}

// Press implements the Driver interface.
func (r *Recorder) Press(key string, presses int, _ time.Duration) error {
	return r.record(Action{Kind: KindPress, Key: key, Count: presses})
}

// MoveTo implements the Driver interface.
func (r *Recorder) MoveTo(p image.Point) error {
	return r.record(Action{Kind: KindMove, Point: p})
}

// DragTo implements the Driver interface.
func (r *Recorder) DragTo(p image.Point, _ time.Duration) error {
	return r.record(Action{Kind: KindDrag, Point: p})
}

// MouseUp implements the Driver interface.
func (r *Recorder) MouseUp() error {
	return r.record(Action{Kind: KindMouseUp})
}

// LogDriver is a Driver that only logs what it would do.
type LogDriver struct {
	Logger *zap.Logger
}

// Click implements the Driver interface.
func (d LogDriver) Click(p image.Point, clicks int, interval time.Duration) error {
	d.Logger.Info("click", zap.Int("x", p.X), zap.Int("y", p.Y), zap.Int("clicks", clicks), zap.Duration("interval", interval))
	return nil
}

// Press implements the Driver interface.
func (d LogDriver) Press(key string, presses int, interval time.Duration) error {
	d.Logger.Info("press", zap.String("key", key), zap.Int("presses", presses), zap.Duration("interval", interval))
	return nil
}

// MoveTo implements the Driver interface.
func (d LogDriver) MoveTo(p image.Point) error {
	d.Logger.Debug("move", zap.Int("x", p.X), zap.Int("y", p.Y))
	return nil
}

// DragTo implements the Driver interface.
func (d LogDriver) DragTo(p image.Point, duration time.Duration) error {
	d.Logger.Debug("drag", zap.Int("x", p.X), zap.Int("y", p.Y), zap.Duration("duration", duration))
	return nil
}

// MouseUp implements the Driver interface.
func (d LogDriver) MouseUp() error {
	d.Logger.Info("mouse up")
	return nil
}
