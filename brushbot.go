/*
Package brushbot is a library for drawing raster images in paint programs by
compiling them into brush strokes and replaying them with a pointer.
*/
package brushbot

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bodgit/brushbot/compile"
	"github.com/bodgit/brushbot/execute"
	"github.com/bodgit/brushbot/palette"
	"go.uber.org/zap"
)

// ErrNoPalette is returned when the configured palette can't be built
var ErrNoPalette = errors.New("brushbot: palette is not initialized")

// Plan is a compiled image ready to draw.
type Plan struct {
	ColorMap *compile.ColorMap
	Estimate time.Duration
	// SHA-1 of the source image file
	SHA1 string
	// Whether the plan came from the cache
	Cached bool
}

type Bot struct {
	db     *PlanDB
	logger *zap.Logger

	mu      sync.RWMutex
	palette *palette.Palette
	canvas  image.Rectangle
	custom  image.Rectangle
	options compile.Options
	timing  compile.Timing
	workers int

	debounce time.Duration
	// Counter of the most recently started compilation
	progress atomic.Pointer[compile.Progress]
}

// New returns a Bot caching its plans in the SQLite database at dbPath,
// configured with cfg. A nil cfg uses the defaults and a nil logger discards
// everything.
func New(dbPath string, cfg *Config, logger *zap.Logger) (*Bot, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	options, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	p, err := cfg.BuildPalette()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPalette, err)
	}

	db, err := NewPlanDB(dbPath)
	if err != nil {
		return nil, err
	}

	workers := cfg.Watch.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Bot{
		db:       db,
		logger:   logger,
		palette:  p,
		canvas:   cfg.Canvas.Box.Rect(),
		custom:   cfg.CustomColors.Box.Rect(),
		options:  options,
		timing:   cfg.Costs(),
		workers:  workers,
		debounce: cfg.Watch.DebounceDuration(),
	}, nil
}

// Close closes the plan cache.
func (b *Bot) Close() error {
	return b.db.Close()
}

func (b *Bot) InitPalette(p *palette.Palette) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.palette = p
}

func (b *Bot) InitCanvas(r image.Rectangle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canvas = r.Canon()
}

func (b *Bot) InitCustomColors(r image.Rectangle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.custom = r.Canon()
}

// Palette returns the current palette, which may be nil.
func (b *Bot) Palette() *palette.Palette {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.palette
}

// Progress returns how much of the most recently started compilation is
// done, from 0 to 100. Concurrent compilations each keep their own count.
func (b *Bot) Progress() float64 {
	p := b.progress.Load()
	if p == nil {
		return 0
	}
	return p.Percent()
}

func (b *Bot) fingerprint(p *palette.Palette, canvas image.Rectangle, opts compile.Options) string {
	var sum uint32
	if p != nil && !opts.UseCustomColors {
		sum = p.Checksum()
	}
	return fmt.Sprintf("%s canvas=%v palette=%08x", opts.Fingerprint(), canvas, sum)
}

func decodeFile(file string) (image.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)

	m, _, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", file, err)
	}

	// Decoders needn't read to the end
	if _, err := io.Copy(h, f); err != nil {
		return nil, "", err
	}

	return m, hex.EncodeToString(h.Sum(nil)), nil
}

// Process compiles the image in file, or returns the plan cached for the
// same image and settings.
func (b *Bot) Process(ctx context.Context, file string) (*Plan, error) {
	b.mu.RLock()
	p, canvas, opts, timing := b.palette, b.canvas, b.options, b.timing
	b.mu.RUnlock()

	m, sha, err := decodeFile(file)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fp := b.fingerprint(p, canvas, opts)

	cm, err := b.db.FindPlan(sha, fp)
	if err != nil {
		return nil, err
	}
	cached := cm != nil

	if !cached {
		progress := new(compile.Progress)
		b.progress.Store(progress)

		c := compile.Compiler{
			Palette:  p,
			Options:  opts,
			Progress: progress,
		}
		if cm, err = c.Compile(m, canvas); err != nil {
			return nil, err
		}
		if err := b.db.StorePlan(sha, fp, cm); err != nil {
			return nil, err
		}
	}

	plan := &Plan{
		ColorMap: cm,
		Estimate: compile.Estimate(cm, opts.UseCustomColors, timing),
		SHA1:     sha,
		Cached:   cached,
	}

	b.logger.Info("processed",
		zap.String("file", file),
		zap.String("sha1", sha),
		zap.Bool("cached", cached),
		zap.Int("colors", cm.Len()),
		zap.Int("strokes", cm.NumStrokes()),
		zap.Duration("estimate", plan.Estimate))

	return plan, nil
}

// Draw draws plan with driver. It returns false if ctx was cancelled before
// the drawing finished.
func (b *Bot) Draw(ctx context.Context, driver execute.Driver, plan *Plan) (bool, error) {
	b.mu.RLock()
	e := execute.Executor{
		Driver:       driver,
		Palette:      b.palette,
		CustomColors: b.custom,
		Delay:        b.timing.Delay,
		Logger:       b.logger,
	}
	b.mu.RUnlock()

	b.logger.Debug("drawing", zap.String("sha1", plan.SHA1), zap.Duration("estimate", plan.Estimate))

	return e.Draw(ctx, plan.ColorMap)
}
