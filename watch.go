package brushbot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debouncer coalesces rapid event bursts into a single callback per file.
type debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	delay  time.Duration
	onFire func(path string)
}

func newDebouncer(delay time.Duration, onFire func(path string)) *debouncer {
	return &debouncer{
		timers: make(map[string]*time.Timer),
		delay:  delay,
		onFire: onFire,
	}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[path]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		d.onFire(path)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

func watchRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}

// Watch compiles image files under dir as they are created or written until
// ctx is done. Compilations in flight are waited for before returning and
// none are started afterwards.
func (b *Bot) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := watchRecursive(w, dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	b.logger.Info("watching", zap.String("dir", dir))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Timers hand settled paths back to the event loop, which is the only
	// place compilations are started
	ready := make(chan string)
	db := newDebouncer(b.debounce, func(path string) {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})

	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup

	b.eventLoop(ctx, w, db, ready, func(path string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()
			if _, err := b.Process(ctx, path); err != nil {
				b.logger.Warn("unable to process", zap.String("file", path), zap.Error(err))
			}
		}()
	})

	// Release any timer blocked handing over a path
	cancel()
	db.stop()
	wg.Wait()

	return nil
}

func (b *Bot) eventLoop(ctx context.Context, w *fsnotify.Watcher, db *debouncer, ready <-chan string, process func(string)) {
	for {
		select {
		case <-ctx.Done():
			return

		case path := <-ready:
			process(path)

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(ev.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := watchRecursive(w, ev.Name); err != nil {
					b.logger.Warn("unable to watch", zap.String("dir", ev.Name), zap.Error(err))
				}
				continue
			}
			if !info.Mode().IsRegular() || !isImage(ev.Name) {
				continue
			}
			db.trigger(ev.Name)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			b.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
