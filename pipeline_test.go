package brushbot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bodgit/brushbot/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsImage(t *testing.T) {
	tables := map[string]bool{
		"a.png":           true,
		"b.JPG":           true,
		"dir/c.webp":      true,
		"d.tiff":          true,
		"notes.txt":       false,
		"dir/.hidden.gif": false,
		"png":             false,
	}

	for file, want := range tables {
		assert.Equal(t, want, isImage(file), file)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".hidden"), 0o755))

	a := writePNG(t, dir, "a.png", testImage)
	b := writePNG(t, filepath.Join(dir, "sub"), "b.png", [][]palette.Color{{green, blue}})
	hidden := writePNG(t, filepath.Join(dir, ".hidden"), "c.png", [][]palette.Color{{red}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644))

	bot := newBot(t, testConfig())

	err := bot.Scan(context.Background(), dir)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "bad.png")

	for file, want := range map[string]int{a: 1, b: 1, hidden: 0} {
		n, err := bot.db.Plans(sha1File(t, file))
		require.NoError(t, err)
		assert.Equal(t, want, n, file)
	}

	// The last compilation to start has finished along with the rest
	assert.Equal(t, float64(100), bot.Progress())

	// Everything is cached the second time round
	plan, err := bot.Process(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, plan.Cached)
}

func TestWatch(t *testing.T) {
	src := writePNG(t, t.TempDir(), "src.png", testImage)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	sha := sha1File(t, src)

	cfg := testConfig()
	cfg.Watch.Debounce = 10
	bot := newBot(t, cfg)

	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- bot.Watch(ctx, dir)
	}()

	// Keep rewriting the file until the watcher has picked it up
	file := filepath.Join(dir, "a.png")
	assert.Eventually(t, func() bool {
		if err := os.WriteFile(file, data, 0o644); err != nil {
			return false
		}
		n, err := bot.db.Plans(sha)
		return err == nil && n == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return")
	}
}

func TestWatchCancelWhileDebouncing(t *testing.T) {
	src := writePNG(t, t.TempDir(), "src.png", testImage)
	data, err := os.ReadFile(src)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		core, logs := observer.New(zapcore.DebugLevel)

		cfg := testConfig()
		cfg.Watch.Debounce = 1
		bot, err := New(filepath.Join(t.TempDir(), "test.db"), cfg, zap.New(core))
		require.NoError(t, err)

		dir := t.TempDir()
		file := filepath.Join(dir, "a.png")

		ctx, cancel := context.WithCancel(context.Background())

		errc := make(chan error, 1)
		go func() {
			errc <- bot.Watch(ctx, dir)
		}()

		// Keep timers firing right up to the cancellation
		stop := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = os.WriteFile(file, data, 0o644)
				time.Sleep(time.Millisecond)
			}
		}()

		time.Sleep(time.Duration(10+i*3) * time.Millisecond)
		cancel()

		select {
		case err := <-errc:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watch did not return")
		}
		close(stop)
		<-done

		require.NoError(t, bot.Close())

		// Nothing runs once Watch has returned
		n := logs.Len()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, n, logs.Len(), "round %d", i)
	}
}
