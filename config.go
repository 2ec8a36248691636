package brushbot

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/brushbot/compile"
	"github.com/bodgit/brushbot/palette"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Box is a screen region stored as [x0, y0, x1, y1]. The zero value means
// unset.
type Box [4]int

// Rect returns the region as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b[0], b[1], b[2], b[3])
}

type SettingsConfig struct {
	Delay           float64 `toml:"delay"` // seconds
	Step            int     `toml:"step"`
	Accuracy        float64 `toml:"accuracy"`
	IgnoreWhite     bool    `toml:"ignore_white"`
	UseCustomColors bool    `toml:"use_custom_colors"`
	Mode            string  `toml:"mode"`
}

type TimingConfig struct {
	PaletteSwitch float64 `toml:"palette_switch"` // seconds
	CustomSwitch  float64 `toml:"custom_switch"`  // seconds
	Reposition    float64 `toml:"reposition"`     // seconds
}

type RegionConfig struct {
	Box Box `toml:"box"`
}

type ColorEntry struct {
	Hex string `toml:"hex"`
	X   int    `toml:"x"`
	Y   int    `toml:"y"`
}

type PaletteConfig struct {
	// Either sample a grid from a screenshot...
	Screenshot string `toml:"screenshot"`
	Box        Box    `toml:"box"`
	Rows       int    `toml:"rows"`
	Columns    int    `toml:"columns"`
	// ...or list the colors
	Colors []ColorEntry `toml:"colors"`
}

type WatchConfig struct {
	Debounce int `toml:"debounce"` // milliseconds, 0 = default (500ms)
	Workers  int `toml:"workers"`  // 0 = GOMAXPROCS
}

func (w WatchConfig) DebounceDuration() time.Duration {
	if w.Debounce > 0 {
		return time.Duration(w.Debounce) * time.Millisecond
	}
	return 500 * time.Millisecond
}

type Config struct {
	Settings     SettingsConfig `toml:"settings"`
	Timing       TimingConfig   `toml:"timing"`
	Canvas       RegionConfig   `toml:"canvas"`
	CustomColors RegionConfig   `toml:"custom_colors"`
	Palette      PaletteConfig  `toml:"palette"`
	Watch        WatchConfig    `toml:"watch"`
}

// DefaultConfig returns the configuration used when there is no file.
func DefaultConfig() *Config {
	opts := compile.DefaultOptions()
	timing := compile.DefaultTiming()
	return &Config{
		Settings: SettingsConfig{
			Delay:           timing.Delay.Seconds(),
			Step:            opts.Step,
			Accuracy:        opts.Accuracy,
			IgnoreWhite:     opts.IgnoreWhite,
			UseCustomColors: opts.UseCustomColors,
			Mode:            opts.Mode.String(),
		},
		Timing: TimingConfig{
			PaletteSwitch: timing.PaletteSwitch.Seconds(),
			CustomSwitch:  timing.CustomSwitch.Seconds(),
			Reposition:    timing.Reposition.Seconds(),
		},
	}
}

// LoadConfig reads the configuration at path over the defaults. A missing
// file isn't an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Options returns the compilation options.
func (c *Config) Options() (compile.Options, error) {
	mode, err := compile.ParseMode(c.Settings.Mode)
	if err != nil {
		return compile.Options{}, err
	}
	return compile.Options{
		Step:            c.Settings.Step,
		Accuracy:        c.Settings.Accuracy,
		IgnoreWhite:     c.Settings.IgnoreWhite,
		UseCustomColors: c.Settings.UseCustomColors,
		Mode:            mode,
	}, nil
}

// Costs returns the drawing time estimate costs.
func (c *Config) Costs() compile.Timing {
	return compile.Timing{
		PaletteSwitch: seconds(c.Timing.PaletteSwitch),
		CustomSwitch:  seconds(c.Timing.CustomSwitch),
		Reposition:    seconds(c.Timing.Reposition),
		Delay:         seconds(c.Settings.Delay),
	}
}

// BuildPalette returns the configured palette, or nil if none is
// configured.
func (c *Config) BuildPalette() (*palette.Palette, error) {
	pc := c.Palette

	if len(pc.Colors) > 0 {
		entries := make([]palette.Entry, 0, len(pc.Colors))
		for _, ce := range pc.Colors {
			col, err := palette.ParseHex(ce.Hex)
			if err != nil {
				return nil, fmt.Errorf("palette color %q: %w", ce.Hex, err)
			}
			entries = append(entries, palette.Entry{Color: col, Position: image.Pt(ce.X, ce.Y)})
		}
		return palette.New(entries...)
	}

	if pc.Screenshot == "" {
		return nil, nil
	}

	f, err := os.Open(pc.Screenshot)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	screen, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot %s: %w", pc.Screenshot, err)
	}

	return palette.Sample(screen, pc.Box.Rect(), pc.Rows, pc.Columns)
}
