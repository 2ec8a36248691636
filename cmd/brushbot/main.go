package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/brushbot"
	"github.com/bodgit/brushbot/execute"
	"github.com/bodgit/brushbot/palette"
	"github.com/bodgit/brushbot/preview"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	defaultDB     = "brushbot.db"
	defaultConfig = "brushbot.toml"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var settingsFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "step",
		Usage: "size in pixels of each sampled cell",
	},
	&cli.Float64Flag{
		Name:  "accuracy",
		Usage: "custom color accuracy, from 0 to 1",
	},
	&cli.StringFlag{
		Name:  "mode",
		Usage: "stroke compilation mode, layered or slotted",
	},
	&cli.BoolFlag{
		Name:  "custom",
		Usage: "use custom colors rather than the palette",
	},
	&cli.BoolFlag{
		Name:  "ignore-white",
		Usage: "don't draw white",
	},
	&cli.Float64Flag{
		Name:  "delay",
		Usage: "pause in seconds before each stroke",
	},
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func loadConfig(c *cli.Context) (*brushbot.Config, error) {
	cfg, err := brushbot.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("step") {
		cfg.Settings.Step = c.Int("step")
	}
	if c.IsSet("accuracy") {
		cfg.Settings.Accuracy = c.Float64("accuracy")
	}
	if c.IsSet("mode") {
		cfg.Settings.Mode = c.String("mode")
	}
	if c.IsSet("custom") {
		cfg.Settings.UseCustomColors = c.Bool("custom")
	}
	if c.IsSet("ignore-white") {
		cfg.Settings.IgnoreWhite = c.Bool("ignore-white")
	}
	if c.IsSet("delay") {
		cfg.Settings.Delay = c.Float64("delay")
	}

	return cfg, nil
}

func newBot(c *cli.Context) (*brushbot.Bot, *brushbot.Config, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(c)
	if err != nil {
		return nil, nil, nil, err
	}

	b, err := brushbot.New(c.String("db"), cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return b, cfg, logger, nil
}

func compileAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	b, _, logger, err := newBot(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer logger.Sync()
	defer b.Close()

	plan, err := b.Process(context.Background(), c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Printf("%s: %d colors, %d strokes, estimated %s\n", c.Args().First(), plan.ColorMap.Len(), plan.ColorMap.NumStrokes(), plan.Estimate)
	for _, l := range plan.ColorMap.Layers() {
		fmt.Printf("%s\t%d\n", l.Color.Hex(), len(l.Strokes))
	}

	return nil
}

func previewAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	b, cfg, logger, err := newBot(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer logger.Sync()
	defer b.Close()

	plan, err := b.Process(context.Background(), c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m := preview.Render(plan.ColorMap, cfg.Canvas.Box.Rect(), cfg.Settings.Step, palette.White)

	f, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func drawAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	b, _, logger, err := newBot(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer logger.Sync()
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	plan, err := b.Process(ctx, c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	// No pointer automation is linked in, so the drawing is logged
	done, err := b.Draw(ctx, execute.LogDriver{Logger: logger}, plan)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !done {
		fmt.Println("Drawing cancelled")
	}

	return nil
}

func paletteAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	method, err := palette.ParseMethod(c.String("method"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	colors, err := palette.Extract(m, c.Int("colors"), method)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var out struct {
		Palette struct {
			Colors []brushbot.ColorEntry `toml:"colors"`
		} `toml:"palette"`
	}
	for _, col := range colors {
		out.Palette.Colors = append(out.Palette.Colors, brushbot.ColorEntry{Hex: col.Hex()})
	}

	if err := toml.NewEncoder(os.Stdout).Encode(out); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func scanAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	b, _, logger, err := newBot(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer logger.Sync()
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := b.Scan(ctx, c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func watchAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	b, _, logger, err := newBot(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer logger.Sync()
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := b.Watch(ctx, c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "brushbot"
	app.Usage = "Draw images in paint programs with brush strokes"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"BRUSHBOT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"BRUSHBOT_CONFIG"},
			Value:   filepath.Join(cwd, defaultConfig),
			Usage:   "path to configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "compile",
			Usage:     "Compile an image into strokes",
			ArgsUsage: "FILE",
			Flags:     settingsFlags,
			Action:    compileAction,
		},
		{
			Name:      "preview",
			Usage:     "Render the strokes of an image as a PNG",
			ArgsUsage: "FILE OUTPUT",
			Flags:     settingsFlags,
			Action:    previewAction,
		},
		{
			Name:      "draw",
			Usage:     "Draw an image",
			ArgsUsage: "FILE",
			Flags:     settingsFlags,
			Action:    drawAction,
		},
		{
			Name:      "palette",
			Usage:     "Extract palette colors from an image",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 16,
					Usage: "number of colors",
				},
				&cli.StringFlag{
					Name:  "method",
					Value: palette.MedianCut.String(),
					Usage: "extraction method, mediancut, kmeans or dominant",
				},
			},
			Action: paletteAction,
		},
		{
			Name:      "scan",
			Usage:     "Compile every image in a directory",
			ArgsUsage: "DIRECTORY",
			Flags:     settingsFlags,
			Action:    scanAction,
		},
		{
			Name:      "watch",
			Usage:     "Compile images in a directory as they change",
			ArgsUsage: "DIRECTORY",
			Flags:     settingsFlags,
			Action:    watchAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
