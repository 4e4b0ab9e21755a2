// elevtool loads Webots world files and queries their terrain elevation grid.
package main

import (
	"flag"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/elevgrid/internal/config"
	"github.com/Faultbox/elevgrid/internal/logger"
	"github.com/Faultbox/elevgrid/internal/terrain"
	"github.com/Faultbox/elevgrid/pkg/elevation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		cmdInfo(cfg, rest)
	case "height", "h":
		cmdHeight(cfg, rest)
	case "slope", "s":
		cmdSlope(cfg, rest)
	case "render":
		cmdRender(cfg, rest)
	case "profile":
		cmdProfile(cfg, rest)
	case "config":
		cmdConfig(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`elevtool - terrain elevation and gradients from a Webots elevation surface

Usage:
  elevtool [global options] <command> [options]

Commands:
  info <world.wbt>                                Show grid dimensions and spacing
  height <world.wbt> [x,z ...]                    Height at each location
  slope <world.wbt> [x,z,heading ...]             Height, pitch and roll along heading (rad)
  render <world.wbt> <out.png>                    Draw the elevation grid as a heat map
  profile <world.wbt> <out.png> x,z,heading len   Plot height and slope along a ray
  config [save [path]]                            Print or save the effective config

Points are read from stdin, one per line, when none are given.

Global options:
  -config <path>      Config file (default ./elevtool.yaml or user config dir)
  -debug              Debug logging
  -log-file <path>    Also log to a rotating file
  -probe-step <d>     Slope probe distance in world units
  -max-samples <n>    Maximum elevation grid samples
  -max-file-bytes <n> Maximum world file size

Examples:
  elevtool info arena.wbt
  elevtool height arena.wbt 0,0 1.5,-2
  elevtool slope -roll=false arena.wbt 0,0,0.785
  elevtool slope -shape 2x1 arena.wbt 0,0,0 1,1,0
  elevtool profile arena.wbt ridge.png -10,0,0 20`)
}

// fail reports err on stderr and exits.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	os.Exit(1)
}

func usage(line string) {
	fmt.Fprintln(os.Stderr, "Usage: elevtool "+line)
	os.Exit(1)
}

// openStore loads the world file into a fresh store.
func openStore(cfg *config.Config, path string) (*terrain.Store, *elevation.Grid) {
	logger.Debug("opening world", zap.String("path", path),
		zap.Int64("max_file_bytes", cfg.Limits.MaxFileBytes),
		zap.Int("max_samples", cfg.Limits.MaxSamples))

	store := terrain.NewStore(terrain.Options{
		Limits:    cfg.WBTLimits(),
		ProbeStep: cfg.Query.ProbeStep,
		Logger:    logger.Named("terrain"),
	})
	if err := store.Load(path); err != nil {
		fail(err)
	}
	g, _ := store.Grid()
	return store, g
}

func cmdInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		usage("info <world.wbt>")
	}

	store, g := openStore(cfg, args[0])
	stats := g.Stats()

	fmt.Printf("World:   %s (%d bytes)\n", store.Source(), store.SourceBytes())
	fmt.Printf("Grid:    (%d x %d) points at (%1.2f, %1.2f)\n", g.XCount(), g.ZCount(), g.XHalfExtent(), g.ZHalfExtent())
	fmt.Printf("X dim:   %d, spacing = %1.2f\n", g.XCount(), g.XSpacing())
	fmt.Printf("Z dim:   %d, spacing = %1.2f\n", g.ZCount(), g.ZSpacing())
	fmt.Printf("Heights: %1.3f .. %1.3f (mean %1.3f)\n", stats.Min, stats.Max, stats.Mean)
	fmt.Printf("Probe:   %g\n", g.ProbeStep())
}

type heightOutput struct {
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Height float64 `json:"height"`
}

func cmdHeight(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("height", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		usage("height <world.wbt> [x,z ...]")
	}

	pts, err := readPoints(fs.Args()[1:], 2, os.Stdin)
	if err != nil {
		fail(err)
	}
	if len(pts) == 0 {
		logger.Warn("no points to query")
	}

	_, g := openStore(cfg, fs.Arg(0))
	xs, zs := pts.column(0), pts.column(1)
	heights, err := g.QueryHeight(xs, zs)
	if err != nil {
		fail(err)
	}

	out := make([]heightOutput, len(heights))
	for i := range heights {
		out[i] = heightOutput{X: xs[i], Z: zs[i], Height: heights[i]}
	}
	writeJSON(out)
}

type slopeOutput struct {
	X       float64  `json:"x"`
	Z       float64  `json:"z"`
	Heading float64  `json:"heading"`
	Height  float64  `json:"height"`
	Pitch   *float64 `json:"pitch,omitempty"`
	Roll    *float64 `json:"roll,omitempty"`
}

func cmdSlope(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("slope", flag.ExitOnError)
	wantPitch := fs.Bool("pitch", true, "Output pitch")
	wantRoll := fs.Bool("roll", true, "Output roll")
	shapeArg := fs.String("shape", "", "Arrange points as RxC, column-major")
	fs.Parse(args)

	if fs.NArg() < 1 {
		usage("slope [-pitch=false] [-roll=false] [-shape RxC] <world.wbt> [x,z,heading ...]")
	}

	shape, err := parseShape(*shapeArg)
	if err != nil {
		fail(err)
	}
	pts, err := readPoints(fs.Args()[1:], 3, os.Stdin)
	if err != nil {
		fail(err)
	}
	if len(pts) == 0 {
		logger.Warn("no points to query")
	}

	_, g := openStore(cfg, fs.Arg(0))
	req := elevation.SlopeRequest{
		Xs:        pts.column(0),
		Zs:        pts.column(1),
		Headings:  pts.column(2),
		WantPitch: *wantPitch,
		WantRoll:  *wantRoll,
		Shape:     shape,
	}
	res, err := g.QueryHeightAndSlope(req)
	if err != nil {
		fail(err)
	}

	out := make([]slopeOutput, len(res.Heights))
	for i := range res.Heights {
		out[i] = slopeOutput{X: req.Xs[i], Z: req.Zs[i], Heading: req.Headings[i], Height: res.Heights[i]}
		if res.Pitches != nil {
			out[i].Pitch = &res.Pitches[i]
		}
		if res.Rolls != nil {
			out[i].Roll = &res.Rolls[i]
		}
	}
	if *shapeArg == "" {
		writeJSON(out)
		return
	}
	writeJSON(shapedOutput{Rows: res.Shape.Rows, Cols: res.Shape.Cols, Points: out})
}

// shapedOutput carries a slope batch together with its RxC layout.
type shapedOutput struct {
	Rows   int           `json:"rows"`
	Cols   int           `json:"cols"`
	Points []slopeOutput `json:"points"`
}

func cmdRender(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	title := fs.String("title", "", "Plot title")
	fs.Parse(args)

	if fs.NArg() < 2 {
		usage("render [-title t] <world.wbt> <out.png>")
	}

	_, g := openStore(cfg, fs.Arg(0))
	opts := renderOptions(cfg, *title)
	if err := terrain.RenderHeatMap(g, fs.Arg(1), opts); err != nil {
		fail(err)
	}
	logger.Info("heat map written", zap.String("path", fs.Arg(1)))
}

func cmdProfile(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	title := fs.String("title", "", "Plot title")
	step := fs.Float64("step", cfg.Render.ProfileStep, "Distance between samples")
	fs.Parse(args)

	if fs.NArg() < 4 {
		usage("profile [-step d] [-title t] <world.wbt> <out.png> x,z,heading length")
	}

	start, err := parsePoint(fs.Arg(2), 3)
	if err != nil {
		fail(err)
	}
	length, err := parseFloat(fs.Arg(3))
	if err != nil {
		fail(fmt.Errorf("length: %w", err))
	}

	_, g := openStore(cfg, fs.Arg(0))
	points, err := terrain.Profile(g, start[0], start[1], start[2], length, *step)
	if err != nil {
		fail(err)
	}
	if err := terrain.RenderProfile(points, fs.Arg(1), renderOptions(cfg, *title)); err != nil {
		fail(err)
	}
	logger.Info("profile written", zap.String("path", fs.Arg(1)), zap.Int("samples", len(points)))
}

func cmdConfig(cfg *config.Config, args []string) {
	if len(args) == 0 {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail(err)
		}
		os.Stdout.Write(data)
		return
	}

	if args[0] != "save" {
		usage("config [save [path]]")
	}

	var err error
	if len(args) > 1 {
		err = cfg.SaveTo(args[1])
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fail(err)
	}
	logger.Info("config saved")
}

func renderOptions(cfg *config.Config, title string) terrain.RenderOptions {
	return terrain.RenderOptions{
		Title:         title,
		WidthIn:       cfg.Render.WidthIn,
		HeightIn:      cfg.Render.HeightIn,
		PaletteLevels: cfg.Render.PaletteLevels,
	}
}

func writeJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
}
