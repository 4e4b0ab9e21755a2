// Package terrain holds the currently loaded elevation grid and answers
// queries against it.
package terrain

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/elevgrid/pkg/elevation"
	"github.com/Faultbox/elevgrid/pkg/formats"
)

// ErrNoTerrain is returned by queries made before any world has loaded.
var ErrNoTerrain = errors.New("no terrain loaded")

// Options configures a Store. Zero limits fall back to the scanner defaults.
type Options struct {
	Limits    formats.Limits
	ProbeStep float64
	Logger    *zap.Logger
}

// Store holds the current grid. A successful Load swaps in a new grid; a
// failed Load leaves the previous one in place. Readers never see a
// partially built grid.
type Store struct {
	opts    Options
	log     *zap.Logger
	current atomic.Pointer[loaded]
}

type loaded struct {
	grid  *elevation.Grid
	path  string
	bytes int
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	opts.Limits = opts.Limits.WithDefaults()
	return &Store{opts: opts, log: log}
}

// Load reads and parses a world file and makes its grid current.
func (s *Store) Load(path string) error {
	wbt, err := formats.LoadWBT(path, s.opts.Limits)
	if err != nil {
		s.log.Warn("world file rejected", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("loading %s: %w", path, err)
	}
	s.log.Debug("world file read", zap.String("path", path), zap.Int("bytes", wbt.FileSize))

	grid, err := elevation.FromWBT(wbt, s.opts.Limits.MaxSamples, s.opts.ProbeStep)
	if err != nil {
		s.log.Warn("elevation grid rejected", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("loading %s: %w", path, err)
	}

	s.current.Store(&loaded{grid: grid, path: path, bytes: wbt.FileSize})

	s.log.Info("terrain loaded",
		zap.String("path", path),
		zap.Int("bytes", wbt.FileSize),
		zap.Int("x_count", grid.XCount()),
		zap.Int("z_count", grid.ZCount()),
		zap.Float64("x_half_extent", grid.XHalfExtent()),
		zap.Float64("z_half_extent", grid.ZHalfExtent()),
		zap.Float64("x_spacing", grid.XSpacing()),
		zap.Float64("z_spacing", grid.ZSpacing()),
	)
	return nil
}

// Grid returns the current grid, if any.
func (s *Store) Grid() (*elevation.Grid, bool) {
	if l := s.current.Load(); l != nil {
		return l.grid, true
	}
	return nil, false
}

// Source returns the path the current grid was loaded from.
func (s *Store) Source() string {
	if l := s.current.Load(); l != nil {
		return l.path
	}
	return ""
}

// SourceBytes returns the size of the world file the current grid came from.
func (s *Store) SourceBytes() int {
	if l := s.current.Load(); l != nil {
		return l.bytes
	}
	return 0
}

// QueryHeight answers a height batch against the current grid.
func (s *Store) QueryHeight(xs, zs []float64) ([]float64, error) {
	g, ok := s.Grid()
	if !ok {
		return nil, ErrNoTerrain
	}
	return g.QueryHeight(xs, zs)
}

// QueryHeightAndSlope answers a height/slope batch against the current grid.
func (s *Store) QueryHeightAndSlope(req elevation.SlopeRequest) (*elevation.SlopeResult, error) {
	g, ok := s.Grid()
	if !ok {
		return nil, ErrNoTerrain
	}
	return g.QueryHeightAndSlope(req)
}
