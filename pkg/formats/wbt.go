package formats

import (
	"errors"
	"fmt"
	"os"
)

// WBT (Webots world) scanner errors.
var (
	ErrFileTooLarge           = errors.New("world file exceeds size limit")
	ErrIOFailure              = errors.New("cannot read world file")
	ErrMissingFloorMarker     = errors.New("missing 'FLOOR Solid' marker")
	ErrMissingElevationMarker = errors.New("missing 'ElevationGrid' marker")
	ErrMalformedNumber        = errors.New("malformed number")
	ErrGridOverflow           = errors.New("elevation grid exceeds sample limit")
	ErrMalformedMetadata      = errors.New("malformed elevation grid metadata")
)

// Section markers located by the scanner.
const (
	FloorMarker     = "FLOOR Solid"
	ElevationMarker = "ElevationGrid"
)

// Default scanner limits.
const (
	DefaultMaxFileBytes = 1_000_000
	DefaultMaxSamples   = 5000
)

// Limits bounds the input accepted by ParseWBT and LoadWBT.
// Zero fields fall back to the defaults.
type Limits struct {
	MaxFileBytes int64
	MaxSamples   int
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		MaxFileBytes: DefaultMaxFileBytes,
		MaxSamples:   DefaultMaxSamples,
	}
}

// WithDefaults returns l with zero or negative fields replaced by the defaults.
func (l Limits) WithDefaults() Limits {
	if l.MaxFileBytes <= 0 {
		l.MaxFileBytes = DefaultMaxFileBytes
	}
	if l.MaxSamples <= 0 {
		l.MaxSamples = DefaultMaxSamples
	}
	return l
}

// WBTTerrain holds the terrain sections extracted from a Webots world file.
//
// Samples are in file order, which is x-major and z-minor:
// index = zIndex + xIndex*ZCount.
type WBTTerrain struct {
	XHalfExtent float64 // Floor half-width along X
	ZHalfExtent float64 // Floor half-width along Z

	ZCount   int     // zDimension
	ZSpacing float64 // zSpacing
	XCount   int     // xDimension
	XSpacing float64 // xSpacing

	Samples []float64

	FileSize int // Bytes scanned
}

// ParseWBT extracts floor extents and the elevation grid from world file text.
// Only the two sections it needs are looked at; the rest of the file is not
// validated.
func ParseWBT(data []byte, limits Limits) (*WBTTerrain, error) {
	limits = limits.WithDefaults()
	if int64(len(data)) > limits.MaxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), limits.MaxFileBytes)
	}

	t := &WBTTerrain{FileSize: len(data)}

	if err := scanFloor(newCursor(data), t); err != nil {
		return nil, err
	}

	c := newCursor(data)
	if !c.seek(ElevationMarker) {
		return nil, ErrMissingElevationMarker
	}
	if !c.skipPast('[') {
		return nil, fmt.Errorf("%w: no '[' after %s", ErrMissingElevationMarker, ElevationMarker)
	}

	samples, err := scanSamples(c, limits.MaxSamples)
	if err != nil {
		return nil, err
	}
	t.Samples = samples

	if err := scanMetadata(c, t); err != nil {
		return nil, err
	}

	return t, nil
}

// LoadWBT reads and parses a world file from disk. Oversized files are
// rejected before they are read.
func LoadWBT(path string, limits Limits) (*WBTTerrain, error) {
	limits = limits.WithDefaults()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if info.Size() > limits.MaxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), limits.MaxFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return ParseWBT(data, limits)
}

// scanFloor reads "<x half-extent> 0 <z half-extent>" following the floor marker.
func scanFloor(c *cursor, t *WBTTerrain) error {
	if !c.seek(FloorMarker) {
		return ErrMissingFloorMarker
	}
	if !c.skipToNumber() {
		return fmt.Errorf("%w: no floor size after %s", ErrMalformedNumber, FloorMarker)
	}

	x0, ok := c.float()
	if !ok {
		return fmt.Errorf("%w: floor x extent", ErrMalformedNumber)
	}

	// Middle value is the (zero) height of the floor.
	c.skipSpace()
	c.skipToken()
	c.skipSpace()

	z0, ok := c.float()
	if !ok {
		return fmt.Errorf("%w: floor z extent", ErrMalformedNumber)
	}

	t.XHalfExtent = x0
	t.ZHalfExtent = z0
	return nil
}

// scanSamples reads whitespace separated heights up to the closing ']'.
// The cursor is left on the ']'.
func scanSamples(c *cursor, maxSamples int) ([]float64, error) {
	var samples []float64
	for {
		c.skipSpace()
		b, ok := c.peek()
		if !ok {
			return nil, fmt.Errorf("%w: unterminated height list after %d samples", ErrMalformedNumber, len(samples))
		}
		if b == ']' {
			return samples, nil
		}
		if len(samples) >= maxSamples {
			return nil, fmt.Errorf("%w: more than %d samples", ErrGridOverflow, maxSamples)
		}

		v, ok := c.float()
		if !ok {
			return nil, fmt.Errorf("%w: height sample %d", ErrMalformedNumber, len(samples))
		}
		samples = append(samples, v)
	}
}

// scanMetadata reads the four fields that follow the height list, in the
// order the exporter writes them: zDimension, zSpacing, xDimension, xSpacing.
func scanMetadata(c *cursor, t *WBTTerrain) error {
	var ok bool

	if !c.skipToNumber() {
		return fmt.Errorf("%w: zDimension", ErrMalformedMetadata)
	}
	if t.ZCount, ok = c.integer(); !ok {
		return fmt.Errorf("%w: zDimension", ErrMalformedMetadata)
	}
	if !c.nextLine() || !c.skipToNumber() {
		return fmt.Errorf("%w: zSpacing", ErrMalformedMetadata)
	}
	if t.ZSpacing, ok = c.float(); !ok {
		return fmt.Errorf("%w: zSpacing", ErrMalformedMetadata)
	}
	if !c.nextLine() || !c.skipToNumber() {
		return fmt.Errorf("%w: xDimension", ErrMalformedMetadata)
	}
	if t.XCount, ok = c.integer(); !ok {
		return fmt.Errorf("%w: xDimension", ErrMalformedMetadata)
	}
	if !c.nextLine() || !c.skipToNumber() {
		return fmt.Errorf("%w: xSpacing", ErrMalformedMetadata)
	}
	if t.XSpacing, ok = c.float(); !ok {
		return fmt.Errorf("%w: xSpacing", ErrMalformedMetadata)
	}

	// The last field may end the file without a trailing newline.
	c.nextLine()
	return nil
}
