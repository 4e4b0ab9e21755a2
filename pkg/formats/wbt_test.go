package formats

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestWBT builds a world file in the layout the Webots exporter produces.
func createTestWBT(x0, z0 float64, zCount int, zSpacing float64, xCount int, xSpacing float64, samples []float64) []byte {
	var sb strings.Builder

	sb.WriteString("#VRML_SIM R2021a utf8\n")
	sb.WriteString("WorldInfo {\n  basicTimeStep 16\n}\n")
	sb.WriteString("Viewpoint {\n  orientation -1 0 0 0.8\n  position 0 45 40\n}\n")
	sb.WriteString("DEF FLOOR Solid {\n")
	fmt.Fprintf(&sb, "  size %g 0 %g\n", x0, z0)
	sb.WriteString("  children [\n    Shape {\n      geometry ElevationGrid {\n        height [\n")
	for _, v := range samples {
		fmt.Fprintf(&sb, "          %g\n", v)
	}
	sb.WriteString("        ]\n")
	fmt.Fprintf(&sb, "        zDimension %d\n", zCount)
	fmt.Fprintf(&sb, "        zSpacing %g\n", zSpacing)
	fmt.Fprintf(&sb, "        xDimension %d\n", xCount)
	fmt.Fprintf(&sb, "        xSpacing %g\n", xSpacing)
	sb.WriteString("      }\n    }\n  ]\n}\n")

	return []byte(sb.String())
}

func TestParseWBT_ValidFile(t *testing.T) {
	samples := []float64{0, 1, 2, 3, 4, 5}
	data := createTestWBT(10, 5, 2, 10, 3, 10, samples)

	wbt, err := ParseWBT(data, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, 10.0, wbt.XHalfExtent)
	assert.Equal(t, 5.0, wbt.ZHalfExtent)
	assert.Equal(t, 3, wbt.XCount)
	assert.Equal(t, 2, wbt.ZCount)
	assert.Equal(t, 10.0, wbt.XSpacing)
	assert.Equal(t, 10.0, wbt.ZSpacing)
	assert.Empty(t, cmp.Diff(samples, wbt.Samples))
	assert.Equal(t, len(data), wbt.FileSize)
}

func TestParseWBT_InlineSamples(t *testing.T) {
	data := []byte(`DEF FLOOR Solid { size -2.5e1 0 +7.5
  geometry ElevationGrid { height [ 1.5, -2, 3e-1 4 ]
  zDimension 2
  zSpacing 0.5
  xDimension 2
  xSpacing 1.25 }
}`)

	wbt, err := ParseWBT(data, Limits{})
	require.NoError(t, err)

	assert.Equal(t, -25.0, wbt.XHalfExtent)
	assert.Equal(t, 7.5, wbt.ZHalfExtent)
	assert.Empty(t, cmp.Diff([]float64{1.5, -2, 0.3, 4}, wbt.Samples))
	assert.Equal(t, 1.25, wbt.XSpacing)
	assert.Equal(t, 0.5, wbt.ZSpacing)
}

func TestParseWBT_IntegerWithFraction(t *testing.T) {
	data := []byte("FLOOR Solid 1 0 1\nElevationGrid [ 0 0 0 0 ]\n zDimension 2.0\n zSpacing 1\n xDimension 2.0\n xSpacing 1")

	wbt, err := ParseWBT(data, Limits{})
	require.NoError(t, err)
	assert.Equal(t, 2, wbt.XCount)
	assert.Equal(t, 2, wbt.ZCount)
}

// The scanner reports dimensions as written; checking them against the
// sample list is left to the grid.
func TestParseWBT_HugeDimensions(t *testing.T) {
	data := []byte("FLOOR Solid 10 0 10\nElevationGrid [ ]\n zDimension 4611686018427387904\n zSpacing 1\n xDimension 4\n xSpacing 1\n")

	wbt, err := ParseWBT(data, Limits{})
	require.NoError(t, err)
	assert.Equal(t, 4611686018427387904, wbt.ZCount)
	assert.Equal(t, 4, wbt.XCount)
	assert.Empty(t, wbt.Samples)
}

func TestParseWBT_Errors(t *testing.T) {
	valid := string(createTestWBT(10, 10, 2, 1, 2, 1, []float64{0, 0, 0, 0}))

	tests := []struct {
		name    string
		data    string
		limits  Limits
		wantErr error
	}{
		{
			name:    "missing floor",
			data:    strings.Replace(valid, "FLOOR Solid", "GROUND Solid", 1),
			wantErr: ErrMissingFloorMarker,
		},
		{
			name:    "missing elevation grid",
			data:    strings.Replace(valid, "ElevationGrid", "IndexedFaceSet", 1),
			wantErr: ErrMissingElevationMarker,
		},
		{
			name:    "no opening bracket",
			data:    "FLOOR Solid 1 0 1\nElevationGrid { height 1 2 3 4 }",
			wantErr: ErrMissingElevationMarker,
		},
		{
			name:    "floor without size",
			data:    "FLOOR Solid {}",
			wantErr: ErrMalformedNumber,
		},
		{
			name:    "floor missing z extent",
			data:    "FLOOR Solid 1 0",
			wantErr: ErrMalformedNumber,
		},
		{
			name:    "bad sample",
			data:    "FLOOR Solid 1 0 1\nElevationGrid [ 0 abc 0 0 ]\n2\n1\n2\n1\n",
			wantErr: ErrMalformedNumber,
		},
		{
			name:    "unterminated list",
			data:    "FLOOR Solid 1 0 1\nElevationGrid [ 0 1 2",
			wantErr: ErrMalformedNumber,
		},
		{
			name:    "missing metadata",
			data:    "FLOOR Solid 1 0 1\nElevationGrid [ 0 0 0 0 ]\n zDimension 2\n zSpacing 1\n",
			wantErr: ErrMalformedMetadata,
		},
		{
			name:    "metadata on one line",
			data:    "FLOOR Solid 1 0 1\nElevationGrid [ 0 0 0 0 ] 2 1 2 1",
			wantErr: ErrMalformedMetadata,
		},
		{
			name:    "too many samples",
			data:    valid,
			limits:  Limits{MaxSamples: 3},
			wantErr: ErrGridOverflow,
		},
		{
			name:    "file too large",
			data:    valid,
			limits:  Limits{MaxFileBytes: 16},
			wantErr: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wbt, err := ParseWBT([]byte(tt.data), tt.limits)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, wbt, "no partial result on error")
		})
	}
}

func TestParseWBT_SampleLimitBoundary(t *testing.T) {
	data := createTestWBT(1, 1, 2, 1, 2, 1, []float64{1, 2, 3, 4})

	_, err := ParseWBT(data, Limits{MaxSamples: 4})
	assert.NoError(t, err, "exactly MaxSamples should parse")

	_, err = ParseWBT(data, Limits{MaxSamples: 3})
	assert.ErrorIs(t, err, ErrGridOverflow)
}

func TestLoadWBT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hills.wbt")
	data := createTestWBT(4, 4, 2, 8, 2, 8, []float64{1, 2, 3, 4})
	require.NoError(t, os.WriteFile(path, data, 0644))

	wbt, err := LoadWBT(path, DefaultLimits())
	require.NoError(t, err)
	assert.Len(t, wbt.Samples, 4)

	_, err = LoadWBT(path, Limits{MaxFileBytes: 10})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLoadWBT_Missing(t *testing.T) {
	_, err := LoadWBT("/nonexistent/path/world.wbt", DefaultLimits())
	assert.ErrorIs(t, err, ErrIOFailure)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLimits_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultLimits(), Limits{}.WithDefaults())
	assert.Equal(t, DefaultLimits(), Limits{MaxFileBytes: -1, MaxSamples: -1}.WithDefaults())

	custom := Limits{MaxFileBytes: 64, MaxSamples: 9}
	assert.Equal(t, custom, custom.WithDefaults())
}

func TestEncodeWBT_RoundTrip(t *testing.T) {
	want := &WBTTerrain{
		XHalfExtent: 12.5,
		ZHalfExtent: 7.25,
		ZCount:      3,
		ZSpacing:    7.25,
		XCount:      4,
		XSpacing:    25.0 / 3.0,
		Samples: []float64{
			0.1, 0.2, 0.3,
			-1.5, 2.75, 1e-7,
			100, 200.125, 3,
			4, 5, 6.000001,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeWBT(&buf, want))

	got, err := ParseWBT(buf.Bytes(), DefaultLimits())
	require.NoError(t, err, buf.String())

	want.FileSize = buf.Len()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeWBT_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		terrain *WBTTerrain
		wantErr error
	}{
		{"sample count", &WBTTerrain{XCount: 2, ZCount: 2, Samples: []float64{1, 2, 3}}, ErrMalformedMetadata},
		{"negative count", &WBTTerrain{XCount: -2, ZCount: -2, Samples: []float64{1, 2, 3, 4}}, ErrMalformedMetadata},
		{"wrapping dimensions", &WBTTerrain{XCount: 4, ZCount: math.MaxInt/2 + 1}, ErrMalformedMetadata},
		{"nan sample", &WBTTerrain{XCount: 2, ZCount: 2, Samples: []float64{1, math.NaN(), 3, 4}}, ErrMalformedNumber},
		{"infinite sample", &WBTTerrain{XCount: 2, ZCount: 2, Samples: []float64{1, 2, math.Inf(-1), 4}}, ErrMalformedNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.ErrorIs(t, EncodeWBT(&buf, tt.terrain), tt.wantErr)
			assert.Zero(t, buf.Len(), "nothing written on error")
		})
	}
}

func TestSaveWBT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "flat.wbt")
	terrain := &WBTTerrain{
		XHalfExtent: 10, ZHalfExtent: 10,
		ZCount: 2, ZSpacing: 20,
		XCount: 2, XSpacing: 20,
		Samples: []float64{5, 5, 5, 5},
	}

	require.NoError(t, SaveWBT(path, terrain))

	got, err := LoadWBT(path, DefaultLimits())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(terrain.Samples, got.Samples))
}
