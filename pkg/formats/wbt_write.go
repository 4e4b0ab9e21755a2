package formats

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// samplesPerLine is how many heights EncodeWBT writes per line of the height list.
const samplesPerLine = 8

// EncodeWBT writes t as a minimal Webots world that ParseWBT reads back
// unchanged: a floor solid carrying the half-extents, and an ElevationGrid
// whose trailing fields are in zDimension, zSpacing, xDimension, xSpacing order.
func EncodeWBT(w io.Writer, t *WBTTerrain) error {
	if t.XCount < 0 || t.ZCount < 0 || (t.ZCount > 0 && t.XCount > math.MaxInt/t.ZCount) {
		return fmt.Errorf("%w: %dx%d grid", ErrMalformedMetadata, t.XCount, t.ZCount)
	}
	if len(t.Samples) != t.XCount*t.ZCount {
		return fmt.Errorf("%w: %d samples for %dx%d grid", ErrMalformedMetadata, len(t.Samples), t.XCount, t.ZCount)
	}
	for i, v := range t.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: height sample %d is %v", ErrMalformedNumber, i, v)
		}
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "#VRML_SIM R2021a utf8")
	fmt.Fprintln(bw, "WorldInfo {")
	fmt.Fprintln(bw, "}")
	fmt.Fprintln(bw, "DEF FLOOR Solid {")
	fmt.Fprintf(bw, "  size %s 0 %s\n", formatFloat(t.XHalfExtent), formatFloat(t.ZHalfExtent))
	fmt.Fprintln(bw, "  children [")
	fmt.Fprintln(bw, "    Shape {")
	fmt.Fprintln(bw, "      geometry DEF TERRAIN ElevationGrid {")
	fmt.Fprintln(bw, "        height [")
	for i := 0; i < len(t.Samples); i += samplesPerLine {
		end := min(i+samplesPerLine, len(t.Samples))
		bw.WriteString("         ")
		for _, v := range t.Samples[i:end] {
			bw.WriteByte(' ')
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	fmt.Fprintln(bw, "        ]")
	fmt.Fprintf(bw, "        zDimension %d\n", t.ZCount)
	fmt.Fprintf(bw, "        zSpacing %s\n", formatFloat(t.ZSpacing))
	fmt.Fprintf(bw, "        xDimension %d\n", t.XCount)
	fmt.Fprintf(bw, "        xSpacing %s\n", formatFloat(t.XSpacing))
	fmt.Fprintln(bw, "      }")
	fmt.Fprintln(bw, "    }")
	fmt.Fprintln(bw, "  ]")
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

// SaveWBT writes t to path, creating parent directories as needed.
func SaveWBT(path string, t *WBTTerrain) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeWBT(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
