package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/elevgrid/pkg/elevation"
)

// points holds parsed coordinate tuples, one row per point.
type points [][]float64

// column returns field i of every point.
func (p points) column(i int) []float64 {
	col := make([]float64, len(p))
	for j, pt := range p {
		col[j] = pt[i]
	}
	return col
}

// readPoints parses "x,z[,heading]" tuples from args, or from r one per line
// when args is empty. Blank lines and lines starting with '#' are skipped.
func readPoints(args []string, fields int, r io.Reader) (points, error) {
	var pts points

	if len(args) > 0 {
		for _, arg := range args {
			pt, err := parsePoint(arg, fields)
			if err != nil {
				return nil, err
			}
			pts = append(pts, pt)
		}
		return pts, nil
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		pt, err := parsePoint(text, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		pts = append(pts, pt)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	return pts, nil
}

// parsePoint parses exactly fields numbers separated by commas or whitespace.
func parsePoint(s string, fields int) ([]float64, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) != fields {
		return nil, fmt.Errorf("point %q: expected %d values, got %d", s, fields, len(parts))
	}

	pt := make([]float64, fields)
	for i, part := range parts {
		v, err := parseFloat(part)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", s, err)
		}
		pt[i] = v
	}
	return pt, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// parseShape parses an "RxC" batch layout. An empty string is the zero Shape,
// a single row.
func parseShape(s string) (elevation.Shape, error) {
	if s == "" {
		return elevation.Shape{}, nil
	}
	r, c, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return elevation.Shape{}, fmt.Errorf("shape %q: expected RxC", s)
	}
	rows, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil || rows < 1 {
		return elevation.Shape{}, fmt.Errorf("shape %q: invalid row count", s)
	}
	cols, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil || cols < 1 {
		return elevation.Shape{}, fmt.Errorf("shape %q: invalid column count", s)
	}
	return elevation.Shape{Rows: rows, Cols: cols}, nil
}
