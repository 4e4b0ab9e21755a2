// Package formats reads and writes the Webots world files that carry a
// terrain elevation grid.
//
// Only the parts of a .wbt file needed to rebuild the grid are understood:
// the floor size following the FLOOR Solid node and the ElevationGrid
// samples with their dimensions and spacing. Everything else in the file is
// skipped.
package formats
