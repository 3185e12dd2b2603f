// Package grid partitions an ordered list of items into a near-square
// matrix for display.
package grid

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Orientation selects whether the rows of a matrix are drawn as horizontal
// bands or as vertical bands.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// ErrInvalidOrientation is returned by ParseOrientation for unknown values.
var ErrInvalidOrientation = errors.New("invalid orientation")

// ParseOrientation parses "horizontal" or "vertical" (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case Horizontal:
		return Horizontal, nil
	case Vertical:
		return Vertical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
}

// Spec configures Layout. A FixedRowSize of zero or less means the row size
// is derived from the number of items.
type Spec struct {
	Orientation  Orientation
	FixedRowSize int
}

// Matrix is the row-major result of Layout.
type Matrix[T any] struct {
	Rows        [][]T       `json:"rows"`
	Orientation Orientation `json:"orientation"`
	RowSize     int         `json:"rowSize"`
}

// Empty reports whether the matrix has no rows.
func (m Matrix[T]) Empty() bool {
	return len(m.Rows) == 0
}

// LastRow returns the index of the final row, or -1 for an empty matrix.
// The presentation layer stretches this row to fill remaining space.
func (m Matrix[T]) LastRow() int {
	return len(m.Rows) - 1
}

// IsLast reports whether i is the index of the final row.
func (m Matrix[T]) IsLast(i int) bool {
	return i >= 0 && i == m.LastRow()
}

// ColumnMajor reports whether rows should be drawn as vertical bands.
func (m Matrix[T]) ColumnMajor() bool {
	return m.Orientation == Vertical
}

// RowSize returns fixed when it is positive, otherwise ceil(sqrt(n)).
func RowSize(n, fixed int) int {
	if fixed > 0 {
		return fixed
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// Layout splits items into consecutive rows of RowSize items; the last row
// may be shorter. Orientation does not affect the chunking and is carried
// through to the result. An empty input yields a matrix with zero rows.
func Layout[T any](items []T, spec Spec) Matrix[T] {
	orientation := spec.Orientation
	if orientation == "" {
		orientation = Horizontal
	}

	m := Matrix[T]{Rows: [][]T{}, Orientation: orientation}
	if len(items) == 0 {
		return m
	}

	size := RowSize(len(items), spec.FixedRowSize)
	m.RowSize = size
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		row := make([]T, end-start)
		copy(row, items[start:end])
		m.Rows = append(m.Rows, row)
	}
	return m
}
