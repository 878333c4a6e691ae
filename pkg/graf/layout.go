package graf

import (
	"fmt"
	"strings"

	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Placement is the grid slice occupied by one axis: rows [Row0, Row1) and
// columns [Col0, Col1).
type Placement struct {
	Key        string
	Row0, Col0 int
	Row1, Col1 int
}

// RowSpan returns the number of rows covered.
func (p Placement) RowSpan() int { return p.Row1 - p.Row0 }

// ColSpan returns the number of columns covered.
func (p Placement) ColSpan() int { return p.Col1 - p.Col0 }

// Layout is the grid reconstructed from axis positions and spans.
type Layout struct {
	Rows, Cols int
	Placements []Placement // in axis order
}

// MaxGridSize bounds the rows and columns a valid figure may occupy.
const MaxGridSize = 256

// ComputeLayout builds the smallest grid holding every axis. The grid size
// is the component-wise maximum of position+span; an empty collection gives
// a 0x0 grid. Overlaps are not checked: a later axis wins the cells it shares
// with an earlier one. No per-cell storage is allocated.
func ComputeLayout(axes *pack.Keyed[Axis]) *Layout {
	l := &Layout{}
	keys := pack.Keys(axes)
	for i, a := range pack.Values(axes) {
		b := a.Bounds()
		l.Rows = max(l.Rows, b[2])
		l.Cols = max(l.Cols, b[3])
		l.Placements = append(l.Placements, Placement{Key: keys[i], Row0: b[0], Col0: b[1], Row1: b[2], Col1: b[3]})
	}
	return l
}

// Layout returns the grid layout of the figure.
func (g *Graf) Layout() *Layout { return ComputeLayout(g.Axes) }

// At returns the key of the axis occupying (row, col).
func (l *Layout) At(row, col int) (string, bool) {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return "", false
	}
	for i := len(l.Placements) - 1; i >= 0; i-- {
		p := l.Placements[i]
		if row >= p.Row0 && row < p.Row1 && col >= p.Col0 && col < p.Col1 {
			return p.Key, true
		}
	}
	return "", false
}

// String draws the grid with one axis key per cell, "." for empty cells.
// Grids larger than MaxGridSize in either direction are clipped, with a
// final line giving the full size.
func (l *Layout) String() string {
	width := 1
	for _, p := range l.Placements {
		width = max(width, len(p.Key))
	}
	rows, cols := min(l.Rows, MaxGridSize), min(l.Cols, MaxGridSize)
	var b strings.Builder
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			k, ok := l.At(r, c)
			if !ok {
				k = "."
			}
			if c > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(k)
			line.WriteString(strings.Repeat(" ", width-len(k)))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	if rows < l.Rows || cols < l.Cols {
		fmt.Fprintf(&b, "... %dx%d grid clipped to %dx%d\n", l.Rows, l.Cols, rows, cols)
	}
	return b.String()
}
