package graf

import (
	"fmt"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Cell is a (row, column) pair in layout grid units.
type Cell [2]int

// Axis is one rectangular plot region.
type Axis struct {
	Kind         AxisKind
	Position     Cell // top-left (row, col)
	Span         Cell // (rowSpan, colSpan)
	RelativeSize []float64
	X            *Scale
	YLeft        *Scale
	YRight       *Scale // valid only for a twin pair
	Z            *Scale
	GridOn       bool
	Traces       *pack.Keyed[Trace]
	Surfaces     *pack.Keyed[Surface]
	Title        string
}

// NewAxis returns an empty 2-D line axis in cell (0, 0). Its Y-right and Z
// scales are invalid.
func NewAxis() *Axis {
	return &Axis{
		Kind:         AxisLine2D,
		Position:     Cell{0, 0},
		Span:         Cell{1, 1},
		RelativeSize: []float64{},
		X:            NewScale(),
		YLeft:        NewScale(),
		YRight:       InvalidScale(),
		Z:            InvalidScale(),
		Traces:       pack.NewKeyed[Trace](),
		Surfaces:     pack.NewKeyed[Surface](),
	}
}

var axisSchema = pack.NewSchema("Axis",
	pack.Enum("axis_type", func(a *Axis) *AxisKind { return &a.Kind }, NormalizeAxisKind),
	pack.Pair("position", func(a *Axis) *Cell { return &a.Position }),
	pack.Pair("span", func(a *Axis) *Cell { return &a.Span }),
	pack.Floats("relative_size", func(a *Axis) *[]float64 { return &a.RelativeSize }),
	pack.Entity("x_axis", func(a *Axis) **Scale { return &a.X }, scaleSchema, NewScale),
	pack.Entity("y_axis_L", func(a *Axis) **Scale { return &a.YLeft }, scaleSchema, NewScale),
	pack.Entity("y_axis_R", func(a *Axis) **Scale { return &a.YRight }, scaleSchema, InvalidScale),
	pack.Entity("z_axis", func(a *Axis) **Scale { return &a.Z }, scaleSchema, InvalidScale),
	pack.Bool("grid_on", func(a *Axis) *bool { return &a.GridOn }),
	pack.Map("traces", func(a *Axis) **pack.Keyed[Trace] { return &a.Traces }, traceSchema, NewTrace),
	pack.Map("surfaces", func(a *Axis) **pack.Keyed[Surface] { return &a.Surfaces }, surfaceSchema, NewSurface),
	pack.String("title", func(a *Axis) *string { return &a.Title }),
)

func (a *Axis) Pack() document.Document          { return axisSchema.Pack(a) }
func (a *Axis) Unpack(d document.Document) error { return axisSchema.Unpack(a, d) }

// Bounds returns (top row, left col, bottom row, right col); the bottom and
// right bounds are exclusive.
func (a *Axis) Bounds() [4]int {
	return [4]int{a.Position[0], a.Position[1], a.Position[0] + a.Span[0], a.Position[1] + a.Span[1]}
}

// Slot returns the half-open row and column ranges covered by the axis.
func (a *Axis) Slot() (rows, cols [2]int) {
	b := a.Bounds()
	return [2]int{b[0], b[2]}, [2]int{b[1], b[3]}
}

// Covers reports whether the cell (row, col) lies inside the axis.
func (a *Axis) Covers(row, col int) bool {
	b := a.Bounds()
	return row >= b[0] && row < b[2] && col >= b[1] && col < b[3]
}

// IsTwin reports whether the axis models a twin pair.
func (a *Axis) IsTwin() bool { return a.YRight != nil && a.YRight.Valid }

// AddTrace stores t under the next free "Tr<N>" key and returns the key.
func (a *Axis) AddTrace(t *Trace) string {
	if a.Traces == nil {
		a.Traces = pack.NewKeyed[Trace]()
	}
	key := nextKey("Tr", a.Traces.Len(), func(k string) bool {
		_, ok := a.Traces.Get(k)
		return ok
	})
	a.Traces.Set(key, t)
	return key
}

// AddSurface stores s under the next free "Sf<N>" key and returns the key.
func (a *Axis) AddSurface(s *Surface) string {
	if a.Surfaces == nil {
		a.Surfaces = pack.NewKeyed[Surface]()
	}
	key := nextKey("Sf", a.Surfaces.Len(), func(k string) bool {
		_, ok := a.Surfaces.Get(k)
		return ok
	})
	a.Surfaces.Set(key, s)
	return key
}

// Trace returns the trace stored as "Tr<idx>".
func (a *Axis) Trace(idx int) (*Trace, bool) {
	if a.Traces == nil {
		return nil, false
	}
	return a.Traces.Get(fmt.Sprintf("Tr%d", idx))
}

// TraceIndex returns the insertion position of the first trace whose display
// name is label, or -1. The position equals N in "Tr<N>" only while the keys
// have no gaps; use [Axis.TraceByLabel] to fetch the trace itself.
func (a *Axis) TraceIndex(label string) int {
	for i, t := range pack.Values(a.Traces) {
		if t.DisplayName == label {
			return i
		}
	}
	return -1
}

// TraceByLabel returns the first trace whose display name is label,
// whatever key it is stored under.
func (a *Axis) TraceByLabel(label string) (*Trace, bool) {
	for _, t := range pack.Values(a.Traces) {
		if t.DisplayName == label {
			return t, true
		}
	}
	return nil, false
}

// Validate checks the invariants of the axis and everything it owns.
func (a *Axis) Validate() error {
	var errs []error
	if a.Span[0] < 1 || a.Span[1] < 1 {
		errs = append(errs, errors.New(errors.ErrCodeInvalidDocument, "span %v must be at least 1x1", a.Span))
	}
	if a.Position[0] < 0 || a.Position[1] < 0 {
		errs = append(errs, errors.New(errors.ErrCodeInvalidDocument, "negative position %v", a.Position))
	}
	for i := range 2 {
		if a.Position[i] > MaxGridSize || a.Span[i] > MaxGridSize || a.Position[i]+a.Span[i] > MaxGridSize {
			errs = append(errs, errors.New(errors.ErrCodeInvalidDocument,
				"position %v with span %v exceeds the %dx%d grid limit", a.Position, a.Span, MaxGridSize, MaxGridSize))
			break
		}
	}
	scales := []*Scale{a.X, a.YLeft, a.YRight, a.Z}
	for i, name := range []string{"x_axis", "y_axis_L", "y_axis_R", "z_axis"} {
		if scales[i] == nil {
			continue
		}
		if err := scales[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	keys := pack.Keys(a.Traces)
	for i, t := range pack.Values(a.Traces) {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("traces.%s: %w", keys[i], err))
		}
		if t.UseYAxisRight && !a.IsTwin() {
			errs = append(errs, errors.New(errors.ErrCodeInvalidDocument, "traces.%s uses y_axis_R but the axis has no twin", keys[i]))
		}
	}
	keys = pack.Keys(a.Surfaces)
	for i, s := range pack.Values(a.Surfaces) {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("surfaces.%s: %w", keys[i], err))
		}
	}
	return joinErrors(errs)
}

func nextKey(prefix string, start int, taken func(string) bool) string {
	for i := start; ; i++ {
		k := fmt.Sprintf("%s%d", prefix, i)
		if !taken(k) {
			return k
		}
	}
}
