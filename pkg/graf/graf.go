package graf

import (
	stderrors "errors"
	"fmt"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Packable is implemented by every GrAF entity.
type Packable interface {
	Pack() document.Document
	Unpack(d document.Document) error
}

var (
	_ Packable = (*Graf)(nil)
	_ Packable = (*Axis)(nil)
	_ Packable = (*Scale)(nil)
	_ Packable = (*Trace)(nil)
	_ Packable = (*Surface)(nil)
	_ Packable = (*GraphStyle)(nil)
	_ Packable = (*MetaInfo)(nil)
	_ Packable = (*Font)(nil)
)

// Graf is the root of a figure.
type Graf struct {
	Style      *GraphStyle
	Info       *MetaInfo
	Supertitle string
	Axes       *pack.Keyed[Axis]
}

// New returns an empty figure with default style and provenance.
func New() *Graf {
	return &Graf{
		Style: NewGraphStyle(),
		Info:  newMetaInfo(),
		Axes:  pack.NewKeyed[Axis](),
	}
}

var grafSchema = pack.NewSchema("Graf",
	pack.Entity("style", func(g *Graf) **GraphStyle { return &g.Style }, styleSchema, NewGraphStyle),
	pack.Entity("info", func(g *Graf) **MetaInfo { return &g.Info }, metaSchema, newMetaInfo),
	pack.String("supertitle", func(g *Graf) *string { return &g.Supertitle }),
	pack.Map("axes", func(g *Graf) **pack.Keyed[Axis] { return &g.Axes }, axisSchema, NewAxis),
)

// Schema describes the root manifest and, through it, every entity type.
func Schema() pack.Describer { return grafSchema }

func (g *Graf) Pack() document.Document          { return grafSchema.Pack(g) }
func (g *Graf) Unpack(d document.Document) error { return grafSchema.Unpack(g, d) }

// Decode unpacks d into a fresh Graf. On error the returned Graf is only
// partially populated and should not be trusted.
func Decode(d document.Document) (*Graf, error) {
	g := New()
	err := g.Unpack(d)
	return g, err
}

// AddAxis stores a under the next free "Ax<N>" key and returns the key.
func (g *Graf) AddAxis(a *Axis) string {
	if g.Axes == nil {
		g.Axes = pack.NewKeyed[Axis]()
	}
	key := nextKey("Ax", g.Axes.Len(), func(k string) bool {
		_, ok := g.Axes.Get(k)
		return ok
	})
	g.Axes.Set(key, a)
	return key
}

// GetAxis returns the first axis covering cell (row, col).
func (g *Graf) GetAxis(row, col int) (*Axis, bool) {
	for _, a := range pack.Values(g.Axes) {
		if a.Covers(row, col) {
			return a, true
		}
	}
	return nil, false
}

// GetTrace returns trace "Tr<idx>" of the axis covering (row, col).
func (g *Graf) GetTrace(row, col, idx int) (*Trace, bool) {
	a, ok := g.GetAxis(row, col)
	if !ok {
		return nil, false
	}
	return a.Trace(idx)
}

// TraceByLabel returns the first trace named label on the axis covering
// (row, col).
func (g *Graf) TraceByLabel(row, col int, label string) (*Trace, bool) {
	a, ok := g.GetAxis(row, col)
	if !ok {
		return nil, false
	}
	return a.TraceByLabel(label)
}

// XData returns a copy of the X series of trace idx at (row, col).
func (g *Graf) XData(row, col, idx int) ([]float64, bool) {
	t, ok := g.GetTrace(row, col, idx)
	if !ok {
		return nil, false
	}
	return append([]float64{}, t.X...), true
}

// YData returns a copy of the Y series of trace idx at (row, col).
func (g *Graf) YData(row, col, idx int) ([]float64, bool) {
	t, ok := g.GetTrace(row, col, idx)
	if !ok {
		return nil, false
	}
	return append([]float64{}, t.Y...), true
}

// FillTicks gives every valid scale without major ticks at most max
// automatic ticks. Scales that already carry ticks are left alone.
func (g *Graf) FillTicks(max int) {
	for _, a := range pack.Values(g.Axes) {
		for _, s := range []*Scale{a.X, a.YLeft, a.YRight, a.Z} {
			if s != nil && s.Valid && len(s.Ticks) == 0 {
				s.AutoTicks(max)
			}
		}
	}
}

// SetColormap resamples the built-in colormap name into n colors and gives
// it to every surface of the figure.
func (g *Graf) SetColormap(name string, n int) error {
	cmap, err := NamedColormap(name, n)
	if err != nil {
		return err
	}
	for _, a := range pack.Values(g.Axes) {
		for _, s := range pack.Values(a.Surfaces) {
			s.Colormap = append([]RGBA{}, cmap...)
		}
	}
	return nil
}

// Validate checks every axis. Overlapping axes are not an error.
func (g *Graf) Validate() error {
	var errs []error
	keys := pack.Keys(g.Axes)
	for i, a := range pack.Values(g.Axes) {
		if err := a.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("axes.%s: %w", keys[i], err))
		}
	}
	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	return stderrors.Join(errs...)
}
