package graf

// =============================================================================
// Live-Figure Adapter Boundary
// =============================================================================

// ScaleID selects one coordinate of a native axis.
type ScaleID int

const (
	ScaleX ScaleID = iota
	ScaleY
	ScaleZ
)

// ScaleSource is the state of one native coordinate axis.
type ScaleSource struct {
	Min, Max   float64
	Ticks      []float64
	TickLabels []string
	Label      string
}

// Series is the data of one native plot element. The adapter decides the
// variant: [LineSeries], [ImageSeries] or [MeshSeries].
type Series interface {
	isSeries()
}

// LineSeries is a 2-D or 3-D line.
type LineSeries struct {
	ThreeD      bool
	X, Y, Z     []float64
	LineStyle   string // toolkit line style code
	Marker      string // toolkit marker code
	MarkerSize  float64
	LineWidth   float64
	Label       string
	Color       Color
	MarkerColor Color
	Alpha       *float64 // nil when the toolkit reports none
}

// ImageSeries is a raster drawn over a rectangular extent.
type ImageSeries struct {
	Extent   [4]float64 // x min, x max, y min, y max
	Z        [][]float64
	Colormap []RGBA
	Alpha    *float64
	Label    string
}

// MeshSeries is a quad mesh given by its cell edges.
type MeshSeries struct {
	XEdges, YEdges []float64
	Z              [][]float64
	Colormap       []RGBA
	Alpha          *float64
	Label          string
}

func (LineSeries) isSeries()  {}
func (ImageSeries) isSeries() {}
func (MeshSeries) isSeries()  {}

// AxisSource is one native axis handle. Implementations must be comparable
// (typically a pointer) so twin relationships can be matched by identity.
type AxisSource interface {
	// Grid returns the top-left cell and the span of the axis.
	Grid() (position, span Cell)
	Kind() AxisKind
	Title() string
	GridOn() bool
	// Scale returns the state of one coordinate, or false if the axis has
	// no such coordinate (Z on a 2-D axis).
	Scale(id ScaleID) (ScaleSource, bool)
	Series() []Series
}

// FigureSource is a native figure.
type FigureSource interface {
	Supertitle() string
	Axes() []AxisSource
	Twins() TwinResolver
}

// =============================================================================
// Building
// =============================================================================

// BuildOption adjusts [Build].
type BuildOption func(*Graf)

// WithInfo sets the description and conditions stored in info.
func WithInfo(description string, conditions map[string]string) BuildOption {
	return func(g *Graf) { g.Info = NewMetaInfo(description, conditions) }
}

// WithStyle replaces the default graph style.
func WithStyle(s *GraphStyle) BuildOption {
	return func(g *Graf) { g.Style = s }
}

// WithAutoTicks fills the tick lists the toolkit left empty, see
// [Graf.FillTicks].
func WithAutoTicks(max int) BuildOption {
	return func(g *Graf) { g.FillTicks(max) }
}

// Build converts a native figure into a Graf. Sole axes are keyed first,
// then twin pairs; pairs that do not resolve to exactly two axes are dropped
// and logged.
func Build(src FigureSource, opts ...BuildOption) *Graf {
	g := New()
	g.Supertitle = src.Supertitle()

	p := PairAxes(src.Axes(), src.Twins())
	for _, ax := range p.Sole {
		g.AddAxis(buildAxis(ax, nil))
	}
	for _, tp := range p.Pairs {
		g.AddAxis(buildAxis(tp.Primary, tp.Secondary))
	}

	for _, o := range opts {
		o(g)
	}
	return g
}

func buildAxis(primary, twin AxisSource) *Axis {
	a := NewAxis()
	a.Kind = NormalizeAxisKind(primary.Kind())
	a.Position, a.Span = primary.Grid()
	a.Title = primary.Title()
	a.GridOn = primary.GridOn()

	a.X = scaleFrom(primary, ScaleX)
	a.YLeft = scaleFrom(primary, ScaleY)
	a.Z = scaleFrom(primary, ScaleZ)
	if twin != nil {
		a.YRight = scaleFrom(twin, ScaleY)
	}

	addSeries(a, primary.Series(), false)
	if twin != nil {
		addSeries(a, twin.Series(), true)
	}
	return a
}

func scaleFrom(ax AxisSource, id ScaleID) *Scale {
	src, ok := ax.Scale(id)
	if !ok {
		return InvalidScale()
	}
	s := NewScale()
	s.Min, s.Max = src.Min, src.Max
	s.Ticks = append([]float64{}, src.Ticks...)
	s.TickLabels = append([]string{}, src.TickLabels...)
	s.Label = src.Label
	return s
}

// addSeries appends traces and surfaces in native series order.
func addSeries(a *Axis, series []Series, right bool) {
	for _, s := range series {
		switch v := s.(type) {
		case LineSeries:
			a.AddTrace(NewTraceFromSeries(v, right))
		case ImageSeries:
			a.AddSurface(NewSurfaceFromImage(v))
		case MeshSeries:
			a.AddSurface(NewSurfaceFromMesh(v))
		}
	}
}
