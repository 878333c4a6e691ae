package graf

import (
	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Trace is one line series.
type Trace struct {
	Kind          TraceKind
	UseYAxisRight bool // 2-D only
	X, Y, Z       []float64
	LineStyle     LineStyle
	Marker        Marker
	MarkerSize    float64
	LineWidth     float64
	DisplayName   string
	InLegend      bool
	LineColor     Color
	Alpha         float64
	MarkerColor   Color
}

// NewTrace returns an empty solid red 2-D trace.
func NewTrace() *Trace {
	return &Trace{
		Kind:        TraceLine2D,
		X:           []float64{},
		Y:           []float64{},
		Z:           []float64{},
		LineStyle:   LineStyles[0],
		Marker:      Markers[0],
		MarkerSize:  1,
		LineWidth:   1,
		InLegend:    true,
		LineColor:   Red,
		Alpha:       1,
		MarkerColor: Red,
	}
}

var traceSchema = pack.NewSchema("Trace",
	pack.Enum("trace_type", func(t *Trace) *TraceKind { return &t.Kind }, NormalizeTraceKind),
	pack.Bool("use_yaxis_R", func(t *Trace) *bool { return &t.UseYAxisRight }),
	pack.Floats("x_data", func(t *Trace) *[]float64 { return &t.X }),
	pack.Floats("y_data", func(t *Trace) *[]float64 { return &t.Y }),
	pack.Floats("z_data", func(t *Trace) *[]float64 { return &t.Z }),
	pack.Enum("line_type", func(t *Trace) *LineStyle { return &t.LineStyle }, NormalizeLineStyle),
	pack.Enum("marker_type", func(t *Trace) *Marker { return &t.Marker }, NormalizeMarker),
	pack.Float("marker_size", func(t *Trace) *float64 { return &t.MarkerSize }),
	pack.Float("line_width", func(t *Trace) *float64 { return &t.LineWidth }),
	pack.String("display_name", func(t *Trace) *string { return &t.DisplayName }),
	pack.Bool("include_in_legend", func(t *Trace) *bool { return &t.InLegend }),
	pack.Vec3("line_color", func(t *Trace) *Color { return &t.LineColor }),
	pack.Float("alpha", func(t *Trace) *float64 { return &t.Alpha }),
	pack.Vec3("marker_color", func(t *Trace) *Color { return &t.MarkerColor }),
)

func (t *Trace) Pack() document.Document          { return traceSchema.Pack(t) }
func (t *Trace) Unpack(d document.Document) error { return traceSchema.Unpack(t, d) }

// Len returns the number of points.
func (t *Trace) Len() int { return len(t.X) }

// Validate checks that the series are parallel.
func (t *Trace) Validate() error {
	if len(t.X) != len(t.Y) {
		return errors.New(errors.ErrCodeInvalidDocument, "x_data has %d points, y_data %d", len(t.X), len(t.Y))
	}
	if t.Kind == TraceLine3D && len(t.Z) != len(t.X) {
		return errors.New(errors.ErrCodeInvalidDocument, "x_data has %d points, z_data %d", len(t.X), len(t.Z))
	}
	if t.Kind == TraceLine2D && len(t.Z) != 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "2-D trace carries %d z values", len(t.Z))
	}
	return nil
}

// NewTraceFromSeries builds a trace from adapter data, normalizing the
// toolkit's style codes. right places a 2-D trace on the Y-right scale.
func NewTraceFromSeries(s LineSeries, right bool) *Trace {
	t := NewTrace()
	if s.ThreeD {
		t.Kind = TraceLine3D
		t.Z = append([]float64{}, s.Z...)
	} else {
		t.UseYAxisRight = right
	}
	t.X = append([]float64{}, s.X...)
	t.Y = append([]float64{}, s.Y...)
	t.LineStyle = NormalizeLineStyle(LineStyle(s.LineStyle))
	t.Marker = MarkerFromCode(s.Marker)
	if s.MarkerSize > 0 {
		t.MarkerSize = s.MarkerSize
	}
	if s.LineWidth > 0 {
		t.LineWidth = s.LineWidth
	}
	t.DisplayName = s.Label
	t.LineColor = s.Color
	t.MarkerColor = s.MarkerColor
	if s.Alpha != nil {
		t.Alpha = *s.Alpha
	}
	return t
}
