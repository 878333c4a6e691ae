package graf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/fonts"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

func TestFontPackKeys(t *testing.T) {
	d := NewFont().Pack()
	assert.ElementsMatch(t, []string{"use_native", "size", "font", "bold", "italic"}, d.Keys())
	assert.Equal(t, 12.0, d["size"])
	assert.Equal(t, "sanserif", d["font"])
}

func TestFontResolve(t *testing.T) {
	table := fonts.Default()

	f := NewFont()
	f.Bold = true
	rf, ok := f.Resolve(table)
	require.True(t, ok)
	assert.Equal(t, fonts.Bold, rf.Face)
	assert.Equal(t, 12.0, rf.Size)
	assert.Equal(t, "Roboto-Bold.ttf", filepath.Base(rf.Path))

	f = &Font{Family: "mono", Italic: true, Size: 9}
	rf, ok = f.Resolve(table)
	require.True(t, ok)
	assert.Equal(t, fonts.Regular, rf.Face, "mono has no italic face")

	_, ok = (&Font{Family: "Comic Sans"}).Resolve(table)
	assert.False(t, ok)

	_, ok = (&Font{UseNative: true, Family: "serif"}).Resolve(table)
	assert.False(t, ok)
}

func TestGraphStyleSetAll(t *testing.T) {
	s := NewGraphStyle()
	s.SetAllFontFamilies("serif")
	s.SetAllFontSizes(8)

	for _, f := range []*Font{s.Title, s.Graph, s.Label} {
		assert.Equal(t, "serif", f.Family)
		assert.Equal(t, 8.0, f.Size)
	}
	assert.Equal(t, "sanserif", s.Supertitle.Family)
	assert.Equal(t, 12.0, s.Supertitle.Size)
}

func TestGraphStyleSetAllCreatesMissingFonts(t *testing.T) {
	s := &GraphStyle{}
	s.SetAllFontSizes(10)
	require.NotNil(t, s.Label)
	assert.Equal(t, 10.0, s.Label.Size)
}

func TestNewMetaInfo(t *testing.T) {
	cond := map[string]string{"temp": "4K"}
	m := NewMetaInfo("cryostat sweep", cond)
	cond["temp"] = "300K"

	assert.Equal(t, FormatVersion, m.Version)
	assert.Equal(t, "Go", m.SourceLanguage)
	assert.Equal(t, "GrAF", m.SourceLibrary)
	assert.Equal(t, "4K", m.Conditions["temp"])
}

func TestCheckVersion(t *testing.T) {
	doc := func(v any) document.Document {
		return document.Document{"info": document.Document{"version": v}}
	}

	assert.NoError(t, CheckVersion(New().Pack()))
	assert.NoError(t, CheckVersion(doc("0.4.1")))
	assert.NoError(t, CheckVersion(doc("v0.0.0")))

	err := CheckVersion(doc("1.0.0"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedVersion))

	err = CheckVersion(doc("latest"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedVersion))

	err = CheckVersion(doc(3.0))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))

	err = CheckVersion(document.Document{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))

	err = CheckVersion(document.Document{"info": document.Document{}})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingField))
}

func TestScaleDefaults(t *testing.T) {
	s := NewScale()
	assert.True(t, s.Valid)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 1.0, s.Max)
	assert.False(t, InvalidScale().Valid)
}

func TestScaleValidate(t *testing.T) {
	s := NewScale()
	s.Ticks = []float64{0, 0.5, 1}
	s.TickLabels = []string{"0", "0.5", "1"}
	assert.NoError(t, s.Validate())

	s.TickLabels = s.TickLabels[:2]
	assert.True(t, errors.Is(s.Validate(), errors.ErrCodeInvalidDocument))

	s.TickLabels = nil
	assert.NoError(t, s.Validate())
}

func TestScaleAutoTicks(t *testing.T) {
	s := NewScale()
	s.Min, s.Max = 10, -2
	s.MinorTicks = []float64{1, 2}
	s.AutoTicks(6)

	require.NotEmpty(t, s.Ticks)
	assert.LessOrEqual(t, len(s.Ticks), 6)
	assert.Len(t, s.TickLabels, len(s.Ticks))
	assert.Empty(t, s.MinorTicks)
	for i, x := range s.Ticks {
		assert.GreaterOrEqual(t, x, -2.0)
		assert.LessOrEqual(t, x, 10.0)
		if i > 0 {
			assert.Greater(t, x, s.Ticks[i-1])
		}
	}
	assert.NoError(t, s.Validate())
}

func TestScalePacksMinorTicksEmpty(t *testing.T) {
	d := NewScale().Pack()
	assert.Equal(t, []float64{}, d["minor_tick_list"])
}

func TestTraceValidate(t *testing.T) {
	tr := NewTrace()
	tr.X = []float64{1, 2, 3}
	tr.Y = []float64{4, 5, 6}
	assert.NoError(t, tr.Validate())
	assert.Equal(t, 3, tr.Len())

	tr.Y = tr.Y[:2]
	assert.Error(t, tr.Validate())

	tr.Y = []float64{4, 5, 6}
	tr.Z = []float64{0, 0, 0}
	assert.Error(t, tr.Validate(), "2-D trace with z values")

	tr.Kind = TraceLine3D
	assert.NoError(t, tr.Validate())
	tr.Z = tr.Z[:1]
	assert.Error(t, tr.Validate())
}

func TestTraceUnpackNormalizesStyle(t *testing.T) {
	d := NewTrace().Pack()
	d["line_type"] = "dotted"
	d["marker_type"] = "none"
	d["trace_type"] = "TRACE_BAR"

	tr := NewTrace()
	require.NoError(t, tr.Unpack(d))
	assert.Equal(t, LineSolid, tr.LineStyle)
	assert.Equal(t, MarkerNone, tr.Marker)
	assert.Equal(t, TraceLine2D, tr.Kind)
}

func TestNewTraceFromSeries(t *testing.T) {
	alpha := 0.25
	tr := NewTraceFromSeries(LineSeries{
		X:           []float64{0, 1},
		Y:           []float64{2, 3},
		LineStyle:   "--",
		Marker:      "s",
		MarkerSize:  4,
		Label:       "gain",
		Color:       Color{0, 0, 1},
		MarkerColor: Color{0, 1, 0},
		Alpha:       &alpha,
	}, true)

	assert.Equal(t, TraceLine2D, tr.Kind)
	assert.True(t, tr.UseYAxisRight)
	assert.Equal(t, LineDashed, tr.LineStyle)
	assert.Equal(t, MarkerSquare, tr.Marker)
	assert.Equal(t, 4.0, tr.MarkerSize)
	assert.Equal(t, 1.0, tr.LineWidth, "zero width keeps the default")
	assert.Equal(t, "gain", tr.DisplayName)
	assert.Equal(t, 0.25, tr.Alpha)
	assert.Empty(t, tr.Z)
	assert.NoError(t, tr.Validate())

	tr = NewTraceFromSeries(LineSeries{ThreeD: true, X: []float64{0}, Y: []float64{0}, Z: []float64{1}}, true)
	assert.Equal(t, TraceLine3D, tr.Kind)
	assert.False(t, tr.UseYAxisRight, "3-D traces never use Y-right")
	assert.Equal(t, LineNone, tr.LineStyle)
	assert.Equal(t, MarkerNone, tr.Marker)
	assert.Equal(t, 1.0, tr.Alpha)
}

func TestSurfaceValidate(t *testing.T) {
	s := NewSurface()
	assert.NoError(t, s.Validate(), "empty grids")

	s.X = [][]float64{{0, 1}, {0, 1}}
	s.Y = [][]float64{{0, 0}, {1, 1}}
	s.Z = [][]float64{{1, 2}, {3, 4}}
	assert.NoError(t, s.Validate())

	s.Y = [][]float64{{0, 0}, {1}}
	assert.True(t, errors.Is(s.Validate(), errors.ErrCodeInvalidDocument))
}

func TestNewSurfaceFromImage(t *testing.T) {
	s := NewSurfaceFromImage(ImageSeries{
		Extent:   [4]float64{0, 2, 0, 1},
		Z:        [][]float64{{1, 2, 3}, {4, 5, 6}},
		Colormap: []RGBA{{0, 0, 0, 1}, {1, 1, 1, 1}},
		Label:    "map",
	})

	assert.Equal(t, SurfaceImage, s.Kind)
	assert.True(t, s.UniformGrid)
	assert.Equal(t, [][]float64{{0, 1, 2}, {0, 1, 2}}, s.X)
	assert.Equal(t, [][]float64{{0, 0, 0}, {1, 1, 1}}, s.Y)
	assert.Len(t, s.Colormap, DefaultColormapSamples)
	assert.Equal(t, "map", s.DisplayName)
	assert.NoError(t, s.Validate())
}

func TestNewSurfaceFromMesh(t *testing.T) {
	z := [][]float64{{1, 2}}
	s := NewSurfaceFromMesh(MeshSeries{
		XEdges: []float64{0, 1, 3},
		YEdges: []float64{0, 2},
		Z:      z,
	})
	z[0][0] = 99

	assert.Equal(t, LineNone, s.LineStyle)
	assert.Equal(t, [][]float64{{0.5, 2}}, s.X)
	assert.Equal(t, [][]float64{{1, 1}}, s.Y)
	assert.Equal(t, [][]float64{{1, 2}}, s.Z)
	assert.Empty(t, s.Colormap)
	assert.NoError(t, s.Validate())
}

func TestAxisKeys(t *testing.T) {
	a := NewAxis()
	assert.Equal(t, "Tr0", a.AddTrace(NewTrace()))
	assert.Equal(t, "Tr1", a.AddTrace(NewTrace()))
	assert.Equal(t, "Sf0", a.AddSurface(NewSurface()))

	a.Traces.Delete("Tr0")
	assert.Equal(t, "Tr2", a.AddTrace(NewTrace()), "keys are never reused while taken")
	assert.Equal(t, []string{"Tr1", "Tr2"}, pack.Keys(a.Traces))
}

func TestAxisTraceLookup(t *testing.T) {
	a := NewAxis()
	for _, name := range []string{"a", "b", "b"} {
		tr := NewTrace()
		tr.DisplayName = name
		a.AddTrace(tr)
	}

	tr, ok := a.Trace(1)
	require.True(t, ok)
	assert.Equal(t, "b", tr.DisplayName)

	_, ok = a.Trace(7)
	assert.False(t, ok)

	assert.Equal(t, 1, a.TraceIndex("b"))
	assert.Equal(t, -1, a.TraceIndex("c"))

	first, _ := a.Trace(1)
	got, ok := a.TraceByLabel("b")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestAxisTraceByLabelWithKeyGaps(t *testing.T) {
	d := NewAxis().Pack()
	traces := document.Document{}
	for key, name := range map[string]string{"Tr0": "a", "Tr5": "b", "Tr9": "c"} {
		tr := NewTrace()
		tr.DisplayName = name
		traces[key] = tr.Pack()
	}
	d["traces"] = traces

	a := NewAxis()
	require.NoError(t, a.Unpack(d))
	require.Equal(t, []string{"Tr0", "Tr5", "Tr9"}, pack.Keys(a.Traces))

	got, ok := a.TraceByLabel("b")
	require.True(t, ok)
	want, _ := a.Trace(5)
	assert.Same(t, want, got)
	assert.Equal(t, "b", got.DisplayName)

	assert.Equal(t, 1, a.TraceIndex("b"), "position, not the key number")
	_, ok = a.Trace(1)
	assert.False(t, ok)

	_, ok = a.TraceByLabel("z")
	assert.False(t, ok)
}

func TestAxisBounds(t *testing.T) {
	a := NewAxis()
	a.Position = Cell{1, 2}
	a.Span = Cell{2, 1}
	assert.Equal(t, [4]int{1, 2, 3, 3}, a.Bounds())
	assert.True(t, a.Covers(2, 2))
	assert.False(t, a.Covers(3, 2))
	assert.False(t, a.Covers(1, 3))

	rows, cols := a.Slot()
	assert.Equal(t, [2]int{1, 3}, rows)
	assert.Equal(t, [2]int{2, 3}, cols)
}

func TestAxisValidate(t *testing.T) {
	a := NewAxis()
	tr := NewTrace()
	tr.UseYAxisRight = true
	a.AddTrace(tr)
	err := a.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "traces.Tr0 uses y_axis_R")

	a.YRight.Valid = true
	assert.NoError(t, a.Validate())

	a.Span = Cell{0, 1}
	assert.Error(t, a.Validate())
}

func TestAxisValidateGridLimit(t *testing.T) {
	tests := []struct {
		name     string
		pos      Cell
		span     Cell
		wantFail bool
	}{
		{"fits", Cell{0, 0}, Cell{MaxGridSize, 1}, false},
		{"last cell", Cell{MaxGridSize - 1, MaxGridSize - 1}, Cell{1, 1}, false},
		{"span too tall", Cell{0, 0}, Cell{MaxGridSize + 1, 1}, true},
		{"runs off the grid", Cell{0, MaxGridSize - 1}, Cell{1, 2}, true},
		{"huge span", Cell{0, 0}, Cell{1 << 50, 1}, true},
		{"overflowing sum", Cell{1 << 62, 0}, Cell{1 << 62, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAxis()
			a.Position, a.Span = tt.pos, tt.span
			err := a.Validate()
			if !tt.wantFail {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))
			assert.Contains(t, err.Error(), "grid limit")
		})
	}
}

func TestAxisPackInvalidScalesForNil(t *testing.T) {
	a := NewAxis()
	a.YRight = nil
	d := a.Pack()
	yr, err := document.AsDocument(d["y_axis_R"])
	require.NoError(t, err)
	assert.Equal(t, false, yr["is_valid"])
}
