package pack

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

type shade string

const (
	shadeLight shade = "light"
	shadeDark  shade = "dark"
)

func normalizeShade(s shade) shade {
	if s == shadeDark {
		return s
	}
	return shadeLight
}

type rgb [3]float64
type rgba [4]float64

type point struct {
	X, Y  float64
	Label string
}

type shape struct {
	Name   string
	Closed bool
	Sides  int
	Shade  shade
	Color  rgb
	Cell   [2]int
	Ramp   []rgba
	Weight []float64
	Tags   []string
	Grid   [][]float64
	Notes  map[string]string
	Origin *point
	Points []*point
	Named  *Keyed[point]
}

func newPoint() *point { return &point{Label: "p"} }

func newShape() *shape {
	return &shape{Origin: newPoint(), Named: NewKeyed[point]()}
}

var pointSchema = NewSchema("point",
	Float("x", func(p *point) *float64 { return &p.X }),
	Float("y", func(p *point) *float64 { return &p.Y }),
	String("label", func(p *point) *string { return &p.Label }),
)

var shapeSchema = NewSchema("shape",
	String("name", func(s *shape) *string { return &s.Name }),
	Bool("closed", func(s *shape) *bool { return &s.Closed }),
	Int("sides", func(s *shape) *int { return &s.Sides }),
	Enum("shade", func(s *shape) *shade { return &s.Shade }, normalizeShade),
	Vec3("color", func(s *shape) *rgb { return &s.Color }),
	Pair("cell", func(s *shape) *[2]int { return &s.Cell }),
	Tuples("ramp", func(s *shape) *[]rgba { return &s.Ramp }),
	Floats("weight", func(s *shape) *[]float64 { return &s.Weight }),
	Strings("tags", func(s *shape) *[]string { return &s.Tags }),
	Grid("grid", func(s *shape) *[][]float64 { return &s.Grid }),
	StringMap("notes", func(s *shape) *map[string]string { return &s.Notes }),
	Entity("origin", func(s *shape) **point { return &s.Origin }, pointSchema, newPoint),
	List("points", func(s *shape) *[]*point { return &s.Points }, pointSchema, newPoint),
	Map("named", func(s *shape) **Keyed[point] { return &s.Named }, pointSchema, newPoint),
)

func sampleShape() *shape {
	s := newShape()
	s.Name = "tri"
	s.Closed = true
	s.Sides = 3
	s.Shade = shadeDark
	s.Color = rgb{0.1, 0.2, 0.3}
	s.Cell = [2]int{1, 2}
	s.Ramp = []rgba{{0, 0, 0, 1}, {1, 1, 1, 0.5}}
	s.Weight = []float64{math.Pi, 1.0 / 3.0, 1e-300, math.MaxFloat64}
	s.Tags = []string{"a", "b"}
	s.Grid = [][]float64{{1, 2}, {3, 4}}
	s.Notes = map[string]string{"unit": "V"}
	s.Origin = &point{X: 0.1, Y: 0.7, Label: "o"}
	s.Points = []*point{{X: 1, Label: "a"}, {X: 2, Label: "b"}}
	s.Named.Set("P2", &point{X: 2, Label: "two"})
	s.Named.Set("P10", &point{X: 10, Label: "ten"})
	return s
}

// silence routes pack diagnostics into a buffer for the duration of a test.
func silence(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestSchemaFields(t *testing.T) {
	fields := shapeSchema.Fields()
	require.Len(t, fields, 14)

	assert.Equal(t, "name", fields[0].Name)
	assert.Equal(t, KindScalar, fields[0].Kind)
	assert.Equal(t, Descriptor{Name: "origin", Kind: KindEntity, Type: "point", Child: pointSchema}, fields[11])
	assert.Equal(t, KindList, fields[12].Kind)
	assert.Equal(t, KindMap, fields[13].Kind)
	assert.Equal(t, "point", fields[13].Child.Name())
}

func TestSchemaFieldsIsACopy(t *testing.T) {
	fields := pointSchema.Fields()
	fields[0].Name = "mutated"
	assert.Equal(t, "x", pointSchema.Fields()[0].Name)
}

func TestNewSchemaPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("dup",
			Float("x", func(p *point) *float64 { return &p.X }),
			Float("x", func(p *point) *float64 { return &p.Y }),
		)
	})
}

func TestPackShape(t *testing.T) {
	d := shapeSchema.Pack(sampleShape())

	assert.Equal(t, "tri", d["name"])
	assert.Equal(t, 3.0, d["sides"])
	assert.Equal(t, "dark", d["shade"])
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, d["color"])
	assert.Equal(t, []float64{1, 2}, d["cell"])
	assert.Equal(t, [][]float64{{0, 0, 0, 1}, {1, 1, 1, 0.5}}, d["ramp"])
	assert.Equal(t, document.Document{"unit": "V"}, d["notes"])
	assert.Equal(t, document.Document{"x": 0.1, "y": 0.7, "label": "o"}, d["origin"])

	points := d["points"].([]document.Document)
	require.Len(t, points, 2)
	assert.Equal(t, "b", points[1]["label"])

	named := d["named"].(document.Document)
	assert.Equal(t, []string{"P2", "P10"}, named.Keys())
}

func TestPackDoesNotAliasSource(t *testing.T) {
	s := sampleShape()
	d := shapeSchema.Pack(s)

	d["weight"].([]float64)[0] = 0
	d["grid"].([][]float64)[0][0] = 0

	assert.Equal(t, math.Pi, s.Weight[0])
	assert.Equal(t, 1.0, s.Grid[0][0])
}

func TestPackNilCollections(t *testing.T) {
	s := &shape{}
	d := shapeSchema.Pack(s)

	assert.Equal(t, []float64{}, d["weight"])
	assert.Equal(t, []string{}, d["tags"])
	assert.Equal(t, document.Document{}, d["named"])
	assert.Equal(t, []document.Document{}, d["points"])
	// A nil child packs as its default.
	assert.Equal(t, "p", d["origin"].(document.Document)["label"])
}

func TestRoundTrip(t *testing.T) {
	src := sampleShape()
	d := shapeSchema.Pack(src)

	dst := newShape()
	require.NoError(t, shapeSchema.Unpack(dst, d))
	assert.Equal(t, d, shapeSchema.Pack(dst))
	assert.Equal(t, src.Weight, dst.Weight)
	assert.Equal(t, []string{"P2", "P10"}, Keys(dst.Named), "unpacked keys use natural order")
}

func TestRoundTripThroughJSON(t *testing.T) {
	src := sampleShape()
	data, err := json.Marshal(shapeSchema.Pack(src))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	dst := newShape()
	require.NoError(t, shapeSchema.Unpack(dst, decoded))
	for i := range src.Weight {
		assert.Equal(t, math.Float64bits(src.Weight[i]), math.Float64bits(dst.Weight[i]))
	}
	assert.Equal(t, src.Color, dst.Color)
	assert.Equal(t, src.Cell, dst.Cell)
	assert.Equal(t, src.Ramp, dst.Ramp)
	assert.Equal(t, src.Notes, dst.Notes)
}

func TestUnpackMissingFieldKeepsPriorValue(t *testing.T) {
	buf := silence(t)

	d := shapeSchema.Pack(sampleShape())
	delete(d, "name")
	d["sides"] = 7.0

	dst := newShape()
	dst.Name = "prior"
	err := shapeSchema.Unpack(dst, d)
	require.Error(t, err)

	assert.Equal(t, "prior", dst.Name)
	assert.Equal(t, 7, dst.Sides, "later fields still unpack")
	assert.True(t, errors.Is(err, errors.ErrCodeMissingField))

	fes := FieldErrors(err)
	require.Len(t, fes, 1)
	assert.Equal(t, "shape", fes[0].Entity)
	assert.Equal(t, "name", fes[0].Field)

	assert.Contains(t, buf.String(), "entity=shape")
	assert.Contains(t, buf.String(), "field=name")
}

func TestUnpackWrongShape(t *testing.T) {
	silence(t)

	tests := []struct {
		name  string
		field string
		value any
	}{
		{"scalar for list", "weight", 1.0},
		{"list for scalar", "name", []any{"a"}},
		{"short tuple", "color", []any{1.0, 0.0}},
		{"fractional pair", "cell", []any{1.5, 0.0}},
		{"ramp wrong width", "ramp", []any{[]any{1.0, 1.0, 1.0}}},
		{"string for bool", "closed", "true"},
		{"entity not mapping", "origin", "o"},
		{"map values not mappings", "named", map[string]any{"P0": 1.0}},
		{"non-string note", "notes", map[string]any{"unit": 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := shapeSchema.Pack(sampleShape())
			d[tt.field] = tt.value

			dst := sampleShape()
			before := shapeSchema.Pack(dst)
			err := shapeSchema.Unpack(dst, d)
			require.Error(t, err)

			fes := FieldErrors(err)
			require.NotEmpty(t, fes)
			assert.Equal(t, tt.field, fes[0].Field)
			assert.Equal(t, before[tt.field], shapeSchema.Pack(dst)[tt.field], "field keeps prior value")
		})
	}
}

func TestUnpackEnumNormalizes(t *testing.T) {
	d := shapeSchema.Pack(sampleShape())
	d["shade"] = "purple"

	dst := newShape()
	require.NoError(t, shapeSchema.Unpack(dst, d))
	assert.Equal(t, shadeLight, dst.Shade)
}

func TestUnpackNestedEntityErrorCarriesContext(t *testing.T) {
	buf := silence(t)

	d := shapeSchema.Pack(sampleShape())
	delete(d["origin"].(document.Document), "y")

	dst := newShape()
	err := shapeSchema.Unpack(dst, d)
	require.Error(t, err)

	fes := FieldErrors(err)
	require.Len(t, fes, 2)
	assert.Equal(t, "origin", fes[0].Field)
	assert.Equal(t, "point", fes[1].Entity)
	assert.Equal(t, "y", fes[1].Field)
	assert.True(t, strings.Contains(buf.String(), "nested unpack failed"))
}

func TestUnpackCreatesNilChild(t *testing.T) {
	d := shapeSchema.Pack(sampleShape())
	dst := &shape{}
	require.NoError(t, shapeSchema.Unpack(dst, d))
	require.NotNil(t, dst.Origin)
	assert.Equal(t, "o", dst.Origin.Label)
}

func TestUnpackCollectionIsAtomic(t *testing.T) {
	silence(t)

	d := shapeSchema.Pack(sampleShape())
	bad := d["points"].([]document.Document)
	delete(bad[1], "x")

	named := d["named"].(document.Document)
	delete(named["P10"].(document.Document), "label")

	dst := newShape()
	prior := &point{Label: "kept"}
	dst.Points = []*point{prior}
	dst.Named.Set("K", prior)

	err := shapeSchema.Unpack(dst, d)
	require.Error(t, err)

	require.Len(t, dst.Points, 1)
	assert.Same(t, prior, dst.Points[0])
	assert.Equal(t, []string{"K"}, Keys(dst.Named))
}

func TestUnpackMapElementsAreIndependent(t *testing.T) {
	d := shapeSchema.Pack(sampleShape())

	dst := newShape()
	require.NoError(t, shapeSchema.Unpack(dst, d))

	a, _ := dst.Named.Get("P2")
	b, _ := dst.Named.Get("P10")
	require.NotSame(t, a, b)

	a.Label = "changed"
	assert.Equal(t, "ten", b.Label)
}

func TestUnpackReplacesCollections(t *testing.T) {
	d := shapeSchema.Pack(sampleShape())

	dst := newShape()
	dst.Named.Set("stale", newPoint())
	require.NoError(t, shapeSchema.Unpack(dst, d))
	assert.Equal(t, []string{"P2", "P10"}, Keys(dst.Named))
}
