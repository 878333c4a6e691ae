package graf

import (
	"github.com/aclements/go-moremath/vec"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Surface is one gridded series: an image or a mesh.
type Surface struct {
	Kind        SurfaceKind
	Colormap    []RGBA
	UniformGrid bool
	X, Y, Z     [][]float64
	LineStyle   LineStyle
	LineWidth   float64
	DisplayName string
	InLegend    bool
	LineColor   Color
	Alpha       float64
	Antialias   bool
}

func NewSurface() *Surface {
	return &Surface{
		Kind:      SurfaceMesh,
		Colormap:  []RGBA{},
		X:         [][]float64{},
		Y:         [][]float64{},
		Z:         [][]float64{},
		LineStyle: LineStyles[0],
		LineWidth: 1,
		InLegend:  true,
		LineColor: Red,
		Alpha:     1,
	}
}

var surfaceSchema = pack.NewSchema("Surface",
	pack.Enum("surf_type", func(s *Surface) *SurfaceKind { return &s.Kind }, NormalizeSurfaceKind),
	pack.Tuples("cmap", func(s *Surface) *[]RGBA { return &s.Colormap }),
	pack.Bool("uniform_grid", func(s *Surface) *bool { return &s.UniformGrid }),
	pack.Grid("x_grid", func(s *Surface) *[][]float64 { return &s.X }),
	pack.Grid("y_grid", func(s *Surface) *[][]float64 { return &s.Y }),
	pack.Grid("z_grid", func(s *Surface) *[][]float64 { return &s.Z }),
	pack.Enum("line_type", func(s *Surface) *LineStyle { return &s.LineStyle }, NormalizeLineStyle),
	pack.Float("line_width", func(s *Surface) *float64 { return &s.LineWidth }),
	pack.String("display_name", func(s *Surface) *string { return &s.DisplayName }),
	pack.Bool("include_in_legend", func(s *Surface) *bool { return &s.InLegend }),
	pack.Vec3("line_color", func(s *Surface) *Color { return &s.LineColor }),
	pack.Float("alpha", func(s *Surface) *float64 { return &s.Alpha }),
	pack.Bool("antialias", func(s *Surface) *bool { return &s.Antialias }),
)

func (s *Surface) Pack() document.Document          { return surfaceSchema.Pack(s) }
func (s *Surface) Unpack(d document.Document) error { return surfaceSchema.Unpack(s, d) }

// Shape returns the row and column count of the Z grid.
func (s *Surface) Shape() (rows, cols int) {
	if len(s.Z) == 0 {
		return 0, 0
	}
	return len(s.Z), len(s.Z[0])
}

// Validate checks that X, Y and Z are rectangular grids of one shape.
func (s *Surface) Validate() error {
	rows, cols := s.Shape()
	grids := []struct {
		name string
		g    [][]float64
	}{{"x_grid", s.X}, {"y_grid", s.Y}, {"z_grid", s.Z}}
	for _, gr := range grids {
		name, g := gr.name, gr.g
		if len(g) != rows {
			return errors.New(errors.ErrCodeInvalidDocument, "%s has %d rows, want %d", name, len(g), rows)
		}
		for i, row := range g {
			if len(row) != cols {
				return errors.New(errors.ErrCodeInvalidDocument, "%s row %d has %d columns, want %d", name, i, len(row), cols)
			}
		}
	}
	return nil
}

// NewSurfaceFromImage builds an image surface. Pixel centres are spread
// evenly over the image extent.
func NewSurfaceFromImage(s ImageSeries) *Surface {
	out := newImageSurface(s.Z, s.Colormap, s.Alpha, s.Label)
	rows, cols := out.Shape()
	x := linspace(s.Extent[0], s.Extent[1], cols)
	y := linspace(s.Extent[2], s.Extent[3], rows)
	out.X, out.Y = meshgrid(x, y)
	return out
}

// NewSurfaceFromMesh builds an image surface from a quad mesh given by its
// cell edges. Grid coordinates are the cell centres. Meshes draw no lines.
func NewSurfaceFromMesh(s MeshSeries) *Surface {
	out := newImageSurface(s.Z, s.Colormap, s.Alpha, s.Label)
	out.LineStyle = LineNone
	out.X, out.Y = meshgrid(centres(s.XEdges), centres(s.YEdges))
	return out
}

func newImageSurface(z [][]float64, cmap []RGBA, alpha *float64, label string) *Surface {
	out := NewSurface()
	out.Kind = SurfaceImage
	out.UniformGrid = true
	out.Z = make([][]float64, len(z))
	for i, row := range z {
		out.Z[i] = append([]float64{}, row...)
	}
	if len(cmap) > 0 {
		out.Colormap = SampleColormap(cmap, DefaultColormapSamples)
	}
	if alpha != nil {
		out.Alpha = *alpha
	}
	out.DisplayName = label
	return out
}

func linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{lo}
	}
	return vec.Linspace(lo, hi, n)
}

func centres(edges []float64) []float64 {
	if len(edges) < 2 {
		return []float64{}
	}
	out := make([]float64, len(edges)-1)
	for i := range out {
		out[i] = edges[i] + (edges[i+1]-edges[i])/2
	}
	return out
}

// meshgrid returns the coordinate grids of x along columns and y along rows.
func meshgrid(x, y []float64) (xg, yg [][]float64) {
	xg = make([][]float64, len(y))
	yg = make([][]float64, len(y))
	for i, yv := range y {
		xg[i] = append([]float64{}, x...)
		row := make([]float64, len(x))
		for j := range row {
			row[j] = yv
		}
		yg[i] = row
	}
	return xg, yg
}
