package graf

import (
	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// GraphStyle holds the fonts of a figure.
type GraphStyle struct {
	Supertitle *Font
	Title      *Font
	Graph      *Font // tick labels
	Label      *Font // axis labels
}

func NewGraphStyle() *GraphStyle {
	return &GraphStyle{
		Supertitle: NewFont(),
		Title:      NewFont(),
		Graph:      NewFont(),
		Label:      NewFont(),
	}
}

var styleSchema = pack.NewSchema("GraphStyle",
	pack.Entity("supertitle_font", func(s *GraphStyle) **Font { return &s.Supertitle }, fontSchema, NewFont),
	pack.Entity("title_font", func(s *GraphStyle) **Font { return &s.Title }, fontSchema, NewFont),
	pack.Entity("graph_font", func(s *GraphStyle) **Font { return &s.Graph }, fontSchema, NewFont),
	pack.Entity("label_font", func(s *GraphStyle) **Font { return &s.Label }, fontSchema, NewFont),
)

func (s *GraphStyle) Pack() document.Document          { return styleSchema.Pack(s) }
func (s *GraphStyle) Unpack(d document.Document) error { return styleSchema.Unpack(s, d) }

// SetAllFontFamilies sets the family of the title, graph and label fonts.
// The supertitle font is left alone.
func (s *GraphStyle) SetAllFontFamilies(family string) {
	for _, f := range s.bodyFonts() {
		f.Family = family
	}
}

// SetAllFontSizes sets the size of the title, graph and label fonts.
// The supertitle font is left alone.
func (s *GraphStyle) SetAllFontSizes(size float64) {
	for _, f := range s.bodyFonts() {
		f.Size = size
	}
}

func (s *GraphStyle) bodyFonts() []*Font {
	if s.Title == nil {
		s.Title = NewFont()
	}
	if s.Graph == nil {
		s.Graph = NewFont()
	}
	if s.Label == nil {
		s.Label = NewFont()
	}
	return []*Font{s.Title, s.Graph, s.Label}
}
