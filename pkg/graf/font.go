package graf

import (
	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/fonts"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// Font is a text style request.
type Font struct {
	UseNative bool // Use the renderer's default font and ignore the rest
	Size      float64
	Family    string
	Bold      bool
	Italic    bool
}

// NewFont returns the default 12pt sans-serif font.
func NewFont() *Font {
	return &Font{Size: 12, Family: "sanserif"}
}

var fontSchema = pack.NewSchema("Font",
	pack.Bool("use_native", func(f *Font) *bool { return &f.UseNative }),
	pack.Float("size", func(f *Font) *float64 { return &f.Size }),
	pack.String("font", func(f *Font) *string { return &f.Family }),
	pack.Bool("bold", func(f *Font) *bool { return &f.Bold }),
	pack.Bool("italic", func(f *Font) *bool { return &f.Italic }),
)

func (f *Font) Pack() document.Document          { return fontSchema.Pack(f) }
func (f *Font) Unpack(d document.Document) error { return fontSchema.Unpack(f, d) }

// ResolvedFont is a font request matched against a font table.
type ResolvedFont struct {
	Path string
	Face fonts.Face
	Size float64
}

// Resolve matches f against table. It returns false when f asks for the
// native font or the family has no usable face.
func (f *Font) Resolve(table *fonts.Table) (ResolvedFont, bool) {
	if f.UseNative {
		return ResolvedFont{}, false
	}
	p, face, ok := table.Resolve(f.Family, f.Bold, f.Italic)
	if !ok {
		return ResolvedFont{}, false
	}
	return ResolvedFont{Path: p, Face: face, Size: f.Size}, true
}
