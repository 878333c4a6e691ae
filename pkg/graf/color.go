package graf

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

// DefaultColormapSamples is the number of samples stored for a surface
// colormap.
const DefaultColormapSamples = 30

// Color is an RGB triple with components in [0, 1].
type Color [3]float64

// RGBA is a color with alpha, components in [0, 1].
type RGBA [4]float64

// Red is the default trace and marker color.
var Red = Color{1, 0, 0}

// ParseHexColor parses "#rrggbb" (the leading '#' is optional) into a Color.
func ParseHexColor(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse color %q", s)
	}
	return Color{c.R, c.G, c.B}, nil
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped().Hex()
}

// WithAlpha extends c with an alpha channel.
func (c Color) WithAlpha(a float64) RGBA {
	return RGBA{c[0], c[1], c[2], a}
}

// RGB drops the alpha channel.
func (c RGBA) RGB() Color { return Color{c[0], c[1], c[2]} }

// SampleColormap discretizes the colormap defined by evenly spaced stops into
// n colors, interpolating linearly in RGB and alpha. A single stop yields n
// copies; no stops or n < 1 yield nil.
func SampleColormap(stops []RGBA, n int) []RGBA {
	if len(stops) == 0 || n < 1 {
		return nil
	}
	out := make([]RGBA, n)
	if len(stops) == 1 || n == 1 {
		for i := range out {
			out[i] = stops[0]
		}
		return out
	}
	segments := float64(len(stops) - 1)
	for i := range out {
		t := float64(i) / float64(n-1) * segments
		k := int(math.Floor(t))
		if k >= len(stops)-1 {
			k = len(stops) - 2
		}
		frac := t - float64(k)
		a, b := stops[k], stops[k+1]
		ca := colorful.Color{R: a[0], G: a[1], B: a[2]}
		cb := colorful.Color{R: b[0], G: b[1], B: b[2]}
		c := ca.BlendRgb(cb, frac)
		out[i] = RGBA{c.R, c.G, c.B, a[3] + (b[3]-a[3])*frac}
	}
	return out
}

// namedColormaps holds the stops of the colormaps known by name.
var namedColormaps = map[string][]string{
	"gray":     {"#000000", "#ffffff"},
	"viridis":  {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	"plasma":   {"#0d0887", "#7e03a8", "#cc4778", "#f89540", "#f0f921"},
	"coolwarm": {"#3b4cc0", "#dddddd", "#b40426"},
}

// NamedColormap samples a built-in colormap into n colors.
func NamedColormap(name string, n int) ([]RGBA, error) {
	hexes, ok := namedColormaps[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown colormap %q", name)
	}
	stops := make([]RGBA, len(hexes))
	for i, h := range hexes {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, err
		}
		stops[i] = c.WithAlpha(1)
	}
	return SampleColormap(stops, n), nil
}
