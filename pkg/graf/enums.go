package graf

import "strings"

// =============================================================================
// Closed Enumerations
// =============================================================================

// LineStyle is the dash pattern of a trace or surface outline.
type LineStyle string

const (
	LineSolid   LineStyle = "-"
	LineDashDot LineStyle = "-."
	LineDotted  LineStyle = ":"
	LineDashed  LineStyle = "--"
	LineNone    LineStyle = "None"
)

// LineStyles lists every line style; the first entry is the fallback.
var LineStyles = []LineStyle{LineSolid, LineDashDot, LineDotted, LineDashed, LineNone}

// Marker is the symbol drawn at each data point.
type Marker string

const (
	MarkerPoint   Marker = "."
	MarkerPlus    Marker = "+"
	MarkerTriUp   Marker = "^"
	MarkerTriDown Marker = "v"
	MarkerCircle  Marker = "o"
	MarkerCross   Marker = "x"
	MarkerSquare  Marker = "[]"
	MarkerVLine   Marker = "|"
	MarkerHLine   Marker = "_"
	MarkerStar    Marker = "*"
	MarkerNone    Marker = "None"
)

// Markers lists every marker; the first entry is the fallback.
var Markers = []Marker{
	MarkerPoint, MarkerPlus, MarkerTriUp, MarkerTriDown, MarkerCircle,
	MarkerCross, MarkerSquare, MarkerVLine, MarkerHLine, MarkerStar, MarkerNone,
}

// TraceKind distinguishes 2-D from 3-D line traces.
type TraceKind string

const (
	TraceLine2D TraceKind = "TRACE_LINE2D"
	TraceLine3D TraceKind = "TRACE_LINE3D"
)

var TraceKinds = []TraceKind{TraceLine2D, TraceLine3D}

// SurfaceKind distinguishes image-like from mesh-like surfaces.
type SurfaceKind string

const (
	SurfaceImage SurfaceKind = "SURF_IMAGE"
	SurfaceMesh  SurfaceKind = "SURF_SURFACE"
)

var SurfaceKinds = []SurfaceKind{SurfaceImage, SurfaceMesh}

// AxisKind is the content kind of an axis.
type AxisKind string

const (
	AxisLine2D  AxisKind = "AXIS_LINE2D"
	AxisLine3D  AxisKind = "AXIS_LINE3D"
	AxisImage   AxisKind = "AXIS_IMAGE"
	AxisSurface AxisKind = "AXIS_SURFACE"
)

var AxisKinds = []AxisKind{AxisLine2D, AxisLine3D, AxisImage, AxisSurface}

// IsLine reports whether the axis holds traces rather than surfaces.
func (k AxisKind) IsLine() bool { return k == AxisLine2D || k == AxisLine3D }

// =============================================================================
// Normalization
// =============================================================================

// isNone reports the spellings adapters use for "no value".
func isNone(s string) bool {
	return s == "" || strings.EqualFold(s, "none")
}

func normalize[E ~string](v E, set []E, none E, hasNone bool) E {
	for _, e := range set {
		if v == e {
			return v
		}
	}
	if hasNone && isNone(string(v)) {
		return none
	}
	return set[0]
}

// NormalizeLineStyle maps v into [LineStyles]. Empty and "none" map to
// [LineNone]; anything else unrecognized maps to [LineSolid].
func NormalizeLineStyle(v LineStyle) LineStyle {
	return normalize(v, LineStyles, LineNone, true)
}

// NormalizeMarker maps v into [Markers]. Empty and "none" map to
// [MarkerNone]; anything else unrecognized maps to [MarkerPoint].
func NormalizeMarker(v Marker) Marker {
	return normalize(v, Markers, MarkerNone, true)
}

// NormalizeTraceKind maps v into [TraceKinds], defaulting to [TraceLine2D].
func NormalizeTraceKind(v TraceKind) TraceKind {
	return normalize(v, TraceKinds, "", false)
}

// NormalizeSurfaceKind maps v into [SurfaceKinds], defaulting to [SurfaceImage].
func NormalizeSurfaceKind(v SurfaceKind) SurfaceKind {
	return normalize(v, SurfaceKinds, "", false)
}

// NormalizeAxisKind maps v into [AxisKinds], defaulting to [AxisLine2D].
func NormalizeAxisKind(v AxisKind) AxisKind {
	return normalize(v, AxisKinds, "", false)
}

// toolkitMarkers maps plotting-toolkit marker codes that differ from GrAF's
// symbols.
var toolkitMarkers = map[string]Marker{
	"s": MarkerSquare,
}

// MarkerFromCode converts a plotting-toolkit marker code (as reported by the
// adapter) into a GrAF marker. Codes are case-insensitive.
func MarkerFromCode(code string) Marker {
	c := strings.ToLower(code)
	if m, ok := toolkitMarkers[c]; ok {
		return m
	}
	return NormalizeMarker(Marker(c))
}
