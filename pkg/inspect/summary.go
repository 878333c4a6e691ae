package inspect

import (
	"fmt"
	"strconv"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

// maxDetail bounds the preview of string leaves.
const maxDetail = 40

// Row is one entry of a document summary.
type Row struct {
	Path   string `json:"path"`   // dotted path, list elements as [i]
	Type   string `json:"type"`   // mapping, list, floats, strings, grid, number, string, bool, null
	Detail string `json:"detail"` // size for containers, value preview for leaves
}

// Summarize flattens d into rows in natural key order. Numeric lists and
// grids are reported as one row each; lists of mappings are descended.
func Summarize(d document.Document) []Row {
	var rows []Row
	g := d.Generic()
	for _, k := range document.SortedKeys(document.Document(g)) {
		rows = walk(rows, k, g[k])
	}
	return rows
}

func walk(rows []Row, path string, v any) []Row {
	switch t := v.(type) {
	case map[string]any:
		rows = append(rows, Row{path, "mapping", plural(len(t), "key", "keys")})
		for _, k := range document.SortedKeys(document.Document(t)) {
			rows = walk(rows, path+"."+k, t[k])
		}
		return rows
	case []any:
		return walkList(rows, path, t)
	case float64:
		return append(rows, Row{path, "number", strconv.FormatFloat(t, 'g', -1, 64)})
	case string:
		return append(rows, Row{path, "string", preview(t)})
	case bool:
		return append(rows, Row{path, "bool", strconv.FormatBool(t)})
	case nil:
		return append(rows, Row{path, "null", ""})
	}
	return append(rows, Row{path, fmt.Sprintf("%T", v), fmt.Sprint(v)})
}

func walkList(rows []Row, path string, l []any) []Row {
	if len(l) == 0 {
		return append(rows, Row{path, "list", "empty"})
	}
	switch {
	case all(l, isNumber):
		return append(rows, Row{path, "floats", fmt.Sprintf("[%d]", len(l))})
	case all(l, isString):
		return append(rows, Row{path, "strings", fmt.Sprintf("[%d]", len(l))})
	case all(l, isNumberList):
		return append(rows, Row{path, "grid", fmt.Sprintf("[%dx%d]", len(l), len(l[0].([]any)))})
	}
	rows = append(rows, Row{path, "list", plural(len(l), "element", "elements")})
	for i, e := range l {
		rows = walk(rows, fmt.Sprintf("%s[%d]", path, i), e)
	}
	return rows
}

func all(l []any, pred func(any) bool) bool {
	for _, e := range l {
		if !pred(e) {
			return false
		}
	}
	return true
}

func isNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNumberList(v any) bool {
	l, ok := v.([]any)
	return ok && all(l, isNumber)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func preview(s string) string {
	q := strconv.Quote(s)
	if len(q) <= maxDetail {
		return q
	}
	return q[:maxDetail-4] + "...\""
}

// Overview counts the contents of a figure.
type Overview struct {
	Supertitle string `json:"supertitle"`
	Axes       int    `json:"axes"`
	Twins      int    `json:"twins"`
	Traces     int    `json:"traces"`
	Surfaces   int    `json:"surfaces"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
}

// Summary returns the overview of g.
func Summary(g *graf.Graf) Overview {
	l := g.Layout()
	o := Overview{Supertitle: g.Supertitle, Axes: g.Axes.Len(), Rows: l.Rows, Cols: l.Cols}
	for _, a := range pack.Values(g.Axes) {
		if a.IsTwin() {
			o.Twins++
		}
		o.Traces += a.Traces.Len()
		o.Surfaces += a.Surfaces.Len()
	}
	return o
}

func (o Overview) String() string {
	return fmt.Sprintf("%s, %s (%d twin), %s, %s on a %dx%d grid",
		quoteOr(o.Supertitle, "untitled"),
		plural(o.Axes, "axis", "axes"), o.Twins,
		plural(o.Traces, "trace", "traces"), plural(o.Surfaces, "surface", "surfaces"),
		o.Rows, o.Cols)
}

func quoteOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return strconv.Quote(s)
}
