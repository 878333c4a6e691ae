package inspect

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
)

const dotHeader = `digraph G {
  rankdir=LR;
  bgcolor="transparent";
  node [shape=box, style="rounded,filled", fillcolor=white, fontname="Helvetica"];
  edge [fontname="Helvetica", fontsize=10];

`

// SchemaDOT draws the entity manifest rooted at root. Each entity type is one
// node listing its scalar fields; nested entities, lists and maps are edges
// labelled with the field name.
func SchemaDOT(root pack.Describer) string {
	var buf bytes.Buffer
	buf.WriteString(dotHeader)

	seen := map[string]bool{}
	var visit func(d pack.Describer)
	visit = func(d pack.Describer) {
		if seen[d.Name()] {
			return
		}
		seen[d.Name()] = true

		lines := []string{d.Name()}
		var children []pack.Descriptor
		for _, f := range d.Fields() {
			if f.Kind == pack.KindScalar {
				lines = append(lines, f.Name+": "+f.Type)
				continue
			}
			children = append(children, f)
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", d.Name(), strings.Join(lines, "\n"))

		for _, f := range children {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", d.Name(), f.Child.Name(), edgeLabel(f))
		}
		for _, f := range children {
			visit(f.Child)
		}
	}
	visit(root)

	buf.WriteString("}\n")
	return buf.String()
}

func edgeLabel(f pack.Descriptor) string {
	switch f.Kind {
	case pack.KindList:
		return f.Name + "[]"
	case pack.KindMap:
		return f.Name + "{}"
	}
	return f.Name
}

// FigureDOT draws the entity tree of g: the root, then its axes in insertion
// order with their traces and surfaces.
func FigureDOT(g *graf.Graf) string {
	var buf bytes.Buffer
	buf.WriteString(dotHeader)

	root := g.Supertitle
	if root == "" {
		root = "Graf"
	}
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightgrey];\n", "graf", root)

	for pair := g.Axes.Oldest(); pair != nil; pair = pair.Next() {
		key, a := pair.Key, pair.Value
		label := []string{key, string(a.Kind), fmt.Sprintf("at %v span %v", a.Position, a.Span)}
		if a.Title != "" {
			label = append(label, a.Title)
		}
		attrs := fmt.Sprintf("label=%q", strings.Join(label, "\n"))
		if a.IsTwin() {
			attrs += ", peripheries=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", key, attrs)
		fmt.Fprintf(&buf, "  %q -> %q;\n", "graf", key)

		for tp := a.Traces.Oldest(); tp != nil; tp = tp.Next() {
			id := key + "/" + tp.Key
			t := tp.Value
			label := []string{tp.Key, fmt.Sprintf("%d points", t.Len())}
			if t.DisplayName != "" {
				label = append(label, t.DisplayName)
			}
			style := ""
			if t.UseYAxisRight {
				style = ", style=dashed"
			}
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", id, strings.Join(label, "\n"))
			fmt.Fprintf(&buf, "  %q -> %q [label=\"trace\"%s];\n", key, id, style)
		}
		for sp := a.Surfaces.Oldest(); sp != nil; sp = sp.Next() {
			id := key + "/" + sp.Key
			s := sp.Value
			label := []string{sp.Key, string(s.Kind), fmt.Sprintf("%dx%d", len(s.Z), rowWidth(s.Z))}
			fmt.Fprintf(&buf, "  %q [label=%q, shape=hexagon];\n", id, strings.Join(label, "\n"))
			fmt.Fprintf(&buf, "  %q -> %q [label=\"surface\"];\n", key, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rowWidth(grid [][]float64) int {
	if len(grid) == 0 {
		return 0
	}
	return len(grid[0])
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return buf.Bytes(), nil
}
