// Package inspect describes GrAF documents for humans.
//
// It offers three views of a document:
//
//   - [Summarize] flattens a document into path/type/detail rows, the basis
//     of the CLI's "inspect" table.
//   - [Query] selects values with a JSONPath expression, e.g.
//     "$.axes.*.traces.*.display_name".
//   - [SchemaDOT] and [FigureDOT] draw the entity manifest or a concrete
//     figure as a Graphviz graph; [RenderSVG] renders either.
//
// [Summary] condenses a decoded figure into an [Overview] for one-line
// reports.
package inspect
