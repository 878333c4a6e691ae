package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
	"github.com/Grant-Giesbrecht/graf/pkg/inspect"
	"github.com/Grant-Giesbrecht/graf/pkg/io"
)

// loadFile reads a document file and decodes it as a figure.
func loadFile(path string) (*graf.Graf, document.Document, error) {
	d, err := io.ImportFile(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := io.DecodeGraf(d)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, d, nil
}

// checkFigure reports a figure that breaks its invariants as INVALID_DOCUMENT.
func checkFigure(path string, g *graf.Graf) error {
	if err := g.Validate(); err != nil {
		return errors.New(errors.ErrCodeInvalidDocument, "%s: invalid figure: %v", path, err)
	}
	return nil
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var brief bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a GrAF document",
		Long: `Inspect prints an overview of a figure followed by every path in the
document with its type and size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, d, err := loadFile(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, g, d, brief)
			return nil
		},
	}

	cmd.Flags().BoolVar(&brief, "brief", false, "print the overview only")
	return cmd
}

func printSummary(cmd *cobra.Command, g *graf.Graf, d document.Document, brief bool) {
	w := cmd.OutOrStdout()
	o := inspect.Summary(g)

	title := g.Supertitle
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printKeyValue(w, "Version", g.Info.Version)
	printKeyValue(w, "Grid", fmt.Sprintf("%d x %d", o.Rows, o.Cols))
	printKeyValue(w, "Axes", fmt.Sprintf("%d (%d twin)", o.Axes, o.Twins))
	printKeyValue(w, "Traces", fmt.Sprint(o.Traces))
	printKeyValue(w, "Surfaces", fmt.Sprint(o.Surfaces))
	if brief {
		return
	}

	rows := inspect.Summarize(d)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Path, r.Type, r.Detail}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable([]string{"Path", "Type", "Detail"}, cells))
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout [file]",
		Short: "Draw the axis grid of a figure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadFile(args[0])
			if err != nil {
				return err
			}
			if err := checkFigure(args[0], g); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			l := g.Layout()
			if l.Rows == 0 {
				printInfo(w, "No axes")
				return nil
			}
			fmt.Fprint(w, l.String())
			for _, p := range l.Placements {
				printDetail(w, "%s: rows %d-%d, cols %d-%d", p.Key, p.Row0, p.Row1-1, p.Col0, p.Col1-1)
			}
			return nil
		},
	}
}

// queryCommand creates the query command.
func (c *CLI) queryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query [file] [jsonpath]",
		Short: "Select values from a document with JSONPath",
		Example: `  graf query sweep.graf '$.axes.*.traces.*.display_name'
  graf query sweep.graf '$.axes.Ax0.x_axis.val_min'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := io.ImportFile(args[0])
			if err != nil {
				return err
			}
			res, err := inspect.Query(d, args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, v := range res {
				b, err := json.Marshal(v)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(b))
			}
			if len(res) == 0 {
				loggerFromContext(cmd.Context()).Warn("no matches", "expr", args[1])
			}
			return nil
		},
	}
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		schema bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Draw the entity tree of a figure as Graphviz DOT or SVG",
		Long: `Tree prints the entity tree of a figure in Graphviz DOT. With --schema
it draws the entity manifest instead and needs no file. With --output the
graph is rendered to SVG.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dot string
			switch {
			case schema:
				dot = inspect.SchemaDOT(graf.Schema())
			case len(args) == 1:
				g, _, err := loadFile(args[0])
				if err != nil {
					return err
				}
				dot = inspect.FigureDOT(g)
			default:
				return fmt.Errorf("tree needs a file or --schema")
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), dot)
				return nil
			}
			svg, err := inspect.RenderSVG(cmd.Context(), dot)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, svg, 0644); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Rendered tree")
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&schema, "schema", false, "draw the entity manifest instead of a figure")
	cmd.Flags().StringVarP(&output, "output", "o", "", "render SVG to this file")
	return cmd
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		ticks int
		cmap  string
	)

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a document between JSON and YAML",
		Long: `Convert loads a figure and writes it in the format given by the output
extension (.graf and .json for JSON, .yaml and .yml for YAML). The figure is
repacked, so unknown keys are dropped and enums are normalized.

With --auto-ticks, valid scales without ticks get at most that many round
ticks. With --cmap, every surface gets the named built-in colormap.`,
		Example: `  graf convert sweep.graf sweep.yaml
  graf convert --auto-ticks 6 --cmap viridis raw.graf tidy.graf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			if _, err := io.FormatFromPath(out); err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			g, err := io.LoadGraf(in)
			if err != nil {
				return err
			}
			if err := checkFigure(in, g); err != nil {
				return err
			}
			if ticks > 0 {
				g.FillTicks(ticks)
			}
			if cmap != "" {
				if err := g.SetColormap(cmap, graf.DefaultColormapSamples); err != nil {
					return err
				}
			}
			if err := io.SaveGraf(out, g); err != nil {
				return err
			}
			prog.done("converted", "from", in, "to", out)
			printSuccess(cmd.OutOrStdout(), "Converted %s", in)
			printFile(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "auto-ticks", 0, "fill empty tick lists with at most this many ticks")
	cmd.Flags().StringVar(&cmap, "cmap", "", "colormap for every surface: gray, viridis, plasma or coolwarm")
	return cmd
}

// trimExt returns the base name of path without its extension.
func trimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
