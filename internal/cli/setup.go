package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/Grant-Giesbrecht/graf/internal/config"
	"github.com/Grant-Giesbrecht/graf/pkg/buildinfo"
	"github.com/Grant-Giesbrecht/graf/pkg/fonts"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
)

// fontsCommand creates the fonts command.
func (c *CLI) fontsCommand() *cobra.Command {
	var resolve string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the font families of the configured font table",
		Long: `Fonts lists the families of the configured font table and the faces each
provides. With --resolve it instead shows which font file every font of a
figure's style maps to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			table, err := cfg.FontTable()
			if err != nil {
				return err
			}
			if resolve != "" {
				return printResolvedFonts(cmd, table, resolve)
			}

			var rows [][]string
			for _, f := range table.Families {
				row := []string{f.Names[0], strings.Join(f.Names[1:], ", ")}
				for _, face := range []fonts.Face{fonts.Regular, fonts.Bold, fonts.Italic} {
					if _, ok := f.Path(face); ok {
						row = append(row, iconSuccess)
					} else {
						row = append(row, "")
					}
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Family", "Aliases", "Regular", "Bold", "Italic"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&resolve, "resolve", "", "resolve the style fonts of this figure file")
	return cmd
}

func printResolvedFonts(cmd *cobra.Command, table *fonts.Table, path string) error {
	g, _, err := loadFile(path)
	if err != nil {
		return err
	}
	st := g.Style
	if st == nil {
		st = graf.NewGraphStyle()
	}

	var rows [][]string
	for _, sf := range []struct {
		role string
		font *graf.Font
	}{
		{"supertitle", st.Supertitle},
		{"title", st.Title},
		{"graph", st.Graph},
		{"label", st.Label},
	} {
		f := sf.font
		if f == nil {
			f = graf.NewFont()
		}
		size := strconv.FormatFloat(f.Size, 'g', -1, 64)
		r, ok := f.Resolve(table)
		switch {
		case f.UseNative:
			rows = append(rows, []string{sf.role, f.Family, size, "native", ""})
		case !ok:
			rows = append(rows, []string{sf.role, f.Family, size, "unresolved", ""})
		default:
			rows = append(rows, []string{sf.role, f.Family, size, r.Face.String(), r.Path})
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Role", "Family", "Size", "Face", "File"}, rows))
	return nil
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

// configShowCommand prints the effective configuration as TOML.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.Store.Redis.Password != "" {
				shown.Store.Redis.Password = "********"
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(shown)
		},
	}
}

// configPathCommand prints the config file path.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appName)
			fmt.Fprint(cmd.OutOrStdout(), indent(buildinfo.String(), "  "))
		},
	}
}
