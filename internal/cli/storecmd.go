package cli

import (
	stderrors "errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/io"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
)

// withSpinner runs fn, animating a spinner on stderr for remote backends.
func (c *CLI) withSpinner(cmd *cobra.Command, message string, fn func() error) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if !isRemote(cfg.Store.Backend) {
		return fn()
	}
	s := newSpinner(cmd.Context(), cmd.ErrOrStderr(), message)
	s.Start()
	defer s.Stop()
	return fn()
}

// pushCommand creates the push command.
func (c *CLI) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push [file] [name]",
		Short: "Store a figure file in the document store",
		Long: `Push validates a figure file and stores it under name, replacing any
document of the same name. The name defaults to the file name without its
extension.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := trimExt(args[0])
			if len(args) == 2 {
				name = args[1]
			}
			if err := store.CheckName(name); err != nil {
				return err
			}

			g, _, err := loadFile(args[0])
			if err != nil {
				return err
			}
			if err := checkFigure(args[0], g); err != nil {
				return err
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			prog := newProgress(loggerFromContext(ctx))
			err = c.withSpinner(cmd, "Storing "+name, func() error {
				return st.Put(ctx, name, g.Pack())
			})
			if err != nil {
				return err
			}
			prog.done("stored", "name", name)
			printSuccess(cmd.OutOrStdout(), "Stored %s", name)
			return nil
		},
	}
}

// pullCommand creates the pull command.
func (c *CLI) pullCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "pull [name] [file]",
		Short: "Fetch a document from the store",
		Long: `Pull writes a stored document to file, in the format given by its
extension. Without a file the document is printed to stdout in --format
(default from the config file).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var d document.Document
			err = c.withSpinner(cmd, "Fetching "+name, func() error {
				doc, err := st.Get(ctx, name)
				d = doc
				return err
			})
			if err != nil {
				return err
			}

			if len(args) == 2 {
				if err := io.ExportFile(args[1], d); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Fetched %s", name)
				printFile(cmd.OutOrStdout(), args[1])
				return nil
			}

			cfg, err := c.config()
			if err != nil {
				return err
			}
			f := cfg.OutputFormat()
			if format != "" {
				if f, err = io.ParseFormat(format); err != nil {
					return err
				}
			}
			return io.Write(cmd.OutOrStdout(), d, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "stdout format: json or yaml")
	return cmd
}

// lsCommand creates the ls command.
func (c *CLI) lsCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				printInfo(w, "No documents")
				return nil
			}

			if !interactive {
				rows := make([][]string, len(entries))
				for i, e := range entries {
					rows[i] = []string{e.Name, formatSize(e.Size), formatRelativeTime(e.Modified)}
				}
				fmt.Fprintln(w, renderTable([]string{"Name", "Size", "Modified"}, rows))
				return nil
			}

			final, err := tea.NewProgram(NewDocListModel(entries), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			m, ok := final.(DocListModel)
			if !ok || m.Selected == nil {
				printDetail(w, "No selection made")
				return nil
			}

			d, err := st.Get(ctx, m.Selected.Name)
			if err != nil {
				return err
			}
			g, err := io.DecodeGraf(d)
			if err != nil {
				return err
			}
			printSummary(cmd, g, d, true)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a document and show its overview")
	return cmd
}

// rmCommand creates the rm command.
func (c *CLI) rmCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm [name...]",
		Short: "Remove documents from the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			w := cmd.OutOrStdout()
			var errs []error
			for _, name := range args {
				err := st.Delete(ctx, name)
				switch {
				case err == nil:
					printSuccess(w, "Removed %s", name)
				case stderrors.Is(err, store.ErrNotFound) && force:
					printWarning(w, "%s not found", name)
				default:
					printError(w, "%s: %v", name, err)
					errs = append(errs, err)
				}
			}
			return stderrors.Join(errs...)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "ignore missing documents")
	return cmd
}
