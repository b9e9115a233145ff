package main

import (
	"fmt"
	"text/tabwriter"

	"docnav/internal/discover"
	"docnav/internal/format"
	xlog "docnav/internal/log"
	"docnav/internal/sidebar"

	"github.com/spf13/cobra"
)

func newSectionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sections [sidebar]",
		Short: "List the sections of a sidebar in display order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := opts.sidebar
			if len(args) > 0 {
				name = args[0]
			}

			t, _, err := opts.sourceTree(cmd.Context())
			if err != nil {
				return err
			}
			sb, ok := t.Sidebar(name)
			if !ok {
				return fmt.Errorf("sidebar %q not found (have %v)", name, t.Names())
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sec := range sb.Sections {
				fmt.Fprintf(w, "%s\t%d\n", sec.Label, len(sec.Docs))
			}
			return w.Flush()
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	var fromDB bool

	cmd := &cobra.Command{
		Use:   "show <section>",
		Short: "Print the document references of a section in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			label := args[0]

			var docs []string
			if fromDB {
				store, err := opts.openExistingStore()
				if err != nil {
					return err
				}
				defer store.Close()

				if docs, err = store.Lookup(ctx, opts.sidebar, label); err != nil {
					return err
				}
			} else {
				t, _, err := opts.sourceTree(ctx)
				if err != nil {
					return err
				}
				var ok bool
				if docs, ok = t.Lookup(opts.sidebar, label); !ok {
					return fmt.Errorf("section %q not found in sidebar %q", label, opts.sidebar)
				}
			}

			for _, ref := range docs {
				fmt.Fprintln(cmd.OutOrStdout(), ref)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "Read the section from the snapshot database instead of --file")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Check a sidebars file against the tree invariants",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				t      *sidebar.Tree
				source string
				err    error
			)
			if len(args) > 0 {
				t, source, err = readTree(ctx, args[0], opts.format)
			} else {
				t, source, err = opts.sourceTree(ctx)
			}
			if err != nil {
				return err
			}

			if err := t.Validate(); err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}

			sections := 0
			for _, sb := range t.Sidebars() {
				sections += len(sb.Sections)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d sidebars, %d sections, %d docs)\n", source, t.Len(), sections, len(t.Refs()))
			return nil
		},
	}
}

func newConvertCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a sidebars file between json, yaml and js",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t, _, err := readTree(ctx, args[0], from)
			if err != nil {
				return err
			}
			return writeTree(cmd, args[1], to, t)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input format (default: from extension)")
	cmd.Flags().StringVar(&to, "to", "", "Output format (default: from extension)")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Store a sidebars file as the current snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := xlog.FromContext(ctx)

			if len(args) > 0 {
				opts.useFile(args[0])
			}
			t, source, err := opts.sourceTree(ctx)
			if err != nil {
				return err
			}
			if err := t.Validate(); err != nil {
				logger.Warn().Err(err).Str(xlog.FieldPath, source).Msg("importing sidebars with invariant violations")
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveTree(ctx, t, source); err != nil {
				return fmt.Errorf("failed to save sidebars: %w", err)
			}
			logger.Info().Str(xlog.FieldPath, source).Str("db", opts.dbPath).Int("docs", len(t.Refs())).Msg("snapshot saved")
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "export <out>",
		Short: "Write the stored snapshot to a file ('-' for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := opts.openExistingStore()
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.LoadTree(ctx)
			if err != nil {
				return fmt.Errorf("failed to load sidebars: %w", err)
			}
			return writeTree(cmd, args[0], to, t)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output format (default: from extension, json for stdout)")
	return cmd
}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openExistingStore()
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := store.Info(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "source:   %s\nsaved:    %s\nsidebars: %d\nsections: %d\ndocs:     %d\n",
				snap.Source, snap.SavedAt.Format("2006-01-02 15:04:05Z07:00"), snap.Sidebars, snap.Sections, snap.Docs)
			return nil
		},
	}
}

func newFindCmd(opts *options) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "find [root]",
		Short: "Locate sidebar files under a site source tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			failed := 0
			err := discover.NewCrawler().ScanProject(ctx, root, func(f discover.Found) error {
				if !check {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Path, f.Format)
					return nil
				}
				t, err := format.ReadFile(ctx, f.Path, f.Format)
				if err == nil {
					err = t.Validate()
				}
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tFAIL\t%v\n", f.Path, err)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tok\n", f.Path)
				return nil
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d sidebar files failed checks", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Decode and check every file found")
	return cmd
}

// writeTree writes t to path, or to stdout when path is "-".
func writeTree(cmd *cobra.Command, path, explicit string, t *sidebar.Tree) error {
	if path == "-" {
		if explicit == "" {
			explicit = string(format.JSON)
		}
		f, err := format.Parse(explicit)
		if err != nil {
			return err
		}
		return format.Encode(cmd.OutOrStdout(), t, f)
	}

	f, err := format.Resolve(explicit, path)
	if err != nil {
		return err
	}
	if err := format.WriteFile(cmd.Context(), path, t, f); err != nil {
		return err
	}
	xlog.FromContext(cmd.Context()).Info().Str(xlog.FieldPath, path).Str(xlog.FieldFormat, string(f)).Msg("sidebars written")
	return nil
}
