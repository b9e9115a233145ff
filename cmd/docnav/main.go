package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"docnav/internal/config"
	"docnav/internal/format"
	xlog "docnav/internal/log"
	"docnav/internal/sidebar"
	"docnav/internal/site"
	"docnav/internal/storage"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	file       string
	format     string
	dbPath     string
	sidebar    string

	// fileFormat applies to file only; a format from the config file
	// never leaks onto a path given on the command line.
	fileFormat string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "docnav",
		Short:         "Inspect and convert documentation sidebar trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to the docnav config file")
	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Sidebars source (json, yaml or sidebars.js); defaults to the built-in site tree")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", "Format of --file when the extension is ambiguous")
	rootCmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "Path to the sidebar snapshot database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&opts.sidebar, "sidebar", "s", "", "Sidebar to operate on")

	rootCmd.AddCommand(
		newSectionsCmd(opts),
		newShowCmd(opts),
		newCheckCmd(opts),
		newConvertCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newInfoCmd(opts),
		newFindCmd(opts),
	)
	return rootCmd
}

// load fills unset flags from the config file and configures logging.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	o.fileFormat = o.format
	if o.file == "" {
		o.file = cfg.Sidebars.Path
		if o.fileFormat == "" {
			o.fileFormat = cfg.Sidebars.Format
		}
	}
	if o.dbPath == "" {
		o.dbPath = cfg.Store.Path
	}
	if o.sidebar == "" {
		o.sidebar = cfg.Sidebars.Sidebar
	}
	if o.sidebar == "" {
		o.sidebar = site.DefaultSidebar
	}

	xlog.Configure(xlog.Config{Level: cfg.Log.Level, Console: cfg.Log.Console, Output: cmd.ErrOrStderr()})
	logger := xlog.WithComponent(cmd.Name())
	cmd.SetContext(xlog.WithContext(cmd.Context(), logger))
	return nil
}

// sourceTree reads the tree named by --file, or the built-in site tree.
func (o *options) sourceTree(ctx context.Context) (*sidebar.Tree, string, error) {
	if o.file == "" {
		return site.Default(), "embedded", nil
	}
	return readTree(ctx, o.file, o.fileFormat)
}

// useFile points the source at a path named on the command line.
func (o *options) useFile(path string) {
	o.file = path
	o.fileFormat = o.format
}

func readTree(ctx context.Context, path, explicit string) (*sidebar.Tree, string, error) {
	f, err := format.Resolve(explicit, path)
	if err != nil {
		return nil, "", err
	}
	t, err := format.ReadFile(ctx, path, f)
	if err != nil {
		return nil, "", err
	}
	xlog.FromContext(ctx).Debug().Str(xlog.FieldPath, path).Str(xlog.FieldFormat, string(f)).Msg("loaded sidebars")
	return t, path, nil
}

// openExistingStore opens the snapshot database without creating it.
func (o *options) openExistingStore() (*storage.SQLiteStore, error) {
	if _, err := os.Stat(o.dbPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("database %s: %w", o.dbPath, storage.ErrNotFound)
	}
	return o.openStore()
}

func (o *options) openStore() (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(o.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database %s: %w", o.dbPath, err)
	}
	return store, nil
}
