package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"catalog-cli/internal/catalog"
	"catalog-cli/internal/config"
	"catalog-cli/internal/format"
	"catalog-cli/internal/history"
	"catalog-cli/internal/logging"
	"catalog-cli/internal/metrics"
	"catalog-cli/internal/model"
	"catalog-cli/internal/source"
	"catalog-cli/internal/store"
	"catalog-cli/internal/telemetry"
	"catalog-cli/internal/tree"
)

// Command annotations.
const (
	// skipResume marks commands that show the freshly fetched page rather than the history cursor.
	skipResume = "catalog/skip-resume"

	// skipOpen marks commands that never touch the catalog.
	skipOpen = "catalog/skip-open"
)

type App struct {
	ConfigFile string
	Storage    string
	Dir        string
	Source     string
	PrettyJSON bool
	Format     string
	Fresh      bool

	// MetricsFile and TraceFile name where metrics and spans are written when the
	// command finishes. "-" is stderr.
	MetricsFile string
	TraceFile   string

	Config config.Config
	Log    *logrus.Logger
	Store  *catalog.Store

	kv            store.KV
	traceOut      io.WriteCloser
	traceShutdown telemetry.ShutdownFunc
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "catalog",
		Short:        "Catalog tree editor with undo/redo history",
		SilenceUsage: true,
		Example: `  # Show the catalog as an outline
  catalog list --format text

  # Add a category under item 1 and take it back
  catalog add 1 "Boots"
  catalog undo

  # Direct item lookup (shortcut for: catalog show <id>)
  catalog 11`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd == cmd.Root() || cmd.Name() == "help" || cmd.Annotations[skipOpen] != "" {
			return nil
		}
		if strings.HasPrefix(cmd.CommandPath(), "catalog completion") {
			return nil
		}
		if err := app.open(cmd); err != nil {
			return errors.Join(err, app.close(cmd))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("CATALOG_CONFIG", ""), "Config file (default: ~/.config/catalog/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Storage, "storage", "", "History storage backend (sqlite|badger|file|memory)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data dir for on-disk storage (default: ~/.catalog)")
	cmd.PersistentFlags().StringVar(&app.Source, "source", "", "Item source: 'static' or the base URL of an items server")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CATALOG_FORMAT", "json"), "Output format (json|yaml|text)")
	cmd.PersistentFlags().BoolVar(&app.Fresh, "fresh", false, "Use the fetched page instead of the current history entry")
	cmd.PersistentFlags().StringVar(&app.MetricsFile, "metrics-file", envOr("CATALOG_METRICS_FILE", ""), "Write Prometheus metrics to this file when done ('-' for stderr)")
	cmd.PersistentFlags().StringVar(&app.TraceFile, "trace", envOr("CATALOG_TRACE", ""), "Write OpenTelemetry spans as JSON to this file ('-' for stderr)")

	cmd.AddCommand(newFetchCmd(app))
	cmd.AddCommand(newPageCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newUndoCmd(app))
	cmd.AddCommand(newRedoCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	for _, c := range cmd.Commands() {
		closeAfterRun(app, c)
	}
	return cmd
}

// closeAfterRun releases what open acquired once c has run, including when it fails.
func closeAfterRun(app *App, c *cobra.Command) {
	run := c.RunE
	if run == nil {
		return
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, app.close(cmd))
	}
}

// open loads config, wires storage, history and source into a catalog.Store and loads
// the first page. Flags win over config values.
func (app *App) open(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigFile)
	if err != nil {
		return writeErr(cmd, err)
	}
	if app.Storage != "" {
		cfg.Storage = app.Storage
	}
	if app.Dir != "" {
		cfg.DataDir = app.Dir
	}
	if app.Source != "" {
		cfg.Source = app.Source
	}
	if cfg.DataDir == "" {
		if d, err := store.DefaultDir(); err == nil {
			cfg.DataDir = d
		}
	}
	app.Config = cfg
	app.Log = logging.New(cfg.LogLevel, cmd.ErrOrStderr())

	if app.TraceFile != "" {
		if err := app.startTracing(cmd); err != nil {
			return writeErr(cmd, err)
		}
	}

	kv, err := store.Store{Dir: cfg.DataDir, Logger: app.Log}.Open(cmd.Context(), store.Backend(cfg.Storage))
	if err != nil {
		// History still works in memory; it just won't survive this process.
		app.Log.WithError(err).WithField("storage", cfg.Storage).Warn("storage unavailable")
		kv = nil
	}
	app.kv = kv

	var hs history.Storage
	if kv != nil {
		hs = history.NewKVStorage(kv)
	}
	hist := history.NewManager(history.Options{
		MaxEntries: cfg.MaxHistory,
		Storage:    hs,
		Logger:     app.Log,
	})

	app.Store = catalog.New(catalog.Options{
		Source:    newSource(cfg),
		History:   hist,
		PageLimit: cfg.PageLimit,
		Logger:    app.Log,
	})
	resume := !app.Fresh && cmd.Annotations[skipResume] == ""
	if err := app.Store.Init(cmd.Context()); err != nil {
		if !resume || !app.Store.Resume() {
			return writeErr(cmd, err)
		}
		app.Log.WithError(err).Warn("fetch failed; continuing from history")
		return nil
	}
	if resume {
		app.Store.Resume()
	}
	return nil
}

func (app *App) startTracing(cmd *cobra.Command) error {
	var w io.Writer = cmd.ErrOrStderr()
	if app.TraceFile != "-" {
		f, err := os.Create(app.TraceFile)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		app.traceOut = f
		w = f
	}
	shutdown, err := telemetry.InitTracing(w)
	if err != nil {
		return err
	}
	app.traceShutdown = shutdown
	return nil
}

// close flushes spans and metrics and closes storage. It is safe to call more than once.
func (app *App) close(cmd *cobra.Command) error {
	var errs []error
	if app.kv != nil {
		errs = append(errs, app.kv.Close())
		app.kv = nil
	}
	if app.traceShutdown != nil {
		errs = append(errs, app.traceShutdown(context.WithoutCancel(cmd.Context())))
		app.traceShutdown = nil
	}
	if app.traceOut != nil {
		errs = append(errs, app.traceOut.Close())
		app.traceOut = nil
	}
	if app.MetricsFile != "" {
		errs = append(errs, writeMetrics(cmd, app.MetricsFile))
	}
	return errors.Join(errs...)
}

func writeMetrics(cmd *cobra.Command, path string) error {
	if path == "-" {
		return metrics.WriteText(cmd.ErrOrStderr(), prometheus.DefaultGatherer)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open metrics file: %w", err)
	}
	if err := metrics.WriteText(f, prometheus.DefaultGatherer); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newSource(cfg config.Config) source.Source {
	if cfg.Source == "" || strings.EqualFold(cfg.Source, "static") {
		return source.NewDefaultStatic()
	}
	return source.NewHTTP(cfg.Source, cfg.HTTPTimeout)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes v in the selected format. The text format renders the "data" of an
// envelope as an outline when it holds items, and falls back to YAML otherwise.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if app.Format != "text" {
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
	}
	data := v
	if env, ok := v.(map[string]any); ok {
		if d, ok := env["data"]; ok {
			data = d
		}
	}
	opts := format.TreeOptions{Color: isTerminal(cmd), HideCollapsed: true}
	switch d := data.(type) {
	case []*model.Item:
		return format.WriteTree(cmd.OutOrStdout(), tree.Flatten(d), opts)
	case *model.Item:
		opts.HideCollapsed = false
		return format.WriteTree(cmd.OutOrStdout(), tree.Flatten([]*model.Item{d}), opts)
	case []model.FlatItem:
		opts.HideCollapsed = false
		return format.WriteTree(cmd.OutOrStdout(), d, opts)
	default:
		return format.WriteYAML(cmd.OutOrStdout(), data)
	}
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
