package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/config"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/controller"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/highlight"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/persistence"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/suggest"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// app holds what every subcommand needs. It is opened lazily by the root
// command's PersistentPreRunE and closed after Execute returns.
type app struct {
	out io.Writer

	configPath string
	namespace  string
	local      bool
	jsonOut    bool

	cfg          *config.Config
	log          *logger.Logger
	store        *persistence.Store
	backend      backend
	closeBackend func() error
	suggestions  *suggest.Composite
	hl           *highlight.Highlighter
	ctrl         *controller.Controller
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "searchctl",
		Short:         "Search news and manage saved searches",
		Long:          "searchctl runs filtered news searches against the search API and keeps a local history, saved searches and filter presets.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to config file")
	flags.StringVar(&a.namespace, "namespace", "", "scope for stored records (overrides storage.namespace)")
	flags.BoolVar(&a.local, "local", false, "search the index at index.path in-process instead of the API")
	flags.BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.searchCmd(),
		a.suggestCmd(),
		a.historyCmd(),
		a.savedCmd(),
		a.presetsCmd(),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	if a.ctrl != nil {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.log = log

	kv, err := openKV(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	namespace := cfg.Storage.Namespace
	if a.namespace != "" {
		namespace = a.namespace
	}
	a.store = persistence.Open(ctx, kv, log,
		persistence.WithNamespace(namespace),
		persistence.WithHistoryLimit(cfg.Storage.HistoryLimit),
	)

	b, closeBackend, err := openBackend(cfg, a.local, log)
	if err != nil {
		return fmt.Errorf("opening backend: %w", err)
	}
	a.backend = b
	a.closeBackend = closeBackend

	a.suggestions = suggest.NewComposite(b, a.store, log, suggest.WithLimit(cfg.Controller.SuggestionLimit))

	a.hl = highlight.New(highlight.Options{
		OpenMarker:    cfg.Highlight.OpenMarker,
		CloseMarker:   cfg.Highlight.CloseMarker,
		SnippetLength: cfg.Highlight.SnippetLength,
		SummaryLength: cfg.Highlight.SummaryLength,
		ContentFormat: highlight.Format(cfg.Highlight.ContentFormat),
	})
	a.ctrl = controller.New(b, a.suggestions, a.store, log,
		controller.WithHighlighter(a.hl),
		controller.WithConfig(controller.Config{
			PageSize:         cfg.Controller.PageSize,
			QueryDebounce:    cfg.Controller.QueryDebounce,
			SuggestDebounce:  cfg.Controller.SuggestDebounce,
			MinSuggestLength: cfg.Controller.MinSuggestLength,
		}),
	)
	return nil
}

func (a *app) close() {
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	if a.closeBackend != nil {
		if err := a.closeBackend(); err != nil {
			a.log.Warn("Failed to close backend", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("Failed to close storage", "error", err)
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// render prints the controller state
func (a *app) render(st controller.State) error {
	if a.jsonOut {
		return a.printJSON(st)
	}
	opts := a.hl.Options()
	renderState(a.out, st, opts.OpenMarker, opts.CloseMarker)
	return nil
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
