package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

func (a *app) searchCmd() *cobra.Command {
	var (
		ff       filterFlags
		pages    int
		preset   string
		reset    bool
		saveAs   string
		alert    string
		isPublic bool
		email    bool
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Run a search",
		Long: `Run a search with the stored filter preference, adjusted by any filter flags.

The filters used become the new preference for the next run. Use --reset to
start from the defaults instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if reset {
				if err := a.ctrl.ResetFilters(ctx); err != nil {
					return err
				}
			}
			if preset != "" {
				if err := a.ctrl.ApplyPreset(ctx, preset); err != nil {
					return fmt.Errorf("applying preset %q: %w", preset, err)
				}
			}
			patch, err := ff.patch(cmd)
			if err != nil {
				return err
			}
			if err := a.ctrl.UpdateFilters(ctx, patch); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			if _, err := a.ctrl.Search(ctx, query, nil); err != nil {
				return err
			}
			for i := 1; i < pages && a.ctrl.State().HasMore; i++ {
				if err := a.ctrl.LoadMore(ctx); err != nil {
					return err
				}
			}

			if saveAs != "" {
				saved, err := a.ctrl.SaveSearch(ctx, saveAs, domain.SaveOptions{
					IsPublic:           isPublic,
					AlertFrequency:     domain.AlertFrequency(alert),
					EmailNotifications: email,
				})
				if err != nil {
					return fmt.Errorf("saving search: %w", err)
				}
				a.log.Info("Saved search", "id", saved.ID, "name", saved.Name)
			}

			return a.render(a.ctrl.State())
		},
	}

	ff.register(cmd)
	flags := cmd.Flags()
	flags.IntVar(&pages, "pages", 1, "number of result pages to fetch")
	flags.StringVar(&preset, "preset", "", "apply a saved filter preset first")
	flags.BoolVar(&reset, "reset", false, "start from the default filters")
	flags.StringVar(&saveAs, "save", "", "save the search under this name")
	flags.StringVar(&alert, "alert", string(domain.AlertNever), "alert frequency for --save: immediate, daily, weekly or never")
	flags.BoolVar(&isPublic, "public", false, "mark the saved search public")
	flags.BoolVar(&email, "email", false, "enable email notifications for the saved search")
	return cmd
}

func (a *app) suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <partial>",
		Short: "Show suggestions for a partial query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.suggestions.Suggestions(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(items)
			}
			renderSuggestions(a.out, items)
			return nil
		},
	}
}
