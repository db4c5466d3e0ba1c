package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/persistence"
)

func (a *app) savedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := a.store.SavedSearches()
			if a.jsonOut {
				return a.printJSON(items)
			}
			for _, s := range items {
				used := "never used"
				if !s.LastUsed.IsZero() {
					used = "used " + s.LastUsed.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(a.out, "%s  %s  %q  alerts=%s  %s  %s\n",
					s.ID, s.Name, s.Query, s.AlertFrequency, used, describeFilters(s.Filters))
			}
			return nil
		},
	}

	cmd.AddCommand(
		a.savedAddCmd(),
		&cobra.Command{
			Use:   "run <id|name>",
			Short: "Run a saved search",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				saved, err := a.resolveSaved(args[0])
				if err != nil {
					return err
				}
				if _, err := a.ctrl.ApplySavedSearch(cmd.Context(), saved.ID); err != nil {
					return err
				}
				return a.render(a.ctrl.State())
			},
		},
		&cobra.Command{
			Use:   "delete <id|name>",
			Short: "Remove a saved search",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				saved, err := a.resolveSaved(args[0])
				if err != nil {
					return err
				}
				return a.store.DeleteSavedSearch(cmd.Context(), saved.ID)
			},
		},
		a.exportCmd(),
		a.importCmd(),
	)
	return cmd
}

// savedAddCmd stores a search without running it
func (a *app) savedAddCmd() *cobra.Command {
	var (
		ff       filterFlags
		alert    string
		isPublic bool
		email    bool
	)
	cmd := &cobra.Command{
		Use:   "add <name> [query...]",
		Short: "Save a query and filters without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filters(cmd)
			if err != nil {
				return err
			}
			saved, err := a.store.UpsertSavedSearch(cmd.Context(), domain.SavedSearch{
				Name:               args[0],
				Query:              strings.Join(args[1:], " "),
				Filters:            f,
				IsPublic:           isPublic,
				AlertFrequency:     domain.AlertFrequency(alert),
				EmailNotifications: email,
			})
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(saved)
			}
			fmt.Fprintln(a.out, saved.ID)
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVar(&alert, "alert", string(domain.AlertNever), "alert frequency: immediate, daily, weekly or never")
	cmd.Flags().BoolVar(&isPublic, "public", false, "mark the saved search public")
	cmd.Flags().BoolVar(&email, "email", false, "enable email notifications")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var format, file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved searches and presets as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := persistence.ParseFormat(format)
			if err != nil {
				return err
			}
			var w io.Writer = a.out
			if file != "" {
				out, err := os.Create(file)
				if err != nil {
					return err
				}
				defer out.Close()
				w = out
			}
			return a.store.Export(w, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge saved searches and presets from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := format
			if name == "" {
				name = strings.TrimPrefix(filepath.Ext(args[0]), ".")
			}
			f, err := persistence.ParseFormat(name)
			if err != nil {
				return err
			}
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			res, err := a.store.Import(cmd.Context(), in, f)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(res)
			}
			fmt.Fprintf(a.out, "imported %d saved searches and %d presets\n", res.SavedSearches, res.Presets)
			for _, msg := range res.Skipped {
				fmt.Fprintf(a.out, "skipped: %s\n", msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from the file extension)")
	return cmd
}

// resolveSaved finds a saved search by id, then by name
func (a *app) resolveSaved(ref string) (domain.SavedSearch, error) {
	saved, err := a.store.SavedSearch(ref)
	if errors.Is(err, domain.ErrSavedSearchNotFound) {
		return a.store.SavedSearchByName(ref)
	}
	return saved, err
}
