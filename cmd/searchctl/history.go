package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := a.store.History()
			if a.jsonOut {
				return a.printJSON(items)
			}
			for _, h := range items {
				fmt.Fprintf(a.out, "%s  %s  %q  %d results  %s\n",
					h.ID, h.Timestamp.Local().Format("2006-01-02 15:04"), h.Query, h.ResultCount, describeFilters(h.Filters))
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "replay <id>",
			Short: "Run a past search again",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.ctrl.ReplayHistory(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.render(a.ctrl.State())
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove one history entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.store.DeleteHistoryItem(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a.store.ClearHistory(cmd.Context())
				return nil
			},
		},
	)
	return cmd
}
