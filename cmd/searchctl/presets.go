package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List filter presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.jsonOut {
				return a.printJSON(a.store.Presets())
			}
			presets := a.store.Presets()
			for _, name := range a.store.PresetNames() {
				fmt.Fprintf(a.out, "%s  %s\n", name, describeFilters(presets[name]))
			}
			return nil
		},
	}

	var ff filterFlags
	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Store the given filters as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filters(cmd)
			if err != nil {
				return err
			}
			return a.store.SavePreset(cmd.Context(), args[0], f)
		},
	}
	ff.register(save)

	cmd.AddCommand(
		save,
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Remove a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.store.DeletePreset(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}
