package main

import (
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/sinja/internal/workflow"
)

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <id>",
		Short: "Show the student with the given ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client()
			if err != nil {
				return err
			}

			lookup := workflow.NewLookup(api, a.workflowOptions()...)
			a.out.Busy("Searching...")
			return a.report(lookup.Find(cmd.Context(), args[0]))
		},
	}
}
