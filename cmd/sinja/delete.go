package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/sinja/internal/workflow"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the student with the given ID",
		Long: `Delete a student after confirmation.

Without --yes the command asks on stdin. Anything but "y" or "yes" cancels
and nothing is sent to the service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client()
			if err != nil {
				return err
			}

			var confirm workflow.Confirmer = promptConfirmer{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()}
			if yes {
				confirm = workflow.ConfirmFunc(func(context.Context, int64) (bool, error) { return true, nil })
			}

			deletion := workflow.NewDeletion(api, confirm, a.workflowOptions()...)
			return a.report(deletion.Delete(cmd.Context(), args[0]))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// promptConfirmer asks a yes/no question on a terminal-like stream.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, id int64) (bool, error) {
	fmt.Fprintf(p.out, "Delete student %d? [y/N]: ", id)

	answer, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
