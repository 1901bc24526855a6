package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/workflow"
)

func newRegisterCmd(a *app) *cobra.Command {
	form := types.Form{}
	var wait bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new student",
		Long: `Validate the student form, make sure the ID is not taken and create the record.

Every field is required. The ID must be digits only, with no surrounding
spaces. Text fields and the score are trimmed before they are checked.

Examples:
  sinja register --id 1001 --name Luis --last-name "Pérez" \
    --born-place "Bogotá" --degree "Ingeniería de Sistemas" \
    --place ANDES --score 450`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.client()
			if err != nil {
				return err
			}

			reg := workflow.NewRegistration(api, a.workflowOptions()...)
			a.out.Busy("Registering student...")
			out := reg.Submit(cmd.Context(), form)

			if err := a.report(out); err != nil {
				return err
			}
			if wait && out.ResetAfter > 0 {
				select {
				case <-time.After(out.ResetAfter):
					a.out.Busy("Form cleared.")
				case <-cmd.Context().Done():
				}
			}
			return nil
		},
	}

	flags := []struct {
		field, name, usage string
	}{
		{types.FieldID, "id", "student ID (digits only)"},
		{types.FieldName, "name", "first name (letters and spaces)"},
		{types.FieldLastName, "last-name", "last name (letters and spaces)"},
		{types.FieldBornPlace, "born-place", "place of birth"},
		{types.FieldDegree, "degree", fmt.Sprintf("degree (%s)", strings.Join(types.Degrees, ", "))},
		{types.FieldPlace, "place", fmt.Sprintf("campus (%s)", strings.Join(types.Campuses, ", "))},
		{types.FieldScoreAdmision, "score", "admission score, 0 to 500"},
	}
	for _, f := range flags {
		cmd.Flags().Var(&formValue{form: form, field: f.field}, f.name, f.usage)
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "keep the result on screen until the form reset delay passes")

	return cmd
}

// formValue is a pflag.Value writing straight into one form field, so an
// unset flag leaves the field absent rather than empty.
type formValue struct {
	form  types.Form
	field string
}

func (v *formValue) String() string {
	if v.form == nil {
		return ""
	}
	return v.form[v.field]
}

func (v *formValue) Set(s string) error {
	v.form[v.field] = s
	return nil
}

func (v *formValue) Type() string { return "string" }
