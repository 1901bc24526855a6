// Package presentation renders workflow outcomes for the terminal, either
// as styled text or as JSON.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/workflow"
)

var (
	successColor = lipgloss.Color("2")
	errorColor   = lipgloss.Color("1")
	mutedColor   = lipgloss.Color("8")

	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(22)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(successColor).
			Padding(0, 1)
)

// fieldLabels are the user-facing names of the record fields.
var fieldLabels = map[string]string{
	types.FieldID:            "ID",
	types.FieldName:          "Name",
	types.FieldLastName:      "Last name",
	types.FieldBornPlace:     "Place of birth",
	types.FieldDegree:        "Degree",
	types.FieldPlace:         "Campus",
	types.FieldScoreAdmision: "Admission score",
}

// Label returns the display name for a form field.
func Label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// Formatter writes outcomes to a writer.
type Formatter struct {
	writer io.Writer
	json   bool
}

// NewFormatter creates a formatter; asJSON selects JSON output.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	return &Formatter{writer: writer, json: asJSON}
}

// Outcome writes one workflow outcome.
func (f *Formatter) Outcome(out workflow.Outcome) error {
	if f.json {
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(NewOutcomeDTO(out))
	}

	_, err := io.WriteString(f.writer, RenderOutcome(out)+"\n")
	return err
}

// Busy writes the in-flight indicator. It is silent in JSON mode so the
// output stays machine readable.
func (f *Formatter) Busy(msg string) {
	if f.json {
		return
	}
	fmt.Fprintln(f.writer, mutedStyle.Render("⏳ "+msg))
}

// RenderOutcome returns the styled text for an outcome.
func RenderOutcome(out workflow.Outcome) string {
	switch out.Kind {
	case workflow.Succeeded:
		return successStyle.Render("✅ " + out.Message)
	case workflow.Present:
		if out.Record == nil {
			return successStyle.Render("✅ " + out.Message)
		}
		return RenderCard(*out.Record)
	case workflow.Absent:
		return errorStyle.Render("❌ " + out.Message)
	}

	var b strings.Builder
	b.WriteString(errorStyle.Render("❌ " + out.Message))
	if out.Fields != nil {
		for _, field := range out.Fields.Invalid() {
			b.WriteString("\n  " + errorStyle.Render("•") + " " + Label(field) + " is not valid")
		}
	}
	if out.Err != nil && out.Fields == nil {
		b.WriteString("\n" + mutedStyle.Render(out.Err.Error()))
	}
	return b.String()
}

// RenderCard lays out a found student.
func RenderCard(rec types.StudentRecord) string {
	values := map[string]string{
		types.FieldID:            fmt.Sprint(rec.ID),
		types.FieldName:          rec.Name,
		types.FieldLastName:      rec.LastName,
		types.FieldBornPlace:     rec.BornPlace,
		types.FieldDegree:        rec.Degree,
		types.FieldPlace:         rec.Place,
		types.FieldScoreAdmision: fmt.Sprint(rec.ScoreAdmision),
	}

	lines := []string{successStyle.Render("✅ Student found")}
	for _, field := range types.FormFields {
		lines = append(lines, labelStyle.Render(Label(field)+":")+values[field])
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
