package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/nswan/lifeweave/internal/cli/formatter"
	"github.com/nswan/lifeweave/internal/domain"
)

func lifeweaveHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateOptionalPartialDate accepts "" or a partial date at year, month,
// or day precision.
func validateOptionalPartialDate(s string) error {
	if s == "" {
		return nil
	}
	_, err := domain.ParsePartialDate(s)
	return err
}

// partialDateInput returns a huh.Input for an optional partial-date field.
func partialDateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("1987-05-01").
		Value(value).
		Validate(validateOptionalPartialDate)
}

// runSpanWizard collects the fields for a new span interactively.
func runSpanWizard(name, typeStr, start, end, access *string) error {
	if *typeStr == "" {
		*typeStr = string(domain.SpanPerson)
	}
	if *access == "" {
		*access = string(domain.AccessPrivate)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(name).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Person", string(domain.SpanPerson)),
					huh.NewOption("Organisation", string(domain.SpanOrganisation)),
					huh.NewOption("Place", string(domain.SpanPlace)),
					huh.NewOption("Event", string(domain.SpanEvent)),
					huh.NewOption("Thing", string(domain.SpanThing)),
					huh.NewOption("Role", string(domain.SpanRole)),
					huh.NewOption("Set", string(domain.SpanSet)),
					huh.NewOption("Note", string(domain.SpanNote)),
				).
				Value(typeStr),
			partialDateInput("Start (YYYY, YYYY-MM, or YYYY-MM-DD; blank for none)", start),
			partialDateInput("End (blank for ongoing)", end),
			huh.NewSelect[string]().
				Title("Access").
				Options(
					huh.NewOption("Private", string(domain.AccessPrivate)),
					huh.NewOption("Shared", string(domain.AccessShared)),
					huh.NewOption("Public", string(domain.AccessPublic)),
				).
				Value(access),
		),
	).WithTheme(lifeweaveHuhTheme()).WithShowHelp(false)

	return form.Run()
}
