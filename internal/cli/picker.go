package cli

import (
	"fmt"

	"github.com/alexanderramin/dayroute/internal/cli/formatter"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// dayrouteHuhTheme styles huh forms with the formatter palette.
func dayrouteHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// variantPickerForm builds a single-select form over variants, best first.
// The chosen variant ID is written to result.
func variantPickerForm(variants []domain.RouteVariant, result *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(variants))
	for _, v := range variants {
		options = append(options, huh.NewOption(formatter.VariantOption(v), v.ID))
	}
	if len(variants) > 0 {
		*result = variants[0].ID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which route?").
				Description("Your itinerary will be replaced by the chosen route.").
				Options(options...).
				Value(result),
		),
	).WithTheme(dayrouteHuhTheme()).WithShowHelp(false)
}

func pickVariant(variants []domain.RouteVariant) (string, error) {
	if len(variants) == 0 {
		return "", fmt.Errorf("nothing to pick: %w", domain.ErrVariantNotFound)
	}
	var id string
	if err := variantPickerForm(variants, &id).Run(); err != nil {
		return "", fmt.Errorf("route picker: %w", err)
	}
	return id, nil
}
