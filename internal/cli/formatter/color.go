package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorOrange = lipgloss.Color("#d65d0e")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

type categoryStyle struct {
	label string
	icon  string
	color lipgloss.Color
}

var categoryStyles = map[domain.Category]categoryStyle{
	domain.CategoryMusic:      {"Music", "♪", ColorPurple},
	domain.CategoryWorkshop:   {"Workshop", "✎", ColorYellow},
	domain.CategoryCinema:     {"Cinema", "▶", ColorBlue},
	domain.CategoryFood:       {"Food", "◆", ColorOrange},
	domain.CategoryArt:        {"Art", "✦", ColorPurple},
	domain.CategorySport:      {"Sport", "⚑", ColorGreen},
	domain.CategoryCulture:    {"Culture", "❖", ColorAqua},
	domain.CategoryRecreation: {"Recreation", "☼", ColorGreen},
	domain.CategoryShopping:   {"Shopping", "¤", ColorYellow},
	domain.CategoryTheater:    {"Theater", "☺", ColorRed},
	domain.CategoryPhoto:      {"Photo", "◎", ColorBlue},
	domain.CategoryOther:      {"Other", "•", ColorDim},
}

func lookupCategory(c domain.Category) categoryStyle {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return categoryStyles[domain.CategoryOther]
}

// CategoryLabel returns the display name of c.
func CategoryLabel(c domain.Category) string {
	return lookupCategory(c).label
}

// CategoryBadge returns a colored "icon Label" badge such as "♪ Music".
func CategoryBadge(c domain.Category) string {
	s := lookupCategory(c)
	return lipgloss.NewStyle().Foreground(s.color).Render(s.icon + " " + s.label)
}

// SourceBadge marks where a variant came from.
func SourceBadge(src domain.VariantSource) string {
	if src == domain.SourceRemote {
		return StylePurple.Render("◆ model")
	}
	return StyleBlue.Render("● local")
}

// WarningStyle colors a warning by how much it affects the day.
func WarningStyle(code domain.WarningCode) lipgloss.Style {
	switch code {
	case domain.WarnScheduleConflict, domain.WarnEndTimeExceeded:
		return StyleRed
	case domain.WarnBudgetExceeded:
		return StyleYellow
	default:
		return StyleDim
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
