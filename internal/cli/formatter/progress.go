package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBudget renders how much of a time budget a day uses, like
// [████░░░░] 5h 30m / 8h. Green up to 80%, yellow up to the limit, red over.
// A non-positive budget renders the used time alone.
func RenderBudget(used, budget, width int) string {
	if budget <= 0 {
		return FormatMinutes(used)
	}
	if width < 2 {
		width = 2
	}

	pct := float64(used) / float64(budget)
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct > 1:
		style = StyleRed
	case pct > 0.8:
		style = StyleYellow
	}

	label := fmt.Sprintf("%s / %s", FormatMinutes(used), FormatMinutes(budget))
	if used > budget {
		label += StyleRed.Render(fmt.Sprintf(" (over by %s)", FormatMinutes(used-budget)))
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), label)
}
