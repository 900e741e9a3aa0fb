package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/intelligence"
)

// FormatExplanation renders a variant narrative for terminal output.
func FormatExplanation(e *intelligence.VariantExplanation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n", StyleBold.Render(e.Summary)))

	if len(e.Highlights) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Highlights"))
		b.WriteString("\n")
		for _, h := range e.Highlights {
			b.WriteString(fmt.Sprintf("  %s %s\n", StyleGreen.Render("•"), h))
		}
	}

	b.WriteString("\n")
	b.WriteString(Dim("  Source: " + e.Source))
	return RenderBox("Explanation", b.String())
}
