package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/domain"
)

const budgetBarWidth = 20

// FormatGenerateResult renders every variant of one generation, best first.
func FormatGenerateResult(resp *contract.GenerateResponse, c domain.Constraints) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
		Dim("Generation"), TruncID(resp.GenerationID),
		Dim("mode"), string(resp.Mode)))
	if resp.FallbackReason != "" {
		b.WriteString(StyleYellow.Render("  Model suggestions unavailable, using local strategies") + "\n")
		b.WriteString(Dim("  "+resp.FallbackReason) + "\n")
	}
	b.WriteString("\n")
	for _, v := range resp.Variants {
		b.WriteString(FormatVariant(v, c))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatVariant renders one ranked variant with its timeline.
func FormatVariant(v domain.RouteVariant, c domain.Constraints) string {
	var b strings.Builder

	rank := StyleHeader.Render(fmt.Sprintf("#%d", v.Rank))
	b.WriteString(fmt.Sprintf("%s %s  %s  %s\n", rank, Bold(v.Name), SourceBadge(v.Source),
		StyleGreen.Render(fmt.Sprintf("score %d", v.Score))))
	b.WriteString(fmt.Sprintf("   %s %s\n", Dim("id"), v.ID))
	if v.Description != "" {
		b.WriteString("   " + Dim(v.Description) + "\n")
	}
	b.WriteString("\n")

	for _, e := range v.Events {
		if e.TravelTime > 0 {
			b.WriteString(Dim(fmt.Sprintf("        ↓ %s travel", FormatMinutes(e.TravelTime))) + "\n")
		}
		marker := "  "
		if e.IsFixed {
			marker = "📌"
		}
		b.WriteString(fmt.Sprintf("   %s %s  %s  %s\n",
			marker, ClockRange(e.PlannedTime, e.Duration), Bold(e.Title), CategoryBadge(e.Category)))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("   %s %d events, %s travel\n", Dim("Stops:"), v.EventCount, FormatMinutes(v.TravelTime)))
	b.WriteString(fmt.Sprintf("   %s %s\n", Dim("Day:  "), RenderBudget(v.TotalTime, c.MaxTotalTime, budgetBarWidth)))

	for _, a := range v.Advantages {
		b.WriteString(fmt.Sprintf("   %s %s\n", StyleGreen.Render("+"), a))
	}
	for _, d := range v.Disadvantages {
		b.WriteString(fmt.Sprintf("   %s %s\n", StyleRed.Render("-"), d))
	}
	for _, w := range v.Warnings {
		b.WriteString(fmt.Sprintf("   %s %s\n", WarningStyle(w.Code).Render("⚠ "+string(w.Code)), Dim(w.Message)))
	}
	return b.String()
}

// VariantOption is the one-line label used by the interactive picker.
func VariantOption(v domain.RouteVariant) string {
	titles := make([]string, len(v.Events))
	for i, e := range v.Events {
		titles[i] = e.Title
	}
	return fmt.Sprintf("#%d %s (score %d, %s): %s",
		v.Rank, v.Name, v.Score, FormatMinutes(v.TotalTime), strings.Join(titles, " → "))
}

// FormatHistory lists stored generations, newest first.
func FormatHistory(gens []*domain.Generation) string {
	headers := []string{"GENERATION", "WHEN", "MODE", "SOURCE", "BEST", "SCORE"}
	rows := make([][]string, 0, len(gens))
	for _, g := range gens {
		best, score := Dim("--"), ""
		if len(g.Variants) > 0 {
			best = g.Variants[0].Name
			score = fmt.Sprintf("%d", g.Variants[0].Score)
		}
		source := SourceBadge(g.Source)
		if g.FallbackReason != "" {
			source += StyleYellow.Render(" (fallback)")
		}
		rows = append(rows, []string{
			TruncID(g.ID),
			HumanTimestamp(g.CreatedAt),
			g.Mode,
			source,
			best,
			score,
		})
	}
	return RenderTable(headers, rows, 5)
}
