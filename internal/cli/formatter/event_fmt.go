package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// FormatEventList renders the catalog as a table ordered as given.
func FormatEventList(events []domain.Event) string {
	headers := []string{"ID", "TIME", "LEN", "EVENT", "CATEGORY", "LOCATION", "POP"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			Dim(e.ID),
			ClockRange(e.Time, e.Duration),
			FormatMinutes(e.Duration),
			Bold(e.Title),
			CategoryBadge(e.Category),
			e.Location,
			Popularity(e.Popularity),
		})
	}
	return RenderTable(headers, rows, 2)
}

// FormatEventDetail renders one catalog event.
func FormatEventDetail(e *domain.Event) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n\n", Bold(e.Title), CategoryBadge(e.Category)))
	b.WriteString(fmt.Sprintf("  ID:         %s\n", e.ID))
	if e.Date != "" {
		b.WriteString(fmt.Sprintf("  Date:       %s\n", e.Date))
	}
	b.WriteString(fmt.Sprintf("  Time:       %s (%s)\n", ClockRange(e.Time, e.Duration), FormatMinutes(e.Duration)))
	b.WriteString(fmt.Sprintf("  Location:   %s\n", e.Location))
	b.WriteString(fmt.Sprintf("  Popularity: %s %s\n", Popularity(e.Popularity), Dim(fmt.Sprintf("%d/100", e.Popularity))))
	if e.Price != nil {
		b.WriteString(fmt.Sprintf("  Price:      %d\n", *e.Price))
	}
	if e.Description != "" {
		b.WriteString("\n  " + e.Description + "\n")
	}
	return RenderBox("Event", b.String())
}
