package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// FormatItinerary renders the working itinerary. Planned times and travel
// appear once a variant has been selected; pins are marked with 📌.
func FormatItinerary(items []domain.ItineraryItem, route string) string {
	headers := []string{"#", "ID", "AT", "EVENT", "CATEGORY", "LOCATION", "TRAVEL"}
	rows := make([][]string, 0, len(items))
	total := 0
	for i, it := range items {
		at := Dim(it.Event.Time.String())
		if it.PlannedTime != nil {
			at = ClockRange(*it.PlannedTime, it.Event.Duration)
		}
		if it.Pin != nil {
			at = StyleYellow.Render("📌 " + it.Pin.String())
			if it.PlannedTime != nil {
				at = StyleYellow.Render("📌 " + ClockRange(*it.PlannedTime, it.Event.Duration))
			}
		}
		travel := Dim("--")
		if it.PlannedTime != nil {
			travel = FormatMinutes(it.TravelTime)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Dim(it.Event.ID),
			at,
			Bold(it.Event.Title),
			CategoryBadge(it.Event.Category),
			it.Event.Location,
			travel,
		})
		total += it.Event.Duration + it.TravelTime
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, 0, 6))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Route:"), route))
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Total:"), FormatMinutes(total)))
	return b.String()
}
