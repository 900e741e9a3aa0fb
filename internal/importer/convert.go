package importer

import (
	"fmt"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// Convert turns a validated catalog into domain events, applying the
// catalog date and defaults. Events without a category become "other".
func Convert(schema *CatalogSchema) ([]domain.Event, error) {
	d := schema.Defaults
	if d == nil {
		d = &DefaultsImport{}
	}

	events := make([]domain.Event, 0, len(schema.Events))
	for _, ei := range schema.Events {
		at, err := domain.ParseClock(ei.Time)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ei.ID, err)
		}

		e := domain.Event{
			ID:          ei.ID,
			Title:       ei.Title,
			Description: ei.Description,
			Date:        schema.Date,
			Time:        at,
			Location:    firstNonEmpty(ei.Location, d.Location),
			Popularity:  firstInt(ei.Popularity, d.Popularity, 0),
			Price:       ei.Price,
			Capacity:    ei.Capacity,
		}
		if ei.Date != nil && *ei.Date != "" {
			e.Date = *ei.Date
		}
		e.Duration = firstInt(ei.Duration, d.Duration, 0)

		cat := firstNonEmpty(ei.Category, d.Category)
		if cat == "" {
			e.Category = domain.CategoryOther
		} else if e.Category, err = domain.ParseCategory(cat); err != nil {
			return nil, fmt.Errorf("event %q: %w", ei.ID, err)
		}

		if err := e.Validate(); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(v, def *int, fallback int) int {
	switch {
	case v != nil:
		return *v
	case def != nil:
		return *def
	default:
		return fallback
	}
}
