package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// ValidateCatalog checks the catalog for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateCatalog(schema *CatalogSchema) []error {
	var errs []error

	errs = append(errs, validateOptionalDate("date", &schema.Date)...)
	errs = append(errs, validateDefaults(schema.Defaults)...)

	if len(schema.Events) == 0 {
		errs = append(errs, fmt.Errorf("events: at least one event is required"))
	}

	ids := make(map[string]bool)
	for i, e := range schema.Events {
		errs = append(errs, validateEvent(fmt.Sprintf("events[%d]", i), e, schema.Defaults, ids)...)
	}
	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Duration != nil && *d.Duration <= 0 {
		errs = append(errs, fmt.Errorf("defaults.duration must be positive, got %d", *d.Duration))
	}
	if d.Category != "" {
		if _, err := domain.ParseCategory(d.Category); err != nil {
			errs = append(errs, fmt.Errorf("defaults.category: %w", err))
		}
	}
	errs = append(errs, validatePercent("defaults.popularity", d.Popularity)...)
	return errs
}

func validateEvent(prefix string, e EventImport, d *DefaultsImport, ids map[string]bool) []error {
	var errs []error

	if e.ID == "" {
		errs = append(errs, fmt.Errorf("%s.id is required", prefix))
	} else if ids[e.ID] {
		errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, e.ID))
	}
	ids[e.ID] = true

	if e.Title == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if e.Time == "" {
		errs = append(errs, fmt.Errorf("%s.time is required", prefix))
	} else if _, err := domain.ParseClock(e.Time); err != nil {
		errs = append(errs, fmt.Errorf("%s.time: %w", prefix, err))
	}
	errs = append(errs, validateOptionalDate(prefix+".date", e.Date)...)

	if e.Duration != nil && *e.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%s.duration must be positive, got %d", prefix, *e.Duration))
	}
	if e.Duration == nil && (d == nil || d.Duration == nil) {
		errs = append(errs, fmt.Errorf("%s.duration is required (no default set)", prefix))
	}

	if e.Category != "" {
		if _, err := domain.ParseCategory(e.Category); err != nil {
			errs = append(errs, fmt.Errorf("%s.category: %w", prefix, err))
		}
	}

	errs = append(errs, validatePercent(prefix+".popularity", e.Popularity)...)
	errs = append(errs, validateNonNegative(prefix+".price", e.Price)...)
	errs = append(errs, validateNonNegative(prefix+".capacity", e.Capacity)...)
	return errs
}

func validatePercent(field string, v *int) []error {
	if v != nil && (*v < 0 || *v > 100) {
		return []error{fmt.Errorf("%s must be within 0..100, got %d", field, *v)}
	}
	return nil
}

func validateNonNegative(field string, v *int) []error {
	if v != nil && *v < 0 {
		return []error{fmt.Errorf("%s must not be negative, got %d", field, *v)}
	}
	return nil
}

func validateOptionalDate(field string, dateStr *string) []error {
	if dateStr == nil || *dateStr == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *dateStr); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *dateStr)}
	}
	return nil
}
