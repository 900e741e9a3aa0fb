package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// nullableIntToValue converts a *int to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the int value.
func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableClockToValue stores a *domain.Clock as minutes after midnight.
func nullableClockToValue(c *domain.Clock) interface{} {
	if c == nil {
		return nil
	}
	return int(*c)
}

func parseNullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func parseNullableClock(v sql.NullInt64) *domain.Clock {
	if !v.Valid {
		return nil
	}
	c := domain.Clock(v.Int64)
	return &c
}

// parseTime reads an RFC3339 timestamp, returning the zero time on bad input.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// timestampLayout is RFC3339 with fixed-width nanoseconds so stored values
// sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// nowUTC returns the current UTC time in timestampLayout.
func nowUTC() string {
	return formatTime(time.Now())
}
