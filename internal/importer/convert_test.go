package importer

import (
	"testing"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MinimalCatalog(t *testing.T) {
	events, err := Convert(validMinimalCatalog())
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "1", e.ID)
	assert.Equal(t, "Opening Concert", e.Title)
	assert.Equal(t, "2025-07-12", e.Date)
	assert.Equal(t, domain.MustClock("10:00"), e.Time)
	assert.Equal(t, 60, e.Duration)
	assert.Equal(t, domain.CategoryMusic, e.Category)
	assert.Nil(t, e.Price)
}

func TestConvert_DefaultsApplication(t *testing.T) {
	c := &CatalogSchema{
		Date: "2025-07-12",
		Defaults: &DefaultsImport{
			Duration:   ptrInt(45),
			Location:   "Main Square",
			Category:   "culture",
			Popularity: ptrInt(60),
		},
		Events: []EventImport{
			{ID: "1", Title: "Walk", Time: "11:00"},
			{ID: "2", Title: "Tasting", Time: "13:00", Duration: ptrInt(90), Location: "Food Court",
				Category: "Food", Popularity: ptrInt(85), Date: ptrStr("2025-07-13"), Price: ptrInt(12)},
		},
	}

	events, err := Convert(c)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, 45, events[0].Duration)
	assert.Equal(t, "Main Square", events[0].Location)
	assert.Equal(t, domain.CategoryCulture, events[0].Category)
	assert.Equal(t, 60, events[0].Popularity)
	assert.Equal(t, "2025-07-12", events[0].Date)

	assert.Equal(t, 90, events[1].Duration)
	assert.Equal(t, "Food Court", events[1].Location)
	assert.Equal(t, domain.CategoryFood, events[1].Category)
	assert.Equal(t, 85, events[1].Popularity)
	assert.Equal(t, "2025-07-13", events[1].Date)
	require.NotNil(t, events[1].Price)
	assert.Equal(t, 12, *events[1].Price)
}

func TestConvert_MissingCategoryBecomesOther(t *testing.T) {
	c := validMinimalCatalog()
	c.Events[0].Category = ""

	events, err := Convert(c)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, events[0].Category)
}

func TestConvert_RejectsInvalidEvent(t *testing.T) {
	c := validMinimalCatalog()
	c.Events[0].Duration = nil

	_, err := Convert(c)
	assert.Error(t, err)
}
