package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryMusic      Category = "music"
	CategoryWorkshop   Category = "workshop"
	CategoryCinema     Category = "cinema"
	CategoryFood       Category = "food"
	CategoryArt        Category = "art"
	CategorySport      Category = "sport"
	CategoryCulture    Category = "culture"
	CategoryRecreation Category = "recreation"
	CategoryShopping   Category = "shopping"
	CategoryTheater    Category = "theater"
	CategoryPhoto      Category = "photo"
	CategoryOther      Category = "other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryMusic, CategoryWorkshop, CategoryCinema, CategoryFood,
	CategoryArt, CategorySport, CategoryCulture, CategoryRecreation,
	CategoryShopping, CategoryTheater, CategoryPhoto, CategoryOther,
}

// ParseCategory normalizes s and rejects values outside the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
