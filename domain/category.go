package domain

import (
	"errors"
	"strings"
)

// Category is one entry of the closed food category set.
type Category string

const (
	CategoryDairy      Category = "Dairy"
	CategoryMeat       Category = "Meat"
	CategoryVegetable  Category = "Vegetable"
	CategoryFruit      Category = "Fruit"
	CategoryBakery     Category = "Bakery"
	CategoryBeverages  Category = "Beverages"
	CategoryGrains     Category = "Grains"
	CategorySnacks     Category = "Snacks"
	CategoryCondiments Category = "Condiments"
	CategoryOther      Category = "Other"
)

var ErrInvalidCategory = errors.New("invalid category")

// Categories lists the enumeration in display order.
var Categories = []Category{
	CategoryDairy,
	CategoryMeat,
	CategoryVegetable,
	CategoryFruit,
	CategoryBakery,
	CategoryBeverages,
	CategoryGrains,
	CategorySnacks,
	CategoryCondiments,
	CategoryOther,
}

var categoryLookup = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[strings.ToLower(string(c))] = c
	}
	return m
}()

// ParseCategory maps raw input onto the canonical category, ignoring case and
// surrounding whitespace. Unknown values are rejected with ErrInvalidCategory.
func ParseCategory(raw string) (Category, error) {
	c, ok := categoryLookup[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) String() string {
	return string(c)
}
