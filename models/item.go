package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the top-level catalog category for an item
type Category string

const (
	CategorySports Category = "sports"
	CategoryGames  Category = "games"
	CategoryMusic  Category = "music"
	CategoryOther  Category = "other"
)

// KnownCategories lists every category the catalog accepts
var KnownCategories = []Category{CategorySports, CategoryGames, CategoryMusic, CategoryOther}

// IsKnown reports whether the category is one of the accepted values
func (c Category) IsKnown() bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Item is a catalog row in the items table
type Item struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Category       Category  `json:"category" db:"category"`
	Subcategory    string    `json:"subcategory" db:"subcategory"`
	Group          *string   `json:"group" db:"group_name"`
	Description    *string   `json:"description" db:"description"`
	ItemYear       *int      `json:"item_year" db:"item_year"`
	ItemYearTo     *int      `json:"item_year_to" db:"item_year_to"`
	ReferenceURL   *string   `json:"reference_url" db:"reference_url"`
	ImageURL       *string   `json:"image_url" db:"image_url"`
	ViewCount      int       `json:"view_count" db:"view_count"`
	SelectionCount int       `json:"selection_count" db:"selection_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ItemCreate carries the fields for inserting a new catalog item
type ItemCreate struct {
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	Subcategory  string   `json:"subcategory"`
	Group        *string  `json:"group"`
	Description  *string  `json:"description"`
	ItemYear     *int     `json:"item_year"`
	ItemYearTo   *int     `json:"item_year_to"`
	ReferenceURL *string  `json:"reference_url"`
	ImageURL     *string  `json:"image_url"`
}

// ItemUpdate carries optional fields for a partial item update;
// nil fields are left untouched
type ItemUpdate struct {
	Name         *string  `json:"name"`
	Group        *string  `json:"group"`
	Description  *string  `json:"description"`
	ItemYear     *int     `json:"item_year"`
	ItemYearTo   *int     `json:"item_year_to"`
	ReferenceURL *string  `json:"reference_url"`
	ImageURL     *string  `json:"image_url"`
}

// ItemSearchFilters narrows an item search
type ItemSearchFilters struct {
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	SearchQuery string   `json:"search_query"`
	YearFrom    *int     `json:"year_from"`
	YearTo      *int     `json:"year_to"`
	SortBy      string   `json:"sort_by"` // name, popularity, recent
}
