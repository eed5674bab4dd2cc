package models

import (
	"strings"
	"time"
)

// EmissionCategory enumerates the four tracked emission categories.
type EmissionCategory string

const (
	CategoryTravel   EmissionCategory = "Travel"
	CategoryFood     EmissionCategory = "Food"
	CategoryEnergy   EmissionCategory = "Energy"
	CategoryShopping EmissionCategory = "Shopping"
)

// Categories lists every category in display order. Aggregations iterate this
// slice so breakdown vectors always carry all four entries.
var Categories = []EmissionCategory{CategoryTravel, CategoryFood, CategoryEnergy, CategoryShopping}

// ParseCategory normalizes free-form category text. The second return reports
// whether the input named a known category.
func ParseCategory(raw string) (EmissionCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "travel":
		return CategoryTravel, true
	case "food":
		return CategoryFood, true
	case "energy":
		return CategoryEnergy, true
	case "shopping":
		return CategoryShopping, true
	}
	return "", false
}

// Activity is a single logged emission event. Records are immutable once
// stored; the only lifecycle transition after creation is deletion.
type Activity struct {
	ID          string           `bson:"_id,omitempty" json:"id"`
	UserID      string           `bson:"user_id" json:"userId"`
	Category    EmissionCategory `bson:"category" json:"category"`
	Emissions   float64          `bson:"emissions" json:"emissions"` // kg CO2e
	Description string           `bson:"description" json:"description"`
	OccurredAt  time.Time        `bson:"occurred_at" json:"occurredAt"`
	CreatedAt   time.Time        `bson:"created_at" json:"createdAt"`
}
