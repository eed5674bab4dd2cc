package emissions

import (
	"fmt"
	"math"

	"github.com/madiallo/carbontrack/internal/domain/models"
)

// TravelDetails selects the transport mode for a travel activity.
type TravelDetails struct {
	Mode models.TransportMode `json:"mode"`
}

// FoodDetails selects the diet type for a food activity.
type FoodDetails struct {
	DietType models.DietType `json:"dietType"`
}

// EnergyDetails carries appliance usage logged alongside direct consumption.
type EnergyDetails struct {
	AcHours     float64 `json:"acHours"`
	HeaterHours float64 `json:"heaterHours"`
}

// Input is a category-tagged activity calculation request. Only the detail
// struct matching Category is consulted; a nil detail struct means "use the
// documented defaults" (car, mixed diet, no appliance hours).
type Input struct {
	Category models.EmissionCategory `json:"category"`
	Value    float64                 `json:"value"`
	Travel   *TravelDetails          `json:"travel,omitempty"`
	Food     *FoodDetails            `json:"food,omitempty"`
	Energy   *EnergyDetails          `json:"energy,omitempty"`
}

// Calculate converts one activity into kg CO2e.
//
// Defaulting rules: unknown category yields 0 without an error, negative
// quantities contribute 0 to their term, and a food value of zero or less
// counts as a single meal. The function never panics; a non-finite result is
// reported as an error and the caller decides whether to fall back to zero.
func Calculate(in Input) (float64, error) {
	var emission float64

	switch in.Category {
	case models.CategoryTravel:
		mode := models.ModeCar
		if in.Travel != nil && in.Travel.Mode != "" {
			mode = in.Travel.Mode
		}
		emission = nonNegative(in.Value) * TravelFactor(mode)

	case models.CategoryFood:
		diet := models.DietMixed
		if in.Food != nil && in.Food.DietType != "" {
			diet = in.Food.DietType
		}
		meals := in.Value
		if meals <= 0 {
			meals = 1
		}
		emission = meals * FoodFactor(diet)

	case models.CategoryEnergy:
		kwh := nonNegative(in.Value) * FactorPerKwh
		var appliance float64
		if in.Energy != nil {
			appliance = (nonNegative(in.Energy.AcHours) + nonNegative(in.Energy.HeaterHours)) * FactorPerApplianceHr
		}
		emission = kwh + appliance

	case models.CategoryShopping:
		emission = nonNegative(in.Value) * FactorPerCurrencyUnit

	default:
		return 0, nil
	}

	if math.IsNaN(emission) || math.IsInf(emission, 0) {
		return 0, fmt.Errorf("non-finite emission for category %s value %v", in.Category, in.Value)
	}

	return emission, nil
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
