// Package emissions implements the deterministic carbon calculation engine:
// the static emission factor tables, the per-activity calculator, and the
// survey baseline calculator. Everything here is pure and safe for concurrent
// use.
package emissions

import "github.com/madiallo/carbontrack/internal/domain/models"

// Emission factors in kg CO2e, based on IPCC/DEFRA style reference datasets.
//
// The food table is the single canonical one used by both the activity
// calculator and the baseline calculator: veg 1.2, mixed 2.5, non-veg 2.5
// (treated like mixed per meal), meat-heavy 3.5.
const (
	// Energy factors.
	FactorPerKwh          = 0.82 // grid average, per kWh
	FactorPerApplianceHr  = 1.23 // AC or heater, per hour (1.5 kW * 0.82)
	FactorPerCurrencyUnit = 0.0004

	// AvgWeeksPerMonth converts monthly survey figures to weekly ones.
	AvgWeeksPerMonth = 4.3
)

var travelFactors = map[models.TransportMode]float64{
	models.ModeCar:   0.192, // petrol, per km
	models.ModePlane: 0.145, // economy, per km
	models.ModeMetro: 0.045,
	models.ModeBus:   0.10,
	models.ModeBike:  0,
	models.ModeWalk:  0,
}

var foodFactors = map[models.DietType]float64{
	models.DietVeg:       1.2, // per meal
	models.DietMixed:     2.5,
	models.DietNonVeg:    2.5,
	models.DietMeatHeavy: 3.5,
}

// TravelFactor resolves the per-km factor for a transport mode. Unknown
// modes fall back to car, the documented default.
func TravelFactor(mode models.TransportMode) float64 {
	if f, ok := travelFactors[mode]; ok {
		return f
	}
	return travelFactors[models.ModeCar]
}

// FoodFactor resolves the per-meal factor for a diet. "vegetarian" and
// "processed" are accepted aliases from the survey vocabulary; anything else
// unknown falls back to mixed.
func FoodFactor(diet models.DietType) float64 {
	switch diet {
	case "vegetarian":
		return foodFactors[models.DietVeg]
	case "processed":
		return foodFactors[models.DietMeatHeavy]
	}
	if f, ok := foodFactors[diet]; ok {
		return f
	}
	return foodFactors[models.DietMixed]
}
