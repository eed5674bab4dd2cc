package emissions

import (
	"math"

	"github.com/madiallo/carbontrack/internal/domain/models"
)

// Baseline computes the daily and weekly baseline emissions for a survey
// profile. Transport and diet are personal; energy and shopping are shared
// across the household and divided by its size. Results are rounded to two
// decimal places.
func Baseline(p models.UserProfile) models.BaselineEmissions {
	personal, shared := weeklyComponents(p)
	weekly := personal.total() + shared.total()/householdSize(p)

	return models.BaselineEmissions{
		Daily:  Round2(weekly / 7),
		Weekly: Round2(weekly),
	}
}

// BaselineBreakdown produces the per-category daily view of the baseline:
// four category figures, each weekly/7, plus their sum.
func BaselineBreakdown(p models.UserProfile) models.BaselineBreakdown {
	personal, shared := weeklyComponents(p)
	size := householdSize(p)

	daily := map[models.EmissionCategory]float64{
		models.CategoryTravel:   personal.transport / 7,
		models.CategoryFood:     personal.diet / 7,
		models.CategoryEnergy:   shared.energy / size / 7,
		models.CategoryShopping: shared.shopping / size / 7,
	}

	out := models.BaselineBreakdown{Breakdown: make([]models.CategoryBreakdown, 0, len(models.Categories))}
	for _, cat := range models.Categories {
		v := Round2(daily[cat])
		out.Breakdown = append(out.Breakdown, models.CategoryBreakdown{Category: cat, Emissions: v})
		out.Total += v
	}
	out.Total = Round2(out.Total)
	return out
}

type personalWeekly struct {
	transport float64
	diet      float64
}

func (p personalWeekly) total() float64 { return p.transport + p.diet }

type sharedWeekly struct {
	energy   float64
	shopping float64
}

func (s sharedWeekly) total() float64 { return s.energy + s.shopping }

func weeklyComponents(p models.UserProfile) (personalWeekly, sharedWeekly) {
	var personal personalWeekly
	for mode, usage := range p.TransportModes {
		personal.transport += nonNegative(usage.KmPerWeek) * TravelFactor(mode)
	}

	meals := float64(p.MealsPerDay)
	if meals < 1 {
		meals = 1
	}
	personal.diet = meals * FoodFactor(p.Diet) * 7

	energy := nonNegative(p.MonthlyKwh) * FactorPerKwh
	if p.UsesRenewable {
		energy *= 0.5
	}
	if p.UsesAcHeater {
		energy *= 1.2
	}

	shared := sharedWeekly{
		energy:   energy / AvgWeeksPerMonth,
		shopping: nonNegative(p.MonthlySpend) * FactorPerCurrencyUnit / AvgWeeksPerMonth,
	}

	return personal, shared
}

func householdSize(p models.UserProfile) float64 {
	if p.HouseholdSize < 1 {
		return 1
	}
	return float64(p.HouseholdSize)
}

// Round2 rounds to two decimal places for display and storage.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
