package models

import "time"

// TransportMode enumerates transport modes recognized by the factor table.
type TransportMode string

const (
	ModeCar   TransportMode = "car"
	ModePlane TransportMode = "plane"
	ModeMetro TransportMode = "metro"
	ModeBus   TransportMode = "bus"
	ModeBike  TransportMode = "bike"
	ModeWalk  TransportMode = "walk"
)

// DietType describes eating habits for both the profile survey and per-meal
// activity logging.
type DietType string

const (
	DietVeg       DietType = "veg"
	DietMixed     DietType = "mixed"
	DietNonVeg    DietType = "non-veg"
	DietMeatHeavy DietType = "meat-heavy"
)

// TransportUsage captures weekly usage of one transport mode.
type TransportUsage struct {
	KmPerWeek float64 `bson:"km_per_week" json:"kmPerWeek"`
}

// BaselineEmissions is the stored output of the baseline calculator.
type BaselineEmissions struct {
	Daily  float64 `bson:"daily" json:"daily"`
	Weekly float64 `bson:"weekly" json:"weekly"`
}

// UserProfile is the current lifestyle survey for one user. Each survey
// submission replaces the document wholesale and appends an immutable
// snapshot to the profile history.
type UserProfile struct {
	UserID         string                           `bson:"user_id" json:"userId"`
	TransportModes map[TransportMode]TransportUsage `bson:"transport_modes,omitempty" json:"transportModes,omitempty"`
	Diet           DietType                         `bson:"diet" json:"diet"`
	MonthlyKwh     float64                          `bson:"monthly_kwh" json:"monthlyKwh"`
	UsesRenewable  bool                             `bson:"uses_renewable" json:"usesRenewable"`
	UsesAcHeater   bool                             `bson:"uses_ac_heater" json:"usesAcHeater"`
	MonthlySpend   float64                          `bson:"monthly_spend" json:"monthlySpend"`
	HouseholdSize  int                              `bson:"household_size" json:"householdSize"`
	MealsPerDay    int                              `bson:"meals_per_day" json:"mealsPerDay"`
	DailyGoalKg    float64                          `bson:"daily_goal_kg,omitempty" json:"dailyGoalKg,omitempty"`
	Baseline       *BaselineEmissions               `bson:"baseline_emissions,omitempty" json:"baselineEmissions,omitempty"`
	UpdatedAt      time.Time                        `bson:"updated_at" json:"updatedAt"`
}

// Normalize coerces out-of-range survey fields to their documented minimums:
// household size and meals per day are at least 1, negative quantities become 0.
func (p *UserProfile) Normalize() {
	if p.HouseholdSize < 1 {
		p.HouseholdSize = 1
	}
	if p.MealsPerDay < 1 {
		p.MealsPerDay = 1
	}
	if p.MonthlyKwh < 0 {
		p.MonthlyKwh = 0
	}
	if p.MonthlySpend < 0 {
		p.MonthlySpend = 0
	}
	for mode, usage := range p.TransportModes {
		if usage.KmPerWeek < 0 {
			p.TransportModes[mode] = TransportUsage{KmPerWeek: 0}
		}
	}
}
