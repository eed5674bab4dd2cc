package models

import "time"

// CategoryBreakdown is one slice of a per-category emission vector.
type CategoryBreakdown struct {
	Category  EmissionCategory `json:"category"`
	Emissions float64          `json:"emissions"`
}

// TodaySummary aggregates the current local day across all four categories.
// Breakdown always contains every category, zero-valued when nothing was logged.
type TodaySummary struct {
	Date      string              `json:"date"`
	Total     float64             `json:"total"`
	Breakdown []CategoryBreakdown `json:"breakdown"`
}

// WeeklyPoint is one day of the trailing seven-day series, oldest first.
type WeeklyPoint struct {
	Day       string    `json:"day"`
	Date      time.Time `json:"date"`
	Emissions float64   `json:"emissions"`
}

// EmissionGoal compares accumulated emissions against a target.
type EmissionGoal struct {
	Label              string  `json:"label"`
	Current            float64 `json:"current"`
	Target             float64 `json:"target"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// Comparison positions the user against an externally supplied reference
// average. Percentage is signed: positive means above the reference.
type Comparison struct {
	Label      string  `json:"label"`
	Actual     float64 `json:"actual"`
	Reference  float64 `json:"reference"`
	Percentage float64 `json:"percentage"`
}

// Streak counts consecutive low-emission days inside the trailing window.
type Streak struct {
	Days        int     `json:"days"`
	WindowDays  int     `json:"windowDays"`
	DailyGoalKg float64 `json:"dailyGoalKg"`
}

// DashboardOverview bundles every dashboard view model for one read.
type DashboardOverview struct {
	Today       TodaySummary  `json:"today"`
	Weekly      []WeeklyPoint `json:"weekly"`
	DailyGoal   EmissionGoal  `json:"dailyGoal"`
	WeeklyGoal  EmissionGoal  `json:"weeklyGoal"`
	Streak      Streak        `json:"streak"`
	Comparisons []Comparison  `json:"comparisons"`
}

// BaselineBreakdown is the per-category daily view of a survey baseline.
type BaselineBreakdown struct {
	Total     float64             `json:"total"`
	Breakdown []CategoryBreakdown `json:"breakdown"`
}
