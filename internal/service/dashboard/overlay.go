package dashboard

import "github.com/madiallo/carbontrack/internal/emissions"

// ProgressPercent derives a goal-progress ratio in percent. A non-positive
// target yields 0 rather than dividing by zero.
func ProgressPercent(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return emissions.Round2(current / target * 100)
}

// ComparisonPercent positions actual against an external reference average.
// The sign indicates above (positive) or below (negative) the reference.
func ComparisonPercent(actual, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return emissions.Round2((actual - reference) / reference * 100)
}
