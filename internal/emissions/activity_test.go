package emissions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madiallo/carbontrack/internal/domain/models"
)

func TestCalculateTravel(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		details  *TravelDetails
		expected float64
	}{
		{"car by default", 100, nil, 19.2},
		{"explicit bus", 50, &TravelDetails{Mode: models.ModeBus}, 5},
		{"bike is always zero", 1234, &TravelDetails{Mode: models.ModeBike}, 0},
		{"walk is always zero", 10, &TravelDetails{Mode: models.ModeWalk}, 0},
		{"unknown mode falls back to car", 100, &TravelDetails{Mode: "rocket"}, 19.2},
		{"negative distance contributes nothing", -20, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(Input{Category: models.CategoryTravel, Value: tt.value, Travel: tt.details})
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestCalculateFood(t *testing.T) {
	t.Run("zero meals counts as one", func(t *testing.T) {
		got, err := Calculate(Input{Category: models.CategoryFood, Value: 0, Food: &FoodDetails{DietType: models.DietVeg}})
		require.NoError(t, err)
		assert.InDelta(t, 1.2, got, 1e-9)
	})

	t.Run("meal count multiplies the factor", func(t *testing.T) {
		got, err := Calculate(Input{Category: models.CategoryFood, Value: 3, Food: &FoodDetails{DietType: models.DietMeatHeavy}})
		require.NoError(t, err)
		assert.InDelta(t, 10.5, got, 1e-9)
	})

	t.Run("unknown diet falls back to mixed", func(t *testing.T) {
		got, err := Calculate(Input{Category: models.CategoryFood, Value: 2, Food: &FoodDetails{DietType: "fruitarian"}})
		require.NoError(t, err)
		assert.InDelta(t, 5, got, 1e-9)
	})

	t.Run("missing details default to mixed", func(t *testing.T) {
		got, err := Calculate(Input{Category: models.CategoryFood, Value: 1})
		require.NoError(t, err)
		assert.InDelta(t, 2.5, got, 1e-9)
	})
}

func TestCalculateEnergy(t *testing.T) {
	t.Run("kwh and appliance terms are additive", func(t *testing.T) {
		got, err := Calculate(Input{
			Category: models.CategoryEnergy,
			Value:    10,
			Energy:   &EnergyDetails{AcHours: 2, HeaterHours: 1},
		})
		require.NoError(t, err)
		assert.InDelta(t, 10*0.82+3*1.23, got, 1e-9)
	})

	t.Run("appliance hours alone", func(t *testing.T) {
		got, err := Calculate(Input{
			Category: models.CategoryEnergy,
			Value:    0,
			Energy:   &EnergyDetails{AcHours: 4},
		})
		require.NoError(t, err)
		assert.InDelta(t, 4*1.23, got, 1e-9)
	})

	t.Run("negative kwh contributes nothing", func(t *testing.T) {
		got, err := Calculate(Input{Category: models.CategoryEnergy, Value: -5})
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestCalculateShopping(t *testing.T) {
	got, err := Calculate(Input{Category: models.CategoryShopping, Value: 1500})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, got, 1e-9)
}

func TestCalculateUnknownCategoryReturnsZero(t *testing.T) {
	got, err := Calculate(Input{Category: "Llamas", Value: 42})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestCalculateAlwaysFiniteAndNonNegative(t *testing.T) {
	values := []float64{0, 0.1, 1, 99.9, 1e6, -3}
	for _, cat := range models.Categories {
		for _, v := range values {
			got, err := Calculate(Input{Category: cat, Value: v})
			require.NoError(t, err, "category %s value %v", cat, v)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "category %s value %v", cat, v)
			assert.GreaterOrEqual(t, got, 0.0, "category %s value %v", cat, v)
		}
	}
}

func TestCalculateNonFiniteInputIsAnError(t *testing.T) {
	_, err := Calculate(Input{Category: models.CategoryFood, Value: math.NaN()})
	assert.Error(t, err)

	_, err = Calculate(Input{Category: models.CategoryShopping, Value: math.Inf(1)})
	assert.Error(t, err)
}
