package simulator

import (
	"math"

	"github.com/seenimoa/solarsim/pkg/models"
	"github.com/seenimoa/solarsim/pkg/utils"
)

// IsNorthern reports whether latitude uses the July-peaked curve.
// The equator is not northern.
func IsNorthern(latitude float64) bool {
	return latitude > 0
}

// SeasonalVariation returns the sun-hour multiplier for month index
// 0 (January) through 11 (December). The result lies in [0.7, 1.3].
func SeasonalVariation(month int, northern bool) float64 {
	angle := float64(month) / 12 * 2 * math.Pi
	if northern {
		return 1 + SeasonalAmplitude*math.Cos(angle-math.Pi)
	}
	return 1 + SeasonalAmplitude*math.Cos(angle)
}

// ProjectMonthly spreads the average daily sun hours over twelve months and
// converts each month to energy. Entries are ordered January to December
// and rounded to two decimals.
func ProjectMonthly(avgSunHours, systemSizeKW, latitude, systemEfficiency float64) []models.MonthlyData {
	northern := IsNorthern(latitude)
	out := make([]models.MonthlyData, len(monthNames))
	for i, name := range monthNames {
		sunHours := avgSunHours * SeasonalVariation(i, northern)
		output := systemSizeKW * sunHours * float64(daysInMonth[i]) * systemEfficiency
		out[i] = models.MonthlyData{
			Month:     name,
			OutputKWh: utils.Round2(output),
			SunHours:  utils.Round2(sunHours),
		}
	}
	return out
}
