package simulator

import (
	"math"

	"github.com/seenimoa/solarsim/pkg/models"
)

// TemperatureLoss returns the thermal derating for a latitude band.
// Hotter, lower latitudes lose more.
func TemperatureLoss(latitude float64) float64 {
	abs := math.Abs(latitude)
	switch {
	case abs < TropicalLatitude:
		return TropicalTemperatureLoss
	case abs < TemperateLatitude:
		return TemperateTemperatureLoss
	default:
		return PolarTemperatureLoss
	}
}

// EfficiencyFor derives the loss factors for a site. The three terms are
// independent and combine multiplicatively.
func EfficiencyFor(latitude float64) models.EfficiencyFactors {
	tempLoss := TemperatureLoss(latitude)
	return models.EfficiencyFactors{
		TemperatureLoss:    tempLoss,
		InverterEfficiency: InverterEfficiency,
		DirtShadingLoss:    DirtShadingLoss,
		SystemEfficiency:   (1 - tempLoss) * InverterEfficiency * (1 - DirtShadingLoss),
	}
}
