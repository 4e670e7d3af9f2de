package simulator

import (
	"math"

	"github.com/seenimoa/solarsim/pkg/models"
)

// Validate rejects physically impossible requests. Checks run in a fixed
// order and the first failure wins.
//
// Only roof size and panel efficiency are inspected. Panel wattage, price
// per watt and longitude pass through unchecked.
func Validate(req models.SimulationRequest) error {
	if req.RoofSizeM2 <= 0 {
		return ErrInvalidRoofSize
	}
	if req.PanelEfficiency <= 0 || req.PanelEfficiency > 100 {
		return ErrInvalidPanelEfficiency
	}
	if PanelCount(req.RoofSizeM2) == 0 {
		return ErrRoofTooSmall
	}
	return nil
}

// ValidateRoof applies the roof checks of Validate on their own, for callers
// that fan one roof out over several panel types.
func ValidateRoof(roofSizeM2 float64) error {
	if roofSizeM2 <= 0 {
		return ErrInvalidRoofSize
	}
	if PanelCount(roofSizeM2) == 0 {
		return ErrRoofTooSmall
	}
	return nil
}

// PanelCount returns how many whole panels fit on roofSizeM2.
func PanelCount(roofSizeM2 float64) int {
	if roofSizeM2 <= 0 {
		return 0
	}
	return int(math.Floor(roofSizeM2 / PanelAreaM2))
}
