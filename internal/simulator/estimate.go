// Package simulator estimates residential solar output, cost and payback.
//
// Estimate is a pure function: it performs no I/O, holds no shared state
// and may be called from any number of goroutines.
package simulator

import "github.com/seenimoa/solarsim/pkg/models"

// Financials is the annual roll-up of a monthly projection.
type Financials struct {
	AnnualOutputKWh  float64
	TotalCostUSD     float64
	AnnualSavingsUSD float64
	ROIYears         float64
}

// Estimate validates req and projects its yearly output and payback.
// The only errors returned are *ValidationError values.
//
// PanelEfficiency is validated but does not enter the output math; the
// panel's rated wattage already reflects it.
func Estimate(req models.SimulationRequest) (*models.SimulationResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	numPanels := PanelCount(req.RoofSizeM2)
	systemSizeKW := SystemSizeKW(numPanels, req.PanelWattage)
	factors := EfficiencyFor(req.Latitude)
	monthly := ProjectMonthly(req.AvgSunHoursPerDay, systemSizeKW, req.Latitude, factors.SystemEfficiency)
	fin := Aggregate(monthly, systemSizeKW, req.PricePerWatt)

	return &models.SimulationResponse{
		EstimatedOutputKWh: fin.AnnualOutputKWh,
		EstimatedCostUSD:   fin.TotalCostUSD,
		EstimatedROIYears:  fin.ROIYears,
		SystemSizeKW:       systemSizeKW,
		NumPanels:          numPanels,
		MonthlyBreakdown:   monthly,
		EfficiencyFactors:  factors,
	}, nil
}

// SystemSizeKW is the combined nameplate power of numPanels panels.
func SystemSizeKW(numPanels, panelWattage int) float64 {
	return float64(numPanels) * float64(panelWattage) / 1000
}

// Aggregate sums the monthly outputs and derives cost, savings and ROI.
// ROI is NoPaybackROIYears when the system saves nothing.
func Aggregate(monthly []models.MonthlyData, systemSizeKW, pricePerWatt float64) Financials {
	var annual float64
	for _, m := range monthly {
		annual += m.OutputKWh
	}

	cost := systemSizeKW * 1000 * pricePerWatt
	savings := annual * ElectricityPricePerKWh

	roi := NoPaybackROIYears
	if savings > 0 {
		roi = cost / savings
	}

	return Financials{
		AnnualOutputKWh:  annual,
		TotalCostUSD:     cost,
		AnnualSavingsUSD: savings,
		ROIYears:         roi,
	}
}
