// Package models defines the core data structures used throughout solarsim.
package models

import (
	"encoding/json"
	"fmt"
)

// MissingFieldError reports a request field that was absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// SimulationRequest is the input to a single solar estimate.
type SimulationRequest struct {
	Latitude          float64 `json:"latitude"`              // degrees, sign selects hemisphere
	Longitude         float64 `json:"longitude"`             // degrees, informational only
	AvgSunHoursPerDay float64 `json:"avg_sun_hours_per_day"` // peak sun hours
	RoofSizeM2        float64 `json:"roof_size_m2"`          // usable roof area
	PanelEfficiency   float64 `json:"panel_efficiency"`      // percent, (0, 100]
	PanelWattage      int     `json:"panel_wattage"`         // watts per panel
	PricePerWatt      float64 `json:"price_per_watt"`        // USD per watt installed
}

// UnmarshalJSON requires every field to be present and non-null. Absent
// values are never defaulted to zero.
func (r *SimulationRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		Latitude          *float64 `json:"latitude"`
		Longitude         *float64 `json:"longitude"`
		AvgSunHoursPerDay *float64 `json:"avg_sun_hours_per_day"`
		RoofSizeM2        *float64 `json:"roof_size_m2"`
		PanelEfficiency   *float64 `json:"panel_efficiency"`
		PanelWattage      *int     `json:"panel_wattage"`
		PricePerWatt      *float64 `json:"price_per_watt"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch {
	case wire.Latitude == nil:
		return &MissingFieldError{Field: "latitude"}
	case wire.Longitude == nil:
		return &MissingFieldError{Field: "longitude"}
	case wire.AvgSunHoursPerDay == nil:
		return &MissingFieldError{Field: "avg_sun_hours_per_day"}
	case wire.RoofSizeM2 == nil:
		return &MissingFieldError{Field: "roof_size_m2"}
	case wire.PanelEfficiency == nil:
		return &MissingFieldError{Field: "panel_efficiency"}
	case wire.PanelWattage == nil:
		return &MissingFieldError{Field: "panel_wattage"}
	case wire.PricePerWatt == nil:
		return &MissingFieldError{Field: "price_per_watt"}
	}

	*r = SimulationRequest{
		Latitude:          *wire.Latitude,
		Longitude:         *wire.Longitude,
		AvgSunHoursPerDay: *wire.AvgSunHoursPerDay,
		RoofSizeM2:        *wire.RoofSizeM2,
		PanelEfficiency:   *wire.PanelEfficiency,
		PanelWattage:      *wire.PanelWattage,
		PricePerWatt:      *wire.PricePerWatt,
	}
	return nil
}

// SimulationResponse is the result of a solar estimate.
type SimulationResponse struct {
	EstimatedOutputKWh float64           `json:"estimated_output_kwh"`
	EstimatedCostUSD   float64           `json:"estimated_cost_usd"`
	EstimatedROIYears  float64           `json:"estimated_roi_years"`
	SystemSizeKW       float64           `json:"system_size_kw"`
	NumPanels          int               `json:"num_panels"`
	MonthlyBreakdown   []MonthlyData     `json:"monthly_breakdown"`
	EfficiencyFactors  EfficiencyFactors `json:"efficiency_factors"`
}

// MonthlyData is the projected output for one calendar month.
type MonthlyData struct {
	Month     string  `json:"month"`
	OutputKWh float64 `json:"output_kwh"`
	SunHours  float64 `json:"sun_hours"`
}

// EfficiencyFactors are the losses applied to ideal sun-hour output.
type EfficiencyFactors struct {
	TemperatureLoss    float64 `json:"temperature_loss"`
	InverterEfficiency float64 `json:"inverter_efficiency"`
	DirtShadingLoss    float64 `json:"dirt_shading_loss"`
	SystemEfficiency   float64 `json:"system_efficiency"`
}
