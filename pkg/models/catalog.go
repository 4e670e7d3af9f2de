package models

// PanelType is a commercially available panel model from the reference catalog.
type PanelType struct {
	ID           int64   `json:"id"            db:"id"`
	Name         string  `json:"name"          db:"name"`
	Manufacturer string  `json:"manufacturer"  db:"manufacturer"`
	Efficiency   float64 `json:"efficiency"    db:"efficiency"`     // percent
	Wattage      int     `json:"wattage"       db:"wattage"`        // watts
	PricePerWatt float64 `json:"price_per_watt" db:"price_per_watt"` // USD
}

// Location is a reference site with its average daily sun hours.
type Location struct {
	ID                int64   `json:"id"                    db:"id"`
	City              string  `json:"city"                  db:"city"`
	Country           string  `json:"country"               db:"country"`
	Latitude          float64 `json:"latitude"              db:"latitude"`
	Longitude         float64 `json:"longitude"             db:"longitude"`
	AvgSunHoursPerDay float64 `json:"avg_sun_hours_per_day" db:"avg_sun_hours_per_day"`
}

// Request builds a SimulationRequest for the given panel installed at this
// location over roofSizeM2 of usable roof.
func (l Location) Request(p PanelType, roofSizeM2 float64) SimulationRequest {
	return SimulationRequest{
		Latitude:          l.Latitude,
		Longitude:         l.Longitude,
		AvgSunHoursPerDay: l.AvgSunHoursPerDay,
		RoofSizeM2:        roofSizeM2,
		PanelEfficiency:   p.Efficiency,
		PanelWattage:      p.Wattage,
		PricePerWatt:      p.PricePerWatt,
	}
}
