package catalog

import "github.com/seenimoa/solarsim/pkg/models"

// Reference data loaded into an empty catalog.
var seedPanels = []models.PanelType{
	{Name: "SunPower Maxeon 6", Manufacturer: "SunPower", Efficiency: 22.8, Wattage: 430, PricePerWatt: 3.50},
	{Name: "LG NeON R", Manufacturer: "LG", Efficiency: 22.0, Wattage: 380, PricePerWatt: 3.20},
	{Name: "Canadian Solar HiKu6", Manufacturer: "Canadian Solar", Efficiency: 21.2, Wattage: 405, PricePerWatt: 2.80},
	{Name: "Jinko Tiger Neo", Manufacturer: "Jinko Solar", Efficiency: 21.8, Wattage: 415, PricePerWatt: 2.90},
}

var seedLocations = []models.Location{
	{City: "Los Angeles", Country: "USA", Latitude: 34.0522, Longitude: -118.2437, AvgSunHoursPerDay: 5.6},
	{City: "Phoenix", Country: "USA", Latitude: 33.4484, Longitude: -112.0740, AvgSunHoursPerDay: 6.5},
	{City: "Berlin", Country: "Germany", Latitude: 52.5200, Longitude: 13.4050, AvgSunHoursPerDay: 3.8},
	{City: "Sydney", Country: "Australia", Latitude: -33.8688, Longitude: 151.2093, AvgSunHoursPerDay: 5.9},
}
