package simulator

// Fixed model parameters.
const (
	PanelAreaM2            = 1.7  // m² footprint of one panel
	ElectricityPricePerKWh = 0.15 // USD per kWh avoided
	InverterEfficiency     = 0.96
	DirtShadingLoss        = 0.05
	SeasonalAmplitude      = 0.3 // ±30% swing around the average sun hours

	// NoPaybackROIYears is reported when the system produces no savings.
	// It is a marker, not a duration.
	NoPaybackROIYears = 999.0
)

// Temperature derating by latitude band.
const (
	TropicalLatitude  = 30.0
	TemperateLatitude = 45.0

	TropicalTemperatureLoss  = 0.15
	TemperateTemperatureLoss = 0.10
	PolarTemperatureLoss     = 0.05
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// non-leap year
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
