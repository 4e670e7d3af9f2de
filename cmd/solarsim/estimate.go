package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/seenimoa/solarsim/internal/catalog"
	"github.com/seenimoa/solarsim/internal/simulator"
	"github.com/seenimoa/solarsim/pkg/models"
	"github.com/seenimoa/solarsim/pkg/utils"
)

// --- Estimate Command ---

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate output, cost and payback for one installation",
	Long: `Estimate output, cost and payback for one installation.

Site and hardware come from flags, or from the reference catalog with
--location and --panel.

Examples:
  solarsim estimate --lat 40 --sun-hours 5 --roof 20 --efficiency 20 --wattage 300 --price 2.5
  solarsim estimate --location 3 --panel 1 --roof 25
  solarsim estimate --location 4 --panel 2 --roof 30 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}

		res, err := simulator.Estimate(req)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printEstimate(cmd.OutOrStdout(), req, res)
		return nil
	},
}

func init() {
	f := estimateCmd.Flags()
	f.Float64("lat", 0, "site latitude in degrees (negative for southern hemisphere)")
	f.Float64("lon", 0, "site longitude in degrees")
	f.Float64("sun-hours", 0, "average peak sun hours per day")
	f.Float64("roof", 0, "usable roof area in m²")
	f.Float64("efficiency", 20, "panel efficiency in percent")
	f.Int("wattage", 400, "rated watts per panel")
	f.Float64("price", 3, "installed price per watt in USD")
	f.Int64("location", 0, "catalog location id (replaces --lat/--lon/--sun-hours)")
	f.Int64("panel", 0, "catalog panel type id (replaces --efficiency/--wattage/--price)")
	f.Bool("json", false, "print the raw JSON response")
}

// requestFromFlags builds the request, resolving catalog ids when given.
func requestFromFlags(cmd *cobra.Command) (models.SimulationRequest, error) {
	f := cmd.Flags()
	var req models.SimulationRequest
	req.Latitude, _ = f.GetFloat64("lat")
	req.Longitude, _ = f.GetFloat64("lon")
	req.AvgSunHoursPerDay, _ = f.GetFloat64("sun-hours")
	req.RoofSizeM2, _ = f.GetFloat64("roof")
	req.PanelEfficiency, _ = f.GetFloat64("efficiency")
	req.PanelWattage, _ = f.GetInt("wattage")
	req.PricePerWatt, _ = f.GetFloat64("price")

	locID, _ := f.GetInt64("location")
	panelID, _ := f.GetInt64("panel")
	if locID == 0 && panelID == 0 {
		return req, nil
	}

	store, err := catalog.Open(cmd.Context(), cfg.Catalog.DSN, 0)
	if err != nil {
		return req, fmt.Errorf("catalog setup failed: %w", err)
	}
	defer store.Close()

	if locID != 0 {
		loc, err := store.Location(cmd.Context(), locID)
		if err != nil {
			return req, err
		}
		req.Latitude = loc.Latitude
		req.Longitude = loc.Longitude
		req.AvgSunHoursPerDay = loc.AvgSunHoursPerDay
	}
	if panelID != 0 {
		p, err := store.Panel(cmd.Context(), panelID)
		if err != nil {
			return req, err
		}
		req.PanelEfficiency = p.Efficiency
		req.PanelWattage = p.Wattage
		req.PricePerWatt = p.PricePerWatt
	}
	return req, nil
}

func printEstimate(w io.Writer, req models.SimulationRequest, res *models.SimulationResponse) {
	hemisphere := "southern"
	if simulator.IsNorthern(req.Latitude) {
		hemisphere = "northern"
	}

	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintln(w, "  Solar Estimate")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "  Site:            %.4f, %.4f (%s curve)\n", req.Latitude, req.Longitude, hemisphere)
	fmt.Fprintf(w, "  Panels:          %d × %d W\n", res.NumPanels, req.PanelWattage)
	fmt.Fprintf(w, "  System Size:     %.2f kW\n", res.SystemSizeKW)
	fmt.Fprintf(w, "  Annual Output:   %s\n", utils.FormatKWh(res.EstimatedOutputKWh))
	fmt.Fprintf(w, "  System Cost:     %s\n", utils.FormatUSD(res.EstimatedCostUSD))
	fmt.Fprintf(w, "  Payback:         %s\n", utils.FormatYears(res.EstimatedROIYears, simulator.NoPaybackROIYears))
	fmt.Fprintf(w, "  Efficiency:      %s\n", utils.FormatPct(res.EfficiencyFactors.SystemEfficiency))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-12s %10s %12s\n", "Month", "Sun h/day", "Output")
	for _, m := range res.MonthlyBreakdown {
		fmt.Fprintf(w, "  %-12s %10.2f %12s\n", m.Month, m.SunHours, utils.FormatKWh(m.OutputKWh))
	}
	fmt.Fprintln(w, "═══════════════════════════════════════")
}
