package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seenimoa/solarsim/internal/catalog"
	"github.com/seenimoa/solarsim/pkg/utils"
)

// --- Catalog Command ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the reference panel types and locations",
}

var catalogPanelsCmd = &cobra.Command{
	Use:   "panels",
	Short: "List panel types",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.Open(cmd.Context(), cfg.Catalog.DSN, 0)
		if err != nil {
			return err
		}
		defer store.Close()

		panels, err := store.Panels(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s %-24s %-16s %8s %8s %10s\n", "ID", "Name", "Manufacturer", "Eff %", "Watts", "$/W")
		for _, p := range panels {
			fmt.Fprintf(out, "%-4d %-24s %-16s %8.1f %8d %10s\n",
				p.ID, p.Name, p.Manufacturer, p.Efficiency, p.Wattage, utils.FormatUSD(p.PricePerWatt))
		}
		return nil
	},
}

var catalogLocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.Open(cmd.Context(), cfg.Catalog.DSN, 0)
		if err != nil {
			return err
		}
		defer store.Close()

		locs, err := store.Locations(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s %-16s %-12s %10s %10s %10s\n", "ID", "City", "Country", "Lat", "Lon", "Sun h")
		for _, l := range locs {
			fmt.Fprintf(out, "%-4d %-16s %-12s %10.4f %10.4f %10.1f\n",
				l.ID, l.City, l.Country, l.Latitude, l.Longitude, l.AvgSunHoursPerDay)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogPanelsCmd)
	catalogCmd.AddCommand(catalogLocationsCmd)
}
