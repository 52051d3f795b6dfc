package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldroute/config"
	"fieldroute/core/geo"
)

var (
	placeSnapshotPath string
	placeLat          float64
	placeLng          float64
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Propose a day and technician for a new stop location",
	RunE:  runPlace,
}

func init() {
	placeCmd.Flags().StringVarP(&placeSnapshotPath, "snapshot", "s", "snapshot.json", "snapshot file")
	placeCmd.Flags().Float64Var(&placeLat, "lat", 0, "latitude of the new stop")
	placeCmd.Flags().Float64Var(&placeLng, "lng", 0, "longitude of the new stop")
	_ = placeCmd.MarkFlagRequired("lat")
	_ = placeCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	snap, err := loadSnapshot(placeSnapshotPath)
	if err != nil {
		return err
	}
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	res, err := mgr.PlanPlacement(cmd.Context(), geo.Point{Lat: placeLat, Lng: placeLng}, snap)
	if err != nil {
		return err
	}
	return printJSON(res)
}
