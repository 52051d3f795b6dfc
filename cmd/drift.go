package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldroute/config"
)

var driftSnapshotPath string

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Scan a schedule for single-stop moves that reduce travel",
	RunE:  runDrift,
}

func init() {
	driftCmd.Flags().StringVarP(&driftSnapshotPath, "snapshot", "s", "snapshot.json", "snapshot file")
	rootCmd.AddCommand(driftCmd)
}

func runDrift(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	snap, err := loadSnapshot(driftSnapshotPath)
	if err != nil {
		return err
	}
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	return printJSON(mgr.PlanDrift(cmd.Context(), snap))
}
