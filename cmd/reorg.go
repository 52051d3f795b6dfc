package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldroute/config"
)

var reorgSnapshotPath string

var reorgCmd = &cobra.Command{
	Use:   "reorg",
	Short: "Re-cluster all stops across days and technicians",
	RunE:  runReorg,
}

func init() {
	reorgCmd.Flags().StringVarP(&reorgSnapshotPath, "snapshot", "s", "snapshot.json", "snapshot file")
	rootCmd.AddCommand(reorgCmd)
}

func runReorg(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	snap, err := loadSnapshot(reorgSnapshotPath)
	if err != nil {
		return err
	}
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	res, err := mgr.PlanReorg(cmd.Context(), snap)
	if err != nil {
		return err
	}
	return printJSON(res)
}
