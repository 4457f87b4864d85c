package progress

import (
	"github.com/spf13/cobra"
)

// Cmd is the progress command group
var Cmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect and maintain weekly progress",
	Long:  `Show weekly progress reports, recompute the current week, and rebuild stored history.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(rebuildCmd)
}
