package journal

import (
	"github.com/spf13/cobra"
)

// Cmd is the journal command group
var Cmd = &cobra.Command{
	Use:   "journal",
	Short: "Submit and manage journal entries",
	Long:  `Submit structured journals against your assigned categories and remove entries.`,
}

func init() {
	Cmd.AddCommand(submitCmd)
	Cmd.AddCommand(deleteCmd)
}
