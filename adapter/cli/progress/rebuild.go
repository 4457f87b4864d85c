package progress

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/progress/application/commands"
	"github.com/spf13/cobra"
)

var (
	rebuildUser     string
	rebuildCategory string
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild stored progress from journal history",
	Long: `Delete and recompute stored weekly progress. Without flags every user
and category with journals or stored progress is rebuilt.

Examples:
  habitlog progress rebuild
  habitlog progress rebuild --user 0000... --category 3f0c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RebuildProgressHandler == nil {
			return errors.New("progress rebuild requires a database connection")
		}

		var rebuild commands.RebuildProgressCommand
		if rebuildUser != "" {
			id, err := uuid.Parse(rebuildUser)
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			rebuild.UserID = &id
		}
		if rebuildCategory != "" {
			id, err := uuid.Parse(rebuildCategory)
			if err != nil {
				return fmt.Errorf("invalid category ID: %w", err)
			}
			rebuild.CategoryID = &id
		}

		result, err := app.RebuildProgressHandler.Handle(cmd.Context(), rebuild)
		if err != nil {
			return cli.CommandError("failed to rebuild progress", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %d user/category pairs (%d weekly rows)\n", result.Pairs, result.Rows)
		return nil
	},
}

func init() {
	rebuildCmd.Flags().StringVar(&rebuildUser, "user", "", "limit to one user ID")
	rebuildCmd.Flags().StringVar(&rebuildCategory, "category", "", "limit to one category ID")
}
