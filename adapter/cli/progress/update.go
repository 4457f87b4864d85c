package progress

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/progress/application/commands"
	"github.com/spf13/cobra"
)

var updateCategory string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Recompute the current week's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateProgressHandler == nil {
			return errors.New("progress updates require a database connection")
		}

		categoryID, err := uuid.Parse(updateCategory)
		if err != nil {
			return fmt.Errorf("invalid category ID: %w", err)
		}

		tracking, err := app.UpdateProgressHandler.Handle(cmd.Context(), commands.UpdateProgressCommand{
			UserID:     app.CurrentUserID,
			CategoryID: categoryID,
		})
		if err != nil {
			return cli.CommandError("failed to update progress", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Week of %s: %d/%d (%d%%), streak %d (best %d)\n",
			tracking.WeekStartDate.Format("2006-01-02"),
			tracking.CompletedCount, tracking.TargetCount, tracking.CompletionRate,
			tracking.CurrentStreak, tracking.BestStreak)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "category ID")
	_ = updateCmd.MarkFlagRequired("category")
}
