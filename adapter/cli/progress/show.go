package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/progress/application/queries"
	"github.com/habitlog/habitlog/internal/progress/domain"
	"github.com/spf13/cobra"
)

var (
	showCategory string
	showWeeks    int
	showJSON     bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the progress report for a category",
	Long: `Show the current week, history, trend, consistency, prediction, and
week-over-week comparison for one category.

Examples:
  habitlog progress show --category 3f0c...
  habitlog progress show --category 3f0c... --weeks 26 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetProgressHandler == nil {
			return errors.New("progress reports require a database connection")
		}

		categoryID, err := uuid.Parse(showCategory)
		if err != nil {
			return fmt.Errorf("invalid category ID: %w", err)
		}

		weeks := 0
		if cmd.Flags().Changed("weeks") {
			weeks = queries.ClampWeeks(showWeeks)
		}

		report, err := app.GetProgressHandler.Handle(cmd.Context(), queries.GetProgressQuery{
			UserID:     app.CurrentUserID,
			CategoryID: categoryID,
			Weeks:      weeks,
		})
		if err != nil {
			return cli.CommandError("failed to load progress", err)
		}

		out := cmd.OutOrStdout()
		if showJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(out, report)
		return nil
	},
}

func printReport(out io.Writer, r *domain.Report) {
	week := r.CurrentWeek
	fmt.Fprintf(out, "Week of %s\n", week.WeekStartDate.Format("2006-01-02"))
	fmt.Fprintf(out, "  Completed: %d/%d (%d%%)\n", week.CompletedCount, week.TargetCount, week.CompletionRate)
	fmt.Fprintf(out, "  Streak:    %d days (best %d)\n", week.CurrentStreak, week.BestStreak)
	fmt.Fprintf(out, "  Journals:  %d total\n", r.TotalJournals)

	fmt.Fprintln(out, "\nTrend")
	fmt.Fprintf(out, "  Direction:   %s (slope %.2f)\n", r.Analysis.ImprovementTrend, r.Analysis.Slope)
	fmt.Fprintf(out, "  Average:     %.1f%% over %d weeks\n", r.Analysis.AverageRate, r.Analysis.WeeksAnalyzed)
	fmt.Fprintf(out, "  Volatility:  %s\n", r.Analysis.Volatility)
	fmt.Fprintf(out, "  Consistency: %d (%s)\n", r.Consistency.Score, r.Consistency.Level)

	fmt.Fprintln(out, "\nOutlook")
	fmt.Fprintf(out, "  %s\n", r.Prediction.Recommendation)
	if r.Comparison.HasPrevious {
		fmt.Fprintf(out, "  %s\n", r.Comparison.Message)
	}

	if len(r.History) > 1 {
		fmt.Fprintln(out, "\nHistory")
		for _, row := range r.History {
			fmt.Fprintf(out, "  %s  %d/%d  %3d%%\n",
				row.WeekStartDate.Format("2006-01-02"), row.CompletedCount, row.TargetCount, row.CompletionRate)
		}
	}
}

func init() {
	showCmd.Flags().StringVar(&showCategory, "category", "", "category ID")
	showCmd.Flags().IntVarP(&showWeeks, "weeks", "w", queries.DefaultWeeks, "weeks of history (1-52)")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the report as JSON")
	_ = showCmd.MarkFlagRequired("category")
}
