package journal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/journals/application/commands"
	"github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/spf13/cobra"
)

var (
	categoryID string
	title      string
	reflection string
	isPublic   bool
	tasks      []string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a structured journal",
	Long: `Submit today's structured journal for a category.

Each --task flag reports one checklist item as id[:done[:note]], where done
is a boolean and defaults to true.

Examples:
  habitlog journal submit --category 3f0c... --title "Morning run" \
    --task 9a1e...:true --task 4b7d...:false:"skipped, knee"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SubmitJournalHandler == nil {
			return errors.New("journal submission requires a database connection")
		}

		catID, err := uuid.Parse(categoryID)
		if err != nil {
			return fmt.Errorf("invalid category ID: %w", err)
		}

		entries := make([]domain.CompletionEntry, 0, len(tasks))
		for _, value := range tasks {
			entry, err := ParseTaskFlag(value)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		result, err := app.SubmitJournalHandler.Handle(cmd.Context(), commands.SubmitStructuredJournalCommand{
			UserID:          app.CurrentUserID,
			CategoryID:      catID,
			Title:           title,
			Reflection:      reflection,
			IsPublic:        isPublic,
			TaskCompletions: entries,
		})
		if err != nil {
			return cli.CommandError("failed to submit journal", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Journal submitted: %s\n", result.Journal.ID)
		fmt.Fprintf(out, "  Category: %s\n", result.Journal.CategoryName)
		tc := result.TaskCompletion
		fmt.Fprintf(out, "  Tasks:    %d/%d (%d%%), required %d/%d\n",
			tc.CompletedTasks, tc.TotalTasks, tc.CompletionPercentage, tc.RequiredTasksCompleted, tc.RequiredTasksTotal)
		if result.Progress.Degraded {
			fmt.Fprintln(out, "  Progress: unavailable, run `habitlog progress update` later")
			return nil
		}
		wp := result.Progress.WeeklyProgress
		fmt.Fprintf(out, "  Week:     %d/%d (%d%%), %d to go\n", wp.Completed, wp.Target, wp.CompletionRate, wp.Remaining)
		fmt.Fprintf(out, "  Streak:   %d days (best %d)\n", result.Progress.Streak.Current, result.Progress.Streak.Best)
		return nil
	},
}

// ParseTaskFlag parses an id[:done[:note]] task flag value.
func ParseTaskFlag(value string) (domain.CompletionEntry, error) {
	parts := strings.SplitN(value, ":", 3)

	id, err := uuid.Parse(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.CompletionEntry{}, fmt.Errorf("invalid task template ID %q: %w", parts[0], err)
	}

	entry := domain.CompletionEntry{TaskTemplateID: id, IsCompleted: true}
	if len(parts) > 1 && parts[1] != "" {
		done, err := strconv.ParseBool(parts[1])
		if err != nil {
			return domain.CompletionEntry{}, fmt.Errorf("invalid completion flag %q for task %s", parts[1], id)
		}
		entry.IsCompleted = done
	}
	if len(parts) > 2 {
		entry.Note = parts[2]
	}
	return entry, nil
}

func init() {
	submitCmd.Flags().StringVar(&categoryID, "category", "", "category ID")
	submitCmd.Flags().StringVarP(&title, "title", "t", "", "journal title")
	submitCmd.Flags().StringVarP(&reflection, "reflection", "r", "", "free-form reflection")
	submitCmd.Flags().BoolVar(&isPublic, "public", false, "make the journal public")
	submitCmd.Flags().StringArrayVar(&tasks, "task", nil, "checklist result as id[:done[:note]] (repeatable)")
	_ = submitCmd.MarkFlagRequired("category")
	_ = submitCmd.MarkFlagRequired("title")
}
