package journal

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/journals/application/commands"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [journal-id]",
	Short:   "Delete a journal",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteJournalHandler == nil {
			return errors.New("journal deletion requires a database connection")
		}

		journalID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid journal ID: %w", err)
		}

		err = app.DeleteJournalHandler.Handle(cmd.Context(), commands.DeleteJournalCommand{
			UserID:    app.CurrentUserID,
			JournalID: journalID,
		})
		if err != nil {
			return cli.CommandError("failed to delete journal", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Journal deleted: %s\n", journalID)
		return nil
	},
}
