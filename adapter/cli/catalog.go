package cli

import (
	"errors"
	"fmt"

	"github.com/habitlog/habitlog/internal/journals/infrastructure/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage categories, task templates, and assignments",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a catalog file",
	Long: `Upsert categories, task templates, and user assignments from a YAML
or JSON catalog file.

Examples:
  habitlog catalog import catalog.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Maintenance == nil {
			return errors.New("catalog import requires a database connection")
		}

		c, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}

		result, err := app.Maintenance.ImportCatalog(cmd.Context(), c)
		if err != nil {
			return fmt.Errorf("failed to import catalog: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories, %d templates, %d assignments\n",
			result.Categories, result.Templates, result.Assignments)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}
