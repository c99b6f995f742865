package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"casetracker/internal/render"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the daily series as a table",
	Long: `Fetch the daily series once and print one row per day.

Examples:
  casetracker show                  # National series
  casetracker show --region ny      # New York
  casetracker show --json           # Rows and chart as JSON`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("region", "r", "", "region code (default: national)")
	showCmd.Flags().Bool("json", false, "output the view as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	code, _ := cmd.Flags().GetString("region")
	scope, err := a.resolveScope(cmd.Context(), code)
	if err != nil {
		return err
	}

	view, err := a.loadOnce(cmd.Context(), scope)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	if err := render.Table(cmd.OutOrStdout(), view.Label, view.Rows, useColors()); err != nil {
		return fmt.Errorf("printing %s series: %w", view.Label, err)
	}
	return nil
}
