package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"casetracker/internal/render"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the recent-days bar chart to a PNG file",
	RunE:  runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringP("region", "r", "", "region code (default: national)")
	chartCmd.Flags().StringP("output", "o", "cases.png", "output file")
	chartCmd.Flags().Int("width", 960, "image width in pixels")
}

func runChart(cmd *cobra.Command, args []string) error {
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

	path, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := render.BarChart(f, view.Chart, render.ChartOptions{Title: view.Label, Width: width}); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("rendering chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bars for %s to %s\n", len(view.Chart), view.Label, path)
	return nil
}
