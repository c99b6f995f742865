package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"casetracker/internal/render"
)

var regionsCmd = &cobra.Command{
	Use:     "regions",
	Aliases: []string{"ls"},
	Short:   "List selectable regions",
	RunE:    runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	regionsCmd.Flags().Bool("json", false, "output as JSON")
}

func runRegions(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	regions, err := a.client.FetchRegionList(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching region list: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(regions)
	}

	if err := render.Regions(cmd.OutOrStdout(), regions); err != nil {
		return fmt.Errorf("printing regions: %w", err)
	}
	return nil
}
