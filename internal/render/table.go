package render

import (
	"fmt"
	"io"

	"casetracker/internal/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table prints the filter label followed by one table line per row.
func Table(w io.Writer, label string, rows []models.Row, useColors bool) error {
	title := color.New(color.FgCyan, color.Bold)
	if !useColors {
		title.DisableColor()
	} else {
		title.EnableColor()
	}
	if _, err := fmt.Fprintf(w, "%s (%d days)\n", title.Sprint(label), len(rows)); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{PerColumn: []tw.Align{tw.AlignLeft, tw.AlignRight}},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Date, r.Count}
	}
	table.Header([]string{"DATE", "CASES"})
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("adding rows: %w", err)
	}
	return table.Render()
}

// Regions prints the region catalog as CODE / NAME columns.
func Regions(w io.Writer, regions []models.Region) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	data := make([][]string, len(regions))
	for i, r := range regions {
		data[i] = []string{r.Code, r.Name}
	}
	table.Header([]string{"CODE", "NAME"})
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("adding regions: %w", err)
	}
	return table.Render()
}
