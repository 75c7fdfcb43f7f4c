package results

import (
	"bytes"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Results"

var reportHeader = []string{"ID", "Test", "Result", "Timestamp", "Duration (s)", "Origin"}

// ExportXLSX writes outcomes to a workbook at path with one row per run and
// a totals row.
func ExportXLSX(outcomes []TestOutcome, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &reportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", bold); err != nil {
		return err
	}

	for i, o := range outcomes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		ts := ""
		if !o.Timestamp.IsZero() {
			ts = o.Timestamp.Format(TimestampLayout)
		}
		values := []any{o.ID, o.TestName, string(o.Result), ts, o.Duration, o.Origin}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", o.ID, err)
		}
	}

	sum := Summarize(outcomes)
	totals := []any{"TOTAL", fmt.Sprintf("%d passed / %d failed", sum.Passed, sum.Failed), "", "", sum.Duration, ""}
	cell, err := excelize.CoordinatesToCellName(1, len(outcomes)+2)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &totals); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 45); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "D", "D", 20); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// FormatTable renders outcomes as a text table with a totals footer.
func FormatTable(outcomes []TestOutcome) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle("Booking E2E results")
	t.AppendHeader(table.Row{"ID", "Test", "Result", "Timestamp", "Duration", "Origin"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Align: text.AlignRight},
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, o := range outcomes {
		ts := ""
		if !o.Timestamp.IsZero() {
			ts = o.Timestamp.Format(TimestampLayout)
		}
		t.AppendRow(table.Row{o.ID, o.TestName, string(o.Result), ts, fmt.Sprintf("%.1fs", o.Duration), o.Origin})
	}

	sum := Summarize(outcomes)
	if sum.Failed > 0 {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
	t.AppendFooter(table.Row{"TOTAL", fmt.Sprintf("%d runs", sum.Total), fmt.Sprintf("%d/%d", sum.Passed, sum.Total), "", fmt.Sprintf("%.1fs", sum.Duration), ""})
	t.Render()
	return buf.String()
}
