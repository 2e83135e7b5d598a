package pipeline

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	cycles "github.com/lucasjlepore/cycle-analyzer"
	"github.com/lucasjlepore/cycle-analyzer/chart"
)

const summarySheet = "Summary"

// writeSummaryWorkbook stores the summary on one sheet next to a native line chart of both series.
func writeSummaryWorkbook(path string, rows []cycles.CycleCapacity, labels chart.Labels) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	header := []interface{}{"cycle number", "Max Charge", "Max Discharge", "records"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.Cycle, cellValue(r.MaxCharge), cellValue(r.MaxDischarge), r.Records}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		if err := f.AddChart(summarySheet, "F2", capacityChart(len(rows), labels)); err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}
	return f.SaveAs(path)
}

func capacityChart(n int, labels chart.Labels) *excelize.Chart {
	last := n + 1
	ref := func(col string) string {
		return fmt.Sprintf("%s!$%s$2:$%s$%d", summarySheet, col, col, last)
	}
	yMin, yMax := 0.0, chart.DefaultStyle().YMax
	return &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{Name: summarySheet + "!$B$1", Categories: ref("A"), Values: ref("B")},
			{Name: summarySheet + "!$C$1", Categories: ref("A"), Values: ref("C")},
		},
		Title: []excelize.RichTextRun{{Text: labels.Title}},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: labels.X}},
		},
		YAxis: excelize.ChartAxis{
			Title:          []excelize.RichTextRun{{Text: labels.Y}},
			MajorGridLines: true,
			MajorUnit:      chart.DefaultStyle().YTickStep,
			Minimum:        &yMin,
			Maximum:        &yMax,
		},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
}

// cellValue leaves undefined maxima as empty cells.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
