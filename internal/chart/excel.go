// Package chart renders labeled numeric series as line charts in Excel
// workbooks, serving as the pipeline's charting collaborator.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const dataSheet = "Data"

// ExcelCharter writes a workbook holding the series data and an embedded
// native line chart.
type ExcelCharter struct {
	Path string
}

// NewExcelCharter creates a charter that renders into the given .xlsx path.
func NewExcelCharter(path string) *ExcelCharter {
	return &ExcelCharter{Path: path}
}

// RenderLine writes labels and values into a data sheet and attaches a line
// chart over them. Labels and values must be parallel sequences.
func (c *ExcelCharter) RenderLine(labels []string, values []float64, title, xLabel, yLabel string) error {
	if len(labels) != len(values) {
		return fmt.Errorf("labels and values must have equal length: %d vs %d", len(labels), len(values))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("failed to name data sheet: %w", err)
	}

	if err := f.SetCellValue(dataSheet, "A1", xLabel); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellValue(dataSheet, "B1", yLabel); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range labels {
		row := i + 2
		if err := f.SetCellValue(dataSheet, fmt.Sprintf("A%d", row), labels[i]); err != nil {
			return fmt.Errorf("failed to write label row %d: %w", row, err)
		}
		if err := f.SetCellValue(dataSheet, fmt.Sprintf("B%d", row), values[i]); err != nil {
			return fmt.Errorf("failed to write value row %d: %w", row, err)
		}
	}

	lastRow := len(labels) + 1
	if err := f.AddChart(dataSheet, "D2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", dataSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, lastRow),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", dataSheet, lastRow),
			},
		},
		Title: []excelize.RichTextRun{{Text: title}},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: xLabel}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: yLabel}},
		},
	}); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(c.Path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
