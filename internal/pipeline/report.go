package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
)

// FrequencySeries converts frequency-count entries into a labeled series.
func FrequencySeries(entries []FrequencyEntry) []model.LabeledValue {
	series := make([]model.LabeledValue, 0, len(entries))
	for _, e := range entries {
		series = append(series, model.LabeledValue{Label: e.Label(), Value: float64(e.Count)})
	}
	return series
}

// SumSeries converts grouped-sum results into a labeled series.
func SumSeries(sums []GroupSum) []model.LabeledValue {
	series := make([]model.LabeledValue, 0, len(sums))
	for _, s := range sums {
		series = append(series, model.LabeledValue{Label: s.Group, Value: s.Sum})
	}
	return series
}

// FormatListing renders a series as a textual listing: label, tab, value,
// newline-joined. Integral values print without a decimal point.
func FormatListing(series []model.LabeledValue) string {
	var b strings.Builder
	for _, lv := range series {
		b.WriteString(lv.Label)
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(lv.Value, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}

// LineCharter renders a labeled numeric series as a line chart. The
// collaborator is opaque: no contract beyond accepting this shape.
type LineCharter interface {
	RenderLine(labels []string, values []float64, title, xLabel, yLabel string) error
}

// ChartSeries hands a series to the charting collaborator, sorted by label
// in ascending lexical order.
func ChartSeries(series []model.LabeledValue, charter LineCharter, title, xLabel, yLabel string) error {
	sorted := make([]model.LabeledValue, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Label < sorted[j].Label })

	labels := make([]string, len(sorted))
	values := make([]float64, len(sorted))
	for i, lv := range sorted {
		labels[i] = lv.Label
		values[i] = lv.Value
	}

	return charter.RenderLine(labels, values, title, xLabel, yLabel)
}

// WriteListingFile writes every named series to one text file, each set
// preceded by its name and followed by a blank line.
func WriteListingFile(path string, sets []model.NamedSeries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var b strings.Builder
	for _, set := range sets {
		b.WriteString("== " + set.Name + " ==\n")
		b.WriteString(FormatListing(set.Series))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return nil
}

// WriteResultsCSV exports every named series as CSV rows of
// (aggregation, position, label, value).
func WriteResultsCSV(path string, sets []model.NamedSeries) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"aggregation", "position", "label", "value"}); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for _, set := range sets {
		for i, lv := range set.Series {
			row := []string{
				set.Name,
				strconv.Itoa(i),
				lv.Label,
				strconv.FormatFloat(lv.Value, 'f', -1, 64),
			}
			if err := writer.Write(row); err != nil {
				return rows, fmt.Errorf("failed to write row: %w", err)
			}
			rows++
		}
	}

	return rows, writer.Error()
}
