package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
	"github.com/BrutalPeanut/iowa-liquor-sales/pkg/utils"
)

// LoadSource materializes a source into a Table. Only delimited flat files
// are supported; anything else is an error the caller surfaces immediately.
func LoadSource(source model.Source) (*table.Table, []model.QuarantinedRow, error) {
	switch strings.ToLower(source.Type) {
	case "", "csv":
		return LoadCSV(source.URL)
	default:
		return nil, nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// LoadCSV reads a comma-delimited flat file with a header row into a Table,
// inferring a type per column (columns whose every non-empty cell parses as
// a number become numeric, the rest stay text). Rows with an inconsistent
// column count are quarantined, not fatal. An unreadable path or URL is
// fatal and returned immediately.
func LoadCSV(pathOrURL string) (*table.Table, []model.QuarantinedRow, error) {
	fmt.Printf("➡️ Starting load for source: %s\n", pathOrURL)

	var reader io.Reader
	if strings.HasPrefix(pathOrURL, "http") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to GET CSV: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, nil, fmt.Errorf("failed to GET CSV: unexpected status %s", resp.Status)
		}
		reader = resp.Body
	} else {
		file, err := os.Open(pathOrURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1 // column-count mismatches are handled per row

	headers, err := csvReader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		// Clean header names: trim whitespace and remove all quotes
		clean := strings.TrimSpace(h)
		headers[i] = strings.ReplaceAll(clean, `"`, "")
	}

	var rawRows [][]string
	var quarantined []model.QuarantinedRow
	line := 1 // header was line 1

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			quarantined = append(quarantined, model.QuarantinedRow{
				Line:   line,
				Stage:  "loading",
				Reason: fmt.Sprintf("CSV read error: %v", err),
			})
			continue
		}
		if len(row) != len(headers) {
			ferr := &FormatError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(headers), len(row)),
			}
			quarantined = append(quarantined, model.QuarantinedRow{
				Line:   line,
				Stage:  "loading",
				Reason: ferr.Error(),
				Raw:    strings.Join(row, ","),
			})
			continue
		}
		rawRows = append(rawRows, row)
	}

	t := table.New(headers)
	for i, h := range headers {
		t.Types[h] = inferColumnType(rawRows, i)
	}

	for _, row := range rawRows {
		rec := make(table.Record, len(headers))
		for i, h := range headers {
			rec[h] = utils.ParseValue(row[i])
		}
		t.Append(rec)
	}

	fmt.Printf("📄 CSV load done: %d records read from %s (%d quarantined)\n",
		t.Len(), pathOrURL, len(quarantined))
	return t, quarantined, nil
}

// inferColumnType decides a column's type from its values: numeric when every
// non-empty cell parses as a number, text otherwise. An all-empty column
// stays text.
func inferColumnType(rows [][]string, col int) table.ColumnType {
	seen := false
	for _, row := range rows {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		if !utils.LooksNumeric(cell) {
			return table.Text
		}
		seen = true
	}
	if seen {
		return table.Numeric
	}
	return table.Text
}
