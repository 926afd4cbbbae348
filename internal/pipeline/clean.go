package pipeline

import (
	"fmt"
	"strings"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
	"github.com/BrutalPeanut/iowa-liquor-sales/pkg/utils"
)

// Derived column names added by the cleaner.
const (
	MonthColumn    = "Month"
	MonthDayColumn = "Month Day"
)

// CleanResult summarizes what the cleaning stage did to the table.
type CleanResult struct {
	NullsDropped int                    `json:"nulls_dropped"`
	Quarantined  []model.QuarantinedRow `json:"quarantined,omitempty"`
}

// Clean applies the cleaning steps in order: null-drop, title-case
// normalization, date derivation. Later steps assume the earlier ones ran.
// The table is mutated in place; after Clean it must be treated as
// read-only by callers.
func Clean(t *table.Table, spec model.Cleaning) (CleanResult, error) {
	var result CleanResult

	for _, col := range spec.RequiredColumns {
		if !t.HasColumn(col) {
			return result, fmt.Errorf("required column %q not present in table", col)
		}
	}

	result.NullsDropped = DropNulls(t, spec.RequiredColumns)
	fmt.Printf("🧹 Cleaning: dropped %d records with nulls in %v\n",
		result.NullsDropped, spec.RequiredColumns)

	NormalizeTitleCase(t, spec.TitleCaseColumns)

	if spec.DateColumn != "" {
		if !t.HasColumn(spec.DateColumn) {
			return result, fmt.Errorf("date column %q not present in table", spec.DateColumn)
		}
		result.Quarantined = DeriveDateParts(t, spec.DateColumn)
		if n := len(result.Quarantined); n > 0 {
			fmt.Printf("🧹 Cleaning: quarantined %d records with malformed %s\n", n, spec.DateColumn)
		}
	}

	return result, nil
}

// DropNulls removes every record with a null in any of the required columns
// and returns the count removed. It never fails: the count is reported for
// observability only.
func DropNulls(t *table.Table, required []string) int {
	if len(required) == 0 {
		return 0
	}

	kept := t.Rows[:0]
	removed := 0
	for _, rec := range t.Rows {
		hasNull := false
		for _, col := range required {
			if rec.IsNull(col) {
				hasNull = true
				break
			}
		}
		if hasNull {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	t.Rows = kept
	return removed
}

// NormalizeTitleCase rewrites each value of the given text columns to title
// case so that semantically identical values ("DES MOINES", "Des Moines")
// collapse into one key. Idempotent.
func NormalizeTitleCase(t *table.Table, columns []string) {
	for _, col := range columns {
		for _, rec := range t.Rows {
			if str, ok := rec[col].(string); ok {
				rec[col] = utils.TitleCase(str)
			}
		}
	}
}

// DeriveDateParts derives Month (first '/' token) and Month Day (everything
// before the final '/') from the date column. A record whose date has fewer
// than two '/'-delimited segments is quarantined and removed from the table
// rather than aborting the run, matching the null-drop policy.
func DeriveDateParts(t *table.Table, dateColumn string) []model.QuarantinedRow {
	t.AddColumn(MonthColumn, table.Text)
	t.AddColumn(MonthDayColumn, table.Text)

	var quarantined []model.QuarantinedRow
	kept := t.Rows[:0]

	for i, rec := range t.Rows {
		date, _ := rec[dateColumn].(string)
		cut := strings.LastIndex(date, "/")
		if cut < 0 {
			ferr := &FormatError{
				Line:   i + 1,
				Column: dateColumn,
				Reason: fmt.Sprintf("expected at least two '/'-delimited segments, got %q", date),
			}
			quarantined = append(quarantined, model.QuarantinedRow{
				Line:   i + 1,
				Stage:  "cleaning",
				Reason: ferr.Error(),
				Raw:    date,
			})
			continue
		}

		rec[MonthColumn] = strings.SplitN(date, "/", 2)[0]
		rec[MonthDayColumn] = date[:cut]
		kept = append(kept, rec)
	}

	t.Rows = kept
	return quarantined
}
