package pipeline

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
	"github.com/BrutalPeanut/iowa-liquor-sales/pkg/utils"
)

// NullKey is how a counted null value renders in listings and results.
const NullKey = "(null)"

// Filter is an equality predicate on a column. Values are compared by their
// string rendering, matching how job specs carry filter values.
type Filter struct {
	Column string
	Equals string
}

func (f *Filter) matches(rec table.Record) bool {
	if f == nil {
		return true
	}
	v, ok := rec[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprintf("%v", v) == f.Equals
}

// FrequencyEntry is one (value, count) pair of a frequency count.
type FrequencyEntry struct {
	Value interface{} `json:"value"` // nil for the null key
	Count int         `json:"count"`
}

// Label renders the counted value for listings.
func (e FrequencyEntry) Label() string {
	if e.Value == nil {
		return NullKey
	}
	return fmt.Sprintf("%v", e.Value)
}

// FrequencyOptions control a FrequencyCount call.
type FrequencyOptions struct {
	Filter    *Filter
	TopK      int  // 0 means unrestricted
	KeepNulls bool // count nulls as their own key
}

// FrequencyCount returns (value, count) pairs for the column, ordered by
// descending count. Ties are broken by first-encountered row order in the
// table — deterministic, but not caller-specified. An empty result is a
// valid outcome. The table is not mutated.
func FrequencyCount(t *table.Table, column string, opts FrequencyOptions) []FrequencyEntry {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	values := make(map[string]interface{})
	var order []string

	for i, rec := range t.Rows {
		if !opts.Filter.matches(rec) {
			continue
		}
		v, ok := rec[column]
		if !ok || v == nil {
			if !opts.KeepNulls {
				continue
			}
			v = nil
		}
		key := NullKey
		if v != nil {
			key = fmt.Sprintf("%v", v)
		}
		if _, seen := counts[key]; !seen {
			firstSeen[key] = i
			values[key] = v
			order = append(order, key)
		}
		counts[key]++
	}

	entries := make([]FrequencyEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, FrequencyEntry{Value: values[key], Count: counts[key]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return firstSeen[a.Label()] < firstSeen[b.Label()]
	})

	if opts.TopK > 0 && len(entries) > opts.TopK {
		entries = entries[:opts.TopK]
	}
	return entries
}

// GroupSum is the sum of a value column across one group.
type GroupSum struct {
	Group string  `json:"group"`
	Sum   float64 `json:"sum"`
}

// GroupedSum returns, for each distinct value of groupColumn (optionally
// restricted by filter), the double-precision sum of valueColumn across
// matching records, in first-encountered group order. Records with a null
// group value are skipped. A zero-match filter yields an empty slice, not
// an error. The table is not mutated.
func GroupedSum(t *table.Table, groupColumn, valueColumn string, filter *Filter) []GroupSum {
	sums := make(map[string]float64)
	var order []string

	for _, rec := range t.Rows {
		if !filter.matches(rec) {
			continue
		}
		g, ok := rec[groupColumn]
		if !ok || g == nil {
			continue
		}
		key := fmt.Sprintf("%v", g)
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += utils.Numeric(rec[valueColumn])
	}

	results := make([]GroupSum, 0, len(order))
	for _, key := range order {
		results = append(results, GroupSum{Group: key, Sum: sums[key]})
	}
	return results
}

// TotalSum adds up a grouped-sum result. An empty result totals 0.
func TotalSum(sums []GroupSum) float64 {
	var total float64
	for _, s := range sums {
		total += s.Sum
	}
	return total
}

// MatchedCount sums the counts of all frequency entries whose label matches
// the pattern, case-insensitively. "whisk" catches both "Whiskey" and
// "Whiskies" category spellings.
func MatchedCount(entries []FrequencyEntry, pattern string) (int, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	total := 0
	for _, e := range entries {
		if re.MatchString(e.Label()) {
			total += e.Count
		}
	}
	return total, nil
}

// ColumnSummary is a per-column overview in the spirit of a dataframe
// describe(): non-null count, distinct count, most frequent value.
type ColumnSummary struct {
	Column   string `json:"column"`
	Type     string `json:"type"`
	Count    int    `json:"count"`  // non-null values
	Unique   int    `json:"unique"` // distinct non-null values
	Top      string `json:"top"`    // most frequent value, "" when empty
	TopCount int    `json:"top_count"`
}

// Describe summarizes the given columns. The table is not mutated.
func Describe(t *table.Table, columns []string) []ColumnSummary {
	summaries := make([]ColumnSummary, 0, len(columns))
	for _, col := range columns {
		entries := FrequencyCount(t, col, FrequencyOptions{})
		s := ColumnSummary{
			Column: col,
			Type:   t.Types[col].String(),
			Count:  t.Len() - t.NullCount(col),
			Unique: len(entries),
		}
		if len(entries) > 0 {
			s.Top = entries[0].Label()
			s.TopCount = entries[0].Count
		}
		summaries = append(summaries, s)
	}
	return summaries
}
