package model

// Source points at the delimited flat file to analyze.
type Source struct {
	Type string `json:"type"` // only "csv" is supported
	URL  string `json:"url"`  // local path or http(s) URL
}

// Cleaning configures the cleaning stage. Steps run in this order:
// null-drop, title-case normalization, date-field derivation.
type Cleaning struct {
	RequiredColumns  []string `json:"requiredColumns"`  // rows with nulls here are dropped
	TitleCaseColumns []string `json:"titleCaseColumns"` // text columns rewritten to title case
	DateColumn       string   `json:"dateColumn"`       // MM/DD/YYYY column; derives Month and Month Day
}

// Aggregation kinds.
const (
	KindFrequencyCount = "frequency_count"
	KindGroupedSum     = "grouped_sum"
	KindPatternCount   = "pattern_count"
)

// Aggregation is one aggregator invocation over the cleaned table.
type Aggregation struct {
	Name string `json:"name"` // result set label, unique within a job
	Kind string `json:"kind"` // frequency_count, grouped_sum, pattern_count

	Column      string `json:"column,omitempty"`      // frequency_count / pattern_count
	GroupBy     string `json:"groupBy,omitempty"`     // grouped_sum
	ValueColumn string `json:"valueColumn,omitempty"` // grouped_sum

	FilterColumn string `json:"filterColumn,omitempty"` // optional equality predicate
	FilterValue  string `json:"filterValue,omitempty"`

	TopK      int    `json:"topK,omitempty"`      // restrict to K most frequent keys
	KeepNulls bool   `json:"keepNulls,omitempty"` // count nulls as their own key
	Pattern   string `json:"pattern,omitempty"`   // pattern_count: case-insensitive regexp
}

// Chart asks the reporter to hand one aggregation's series to the line-chart
// collaborator, sorted by label in ascending lexical order.
type Chart struct {
	Aggregation string `json:"aggregation"` // name of the aggregation to chart
	Title       string `json:"title"`
	XLabel      string `json:"xLabel"`
	YLabel      string `json:"yLabel"`
	File        string `json:"file"` // output workbook name, e.g. sales_by_month.xlsx
}

// Report configures reporter outputs for a job.
type Report struct {
	ListingFile string  `json:"listingFile,omitempty"` // tab-separated listing of every result
	ResultsFile string  `json:"resultsFile,omitempty"` // CSV export of every result
	Charts      []Chart `json:"charts,omitempty"`
}

// AnalysisJobSpec is the payload for POST /api/v1/analyses.
type AnalysisJobSpec struct {
	Source       Source        `json:"source"`
	Cleaning     Cleaning      `json:"cleaning"`
	Aggregations []Aggregation `json:"aggregations"`
	Report       *Report       `json:"report,omitempty"`
	JobTimeout   string        `json:"jobTimeout,omitempty"` // e.g. "5m"
}
