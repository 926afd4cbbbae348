package model

// LabeledValue is one (label, numeric value) pair of an ordered series.
type LabeledValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// NamedSeries is an aggregation result ready for reporting or persistence.
type NamedSeries struct {
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Series []LabeledValue `json:"series"`
}

// QuarantinedRow records a row removed from the table because of a format
// problem. The run keeps going; quarantined rows are persisted for audit.
type QuarantinedRow struct {
	Line   int    `json:"line"`
	Stage  string `json:"stage"` // "loading" or "cleaning"
	Reason string `json:"reason"`
	Raw    string `json:"raw,omitempty"` // raw cell or row content when available
}
