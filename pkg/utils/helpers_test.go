package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
	}{
		{name: "valid minutes", input: "2m", expected: 2 * time.Minute},
		{name: "valid mixed", input: "1h30m", expected: 90 * time.Minute},
		{name: "empty falls back", input: "", expected: 5 * time.Minute},
		{name: "garbage falls back", input: "soon", expected: 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDuration(tt.input))
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected interface{}
	}{
		{name: "empty is null", input: "", expected: nil},
		{name: "whitespace is null", input: "   ", expected: nil},
		{name: "integer", input: "42", expected: 42},
		{name: "float", input: "10.45", expected: 10.45},
		{name: "text", input: "Des Moines", expected: "Des Moines"},
		{name: "padded integer", input: " 7 ", expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseValue(tt.input))
		})
	}
}

func TestLooksNumeric(t *testing.T) {
	assert.True(t, LooksNumeric("42"))
	assert.True(t, LooksNumeric("10.45"))
	assert.True(t, LooksNumeric("-3.5"))
	assert.False(t, LooksNumeric(""))
	assert.False(t, LooksNumeric("Ames"))
	assert.False(t, LooksNumeric("12/26/2015"))
}

func TestNumeric(t *testing.T) {
	assert.Equal(t, 42.0, Numeric(42))
	assert.Equal(t, 10.45, Numeric(10.45))
	assert.Equal(t, 3.5, Numeric("3.5"))
	assert.Equal(t, 0.0, Numeric("not a number"))
	assert.Equal(t, 0.0, Numeric(nil))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "all caps", input: "DES MOINES", expected: "Des Moines"},
		{name: "already title case", input: "Des Moines", expected: "Des Moines"},
		{name: "all lower", input: "iowa city", expected: "Iowa City"},
		{name: "single word", input: "AMES", expected: "Ames"},
		{name: "keeps whitespace", input: "cedar  rapids", expected: "Cedar  Rapids"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleCase(tt.input))
		})
	}
}

func TestTitleCaseIdempotent(t *testing.T) {
	for _, s := range []string{"DES MOINES", "des moines", "Des Moines", "IOWA CITY"} {
		once := TitleCase(s)
		assert.Equal(t, once, TitleCase(once))
	}
}
