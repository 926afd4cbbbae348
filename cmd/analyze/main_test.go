package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/pipeline"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
)

func collegeTownTable() *table.Table {
	t := table.New([]string{colDate, colCity, colCategory})
	t.Append(table.Record{colDate: "12/26/2015", colCity: "AMES", colCategory: "VODKA"})
	t.Append(table.Record{colDate: "11/09/2015", colCity: "Ames", colCategory: "Vodka"})
	t.Append(table.Record{colDate: "11/10/2015", colCity: "Ames", colCategory: "Straight Bourbon Whiskies"})
	t.Append(table.Record{colDate: "11/11/2015", colCity: "Iowa City", colCategory: "Blended Whiskey"})
	t.Append(table.Record{colDate: "11/12/2015", colCity: "IOWA CITY", colCategory: "Imported Vodka"})
	return t
}

func TestCleaningSpecCollapsesCategoryCasing(t *testing.T) {
	tbl := collegeTownTable()
	_, err := pipeline.Clean(tbl, cleaningSpec())
	require.NoError(t, err)

	// "VODKA" and "Vodka" must be one key, not two
	entries := pipeline.FrequencyCount(tbl, colCategory, pipeline.FrequencyOptions{})
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Label()] = e.Count
	}
	assert.Equal(t, 2, counts["Vodka"])
	assert.NotContains(t, counts, "VODKA")

	spec := cleaningSpec()
	assert.Contains(t, spec.TitleCaseColumns, colCategory)
	assert.Contains(t, spec.TitleCaseColumns, colCity)
}

func TestCityPreference(t *testing.T) {
	tbl := collegeTownTable()
	_, err := pipeline.Clean(tbl, cleaningSpec())
	require.NoError(t, err)

	// The comparison is scoped per city, over that city's full category counts
	entries, vodka, whiskey, err := cityPreference(tbl, "Ames")
	require.NoError(t, err)
	assert.Equal(t, 2, vodka)
	assert.Equal(t, 1, whiskey)
	require.Len(t, entries, 2)
	assert.Equal(t, "Vodka", entries[0].Label())

	_, vodka, whiskey, err = cityPreference(tbl, "Iowa City")
	require.NoError(t, err)
	assert.Equal(t, 1, vodka)
	assert.Equal(t, 1, whiskey)
}
