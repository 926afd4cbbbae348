package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
)

func cleanedTable() *table.Table {
	t := table.New([]string{"City", "Category Name", "Volume Sold (Liters)"})
	t.Append(table.Record{"City": "Ames", "Category Name": "Vodka", "Volume Sold (Liters)": 1.75})
	t.Append(table.Record{"City": "Ames", "Category Name": "Whiskey", "Volume Sold (Liters)": 0.75})
	t.Append(table.Record{"City": "Des Moines", "Category Name": "Vodka", "Volume Sold (Liters)": 1.0})
	t.Append(table.Record{"City": "Ames", "Category Name": "Vodka", "Volume Sold (Liters)": 0.5})
	t.Append(table.Record{"City": "Iowa City", "Category Name": nil, "Volume Sold (Liters)": 2.0})
	return t
}

func TestFrequencyCount(t *testing.T) {
	entries := FrequencyCount(cleanedTable(), "City", FrequencyOptions{})

	require.Len(t, entries, 3)
	assert.Equal(t, "Ames", entries[0].Label())
	assert.Equal(t, 3, entries[0].Count)

	// Des Moines and Iowa City both count 1; Des Moines was seen first
	assert.Equal(t, "Des Moines", entries[1].Label())
	assert.Equal(t, "Iowa City", entries[2].Label())
}

func TestFrequencyCountSkipsNullsByDefault(t *testing.T) {
	entries := FrequencyCount(cleanedTable(), "Category Name", FrequencyOptions{})

	require.Len(t, entries, 2)
	total := 0
	for _, e := range entries {
		assert.NotEqual(t, NullKey, e.Label())
		total += e.Count
	}
	assert.Equal(t, 4, total)
}

func TestFrequencyCountKeepNulls(t *testing.T) {
	entries := FrequencyCount(cleanedTable(), "Category Name", FrequencyOptions{KeepNulls: true})

	require.Len(t, entries, 3)
	labels := make(map[string]int)
	for _, e := range entries {
		labels[e.Label()] = e.Count
	}
	assert.Equal(t, 1, labels[NullKey])
	assert.Equal(t, 3, labels["Vodka"])
}

func TestFrequencyCountWithFilter(t *testing.T) {
	filter := &Filter{Column: "City", Equals: "Ames"}
	entries := FrequencyCount(cleanedTable(), "Category Name", FrequencyOptions{Filter: filter})

	require.Len(t, entries, 2)
	assert.Equal(t, "Vodka", entries[0].Label())
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, "Whiskey", entries[1].Label())
	assert.Equal(t, 1, entries[1].Count)
}

func TestFrequencyCountTopK(t *testing.T) {
	entries := FrequencyCount(cleanedTable(), "City", FrequencyOptions{TopK: 1})
	require.Len(t, entries, 1)
	assert.Equal(t, "Ames", entries[0].Label())
}

func TestFrequencyCountNoMatches(t *testing.T) {
	filter := &Filter{Column: "City", Equals: "Cedar Rapids"}
	entries := FrequencyCount(cleanedTable(), "Category Name", FrequencyOptions{Filter: filter})
	assert.Empty(t, entries)
}

func TestGroupedSum(t *testing.T) {
	sums := GroupedSum(cleanedTable(), "City", "Volume Sold (Liters)", nil)

	// First-encountered group order
	require.Len(t, sums, 3)
	assert.Equal(t, GroupSum{Group: "Ames", Sum: 3.0}, sums[0])
	assert.Equal(t, GroupSum{Group: "Des Moines", Sum: 1.0}, sums[1])
	assert.Equal(t, GroupSum{Group: "Iowa City", Sum: 2.0}, sums[2])
}

func TestGroupedSumWithFilter(t *testing.T) {
	filter := &Filter{Column: "Category Name", Equals: "Vodka"}
	sums := GroupedSum(cleanedTable(), "City", "Volume Sold (Liters)", filter)

	require.Len(t, sums, 2)
	assert.Equal(t, 2.25, sums[0].Sum)
	assert.Equal(t, "Ames", sums[0].Group)
}

func TestGroupedSumNoMatches(t *testing.T) {
	filter := &Filter{Column: "City", Equals: "Cedar Rapids"}
	sums := GroupedSum(cleanedTable(), "City", "Volume Sold (Liters)", filter)

	assert.Empty(t, sums)
	assert.Equal(t, 0.0, TotalSum(sums))
}

func TestGroupedSumSkipsNullGroups(t *testing.T) {
	sums := GroupedSum(cleanedTable(), "Category Name", "Volume Sold (Liters)", nil)

	for _, s := range sums {
		assert.NotEqual(t, NullKey, s.Group)
	}
	assert.Equal(t, 4.0, TotalSum(sums))
}

func TestMatchedCount(t *testing.T) {
	entries := []FrequencyEntry{
		{Value: "Straight Bourbon Whiskies", Count: 10},
		{Value: "Blended Whiskey", Count: 5},
		{Value: "Imported Vodka", Count: 7},
		{Value: "American Gin", Count: 3},
	}

	whiskey, err := MatchedCount(entries, "whisk")
	require.NoError(t, err)
	assert.Equal(t, 15, whiskey)

	vodka, err := MatchedCount(entries, "vodka")
	require.NoError(t, err)
	assert.Equal(t, 7, vodka)

	none, err := MatchedCount(entries, "tequila")
	require.NoError(t, err)
	assert.Equal(t, 0, none)
}

func TestMatchedCountInvalidPattern(t *testing.T) {
	_, err := MatchedCount(nil, "(unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestDescribe(t *testing.T) {
	tbl := cleanedTable()
	summaries := Describe(tbl, []string{"City", "Category Name"})

	require.Len(t, summaries, 2)

	city := summaries[0]
	assert.Equal(t, "City", city.Column)
	assert.Equal(t, 5, city.Count)
	assert.Equal(t, 3, city.Unique)
	assert.Equal(t, "Ames", city.Top)
	assert.Equal(t, 3, city.TopCount)

	category := summaries[1]
	assert.Equal(t, 4, category.Count) // one null
	assert.Equal(t, 2, category.Unique)
	assert.Equal(t, "Vodka", category.Top)
}

func TestAggregationsDoNotMutateTable(t *testing.T) {
	tbl := cleanedTable()
	before := tbl.Len()

	FrequencyCount(tbl, "City", FrequencyOptions{TopK: 1})
	GroupedSum(tbl, "City", "Volume Sold (Liters)", nil)
	Describe(tbl, tbl.Columns)

	assert.Equal(t, before, tbl.Len())
	assert.Equal(t, "Ames", tbl.Rows[0]["City"])
}
