package main

import (
	"fmt"
	"os"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/chart"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/pipeline"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
)

// Column names of the Iowa liquor sales extract.
const (
	colDate     = "Date"
	colCity     = "City"
	colCategory = "Category Name"
	colItem     = "Item Description"
	colVolume   = "Volume Sold (Gallons)"
)

// cleaningSpec title-cases both City and Category Name so that differently
// capitalized duplicates collapse into one key.
func cleaningSpec() model.Cleaning {
	return model.Cleaning{
		RequiredColumns:  []string{colCity, colCategory},
		TitleCaseColumns: []string{colCity, colCategory},
		DateColumn:       colDate,
	}
}

// cityPreference counts categories for one city and sums the vodka and
// whiskey orders across all of them. "whisk" catches both "Whiskey" and
// "Whiskies" spellings.
func cityPreference(t *table.Table, city string) ([]pipeline.FrequencyEntry, int, int, error) {
	entries := pipeline.FrequencyCount(t, colCategory, pipeline.FrequencyOptions{
		Filter: &pipeline.Filter{Column: colCity, Equals: city},
	})

	vodka, err := pipeline.MatchedCount(entries, "vodka")
	if err != nil {
		return nil, 0, 0, err
	}
	whiskey, err := pipeline.MatchedCount(entries, "whisk")
	if err != nil {
		return nil, 0, 0, err
	}
	return entries, vodka, whiskey, nil
}

func main() {
	path := "Iowa_Liquor_Sales.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	t, quarantined, err := pipeline.LoadCSV(path)
	if err != nil {
		fmt.Printf("❌ Failed to load %s: %v\n", path, err)
		os.Exit(1)
	}
	if len(quarantined) > 0 {
		fmt.Printf("⚠️  %d malformed rows quarantined during load\n", len(quarantined))
	}

	// --- Overview ---
	fmt.Printf("\n📋 Table: %d rows x %d columns\n", t.Len(), len(t.Columns))
	for _, s := range pipeline.Describe(t, t.Columns) {
		fmt.Printf("   %-28s %-8s count=%-8d unique=%-7d top=%q (%d)\n",
			s.Column, s.Type, s.Count, s.Unique, s.Top, s.TopCount)
	}

	fmt.Println("\n🔎 Null audit:")
	for _, col := range t.Columns {
		if n := t.NullCount(col); n > 0 {
			fmt.Printf("   %-28s %d nulls\n", col, n)
		}
	}

	// --- Clean ---
	result, err := pipeline.Clean(t, cleaningSpec())
	if err != nil {
		fmt.Printf("❌ Cleaning failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n🧹 %d rows remain after dropping %d with nulls and quarantining %d\n",
		t.Len(), result.NullsDropped, len(result.Quarantined))

	// --- Cities ---
	topCities := pipeline.FrequencyCount(t, colCity, pipeline.FrequencyOptions{
		TopK:      5,
		KeepNulls: true,
	})
	fmt.Println("\n🏙️  Top 5 cities by sale count:")
	for _, e := range topCities {
		fmt.Printf("   %-20s %d\n", e.Label(), e.Count)
	}

	cityVolumes := pipeline.GroupedSum(t, colCity, colVolume, nil)
	fmt.Println("\n🏙️  Volume sold (gallons) in the top cities:")
	for _, e := range topCities {
		for _, gs := range cityVolumes {
			if gs.Group == e.Label() {
				fmt.Printf("   %-20s %.2f\n", gs.Group, gs.Sum)
			}
		}
	}

	// --- Months ---
	months := pipeline.FrequencyCount(t, pipeline.MonthColumn, pipeline.FrequencyOptions{})
	fmt.Println("\n📅 Sales per month:")
	for _, e := range months {
		fmt.Printf("   %-4s %d\n", e.Label(), e.Count)
	}

	charter := chart.NewExcelCharter("sales_by_month.xlsx")
	if err := pipeline.ChartSeries(pipeline.FrequencySeries(months), charter,
		"Sales by Month", "Month", "Sales"); err != nil {
		fmt.Printf("⚠️  Chart failed: %v\n", err)
	} else {
		fmt.Println("💾 Chart written to sales_by_month.xlsx")
	}

	days := pipeline.FrequencyCount(t, pipeline.MonthDayColumn, pipeline.FrequencyOptions{TopK: 10})
	fmt.Println("\n📅 Busiest days:")
	for _, e := range days {
		fmt.Printf("   %-8s %d\n", e.Label(), e.Count)
	}

	// --- Brands and categories ---
	fmt.Println("\n🥃 Top 10 items:")
	for _, e := range pipeline.FrequencyCount(t, colItem, pipeline.FrequencyOptions{TopK: 10}) {
		fmt.Printf("   %-40s %d\n", e.Label(), e.Count)
	}

	fmt.Println("\n🥃 Top 10 categories:")
	for _, e := range pipeline.FrequencyCount(t, colCategory, pipeline.FrequencyOptions{TopK: 10}) {
		fmt.Printf("   %-40s %d\n", e.Label(), e.Count)
	}

	// --- College towns ---
	for _, city := range []string{"Ames", "Iowa City"} {
		entries, vodka, whiskey, err := cityPreference(t, city)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n🥃 Top 5 categories in %s:\n", city)
		for i, e := range entries {
			if i >= 5 {
				break
			}
			fmt.Printf("   %-40s %d\n", e.Label(), e.Count)
		}
		fmt.Printf("   🍸 Vodka:   %d\n", vodka)
		fmt.Printf("   🥃 Whiskey: %d\n", whiskey)
	}
}
