package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrutalPeanut/iowa-liquor-sales/internal/model"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/table"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `Date,City,Category Name,Sale (Dollars)
12/26/2015,AMES,Vodka,10.45
11/09/2015,Des Moines,Whiskey,82.50
`)

	tbl, quarantined, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, quarantined)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"Date", "City", "Category Name", "Sale (Dollars)"}, tbl.Columns)

	// Types are inferred per column
	assert.Equal(t, table.Text, tbl.Types["City"])
	assert.Equal(t, table.Text, tbl.Types["Date"])
	assert.Equal(t, table.Numeric, tbl.Types["Sale (Dollars)"])

	assert.Equal(t, "AMES", tbl.Rows[0]["City"])
	assert.Equal(t, 10.45, tbl.Rows[0]["Sale (Dollars)"])
}

func TestLoadCSVEmptyCellsAreNull(t *testing.T) {
	path := writeCSV(t, `City,Sale (Dollars)
Ames,10.45
,5.00
`)

	tbl, _, err := LoadCSV(path)
	require.NoError(t, err)
	assert.True(t, tbl.Rows[1].IsNull("City"))
	assert.Equal(t, 1, tbl.NullCount("City"))
}

func TestLoadCSVQuarantinesBadRows(t *testing.T) {
	path := writeCSV(t, `City,Sale (Dollars)
Ames,10.45
Des Moines
Iowa City,5.00
`)

	tbl, quarantined, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	require.Len(t, quarantined, 1)
	assert.Equal(t, 3, quarantined[0].Line)
	assert.Equal(t, "loading", quarantined[0].Stage)
	assert.Contains(t, quarantined[0].Reason, "expected 2 columns, got 1")
}

func TestLoadCSVMixedColumnStaysText(t *testing.T) {
	path := writeCSV(t, `Code
123
A45
`)

	tbl, _, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, table.Text, tbl.Types["Code"])
	// values still parse individually
	assert.Equal(t, 123, tbl.Rows[0]["Code"])
	assert.Equal(t, "A45", tbl.Rows[1]["Code"])
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open CSV file")
}

func TestLoadSourceUnknownType(t *testing.T) {
	_, _, err := LoadSource(model.Source{Type: "parquet", URL: "sales.parquet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source type")
}
