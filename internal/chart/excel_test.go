package chart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRenderLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "sales_by_month.xlsx")
	charter := NewExcelCharter(path)

	labels := []string{"01", "02", "03"}
	values := []float64{10, 25, 40}
	require.NoError(t, charter.RenderLine(labels, values, "Sales by Month", "Month", "Sales"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Data")

	xHeader, err := f.GetCellValue("Data", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Month", xHeader)

	firstLabel, err := f.GetCellValue("Data", "A2")
	require.NoError(t, err)
	assert.Equal(t, "01", firstLabel)

	lastValue, err := f.GetCellValue("Data", "B4")
	require.NoError(t, err)
	assert.Equal(t, "40", lastValue)
}

func TestRenderLineLengthMismatch(t *testing.T) {
	charter := NewExcelCharter(filepath.Join(t.TempDir(), "bad.xlsx"))

	err := charter.RenderLine([]string{"01"}, []float64{1, 2}, "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equal length")
}
