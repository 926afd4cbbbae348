package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordIsNull(t *testing.T) {
	rec := Record{"City": "Ames", "Category Name": nil}

	assert.False(t, rec.IsNull("City"))
	assert.True(t, rec.IsNull("Category Name"))
	assert.True(t, rec.IsNull("Missing Column"))
}

func TestTableColumns(t *testing.T) {
	tbl := New([]string{"City", "Sale (Dollars)"})

	assert.True(t, tbl.HasColumn("City"))
	assert.False(t, tbl.HasColumn("Month"))
	assert.Equal(t, Text, tbl.Types["City"])

	tbl.AddColumn("Month", Text)
	assert.True(t, tbl.HasColumn("Month"))
	assert.Equal(t, []string{"City", "Sale (Dollars)", "Month"}, tbl.Columns)

	// Re-adding is a no-op
	tbl.AddColumn("Month", Numeric)
	assert.Equal(t, Text, tbl.Types["Month"])
	assert.Len(t, tbl.Columns, 3)
}

func TestNullCount(t *testing.T) {
	tbl := New([]string{"City"})
	tbl.Append(Record{"City": "Ames"})
	tbl.Append(Record{"City": nil})
	tbl.Append(Record{})

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 2, tbl.NullCount("City"))
}

func TestColumnTypeString(t *testing.T) {
	assert.Equal(t, "text", Text.String())
	assert.Equal(t, "numeric", Numeric.String())
}
