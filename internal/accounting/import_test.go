package accounting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseExpenseRows(t *testing.T) {
	rows := [][]string{
		{"Date", "Category", "Amount", "Description"},
		{"2026-01-15", "Utilities", "12,500", "Office electricity"},
		{"2026-01-20", "Marketing", "PKR 40000", ""},
		{"", "", "", ""},
		{"not-a-date", "Utilities", "100", "bad date"},
		{"2026-02-01", "", "100", "missing category"},
		{"2026-02-02", "Utilities", "-5", "negative amount"},
		{"2026-02-03", "Rent"},
	}

	parsed, skipped := ParseExpenseRows(rows)

	require.Len(t, parsed, 2)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), parsed[0].Date)
	assert.Equal(t, "Utilities", parsed[0].Category)
	assert.Equal(t, 12500.0, parsed[0].Amount)
	assert.Equal(t, "Office electricity", parsed[0].Description)
	assert.Equal(t, 40000.0, parsed[1].Amount)

	// Bad date, missing category, bad amount and short row all get skipped.
	assert.Len(t, skipped, 4)
}

func TestParseExpenseRowsNoHeader(t *testing.T) {
	rows := [][]string{
		{"2026-01-15", "Utilities", "1000", ""},
		{"2026-01-16", "Rent", "2000", ""},
	}

	parsed, skipped := ParseExpenseRows(rows)
	require.Len(t, parsed, 2)
	assert.Empty(t, skipped)
}

func TestParseExpenseRowsFromWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"DATE", "CATEGORY", "AMOUNT", "DESCRIPTION"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2026-03-01", "Maintenance", "7500", "Generator service"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"2026-03-05", "Utilities", "3200", ""}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows(reopened.GetSheetList()[0])
	require.NoError(t, err)

	parsed, skipped := ParseExpenseRows(rows)
	require.Len(t, parsed, 2)
	assert.Empty(t, skipped)
	assert.Equal(t, "Maintenance", parsed[0].Category)
	assert.Equal(t, 7500.0, parsed[0].Amount)
}
