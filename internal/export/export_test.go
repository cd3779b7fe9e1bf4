package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/gstbill/internal/domain"
)

func sampleOutward() *domain.PeriodReport {
	d := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return &domain.PeriodReport{
		Kind:        domain.ReportOutward,
		From:        d,
		To:          d.AddDate(0, 0, 29),
		GeneratedAt: time.Date(2026, 5, 2, 10, 30, 15, 0, time.Local),
		Rows: []domain.SupplyRow{
			{
				DocumentNumber: "INV-2026-00001", Date: d, GSTIN: "29ABCDE1234F1Z5", PartyName: "Acme, Ltd",
				HSNCode: "8471", Quantity: 3, UnitPrice: decimal.NewFromInt(100), Rate: domain.Rate18,
				TaxAmount: decimal.NewFromInt(54), LineTotal: decimal.NewFromInt(354),
			},
			{
				DocumentNumber: "INV-2026-00002", Date: d.AddDate(0, 0, 1), GSTIN: "", PartyName: `Walk-in "cash"`,
				HSNCode: "", Quantity: 1, UnitPrice: decimal.RequireFromString("19.99"), Rate: domain.Rate12,
				TaxAmount: decimal.RequireFromString("2.40"), LineTotal: decimal.RequireFromString("22.39"),
			},
		},
	}
}

func TestWriter_RoundTripAcrossForms(t *testing.T) {
	dir := t.TempDir()
	report := sampleOutward()
	want := report.Table()

	paths, err := NewWriter(dir).Write(report)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for i, ext := range Extensions {
		assert.Equal(t, filepath.Join(dir, "GSTR1_"+report.GeneratedAt.Format(stampLayout)+ext), paths[i])
	}

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	fromJSON, err := ReadJSON(data, want.Columns)
	require.NoError(t, err)

	f, err := os.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()
	csvHeader, fromCSV, err := ReadCSV(f)
	require.NoError(t, err)

	xlsxHeader, fromXLSX, err := ReadWorkbook(paths[2])
	require.NoError(t, err)

	assert.Equal(t, want.Columns, csvHeader)
	assert.Equal(t, want.Columns, xlsxHeader)

	require.Len(t, fromJSON, len(want.Rows))
	require.Len(t, fromCSV, len(want.Rows))
	require.Len(t, fromXLSX, len(want.Rows))
	assert.Equal(t, want.Rows, fromJSON)
	assert.Equal(t, want.Rows, fromCSV)
	assert.Equal(t, want.Rows, fromXLSX)
}

func TestWriter_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	report := sampleOutward()
	w := NewWriter(dir)

	first, err := w.Write(report)
	require.NoError(t, err)
	second, err := w.Write(report)
	require.NoError(t, err)
	third, err := w.Write(report)
	require.NoError(t, err)

	assert.NotEqual(t, first[0], second[0])
	assert.True(t, strings.HasSuffix(second[0], "_2.json"), second[0])
	assert.True(t, strings.HasSuffix(third[2], "_3.xlsx"), third[2])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 9)
}

func TestWriter_SummaryUsesReturnName(t *testing.T) {
	dir := t.TempDir()
	s := domain.LiabilitySummary{}
	report := &domain.PeriodReport{Kind: domain.ReportSummary, Summary: &s}
	w := NewWriter(dir)
	w.now = func() time.Time { return time.Date(2026, 4, 30, 23, 59, 59, 0, time.Local) }

	paths, err := w.Write(report)
	require.NoError(t, err)
	assert.Equal(t, "GSTR3B_20260430_235959.json", filepath.Base(paths[0]))
}

func TestCSV_QuotesDelimiters(t *testing.T) {
	out, err := CSV(sampleOutward().Table())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"Acme, Ltd"`)
	assert.Contains(t, lines[2], `"Walk-in ""cash"""`)
}

func TestJSON_KeepsColumnOrder(t *testing.T) {
	out, err := JSON(domain.Table{
		Columns: []string{"zeta", "alpha"},
		Rows:    [][]string{{"1", "2"}},
	})
	require.NoError(t, err)
	assert.Less(t, bytes.Index(out, []byte("zeta")), bytes.Index(out, []byte("alpha")))

	_, err = JSON(domain.Table{Columns: []string{"a", "b"}, Rows: [][]string{{"1"}}})
	assert.Error(t, err)

	empty, err := JSON(domain.Table{Columns: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}

func TestJSON_EscapesCells(t *testing.T) {
	cols := []string{"party", "note"}
	out, err := JSON(domain.Table{
		Columns: cols,
		Rows:    [][]string{{`Walk-in "cash"`, "श्री\tline\nbreak"}},
	})
	require.NoError(t, err)

	rows, err := ReadJSON(out, cols)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{`Walk-in "cash"`, "श्री\tline\nbreak"}}, rows)
}

func TestText_ShowsEveryRow(t *testing.T) {
	out := Text(sampleOutward().Table())
	assert.Contains(t, out, "INV-2026-00001")
	assert.Contains(t, out, "INV-2026-00002")
	assert.Contains(t, out, "document_number")
	assert.Contains(t, out, "2 row(s)")
}
