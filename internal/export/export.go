// Package export renders period reports. Every form is produced from the same
// domain.Table, so the structured, delimited and tabular outputs always hold
// the same rows and cells.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xuri/excelize/v2"

	"github.com/andy/gstbill/internal/domain"
)

// Extensions written for every report, in write order.
var Extensions = []string{".json", ".csv", ".xlsx"}

const stampLayout = "20060102_150405"

// JSON renders the table as an array of objects whose keys follow column
// order.
func JSON(t domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(col)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			v, err := json.Marshal(row[j])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, col, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// ReadJSON parses JSON output back into rows ordered by columns.
func ReadJSON(data []byte, columns []string) ([][]string, error) {
	var objs []map[string]string
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(objs))
	for _, o := range objs {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = o[c]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CSV renders a header row followed by one record per row. Cells holding
// commas, quotes or newlines are quoted.
func CSV(t domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses CSV output, returning the header and the records.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv has no header")
	}
	return records[0], records[1:], nil
}

// Workbook builds a single-sheet workbook. Cells are written as text so the
// values read back exactly as rendered.
func Workbook(sheet string, t domain.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	for r, row := range append([][]string{t.Columns}, t.Rows...) {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

// ReadWorkbook reads the first sheet back, padding short rows to the
// header width since trailing empty cells are not stored.
func ReadWorkbook(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("workbook %s has no header", path)
	}

	header := rows[0]
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		body = append(body, row)
	}
	return header, body, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Text renders the table for a terminal.
func Text(t domain.Table) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return tbl.String() + "\n" + strconv.Itoa(len(t.Rows)) + " row(s)\n"
}

// Writer saves reports under a directory as {RETURN}_{YYYYMMDD_HHMMSS}.*
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a Writer for dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Write renders the report in every file form. An existing base name gets
// a numeric suffix so earlier runs are never overwritten.
func (w *Writer) Write(report *domain.PeriodReport) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	stamp := report.GeneratedAt
	if stamp.IsZero() {
		stamp = w.now()
	}
	base := w.uniqueBase(report.Kind.ReturnName() + "_" + stamp.Format(stampLayout))
	t := report.Table()

	paths := make([]string, 0, len(Extensions))
	write := func(ext string, data []byte) error {
		p := filepath.Join(w.dir, base+ext)
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
		paths = append(paths, p)
		return nil
	}

	data, err := JSON(t)
	if err != nil {
		return paths, fmt.Errorf("failed to render json: %w", err)
	}
	if err := write(".json", data); err != nil {
		return paths, fmt.Errorf("failed to write json: %w", err)
	}

	if data, err = CSV(t); err != nil {
		return paths, fmt.Errorf("failed to render csv: %w", err)
	}
	if err := write(".csv", data); err != nil {
		return paths, fmt.Errorf("failed to write csv: %w", err)
	}

	book, err := Workbook(report.Kind.ReturnName(), t)
	if err != nil {
		return paths, fmt.Errorf("failed to render workbook: %w", err)
	}
	defer book.Close()
	p := filepath.Join(w.dir, base+".xlsx")
	if err := book.SaveAs(p); err != nil {
		return paths, fmt.Errorf("failed to write workbook: %w", err)
	}
	paths = append(paths, p)

	return paths, nil
}

func (w *Writer) uniqueBase(base string) string {
	candidate := base
	for n := 2; w.exists(candidate); n++ {
		candidate = base + "_" + strconv.Itoa(n)
	}
	return candidate
}

func (w *Writer) exists(base string) bool {
	for _, ext := range Extensions {
		if _, err := os.Stat(filepath.Join(w.dir, base+ext)); err == nil {
			return true
		}
	}
	return false
}
