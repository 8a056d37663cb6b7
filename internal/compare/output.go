package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mengfei25/torch-xpu-ops/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []ComparisonRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return errors.Wrapf(err, "write row %s/%s", row.Category, row.Model)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// SaveCSV writes rows to path on fs, creating parent directories.
func SaveCSV(fs afero.Fs, path string, rows []ComparisonRow) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "unable to create directory for %s", path)
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	if err := WriteCSV(f, rows); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	logging.LogFileEvent("write", path, len(rows))
	return nil
}

// ReadCSV parses a report written by WriteCSV.
func ReadCSV(r io.Reader) ([]ComparisonRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	for i, h := range Header {
		if header[i] != h {
			return nil, errors.Errorf("unexpected column %d: %q, want %q", i, header[i], h)
		}
	}
	var rows []ComparisonRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "read row")
		}
		row, err := rowFromRecord(record)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderTable lays the rows out as a bordered terminal table.
func RenderTable(rows []ComparisonRow) string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Header...).
		Rows(records...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// Print writes the table followed by one "<column> : <mean>" line per summary.
func Print(w io.Writer, rep Report) {
	fmt.Fprintln(w, RenderTable(rep.Rows))
	for _, s := range rep.Summaries {
		fmt.Fprintf(w, "%s : %s\n", s.Column, s.Display())
	}
}
