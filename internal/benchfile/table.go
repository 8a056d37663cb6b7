package benchfile

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Column names every benchmark file must carry. Other columns are ignored.
const (
	ColumnName       = "name"
	ColumnSpeedup    = "speedup"
	ColumnAbsLatency = "abs_latency"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Row is one measured model within a benchmark file.
type Row struct {
	Name       string
	Speedup    float64
	AbsLatency float64
	// Line is the 1-based line number in the source file.
	Line int
}

// Table holds the rows of one benchmark file in file order.
type Table struct {
	Path string
	Rows []Row

	// SpeedupIntegral and LatencyIntegral report whether every value of the
	// column was written as an integer. Formatting of copied values follows it.
	SpeedupIntegral bool
	LatencyIntegral bool

	index map[string]int
}

// Lookup returns the first row named name.
func (t *Table) Lookup(name string) (Row, bool) {
	i, ok := t.index[name]
	if !ok {
		return Row{}, false
	}
	return t.Rows[i], true
}

// Names returns the distinct model names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.index))
	for name := range t.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of rows, duplicates included.
func (t *Table) Len() int { return len(t.Rows) }

// Load opens path on fs and parses it with Parse.
func Load(fs afero.Fs, path string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open benchmark file %s", path)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a benchmark CSV. path is only used in error messages and
// recorded on the table.
func Parse(r io.Reader, path string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrapf(ErrMissingColumn, "%s: empty file", path)
		}
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	nameIdx, speedupIdx, latencyIdx := -1, -1, -1
	for i, col := range header {
		switch col {
		case ColumnName:
			if nameIdx < 0 {
				nameIdx = i
			}
		case ColumnSpeedup:
			if speedupIdx < 0 {
				speedupIdx = i
			}
		case ColumnAbsLatency:
			if latencyIdx < 0 {
				latencyIdx = i
			}
		}
	}
	required := []struct {
		name string
		idx  int
	}{{ColumnName, nameIdx}, {ColumnSpeedup, speedupIdx}, {ColumnAbsLatency, latencyIdx}}
	for _, col := range required {
		if col.idx < 0 {
			return nil, errors.Wrapf(ErrMissingColumn, "%s: column %q", path, col.name)
		}
	}

	table := &Table{
		Path:            path,
		SpeedupIntegral: true,
		LatencyIntegral: true,
		index:           make(map[string]int),
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		line, _ := reader.FieldPos(0)

		speedup, speedupInt, err := parseNumber(field(record, speedupIdx))
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: column %q", path, line, ColumnSpeedup)
		}
		latency, latencyInt, err := parseNumber(field(record, latencyIdx))
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: column %q", path, line, ColumnAbsLatency)
		}
		table.SpeedupIntegral = table.SpeedupIntegral && speedupInt
		table.LatencyIntegral = table.LatencyIntegral && latencyInt

		row := Row{
			Name:       field(record, nameIdx),
			Speedup:    speedup,
			AbsLatency: latency,
			Line:       line,
		}
		if _, seen := table.index[row.Name]; !seen {
			table.index[row.Name] = len(table.Rows)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseNumber accepts an empty cell as NaN, matching how the benchmark
// harness leaves failed measurements blank.
func parseNumber(raw string) (float64, bool, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return math.NaN(), false, nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return float64(n), true, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, errors.Errorf("invalid number %q", raw)
	}
	return v, false, nil
}
