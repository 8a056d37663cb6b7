// Package compare merges target and baseline benchmark files into one
// comparison report.
package compare

// Output columns, in file order.
const (
	HeaderCategory         = "Category"
	HeaderModel            = "Model"
	HeaderTargetEager      = "Target eager"
	HeaderTargetInductor   = "Target inductor"
	HeaderTargetSpeedup    = "Inductor vs. Eager [Target]"
	HeaderBaselineEager    = "Baseline eager"
	HeaderBaselineInductor = "Baseline inductor"
	HeaderBaselineSpeedup  = "Inductor vs. Eager [Baseline]"
	HeaderEagerRatio       = "Target vs. Baseline [Eager]"
	HeaderInductorRatio    = "Target vs. Baseline [Inductor]"
)

// Header is the fixed ten-column CSV header.
var Header = []string{
	HeaderCategory,
	HeaderModel,
	HeaderTargetEager,
	HeaderTargetInductor,
	HeaderTargetSpeedup,
	HeaderBaselineEager,
	HeaderBaselineInductor,
	HeaderBaselineSpeedup,
	HeaderEagerRatio,
	HeaderInductorRatio,
}

// ComparisonRow is one model of one file pair.
type ComparisonRow struct {
	Category string `json:"category"`
	Model    string `json:"model"`

	TargetEager    Cell `json:"target_eager"`
	TargetInductor Cell `json:"target_inductor"`
	TargetSpeedup  Cell `json:"target_speedup"`

	BaselineEager    Cell `json:"baseline_eager"`
	BaselineInductor Cell `json:"baseline_inductor"`
	BaselineSpeedup  Cell `json:"baseline_speedup"`

	// EagerRatio and InductorRatio are baseline latency over target latency;
	// above 1 means the target is faster.
	EagerRatio    Cell `json:"eager_ratio"`
	InductorRatio Cell `json:"inductor_ratio"`
}

// Metrics returns the eight numeric cells in header order.
func (r ComparisonRow) Metrics() []Cell {
	return []Cell{
		r.TargetEager,
		r.TargetInductor,
		r.TargetSpeedup,
		r.BaselineEager,
		r.BaselineInductor,
		r.BaselineSpeedup,
		r.EagerRatio,
		r.InductorRatio,
	}
}

// Column looks up a numeric cell by its header name.
func (r ComparisonRow) Column(name string) (Cell, bool) {
	for i, h := range Header[2:] {
		if h == name {
			return r.Metrics()[i], true
		}
	}
	return Cell{}, false
}

// Record renders the row as CSV fields in header order.
func (r ComparisonRow) Record() []string {
	record := make([]string, 0, len(Header))
	record = append(record, r.Category, r.Model)
	for _, c := range r.Metrics() {
		record = append(record, c.String())
	}
	return record
}

func rowFromRecord(record []string) (ComparisonRow, error) {
	cells := make([]Cell, len(record)-2)
	for i, text := range record[2:] {
		c, err := ParseCell(text)
		if err != nil {
			return ComparisonRow{}, err
		}
		cells[i] = c
	}
	return ComparisonRow{
		Category:         record[0],
		Model:            record[1],
		TargetEager:      cells[0],
		TargetInductor:   cells[1],
		TargetSpeedup:    cells[2],
		BaselineEager:    cells[3],
		BaselineInductor: cells[4],
		BaselineSpeedup:  cells[5],
		EagerRatio:       cells[6],
		InductorRatio:    cells[7],
	}, nil
}
