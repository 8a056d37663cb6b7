package compare

import (
	"path/filepath"
	"sort"

	"github.com/mengfei25/torch-xpu-ops/internal/benchfile"
	"github.com/mengfei25/torch-xpu-ops/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Options configures one comparison run.
type Options struct {
	Fs               afero.Fs
	TargetDir        string
	BaselineDir      string
	Pattern          string
	CategoryPatterns []string
}

// FilePair records how one target file was matched.
type FilePair struct {
	Target      string `json:"target"`
	Baseline    string `json:"baseline"`
	HasBaseline bool   `json:"has_baseline"`
	Rows        int    `json:"rows"`
}

// Report is the outcome of Run.
type Report struct {
	Files     []FilePair      `json:"files"`
	Rows      []ComparisonRow `json:"rows"`
	Summaries []Summary       `json:"summaries"`
}

// Run discovers target files, pairs each with its baseline counterpart and
// merges them. Rows keep file discovery order; within a file they are sorted
// by model name.
func Run(opts Options) (Report, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = benchfile.DefaultPattern
	}
	if err := benchfile.RequireDir(fs, opts.TargetDir); err != nil {
		return Report{}, errors.Wrap(err, "target directory")
	}
	if err := benchfile.RequireDir(fs, opts.BaselineDir); err != nil {
		return Report{}, errors.Wrap(err, "baseline directory")
	}
	labeler, err := NewLabeler(opts.CategoryPatterns)
	if err != nil {
		return Report{}, err
	}

	targetDir := filepath.Clean(opts.TargetDir)
	baselineDir := filepath.Clean(opts.BaselineDir)
	targets, err := benchfile.Discover(fs, targetDir, pattern)
	if err != nil {
		return Report{}, err
	}
	logging.LogEvent("[COMPARE] found %d target files under %s", len(targets), targetDir)

	var rep Report
	for _, targetPath := range targets {
		target, err := benchfile.Load(fs, targetPath)
		if err != nil {
			return Report{}, err
		}
		logging.LogFileEvent("load", targetPath, target.Len())

		pair := FilePair{
			Target:   targetPath,
			Baseline: filepath.Clean(BaselinePath(targetPath, targetDir, baselineDir)),
		}
		pair.HasBaseline, err = benchfile.FileExists(fs, pair.Baseline)
		if err != nil {
			return Report{}, err
		}

		category := labeler.Label(targetPath)
		var rows []ComparisonRow
		if pair.HasBaseline {
			baseline, err := benchfile.Load(fs, pair.Baseline)
			if err != nil {
				return Report{}, err
			}
			logging.LogFileEvent("load", pair.Baseline, baseline.Len())
			rows = MergeTables(category, target, baseline)
		} else {
			logging.LogEvent("[COMPARE] no baseline for %s (looked for %s)", targetPath, pair.Baseline)
			rows = TargetOnly(category, target)
		}
		pair.Rows = len(rows)
		rep.Files = append(rep.Files, pair)
		rep.Rows = append(rep.Rows, rows...)
	}

	rep.Summaries = Summarize(rep.Rows)
	return rep, nil
}

// side holds the derived values for one backend of one model.
type side struct {
	row     benchfile.Row
	present bool
	eager   Cell
	abs     Cell
	speedup Cell
}

func deriveSide(t *benchfile.Table, name string) side {
	row, ok := t.Lookup(name)
	if !ok {
		return side{eager: Sentinel(-1), abs: Sentinel(-1), speedup: Sentinel(-1)}
	}
	return side{
		row:     row,
		present: true,
		eager:   Number(row.Speedup*row.AbsLatency, t.SpeedupIntegral && t.LatencyIntegral),
		abs:     Number(row.AbsLatency, t.LatencyIntegral),
		speedup: Number(row.Speedup, t.SpeedupIntegral),
	}
}

// MergeTables emits one row per model name found in either table.
func MergeTables(category string, target, baseline *benchfile.Table) []ComparisonRow {
	names := unionNames(target, baseline)
	rows := make([]ComparisonRow, 0, len(names))
	for _, name := range names {
		t := deriveSide(target, name)
		b := deriveSide(baseline, name)

		eagerRatio := Sentinel(0)
		if t.present && b.present && t.eager.Value > 0 {
			eagerRatio = Float(b.eager.Value / t.eager.Value)
		}
		inductorRatio := Sentinel(0)
		if t.present && b.present && t.row.AbsLatency > 0 {
			inductorRatio = Float(b.row.AbsLatency / t.row.AbsLatency)
		}

		rows = append(rows, ComparisonRow{
			Category:         category,
			Model:            name,
			TargetEager:      t.eager,
			TargetInductor:   t.abs,
			TargetSpeedup:    t.speedup,
			BaselineEager:    b.eager,
			BaselineInductor: b.abs,
			BaselineSpeedup:  b.speedup,
			EagerRatio:       eagerRatio,
			InductorRatio:    inductorRatio,
		})
	}
	return rows
}

// TargetOnly emits one row per target model when the baseline file does not
// exist. Baseline and cross-backend cells stay empty rather than carrying the
// -1/0 markers used for a model missing from an existing file.
func TargetOnly(category string, target *benchfile.Table) []ComparisonRow {
	names := target.Names()
	rows := make([]ComparisonRow, 0, len(names))
	for _, name := range names {
		t := deriveSide(target, name)
		rows = append(rows, ComparisonRow{
			Category:       category,
			Model:          name,
			TargetEager:    t.eager,
			TargetInductor: t.abs,
			TargetSpeedup:  t.speedup,
		})
	}
	return rows
}

func unionNames(a, b *benchfile.Table) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, t := range []*benchfile.Table{a, b} {
		for _, name := range t.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
