package microbench

import (
	"fmt"
	"io"

	"github.com/mengfei25/torch-xpu-ops/internal/logging"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Config controls the benchmark loops.
type Config struct {
	Iterations  int
	Warmup      int
	MaxElements int
	Backward    bool
	DTypes      []DType
	// Progress receives one bar line per case when set.
	Progress io.Writer
}

const (
	DefaultIterations  = 20
	DefaultWarmup      = 1
	DefaultMaxElements = 1 << 27
)

// DefaultRollConfig matches the roll script: backward enabled.
func DefaultRollConfig() Config {
	return Config{
		Iterations:  DefaultIterations,
		Warmup:      DefaultWarmup,
		MaxElements: DefaultMaxElements,
		Backward:    true,
		DTypes:      DefaultDTypes,
	}
}

// DefaultBernoulliConfig matches the bernoulli script: forward only.
func DefaultBernoulliConfig() Config {
	cfg := DefaultRollConfig()
	cfg.Backward = false
	return cfg
}

func (c Config) normalized() Config {
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.Warmup < 0 {
		c.Warmup = 0
	}
	if c.MaxElements <= 0 {
		c.MaxElements = DefaultMaxElements
	}
	if len(c.DTypes) == 0 {
		c.DTypes = DefaultDTypes
	}
	return c
}

// RollCase is one roll configuration.
type RollCase struct {
	Shape  []int
	Shifts []int
	Dims   []int
}

// DefaultRollCases is the shape grid of the roll benchmark.
var DefaultRollCases = []RollCase{
	{Shape: []int{1024, 1024, 1024}, Shifts: []int{-1}, Dims: []int{0}},
	{Shape: []int{1024, 1024, 1024}, Shifts: []int{128, 128}, Dims: []int{-1, 0}},
	{Shape: []int{1024, 1024, 1024}, Shifts: []int{128}, Dims: []int{-1}},
	{Shape: []int{16, 3, 512, 512}, Shifts: []int{-1}, Dims: []int{-1}},
	{Shape: []int{16, 3, 512, 512}, Shifts: []int{127}, Dims: []int{0}},
	{Shape: []int{16, 3, 512, 512}, Shifts: []int{127, 127}, Dims: []int{0, -1}},
}

// BernoulliCase is one bernoulli_ configuration. TensorP marks the variant
// where the probability is passed as a scalar tensor.
type BernoulliCase struct {
	Shape   []int
	P       float64
	TensorP bool
}

// DefaultBernoulliCases is the shape grid of the bernoulli benchmark.
var DefaultBernoulliCases = []BernoulliCase{
	{Shape: []int{8192, 8192}, P: 0.5},
	{Shape: []int{8192, 8192}, P: 0.5, TensorP: true},
}

func (c BernoulliCase) pLabel() string {
	if c.TensorP {
		return fmt.Sprintf("tensor(%v)", c.P)
	}
	return fmt.Sprintf("%v", c.P)
}

// Result describes one executed or skipped case.
type Result struct {
	Op      string
	Shape   []int
	DType   DType
	Skipped bool
	Stats   []EventStats
}

// RunRoll runs every case for every dtype and prints a table per case.
func RunRoll(w io.Writer, cfg Config, cases []RollCase) ([]Result, error) {
	cfg = cfg.normalized()
	prog := newGridProgress(cfg.Progress, "roll", len(cases)*len(cfg.DTypes))
	var results []Result
	for _, c := range cases {
		for _, dt := range cfg.DTypes {
			res := Result{Op: "roll", Shape: c.Shape, DType: dt}
			if n := NumElements(c.Shape); n > cfg.MaxElements {
				logging.LogEvent("[MICROBENCH] skip roll shape=%v dtype=%s: %d elements exceeds limit %d", c.Shape, dt, n, cfg.MaxElements)
				res.Skipped = true
				results = append(results, res)
				prog.step(res)
				continue
			}
			fmt.Fprintf(w, "shape: %v ; datatype: %s ; dim: %v ; shifts: %v ; backward: %v\n", c.Shape, dt, c.Dims, c.Shifts, cfg.Backward)

			prof := NewProfiler()
			var err error
			switch dt {
			case Float32:
				err = runRollCase(prof, cfg, c, float32Codec)
			case Float16:
				err = runRollCase(prof, cfg, c, float16Codec)
			case BFloat16:
				err = runRollCase(prof, cfg, c, bf16Codec)
			default:
				err = errors.Errorf("unsupported dtype %d", dt)
			}
			if err != nil {
				return results, errors.Wrapf(err, "roll shape=%v dtype=%s", c.Shape, dt)
			}
			fmt.Fprintln(w, prof.Table())
			res.Stats = prof.KeyAverages()
			results = append(results, res)
			prog.step(res)
		}
	}
	return results, nil
}

func runRollCase[T any](prof *Profiler, cfg Config, c RollCase, cd codec[T]) error {
	input := randn(NumElements(c.Shape), cd)

	step := func(record bool) error {
		var out, grad []T
		var err error
		run := func(name string, fn func()) {
			if record {
				prof.Record(name, fn)
			} else {
				fn()
			}
		}
		run("aten::roll", func() { out, err = Roll(input, c.Shape, c.Shifts, c.Dims) })
		if err != nil || !cfg.Backward {
			return err
		}
		run("aten::empty_like", func() { grad = make([]T, len(out)) })
		run("RollBackward0", func() { _, err = RollBackward(grad, c.Shape, c.Shifts, c.Dims) })
		return err
	}

	for i := 0; i < cfg.Warmup; i++ {
		if err := step(false); err != nil {
			return err
		}
	}
	for i := 0; i < cfg.Iterations; i++ {
		if err := step(true); err != nil {
			return err
		}
	}
	return nil
}

// RunBernoulli runs every case for every dtype and prints a table per case.
func RunBernoulli(w io.Writer, cfg Config, cases []BernoulliCase) ([]Result, error) {
	cfg = cfg.normalized()
	prog := newGridProgress(cfg.Progress, "bernoulli_", len(cases)*len(cfg.DTypes))
	var results []Result
	for _, c := range cases {
		for _, dt := range cfg.DTypes {
			res := Result{Op: "bernoulli_", Shape: c.Shape, DType: dt}
			if n := NumElements(c.Shape); n > cfg.MaxElements {
				logging.LogEvent("[MICROBENCH] skip bernoulli_ shape=%v dtype=%s: %d elements exceeds limit %d", c.Shape, dt, n, cfg.MaxElements)
				res.Skipped = true
				results = append(results, res)
				prog.step(res)
				continue
			}
			fmt.Fprintf(w, "shape: %v ; datatype: %s ; P: %s ; backward: %v\n", c.Shape, dt, c.pLabel(), cfg.Backward)

			prof := NewProfiler()
			var err error
			switch dt {
			case Float32:
				err = runBernoulliCase(prof, cfg, c, float32(1), float32(0))
			case Float16:
				err = runBernoulliCase(prof, cfg, c, float16.Fromfloat32(1), float16.Fromfloat32(0))
			case BFloat16:
				err = runBernoulliCase(prof, cfg, c, BF16FromFloat32(1), BF16FromFloat32(0))
			default:
				err = errors.Errorf("unsupported dtype %d", dt)
			}
			if err != nil {
				return results, errors.Wrapf(err, "bernoulli_ shape=%v dtype=%s", c.Shape, dt)
			}
			fmt.Fprintln(w, prof.Table())
			res.Stats = prof.KeyAverages()
			results = append(results, res)
			prog.step(res)
		}
	}
	return results, nil
}

func runBernoulliCase[T any](prof *Profiler, cfg Config, c BernoulliCase, one, zero T) error {
	buf := make([]T, NumElements(c.Shape))
	for i := 0; i < cfg.Warmup; i++ {
		if err := Bernoulli(buf, c.P, one, zero); err != nil {
			return err
		}
	}
	for i := 0; i < cfg.Iterations; i++ {
		var err error
		prof.Record("aten::bernoulli_", func() { err = Bernoulli(buf, c.P, one, zero) })
		if err != nil {
			return err
		}
	}
	return nil
}
