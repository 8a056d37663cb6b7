// Package microbench runs CPU loops for single tensor operations and reports
// profiler-style timing tables.
package microbench

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// DType selects the element type of a benchmark buffer.
type DType int

const (
	Float32 DType = iota
	Float16
	BFloat16
)

// DefaultDTypes is the order the benchmark grids iterate element types.
var DefaultDTypes = []DType{BFloat16, Float16, Float32}

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	default:
		return "unknown"
	}
}

// Size is the element width in bytes.
func (d DType) Size() int {
	if d == Float32 {
		return 4
	}
	return 2
}

// ParseDType accepts the usual spellings, e.g. "bf16", "half", "fp32".
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "torch."))) {
	case "float32", "fp32", "float":
		return Float32, nil
	case "float16", "fp16", "half":
		return Float16, nil
	case "bfloat16", "bf16":
		return BFloat16, nil
	}
	return 0, errors.Errorf("unknown dtype %q", s)
}

// BF16 is a bfloat16 value: the upper half of an IEEE float32.
type BF16 uint16

// BF16FromFloat32 rounds f to the nearest bfloat16, ties to even.
func BF16FromFloat32(f float32) BF16 {
	bits := math.Float32bits(f)
	if f != f {
		// keep NaN quiet after truncation
		return BF16(bits>>16 | 0x40)
	}
	rounding := uint32(0x7fff) + (bits>>16)&1
	return BF16((bits + rounding) >> 16)
}

func (b BF16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// codec converts float32 samples into the buffer element type.
type codec[T any] struct {
	from func(float32) T
}

var (
	float32Codec = codec[float32]{from: func(f float32) float32 { return f }}
	float16Codec = codec[float16.Float16]{from: float16.Fromfloat32}
	bf16Codec    = codec[BF16]{from: BF16FromFloat32}
)
