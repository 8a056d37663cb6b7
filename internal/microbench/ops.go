package microbench

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// NumElements multiplies out shape.
func NumElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Roll shifts src circularly along each dims[i] by shifts[i], applied in
// order. Negative dims count from the last axis. The result is a new slice.
func Roll[T any](src []T, shape, shifts, dims []int) ([]T, error) {
	if len(shifts) != len(dims) {
		return nil, errors.Errorf("roll: %d shifts for %d dims", len(shifts), len(dims))
	}
	if NumElements(shape) != len(src) {
		return nil, errors.Errorf("roll: shape %v does not hold %d elements", shape, len(src))
	}
	out := make([]T, len(src))
	copy(out, src)
	if len(src) == 0 || len(dims) == 0 {
		return out, nil
	}

	scratch := make([]T, len(src))
	for i, dim := range dims {
		d := dim
		if d < 0 {
			d += len(shape)
		}
		if d < 0 || d >= len(shape) {
			return nil, errors.Errorf("roll: dim %d out of range for rank %d", dim, len(shape))
		}
		rollDim(scratch, out, shape, d, shifts[i])
		out, scratch = scratch, out
	}
	return out, nil
}

// rollDim writes src rolled along dim into dst: dst[(i+shift) mod n] = src[i].
func rollDim[T any](dst, src []T, shape []int, dim, shift int) {
	n := shape[dim]
	inner := NumElements(shape[dim+1:])
	block := n * inner
	s := ((shift % n) + n) % n
	for base := 0; base < len(src); base += block {
		copy(dst[base+s*inner:base+block], src[base:base+(n-s)*inner])
		copy(dst[base:base+s*inner], src[base+(n-s)*inner:base+block])
	}
}

// RollBackward returns the gradient of Roll with respect to its input.
func RollBackward[T any](grad []T, shape, shifts, dims []int) ([]T, error) {
	neg := make([]int, len(shifts))
	for i, s := range shifts {
		neg[i] = -s
	}
	return Roll(grad, shape, neg, dims)
}

// Bernoulli fills dst in place with one or zero, one drawn with probability p.
func Bernoulli[T any](dst []T, p float64, one, zero T) error {
	if p < 0 || p > 1 {
		return errors.Errorf("bernoulli: p=%v outside [0, 1]", p)
	}
	dist := distuv.Bernoulli{P: p}
	for i := range dst {
		if dist.Rand() == 1 {
			dst[i] = one
		} else {
			dst[i] = zero
		}
	}
	return nil
}

// randn fills a buffer with standard normal samples.
func randn[T any](n int, c codec[T]) []T {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	out := make([]T, n)
	for i := range out {
		out[i] = c.from(float32(dist.Rand()))
	}
	return out
}
