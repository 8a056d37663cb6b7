package compare

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Cell is one numeric field of a ComparisonRow. The zero value is an empty
// cell, used when the baseline file does not exist at all.
type Cell struct {
	Value float64
	Valid bool
	// integral cells render without a fractional part.
	integral bool
}

// Empty returns a cell with no value.
func Empty() Cell { return Cell{} }

// Number returns a cell holding v. Integral cells render as integers.
func Number(v float64, integral bool) Cell {
	return Cell{Value: v, Valid: true, integral: integral && !math.IsNaN(v) && !math.IsInf(v, 0)}
}

// Sentinel returns an integer marker cell such as -1 (row absent) or 0
// (ratio not computable).
func Sentinel(v int) Cell { return Number(float64(v), true) }

// Float returns a computed, non-integral cell.
func Float(v float64) Cell { return Number(v, false) }

// IsEmpty reports whether the cell has no value.
func (c Cell) IsEmpty() bool { return !c.Valid }

func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	if c.integral {
		return strconv.FormatFloat(c.Value, 'f', 0, 64)
	}
	return FormatFloat(c.Value)
}

// MarshalJSON encodes empty and non-finite cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid || math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// ParseCell is the inverse of Cell.String.
func ParseCell(text string) (Cell, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Empty(), nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Number(float64(n), true), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Cell{}, err
	}
	return Float(v), nil
}

// FormatFloat renders the shortest round-tripping digits of v, in exponent
// form outside [1e-4, 1e16) and with a trailing ".0" on integral values, the
// float layout the upstream benchmark reports use.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
