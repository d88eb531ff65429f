// Package types contains common types used across the application
package types

import (
	"encoding/json"
	"math"
)

// Reason tags why a statistic could not be computed.
type Reason string

// Reasons a Value may be undefined.
const (
	ReasonTooFewPoints      Reason = "too_few_points"
	ReasonZeroVariance      Reason = "zero_variance"
	ReasonNonPositiveWeight Reason = "non_positive_weight"
	ReasonLengthMismatch    Reason = "length_mismatch"
	ReasonZeroBaseline      Reason = "zero_baseline"
)

// Value is a scalar statistic that is either a finite number or explicitly
// undefined. The zero Value is undefined with an empty reason, so a
// forgotten assignment can never read as a computed zero.
type Value struct {
	v       float64
	defined bool
	reason  Reason
}

// Defined wraps a computed number. NaN and infinities are not numbers a
// caller can use, so they come back as undefined zero-variance values.
func Defined(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{reason: ReasonZeroVariance}
	}
	return Value{v: v, defined: true}
}

// Undefined returns a Value that carries only the reason it is missing.
func Undefined(reason Reason) Value {
	return Value{reason: reason}
}

// Float64 returns the number and whether it is defined.
func (v Value) Float64() (float64, bool) { return v.v, v.defined }

// IsDefined reports whether v carries a number.
func (v Value) IsDefined() bool { return v.defined }

// Reason is empty for defined values.
func (v Value) Reason() Reason { return v.reason }

// Or returns the number, or def when undefined.
func (v Value) Or(def float64) float64 {
	if !v.defined {
		return def
	}
	return v.v
}

// MarshalJSON encodes undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}
