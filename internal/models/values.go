package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

var jsonNull = []byte("null")

// Metric is a numeric field as the platform actually delivers it: a JSON
// number, a JSON null, the literal string "NaN", or no field at all. The
// zero value is the absent state; tagging fields with omitzero keeps
// absent fields out of serialized output, so all four states survive a
// serialize/parse/serialize cycle unchanged.
type Metric struct {
	state valueState
	value float64
}

type valueState uint8

const (
	stateAbsent valueState = iota
	stateNull
	stateNaN
	stateValue
)

// MetricOf returns a Metric carrying v.
func MetricOf(v float64) Metric { return Metric{state: stateValue, value: v} }

// NullMetric returns a Metric in the explicit-null state.
func NullMetric() Metric { return Metric{state: stateNull} }

// NaNMetric returns a Metric carrying the upstream "NaN" sentinel.
func NaNMetric() Metric { return Metric{state: stateNaN} }

// Present reports whether the field appeared in the payload at all.
func (m Metric) Present() bool { return m.state != stateAbsent }

// IsNull reports whether the field was an explicit JSON null.
func (m Metric) IsNull() bool { return m.state == stateNull }

// IsNaN reports whether the field carried the "NaN" sentinel or a
// computed IEEE NaN.
func (m Metric) IsNaN() bool {
	return m.state == stateNaN || (m.state == stateValue && math.IsNaN(m.value))
}

// Float64 returns the numeric value and whether one is available.
func (m Metric) Float64() (float64, bool) {
	if m.state != stateValue || math.IsNaN(m.value) {
		return 0, false
	}
	return m.value, true
}

// Or returns the numeric value, or fallback when none is available.
func (m Metric) Or(fallback float64) float64 {
	if v, ok := m.Float64(); ok {
		return v
	}
	return fallback
}

// IsZero reports the absent state so omitzero drops the field.
func (m Metric) IsZero() bool { return m.state == stateAbsent }

var nanSentinel = []byte(`"NaN"`)

func (m Metric) MarshalJSON() ([]byte, error) {
	switch m.state {
	case stateNaN:
		return nanSentinel, nil
	case stateValue:
		// JSON has no NaN literal; a computed NaN degrades to the
		// sentinel the platform itself uses.
		if math.IsNaN(m.value) {
			return nanSentinel, nil
		}
		return json.Marshal(m.value)
	default:
		return jsonNull, nil
	}
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*m = Metric{state: stateNull}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("metric: %w", err)
		}
		if s == "NaN" {
			*m = Metric{state: stateNaN}
			return nil
		}
		return fmt.Errorf("metric: unexpected string %q", s)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	*m = Metric{state: stateValue, value: v}
	return nil
}

// Nullable is an optional field that keeps a JSON null distinct from the
// field not appearing at all. The zero value is the absent state.
type Nullable[T any] struct {
	value T
	state valueState
}

// NullableOf returns a Nullable carrying v.
func NullableOf[T any](v T) Nullable[T] { return Nullable[T]{value: v, state: stateValue} }

// Null returns a Nullable in the explicit-null state.
func Null[T any]() Nullable[T] { return Nullable[T]{state: stateNull} }

// Get returns the value and whether one is set.
func (n Nullable[T]) Get() (T, bool) { return n.value, n.state == stateValue }

// IsNull reports whether the field was an explicit JSON null.
func (n Nullable[T]) IsNull() bool { return n.state == stateNull }

// Present reports whether the field appeared in the payload at all.
func (n Nullable[T]) Present() bool { return n.state != stateAbsent }

// IsZero reports the absent state so omitzero drops the field.
func (n Nullable[T]) IsZero() bool { return n.state == stateAbsent }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.state != stateValue {
		return jsonNull, nil
	}
	return json.Marshal(n.value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*n = Nullable[T]{state: stateNull}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Nullable[T]{value: v, state: stateValue}
	return nil
}

// Scalar carries a JSON value whose type the platform does not fix, such
// as a register reading that may be a string one day and a number the
// next. The raw fragment is kept verbatim so re-serialization is
// lossless.
type Scalar struct {
	raw json.RawMessage
}

// ScalarOf returns a Scalar holding the JSON encoding of v.
func ScalarOf(v any) Scalar {
	raw, err := json.Marshal(v)
	if err != nil {
		return Scalar{}
	}
	return Scalar{raw: raw}
}

// String returns the unquoted text of a JSON string, or the raw fragment
// text for any other value. Null and absent scalars return "".
func (s Scalar) String() string {
	if s.IsZero() || s.IsNull() {
		return ""
	}
	if s.raw[0] == '"' {
		var v string
		if err := json.Unmarshal(s.raw, &v); err == nil {
			return v
		}
	}
	return string(s.raw)
}

// Float64 returns the numeric reading of the scalar, accepting both JSON
// numbers and numeric strings.
func (s Scalar) Float64() (float64, bool) {
	if s.IsZero() || s.IsNull() {
		return 0, false
	}
	v, err := strconv.ParseFloat(s.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsNull reports whether the scalar was an explicit JSON null.
func (s Scalar) IsNull() bool { return bytes.Equal(s.raw, jsonNull) }

// IsZero reports the absent state so omitzero drops the field.
func (s Scalar) IsZero() bool { return len(s.raw) == 0 }

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return jsonNull, nil
	}
	return s.raw, nil
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	s.raw = append(s.raw[:0], data...)
	return nil
}
