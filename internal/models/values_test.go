package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metricDoc struct {
	A Metric `json:"a,omitzero"`
	B Metric `json:"b,omitzero"`
	C Metric `json:"c,omitzero"`
	D Metric `json:"d,omitzero"`
}

func TestMetricFourStates(t *testing.T) {
	payload := []byte(`{"a":12.5,"b":null,"c":"NaN"}`)

	var doc metricDoc
	require.NoError(t, json.Unmarshal(payload, &doc))

	v, ok := doc.A.Float64()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	assert.True(t, doc.B.Present())
	assert.True(t, doc.B.IsNull())
	_, ok = doc.B.Float64()
	assert.False(t, ok)

	assert.True(t, doc.C.Present())
	assert.True(t, doc.C.IsNaN())
	assert.False(t, doc.C.IsNull())

	assert.False(t, doc.D.Present())
	assert.True(t, doc.D.IsZero())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, string(payload), string(out))
}

func TestMetricComputedNaN(t *testing.T) {
	m := MetricOf(math.NaN())
	assert.True(t, m.IsNaN())
	_, ok := m.Float64()
	assert.False(t, ok)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"NaN"`, string(out))
}

func TestMetricRejectsOtherStrings(t *testing.T) {
	var m Metric
	err := m.UnmarshalJSON([]byte(`"12.5"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected string")
}

func TestMetricOr(t *testing.T) {
	assert.Equal(t, 3.0, MetricOf(3).Or(9))
	assert.Equal(t, 9.0, NullMetric().Or(9))
	assert.Equal(t, 9.0, NaNMetric().Or(9))
	assert.Equal(t, 9.0, Metric{}.Or(9))
}

func TestNullableStates(t *testing.T) {
	type doc struct {
		N Nullable[string] `json:"n,omitzero"`
		M Nullable[int64]  `json:"m,omitzero"`
	}

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"n":null,"m":7}`), &d))
	assert.True(t, d.N.IsNull())
	m, ok := d.M.Get()
	require.True(t, ok)
	assert.Equal(t, int64(7), m)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"n":null,"m":7}`, string(out))

	var empty doc
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.False(t, empty.N.Present())
	assert.False(t, empty.M.Present())

	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestScalarPassthrough(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		str     string
		f       float64
		numeric bool
	}{
		{name: "quoted number", raw: `"263"`, str: "263", f: 263, numeric: true},
		{name: "number", raw: `263`, str: "263", f: 263, numeric: true},
		{name: "fraction", raw: `26.5`, str: "26.5", f: 26.5, numeric: true},
		{name: "bool", raw: `true`, str: "true"},
		{name: "null", raw: `null`, str: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scalar
			require.NoError(t, s.UnmarshalJSON([]byte(tt.raw)))

			assert.Equal(t, tt.str, s.String())

			f, ok := s.Float64()
			assert.Equal(t, tt.numeric, ok)
			if tt.numeric {
				assert.Equal(t, tt.f, f)
			}

			out, err := json.Marshal(s)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, string(out))
		})
	}
}

func TestScalarZeroMarshalsNull(t *testing.T) {
	out, err := json.Marshal(Scalar{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
	assert.True(t, Scalar{}.IsZero())
}
