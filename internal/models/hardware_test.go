package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHardwareRows(t *testing.T) {
	rows := []json.RawMessage{
		[]byte(`{"key":"H100","name":"Inverter 1","functionCode":1,"hid":100,"serialNum":"SN-1",
			"port":502,"baud":"9600","capacityKW":250.0,"enableBool":false,"driverName":"solectria"}`),
		[]byte(`{"key":"H200","name":"Pyranometer","functionCode":5,"deviceAddress":"3"}`),
		[]byte(`{"key":"H300","name":"Mystery","functionCode":99}`),
		[]byte(`{"key":"H400","functionCode":{"bad":"shape"}}`),
	}

	hardware, skipped := ParseHardwareRows(rows)
	require.Len(t, hardware, 3)
	require.Len(t, skipped, 1)

	inv := hardware[0]
	assert.Equal(t, "H100", inv.Key)
	assert.Equal(t, "Inverter 1", inv.Name)
	assert.Equal(t, "Inverter (PV)", inv.TypeName())
	assert.False(t, inv.EnableBool)
	assert.Equal(t, 250.0, inv.CapacityKW.Or(0))

	// Wire-config values keep whatever JSON type the driver reported.
	port, ok := inv.Port.Float64()
	require.True(t, ok)
	assert.Equal(t, 502.0, port)
	assert.Equal(t, "9600", inv.Baud.String())

	ws := hardware[1]
	assert.Equal(t, "Weather Station (WS)", ws.TypeName())
	assert.True(t, ws.EnableBool)
	assert.False(t, ws.CapacityKW.Present())

	assert.Equal(t, "Type 99", hardware[2].TypeName())
}

func TestHardwareTypeName(t *testing.T) {
	tests := []struct {
		code int64
		want string
	}{
		{code: 1, want: "Inverter (PV)"},
		{code: 2, want: "Production Meter (PM)"},
		{code: 10, want: "Gateway (GW)"},
		{code: 37, want: "BESS Meter"},
		{code: 17, want: "Type 17"},
	}

	for _, tt := range tests {
		if got := HardwareTypeName(tt.code); got != tt.want {
			t.Errorf("HardwareTypeName(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestHardwareSummaryTypeNameWithoutCode(t *testing.T) {
	h := HardwareSummary{Key: "H1"}
	assert.Equal(t, "Unknown", h.TypeName())
}

func TestParseHardwareDetails(t *testing.T) {
	payload := []byte(`{
		"name": "Inverter 1",
		"functionCode": 1,
		"hid": 4711,
		"driverConfig": {"registers": [1, 2, 3]},
		"loggerInterval": 300
	}`)

	details, err := ParseHardwareDetails("H4711", payload)
	require.NoError(t, err)

	assert.Equal(t, "H4711", details.Key)
	assert.Equal(t, "H4711", details.Summary.Key)
	assert.Equal(t, "Inverter 1", details.Summary.Name)
	assert.Equal(t, "Inverter (PV)", details.Summary.TypeName())

	hid, ok := details.Summary.HID.Get()
	require.True(t, ok)
	assert.Equal(t, int64(4711), hid)

	// The full document stays available for diffing and updates.
	assert.Contains(t, details.Details, "driverConfig")
	assert.Contains(t, details.Details, "loggerInterval")
}
