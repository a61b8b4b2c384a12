package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diagnosticsPayload = `{
	"key": "H12345",
	"hardwareName": "Weather Station",
	"lastAttempt": "2022-01-01T00:10:00.000Z",
	"lastChanged": "2022-01-01T00:00:00.000Z",
	"lastCommunication": 1640995200000,
	"lastSuccess": "2022-01-01T00:10:00.000Z",
	"outOfService": false,
	"outOfServiceNote": "",
	"parentKey": "S12345",
	"readOnly": false,
	"timeZone": "US/Arizona",
	"unitId": 3,
	"isTcp": true,
	"tcpPort": 502,
	"vendorSpecific": {"fw": "1.0.3"},
	"registerSets": [
		{
			"name": "Weather",
			"registers": [
				{
					"address": "40001",
					"name": "Wind Direction",
					"value": "263",
					"units": "deg",
					"can_modify": false,
					"is_ignored": false,
					"is_stored": true,
					"localized_name": "Wind Direction",
					"ping_command": "",
					"register": "1",
					"scale": "x/10",
					"standard_alert_message": [],
					"standard_data_name": "windDirection",
					"write_function": "",
					"vendorFlag": true
				}
			]
		}
	]
}`

func TestParseHardwareDiagnostics(t *testing.T) {
	diag, err := ParseHardwareDiagnostics("H12345", []byte(diagnosticsPayload))
	require.NoError(t, err)

	assert.Equal(t, "H12345", diag.Key)
	assert.Equal(t, "Weather Station", diag.HardwareName)
	assert.Equal(t, "S12345", diag.ParentKey)
	assert.True(t, diag.IsTCP)

	port, ok := diag.TCPPort.Get()
	require.True(t, ok)
	assert.Equal(t, int64(502), port)

	require.Len(t, diag.RegisterSets, 1)
	set := diag.RegisterSets[0]
	assert.Equal(t, "Weather", set.Name)
	require.Len(t, set.Registers, 1)

	reg := set.Registers[0]
	assert.Equal(t, "Wind Direction", reg.Name)
	assert.Equal(t, "263", reg.Value.String())
	assert.Equal(t, "x/10", reg.Scale)
	assert.True(t, reg.IsStored)

	// Undocumented fields survive at both nesting levels.
	assert.Contains(t, diag.Extra, "vendorSpecific")
	assert.Contains(t, reg.Extra, "vendorFlag")
}

func TestParseHardwareDiagnosticsKeyFallback(t *testing.T) {
	diag, err := ParseHardwareDiagnostics("H777", []byte(`{"hardwareName":"Meter"}`))
	require.NoError(t, err)
	assert.Equal(t, "H777", diag.Key)
}

func TestHardwareDiagnosticsIsOnline(t *testing.T) {
	lastComm := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	diag := HardwareDiagnostics{LastCommunication: lastComm.UnixMilli()}

	assert.True(t, diag.IsOnline(lastComm.Add(30*time.Minute)))
	assert.False(t, diag.IsOnline(lastComm.Add(2*time.Hour)))

	never := HardwareDiagnostics{}
	assert.False(t, never.IsOnline(lastComm))
}

func TestHardwareDiagnosticsRoundTrip(t *testing.T) {
	diag, err := ParseHardwareDiagnostics("H12345", []byte(diagnosticsPayload))
	require.NoError(t, err)

	first, err := json.Marshal(diag)
	require.NoError(t, err)
	assert.Contains(t, string(first), `"vendorSpecific":{"fw":"1.0.3"}`)
	assert.Contains(t, string(first), `"value":"263"`)

	var reparsed HardwareDiagnostics
	require.NoError(t, json.Unmarshal(first, &reparsed))
	second, err := json.Marshal(reparsed)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
