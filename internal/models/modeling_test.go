package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelingData(t *testing.T) {
	payload := []byte(`{
		"pvConfig": {
			"weatherSource": "onsite",
			"inverters": [
				{"hid": 1, "inverterKw": 250.0, "tilt": 20, "azimuth": 180},
				{"hid": 2, "inverterKw": 125.5, "tilt": 20, "azimuth": 180},
				{"hid": 3, "tilt": 10}
			]
		},
		"ts": "2022-02-01T12:00:00.000Z"
	}`)

	md, err := ParseModelingData("S12345", payload)
	require.NoError(t, err)

	assert.Equal(t, "S12345", md.SiteID)
	assert.Contains(t, md.PvConfig, "weatherSource")
	require.Len(t, md.Inverters, 3)

	ts, ok := md.Ts.Get()
	require.True(t, ok)
	assert.Equal(t, "2022-02-01T12:00:00.000Z", ts)

	// Inverters without a modeled capacity contribute nothing.
	assert.Equal(t, 375.5, md.TotalCapacityKW())

	// The full document is retained for later diff and update.
	assert.Contains(t, md.RawData, "pvConfig")
}

func TestParseModelingDataEmpty(t *testing.T) {
	md, err := ParseModelingData("S1", []byte(`{}`))
	require.NoError(t, err)

	require.NotNil(t, md.PvConfig)
	require.NotNil(t, md.Inverters)
	assert.Empty(t, md.Inverters)
	assert.False(t, md.Ts.Present())
	assert.Equal(t, 0.0, md.TotalCapacityKW())
}
