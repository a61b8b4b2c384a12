package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSiteDetailedInfo(t *testing.T) {
	payload := []byte(`{
		"key": "S12345",
		"name": "Desert Ridge",
		"is_monitored": true,
		"parent_key": "C12345",
		"status": 8,
		"latitude": 33.45,
		"longitude": -111.98,
		"capacity_ac": 500,
		"capacity_dc": "NaN",
		"address": {
			"address1": "1 Solar Way",
			"city": "Phoenix",
			"stateProvince": "AZ",
			"postalCode": "85050",
			"country": "USA"
		},
		"monitoring_contract_end_date": "2022-04-01T00:00:00Z",
		"undocumented_block": {"a": 1}
	}`)

	info, err := ParseSiteDetailedInfo(payload)
	require.NoError(t, err)

	assert.Equal(t, "S12345", info.Key)
	assert.Equal(t, "C12345", info.ParentKey)
	assert.True(t, info.IsMonitored)
	assert.Equal(t, 33.45, info.Latitude.Or(0))
	assert.Equal(t, 500.0, info.CapacityAc.Or(0))
	assert.True(t, info.CapacityDc.IsNaN())
	assert.Contains(t, info.Extra, "undocumented_block")

	assert.Equal(t, "1 Solar Way, Phoenix, AZ, 85050, USA", info.FullAddress())
}

func TestSiteDetailedInfoContractWindow(t *testing.T) {
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	info := &SiteDetailedInfo{
		MonitoringContractEndDate: NullableOf("2022-04-01T00:00:00Z"),
	}
	days, ok := info.ContractDaysRemaining(now)
	require.True(t, ok)
	assert.Equal(t, 90, days)
	assert.True(t, info.IsContractExpiringSoon(now))

	distant := &SiteDetailedInfo{
		MonitoringContractEndDate: NullableOf("2023-06-01T00:00:00Z"),
	}
	days, ok = distant.ContractDaysRemaining(now)
	require.True(t, ok)
	assert.Greater(t, days, 90)
	assert.False(t, distant.IsContractExpiringSoon(now))

	expired := &SiteDetailedInfo{
		MonitoringContractEndDate: NullableOf("2021-06-01T00:00:00Z"),
	}
	days, ok = expired.ContractDaysRemaining(now)
	require.True(t, ok)
	assert.Equal(t, 0, days)
	assert.True(t, expired.IsContractExpiringSoon(now))

	unset := &SiteDetailedInfo{}
	_, ok = unset.ContractDaysRemaining(now)
	assert.False(t, ok)
	assert.False(t, unset.IsContractExpiringSoon(now))
}

func TestSiteDetailedInfoRoundTrip(t *testing.T) {
	payload := []byte(`{"key":"S1","name":"A","capacity_ac":"NaN","custom_flag":true}`)

	info, err := ParseSiteDetailedInfo(payload)
	require.NoError(t, err)

	first, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(first), `"custom_flag":true`)
	assert.Contains(t, string(first), `"capacity_ac":"NaN"`)

	var reparsed SiteDetailedInfo
	require.NoError(t, json.Unmarshal(first, &reparsed))
	second, err := json.Marshal(reparsed)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
