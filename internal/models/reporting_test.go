package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportingCapabilities(t *testing.T) {
	payload := []byte(`{
		"canEditAutoReport": true,
		"canAddEmailReport": false,
		"canAddSummaryReport": true,
		"views": [{"id": 1, "name": "Monthly production"}]
	}`)

	caps, err := ParseReportingCapabilities(payload)
	require.NoError(t, err)

	assert.True(t, caps.CanEditAutoReport)
	assert.False(t, caps.CanAddEmailReport)
	assert.True(t, caps.CanAddSummaryReport)
	assert.False(t, caps.CanAddAutoReport)
	assert.Len(t, caps.Views, 1)
	assert.True(t, caps.HasReportingAccess())
}

func TestReportingCapabilitiesNoAccess(t *testing.T) {
	caps, err := ParseReportingCapabilities([]byte(`{}`))
	require.NoError(t, err)

	require.NotNil(t, caps.Views)
	assert.Empty(t, caps.Views)
	assert.False(t, caps.HasReportingAccess())
}
