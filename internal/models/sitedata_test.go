package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteDataCounts(t *testing.T) {
	active := json.RawMessage(`{"id":1,"isActive":true}`)
	inactive := json.RawMessage(`{"id":2,"isActive":false}`)

	data := &SiteData{
		Site: NewSite("S1"),
		Hardware: []HardwareDetails{
			{Key: "H1"},
			{Key: "H2"},
		},
		Alerts: []AlertTrigger{
			{Key: "H1", Triggers: []json.RawMessage{active, inactive}},
			{Key: "H2", Triggers: []json.RawMessage{active}},
		},
		FetchedAt: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, data.HardwareCount())
	assert.Equal(t, 2, data.ActiveAlertsCount())
}

func TestSiteDataErrorsOmittedWhenEmpty(t *testing.T) {
	data := &SiteData{Site: NewSite("S1")}

	out, err := json.Marshal(data)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"errors"`)

	data.Errors = map[string]string{"hardware": "status 502"}
	out, err = json.Marshal(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"errors":{"hardware":"status 502"}`)
}

func TestUpdateResultSerializesAudit(t *testing.T) {
	res := UpdateResult{
		Success:      true,
		OriginalData: RawData{"name": json.RawMessage(`"Old"`)},
		UpdatedData:  RawData{"name": json.RawMessage(`"New"`)},
		PutResponse:  json.RawMessage(`{"ok":true}`),
	}

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"original_data":{"name":"Old"}`)
	assert.Contains(t, string(out), `"put_response":{"ok":true}`)
	assert.NotContains(t, string(out), "error_message")

	failed := UpdateResult{ErrorMessage: "HTTP 403"}
	out, err = json.Marshal(failed)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"success":false`)
	assert.Contains(t, string(out), `"error_message":"HTTP 403"`)
	assert.NotContains(t, string(out), "original_data")
}
