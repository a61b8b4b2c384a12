package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// flakyClient wraps the mock with injectable per-section failures so
// the aggregate fetch can be tested against partial outages.
type flakyClient struct {
	*MockClient
	configErr   error
	listErr     error
	detailsErr  map[string]error
	triggersErr map[string]error
	modelingErr error
}

func (f *flakyClient) GetSiteConfig(ctx context.Context, siteID string) (*models.SiteConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.MockClient.GetSiteConfig(ctx, siteID)
}

func (f *flakyClient) GetHardwareList(ctx context.Context, siteID string) ([]models.HardwareSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MockClient.GetHardwareList(ctx, siteID)
}

func (f *flakyClient) GetHardwareDetails(ctx context.Context, hardwareID string) (*models.HardwareDetails, error) {
	if err := f.detailsErr[hardwareID]; err != nil {
		return nil, err
	}
	return f.MockClient.GetHardwareDetails(ctx, hardwareID)
}

func (f *flakyClient) GetAlertTriggers(ctx context.Context, hardwareID, lastChanged string) (*models.AlertTrigger, error) {
	if err := f.triggersErr[hardwareID]; err != nil {
		return nil, err
	}
	return f.MockClient.GetAlertTriggers(ctx, hardwareID, lastChanged)
}

func (f *flakyClient) GetModelingData(ctx context.Context, siteID string) (*models.ModelingData, error) {
	if f.modelingErr != nil {
		return nil, f.modelingErr
	}
	return f.MockClient.GetModelingData(ctx, siteID)
}

var collectedAt = time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)

func allSections() SiteDataOptions {
	return SiteDataOptions{IncludeHardware: true, IncludeAlerts: true, IncludeModeling: true}
}

func TestCollectSiteDataRejectsBadID(t *testing.T) {
	c := &flakyClient{MockClient: NewMockClient(testLogger())}

	_, err := collectSiteData(context.Background(), c, "not-a-site", allSections(), collectedAt, testLogger())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCollectSiteDataConfigFailureAborts(t *testing.T) {
	boom := errors.New("config endpoint down")
	c := &flakyClient{MockClient: NewMockClient(testLogger()), configErr: boom}

	data, err := collectSiteData(context.Background(), c, "S10001", allSections(), collectedAt, testLogger())
	assert.Nil(t, data)
	assert.ErrorIs(t, err, boom)
}

func TestCollectSiteDataFlagsOff(t *testing.T) {
	c := &flakyClient{MockClient: NewMockClient(testLogger())}

	data, err := collectSiteData(context.Background(), c, "10001", SiteDataOptions{}, collectedAt, testLogger())
	require.NoError(t, err)
	assert.Equal(t, models.NewSite("S10001"), data.Site)
	require.NotNil(t, data.Config)
	assert.Equal(t, collectedAt, data.FetchedAt)
	assert.Nil(t, data.Hardware)
	assert.Nil(t, data.Alerts)
	assert.Nil(t, data.Modeling)
	assert.Empty(t, data.Errors)
}

func TestCollectSiteDataAlertsRideOnHardware(t *testing.T) {
	c := &flakyClient{MockClient: NewMockClient(testLogger())}

	// Alerts are fetched per device, so without the hardware section
	// there is nothing to attach them to.
	data, err := collectSiteData(context.Background(), c, "S10001", SiteDataOptions{IncludeAlerts: true}, collectedAt, testLogger())
	require.NoError(t, err)
	assert.Nil(t, data.Hardware)
	assert.Nil(t, data.Alerts)
	assert.Empty(t, data.Errors)
}

func TestCollectSiteDataModelingFailureIsRecorded(t *testing.T) {
	c := &flakyClient{
		MockClient:  NewMockClient(testLogger()),
		modelingErr: errors.New("modeling endpoint down"),
	}

	data, err := collectSiteData(context.Background(), c, "S10001", allSections(), collectedAt, testLogger())
	require.NoError(t, err)
	assert.Nil(t, data.Modeling)
	assert.Equal(t, "modeling endpoint down", data.Errors["modeling"])

	// The sibling section is unaffected.
	assert.Len(t, data.Hardware, 2)
	assert.Len(t, data.Alerts, 2)
}

func TestCollectSiteDataHardwareListFailure(t *testing.T) {
	c := &flakyClient{
		MockClient: NewMockClient(testLogger()),
		listErr:    errors.New("hardware endpoint down"),
	}

	data, err := collectSiteData(context.Background(), c, "S10001", allSections(), collectedAt, testLogger())
	require.NoError(t, err)
	assert.Nil(t, data.Hardware)
	assert.Nil(t, data.Alerts)
	assert.Equal(t, "hardware endpoint down", data.Errors["hardware"])
	require.NotNil(t, data.Modeling)
}

func TestCollectSiteDataDeviceFailureIsIsolated(t *testing.T) {
	c := &flakyClient{
		MockClient: NewMockClient(testLogger()),
		detailsErr: map[string]error{"H67890": errors.New("device timeout")},
	}

	data, err := collectSiteData(context.Background(), c, "S10001", allSections(), collectedAt, testLogger())
	require.NoError(t, err)

	require.Len(t, data.Hardware, 1)
	assert.Equal(t, "H12345", data.Hardware[0].Key)
	assert.Equal(t, "device timeout", data.Errors["hardware/H67890"])

	// Alerts are only fetched for devices that resolved.
	require.Len(t, data.Alerts, 1)
	assert.Equal(t, "H12345", data.Alerts[0].Key)
}

func TestCollectSiteDataTriggerFailureIsIsolated(t *testing.T) {
	c := &flakyClient{
		MockClient:  NewMockClient(testLogger()),
		triggersErr: map[string]error{"H12345": errors.New("trigger timeout")},
	}

	data, err := collectSiteData(context.Background(), c, "S10001", allSections(), collectedAt, testLogger())
	require.NoError(t, err)

	assert.Len(t, data.Hardware, 2)
	assert.Equal(t, "trigger timeout", data.Errors["alerts/H12345"])
	require.Len(t, data.Alerts, 1)
	assert.Equal(t, "H67890", data.Alerts[0].Key)
}
