package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// MockClient serves canned responses with no network involved, for
// offline development and demos. The fixtures are upstream-shaped JSON
// run through the same parsers as live responses, so a drift between
// the two surfaces as a test failure instead of a runtime surprise.
// Identifiers are echoed back the way the real API echoes them, update
// calls report success without mutating anything, and the same inputs
// always produce the same outputs. The only errors it returns are
// ValidationErrors for malformed parameters.
type MockClient struct {
	log *logrus.Logger
}

var _ Client = (*MockClient)(nil)

// NewMockClient builds the offline client.
func NewMockClient(log *logrus.Logger) *MockClient {
	if log == nil {
		log = logrus.New()
	}
	return &MockClient{log: log}
}

// mockFetchedAt pins aggregate timestamps so snapshots compare equal
// across runs.
var mockFetchedAt = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

const mockCustomerID = "C12345"

// mockDevice is the per-hardware identity served for known fixture
// devices. Unknown ids get a generic inverter so no lookup dead-ends.
type mockDevice struct {
	name         string
	functionCode int64
	driverName   string
	mfrModel     string
}

var mockDevices = map[string]mockDevice{
	"H12345": {name: "Inverter 1", functionCode: 1, driverName: "solarmax", mfrModel: "SolarMax 50TL"},
	"H67890": {name: "Meter 1", functionCode: 2, driverName: "pm8000", mfrModel: "PowerLogic PM8000"},
}

func mockDeviceFor(hardwareID string) mockDevice {
	if d, ok := mockDevices[hardwareID]; ok {
		return d
	}
	return mockDevice{
		name:         "Mock Device " + strings.TrimPrefix(hardwareID, "H"),
		functionCode: 1,
		driverName:   "solarmax",
		mfrModel:     "SolarMax 50TL",
	}
}

func mockSiteName(siteID string) string {
	switch siteID {
	case "S10001":
		return "Mock Site 1"
	case "S10002":
		return "Mock Site 2"
	}
	return "Mock Site " + strings.TrimPrefix(siteID, "S")
}

// mockEdit mirrors the live read-merge-write flow against a fixture
// document, so dry runs exercise the same merge code as real updates.
func mockEdit(currentJSON string, updates map[string]any, keyField, keyValue string) (*models.UpdateResult, error) {
	var current map[string]any
	if err := json.Unmarshal([]byte(currentJSON), &current); err != nil {
		return nil, &models.ParseError{Type: "UpdateResult", Err: err}
	}
	merged := mergeJSON(current, updates)
	merged[keyField] = keyValue

	original, err := rawDataFrom(current)
	if err != nil {
		return nil, &models.ParseError{Type: "UpdateResult", Err: err}
	}
	updated, err := rawDataFrom(merged)
	if err != nil {
		return nil, &models.ParseError{Type: "UpdateResult", Err: err}
	}
	return &models.UpdateResult{
		Success:      true,
		OriginalData: original,
		UpdatedData:  updated,
		PutResponse:  json.RawMessage(mockPutAckJSON),
	}, nil
}

// mockPut mirrors a direct document write.
func mockPut(payload map[string]any) (*models.UpdateResult, error) {
	updated, err := rawDataFrom(payload)
	if err != nil {
		return nil, &models.ParseError{Type: "UpdateResult", Err: err}
	}
	return &models.UpdateResult{
		Success:     true,
		UpdatedData: updated,
		PutResponse: json.RawMessage(mockPutAckJSON),
	}, nil
}

const mockPutAckJSON = `{"success": true, "updated": true}`

const mockSiteListJSON = `{
	"sites": [
		{"key": "S10001", "name": "Mock Site 1"},
		{"key": "S10002", "name": "Mock Site 2"}
	],
	"metadata": {"customer": "C12345", "source": "mock"}
}`

func (m *MockClient) GetSites(ctx context.Context, siteListFile string) (models.SiteList, error) {
	var list models.SiteList
	if err := json.Unmarshal([]byte(mockSiteListJSON), &list); err != nil {
		return models.SiteList{}, &models.ParseError{Type: "SiteList", Err: err}
	}
	return list, nil
}

const mockSiteConfigJSON = `{
	"name": %q,
	"timeZone": "US/Arizona",
	"latitude": 33.448,
	"longitude": -112.074,
	"elevation": 331.0,
	"address": "1 Solar Way",
	"city": "Phoenix",
	"state": "AZ",
	"zip": "85050",
	"country": "USA",
	"installDate": "2021-06-15",
	"acCapacityKw": 100.0,
	"dcCapacityKw": 120.0,
	"moduleCount": 320,
	"weatherStation": "KPHX"
}`

func (m *MockClient) GetSiteConfig(ctx context.Context, siteID string) (*models.SiteConfig, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf(mockSiteConfigJSON, mockSiteName(siteID))
	return models.ParseSiteConfig(siteID, []byte(body))
}

func (m *MockClient) UpdateSiteConfig(ctx context.Context, siteID string, updates map[string]any) (*models.UpdateResult, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	current := fmt.Sprintf(mockSiteConfigJSON, mockSiteName(siteID))
	return mockEdit(current, updates, "key", siteID)
}

const mockSiteInfoJSON = `{
	"key": %q,
	"name": %q,
	"is_monitored": true,
	"parent_key": "C12345",
	"address": {"address1": "1 Solar Way", "city": "Phoenix", "stateProvince": "AZ", "postalCode": "85050", "country": "USA"},
	"status": 8,
	"working_status": "OK",
	"last_changed": "2022-01-01T00:00:00Z",
	"valid_data_date": "2021-12-31",
	"capacity_ac": 100.0,
	"capacity_ac_unit": 1,
	"capacity_dc": 120.0,
	"capacity_dc_unit": 1,
	"rated_power": 100.0,
	"rated_power_unit": 1,
	"energy_capacity": "NaN",
	"energy_capacity_unit": 1,
	"latitude": 33.448,
	"longitude": -112.074,
	"elevation": 331.0,
	"daily_production_estimate": 480.0,
	"monthly_production_estimate": 14400.0,
	"weather_mode": 1,
	"site_type": 1,
	"payment_status": 0,
	"default_query": 0,
	"preferred_ws_for_estimated_insolation": 0,
	"monitoring_contract_status": 1,
	"monitoring_contract_start_date": "2021-06-15T00:00:00Z",
	"monitoring_contract_end_date": "2026-06-15T00:00:00Z",
	"actual_commissioning_date": "2021-07-01T00:00:00Z",
	"overview_chart1": "production",
	"overview_chart2": "irradiance",
	"customer_logo": "",
	"custom_query_key": "",
	"monitoring_contract_access_note": "",
	"cell_modem_contract_access_note": "",
	"grid_profile": "default"
}`

func (m *MockClient) GetSiteDetailedInfo(ctx context.Context, siteID string) (*models.SiteDetailedInfo, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf(mockSiteInfoJSON, siteID, mockSiteName(siteID))
	return models.ParseSiteDetailedInfo([]byte(body))
}

const mockPortfolioJSON = `{
	"sites": [
		{
			"key": "S10001",
			"name": "Mock Site 1",
			"parentKey": "C12345",
			"status": 8,
			"type": 1,
			"id": 10001,
			"inverterCount": 1,
			"inverterFaults": 0,
			"gridOffline": 0,
			"ground": 0,
			"kiosks": 0,
			"kioskStatus": 0,
			"monitoredSiteType": 1,
			"paymentStatus": 0,
			"performanceTestStatus": 0,
			"rolling24KwIdx": 0,
			"timeZone": "US/Arizona",
			"lastDataUTC": "2021-12-31T23:45:00Z",
			"lastUpload": "2021-12-31T23:50:00Z",
			"message": "",
			"alertName": "",
			"reminderColor": "",
			"today": 48.0,
			"todayEstimated": 50.0,
			"thisMonth": 1440.0,
			"lastMonth": 1400.0,
			"thisYear": 17000.0,
			"lastYear": 16500.0,
			"lifetime": 50000.0,
			"power": 42.5,
			"power24": 38.0,
			"pvCapacityAc": 100.0,
			"pvCapacityDc": 120.0,
			"availability": 0.99,
			"energyRatio": 0.98,
			"insolation": "NaN",
			"irradiance": null,
			"rolling24Kw": [40.0, 41.5, 42.5]
		},
		{
			"key": "S10002",
			"name": "Mock Site 2",
			"parentKey": "C12345",
			"status": 8,
			"type": 1,
			"id": 10002,
			"inverterCount": 1,
			"inverterFaults": 1,
			"timeZone": "US/Arizona",
			"lastDataUTC": "2021-12-31T23:45:00Z",
			"lastUpload": "2021-12-31T23:50:00Z",
			"today": 22.0,
			"thisMonth": 700.0,
			"lastMonth": 690.0,
			"thisYear": 8200.0,
			"lastYear": 8000.0,
			"lifetime": 24000.0,
			"power": 18.0,
			"power24": 16.5,
			"pvCapacityAc": 50.0,
			"pvCapacityDc": 60.0,
			"availability": 0.97,
			"energyRatio": 0.90,
			"insolation": null,
			"irradiance": null,
			"rolling24Kw": [15.0, 17.0, 18.0]
		}
	],
	"customColumnNames": [],
	"lastChanged": "2022-01-01T00:00:00Z"
}`

func (m *MockClient) portfolio(customerID string) (*models.PortfolioOverview, error) {
	portfolio, skipped, err := models.ParsePortfolioOverview(customerID, []byte(mockPortfolioJSON))
	if err != nil {
		return nil, err
	}
	for _, rowErr := range skipped {
		m.log.WithError(rowErr).Warn("skipped portfolio row")
	}
	return portfolio, nil
}

// GetSiteOverview serves the fixture row for known sites. Unknown ids
// get the first row with key and name swapped in, so offline scripts
// never dead-end on a lookup.
func (m *MockClient) GetSiteOverview(ctx context.Context, siteID string) (*models.SiteOverview, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	portfolio, err := m.portfolio(mockCustomerID)
	if err != nil {
		return nil, err
	}
	for i := range portfolio.Sites {
		if portfolio.Sites[i].Key == siteID {
			return &portfolio.Sites[i], nil
		}
	}
	row := portfolio.Sites[0]
	row.Key = siteID
	row.Name = mockSiteName(siteID)
	return &row, nil
}

func (m *MockClient) GetPortfolioOverview(ctx context.Context, customerID string) (*models.PortfolioOverview, error) {
	customerID, err := NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	return m.portfolio(customerID)
}

func (m *MockClient) GetSiteData(ctx context.Context, siteID string, opts SiteDataOptions) (*models.SiteData, error) {
	return collectSiteData(ctx, m, siteID, opts, mockFetchedAt, m.log)
}

const mockHardwareListJSON = `{
	"hardware": [
		{
			"key": "H12345",
			"name": "Inverter 1",
			"functionCode": 1,
			"hid": 12345,
			"shortName": "INV1",
			"serialNum": "SN-12345",
			"mfrModel": "SolarMax 50TL",
			"deviceID": "INV-1",
			"installDate": "2021-06-15",
			"deviceAddress": 1,
			"port": 502,
			"unitID": 1,
			"baud": "9600",
			"gatewayID": "H99901",
			"enableBool": true,
			"hardwareStatus": "OK",
			"capacityKW": 50.0,
			"inverterKw": 50.0,
			"driverName": "solarmax",
			"outOfService": false
		},
		{
			"key": "H67890",
			"name": "Meter 1",
			"functionCode": 2,
			"hid": 67890,
			"shortName": "PM1",
			"serialNum": "SN-67890",
			"mfrModel": "PowerLogic PM8000",
			"deviceID": "PM-1",
			"installDate": "2021-06-15",
			"deviceAddress": "2",
			"port": 502,
			"unitID": 2,
			"baud": "9600",
			"gatewayID": "H99901",
			"enableBool": true,
			"hardwareStatus": "OK",
			"capacityKW": null,
			"inverterKw": null,
			"driverName": "pm8000",
			"outOfService": false
		}
	]
}`

func (m *MockClient) GetHardwareList(ctx context.Context, siteID string) ([]models.HardwareSummary, error) {
	if _, err := NormalizeSiteID(siteID); err != nil {
		return nil, err
	}
	rows, err := arrayField("HardwareSummary", []byte(mockHardwareListJSON), "hardware")
	if err != nil {
		return nil, err
	}
	summaries, skipped := models.ParseHardwareRows(rows)
	for _, rowErr := range skipped {
		m.log.WithError(rowErr).Warn("skipped hardware row")
	}
	return summaries, nil
}

const mockHardwareDetailsJSON = `{
	"name": %q,
	"functionCode": %d,
	"hid": %d,
	"serialNum": "SN-%d",
	"mfrModel": %q,
	"driverName": %q,
	"deviceAddress": 1,
	"port": 502,
	"unitID": 1,
	"baud": "9600",
	"gatewayID": "H99901",
	"enableBool": true,
	"outOfService": false,
	"driverConfig": {"pollSeconds": 300, "registerMap": "standard"}
}`

func mockHardwareDocument(hardwareID string) string {
	dev := mockDeviceFor(hardwareID)
	hid, _ := strconv.ParseInt(strings.TrimPrefix(hardwareID, "H"), 10, 64)
	return fmt.Sprintf(mockHardwareDetailsJSON, dev.name, dev.functionCode, hid, hid, dev.mfrModel, dev.driverName)
}

func (m *MockClient) GetHardwareDetails(ctx context.Context, hardwareID string) (*models.HardwareDetails, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	return models.ParseHardwareDetails(hardwareID, []byte(mockHardwareDocument(hardwareID)))
}

func (m *MockClient) UpdateHardwareConfig(ctx context.Context, hardwareID string, updates map[string]any) (*models.UpdateResult, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	return mockEdit(mockHardwareDocument(hardwareID), updates, "hardwareId", hardwareID)
}

func (m *MockClient) UpdateSiteHardware(ctx context.Context, siteID string, hardware []map[string]any) (*models.UpdateResult, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	return mockEdit(mockHardwareListJSON, map[string]any{"hardware": hardware}, "key", siteID)
}

func (m *MockClient) BulkUpdateHardware(ctx context.Context, siteID string, hardware []map[string]any) (*models.UpdateResult, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	return mockPut(map[string]any{"siteId": siteID, "hardware": hardware})
}

func (m *MockClient) UpdateHardwareDriver(ctx context.Context, hardwareID string, driver map[string]any) (*models.UpdateResult, error) {
	if _, err := NormalizeHardwareID(hardwareID); err != nil {
		return nil, err
	}
	return mockPut(driver)
}

const mockDiagnosticsJSON = `{
	"key": %q,
	"hardwareName": %q,
	"lastAttempt": "2021-12-31T23:58:00Z",
	"lastChanged": "2021-12-31T20:00:00Z",
	"lastCommunication": 1640995080000,
	"lastSuccess": "2021-12-31T23:58:00Z",
	"outOfService": false,
	"outOfServiceNote": "",
	"parentKey": "S10001",
	"readOnly": false,
	"timeZone": "US/Arizona",
	"unitId": 1,
	"tcpPort": 502,
	"isTcp": true,
	"ipAddress": "10.0.0.12",
	"baudRate": "9600",
	"parity": "N",
	"stopBits": "1",
	"registerSets": [
		{
			"name": "Basic",
			"registers": [
				{
					"address": "40001",
					"name": "Wind Direction",
					"value": "263",
					"units": "Degrees",
					"can_modify": false,
					"is_ignored": false,
					"is_stored": true,
					"localized_name": "Wind Direction",
					"ping_command": "",
					"register": "40001",
					"scale": "x/10",
					"standard_alert_message": [],
					"standard_data_name": "windDirection",
					"write_function": ""
				},
				{
					"address": "40002",
					"name": "Wind Speed",
					"value": 4.2,
					"units": "m/s",
					"can_modify": false,
					"is_ignored": false,
					"is_stored": true,
					"localized_name": "Wind Speed",
					"ping_command": "",
					"register": "40002",
					"scale": "x/100",
					"standard_alert_message": [],
					"standard_data_name": "windSpeed",
					"write_function": ""
				},
				{
					"address": "40003",
					"name": "Ambient Temperature",
					"value": "21.5",
					"units": "C",
					"can_modify": false,
					"is_ignored": false,
					"is_stored": true,
					"localized_name": "Ambient Temperature",
					"ping_command": "",
					"register": "40003",
					"scale": "x/10",
					"standard_alert_message": [],
					"standard_data_name": "ambientTemp",
					"write_function": ""
				}
			]
		}
	]
}`

func (m *MockClient) GetHardwareDiagnostics(ctx context.Context, hardwareID string) (*models.HardwareDiagnostics, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf(mockDiagnosticsJSON, hardwareID, mockDeviceFor(hardwareID).name)
	return models.ParseHardwareDiagnostics(hardwareID, []byte(body))
}

func (m *MockClient) GetSiteHardwareProduction(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	if _, err := NormalizeSiteID(siteID); err != nil {
		return nil, err
	}
	return arrayField("SiteHardwareProduction", []byte(mockHardwareListJSON), "hardware")
}

const mockDriverSettingsJSON = `{
	"hardwareKey": %q,
	"driverName": %q,
	"settings": {"pollSeconds": 300, "registerMap": "standard", "timeoutMs": 2000}
}`

func (m *MockClient) GetDriverSettings(ctx context.Context, hardwareID string) (models.RawData, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf(mockDriverSettingsJSON, hardwareID, mockDeviceFor(hardwareID).driverName)
	return rawDocument("DriverSettings", []byte(body))
}

const mockDriverListJSON = `{
	"settings": [
		{"driverName": "solarmax", "label": "SolarMax TL Series"},
		{"driverName": "pm8000", "label": "PowerLogic PM8000"}
	]
}`

func (m *MockClient) GetDriverSettingsList(ctx context.Context, listID string) ([]json.RawMessage, error) {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return nil, &ValidationError{Param: "list_id", Value: listID, Message: "identifier is empty"}
	}
	return arrayField("DriverSettingsList", []byte(mockDriverListJSON), "settings")
}

const mockRegisterOffsetsJSON = `{
	"hardwareKey": %q,
	"offsets": [
		{"register": "40001", "offset": 0},
		{"register": "40002", "offset": 2}
	]
}`

func (m *MockClient) GetRegisterOffsets(ctx context.Context, hardwareID string) (models.RawData, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf(mockRegisterOffsetsJSON, hardwareID)
	return rawDocument("RegisterOffsets", []byte(body))
}

const mockAlertTriggerJSON = `{
	"parentKey": "S10001",
	"assetCode": "INV",
	"calculatedCapacity": 50.0,
	"capacity": 50.0,
	"lastChanged": "2021-12-15T00:00:00Z",
	"isActive": true,
	"checkNoSnow": false,
	"sunMinElevation": 10.0,
	"delayHoursTrigger": 1.0,
	"delayHoursResolve": 0.5,
	"checkSun": true,
	"hasImpact": true,
	"impact": 2,
	"triggers": [
		{"id": 1, "name": "Inverter Offline", "isActive": true, "severity": 4, "threshold": 0},
		{"id": 2, "name": "Low Production", "isActive": true, "severity": 2, "threshold": 0.8},
		{"id": 3, "name": "Clipping", "isActive": false, "severity": 1, "threshold": 0.98}
	],
	"defaultTriggers": [
		{"id": 1, "name": "Inverter Offline", "isActive": true, "severity": 4, "threshold": 0}
	]
}`

func (m *MockClient) GetAlertTriggers(ctx context.Context, hardwareID, lastChanged string) (*models.AlertTrigger, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	return models.ParseAlertTrigger(hardwareID, []byte(mockAlertTriggerJSON))
}

func (m *MockClient) UpdateAlertTriggers(ctx context.Context, hardwareID string, trigger map[string]any) (*models.UpdateResult, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	payload := make(map[string]any, len(trigger)+1)
	for k, v := range trigger {
		payload[k] = v
	}
	payload["parentKey"] = hardwareID
	return mockPut(payload)
}

const mockAddTriggerAckJSON = `{"success": true, "triggerId": 4}`

func (m *MockClient) AddAlertTrigger(ctx context.Context, hardwareID string, trigger map[string]any) (json.RawMessage, error) {
	if _, err := NormalizeHardwareID(hardwareID); err != nil {
		return nil, err
	}
	return json.RawMessage(mockAddTriggerAckJSON), nil
}

func (m *MockClient) DeleteAlertTrigger(ctx context.Context, hardwareID string) error {
	_, err := NormalizeHardwareID(hardwareID)
	return err
}

// mockAlertSummaryJSON carries a non-object lastChanged entry on
// purpose; live summaries do the same and the parser skips it.
const mockAlertSummaryJSON = `{
	"H12345": {"count": 2, "maxSeverity": 4},
	"H67890": {"count": 0, "maxSeverity": 0},
	"lastChanged": "2022-01-01T00:00:00Z"
}`

func (m *MockClient) GetAlertSummary(ctx context.Context, customerID, siteID string) (*models.AlertSummaryResponse, error) {
	if _, err := alertSummaryTarget(customerID, siteID); err != nil {
		return nil, err
	}
	return models.ParseAlertSummary([]byte(mockAlertSummaryJSON))
}

const mockModelingJSON = `{
	"pvConfig": {
		"trackingMode": 0,
		"inverters": [
			{"hardwareKey": "H12345", "inverterKw": 50.0, "azimuth": 180, "tilt": 25, "derate": 0.96},
			{"hardwareKey": "H12346", "inverterKw": 50.0, "azimuth": 180, "tilt": 25, "derate": 0.96}
		]
	},
	"ts": "2021-12-01T00:00:00Z"
}`

func (m *MockClient) GetModelingData(ctx context.Context, siteID string) (*models.ModelingData, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	return models.ParseModelingData(siteID, []byte(mockModelingJSON))
}

func (m *MockClient) UpdateModelingData(ctx context.Context, siteID string, modeling map[string]any) (*models.UpdateResult, error) {
	if _, err := NormalizeSiteID(siteID); err != nil {
		return nil, err
	}
	return mockPut(modeling)
}

func (m *MockClient) UpdateInverterModel(ctx context.Context, hardwareID string, model map[string]any) (*models.UpdateResult, error) {
	if _, err := NormalizeHardwareID(hardwareID); err != nil {
		return nil, err
	}
	return mockPut(model)
}

func (m *MockClient) UpdateBifacialSettings(ctx context.Context, hardwareID string, settings map[string]any) (*models.UpdateResult, error) {
	if _, err := NormalizeHardwareID(hardwareID); err != nil {
		return nil, err
	}
	return mockPut(settings)
}

const mockChartJSON = `{
	"allowSmallBinSize": true,
	"binSize": 1440,
	"currentNowBinIndex": 0,
	"dataNotAvailable": false,
	"durations": [],
	"end": "2022-01-02T00:00:00Z",
	"errorString": "",
	"hardwareKeys": ["H12345", "H67890"],
	"hasAlertMessages": false,
	"hasOverriddenQuery": false,
	"isCategoryChart": false,
	"isSummaryChart": true,
	"isUsingDaylightSavings": false,
	"key": "site-production",
	"lastChanged": "2022-01-01T00:00:00Z",
	"lastDataDatetime": "2022-01-01T23:45:00Z",
	"namedResults": {"energy": 98.0, "expEnergy": 100.0},
	"renderType": 1,
	"start": "2022-01-01T00:00:00Z",
	"series": [
		{
			"name": "Production",
			"key": "production",
			"dataXy": [[1640995200, 50.0], [1641081600, 48.0]],
			"color": "#FF0000",
			"customUnit": "kW",
			"dataMax": 50.0,
			"dataMin": 48.0,
			"header": "Production",
			"lineColor": "#FF0000",
			"lineType": 0,
			"lineWidth": 2,
			"rightAxis": false,
			"units": 1,
			"useBinnedData": true,
			"visible": true,
			"xSeriesHeader": "",
			"xSeriesKey": "time",
			"xSeriesName": "Time",
			"xUnits": "ms",
			"yAxisIndex": 0,
			"yMax": 55.0,
			"yMin": 0.0
		}
	]
}`

// GetChartData validates the span like the live client but serves the
// same fixture for any window.
func (m *MockClient) GetChartData(ctx context.Context, siteID, spanFrom, spanTo string) (*models.ChartData, error) {
	if _, err := NormalizeSiteID(siteID); err != nil {
		return nil, err
	}
	if err := validateSpan(spanFrom, spanTo); err != nil {
		return nil, err
	}
	return models.ParseChartData([]byte(mockChartJSON))
}

const mockChartDefinitionsJSON = `{
	"chartMenuSections": [
		{
			"name": "Production",
			"predefinedCharts": [
				{"id": 1, "name": "Site Production"},
				{"id": 2, "name": "Inverter Production"}
			]
		},
		{
			"name": "Weather",
			"predefinedCharts": [
				{"id": 7, "name": "Irradiance"}
			]
		}
	]
}`

func (m *MockClient) GetChartDefinitions(ctx context.Context) ([]json.RawMessage, error) {
	return flattenChartMenu([]byte(mockChartDefinitionsJSON), m.log)
}

const mockReportingJSON = `{
	"canEditAutoReport": true,
	"canAddEmailReport": true,
	"canAddSummaryReport": false,
	"canAddAutoReport": true,
	"canAddUserReport": false,
	"views": [
		{"id": 1, "name": "Monthly Production"},
		{"id": 2, "name": "Fleet Summary"}
	]
}`

func (m *MockClient) GetReportingCapabilities(ctx context.Context) (*models.ReportingCapabilities, error) {
	return models.ParseReportingCapabilities([]byte(mockReportingJSON))
}

const mockUserPreferencesJSON = `{
	"locale": "en-US",
	"temperatureUnit": "F",
	"timeZone": "US/Arizona",
	"dateFormat": "M/d/yyyy"
}`

func (m *MockClient) GetUserPreferences(ctx context.Context) (models.RawData, error) {
	return rawDocument("UserPreferences", []byte(mockUserPreferencesJSON))
}

const mockAuditLogJSON = `{
	"entries": [
		{"user": "mock.operator", "action": "site.config.update", "target": "S10001", "timestamp": "2021-12-30T18:00:00Z"},
		{"user": "mock.operator", "action": "alerttrigger.update", "target": "H12345", "timestamp": "2021-12-15T00:00:00Z"}
	]
}`

func (m *MockClient) GetAuditLog(ctx context.Context, filters map[string]string) ([]json.RawMessage, error) {
	return arrayField("AuditLog", []byte(mockAuditLogJSON), "entries")
}

const mockSiteLinksJSON = `{
	"links": [
		{"name": "PowerTrack Dashboard", "url": "https://apps.example.com/powertrack/%s"},
		{"name": "Kiosk", "url": "https://apps.example.com/kiosk/%s"}
	]
}`

func (m *MockClient) GetSiteLinks(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf(mockSiteLinksJSON, siteID, siteID)
	return arrayField("SiteLinks", []byte(body), "links")
}

const mockSiteSharesJSON = `{
	"shares": [
		{"email": "ops@example.com", "accessLevel": "viewer"},
		{"email": "asset-manager@example.com", "accessLevel": "editor"}
	]
}`

func (m *MockClient) GetSiteShares(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	if _, err := NormalizeSiteID(siteID); err != nil {
		return nil, err
	}
	return arrayField("SiteShares", []byte(mockSiteSharesJSON), "shares")
}

const mockModelCurvesJSON = `{
	"curves": [
		{"id": 1, "name": "Standard Efficiency", "type": %q},
		{"id": 2, "name": "Premium Efficiency", "type": %q}
	]
}`

func (m *MockClient) GetPVModelCurves(ctx context.Context, modelType string) ([]json.RawMessage, error) {
	if modelType == "" {
		modelType = "efficiencycurvemodels"
	}
	if !validModelCurveTypes[modelType] {
		return nil, &ValidationError{
			Param:   "model_type",
			Value:   modelType,
			Message: "want efficiencycurvemodels or incidenceanglemodels",
		}
	}
	body := fmt.Sprintf(mockModelCurvesJSON, modelType, modelType)
	return arrayField("PVModelCurves", []byte(body), "curves")
}

const mockPvsystModulesJSON = `{
	"modules": [
		{"manufacturer": "Mock Solar", "model": "MS-400", "watts": 400},
		{"manufacturer": "Mock Solar", "model": "MS-375", "watts": 375}
	]
}`

func (m *MockClient) GetPvsystModules(ctx context.Context, hardwareID, siteID string) ([]json.RawMessage, error) {
	if _, err := pvsystTarget(hardwareID, siteID); err != nil {
		return nil, err
	}
	return arrayField("PvsystModules", []byte(mockPvsystModulesJSON), "modules")
}

const mockReportConfigsJSON = `{
	"configs": [
		{"id": "RC1", "name": "Monthly Summary", "schedule": "monthly"},
		{"id": "RC2", "name": "Daily Production", "schedule": "daily"}
	]
}`

func (m *MockClient) GetReportConfigs(ctx context.Context) ([]json.RawMessage, error) {
	return arrayField("ReportConfigs", []byte(mockReportConfigsJSON), "configs")
}

func (m *MockClient) CreateReportConfig(ctx context.Context, config map[string]any) (json.RawMessage, error) {
	return json.RawMessage(`{"id": "RC3", "success": true}`), nil
}

func (m *MockClient) StartReport(ctx context.Context, reportID string, params map[string]any) (json.RawMessage, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return nil, &ValidationError{Param: "report_id", Value: reportID, Message: "identifier is empty"}
	}
	return json.RawMessage(`{"reportKey": "RPT-0001", "status": "queued"}`), nil
}

func (m *MockClient) UploadPanData(ctx context.Context, pan map[string]any) (json.RawMessage, error) {
	return json.RawMessage(`{"success": true, "modulesAdded": 1}`), nil
}

func (m *MockClient) Close() error { return nil }
