package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/powertrack-tools/powertrack/internal/models"
)

func (c *HTTPClient) GetAlertTriggers(ctx context.Context, hardwareID, lastChanged string) (*models.AlertTrigger, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	spec := requestSpec{
		op:      "GetAlertTriggers",
		method:  http.MethodGet,
		path:    "/api/alerttrigger/" + hardwareID,
		referer: c.refererFor(hardwareID, "alertsettings"),
	}
	if lastChanged != "" {
		spec.query = url.Values{"lastChanged": {lastChanged}}
	}
	body, err := c.do(ctx, spec)
	if err != nil {
		return nil, err
	}
	return models.ParseAlertTrigger(hardwareID, body)
}

// UpdateAlertTriggers writes the full trigger document; the platform
// has no partial edit for alerts, so the payload must carry everything
// the device should keep.
func (c *HTTPClient) UpdateAlertTriggers(ctx context.Context, hardwareID string, trigger map[string]any) (*models.UpdateResult, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	payload := make(map[string]any, len(trigger)+1)
	for k, v := range trigger {
		payload[k] = v
	}
	payload["parentKey"] = hardwareID
	return c.putDocument(ctx, "UpdateAlertTriggers", "/api/alerttrigger", c.refererFor(hardwareID, "alertsettings"), payload)
}

func (c *HTTPClient) AddAlertTrigger(ctx context.Context, hardwareID string, trigger map[string]any) (json.RawMessage, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:      "AddAlertTrigger",
		method:  http.MethodPost,
		path:    "/api/alerttrigger/" + hardwareID,
		payload: trigger,
		referer: c.refererFor(hardwareID, "alertsettings"),
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *HTTPClient) DeleteAlertTrigger(ctx context.Context, hardwareID string) error {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, requestSpec{
		op:      "DeleteAlertTrigger",
		method:  http.MethodDelete,
		path:    "/api/alerttrigger/" + hardwareID,
		referer: c.refererFor(hardwareID, "alertsettings"),
	})
	return err
}

func (c *HTTPClient) GetAlertSummary(ctx context.Context, customerID, siteID string) (*models.AlertSummaryResponse, error) {
	target, err := alertSummaryTarget(customerID, siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetAlertSummary",
		method: http.MethodGet,
		path:   "/api/view/activealerts/activesummary/" + target,
	})
	if err != nil {
		return nil, err
	}
	return models.ParseAlertSummary(body)
}
