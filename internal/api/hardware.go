package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// GetHardwareList tries the production view, the node query and the
// bulk editor in turn; older sites only answer on some of them. A dead
// session stops the chain, any other failure moves to the next source.
func (c *HTTPClient) GetHardwareList(ctx context.Context, siteID string) ([]models.HardwareSummary, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}

	sources := []func(context.Context, string) ([]json.RawMessage, error){
		c.hardwareFromProduction,
		c.hardwareFromNodeQuery,
		c.hardwareFromBulkEditor,
	}
	for _, source := range sources {
		rows, err := source(ctx, siteID)
		if err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				return nil, err
			}
			c.log.WithError(err).WithField("site_id", siteID).Debug("hardware source unavailable")
			continue
		}
		if len(rows) == 0 {
			continue
		}
		summaries, skipped := models.ParseHardwareRows(rows)
		for _, rowErr := range skipped {
			c.log.WithError(rowErr).WithField("site_id", siteID).Warn("skipped hardware row")
		}
		return summaries, nil
	}
	return []models.HardwareSummary{}, nil
}

func (c *HTTPClient) hardwareFromProduction(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	body, err := c.do(ctx, requestSpec{
		op:     "GetHardwareList",
		method: http.MethodGet,
		path:   "/api/view/sitehardwareproduction/" + siteID,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("HardwareSummary", body, "hardware")
}

// hardwareFromNodeQuery asks the navigation tree for the site's
// hardware nodes and reshapes them into summary rows.
func (c *HTTPClient) hardwareFromNodeQuery(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	payload := map[string]any{
		"key":      siteID,
		"context":  "query",
		"kinds":    []string{"customer", "site", "hardware"},
		"subKinds": []string{},
		"nodes":    []string{},
		"filter":   "",
		"filterBy": "Name",
	}
	body, err := c.do(ctx, requestSpec{
		op:      "GetHardwareList",
		method:  http.MethodPost,
		path:    "/api/node",
		payload: payload,
	})
	if err != nil {
		return nil, err
	}
	nodes, err := arrayField("HardwareSummary", body, "nodes")
	if err != nil {
		return nil, err
	}

	rows := make([]json.RawMessage, 0, len(nodes))
	for _, raw := range nodes {
		var node struct {
			Key     string          `json:"key"`
			Name    string          `json:"name"`
			Kind    string          `json:"kind"`
			SubKind json.RawMessage `json:"subKind"`
		}
		if err := json.Unmarshal(raw, &node); err != nil {
			c.log.WithError(err).Warn("skipped malformed node row")
			continue
		}
		if node.Kind != "hardware" {
			continue
		}
		row := map[string]any{
			"key":        node.Key,
			"name":       node.Name,
			"enableBool": true,
		}
		if isJSONNumber(node.SubKind) {
			row["functionCode"] = node.SubKind
		}
		if len(node.Key) > 1 {
			if hid, err := strconv.ParseInt(node.Key[1:], 10, 64); err == nil {
				row["hid"] = hid
			}
		}
		buf, err := json.Marshal(row)
		if err != nil {
			continue
		}
		rows = append(rows, buf)
	}
	return rows, nil
}

func (c *HTTPClient) hardwareFromBulkEditor(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	body, err := c.do(ctx, requestSpec{
		op:     "GetHardwareList",
		method: http.MethodGet,
		path:   "/api/edit/bulkhardware/" + siteID,
	})
	if err != nil {
		return nil, err
	}
	groups, err := arrayField("HardwareSummary", body, "list")
	if err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	for _, rawGroup := range groups {
		var group struct {
			FunctionCode json.RawMessage `json:"functionCode"`
			Rows         []struct {
				HID        int64           `json:"hid"`
				Name       string          `json:"name"`
				EnableBool json.RawMessage `json:"enableBool"`
			} `json:"rows"`
		}
		if err := json.Unmarshal(rawGroup, &group); err != nil {
			c.log.WithError(err).Warn("skipped malformed bulk hardware group")
			continue
		}
		for _, r := range group.Rows {
			row := map[string]any{
				"key":  fmt.Sprintf("H%d", r.HID),
				"name": r.Name,
				"hid":  r.HID,
			}
			if isJSONNumber(group.FunctionCode) {
				row["functionCode"] = group.FunctionCode
			}
			if len(r.EnableBool) > 0 {
				row["enableBool"] = r.EnableBool
			} else {
				row["enableBool"] = true
			}
			buf, err := json.Marshal(row)
			if err != nil {
				continue
			}
			rows = append(rows, buf)
		}
	}
	return rows, nil
}

func isJSONNumber(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	return raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')
}

func (c *HTTPClient) GetHardwareDetails(ctx context.Context, hardwareID string) (*models.HardwareDetails, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:      "GetHardwareDetails",
		method:  http.MethodGet,
		path:    "/api/edit/hardware/" + hardwareID,
		referer: c.refererFor(hardwareID, "config"),
	})
	if err != nil {
		return nil, err
	}
	return models.ParseHardwareDetails(hardwareID, body)
}

func (c *HTTPClient) UpdateHardwareConfig(ctx context.Context, hardwareID string, updates map[string]any) (*models.UpdateResult, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	return c.runEdit(ctx, editFlow{
		op:       "UpdateHardwareConfig",
		docType:  "HardwareDetails",
		getPath:  "/api/edit/hardware/" + hardwareID,
		putPath:  "/api/edit/hardware",
		referer:  c.refererFor(hardwareID, "config"),
		keyField: "hardwareId",
		keyValue: hardwareID,
	}, updates)
}

func (c *HTTPClient) UpdateSiteHardware(ctx context.Context, siteID string, hardware []map[string]any) (*models.UpdateResult, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	return c.runEdit(ctx, editFlow{
		op:       "UpdateSiteHardware",
		docType:  "SiteHardware",
		getPath:  "/api/edit/sitehardware/" + siteID,
		putPath:  "/api/edit/sitehardware",
		referer:  c.refererFor(siteID, "hardware/list"),
		keyField: "key",
		keyValue: siteID,
	}, map[string]any{"hardware": hardware})
}

func (c *HTTPClient) BulkUpdateHardware(ctx context.Context, siteID string, hardware []map[string]any) (*models.UpdateResult, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{"siteId": siteID, "hardware": hardware}
	return c.putDocument(ctx, "BulkUpdateHardware", "/api/edit/bulkhardware/"+siteID, c.refererFor(siteID, "hardware/list"), payload)
}

func (c *HTTPClient) UpdateHardwareDriver(ctx context.Context, hardwareID string, driver map[string]any) (*models.UpdateResult, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	return c.putDocument(ctx, "UpdateHardwareDriver", "/api/edit/hardware/driver/"+hardwareID, "", driver)
}

func (c *HTTPClient) GetHardwareDiagnostics(ctx context.Context, hardwareID string) (*models.HardwareDiagnostics, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetHardwareDiagnostics",
		method: http.MethodGet,
		path:   "/api/view/hardwarestatus/" + hardwareID,
		query:  url.Values{"lastChanged": {epochLastChanged}},
	})
	if err != nil {
		return nil, err
	}
	return models.ParseHardwareDiagnostics(hardwareID, body)
}

func (c *HTTPClient) GetSiteHardwareProduction(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetSiteHardwareProduction",
		method: http.MethodGet,
		path:   "/api/view/sitehardwareproduction/" + siteID,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("SiteHardwareProduction", body, "hardware")
}

func (c *HTTPClient) GetDriverSettings(ctx context.Context, hardwareID string) (models.RawData, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetDriverSettings",
		method: http.MethodGet,
		path:   "/api/view/driversettings/" + hardwareID,
	})
	if err != nil {
		return nil, err
	}
	return rawDocument("DriverSettings", body)
}

func (c *HTTPClient) GetDriverSettingsList(ctx context.Context, listID string) ([]json.RawMessage, error) {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return nil, &ValidationError{Param: "list_id", Value: listID, Message: "identifier is empty"}
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetDriverSettingsList",
		method: http.MethodGet,
		path:   "/api/view/driversettings/list/" + listID,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("DriverSettings", body, "settings")
}

func (c *HTTPClient) GetRegisterOffsets(ctx context.Context, hardwareID string) (models.RawData, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetRegisterOffsets",
		method: http.MethodGet,
		path:   "/api/view/registeroffsets/" + hardwareID,
	})
	if err != nil {
		return nil, err
	}
	return rawDocument("RegisterOffsets", body)
}
