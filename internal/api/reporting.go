package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/powertrack-tools/powertrack/internal/models"
)

var validModelCurveTypes = map[string]bool{
	"efficiencycurvemodels": true,
	"incidenceanglemodels":  true,
}

func (c *HTTPClient) GetReportingCapabilities(ctx context.Context) (*models.ReportingCapabilities, error) {
	body, err := c.do(ctx, requestSpec{
		op:     "GetReportingCapabilities",
		method: http.MethodGet,
		path:   "/api/reporting",
	})
	if err != nil {
		return nil, err
	}
	return models.ParseReportingCapabilities(body)
}

func (c *HTTPClient) GetUserPreferences(ctx context.Context) (models.RawData, error) {
	body, err := c.do(ctx, requestSpec{
		op:     "GetUserPreferences",
		method: http.MethodGet,
		path:   "/api/userpreferences",
	})
	if err != nil {
		return nil, err
	}
	return rawDocument("UserPreferences", body)
}

func (c *HTTPClient) GetAuditLog(ctx context.Context, filters map[string]string) ([]json.RawMessage, error) {
	query := url.Values{}
	for k, v := range filters {
		query.Set(k, v)
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetAuditLog",
		method: http.MethodGet,
		path:   "/api/auditlog",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("AuditLog", body, "entries")
}

func (c *HTTPClient) GetSiteLinks(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetSiteLinks",
		method: http.MethodGet,
		path:   "/api/view/sitelinks/" + siteID,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("SiteLinks", body, "links")
}

func (c *HTTPClient) GetSiteShares(ctx context.Context, siteID string) ([]json.RawMessage, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetSiteShares",
		method: http.MethodGet,
		path:   "/api/view/siteshares/" + siteID,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("SiteShares", body, "shares")
}

func (c *HTTPClient) GetPVModelCurves(ctx context.Context, modelType string) ([]json.RawMessage, error) {
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
	body, err := c.do(ctx, requestSpec{
		op:     "GetPVModelCurves",
		method: http.MethodGet,
		path:   "/api/view/pvcurvemodels/" + modelType,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("PVModelCurves", body, "curves")
}

func (c *HTTPClient) GetPvsystModules(ctx context.Context, hardwareID, siteID string) ([]json.RawMessage, error) {
	target, err := pvsystTarget(hardwareID, siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetPvsystModules",
		method: http.MethodGet,
		path:   "/api/view/pvsystmodules/" + target,
	})
	if err != nil {
		return nil, err
	}
	return arrayField("PvsystModules", body, "modules")
}

func (c *HTTPClient) GetReportConfigs(ctx context.Context) ([]json.RawMessage, error) {
	body, err := c.do(ctx, requestSpec{
		op:     "GetReportConfigs",
		method: http.MethodGet,
		path:   "/api/view/reportconfigs",
	})
	if err != nil {
		return nil, err
	}
	return arrayField("ReportConfigs", body, "configs")
}

func (c *HTTPClient) CreateReportConfig(ctx context.Context, config map[string]any) (json.RawMessage, error) {
	body, err := c.do(ctx, requestSpec{
		op:      "CreateReportConfig",
		method:  http.MethodPost,
		path:    "/api/report/config",
		payload: config,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *HTTPClient) StartReport(ctx context.Context, reportID string, params map[string]any) (json.RawMessage, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return nil, &ValidationError{Param: "report_id", Value: reportID, Message: "identifier is empty"}
	}
	payload := map[string]any{"reportId": reportID}
	for k, v := range params {
		payload[k] = v
	}
	body, err := c.do(ctx, requestSpec{
		op:      "StartReport",
		method:  http.MethodPost,
		path:    "/api/report/start",
		payload: payload,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *HTTPClient) UploadPanData(ctx context.Context, pan map[string]any) (json.RawMessage, error) {
	body, err := c.do(ctx, requestSpec{
		op:      "UploadPanData",
		method:  http.MethodPost,
		path:    "/api/pan/upload",
		payload: pan,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
