package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// chartHardwareTypes selects which device classes the production chart
// aggregates: weather stations and production meters.
var chartHardwareTypes = []int{5, 2}

func (c *HTTPClient) GetChartData(ctx context.Context, siteID, spanFrom, spanTo string) (*models.ChartData, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	if err := validateSpan(spanFrom, spanTo); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"context":        "site",
		"hardwareByType": chartHardwareTypes,
		"siteKeys":       []string{siteID},
	}
	if spanFrom != "" {
		payload["spanFrom"] = spanFrom
		payload["spanTo"] = spanTo
	}
	body, err := c.do(ctx, requestSpec{
		op:      "GetChartData",
		method:  http.MethodPost,
		path:    "/api/view/chart",
		payload: payload,
	})
	if err != nil {
		return nil, err
	}
	return models.ParseChartData(body)
}

func (c *HTTPClient) GetChartDefinitions(ctx context.Context) ([]json.RawMessage, error) {
	body, err := c.do(ctx, requestSpec{
		op:     "GetChartDefinitions",
		method: http.MethodGet,
		path:   "/api/view/chart/builtin",
	})
	if err != nil {
		return nil, err
	}
	return flattenChartMenu(body, c.log)
}

// flattenChartMenu unpacks the chartMenuSections envelope into the
// flat list of predefined chart definitions the menu groups.
func flattenChartMenu(body []byte, log *logrus.Logger) ([]json.RawMessage, error) {
	sections, err := arrayField("ChartDefinitions", body, "chartMenuSections")
	if err != nil {
		return nil, err
	}
	charts := []json.RawMessage{}
	for _, rawSection := range sections {
		var section struct {
			PredefinedCharts []json.RawMessage `json:"predefinedCharts"`
		}
		if err := json.Unmarshal(rawSection, &section); err != nil {
			log.WithError(err).Warn("skipped malformed chart menu section")
			continue
		}
		charts = append(charts, section.PredefinedCharts...)
	}
	return charts, nil
}
