package api

import (
	"context"
	"net/http"

	"github.com/powertrack-tools/powertrack/internal/models"
)

func (c *HTTPClient) GetModelingData(ctx context.Context, siteID string) (*models.ModelingData, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:      "GetModelingData",
		method:  http.MethodGet,
		path:    "/api/edit/modeling/" + siteID,
		referer: c.refererFor(siteID, "modeling"),
	})
	if err != nil {
		return nil, err
	}
	return models.ParseModelingData(siteID, body)
}

// UpdateModelingData writes the complete modeling document. Callers
// that want a merge semantics fetch with GetModelingData first and
// submit the reconciled document.
func (c *HTTPClient) UpdateModelingData(ctx context.Context, siteID string, modeling map[string]any) (*models.UpdateResult, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	return c.putDocument(ctx, "UpdateModelingData", "/api/edit/modeling/"+siteID, c.refererFor(siteID, "modeling"), modeling)
}

func (c *HTTPClient) UpdateInverterModel(ctx context.Context, hardwareID string, model map[string]any) (*models.UpdateResult, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	return c.putDocument(ctx, "UpdateInverterModel", "/api/edit/hardware/inverter/"+hardwareID, "", model)
}

func (c *HTTPClient) UpdateBifacialSettings(ctx context.Context, hardwareID string, settings map[string]any) (*models.UpdateResult, error) {
	hardwareID, err := NormalizeHardwareID(hardwareID)
	if err != nil {
		return nil, err
	}
	return c.putDocument(ctx, "UpdateBifacialSettings", "/api/edit/hardware/bifacial/"+hardwareID, "", settings)
}
