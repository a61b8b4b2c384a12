// Package api implements the PowerTrack platform client.
//
// Architecture:
// - Client is the single capability surface; callers never name a
//   concrete implementation.
// - HTTPClient talks to the live platform with session-cookie auth,
//   rate limiting, GET retries, an optional LRU response cache and
//   Prometheus instrumentation.
// - MockClient serves deterministic fixtures through the same models,
//   so offline runs and snapshot tests exercise the real parse paths.
//
// Example usage:
//
//	client, err := api.NewHTTPClient(cfg, logger)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	config, err := client.GetSiteConfig(ctx, "S60308")
package api

import (
	"context"
	"encoding/json"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// SiteDataOptions selects which optional sections GetSiteData fetches
// alongside the mandatory site identity and configuration.
type SiteDataOptions struct {
	IncludeHardware bool
	IncludeAlerts   bool
	IncludeModeling bool
}

// Client is the method surface shared by the live and mock
// implementations. Identifier arguments accept bare numeric ids and
// prefixed forms alike; each method normalizes before use and returns
// a ValidationError for anything else.
//
// Update methods return the UpdateResult audit trail even when the
// write fails, so callers can persist what would have changed.
type Client interface {
	// GetSites loads the locally cached site list. An empty
	// siteListFile falls back to portfolio/SiteList.json; a missing
	// file yields an empty list, not an error.
	GetSites(ctx context.Context, siteListFile string) (models.SiteList, error)

	// GetSiteConfig fetches the editable configuration document for a
	// site.
	GetSiteConfig(ctx context.Context, siteID string) (*models.SiteConfig, error)

	// UpdateSiteConfig overlays updates onto the current configuration
	// and writes the merged document back.
	UpdateSiteConfig(ctx context.Context, siteID string, updates map[string]any) (*models.UpdateResult, error)

	// GetSiteDetailedInfo fetches the full site record, including
	// address, contract and commissioning details.
	GetSiteDetailedInfo(ctx context.Context, siteID string) (*models.SiteDetailedInfo, error)

	// GetSiteOverview finds the live performance row for one site by
	// walking up to its customer and scanning that portfolio.
	GetSiteOverview(ctx context.Context, siteID string) (*models.SiteOverview, error)

	// GetPortfolioOverview fetches the per-site performance rows for a
	// customer. Rows that fail to parse are skipped, not fatal.
	GetPortfolioOverview(ctx context.Context, customerID string) (*models.PortfolioOverview, error)

	// GetSiteData aggregates site identity, configuration and the
	// requested optional sections into one record. Optional section
	// failures are recorded in the aggregate's Errors map instead of
	// aborting the fetch.
	GetSiteData(ctx context.Context, siteID string, opts SiteDataOptions) (*models.SiteData, error)

	// GetHardwareList enumerates a site's hardware. Three upstream
	// sources are tried in order: the production view, the node query
	// and the bulk-hardware editor.
	GetHardwareList(ctx context.Context, siteID string) ([]models.HardwareSummary, error)

	// GetHardwareDetails fetches the full editor document for one
	// device.
	GetHardwareDetails(ctx context.Context, hardwareID string) (*models.HardwareDetails, error)

	// UpdateHardwareConfig overlays updates onto the current device
	// document and writes it back.
	UpdateHardwareConfig(ctx context.Context, hardwareID string, updates map[string]any) (*models.UpdateResult, error)

	// UpdateSiteHardware replaces the hardware array of a site's
	// hardware editor document.
	UpdateSiteHardware(ctx context.Context, siteID string, hardware []map[string]any) (*models.UpdateResult, error)

	// BulkUpdateHardware submits hardware rows through the bulk editor
	// without a prior read.
	BulkUpdateHardware(ctx context.Context, siteID string, hardware []map[string]any) (*models.UpdateResult, error)

	// UpdateHardwareDriver writes a device's driver settings.
	UpdateHardwareDriver(ctx context.Context, hardwareID string, driver map[string]any) (*models.UpdateResult, error)

	// GetHardwareDiagnostics fetches communication status and register
	// sets for one device.
	GetHardwareDiagnostics(ctx context.Context, hardwareID string) (*models.HardwareDiagnostics, error)

	// GetSiteHardwareProduction returns the raw per-device production
	// rows for a site.
	GetSiteHardwareProduction(ctx context.Context, siteID string) ([]json.RawMessage, error)

	// GetDriverSettings fetches the driver settings document for one
	// device.
	GetDriverSettings(ctx context.Context, hardwareID string) (models.RawData, error)

	// GetDriverSettingsList returns the entries of a driver settings
	// list.
	GetDriverSettingsList(ctx context.Context, listID string) ([]json.RawMessage, error)

	// GetRegisterOffsets fetches the register offset table for one
	// device.
	GetRegisterOffsets(ctx context.Context, hardwareID string) (models.RawData, error)

	// GetAlertTriggers fetches the alert trigger document for a
	// device. lastChanged, when set, is passed through as a delta
	// cursor.
	GetAlertTriggers(ctx context.Context, hardwareID, lastChanged string) (*models.AlertTrigger, error)

	// UpdateAlertTriggers writes a trigger document for a device.
	UpdateAlertTriggers(ctx context.Context, hardwareID string, trigger map[string]any) (*models.UpdateResult, error)

	// AddAlertTrigger creates a new trigger and returns the platform's
	// response.
	AddAlertTrigger(ctx context.Context, hardwareID string, trigger map[string]any) (json.RawMessage, error)

	// DeleteAlertTrigger removes a device's trigger.
	DeleteAlertTrigger(ctx context.Context, hardwareID string) error

	// GetAlertSummary fetches active-alert counts per hardware key.
	// Exactly one of customerID and siteID must be set.
	GetAlertSummary(ctx context.Context, customerID, siteID string) (*models.AlertSummaryResponse, error)

	// GetModelingData fetches the PV modeling document for a site.
	GetModelingData(ctx context.Context, siteID string) (*models.ModelingData, error)

	// UpdateModelingData writes a site's modeling document.
	UpdateModelingData(ctx context.Context, siteID string, modeling map[string]any) (*models.UpdateResult, error)

	// UpdateInverterModel writes the inverter model parameters for one
	// device.
	UpdateInverterModel(ctx context.Context, hardwareID string, model map[string]any) (*models.UpdateResult, error)

	// UpdateBifacialSettings writes bifacial module parameters for one
	// device.
	UpdateBifacialSettings(ctx context.Context, hardwareID string, settings map[string]any) (*models.UpdateResult, error)

	// GetChartData runs the site production chart query. spanFrom and
	// spanTo bound the window as RFC 3339 timestamps; both empty uses
	// the platform default window.
	GetChartData(ctx context.Context, siteID, spanFrom, spanTo string) (*models.ChartData, error)

	// GetChartDefinitions lists the built-in chart types, flattened
	// across menu sections.
	GetChartDefinitions(ctx context.Context) ([]json.RawMessage, error)

	// GetReportingCapabilities fetches the session's reporting
	// permissions.
	GetReportingCapabilities(ctx context.Context) (*models.ReportingCapabilities, error)

	// GetUserPreferences fetches the raw preferences document for the
	// session user.
	GetUserPreferences(ctx context.Context) (models.RawData, error)

	// GetAuditLog lists audit entries, optionally filtered.
	GetAuditLog(ctx context.Context, filters map[string]string) ([]json.RawMessage, error)

	// GetSiteLinks lists the external links configured for a site.
	GetSiteLinks(ctx context.Context, siteID string) ([]json.RawMessage, error)

	// GetSiteShares lists the share grants for a site.
	GetSiteShares(ctx context.Context, siteID string) ([]json.RawMessage, error)

	// GetPVModelCurves lists PV model curves. modelType is
	// "efficiencycurvemodels" or "incidenceanglemodels".
	GetPVModelCurves(ctx context.Context, modelType string) ([]json.RawMessage, error)

	// GetPvsystModules lists PVSyst module definitions for a device or
	// a site. hardwareID takes precedence when both ids are set; one of
	// the two is required.
	GetPvsystModules(ctx context.Context, hardwareID, siteID string) ([]json.RawMessage, error)

	// GetReportConfigs lists the stored report configurations.
	GetReportConfigs(ctx context.Context) ([]json.RawMessage, error)

	// CreateReportConfig stores a new report configuration.
	CreateReportConfig(ctx context.Context, config map[string]any) (json.RawMessage, error)

	// StartReport kicks off generation of a stored report.
	StartReport(ctx context.Context, reportID string, params map[string]any) (json.RawMessage, error)

	// UploadPanData uploads a PAN performance dataset.
	UploadPanData(ctx context.Context, pan map[string]any) (json.RawMessage, error)

	// Close releases any held resources. The client must not be used
	// afterwards.
	Close() error
}
