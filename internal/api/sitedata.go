package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// collectSiteData is the aggregate fetch both client implementations
// share. Site identity and configuration are mandatory and abort on
// failure. Hardware and modeling fetch concurrently; alerts ride on the
// hardware list, so they follow it on the same goroutine and are empty
// when hardware was not requested. Optional-section failures never
// cancel siblings: the section stays empty and the Errors map records
// the message, per-device failures under "hardware/H…" or "alerts/H…".
func collectSiteData(ctx context.Context, c Client, siteID string, opts SiteDataOptions, fetchedAt time.Time, log *logrus.Logger) (*models.SiteData, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}

	config, err := c.GetSiteConfig(ctx, siteID)
	if err != nil {
		return nil, err
	}

	data := &models.SiteData{
		Site:      models.NewSite(siteID),
		Config:    config,
		FetchedAt: fetchedAt,
	}

	var mu sync.Mutex
	fail := func(section string, err error) {
		mu.Lock()
		if data.Errors == nil {
			data.Errors = map[string]string{}
		}
		data.Errors[section] = err.Error()
		mu.Unlock()
		log.WithError(err).WithFields(logrus.Fields{
			"site_id": siteID,
			"section": section,
		}).Warn("site data section failed")
	}

	var wg sync.WaitGroup
	if opts.IncludeHardware {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summaries, err := c.GetHardwareList(ctx, siteID)
			if err != nil {
				fail("hardware", err)
				return
			}
			details := make([]models.HardwareDetails, 0, len(summaries))
			for _, hw := range summaries {
				d, err := c.GetHardwareDetails(ctx, hw.Key)
				if err != nil {
					fail("hardware/"+hw.Key, err)
					continue
				}
				details = append(details, *d)
			}
			mu.Lock()
			data.Hardware = details
			mu.Unlock()

			if !opts.IncludeAlerts {
				return
			}
			alerts := make([]models.AlertTrigger, 0, len(details))
			for _, d := range details {
				trigger, err := c.GetAlertTriggers(ctx, d.Key, "")
				if err != nil {
					fail("alerts/"+d.Key, err)
					continue
				}
				alerts = append(alerts, *trigger)
			}
			mu.Lock()
			data.Alerts = alerts
			mu.Unlock()
		}()
	}

	if opts.IncludeModeling {
		wg.Add(1)
		go func() {
			defer wg.Done()
			modeling, err := c.GetModelingData(ctx, siteID)
			if err != nil {
				fail("modeling", err)
				return
			}
			mu.Lock()
			data.Modeling = modeling
			mu.Unlock()
		}()
	}

	wg.Wait()
	return data, nil
}
