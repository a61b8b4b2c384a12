package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// defaultSiteListFile is where fetch-site-list leaves the portfolio
// snapshot.
const defaultSiteListFile = "portfolio/SiteList.json"

// loadSiteList reads a previously fetched SiteList.json. A missing
// file is an empty portfolio, not an error; that is the state before
// the first fetch-site-list run.
func loadSiteList(path string) (models.SiteList, error) {
	if path == "" {
		path = filepath.FromSlash(defaultSiteListFile)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.SiteList{}, nil
	}
	if err != nil {
		return models.SiteList{}, fmt.Errorf("read site list: %w", err)
	}
	var list models.SiteList
	if err := json.Unmarshal(data, &list); err != nil {
		return models.SiteList{}, &models.ParseError{Type: "SiteList", Err: err}
	}
	for i := range list.Sites {
		if list.Sites[i].Name == "" {
			list.Sites[i].Name = list.Sites[i].Key
		}
	}
	return list, nil
}

func (c *HTTPClient) GetSites(ctx context.Context, siteListFile string) (models.SiteList, error) {
	return loadSiteList(siteListFile)
}

func (c *HTTPClient) GetSiteConfig(ctx context.Context, siteID string) (*models.SiteConfig, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:      "GetSiteConfig",
		method:  http.MethodGet,
		path:    "/api/edit/site/" + siteID,
		referer: c.refererFor(siteID, "config"),
	})
	if err != nil {
		return nil, err
	}
	return models.ParseSiteConfig(siteID, body)
}

func (c *HTTPClient) UpdateSiteConfig(ctx context.Context, siteID string, updates map[string]any) (*models.UpdateResult, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	return c.runEdit(ctx, editFlow{
		op:       "UpdateSiteConfig",
		docType:  "SiteConfig",
		getPath:  "/api/edit/site/" + siteID,
		putPath:  "/api/edit/site",
		referer:  c.refererFor(siteID, "config"),
		keyField: "key",
		keyValue: siteID,
	}, updates)
}

func (c *HTTPClient) GetSiteDetailedInfo(ctx context.Context, siteID string) (*models.SiteDetailedInfo, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetSiteDetailedInfo",
		method: http.MethodGet,
		path:   "/api/view/site/" + siteID,
		query:  url.Values{"lastChanged": {epochLastChanged}},
	})
	if err != nil {
		return nil, err
	}
	return models.ParseSiteDetailedInfo(body)
}

// GetSiteOverview walks from the site to its parent customer and picks
// the matching row out of that customer's portfolio overview.
func (c *HTTPClient) GetSiteOverview(ctx context.Context, siteID string) (*models.SiteOverview, error) {
	siteID, err := NormalizeSiteID(siteID)
	if err != nil {
		return nil, err
	}
	info, err := c.GetSiteDetailedInfo(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if info.ParentKey == "" {
		return nil, fmt.Errorf("%w: %s has no parent customer", ErrSiteNotFound, siteID)
	}
	portfolio, err := c.GetPortfolioOverview(ctx, info.ParentKey)
	if err != nil {
		return nil, err
	}
	for i := range portfolio.Sites {
		if portfolio.Sites[i].Key == siteID {
			return &portfolio.Sites[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s not in portfolio %s", ErrSiteNotFound, siteID, info.ParentKey)
}

func (c *HTTPClient) GetPortfolioOverview(ctx context.Context, customerID string) (*models.PortfolioOverview, error) {
	customerID, err := NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, requestSpec{
		op:     "GetPortfolioOverview",
		method: http.MethodGet,
		path:   "/api/view/portfolio/" + customerID,
		query:  url.Values{"lastChanged": {epochLastChanged}},
	})
	if err != nil {
		return nil, err
	}
	portfolio, skipped, err := models.ParsePortfolioOverview(customerID, body)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range skipped {
		c.log.WithError(rowErr).WithField("customer_id", customerID).Warn("skipped portfolio row")
	}
	return portfolio, nil
}

func (c *HTTPClient) GetSiteData(ctx context.Context, siteID string, opts SiteDataOptions) (*models.SiteData, error) {
	return collectSiteData(ctx, c, siteID, opts, time.Now().UTC(), c.log)
}
