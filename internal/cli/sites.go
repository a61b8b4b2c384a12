package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/powertrack-tools/powertrack/internal/api"
	"github.com/powertrack-tools/powertrack/internal/models"
)

// metadataBag converts plain fields into the RawData form SiteList
// metadata is stored as.
func metadataBag(fields map[string]any) (models.RawData, error) {
	buf, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var bag models.RawData
	if err := json.Unmarshal(buf, &bag); err != nil {
		return nil, err
	}
	return bag, nil
}

func cmdFetchSiteList() command {
	return command{
		name:    "fetch-site-list",
		summary: "Fetch a customer's portfolio and save it as SiteList.json",
		run: func(ctx context.Context, io *streams, args []string) error {
			var common commonFlags
			fs := newFlagSet("fetch-site-list", io.stderr, &common)
			customerID := fs.String("customer-id", "", "customer identifier (C… or bare digits)")
			if err := fs.Parse(args); err != nil {
				return err
			}
			sess, err := openSession(&common, io)
			if err != nil {
				return err
			}
			defer sess.Close()

			overview, err := sess.client.GetPortfolioOverview(ctx, *customerID)
			if err != nil {
				return err
			}

			list := models.SiteList{Sites: make([]models.Site, 0, len(overview.Sites))}
			for i := range overview.Sites {
				site := models.Site{Key: overview.Sites[i].Key, Name: overview.Sites[i].Name}
				if site.Name == "" {
					site.Name = site.Key
				}
				list.Sites = append(list.Sites, site)
			}

			source := "powertrack-api"
			if common.mock {
				source = "mock"
			}
			list.Metadata, err = metadataBag(map[string]any{
				"customer_id": overview.CustomerID,
				"total_sites": overview.TotalSites(),
				"created_at":  time.Now().UTC().Format(time.RFC3339),
				"source":      source,
			})
			if err != nil {
				return fmt.Errorf("build site list metadata: %w", err)
			}

			path, err := sess.store.SaveSiteList(list)
			if err != nil {
				return err
			}
			sess.log.WithField("path", path).WithField("sites", list.Len()).Info("saved site list")
			return sess.emit(list)
		},
	}
}

func cmdGetSiteConfig() command {
	return command{
		name:    "get-site-config",
		summary: "Fetch the editable configuration document for a site",
		run: func(ctx context.Context, io *streams, args []string) error {
			var common commonFlags
			fs := newFlagSet("get-site-config", io.stderr, &common)
			siteID := fs.String("site-id", "", "site identifier (S… or bare digits)")
			save := fs.Bool("save", false, "also write configs/{site-id}.json under the portfolio dir")
			if err := fs.Parse(args); err != nil {
				return err
			}
			sess, err := openSession(&common, io)
			if err != nil {
				return err
			}
			defer sess.Close()

			config, err := sess.client.GetSiteConfig(ctx, *siteID)
			if err != nil {
				return err
			}
			if *save {
				path, err := sess.store.SaveSiteConfig(config.SiteID, config)
				if err != nil {
					return err
				}
				sess.log.WithField("path", path).Info("saved site config")
			}
			return sess.emit(config)
		},
	}
}

func cmdGetSiteData() command {
	return command{
		name:    "get-site-data",
		summary: "Aggregate config, hardware, alerts and modeling for a site",
		run: func(ctx context.Context, io *streams, args []string) error {
			var common commonFlags
			fs := newFlagSet("get-site-data", io.stderr, &common)
			siteID := fs.String("site-id", "", "site identifier (S… or bare digits)")
			noHardware := fs.Bool("no-hardware", false, "skip the hardware section")
			noAlerts := fs.Bool("no-alerts", false, "skip the alert trigger section")
			noModeling := fs.Bool("no-modeling", false, "skip the modeling section")
			save := fs.Bool("save", false, "also write site_data/{site-id}.json under the portfolio dir")
			if err := fs.Parse(args); err != nil {
				return err
			}
			sess, err := openSession(&common, io)
			if err != nil {
				return err
			}
			defer sess.Close()

			data, err := sess.client.GetSiteData(ctx, *siteID, api.SiteDataOptions{
				IncludeHardware: !*noHardware,
				IncludeAlerts:   !*noAlerts,
				IncludeModeling: !*noModeling,
			})
			if err != nil {
				return err
			}
			if *save {
				path, err := sess.store.SaveSiteData(data.Site.Key, data)
				if err != nil {
					return err
				}
				sess.log.WithField("path", path).Info("saved site data")
			}
			return sess.emit(data)
		},
	}
}

func cmdGetSiteInfo() command {
	return command{
		name:    "get-site-info",
		summary: "Fetch the detailed site record (address, contract, status)",
		run: func(ctx context.Context, io *streams, args []string) error {
			var siteID *string
			return runFetch(ctx, io, "get-site-info", args,
				func(fs *flag.FlagSet) {
					siteID = fs.String("site-id", "", "site identifier (S… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetSiteDetailedInfo(ctx, *siteID)
				})
		},
	}
}

func cmdGetSiteOverview() command {
	return command{
		name:    "get-site-overview",
		summary: "Fetch the live performance row for one site",
		run: func(ctx context.Context, io *streams, args []string) error {
			var siteID *string
			return runFetch(ctx, io, "get-site-overview", args,
				func(fs *flag.FlagSet) {
					siteID = fs.String("site-id", "", "site identifier (S… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetSiteOverview(ctx, *siteID)
				})
		},
	}
}

func cmdGetPortfolioOverview() command {
	return command{
		name:    "get-portfolio-overview",
		summary: "Fetch per-site performance rows for a customer",
		run: func(ctx context.Context, io *streams, args []string) error {
			var customerID *string
			return runFetch(ctx, io, "get-portfolio-overview", args,
				func(fs *flag.FlagSet) {
					customerID = fs.String("customer-id", "", "customer identifier (C… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetPortfolioOverview(ctx, *customerID)
				})
		},
	}
}
