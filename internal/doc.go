// Package powertrack implements a client and CLI for the PowerTrack
// solar monitoring platform.
//
// # Architecture
//
// The tool is structured into several key packages:
//   - api: REST client for the platform, plus a deterministic mock
//   - cli: subcommand dispatch and output handling
//   - config: .env, YAML and environment configuration
//   - models: parsed platform documents and metric value types
//   - portfolio: JSON file store for site lists, snapshots and backups
//
// Key Features
//
//   - Session reuse:
//     The client authenticates with browser session values (COOKIE,
//     AE_S, AE_V) instead of an API key, so it sees exactly what the
//     platform UI sees.
//
//   - Safe updates:
//     Write commands run dry by default, print what would be sent,
//     and on --apply back up the current remote state before any
//     mutation.
//
//   - Performance:
//     GET responses are cached per URL, requests are rate limited and
//     retried with backoff, and Prometheus counters track call
//     outcomes.
//
// Example Usage
//
//	cfg := api.DefaultClientConfig()
//	cfg.BaseURL = os.Getenv("BASE_URL")
//	cfg.Cookie = os.Getenv("COOKIE")
//	client, err := api.NewHTTPClient(cfg, logrus.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//	data, err := client.GetSiteData(ctx, "S10001", api.SiteDataOptions{
//	    IncludeHardware: true,
//	    IncludeAlerts:   true,
//	})
//
// For more information about specific packages, see their respective
// documentation.
package powertrack
