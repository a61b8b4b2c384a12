package cli

import (
	"context"
	"flag"
)

func cmdGetChartData() command {
	return command{
		name:    "get-chart-data",
		summary: "Fetch energy chart series for a site over a time span",
		run: func(ctx context.Context, io *streams, args []string) error {
			var siteID, from, to *string
			return runFetch(ctx, io, "get-chart-data", args,
				func(fs *flag.FlagSet) {
					siteID = fs.String("site-id", "", "site identifier (S… or bare digits)")
					from = fs.String("from", "", "span start, RFC 3339 (both ends or neither)")
					to = fs.String("to", "", "span end, RFC 3339 (both ends or neither)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetChartData(ctx, *siteID, *from, *to)
				})
		},
	}
}

func cmdGetChartDefinitions() command {
	return command{
		name:    "get-chart-definitions",
		summary: "List the chart definitions available to the session",
		run: func(ctx context.Context, io *streams, args []string) error {
			return runFetch(ctx, io, "get-chart-definitions", args, nil,
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetChartDefinitions(ctx)
				})
		},
	}
}
