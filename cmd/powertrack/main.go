// Command powertrack is a CLI for the PowerTrack solar monitoring
// platform.
//
// It wraps the platform's session-authenticated REST API: fetching
// site, hardware, alert, modeling and chart data, and applying
// reviewed configuration updates with automatic pre-update backups.
//
// Usage:
//
//	powertrack <command> [flags]
//
// Run 'powertrack help' for the command list. Every command accepts
// --mock to run against deterministic fixture data instead of the
// platform, --config to point at a YAML file, --output to write the
// result to a file and --verbose for debug logging.
//
// Credentials come from the environment (or a .env file): COOKIE,
// AE_S and AE_V hold the browser session values, BASE_URL the
// platform address.
package main

import (
	"os"

	"github.com/powertrack-tools/powertrack/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
