package cli

import (
	"context"
	"flag"
)

func cmdGetHardwareList() command {
	return command{
		name:    "get-hardware-list",
		summary: "Enumerate a site's hardware",
		run: func(ctx context.Context, io *streams, args []string) error {
			var siteID *string
			return runFetch(ctx, io, "get-hardware-list", args,
				func(fs *flag.FlagSet) {
					siteID = fs.String("site-id", "", "site identifier (S… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetHardwareList(ctx, *siteID)
				})
		},
	}
}

func cmdGetHardwareDetails() command {
	return command{
		name:    "get-hardware-details",
		summary: "Fetch the full editor document for one device",
		run: func(ctx context.Context, io *streams, args []string) error {
			var hardwareID *string
			return runFetch(ctx, io, "get-hardware-details", args,
				func(fs *flag.FlagSet) {
					hardwareID = fs.String("hardware-id", "", "hardware identifier (H… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetHardwareDetails(ctx, *hardwareID)
				})
		},
	}
}

func cmdGetHardwareDiagnostics() command {
	return command{
		name:    "get-hardware-diagnostics",
		summary: "Fetch communication status and register sets for one device",
		run: func(ctx context.Context, io *streams, args []string) error {
			var hardwareID *string
			return runFetch(ctx, io, "get-hardware-diagnostics", args,
				func(fs *flag.FlagSet) {
					hardwareID = fs.String("hardware-id", "", "hardware identifier (H… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetHardwareDiagnostics(ctx, *hardwareID)
				})
		},
	}
}

func cmdGetDriverList() command {
	return command{
		name:    "get-driver-list",
		summary: "List the entries of a driver settings list",
		run: func(ctx context.Context, io *streams, args []string) error {
			var listID *string
			return runFetch(ctx, io, "get-driver-list", args,
				func(fs *flag.FlagSet) {
					listID = fs.String("list-id", "", "driver settings list identifier")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetDriverSettingsList(ctx, *listID)
				})
		},
	}
}

func cmdGetRegisterOffsets() command {
	return command{
		name:    "get-register-offsets",
		summary: "Fetch the register offset table for one device",
		run: func(ctx context.Context, io *streams, args []string) error {
			var hardwareID *string
			return runFetch(ctx, io, "get-register-offsets", args,
				func(fs *flag.FlagSet) {
					hardwareID = fs.String("hardware-id", "", "hardware identifier (H… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetRegisterOffsets(ctx, *hardwareID)
				})
		},
	}
}
