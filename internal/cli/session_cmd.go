package cli

import (
	"context"
	"errors"

	"github.com/powertrack-tools/powertrack/internal/api"
	"github.com/powertrack-tools/powertrack/internal/models"
)

// authStatus is the check-auth verdict. Status carries the HTTP code
// the platform answered with when it rejected the session.
type authStatus struct {
	Authenticated bool           `json:"authenticated"`
	Status        int            `json:"status,omitempty"`
	Preferences   models.RawData `json:"preferences,omitempty"`
}

func cmdCheckAuth() command {
	return command{
		name:    "check-auth",
		summary: "Probe whether the configured session credentials still work",
		run: func(ctx context.Context, io *streams, args []string) error {
			var common commonFlags
			fs := newFlagSet("check-auth", io.stderr, &common)
			if err := fs.Parse(args); err != nil {
				return err
			}
			sess, err := openSession(&common, io)
			if err != nil {
				return err
			}
			defer sess.Close()

			prefs, err := sess.client.GetUserPreferences(ctx)
			var authErr *api.AuthError
			if errors.As(err, &authErr) {
				if emitErr := sess.emit(authStatus{Status: authErr.StatusCode}); emitErr != nil {
					return emitErr
				}
				return err
			}
			if err != nil {
				return err
			}
			return sess.emit(authStatus{Authenticated: true, Preferences: prefs})
		},
	}
}
