package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/powertrack-tools/powertrack/internal/models"
)

func cmdGetAlertTriggers() command {
	return command{
		name:    "get-alert-triggers",
		summary: "Fetch the alert trigger document for one device",
		run: func(ctx context.Context, io *streams, args []string) error {
			var hardwareID, lastChanged *string
			return runFetch(ctx, io, "get-alert-triggers", args,
				func(fs *flag.FlagSet) {
					hardwareID = fs.String("hardware-id", "", "hardware identifier (H… or bare digits)")
					lastChanged = fs.String("last-changed", "", "lastChanged value passed through to the platform")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetAlertTriggers(ctx, *hardwareID, *lastChanged)
				})
		},
	}
}

func cmdGetAlertSummary() command {
	return command{
		name:    "get-alert-summary",
		summary: "Fetch active alert counts for a customer or a site",
		run: func(ctx context.Context, io *streams, args []string) error {
			var customerID, siteID *string
			return runFetch(ctx, io, "get-alert-summary", args,
				func(fs *flag.FlagSet) {
					customerID = fs.String("customer-id", "", "customer identifier (exactly one of --customer-id, --site-id)")
					siteID = fs.String("site-id", "", "site identifier (exactly one of --customer-id, --site-id)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetAlertSummary(ctx, *customerID, *siteID)
				})
		},
	}
}

// alertAction is one row of the apply-alert-updates input file.
type alertAction struct {
	HardwareKey string         `json:"hardware_key"`
	Action      string         `json:"action"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// alertOutcome records how one action went. Actions run
// independently, so a failed row does not stop the rest.
type alertOutcome struct {
	HardwareKey string          `json:"hardware_key"`
	Action      string          `json:"action"`
	Status      string          `json:"status"`
	Error       string          `json:"error,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
}

type alertDryRun struct {
	Apply   bool          `json:"apply"`
	Actions []alertAction `json:"actions"`
}

type alertApplySummary struct {
	AppliedAt string         `json:"applied_at"`
	Results   []alertOutcome `json:"results"`
}

// readAlertActions loads and validates the action file before any
// session is opened, so a malformed file never reaches the platform.
func readAlertActions(path string) ([]alertAction, error) {
	if path == "" {
		return nil, errors.New("--update-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read update file: %w", err)
	}
	var actions []alertAction
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("parse update file %s: %w", path, err)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("update file %s contains no actions", path)
	}
	for i, a := range actions {
		if a.HardwareKey == "" {
			return nil, fmt.Errorf("action %d: hardware_key is required", i)
		}
		switch a.Action {
		case "update", "add":
			if len(a.Payload) == 0 {
				return nil, fmt.Errorf("action %d (%s %s): payload is required", i, a.Action, a.HardwareKey)
			}
		case "delete":
		default:
			return nil, fmt.Errorf("action %d: unknown action %q (want update, add or delete)", i, a.Action)
		}
	}
	return actions, nil
}

func cmdApplyAlertUpdates() command {
	return command{
		name:    "apply-alert-updates",
		summary: "Run a batch of alert trigger changes (dry run unless --apply)",
		run: func(ctx context.Context, io *streams, args []string) error {
			var common commonFlags
			fs := newFlagSet("apply-alert-updates", io.stderr, &common)
			updateFile := fs.String("update-file", "", "JSON array of {hardware_key, action, payload} entries")
			apply := fs.Bool("apply", false, "send the updates (default is a dry run)")
			backupDir := fs.String("backup-dir", "", "write the applied-actions record here instead of the portfolio dir")
			if err := fs.Parse(args); err != nil {
				return err
			}
			actions, err := readAlertActions(*updateFile)
			if err != nil {
				return err
			}
			sess, err := openSession(&common, io)
			if err != nil {
				return err
			}
			defer sess.Close()

			if !*apply {
				sess.log.WithField("actions", len(actions)).Info("dry run, nothing sent (use --apply to submit)")
				return sess.emit(alertDryRun{Actions: actions})
			}

			at := time.Now().UTC()
			results := make([]alertOutcome, 0, len(actions))
			failed := 0
			for _, action := range actions {
				outcome := alertOutcome{HardwareKey: action.HardwareKey, Action: action.Action, Status: "ok"}
				var response json.RawMessage
				var err error
				switch action.Action {
				case "update":
					var result *models.UpdateResult
					result, err = sess.client.UpdateAlertTriggers(ctx, action.HardwareKey, action.Payload)
					if result != nil {
						if buf, merr := json.Marshal(result); merr == nil {
							response = buf
						}
					}
				case "add":
					response, err = sess.client.AddAlertTrigger(ctx, action.HardwareKey, action.Payload)
				case "delete":
					err = sess.client.DeleteAlertTrigger(ctx, action.HardwareKey)
				}
				if err != nil {
					failed++
					outcome.Status = "error"
					outcome.Error = err.Error()
					sess.log.WithField("hardware_id", action.HardwareKey).
						WithField("action", action.Action).
						WithError(err).Warn("alert action failed")
				}
				outcome.Response = response
				results = append(results, outcome)
			}

			summary := alertApplySummary{AppliedAt: at.Format(time.RFC3339), Results: results}
			store := backupStore(sess, *backupDir)
			path, err := store.SaveAppliedAlerts(summary, at)
			if err != nil {
				return fmt.Errorf("save applied-alerts record: %w", err)
			}
			sess.log.WithField("path", path).Info("saved applied-alerts record")

			if err := sess.emit(summary); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d alert actions failed", failed, len(actions))
			}
			return nil
		},
	}
}
