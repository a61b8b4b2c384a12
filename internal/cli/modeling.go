package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/powertrack-tools/powertrack/internal/models"
)

func cmdGetModelingData() command {
	return command{
		name:    "get-modeling-data",
		summary: "Fetch the PV model and inverter entries for a site",
		run: func(ctx context.Context, io *streams, args []string) error {
			var siteID *string
			return runFetch(ctx, io, "get-modeling-data", args,
				func(fs *flag.FlagSet) {
					siteID = fs.String("site-id", "", "site identifier (S… or bare digits)")
				},
				func(ctx context.Context, sess *session) (any, error) {
					return sess.client.GetModelingData(ctx, *siteID)
				})
		},
	}
}

// modelingDryRun is what update-modeling prints instead of calling the
// platform. The modeling endpoint replaces the document rather than
// merging into it, so the payload is shown verbatim next to the
// current state.
type modelingDryRun struct {
	SiteID  string         `json:"site_id"`
	Apply   bool           `json:"apply"`
	Current models.RawData `json:"current"`
	Payload map[string]any `json:"payload"`
}

func cmdUpdateModeling() command {
	return command{
		name:    "update-modeling",
		summary: "Submit a site's modeling document (dry run unless --apply)",
		run: func(ctx context.Context, io *streams, args []string) error {
			var common commonFlags
			var u updateFlags
			fs := newFlagSet("update-modeling", io.stderr, &common)
			bindUpdateFlags(fs, &u)
			if err := fs.Parse(args); err != nil {
				return err
			}
			updates, err := readUpdateFile(u.updateFile)
			if err != nil {
				return err
			}
			sess, err := openSession(&common, io)
			if err != nil {
				return err
			}
			defer sess.Close()

			current, err := sess.client.GetModelingData(ctx, u.siteID)
			if err != nil {
				return err
			}

			if !u.apply {
				sess.log.Info("dry run, nothing sent (use --apply to submit)")
				return sess.emit(modelingDryRun{
					SiteID:  current.SiteID,
					Current: current.RawData,
					Payload: updates,
				})
			}

			at := time.Now().UTC()
			store := backupStore(sess, u.backupDir)
			backupPath, err := store.BackupConfig(current.SiteID, current.RawData, at)
			if err != nil {
				return fmt.Errorf("back up current modeling: %w", err)
			}
			sess.log.WithField("path", backupPath).Info("backed up current modeling")

			result, updateErr := sess.client.UpdateModelingData(ctx, current.SiteID, updates)
			if result != nil {
				respPath, err := store.BackupResponse(current.SiteID, result, at)
				if err != nil {
					sess.log.WithError(err).Warn("saving update response")
				} else {
					sess.log.WithField("path", respPath).Info("saved update response")
				}
			}
			if updateErr != nil {
				return updateErr
			}
			return sess.emit(result)
		},
	}
}
