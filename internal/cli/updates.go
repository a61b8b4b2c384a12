package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/powertrack-tools/powertrack/internal/api"
	"github.com/powertrack-tools/powertrack/internal/models"
	"github.com/powertrack-tools/powertrack/internal/portfolio"
)

// updateFlags are shared by the write commands. Without --apply they
// run dry: fetch, print what would be sent, write nothing.
type updateFlags struct {
	siteID     string
	updateFile string
	apply      bool
	backupDir  string
}

func bindUpdateFlags(fs *flag.FlagSet, u *updateFlags) {
	fs.StringVar(&u.siteID, "site-id", "", "site identifier (S… or bare digits)")
	fs.StringVar(&u.updateFile, "update-file", "", "JSON file with the fields to change")
	fs.BoolVar(&u.apply, "apply", false, "send the update (default is a dry run)")
	fs.StringVar(&u.backupDir, "backup-dir", "", "write backups here instead of the portfolio dir")
}

// readUpdateFile loads the JSON document naming the fields to change.
func readUpdateFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, errors.New("--update-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read update file: %w", err)
	}
	var updates map[string]any
	if err := json.Unmarshal(data, &updates); err != nil {
		return nil, fmt.Errorf("parse update file %s: %w", path, err)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("update file %s contains no fields", path)
	}
	return updates, nil
}

// backupStore picks where backups land: the portfolio store unless
// --backup-dir points somewhere else.
func backupStore(sess *session, dir string) *portfolio.Store {
	if dir == "" {
		return sess.store
	}
	return portfolio.NewStore(dir, sess.log)
}

// mergeDryRun is what update-site-config prints instead of calling the
// platform.
type mergeDryRun struct {
	SiteID  string         `json:"site_id"`
	Apply   bool           `json:"apply"`
	Current models.RawData `json:"current"`
	Merged  models.RawData `json:"merged"`
}

func cmdUpdateSiteConfig() command {
	return command{
		name:    "update-site-config",
		summary: "Merge fields into a site's configuration (dry run unless --apply)",
		run: func(ctx context.Context, io *streams, args []string) error {
			var common commonFlags
			var u updateFlags
			fs := newFlagSet("update-site-config", io.stderr, &common)
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

			current, err := sess.client.GetSiteConfig(ctx, u.siteID)
			if err != nil {
				return err
			}

			if !u.apply {
				merged, err := api.MergePreview(current.RawData, updates)
				if err != nil {
					return err
				}
				sess.log.Info("dry run, nothing sent (use --apply to submit)")
				return sess.emit(mergeDryRun{
					SiteID:  current.SiteID,
					Current: current.RawData,
					Merged:  merged,
				})
			}

			at := time.Now().UTC()
			store := backupStore(sess, u.backupDir)
			backupPath, err := store.BackupConfig(current.SiteID, current.RawData, at)
			if err != nil {
				return fmt.Errorf("back up current config: %w", err)
			}
			sess.log.WithField("path", backupPath).Info("backed up current config")

			result, updateErr := sess.client.UpdateSiteConfig(ctx, current.SiteID, updates)
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
