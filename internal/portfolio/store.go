// Package portfolio persists fetched PowerTrack records as JSON files
// under one root directory.
//
// Layout:
//
//	SiteList.json                                site list + fetch metadata
//	configs/{siteID}.json                        fetched site configuration
//	site_data/{siteID}.json                      aggregated site snapshot
//	config_backups/{siteID}_{ts}.json            remote state before an applied update
//	config_backups/{siteID}_{ts}_response.json   platform response after it
//	alert_backups/applied_alerts_{ts}.json       summary of applied alert actions
//
// Timestamps in file names are UTC, second resolution. Writes are
// atomic: content goes to a temp file in the target directory and is
// renamed over the destination, so a crash never leaves a truncated
// JSON file behind. Existing backups are never overwritten or pruned.
package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/powertrack-tools/powertrack/internal/models"
)

const backupTimeLayout = "20060102T150405Z"

// Store reads and writes the portfolio directory. Callers pass
// normalized identifiers; the store does not validate them.
type Store struct {
	root string
	log  *logrus.Logger
}

// NewStore returns a store rooted at dir. The directory tree is
// created lazily on first write.
func NewStore(dir string, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{root: dir, log: log}
}

// Root returns the store's base directory.
func (s *Store) Root() string { return s.root }

// SiteListPath is where the site list snapshot lives.
func (s *Store) SiteListPath() string {
	return filepath.Join(s.root, "SiteList.json")
}

// SaveSiteList writes the site list snapshot and returns its path.
func (s *Store) SaveSiteList(list models.SiteList) (string, error) {
	path := s.SiteListPath()
	if err := s.writeJSON(path, list); err != nil {
		return "", err
	}
	return path, nil
}

// LoadSiteList reads the site list snapshot. A missing file is an
// empty portfolio, not an error.
func (s *Store) LoadSiteList() (models.SiteList, error) {
	data, err := os.ReadFile(s.SiteListPath())
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
	return list, nil
}

// SaveSiteConfig writes configs/{siteID}.json and returns its path.
func (s *Store) SaveSiteConfig(siteID string, config *models.SiteConfig) (string, error) {
	path := filepath.Join(s.root, "configs", siteID+".json")
	if err := s.writeJSON(path, config); err != nil {
		return "", err
	}
	return path, nil
}

// SaveSiteData writes site_data/{siteID}.json and returns its path.
func (s *Store) SaveSiteData(siteID string, data *models.SiteData) (string, error) {
	path := filepath.Join(s.root, "site_data", siteID+".json")
	if err := s.writeJSON(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// BackupConfig snapshots the current remote document before an update
// is applied. Backups are keyed by site id and UTC timestamp.
func (s *Store) BackupConfig(siteID string, doc any, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s.json", siteID, at.UTC().Format(backupTimeLayout))
	path := filepath.Join(s.root, "config_backups", name)
	if err := s.writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// BackupResponse snapshots the platform's response to an applied
// update, next to the matching BackupConfig file.
func (s *Store) BackupResponse(siteID string, doc any, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s_response.json", siteID, at.UTC().Format(backupTimeLayout))
	path := filepath.Join(s.root, "config_backups", name)
	if err := s.writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// SaveAppliedAlerts records the outcome of an apply-alert-updates run.
func (s *Store) SaveAppliedAlerts(doc any, at time.Time) (string, error) {
	name := fmt.Sprintf("applied_alerts_%s.json", at.UTC().Format(backupTimeLayout))
	path := filepath.Join(s.root, "alert_backups", name)
	if err := s.writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// writeJSON marshals doc with two-space indentation and a trailing
// newline, then moves it into place atomically.
func (s *Store) writeJSON(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	s.log.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("wrote portfolio file")
	return nil
}
