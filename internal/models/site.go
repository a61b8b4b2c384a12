package models

import "encoding/json"

// Site identifies a monitored installation. Name falls back to the key
// when the platform does not supply one.
type Site struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Metadata RawData `json:"metadata,omitempty"`
}

// NewSite returns a Site whose name defaults to its key.
func NewSite(key string) Site {
	return Site{Key: key, Name: key}
}

// SiteList is a collection of sites plus list-level metadata, persisted
// as portfolio/SiteList.json.
type SiteList struct {
	Sites    []Site  `json:"sites"`
	Metadata RawData `json:"metadata,omitempty"`
}

func (l *SiteList) Len() int { return len(l.Sites) }

// ByKey returns the site with the given key.
func (l *SiteList) ByKey(key string) (Site, bool) {
	for _, s := range l.Sites {
		if s.Key == key {
			return s, true
		}
	}
	return Site{}, false
}

// FilterByKeys returns a new list keeping only the named sites. Metadata
// is shared with the receiver.
func (l *SiteList) FilterByKeys(keys []string) *SiteList {
	keep := make(map[string]bool, len(keys))
	for _, k := range keys {
		keep[k] = true
	}
	filtered := &SiteList{Metadata: l.Metadata}
	for _, s := range l.Sites {
		if keep[s.Key] {
			filtered.Sites = append(filtered.Sites, s)
		}
	}
	return filtered
}

// SiteConfig is the editable site configuration. Typed fields cover the
// documented attributes; raw_data retains the complete upstream payload
// and is always present after a parse, even when every typed field is
// null.
type SiteConfig struct {
	SiteID       string           `json:"site_id"`
	Name         Nullable[string] `json:"name"`
	Timezone     Nullable[string] `json:"timezone"`
	Latitude     Metric           `json:"latitude"`
	Longitude    Metric           `json:"longitude"`
	Elevation    Metric           `json:"elevation"`
	Address      Nullable[string] `json:"address"`
	City         Nullable[string] `json:"city"`
	State        Nullable[string] `json:"state"`
	ZipCode      Nullable[string] `json:"zip_code"`
	Country      Nullable[string] `json:"country"`
	InstallDate  Nullable[string] `json:"install_date"`
	ACCapacityKW Metric           `json:"ac_capacity_kw"`
	DCCapacityKW Metric           `json:"dc_capacity_kw"`
	ModuleCount  Nullable[int64]  `json:"module_count"`
	RawData      RawData          `json:"raw_data"`
}

// ParseSiteConfig maps the /api/edit/site payload onto a SiteConfig.
func ParseSiteConfig(siteID string, data []byte) (*SiteConfig, error) {
	const typ = "SiteConfig"
	var raw RawData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, wrapParseError(typ, err)
	}
	if raw == nil {
		raw = RawData{}
	}
	cfg := &SiteConfig{SiteID: siteID, RawData: raw}
	for key, dst := range map[string]json.Unmarshaler{
		"name":         &cfg.Name,
		"timeZone":     &cfg.Timezone,
		"latitude":     &cfg.Latitude,
		"longitude":    &cfg.Longitude,
		"elevation":    &cfg.Elevation,
		"address":      &cfg.Address,
		"city":         &cfg.City,
		"state":        &cfg.State,
		"zip":          &cfg.ZipCode,
		"country":      &cfg.Country,
		"installDate":  &cfg.InstallDate,
		"acCapacityKw": &cfg.ACCapacityKW,
		"dcCapacityKw": &cfg.DCCapacityKW,
		"moduleCount":  &cfg.ModuleCount,
	} {
		if err := fieldLoose(raw, typ, key, dst); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
