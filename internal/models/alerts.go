package models

import (
	"encoding/json"
	"sort"
)

// Severity at or above which an alert counts as critical.
const severityCritical = 4

var severityLevels = map[int64]string{
	0: "info",
	1: "low",
	2: "medium",
	3: "high",
	4: "critical",
	5: "emergency",
}

// AlertTrigger is the alert configuration document for one device.
// Individual trigger definitions are driver-specific and kept raw.
type AlertTrigger struct {
	Key                string            `json:"key"`
	ParentKey          string            `json:"parent_key"`
	AssetCode          Nullable[string]  `json:"asset_code"`
	CalculatedCapacity Metric            `json:"calculated_capacity"`
	Capacity           Metric            `json:"capacity"`
	LastChanged        Nullable[string]  `json:"last_changed"`
	IsActive           bool              `json:"is_active"`
	CheckNoSnow        bool              `json:"check_no_snow"`
	SunMinElevation    Metric            `json:"sun_min_elevation"`
	DelayHoursTrigger  Metric            `json:"delay_hours_trigger"`
	DelayHoursResolve  Metric            `json:"delay_hours_resolve"`
	CheckSun           bool              `json:"check_sun"`
	HasImpact          bool              `json:"has_impact"`
	Impact             int64             `json:"impact"`
	Triggers           []json.RawMessage `json:"triggers"`
	DefaultTriggers    []json.RawMessage `json:"default_triggers"`
}

// ActiveTriggers returns the trigger definitions whose isActive flag is
// set. Malformed entries are skipped.
func (t *AlertTrigger) ActiveTriggers() []json.RawMessage {
	out := make([]json.RawMessage, 0, len(t.Triggers))
	for _, frag := range t.Triggers {
		var probe struct {
			IsActive bool `json:"isActive"`
		}
		if err := json.Unmarshal(frag, &probe); err != nil {
			continue
		}
		if probe.IsActive {
			out = append(out, frag)
		}
	}
	return out
}

// ParseAlertTrigger decodes the /api/alerttrigger document for one
// device. Triggers and DefaultTriggers are never nil after parse.
func ParseAlertTrigger(hardwareKey string, data []byte) (*AlertTrigger, error) {
	const typ = "AlertTrigger"
	var raw RawData
	if err := parseInto(typ, data, &raw); err != nil {
		return nil, err
	}
	trigger := &AlertTrigger{
		Key:             hardwareKey,
		Triggers:        []json.RawMessage{},
		DefaultTriggers: []json.RawMessage{},
	}
	if err := field(raw, typ, "parentKey", &trigger.ParentKey); err != nil {
		return nil, err
	}
	for key, dst := range map[string]json.Unmarshaler{
		"assetCode":          &trigger.AssetCode,
		"calculatedCapacity": &trigger.CalculatedCapacity,
		"capacity":           &trigger.Capacity,
		"lastChanged":        &trigger.LastChanged,
		"sunMinElevation":    &trigger.SunMinElevation,
		"delayHoursTrigger":  &trigger.DelayHoursTrigger,
		"delayHoursResolve":  &trigger.DelayHoursResolve,
	} {
		if err := fieldLoose(raw, typ, key, dst); err != nil {
			return nil, err
		}
	}
	for key, dst := range map[string]*bool{
		"isActive":    &trigger.IsActive,
		"checkNoSnow": &trigger.CheckNoSnow,
		"checkSun":    &trigger.CheckSun,
		"hasImpact":   &trigger.HasImpact,
	} {
		if err := field(raw, typ, key, dst); err != nil {
			return nil, err
		}
	}
	if err := field(raw, typ, "impact", &trigger.Impact); err != nil {
		return nil, err
	}
	if err := field(raw, typ, "triggers", &trigger.Triggers); err != nil {
		return nil, err
	}
	if err := field(raw, typ, "defaultTriggers", &trigger.DefaultTriggers); err != nil {
		return nil, err
	}
	return trigger, nil
}

// AlertSummary is the active-alert rollup for one device.
type AlertSummary struct {
	HardwareKey string `json:"hardware_key"`
	MaxSeverity int64  `json:"max_severity"`
	Count       int64  `json:"count"`
}

// SeverityLevel is the display name for the summary's max severity, or
// "unknown" outside the documented domain.
func (s AlertSummary) SeverityLevel() string {
	if name, ok := severityLevels[s.MaxSeverity]; ok {
		return name
	}
	return "unknown"
}

// HasCriticalAlerts reports whether the max severity reaches critical.
func (s AlertSummary) HasCriticalAlerts() bool { return s.MaxSeverity >= severityCritical }

// AlertSummaryResponse maps hardware keys to their alert rollups.
type AlertSummaryResponse struct {
	HardwareSummaries map[string]AlertSummary `json:"hardware_summaries"`
}

// ParseAlertSummary decodes the activealerts summary payload, a mapping
// from hardware key to {count, maxSeverity}. Non-object values are
// skipped.
func ParseAlertSummary(data []byte) (*AlertSummaryResponse, error) {
	const typ = "AlertSummaryResponse"
	var raw map[string]json.RawMessage
	if err := parseInto(typ, data, &raw); err != nil {
		return nil, err
	}
	summaries := make(map[string]AlertSummary, len(raw))
	for hwKey, frag := range raw {
		var entry struct {
			Count       int64 `json:"count"`
			MaxSeverity int64 `json:"maxSeverity"`
		}
		if err := json.Unmarshal(frag, &entry); err != nil {
			continue
		}
		summaries[hwKey] = AlertSummary{
			HardwareKey: hwKey,
			MaxSeverity: entry.MaxSeverity,
			Count:       entry.Count,
		}
	}
	return &AlertSummaryResponse{HardwareSummaries: summaries}, nil
}

// TotalAlerts is the alert count summed over all hardware.
func (r *AlertSummaryResponse) TotalAlerts() int64 {
	var total int64
	for _, s := range r.HardwareSummaries {
		total += s.Count
	}
	return total
}

// HardwareWithAlerts returns the keys with at least one active alert,
// sorted for stable output.
func (r *AlertSummaryResponse) HardwareWithAlerts() []string {
	keys := make([]string, 0, len(r.HardwareSummaries))
	for key, s := range r.HardwareSummaries {
		if s.Count > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// CriticalHardware returns the keys whose max severity reaches
// critical, sorted for stable output.
func (r *AlertSummaryResponse) CriticalHardware() []string {
	keys := make([]string, 0, len(r.HardwareSummaries))
	for key, s := range r.HardwareSummaries {
		if s.HasCriticalAlerts() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
