package models

import "encoding/json"

// ReportingCapabilities is the caller's report-management permission
// set from /api/reporting.
type ReportingCapabilities struct {
	CanEditAutoReport   bool              `json:"can_edit_auto_report"`
	CanAddEmailReport   bool              `json:"can_add_email_report"`
	CanAddSummaryReport bool              `json:"can_add_summary_report"`
	CanAddAutoReport    bool              `json:"can_add_auto_report"`
	CanAddUserReport    bool              `json:"can_add_user_report"`
	Views               []json.RawMessage `json:"views"`
}

// HasReportingAccess reports whether any reporting capability is
// granted.
func (r *ReportingCapabilities) HasReportingAccess() bool {
	return r.CanEditAutoReport ||
		r.CanAddEmailReport ||
		r.CanAddSummaryReport ||
		r.CanAddAutoReport ||
		r.CanAddUserReport
}

// ParseReportingCapabilities decodes the /api/reporting payload. Views
// is never nil after parse.
func ParseReportingCapabilities(data []byte) (*ReportingCapabilities, error) {
	const typ = "ReportingCapabilities"
	var raw RawData
	if err := parseInto(typ, data, &raw); err != nil {
		return nil, err
	}
	caps := &ReportingCapabilities{Views: []json.RawMessage{}}
	for key, dst := range map[string]*bool{
		"canEditAutoReport":   &caps.CanEditAutoReport,
		"canAddEmailReport":   &caps.CanAddEmailReport,
		"canAddSummaryReport": &caps.CanAddSummaryReport,
		"canAddAutoReport":    &caps.CanAddAutoReport,
		"canAddUserReport":    &caps.CanAddUserReport,
	} {
		if err := field(raw, typ, key, dst); err != nil {
			return nil, err
		}
	}
	if err := field(raw, typ, "views", &caps.Views); err != nil {
		return nil, err
	}
	return caps, nil
}
