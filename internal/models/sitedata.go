package models

import (
	"encoding/json"
	"time"
)

// SiteData aggregates everything fetched for one site. The optional
// sections are nil/empty when not requested; Errors records sections
// that were requested but failed, keyed by section name.
type SiteData struct {
	Site      Site              `json:"site"`
	Config    *SiteConfig       `json:"config"`
	Hardware  []HardwareDetails `json:"hardware"`
	Alerts    []AlertTrigger    `json:"alerts"`
	Modeling  *ModelingData     `json:"modeling"`
	Errors    map[string]string `json:"errors,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// HardwareCount is the number of devices fetched.
func (d *SiteData) HardwareCount() int { return len(d.Hardware) }

// ActiveAlertsCount sums active trigger definitions across devices.
func (d *SiteData) ActiveAlertsCount() int {
	var total int
	for i := range d.Alerts {
		total += len(d.Alerts[i].ActiveTriggers())
	}
	return total
}

// UpdateResult is the audit trail of a configuration update: the
// document before the change, the document as submitted, and what the
// platform returned.
type UpdateResult struct {
	Success      bool            `json:"success"`
	OriginalData RawData         `json:"original_data,omitempty"`
	UpdatedData  RawData         `json:"updated_data,omitempty"`
	PutResponse  json.RawMessage `json:"put_response,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}
