package api

import (
	"fmt"
	"strings"
	"time"
)

// Identifier prefixes the platform uses. Bare numeric ids are accepted
// everywhere and normalized by adding the prefix.
const (
	sitePrefix     = 'S'
	hardwarePrefix = 'H'
	customerPrefix = 'C'
)

// NormalizeSiteID validates a site id and returns its canonical form,
// "S" followed by digits. "60308" becomes "S60308", "s60308" is
// uppercased.
func NormalizeSiteID(id string) (string, error) {
	return normalizeID("site_id", sitePrefix, id)
}

// NormalizeHardwareID validates a hardware id ("H" followed by digits).
func NormalizeHardwareID(id string) (string, error) {
	return normalizeID("hardware_id", hardwarePrefix, id)
}

// NormalizeCustomerID validates a customer id ("C" followed by digits).
func NormalizeCustomerID(id string) (string, error) {
	return normalizeID("customer_id", customerPrefix, id)
}

func normalizeID(param string, prefix byte, id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", &ValidationError{Param: param, Value: id, Message: "identifier is empty"}
	}
	digits := trimmed
	if c := trimmed[0]; c == prefix || c == prefix+('a'-'A') {
		digits = trimmed[1:]
	}
	if digits == "" {
		return "", &ValidationError{Param: param, Value: id, Message: "identifier has no digits"}
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", &ValidationError{
				Param:   param,
				Value:   id,
				Message: fmt.Sprintf("want %q followed by digits", string(prefix)),
			}
		}
	}
	return string(prefix) + digits, nil
}

// validateSpan checks that a chart span is two RFC 3339 timestamps in
// order. Both empty means "no span", which the chart endpoint accepts
// and treats as its default window.
func validateSpan(spanFrom, spanTo string) error {
	if spanFrom == "" && spanTo == "" {
		return nil
	}
	if spanFrom == "" {
		return &ValidationError{Param: "spanFrom", Value: spanFrom, Message: "span needs both ends or neither"}
	}
	if spanTo == "" {
		return &ValidationError{Param: "spanTo", Value: spanTo, Message: "span needs both ends or neither"}
	}
	from, err := time.Parse(time.RFC3339, spanFrom)
	if err != nil {
		return &ValidationError{Param: "spanFrom", Value: spanFrom, Message: "not an RFC 3339 timestamp"}
	}
	to, err := time.Parse(time.RFC3339, spanTo)
	if err != nil {
		return &ValidationError{Param: "spanTo", Value: spanTo, Message: "not an RFC 3339 timestamp"}
	}
	if !from.Before(to) {
		return &ValidationError{Param: "spanFrom", Value: spanFrom, Message: "span start must precede span end"}
	}
	return nil
}

// pvsystTarget picks the id a PVSyst module listing is scoped to. The
// hardware id wins when both are set; one of the two is required.
func pvsystTarget(hardwareID, siteID string) (string, error) {
	switch {
	case hardwareID != "":
		return NormalizeHardwareID(hardwareID)
	case siteID != "":
		return NormalizeSiteID(siteID)
	}
	return "", &ValidationError{
		Param:   "hardware_id",
		Value:   "",
		Message: "either hardware_id or site_id is required",
	}
}

// alertSummaryTarget picks the id an alert summary request is scoped
// to. Exactly one of customerID and siteID must be set.
func alertSummaryTarget(customerID, siteID string) (string, error) {
	switch {
	case customerID != "" && siteID != "":
		return "", &ValidationError{
			Param:   "customer_id",
			Value:   customerID,
			Message: "customer_id and site_id are mutually exclusive",
		}
	case customerID != "":
		return NormalizeCustomerID(customerID)
	case siteID != "":
		return NormalizeSiteID(siteID)
	}
	return "", &ValidationError{
		Param:   "customer_id",
		Value:   "",
		Message: "either customer_id or site_id is required",
	}
}
