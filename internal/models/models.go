// Package models defines typed records for the PowerTrack API resources
// and the parsing that turns the platform's loosely-typed JSON into them.
//
// The upstream schema is only partially documented and inconsistent
// between endpoints (some are camelCase, some snake_case, numeric fields
// may arrive as the literal string "NaN"). Every record therefore keeps
// undocumented fields in a raw passthrough bag instead of dropping them,
// and loose numerics use the Metric type, which distinguishes a value, an
// explicit null, the "NaN" sentinel, and an absent field.
//
// Records are value objects: once parsed they are not mutated, and
// serializing a parsed record is deterministic, so a
// serialize/parse/serialize cycle is byte-stable.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// RawData is the passthrough bag for upstream fields the typed records do
// not model. Fragments are kept verbatim; map keys serialize sorted, so
// output stays deterministic.
type RawData map[string]json.RawMessage

// ParseError reports a response whose shape violates expectations. Type
// names the record being parsed and Field the offending field when known.
type ParseError struct {
	Type  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s: field %q: %v", e.Type, e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Type, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseInto decodes data into dst, converting type mismatches into a
// ParseError that names the offending field.
func parseInto(typ string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return wrapParseError(typ, err)
	}
	return nil
}

func wrapParseError(typ string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ParseError{Type: typ, Field: typeErr.Field, Err: err}
	}
	return &ParseError{Type: typ, Err: err}
}

func isNullFragment(frag json.RawMessage) bool {
	return len(frag) == 0 || string(frag) == "null"
}

// field decodes raw[key] into dst, tolerating absent and null fragments.
// Mismatched fragments produce a ParseError naming the field.
func field(raw RawData, typ, key string, dst any) error {
	frag, ok := raw[key]
	if !ok || isNullFragment(frag) {
		return nil
	}
	if err := json.Unmarshal(frag, dst); err != nil {
		return &ParseError{Type: typ, Field: key, Err: err}
	}
	return nil
}

// fieldLoose decodes raw[key] into dst without the null short-circuit, for
// destinations like Metric and Nullable that model null themselves.
func fieldLoose(raw RawData, typ, key string, dst json.Unmarshaler) error {
	frag, ok := raw[key]
	if !ok {
		return nil
	}
	if err := dst.UnmarshalJSON(frag); err != nil {
		return &ParseError{Type: typ, Field: key, Err: err}
	}
	return nil
}

// splitKnown unmarshals data into dst and returns the fragments of any
// fields dst does not model, keyed by their wire names.
func splitKnown(typ string, data []byte, dst any) (RawData, error) {
	if err := parseInto(typ, data, dst); err != nil {
		return nil, err
	}
	var all RawData
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, wrapParseError(typ, err)
	}
	for _, name := range jsonFieldNames(dst) {
		delete(all, name)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtra marshals known and overlays the extra fragments on top,
// producing deterministic sorted-key output when extras exist.
func mergeExtra(known any, extra RawData) ([]byte, error) {
	base, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	merged := make(RawData, len(extra)+16)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func jsonFieldNames(v any) []string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}
