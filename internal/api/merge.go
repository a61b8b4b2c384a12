package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/powertrack-tools/powertrack/internal/models"
)

// mergeJSON overlays updates onto base without mutating either map.
// Nested objects merge key by key; any other value replaces the one
// underneath.
func mergeJSON(base, updates map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(updates))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range updates {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := merged[k].(map[string]any); ok {
				merged[k] = mergeJSON(cur, sub)
				continue
			}
		}
		merged[k] = v
	}
	return merged
}

// rawDataFrom round-trips a decoded document into the RawData form the
// update audit trail stores.
func rawDataFrom(doc map[string]any) (models.RawData, error) {
	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var rd models.RawData
	if err := json.Unmarshal(buf, &rd); err != nil {
		return nil, err
	}
	return rd, nil
}

// MergePreview shows what an update would submit: current with updates
// overlaid, under the same merge rules the write path uses. Dry runs
// print this instead of calling a mutating endpoint.
func MergePreview(current models.RawData, updates map[string]any) (models.RawData, error) {
	buf, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	var base map[string]any
	if err := json.Unmarshal(buf, &base); err != nil {
		return nil, err
	}
	return rawDataFrom(mergeJSON(base, updates))
}

// editFlow is the platform's read-modify-write convention: GET the
// current document, overlay the changes, PUT the whole thing back with
// the record key injected.
type editFlow struct {
	op       string
	docType  string // record name used in ParseError
	getPath  string
	putPath  string
	referer  string
	keyField string // "key" for sites, "hardwareId" for devices
	keyValue string
}

func (c *HTTPClient) runEdit(ctx context.Context, flow editFlow, updates map[string]any) (*models.UpdateResult, error) {
	body, err := c.do(ctx, requestSpec{
		op:      flow.op,
		method:  http.MethodGet,
		path:    flow.getPath,
		referer: flow.referer,
	})
	if err != nil {
		return nil, err
	}

	var current map[string]any
	if err := json.Unmarshal(body, &current); err != nil {
		return nil, &models.ParseError{Type: flow.docType, Err: err}
	}

	merged := mergeJSON(current, updates)
	merged[flow.keyField] = flow.keyValue

	original, err := rawDataFrom(current)
	if err != nil {
		return nil, &models.ParseError{Type: flow.docType, Err: err}
	}
	updated, err := rawDataFrom(merged)
	if err != nil {
		return nil, &models.ParseError{Type: flow.docType, Err: err}
	}
	result := &models.UpdateResult{OriginalData: original, UpdatedData: updated}

	respBody, err := c.do(ctx, requestSpec{
		op:      flow.op,
		method:  http.MethodPut,
		path:    flow.putPath,
		payload: merged,
		referer: flow.referer,
	})
	if err != nil {
		result.ErrorMessage = err.Error()
		return result, err
	}

	result.Success = true
	if len(respBody) > 0 {
		result.PutResponse = json.RawMessage(respBody)
	}
	return result, nil
}

// putDocument issues a write without a prior read and reports the
// payload that went out.
func (c *HTTPClient) putDocument(ctx context.Context, op, path, referer string, payload map[string]any) (*models.UpdateResult, error) {
	updated, err := rawDataFrom(payload)
	if err != nil {
		return nil, &models.ParseError{Type: "UpdateResult", Err: err}
	}
	result := &models.UpdateResult{UpdatedData: updated}

	respBody, err := c.do(ctx, requestSpec{
		op:      op,
		method:  http.MethodPut,
		path:    path,
		payload: payload,
		referer: referer,
	})
	if err != nil {
		result.ErrorMessage = err.Error()
		return result, err
	}

	result.Success = true
	if len(respBody) > 0 {
		result.PutResponse = json.RawMessage(respBody)
	}
	return result, nil
}

// arrayField pulls one named array out of a JSON object response. An
// absent or null field is an empty list; anything undecodable is a
// ParseError.
func arrayField(docType string, body []byte, field string) ([]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &models.ParseError{Type: docType, Err: err}
	}
	raw, ok := envelope[field]
	if !ok || string(raw) == "null" {
		return []json.RawMessage{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &models.ParseError{Type: docType, Field: field, Err: err}
	}
	return items, nil
}

// rawDocument decodes a whole response object into RawData.
func rawDocument(docType string, body []byte) (models.RawData, error) {
	var doc models.RawData
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &models.ParseError{Type: docType, Err: err}
	}
	if doc == nil {
		doc = models.RawData{}
	}
	return doc, nil
}
