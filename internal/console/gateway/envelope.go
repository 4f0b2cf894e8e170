package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The API has shipped three wrapper shapes over time: `{data: ...}`,
// `{success: true, data: ...}` and `{records: [...], pagination: {...}}`,
// plus bare payloads from the earliest deployments. The gateway accepts
// all of them so callers only ever see decoded records.
type envelopeProbe struct {
	Data    json.RawMessage `json:"data"`
	Records json.RawMessage `json:"records"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// unwrapList normalizes a list response body to the raw JSON array of
// records, whatever wrapper the server used.
func unwrapList(raw []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("[]"), nil
	}
	if isJSONArray(raw) {
		return json.RawMessage(raw), nil
	}
	if !isJSONObject(raw) {
		return nil, fmt.Errorf("unexpected list payload shape")
	}

	var probe envelopeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decoding list envelope: %w", err)
	}

	if len(probe.Records) > 0 {
		return probe.Records, nil
	}
	if len(probe.Data) > 0 && string(probe.Data) != "null" {
		// `data` may itself hold the paginated records wrapper.
		if isJSONObject(probe.Data) {
			var inner envelopeProbe
			if err := json.Unmarshal(probe.Data, &inner); err == nil && len(inner.Records) > 0 {
				return inner.Records, nil
			}
		}
		if isJSONArray(probe.Data) {
			return probe.Data, nil
		}
		return nil, fmt.Errorf("list envelope data is not an array")
	}
	return json.RawMessage("[]"), nil
}

// unwrapOne normalizes a single-record response body to the raw JSON
// object of the record.
func unwrapOne(raw []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	if !isJSONObject(raw) {
		return nil, fmt.Errorf("unexpected record payload shape")
	}

	var probe envelopeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decoding record envelope: %w", err)
	}

	if len(probe.Data) > 0 && string(probe.Data) != "null" {
		return probe.Data, nil
	}
	if probe.Success != nil || probe.Message != "" {
		// Wrapper with no payload, e.g. `{success: true}` on delete.
		return nil, nil
	}
	return json.RawMessage(raw), nil
}
