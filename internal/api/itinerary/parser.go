package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanJSONResponse strips markdown code fences the model tends to wrap
// JSON payloads in.
func cleanJSONResponse(txt string) string {
	s := strings.TrimSpace(txt)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func parseIndices(jsonStr string) ([]int, error) {
	var raw []any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse index JSON: %w", err)
	}
	indices := make([]int, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok || f != float64(int(f)) {
			return nil, fmt.Errorf("index %v is not an integer", v)
		}
		indices = append(indices, int(f))
	}
	return indices, nil
}

// Minutes is deliberately loose: a non-numeric value must not fail the
// whole record set, it is replaced by the default during validation.
type enrichmentRecord struct {
	Explanation string `json:"explanation"`
	Minutes     any    `json:"minutes"`
}

func parseEnrichmentRecords(jsonStr string) ([]enrichmentRecord, error) {
	var records []enrichmentRecord
	if err := json.Unmarshal([]byte(jsonStr), &records); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment JSON: %w", err)
	}
	return records, nil
}

func parseAlternativeQueries(jsonStr string) ([]string, error) {
	var raw []any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse alternative query JSON: %w", err)
	}
	queries := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			queries = append(queries, s)
		}
	}
	return queries, nil
}
