package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of one item in a batch operation.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult aggregates per-item results with summary counts.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray accepts an MCP argument that may be a bare string, a
// JSON array of strings, or a string containing a JSON array (some clients
// double-encode list arguments), and normalizes it to a non-empty []string.
// A string that merely starts with '[' but does not parse as a JSON string
// array is kept as a single ID.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err == nil {
				if len(arr) == 0 {
					return nil, fmt.Errorf("%s cannot be empty", paramName)
				}
				return checkElements(arr, paramName)
			}
		}
		return []string{v}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		ids := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			ids = append(ids, s)
		}
		return checkElements(ids, paramName)
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

func checkElements(ids []string, paramName string) ([]string, error) {
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
	}
	return ids, nil
}

// ProcessBatch runs fn over each ID in order, isolating failures: an error
// on one ID is recorded and the remaining IDs are still processed.
func ProcessBatch(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if msg, err := fn(id); err != nil {
			results = append(results, Result{ID: id, Status: "error", Error: err.Error()})
		} else {
			results = append(results, Result{ID: id, Status: "success", Result: msg})
		}
	}
	return results
}

// FormatResults renders results as an indented JSON report with
// total/successful/failed counts.
func FormatResults(results []Result) string {
	br := BatchResult{Total: len(results), Results: results}
	for _, r := range results {
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	out, _ := json.MarshalIndent(br, "", "  ")
	return string(out)
}
