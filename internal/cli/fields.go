package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// parseFields turns "key=value" pairs into a map. Values that are valid
// JSON (numbers, booleans, objects, quoted strings) are decoded; anything
// else is kept as a string.
func parseFields(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		out[key] = v
	}
	return out, nil
}

// mergeData decodes a JSON object and overlays key=value fields on it.
func mergeData(rawJSON string, pairs []string) (map[string]any, error) {
	data := map[string]any{}
	if strings.TrimSpace(rawJSON) != "" {
		if err := json.Unmarshal([]byte(rawJSON), &data); err != nil {
			return nil, fmt.Errorf("invalid --data-json: %w", err)
		}
	}
	fields, err := parseFields(pairs)
	if err != nil {
		return nil, err
	}
	maps.Copy(data, fields)
	return data, nil
}
