package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Flatten converts a JSON-serializable value into a flat map whose keys are
// the underscore-joined object paths. Array indices are appended to the
// prefix without a separator, and nulls are kept, matching the downloadable
// CSV shape the picker has always produced.
func Flatten(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	result := make(map[string]any)
	flattenInto(decoded, "", result)
	return result, nil
}

func flattenInto(value any, prefix string, out map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			childPrefix := key
			if prefix != "" {
				childPrefix = prefix + "_" + key
			}
			flattenInto(child, childPrefix, out)
		}
	case []any:
		for i, child := range v {
			flattenInto(child, prefix+strconv.Itoa(i), out)
		}
	default:
		out[prefix] = v
	}
}

// sortedKeys returns the union of keys across all rows in sorted order.
func sortedKeys(rows []map[string]any) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
