// Package tags owns the canonical tag representation: normalized in memory,
// a JSON array of lowercase strings in the notes.tags column.
package tags

import (
	"encoding/json"
	"strings"

	"notekeeper-be/internal/pkg/apperror"

	"gorm.io/datatypes"
)

// Normalize trims, lowercases, drops blanks and deduplicates while keeping
// first-occurrence order. Nil input yields an empty list, never nil errors.
func Normalize(raw []string) []string {
	normalized := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}

// Encode normalizes and serializes a tag list for the notes.tags column.
func Encode(raw []string) (datatypes.JSON, error) {
	data, err := json.Marshal(Normalize(raw))
	if err != nil {
		return nil, apperror.NewSerialization("failed to encode tags", err)
	}
	return datatypes.JSON(data), nil
}

// Decode parses the persisted tag column. Legacy rows were written
// double-encoded (a JSON string containing a JSON array); those are unwrapped
// once before parsing. Anything else that fails to parse indicates storage
// corruption and surfaces as a serialization failure.
func Decode(raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}

	data := raw
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, apperror.NewSerialization("failed to decode tags", err)
		}
		data = []byte(inner)
	}

	var parsed []string
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, apperror.NewSerialization("failed to decode tags", err)
	}
	if parsed == nil {
		return []string{}, nil
	}
	return parsed, nil
}
