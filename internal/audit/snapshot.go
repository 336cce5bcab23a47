package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/rpattn/reviewstore/internal/domain"
)

// encodeSnapshot serializes edit values as an ASCII-safe JSON object.
// Non-ASCII runes are escaped as \uXXXX so the snapshot survives any
// downstream tooling that mangles encodings.
func encodeSnapshot(values domain.EditValues) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return escapeNonASCII(string(data)), nil
}

// decodeSnapshot parses a serialized snapshot. An empty value decodes to
// the zero snapshot.
func decodeSnapshot(data string) (domain.EditValues, error) {
	if strings.TrimSpace(data) == "" {
		return domain.EditValues{}, nil
	}
	var values domain.EditValues
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return domain.EditValues{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return values, nil
}

func escapeNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", r1, r2)
			continue
		}
		fmt.Fprintf(&b, "\\u%04x", r)
	}
	return b.String()
}
