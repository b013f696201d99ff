package util

import (
	"encoding/json"
	"strings"
)

// FirstJSONObject returns the first balanced JSON object embedded in s, or ""
// when none parses. Candidates always start at the first '{'; each time brace
// nesting returns to zero the substring is tried as a JSON object. Arrays and
// scalars are not accepted.
func FirstJSONObject(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				if isJSONObject(candidate) {
					return candidate
				}
			}
		}
	}
	return ""
}

func isJSONObject(s string) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil
}
