package acquisition

import (
	"strconv"
	"strings"
)

// FieldString normalizes a raw entity field to a string.
//
// Scraped JSON carries case numbers as either strings or numbers, and some
// sources wrap values as {"value": ...} or {"text": ...}. This handles all of
// them. Returns ok=false when the field is absent, null, or blank.
func FieldString(e RawEntity, key string) (string, bool) {
	if e == nil {
		return "", false
	}
	return extractString(e[key])
}

func extractString(val any) (string, bool) {
	if val == nil {
		return "", false
	}

	switch v := val.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case map[string]any:
		for _, key := range []string{"value", "text", "name"} {
			if inner, exists := v[key]; exists && inner != nil {
				return extractString(inner)
			}
		}
		return "", false
	default:
		return "", false
	}
}
