package product

import (
	"encoding/json"
	"net/url"
	"strings"
)

// ResolveImage returns the first usable image URL in a raw "images" value,
// or "" when none can be resolved. The value may be a JSON encoded array
// inside a string, a bare array, a single URL string, or an array of
// {"src": url} objects as produced by the crawler.
func ResolveImage(raw json.RawMessage) (resolved string) {
	defer func() {
		if recover() != nil {
			resolved = ""
		}
	}()

	if len(raw) == 0 || isNull(raw) {
		return ""
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return resolveEncoded(v)
	case []any:
		return first(v)
	default:
		return ""
	}
}

// resolveEncoded handles a string that is usually a JSON encoded array.
func resolveEncoded(s string) string {
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		if looksLikeURL(s) {
			return strings.TrimSpace(s)
		}
		return ""
	}

	switch v := decoded.(type) {
	case []any:
		return first(v)
	case string:
		if looksLikeURL(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func first(items []any) string {
	if len(items) == 0 {
		return ""
	}

	switch v := items[0].(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if src, ok := v["src"].(string); ok {
			return strings.TrimSpace(src)
		}
	}
	return ""
}

func looksLikeURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
