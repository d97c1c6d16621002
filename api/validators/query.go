package validators

import (
	"net/http"
	"strconv"
)

// BoolQuery parses a boolean query parameter, treating a missing or
// malformed value as the fallback.
func BoolQuery(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
