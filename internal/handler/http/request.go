package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/goccy/go-json"
)

// decodeJSON reads the request body into dst. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter. A missing parameter
// yields 0.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// queryInts parses several integer query parameters, writing a 400 naming
// the offending keys when any is malformed.
func queryInts(w http.ResponseWriter, r *http.Request, keys ...string) ([]int, bool) {
	values := make([]int, len(keys))
	details := make(map[string]string)
	for i, key := range keys {
		v, err := queryInt(r, key)
		if err != nil {
			details[key] = key + " must be an integer"
			continue
		}
		values[i] = v
	}
	if len(details) > 0 {
		response.BadRequest(w, "Invalid query parameters", details)
		return nil, false
	}
	return values, true
}
