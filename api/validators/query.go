package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
)

// ParseQueryBool reads key as a boolean flag; a missing value yields defaultVal.
func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// QueryValues returns every value for key, repeated or comma separated, trimmed and non-empty.
func QueryValues(r *http.Request, key string) []string {
	out := []string{}
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
