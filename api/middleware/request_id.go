package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/responses"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
)

const (
	requestIDHeader   = responses.RequestIDHeader
	maxRequestIDBytes = 64
)

// RequestID accepts an upstream X-Request-Id when it looks like a token a proxy
// would mint, and replaces anything else with a fresh UUID.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !validRequestID(reqID) {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := withRequestID(r.Context(), reqID)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDBytes {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
