package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/responses"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
)

type counterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// RateLimitPolicy caps quote submissions per client IP and per contact email inside a
// fixed window. A zero limit disables that dimension.
type RateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) RateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "quotes"
	}
	return RateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

// dimension is one counter a submission is charged against. key returns "" when the
// request carries nothing to count by.
type dimension struct {
	name  string
	limit int
	key   func(r *http.Request, body []byte) string
}

func (p RateLimitPolicy) dimensions() []dimension {
	var dims []dimension
	if p.ipLimit > 0 {
		dims = append(dims, dimension{name: "ip", limit: p.ipLimit, key: func(r *http.Request, _ []byte) string {
			return clientIP(r)
		}})
	}
	if p.emailLimit > 0 {
		dims = append(dims, dimension{name: "email", limit: p.emailLimit, key: func(_ *http.Request, body []byte) string {
			if email := contactEmail(body); email != "" {
				return hashValue(email)
			}
			return ""
		}})
	}
	return dims
}

// rateLimitBodyCap bounds how much of the body is buffered to find the email.
const rateLimitBodyCap = 64 << 10

// SubmissionRateLimit charges each quote submission against the policy's counters
// and answers 429 once any of them is over its limit.
func SubmissionRateLimit(policy RateLimitPolicy, store counterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	dims := policy.dimensions()
	return func(next http.Handler) http.Handler {
		if store == nil || policy.window <= 0 || len(dims) == 0 {
			return next
		}
		needsBody := policy.emailLimit > 0

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if needsBody && r.Body != nil {
				buf, err := io.ReadAll(io.LimitReader(r.Body, rateLimitBodyCap))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				body = buf
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(buf), r.Body))
			}

			for _, dim := range dims {
				id := dim.key(r, body)
				if id == "" {
					continue
				}
				count, err := store.IncrWithTTL(ctx, store.RateLimitKey(dim.name+":"+policy.name+":"+id), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > int64(dim.limit) {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"dimension": dim.name,
						"policy":    policy.name,
						"attempts":  count,
						"limit":     dim.limit,
						"key":       id,
					}), "rate_limit.blocked")
					w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many quote requests, please try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func clientIP(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func contactEmail(body []byte) string {
	var form struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &form) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(form.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
