package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
)

const CartSessionHeader = "X-Cart-Session"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// CartSession resolves the caller's cart session from the X-Cart-Session header or the
// session cookie, minting a new one when neither carries a usable id. The id is echoed
// back in both places.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	cookieName := cfg.SessionCookie()
	maxAge := int(cfg.IdleTTL.Seconds())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if sessionID == "" {
				if cookie, err := r.Cookie(cookieName); err == nil {
					sessionID = strings.TrimSpace(cookie.Value)
				}
			}
			if !sessionIDPattern.MatchString(sessionID) {
				sessionID = uuid.NewString()
			}

			w.Header().Set(CartSessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   maxAge,
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
