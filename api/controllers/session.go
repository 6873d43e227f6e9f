package controllers

import (
	"net/http"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/middleware"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/responses"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
)

type sessionEnder interface {
	EndSession(sessionID string) error
}

// EndSession drops the caller's cart and quote state and expires the session cookie.
func EndSession(svc sessionEnder, cookieName string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.EndSession(sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
		logg.Info(r.Context(), "cart session ended")
		responses.WriteSuccess(w, map[string]string{"session_id": sessionID, "status": "ended"})
	}
}
