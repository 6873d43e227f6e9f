package quotes

import (
	"context"
	"net/http"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/middleware"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/responses"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/validators"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/quotes"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
)

type quoteService interface {
	Submit(ctx context.Context, sessionID string, form quotes.ContactForm) (quotes.Outcome, error)
	Status(sessionID string) quotes.Status
	Draft(sessionID string) quotes.ContactForm
	Backend() string
}

// Submit sends the session cart and contact form to the quote backend.
func Submit(svc quoteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		var payload SubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := quotes.WithRequestID(r.Context(), middleware.RequestIDFromContext(r.Context()))
		outcome, err := svc.Submit(ctx, sessionID, payload.toForm())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, outcome)
	}
}

// Status reports the submission state and saved draft of the session.
func Status(svc quoteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		responses.WriteSuccess(w, StatusResponse{
			Status:  svc.Status(sessionID),
			Draft:   svc.Draft(sessionID),
			Backend: svc.Backend(),
		})
	}
}
