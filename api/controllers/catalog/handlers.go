package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/middleware"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/responses"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/validators"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	catalogsvc "github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/search"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
)

const maxSearchTermLen = 100

type catalogProvider interface {
	Get(ctx context.Context) (*catalogsvc.Catalog, error)
	Reload(ctx context.Context) (*catalogsvc.Catalog, error)
}

type cartLookup interface {
	Get(sessionID string) (*cart.Cart, bool)
}

type searchObserver interface {
	Observe(sessionID string, q search.Query)
}

// ListServices returns the catalog grouped by category, narrowed by the optional q and
// category query parameters. With allowRefresh set, refresh=true reloads the catalog
// from its source first.
func ListServices(provider catalogProvider, observer searchObserver, allowRefresh bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		refresh, err := validators.ParseQueryBool(r, "refresh", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		load := provider.Get
		if refresh && allowRefresh {
			load = provider.Reload
		}
		cat, err := load(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		term := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchTermLen)
		categories, unknown := search.ParseCategories(validators.QueryValues(r, "category"))
		if len(categories) == 0 && len(unknown) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
				WithDetails(map[string]string{"category": strings.Join(unknown, ",")}))
			return
		}
		result := search.Filter(cat, term, categories)

		if observer != nil && (term != "" || len(categories) > 0) {
			observer.Observe(middleware.SessionIDFromContext(r.Context()), search.Query{
				Term:       term,
				Categories: categories,
				Total:      result.Total,
			})
		}

		responses.WriteSuccess(w, newServicesResponse(term, categories, result))
	}
}

// GetService returns one catalog entry by code, flagged with whether the caller's
// cart already holds it.
func GetService(provider catalogProvider, carts cartLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		cat, err := provider.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc, ok := cat.ByCode(code)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "service not found").WithDetails(map[string]string{"code": code}))
			return
		}
		resp := ServiceResponse{Service: svc}
		if carts != nil {
			if c, ok := carts.Get(middleware.SessionIDFromContext(r.Context())); ok {
				resp.InCart = c.IsInCart(svc.Code)
			}
		}
		responses.WriteSuccess(w, resp)
	}
}
