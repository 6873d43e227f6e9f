package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/middleware"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/responses"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/validators"
	cartsvc "github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
)

type cartRegistry interface {
	GetOrCreate(sessionID string) *cartsvc.Cart
}

type catalogProvider interface {
	Get(ctx context.Context) (*catalog.Catalog, error)
}

// Handlers groups the cart endpoints around one registry.
type Handlers struct {
	carts   cartRegistry
	catalog catalogProvider
	metrics *metrics.QuoteMetrics
	logg    *logger.Logger
}

func NewHandlers(carts cartRegistry, provider catalogProvider, m *metrics.QuoteMetrics, logg *logger.Logger) *Handlers {
	return &Handlers{carts: carts, catalog: provider, metrics: m, logg: logg}
}

// Get returns the session cart.
func (h *Handlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c.Snapshot()))
	}
}

// AddItem appends a service to the cart and opens the cart view.
func (h *Handlers) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}

		cat, err := h.catalog.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}
		code := strings.TrimSpace(payload.ServiceCode)
		svc, ok := cat.ByCode(code)
		if !ok {
			responses.WriteError(r.Context(), h.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "service not found").WithDetails(map[string]string{"service_code": code}))
			return
		}

		item, err := c.AddItem(svc, payload.quantity(), payload.Details)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}
		h.metrics.IncCartOp("add")

		responses.WriteSuccessStatus(w, http.StatusCreated, AddItemResponse{
			Item: newCartItem(item),
			Cart: newCartResponse(c.Snapshot()),
		})
	}
}

// UpdateItem edits one line item. An unknown id leaves the cart unchanged.
func (h *Handlers) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}

		id := chi.URLParam(r, "itemId")
		_, found, err := c.UpdateItem(id, cartsvc.ItemChanges{Quantity: payload.Quantity, Details: payload.Details})
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}
		if found {
			h.metrics.IncCartOp("update")
		} else {
			h.logUnknownItem(r, id, "update")
		}

		responses.WriteSuccess(w, newCartResponse(c.Snapshot()))
	}
}

// RemoveItem deletes one line item. An unknown id leaves the cart unchanged.
func (h *Handlers) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}

		id := chi.URLParam(r, "itemId")
		if c.RemoveItem(id) {
			h.metrics.IncCartOp("remove")
		} else {
			h.logUnknownItem(r, id, "remove")
		}
		responses.WriteSuccess(w, newCartResponse(c.Snapshot()))
	}
}

// Clear empties the cart without changing its visibility.
func (h *Handlers) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}
		c.Clear()
		h.metrics.IncCartOp("clear")
		responses.WriteSuccess(w, newCartResponse(c.Snapshot()))
	}
}

// Open, Close and Toggle drive the cart view visibility flag.
func (h *Handlers) Open() http.HandlerFunc {
	return h.visibility(func(c *cartsvc.Cart) { c.Open() })
}

func (h *Handlers) Close() http.HandlerFunc {
	return h.visibility(func(c *cartsvc.Cart) { c.Close() })
}

func (h *Handlers) Toggle() http.HandlerFunc {
	return h.visibility(func(c *cartsvc.Cart) { c.Toggle() })
}

func (h *Handlers) visibility(apply func(*cartsvc.Cart)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), h.logg, w, err)
			return
		}
		apply(c)
		responses.WriteSuccess(w, newCartResponse(c.Snapshot()))
	}
}

func (h *Handlers) sessionCart(r *http.Request) (*cartsvc.Cart, error) {
	if h == nil || h.carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing")
	}
	return h.carts.GetOrCreate(sessionID), nil
}

func (h *Handlers) logUnknownItem(r *http.Request, id, op string) {
	if h.logg == nil {
		return
	}
	ctx := h.logg.WithFields(r.Context(), map[string]any{"item_id": id, "op": op})
	h.logg.Debug(ctx, "cart item not found")
}
