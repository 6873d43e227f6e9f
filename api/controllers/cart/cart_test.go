package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/middleware"
	cartsvc "github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
)

type staticProvider struct{}

func (staticProvider) Get(context.Context) (*catalog.Catalog, error) {
	return catalog.Static(), nil
}

const testSession = "session-test-0001"

func newTestRouter(registry *cartsvc.Registry) http.Handler {
	return newTestRouterWithMetrics(registry, prometheus.NewRegistry())
}

func newTestRouterWithMetrics(registry *cartsvc.Registry, reg *prometheus.Registry) http.Handler {
	h := NewHandlers(registry, staticProvider{}, metrics.NewQuoteMetrics(reg), nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithSessionID(req.Context(), testSession)))
		})
	})
	r.Get("/api/v1/cart", h.Get())
	r.Delete("/api/v1/cart", h.Clear())
	r.Post("/api/v1/cart/items", h.AddItem())
	r.Patch("/api/v1/cart/items/{itemId}", h.UpdateItem())
	r.Delete("/api/v1/cart/items/{itemId}", h.RemoveItem())
	r.Post("/api/v1/cart/open", h.Open())
	r.Post("/api/v1/cart/close", h.Close())
	r.Post("/api/v1/cart/toggle", h.Toggle())
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var envelope struct {
		Data CartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error.Code
}

func TestCartGetEmpty(t *testing.T) {
	router := newTestRouter(cartsvc.NewRegistry(time.Hour))

	resp := do(t, router, http.MethodGet, "/api/v1/cart", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	got := decodeCart(t, resp)
	if got.Count != 0 || got.IsOpen || got.Items == nil {
		t.Fatalf("unexpected empty cart %+v", got)
	}
}

func TestCartAddItemDefaultsQuantityAndOpens(t *testing.T) {
	registry := cartsvc.NewRegistry(time.Hour)
	router := newTestRouter(registry)

	resp := do(t, router, http.MethodPost, "/api/v1/cart/items", `{"service_code":"aut_alta_express"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data AddItemResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Item.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", envelope.Data.Item.Quantity)
	}
	if !strings.HasPrefix(envelope.Data.Item.ID, "aut_alta_express_") {
		t.Fatalf("unexpected item id %q", envelope.Data.Item.ID)
	}
	if !envelope.Data.Cart.IsOpen || envelope.Data.Cart.Count != 1 {
		t.Fatalf("expected open cart with one item, got %+v", envelope.Data.Cart)
	}

	c, ok := registry.Get(testSession)
	if !ok || !c.IsInCart("aut_alta_express") {
		t.Fatalf("expected item stored in the session cart")
	}
}

func TestCartAddItemUnknownService(t *testing.T) {
	router := newTestRouter(cartsvc.NewRegistry(time.Hour))

	resp := do(t, router, http.MethodPost, "/api/v1/cart/items", `{"service_code":"nope"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected error code %s", code)
	}
}

func TestCartAddItemMissingRequiredDetail(t *testing.T) {
	router := newTestRouter(cartsvc.NewRegistry(time.Hour))

	resp := do(t, router, http.MethodPost, "/api/v1/cart/items", `{"service_code":"aut_baja_347","quantity":1,"details":{}}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %s", code)
	}
}

func TestCartUpdateAndRemoveItem(t *testing.T) {
	registry := cartsvc.NewRegistry(time.Hour)
	router := newTestRouter(registry)

	c := registry.GetOrCreate(testSession)
	svc, _ := catalog.Static().ByCode("aut_baja_347")
	item, err := c.AddItem(svc, 1, map[string]any{"perceptores": "10"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	resp := do(t, router, http.MethodPatch, "/api/v1/cart/items/"+item.ID, `{"quantity":3,"details":{"perceptores":"120"}}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	got := decodeCart(t, resp)
	if got.TotalQuantity != 3 || got.Items[0].Details["perceptores"] != "120" {
		t.Fatalf("unexpected cart after update %+v", got)
	}

	resp = do(t, router, http.MethodPatch, "/api/v1/cart/items/"+item.ID, `{"details":{"perceptores":"abc"}}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non numeric detail, got %d", resp.Code)
	}

	resp = do(t, router, http.MethodDelete, "/api/v1/cart/items/"+item.ID, "")
	if got := decodeCart(t, resp); got.Count != 0 {
		t.Fatalf("expected empty cart after removal, got %+v", got)
	}
}

func TestCartUpdateKeepsOmittedDetails(t *testing.T) {
	registry := cartsvc.NewRegistry(time.Hour)
	reg := prometheus.NewRegistry()
	router := newTestRouterWithMetrics(registry, reg)

	svc, _ := catalog.Static().ByCode("aut_baja_347")
	item, err := registry.GetOrCreate(testSession).AddItem(svc, 1, map[string]any{"perceptores": "10", "comentarios": "urgente"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	resp := do(t, router, http.MethodPatch, "/api/v1/cart/items/"+item.ID, `{"quantity":2}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	got := decodeCart(t, resp)
	if got.TotalQuantity != 2 || got.Items[0].Details["perceptores"] != "10" || got.Items[0].Details["comentarios"] != "urgente" {
		t.Fatalf("expected details to survive a quantity-only update, got %+v", got)
	}

	do(t, router, http.MethodPatch, "/api/v1/cart/items/missing", `{"quantity":5}`)
	if n := cartOpCount(t, reg, "update"); n != 1 {
		t.Fatalf("expected one counted update, got %v", n)
	}
}

func cartOpCount(t *testing.T, reg *prometheus.Registry, op string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "asesfy_cart_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "op" && label.GetValue() == op {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCartUnknownItemIsNoop(t *testing.T) {
	registry := cartsvc.NewRegistry(time.Hour)
	router := newTestRouter(registry)
	svc, _ := catalog.Static().ByCode("aut_alta_express")
	if _, err := registry.GetOrCreate(testSession).AddItem(svc, 2, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	resp := do(t, router, http.MethodPatch, "/api/v1/cart/items/missing", `{"quantity":5}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeCart(t, resp); got.TotalQuantity != 2 {
		t.Fatalf("expected unchanged cart, got %+v", got)
	}

	resp = do(t, router, http.MethodDelete, "/api/v1/cart/items/missing", "")
	if got := decodeCart(t, resp); got.Count != 1 {
		t.Fatalf("expected unchanged cart, got %+v", got)
	}
}

func TestCartClearKeepsVisibility(t *testing.T) {
	registry := cartsvc.NewRegistry(time.Hour)
	router := newTestRouter(registry)
	svc, _ := catalog.Static().ByCode("aut_alta_express")
	if _, err := registry.GetOrCreate(testSession).AddItem(svc, 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	got := decodeCart(t, do(t, router, http.MethodDelete, "/api/v1/cart", ""))
	if got.Count != 0 || !got.IsOpen {
		t.Fatalf("expected empty open cart, got %+v", got)
	}
}

func TestCartVisibility(t *testing.T) {
	router := newTestRouter(cartsvc.NewRegistry(time.Hour))

	if got := decodeCart(t, do(t, router, http.MethodPost, "/api/v1/cart/open", "")); !got.IsOpen {
		t.Fatalf("expected open cart")
	}
	if got := decodeCart(t, do(t, router, http.MethodPost, "/api/v1/cart/toggle", "")); got.IsOpen {
		t.Fatalf("expected toggle to close the cart")
	}
	if got := decodeCart(t, do(t, router, http.MethodPost, "/api/v1/cart/toggle", "")); !got.IsOpen {
		t.Fatalf("expected toggle to reopen the cart")
	}
	if got := decodeCart(t, do(t, router, http.MethodPost, "/api/v1/cart/close", "")); got.IsOpen {
		t.Fatalf("expected closed cart")
	}
}

func TestCartWithoutSession(t *testing.T) {
	h := NewHandlers(cartsvc.NewRegistry(time.Hour), staticProvider{}, nil, nil)
	resp := httptest.NewRecorder()
	h.Get().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
