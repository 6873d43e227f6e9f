package quotes

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// RequestItem snapshots one cart line at submission time.
type RequestItem struct {
	CartItemID  string         `json:"-"`
	ServiceCode string         `json:"service_code"`
	ServiceName string         `json:"service_name"`
	Category    enums.Category `json:"category"`
	Quantity    int            `json:"quantity"`
	Details     map[string]any `json:"details,omitempty"`
}

// Request is the backend independent quote request.
type Request struct {
	Reference   string
	SessionID   string
	RequestID   string
	FullName    string
	Email       string
	ClientType  enums.ClientType
	Notes       string
	Phone       string
	Items       []RequestItem
	RequestedAt time.Time
}

// NewRequest snapshots the validated form and the cart items.
func NewRequest(sessionID string, form ContactForm, items []cart.Item, now time.Time) Request {
	clientType, _ := enums.ParseClientType(form.ClientType)
	req := Request{
		Reference:   NewReference(now),
		SessionID:   sessionID,
		FullName:    strings.Join(strings.Fields(form.FullName), " "),
		Email:       strings.TrimSpace(form.Email),
		ClientType:  clientType,
		Notes:       form.Notes,
		Phone:       strings.TrimSpace(form.Phone),
		Items:       make([]RequestItem, 0, len(items)),
		RequestedAt: now.UTC(),
	}
	for _, item := range items {
		var details map[string]any
		if len(item.Details) > 0 {
			details = make(map[string]any, len(item.Details))
			for k, v := range item.Details {
				details[k] = v
			}
		}
		req.Items = append(req.Items, RequestItem{
			CartItemID:  item.ID,
			ServiceCode: item.Service.Code,
			ServiceName: item.Service.Name,
			Category:    item.Service.Category,
			Quantity:    item.Quantity,
			Details:     details,
		})
	}
	return req
}

// NewReference returns a short human readable reference such as QR-20260110-3F2A9C1B.
func NewReference(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("QR-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(id[:8]))
}

// TotalQuantity sums item quantities.
func (r Request) TotalQuantity() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}

// HasNotes reports whether the notes carry any non-blank text.
func (r Request) HasNotes() bool {
	return strings.TrimSpace(r.Notes) != ""
}

// RPCParams is the argument object of the quote submission function.
type RPCParams struct {
	Email      string    `json:"p_email"`
	FullName   string    `json:"p_full_name"`
	ClientType string    `json:"p_client_type"`
	Notes      string    `json:"p_notes,omitempty"`
	Items      []RPCItem `json:"p_items"`
}

type RPCItem struct {
	ServiceCode string         `json:"service_code"`
	ServiceName string         `json:"service_name"`
	Quantity    int            `json:"quantity"`
	Details     map[string]any `json:"details,omitempty"`
}

// RPCParams builds the function arguments. Blank notes and empty details are omitted.
func (r Request) RPCParams() RPCParams {
	params := RPCParams{
		Email:      r.Email,
		FullName:   r.FullName,
		ClientType: string(r.ClientType),
		Items:      make([]RPCItem, 0, len(r.Items)),
	}
	if r.HasNotes() {
		params.Notes = r.Notes
	}
	for _, item := range r.Items {
		params.Items = append(params.Items, RPCItem{
			ServiceCode: item.ServiceCode,
			ServiceName: item.ServiceName,
			Quantity:    item.Quantity,
			Details:     item.Details,
		})
	}
	return params
}

// OrderRow is the single-row shape written to the orders table.
type OrderRow struct {
	CustomerName   string   `json:"customer_name"`
	CustomerEmail  string   `json:"customer_email"`
	CustomerPhone  *string  `json:"customer_phone"`
	ServicesSlugs  []string `json:"services_slugs"`
	ServicesTitles []string `json:"services_titles"`
	Notes          *string  `json:"notes"`
}

// OrderRow flattens the request into the orders table shape.
func (r Request) OrderRow() OrderRow {
	row := OrderRow{
		CustomerName:   r.FullName,
		CustomerEmail:  r.Email,
		ServicesSlugs:  make([]string, 0, len(r.Items)),
		ServicesTitles: make([]string, 0, len(r.Items)),
	}
	if r.Phone != "" {
		phone := r.Phone
		row.CustomerPhone = &phone
	}
	if r.HasNotes() {
		notes := r.Notes
		row.Notes = &notes
	}
	for _, item := range r.Items {
		row.ServicesSlugs = append(row.ServicesSlugs, item.ServiceCode)
		row.ServicesTitles = append(row.ServicesTitles, item.ServiceName)
	}
	return row
}
