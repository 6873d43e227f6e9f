package cart

import (
	"time"

	cartsvc "github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

type CartItem struct {
	ID            string         `json:"id"`
	ServiceCode   string         `json:"service_code"`
	ServiceName   string         `json:"service_name"`
	Category      enums.Category `json:"category"`
	CategoryLabel string         `json:"category_label"`
	PriceNote     string         `json:"price_note,omitempty"`
	Quantity      int            `json:"quantity"`
	Details       map[string]any `json:"details"`
	AddedAt       time.Time      `json:"added_at"`
}

type CartResponse struct {
	Items         []CartItem `json:"items"`
	IsOpen        bool       `json:"is_open"`
	Count         int        `json:"count"`
	TotalQuantity int        `json:"total_quantity"`
}

type AddItemResponse struct {
	Item CartItem     `json:"item"`
	Cart CartResponse `json:"cart"`
}

func newCartItem(item cartsvc.Item) CartItem {
	details := item.Details
	if details == nil {
		details = map[string]any{}
	}
	return CartItem{
		ID:            item.ID,
		ServiceCode:   item.Service.Code,
		ServiceName:   item.Service.Name,
		Category:      item.Service.Category,
		CategoryLabel: item.Service.Category.Label(),
		PriceNote:     item.Service.PriceNote,
		Quantity:      item.Quantity,
		Details:       details,
		AddedAt:       item.AddedAt,
	}
}

func newCartResponse(snap cartsvc.Snapshot) CartResponse {
	items := make([]CartItem, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, newCartItem(item))
	}
	return CartResponse{
		Items:         items,
		IsOpen:        snap.IsOpen,
		Count:         snap.Count,
		TotalQuantity: snap.TotalQuantity,
	}
}
