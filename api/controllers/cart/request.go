package cart

// AddItemRequest adds one service to the session cart. Quantity defaults to 1.
type AddItemRequest struct {
	ServiceCode string         `json:"service_code" validate:"required"`
	Quantity    *int           `json:"quantity,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

func (r AddItemRequest) quantity() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// UpdateItemRequest changes the quantity and details of a line item. A missing
// quantity or details keeps the current value; "details": {} clears the answers.
type UpdateItemRequest struct {
	Quantity *int           `json:"quantity,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}
