package catalog

import (
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// DetailField describes one extra input a service asks for when it is added to a cart.
type DetailField struct {
	Field       string           `json:"field"`
	Label       string           `json:"label"`
	Kind        enums.DetailKind `json:"type"`
	Required    bool             `json:"required,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
}

// Service is an immutable catalog entry.
type Service struct {
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Category    enums.Category `json:"category"`
	Description string         `json:"description,omitempty"`
	PriceNote   string         `json:"price_note,omitempty"`
	Details     []DetailField  `json:"details,omitempty"`
}

// Field returns the detail field with the given key.
func (s Service) Field(key string) (DetailField, bool) {
	for _, f := range s.Details {
		if f.Field == key {
			return f, true
		}
	}
	return DetailField{}, false
}

// Catalog is a validated, read-only list of services in declared order.
type Catalog struct {
	services []Service
	byCode   map[string]int
}

// New validates services and builds a Catalog. Callers must not mutate the slice afterwards.
func New(services []Service) (*Catalog, error) {
	if err := Validate(services); err != nil {
		return nil, err
	}
	c := &Catalog{
		services: make([]Service, len(services)),
		byCode:   make(map[string]int, len(services)),
	}
	for i, svc := range services {
		svc.Details = append([]DetailField(nil), svc.Details...)
		c.services[i] = svc
		c.byCode[svc.Code] = i
	}
	return c, nil
}

// Static returns the compiled-in catalog.
func Static() *Catalog {
	c, err := New(staticServices)
	if err != nil {
		panic("catalog: static data is invalid: " + err.Error())
	}
	return c
}

// ByCode looks up a service by its code.
func (c *Catalog) ByCode(code string) (Service, bool) {
	if c == nil {
		return Service{}, false
	}
	idx, ok := c.byCode[code]
	if !ok {
		return Service{}, false
	}
	return c.services[idx], true
}

// Services returns the services in declared order.
func (c *Catalog) Services() []Service {
	if c == nil {
		return nil
	}
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// Len returns the number of services.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.services)
}

// Categories returns the category order used for grouping.
func (c *Catalog) Categories() []enums.Category {
	return enums.Categories()
}
