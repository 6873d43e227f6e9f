package catalog

import (
	catalogsvc "github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/search"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

type ServicesResponse struct {
	Query      string           `json:"query"`
	Categories []enums.Category `json:"categories"`
	Groups     []search.Group   `json:"groups"`
	Total      int              `json:"total"`
}

func newServicesResponse(term string, categories []enums.Category, result search.Result) ServicesResponse {
	if categories == nil {
		categories = []enums.Category{}
	}
	groups := result.Groups
	if groups == nil {
		groups = []search.Group{}
	}
	return ServicesResponse{
		Query:      term,
		Categories: categories,
		Groups:     groups,
		Total:      result.Total,
	}
}

// ServiceResponse is one catalog entry as seen by a session.
type ServiceResponse struct {
	catalogsvc.Service
	InCart bool `json:"in_cart"`
}
