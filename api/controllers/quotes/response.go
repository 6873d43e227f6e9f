package quotes

import "github.com/JuanManuelMartinezAngel/asesfy2.0/internal/quotes"

type StatusResponse struct {
	Status  quotes.Status      `json:"status"`
	Draft   quotes.ContactForm `json:"draft"`
	Backend string             `json:"backend"`
}
