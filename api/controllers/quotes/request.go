package quotes

import "github.com/JuanManuelMartinezAngel/asesfy2.0/internal/quotes"

// SubmitRequest is the contact form posted with a quote request. Field rules are
// enforced by the quote service so drafts are kept even when invalid.
type SubmitRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	ClientType string `json:"client_type"`
	Notes      string `json:"notes,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

func (r SubmitRequest) toForm() quotes.ContactForm {
	return quotes.ContactForm{
		FullName:   r.FullName,
		Email:      r.Email,
		ClientType: r.ClientType,
		Notes:      r.Notes,
		Phone:      r.Phone,
	}
}
