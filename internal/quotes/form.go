package quotes

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactForm is the draft a visitor fills in before requesting a quote.
type ContactForm struct {
	FullName   string `json:"full_name" validate:"required,fullname"`
	Email      string `json:"email" validate:"required,quoteemail"`
	ClientType string `json:"client_type" validate:"required,clienttype"`
	Notes      string `json:"notes,omitempty"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return IsFullName(fl.Field().String())
	})
	_ = v.RegisterValidation("quoteemail", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("clienttype", func(fl validator.FieldLevel) bool {
		_, err := enums.ParseClientType(fl.Field().String())
		return err == nil
	})
	return v
}

// IsFullName reports whether name has at least two whitespace separated words.
func IsFullName(name string) bool {
	return len(strings.Fields(name)) >= 2
}

// IsEmail applies the loose address check used by the quote form.
func IsEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks the contact form and returns one message per failing field, keyed
// by the JSON field name. A nil map means the form is valid.
func (f ContactForm) Validate() map[string]string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "fullname":
		return "must include first and last name"
	case "quoteemail":
		return "must be a valid email"
	case "clienttype":
		return "must be autonomo or pyme"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "is invalid"
}
