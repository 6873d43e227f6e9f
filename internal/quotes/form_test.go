package quotes

import (
	"testing"
)

func TestContactFormValidate(t *testing.T) {
	valid := ContactForm{FullName: "Ana García", Email: "ana@example.com", ClientType: "autonomo"}
	if problems := valid.Validate(); problems != nil {
		t.Fatalf("expected valid form, got %v", problems)
	}

	cases := []struct {
		name  string
		form  ContactForm
		field string
		want  string
	}{
		{"single word name", ContactForm{FullName: "  Ana  ", Email: "ana@example.com", ClientType: "pyme"}, "full_name", "must include first and last name"},
		{"missing name", ContactForm{Email: "ana@example.com", ClientType: "pyme"}, "full_name", "is required"},
		{"missing email", ContactForm{FullName: "Ana García", ClientType: "pyme"}, "email", "is required"},
		{"bad email", ContactForm{FullName: "Ana García", Email: "ana@example", ClientType: "pyme"}, "email", "must be a valid email"},
		{"email with space", ContactForm{FullName: "Ana García", Email: "ana @example.com", ClientType: "pyme"}, "email", "must be a valid email"},
		{"missing client type", ContactForm{FullName: "Ana García", Email: "ana@example.com"}, "client_type", "is required"},
		{"unknown client type", ContactForm{FullName: "Ana García", Email: "ana@example.com", ClientType: "empresa"}, "client_type", "must be autonomo or pyme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problems := tc.form.Validate()
			if got := problems[tc.field]; got != tc.want {
				t.Fatalf("expected %s=%q, got %v", tc.field, tc.want, problems)
			}
		})
	}
}

func TestContactFormValidateCollectsAllFields(t *testing.T) {
	problems := ContactForm{}.Validate()
	for _, field := range []string{"full_name", "email", "client_type"} {
		if _, ok := problems[field]; !ok {
			t.Fatalf("expected problem for %s, got %v", field, problems)
		}
	}
	if _, ok := problems["notes"]; ok {
		t.Fatal("notes are optional")
	}
}

func TestIsFullNameAndIsEmail(t *testing.T) {
	if !IsFullName("María José  Pérez") {
		t.Fatal("expected multi word name to pass")
	}
	if IsFullName("\tMaría\n") {
		t.Fatal("expected single token to fail")
	}
	if !IsEmail("a@b.co") || IsEmail("a@b") || IsEmail("@b.co") {
		t.Fatal("unexpected email verdicts")
	}
}
