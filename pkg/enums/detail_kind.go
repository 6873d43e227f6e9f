package enums

import "fmt"

// DetailKind is the input kind of an extra field a service asks for.
type DetailKind string

const (
	DetailKindNumber   DetailKind = "number"
	DetailKindText     DetailKind = "text"
	DetailKindTextarea DetailKind = "textarea"
)

var validDetailKinds = []DetailKind{
	DetailKindNumber,
	DetailKindText,
	DetailKindTextarea,
}

// IsValid reports whether the value is a known DetailKind.
func (k DetailKind) IsValid() bool {
	for _, candidate := range validDetailKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseDetailKind converts raw input into a DetailKind.
func ParseDetailKind(value string) (DetailKind, error) {
	for _, candidate := range validDetailKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid detail kind %q", value)
}
