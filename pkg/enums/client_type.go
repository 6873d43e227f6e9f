package enums

import (
	"fmt"
	"strings"
)

// ClientType identifies who is requesting a quote.
type ClientType string

const (
	ClientTypeAutonomo ClientType = "autonomo"
	ClientTypePyme     ClientType = "pyme"
)

var validClientTypes = []ClientType{
	ClientTypeAutonomo,
	ClientTypePyme,
}

// String implements fmt.Stringer.
func (c ClientType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ClientType.
func (c ClientType) IsValid() bool {
	for _, candidate := range validClientTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseClientType converts raw input into a ClientType.
func ParseClientType(value string) (ClientType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validClientTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid client type %q", value)
}
