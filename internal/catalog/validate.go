package catalog

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Validate reports every structural problem in services at once.
func Validate(services []Service) error {
	var err error
	seen := make(map[string]struct{}, len(services))
	for i, svc := range services {
		code := strings.TrimSpace(svc.Code)
		if code == "" {
			err = multierr.Append(err, fmt.Errorf("service %d: code is required", i))
		} else if _, dup := seen[code]; dup {
			err = multierr.Append(err, fmt.Errorf("service %q: duplicate code", code))
		} else {
			seen[code] = struct{}{}
		}
		if strings.TrimSpace(svc.Name) == "" {
			err = multierr.Append(err, fmt.Errorf("service %q: name is required", code))
		}
		if !svc.Category.IsValid() {
			err = multierr.Append(err, fmt.Errorf("service %q: unknown category %q", code, svc.Category))
		}
		err = multierr.Append(err, validateDetails(code, svc.Details))
	}
	return err
}

func validateDetails(code string, details []DetailField) error {
	var err error
	keys := make(map[string]struct{}, len(details))
	for _, d := range details {
		if strings.TrimSpace(d.Field) == "" {
			err = multierr.Append(err, fmt.Errorf("service %q: detail field key is required", code))
			continue
		}
		if _, dup := keys[d.Field]; dup {
			err = multierr.Append(err, fmt.Errorf("service %q: duplicate detail field %q", code, d.Field))
		}
		keys[d.Field] = struct{}{}
		if !d.Kind.IsValid() {
			err = multierr.Append(err, fmt.Errorf("service %q: detail field %q has unknown kind %q", code, d.Field, d.Kind))
		}
	}
	return err
}
