package cart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// ValidateDetails checks answers against the service detail schema and returns one
// message per failing field. An empty map means the details are acceptable.
func ValidateDetails(svc catalog.Service, details map[string]any) map[string]string {
	problems := map[string]string{}
	for _, field := range svc.Details {
		raw, present := details[field.Field]
		text, hasText := detailText(raw)
		if !present || !hasText {
			if field.Required {
				problems[field.Field] = fmt.Sprintf("%s is required", field.Label)
			}
			continue
		}
		if field.Kind == enums.DetailKindNumber && !isNumeric(raw, text) {
			problems[field.Field] = fmt.Sprintf("%s must be a number", field.Label)
		}
	}
	return problems
}

// CleanDetails trims string answers and drops blank ones. Keys the service does not
// declare, such as free-text comments, are kept as given.
func CleanDetails(details map[string]any) map[string]any {
	out := map[string]any{}
	for key, value := range details {
		if strings.TrimSpace(key) == "" {
			continue
		}
		if _, ok := detailText(value); !ok {
			continue
		}
		if s, isString := value.(string); isString {
			value = strings.TrimSpace(s)
		}
		out[key] = value
	}
	return out
}

func detailText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		trimmed := strings.TrimSpace(val)
		return trimmed, trimmed != ""
	default:
		return fmt.Sprint(val), true
	}
}

func isNumeric(raw any, text string) bool {
	switch raw.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	return err == nil
}
