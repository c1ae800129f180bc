package suite

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is one rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validatePurchase checks a purchase payload the way the POS form
// does, returning every violation rather than stopping at the first.
func validatePurchase(params map[string]string) []ValidationError {
	var errs []ValidationError
	errs = append(errs, requireField(params, "ingredient")...)
	errs = append(errs, requirePositiveNumber(params, "quantity")...)
	errs = append(errs, requirePositiveNumber(params, "unitPrice")...)
	return errs
}

// validateSale checks a sale payload.
func validateSale(params map[string]string) []ValidationError {
	var errs []ValidationError
	errs = append(errs, requireField(params, "item")...)
	errs = append(errs, requirePositiveNumber(params, "quantity")...)
	return errs
}

func requireField(params map[string]string, field string) []ValidationError {
	if strings.TrimSpace(params[field]) == "" {
		return []ValidationError{{Field: field, Message: "is required", Type: "missing"}}
	}
	return nil
}

func requirePositiveNumber(params map[string]string, field string) []ValidationError {
	raw := strings.TrimSpace(params[field])
	if raw == "" {
		return []ValidationError{{Field: field, Message: "is required", Type: "missing"}}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return []ValidationError{{Field: field, Message: "must be a number", Type: "invalid"}}
	}
	if value <= 0 {
		return []ValidationError{{Field: field, Message: "must be greater than zero", Type: "out-of-range"}}
	}
	return nil
}

// highlightedFields returns the distinct field names in error, for the
// form-highlighting set the dashboard renders.
func highlightedFields(errs []ValidationError) []string {
	seen := make(map[string]bool)
	var fields []string
	for _, e := range errs {
		if !seen[e.Field] {
			seen[e.Field] = true
			fields = append(fields, e.Field)
		}
	}
	return fields
}
