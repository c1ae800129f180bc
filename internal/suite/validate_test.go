package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePurchase(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		fields []string
		types  []string
	}{
		{
			name:   "complete purchase",
			params: map[string]string{"ingredient": "Flour", "quantity": "25", "unitPrice": "1.80"},
		},
		{
			name:   "missing ingredient",
			params: map[string]string{"quantity": "10", "unitPrice": "2.00"},
			fields: []string{"ingredient"},
			types:  []string{"missing"},
		},
		{
			name:   "whitespace ingredient counts as missing",
			params: map[string]string{"ingredient": "   ", "quantity": "10", "unitPrice": "2.00"},
			fields: []string{"ingredient"},
			types:  []string{"missing"},
		},
		{
			name:   "non-numeric quantity",
			params: map[string]string{"ingredient": "Sugar", "quantity": "abc", "unitPrice": "2.00"},
			fields: []string{"quantity"},
			types:  []string{"invalid"},
		},
		{
			name:   "negative unit price",
			params: map[string]string{"ingredient": "Sugar", "quantity": "5", "unitPrice": "-1"},
			fields: []string{"unitPrice"},
			types:  []string{"out-of-range"},
		},
		{
			name:   "every violation reported",
			params: map[string]string{},
			fields: []string{"ingredient", "quantity", "unitPrice"},
			types:  []string{"missing", "missing", "missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validatePurchase(tt.params)
			require.Len(t, errs, len(tt.fields))
			for i, e := range errs {
				assert.Equal(t, tt.fields[i], e.Field)
				assert.Equal(t, tt.types[i], e.Type)
			}
		})
	}
}

func TestValidateSale(t *testing.T) {
	assert.Empty(t, validateSale(map[string]string{"item": "Croissant", "quantity": "2"}))

	errs := validateSale(map[string]string{"item": "Bagel", "quantity": "0"})
	require.Len(t, errs, 1)
	assert.Equal(t, "quantity", errs[0].Field)
	assert.Equal(t, "out-of-range", errs[0].Type)
}

func TestHighlightedFields(t *testing.T) {
	errs := []ValidationError{
		{Field: "quantity", Type: "missing"},
		{Field: "quantity", Type: "invalid"},
		{Field: "unitPrice", Type: "missing"},
	}

	assert.Equal(t, []string{"quantity", "unitPrice"}, highlightedFields(errs))
	assert.Empty(t, highlightedFields(nil))
}
