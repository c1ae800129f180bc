package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFifoViolation(t *testing.T) {
	tests := []struct {
		name      string
		lots      []lot
		violation bool
	}{
		{
			name: "clean FIFO depletion",
			lots: []lot{
				{Ingredient: "Flour", PurchasedAt: "2026-03-01", Quantity: 10, Remaining: 0},
				{Ingredient: "Flour", PurchasedAt: "2026-03-05", Quantity: 10, Remaining: 4},
			},
		},
		{
			name: "newer lot touched while older has stock",
			lots: []lot{
				{Ingredient: "Flour", PurchasedAt: "2026-03-01", Quantity: 10, Remaining: 3},
				{Ingredient: "Flour", PurchasedAt: "2026-03-05", Quantity: 10, Remaining: 8},
			},
			violation: true,
		},
		{
			name: "untouched newer lot is fine",
			lots: []lot{
				{Ingredient: "Flour", PurchasedAt: "2026-03-01", Quantity: 10, Remaining: 3},
				{Ingredient: "Flour", PurchasedAt: "2026-03-05", Quantity: 10, Remaining: 10},
			},
		},
		{
			name: "ingredients tracked independently",
			lots: []lot{
				{Ingredient: "Flour", PurchasedAt: "2026-03-01", Quantity: 10, Remaining: 3},
				{Ingredient: "Sugar", PurchasedAt: "2026-03-05", Quantity: 5, Remaining: 1},
			},
		},
		{
			name: "empty inventory",
			lots: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violation := fifoViolation(tt.lots)
			if tt.violation {
				assert.NotEmpty(t, violation)
			} else {
				assert.Empty(t, violation)
			}
		})
	}
}
