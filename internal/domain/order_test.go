package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to paid", OrderStatusPending, OrderStatusPaid, true},
		{"paid to shipped", OrderStatusPaid, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"pending skips to shipped", OrderStatusPending, OrderStatusShipped, true},
		{"paid back to pending", OrderStatusPaid, OrderStatusPending, false},
		{"delivered back to shipped", OrderStatusDelivered, OrderStatusShipped, false},
		{"paid to paid", OrderStatusPaid, OrderStatusPaid, false},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"paid to cancelled", OrderStatusPaid, OrderStatusCancelled, true},
		{"cancelled to paid", OrderStatusCancelled, OrderStatusPaid, false},
		{"cancelled to cancelled", OrderStatusCancelled, OrderStatusCancelled, false},
		{"delivered to cancelled", OrderStatusDelivered, OrderStatusCancelled, false},
		{"unknown status", OrderStatus("refunded"), OrderStatusPaid, false},
		{"to unknown status", OrderStatusPaid, OrderStatus("refunded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}
