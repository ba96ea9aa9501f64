package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("SHIPPED")
	assert.Error(t, err)
	_, err = ParseStatus("pending")
	assert.Error(t, err, "statuses are case-sensitive")
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusDelivering.Terminal())
	assert.Len(t, Statuses, 7)
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want error
	}{
		{"ok", Item{Quantity: 3, UnitPrice: 15000, TotalPrice: 45000}, nil},
		{"zero quantity", Item{Quantity: 0, UnitPrice: 15000, TotalPrice: 0}, ErrNonPositiveQuantity},
		{"wrong total", Item{Quantity: 2, UnitPrice: 15000, TotalPrice: 31000}, ErrItemTotalMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.item.Validate(), tt.want)
		})
	}
}

func TestValidateNew(t *testing.T) {
	o := Order{ID: "o1", VendorID: "v1", Status: StatusPending, Subtotal: 50000, DeliveryFee: 15000, Total: 65000}
	items := []Item{
		{ID: "i1", OrderID: "o1", VendorID: "v1", Quantity: 2, UnitPrice: 10000, TotalPrice: 20000},
		{ID: "i2", OrderID: "o1", VendorID: "v1", Quantity: 1, UnitPrice: 30000, TotalPrice: 30000},
	}
	require.NoError(t, ValidateNew(o, items))

	assert.ErrorIs(t, ValidateNew(o, nil), ErrNoItems)

	bad := o
	bad.Total = 60000
	assert.ErrorIs(t, ValidateNew(bad, items), ErrOrderTotalMismatch)

	foreign := append([]Item{}, items...)
	foreign[1].VendorID = "v2"
	assert.Error(t, ValidateNew(o, foreign))

	confirmed := o
	confirmed.Status = StatusConfirmed
	assert.Error(t, ValidateNew(confirmed, items))
}
