package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	order "github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/store"
)

func TestStore_OrderLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	o := &order.Order{ID: "o1", VendorID: "v1", CustomerID: "c1", Status: order.StatusPending}
	items := []order.Item{{ID: "i1", OrderID: "o1", Quantity: 1, UnitPrice: 5, TotalPrice: 5}}
	require.NoError(t, s.InsertOrder(ctx, o, items))
	assert.Error(t, s.InsertOrder(ctx, o, nil), "duplicate order id")

	ready := order.StatusReady
	got, err := s.ListOrdersByVendor(ctx, "v1", &ready)
	require.NoError(t, err)
	assert.Empty(t, got)

	now := time.Now()
	require.NoError(t, s.PatchOrderStatus(ctx, "o1", order.StatusReady, now))
	got, err = s.ListOrdersByVendor(ctx, "v1", &ready)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].UpdatedAt.Equal(now))

	assert.ErrorIs(t, s.PatchOrderStatus(ctx, "missing", order.StatusReady, now), store.ErrNoDocument)

	its, err := s.ListItemsByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, its, 1)
}

func TestStore_InsertOrder_DuplicateItemInBatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	o := &order.Order{ID: "o1", VendorID: "v1", Status: order.StatusPending}
	items := []order.Item{
		{ID: "i1", OrderID: "o1", Quantity: 1, UnitPrice: 5, TotalPrice: 5},
		{ID: "i1", OrderID: "o1", Quantity: 2, UnitPrice: 5, TotalPrice: 10},
	}
	assert.Error(t, s.InsertOrder(ctx, o, items))

	_, err := s.GetOrder(ctx, "o1")
	assert.ErrorIs(t, err, store.ErrNoDocument)
	got, err := s.ListItemsByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.InsertOrder(ctx, &order.Order{ID: "o1", Status: order.StatusPending}, nil))

	o, err := s.GetOrder(ctx, "o1")
	require.NoError(t, err)
	o.Status = order.StatusCancelled

	again, err := s.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, again.Status)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.InsertOrder(ctx, &order.Order{ID: "o1"}, nil))
	require.NoError(t, s.Reset(ctx))
	_, err := s.GetOrder(ctx, "o1")
	assert.ErrorIs(t, err, store.ErrNoDocument)
}
