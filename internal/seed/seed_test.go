package seed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebkasanzew/comoi/internal/access"
	order "github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/store/backend"
	"github.com/sebkasanzew/comoi/internal/store/memstore"
	"github.com/sebkasanzew/comoi/internal/user"
)

func newGenerator(s *memstore.Store) *Generator {
	g := New(backend.Memory(s), 42, nil)
	n := 0
	g.NewID = func() string { n++; return fmt.Sprintf("id%05d", n) }
	g.Now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	return g
}

func TestGenerator_Run(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	sum, err := newGenerator(s).Run(ctx, Counts{Categories: 3, Products: 12, Vendors: 4, Customers: 5, Orders: 20}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Categories)
	assert.Equal(t, 12, sum.Products)
	assert.Equal(t, 4, sum.Vendors)
	assert.Equal(t, 5, sum.Customers)
	assert.Equal(t, 4+5+1, sum.Users)
	assert.Positive(t, sum.PriceOffers)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rau-cu-qua", cats[0].Slug)

	// every generated order satisfies the line and total invariants
	vendors, _ := s.ListActiveVendors(ctx)
	for _, v := range vendors {
		orders, err := s.ListOrdersByVendor(ctx, v.ID, nil)
		require.NoError(t, err)
		for _, o := range orders {
			items, err := s.ListItemsByOrder(ctx, o.ID)
			require.NoError(t, err)
			require.NotEmpty(t, items)
			var sub int64
			for _, it := range items {
				assert.NoError(t, it.Validate())
				sub += it.TotalPrice
			}
			assert.Equal(t, o.Subtotal, sub)
			assert.Equal(t, o.Subtotal+o.DeliveryFee, o.Total)
			assert.True(t, o.Status.Valid())
		}
	}
}

func TestGenerator_UsersOwnTheirRecords(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, err := newGenerator(s).Run(ctx, Counts{Categories: 2, Products: 5, Vendors: 2, Customers: 2, Orders: 0}, false)
	require.NoError(t, err)

	guard := access.NewGuard(user.NewResolver(s, nil), s, s, nil)
	vendors, err := s.ListActiveVendors(ctx)
	require.NoError(t, err)
	for _, v := range vendors {
		owner := access.ContextWithSubject(ctx, "seed|vendor|"+v.ID)
		_, err := guard.RequireVendorAccess(owner, v.ID)
		assert.NoError(t, err)
	}

	admin := access.ContextWithSubject(ctx, AdminSubject)
	_, err = guard.RequireOrderAccess(admin, access.OrderRef{VendorID: "x", CustomerID: "y"})
	assert.NoError(t, err)
}

func TestGenerator_Reset(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	g := newGenerator(s)
	_, err := g.Run(ctx, Counts{Categories: 1, Products: 1}, false)
	require.NoError(t, err)

	_, err = newGenerator(s).Run(ctx, Counts{Categories: 1, Products: 1}, true)
	require.NoError(t, err)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestPrice_RoundsTo500(t *testing.T) {
	g := newGenerator(memstore.New())
	for range 200 {
		p := g.price(8000, 15000)
		assert.Zero(t, p%500)
		assert.GreaterOrEqual(t, p, int64(8000))
		assert.LessOrEqual(t, p, int64(15000))
	}
}

func TestSKUPrefix(t *testing.T) {
	assert.Equal(t, "DOU", skuPrefix("do-uong"))
	assert.Equal(t, "RAU", skuPrefix("rau-cu-qua"))
	assert.Equal(t, "AB", skuPrefix("a-b"))
}

func TestWeighted(t *testing.T) {
	g := newGenerator(memstore.New())
	seen := map[order.Status]bool{}
	for range 500 {
		seen[weighted(g.rng, []weight[order.Status]{{1, order.StatusPending}, {1, order.StatusReady}})] = true
	}
	assert.Len(t, seen, 2)
}
