package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebkasanzew/comoi/internal/apperr"
	"github.com/sebkasanzew/comoi/internal/catalog"
	"github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/store/memstore"
)

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.InsertCategory(ctx, &entity.Category{ID: "cat-drinks", NameVI: "Đồ uống", Slug: "do-uong", Order: 2}))
	require.NoError(t, s.InsertCategory(ctx, &entity.Category{ID: "cat-rice", NameVI: "Gạo", Slug: "gao", Order: 1}))

	require.NoError(t, s.InsertVendor(ctx, &entity.Vendor{ID: "v1", Name: "Tạp hóa Cô Ba", Phone: "091", IsActive: true, Address: entity.Address{District: "Quận 1"}}))
	require.NoError(t, s.InsertVendor(ctx, &entity.Vendor{ID: "v2", Name: "Bách hóa Bình Thạnh", Phone: "092", IsActive: true, Address: entity.Address{District: "Bình Thạnh"}}))
	require.NoError(t, s.InsertVendor(ctx, &entity.Vendor{ID: "v3", Name: "Tạp hóa đóng cửa", Phone: "093", IsActive: false}))

	require.NoError(t, s.InsertProduct(ctx, &entity.Product{ID: "p1", NameVI: "Gạo ST25", CategoryID: "cat-rice", Unit: "kg"}))
	require.NoError(t, s.InsertProduct(ctx, &entity.Product{ID: "p2", NameVI: "Nước suối", CategoryID: "cat-drinks", Unit: "chai"}))

	offers := []entity.PriceOffer{
		{ID: "o1", VendorID: "v1", ProductID: "p1", Price: 32000, StockStatus: entity.InStock, IsAvailable: true},
		{ID: "o2", VendorID: "v2", ProductID: "p1", Price: 29000, StockStatus: entity.LowStock, IsAvailable: true},
		{ID: "o3", VendorID: "v-gone", ProductID: "p1", Price: 10000, StockStatus: entity.InStock, IsAvailable: true},
		{ID: "o4", VendorID: "v1", ProductID: "p2", Price: 5000, StockStatus: entity.InStock, IsAvailable: false},
		{ID: "o5", VendorID: "v1", ProductID: "p-gone", Price: 1000, StockStatus: entity.InStock, IsAvailable: true},
	}
	for i := range offers {
		require.NoError(t, s.InsertPriceOffer(ctx, &offers[i]))
	}
	return s
}

func TestService_Vendors(t *testing.T) {
	svc := catalog.NewService(seed(t), nil)
	ctx := context.Background()

	vs, err := svc.ListVendors(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, vs, 2)

	vs, err = svc.ListVendors(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, vs, 1)

	_, err = svc.ListVendors(ctx, -1)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	v, err := svc.GetVendor(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	found, err := svc.SearchVendors(ctx, "tạp HÓA")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "v1", found[0].ID)

	found, err = svc.SearchVendors(ctx, "   ")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestService_SearchVendorsLimit(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		require.NoError(t, s.InsertVendor(ctx, &entity.Vendor{ID: fmt.Sprintf("v%d", i), Name: fmt.Sprintf("Tạp hóa %02d", i), IsActive: true}))
	}
	found, err := catalog.NewService(s, nil).SearchVendors(ctx, "tạp")
	require.NoError(t, err)
	assert.Len(t, found, catalog.VendorSearchLimit)
}

func TestService_GetVendorWithProducts(t *testing.T) {
	svc := catalog.NewService(seed(t), nil)

	got, err := svc.GetVendorWithProducts(context.Background(), "v1")
	require.NoError(t, err)
	require.NotNil(t, got)
	// o4 is unavailable, o5 points at a deleted product
	require.Len(t, got.Products, 1)
	assert.Equal(t, "p1", got.Products[0].ID)
	assert.Equal(t, int64(32000), got.Products[0].Price)
	assert.Equal(t, "o1", got.Products[0].OfferID)
	require.NotNil(t, got.Products[0].Category)
	assert.Equal(t, "gao", got.Products[0].Category.Slug)

	got, err = svc.GetVendorWithProducts(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Products(t *testing.T) {
	svc := catalog.NewService(seed(t), nil)
	ctx := context.Background()

	ps, err := svc.ListProducts(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	rice := "cat-rice"
	ps, err = svc.ListProducts(ctx, &rice, 0)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "p1", ps[0].ID)

	ps, err = svc.SearchProducts(ctx, "gạo")
	require.NoError(t, err)
	assert.Len(t, ps, 1)

	p, err := svc.GetProduct(ctx, "p-gone")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestService_GetProductWithPrices(t *testing.T) {
	svc := catalog.NewService(seed(t), nil)

	got, err := svc.GetProductWithPrices(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.Product.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "cat-rice", got.Category.ID)

	require.Len(t, got.Offers, 2)
	assert.Equal(t, "v2", got.Offers[0].VendorID)
	assert.Equal(t, int64(29000), got.Offers[0].Price)
	assert.Equal(t, "Bình Thạnh", got.Offers[0].District)
	assert.Equal(t, "v1", got.Offers[1].VendorID)

	got, err = svc.GetProductWithPrices(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Categories(t *testing.T) {
	svc := catalog.NewService(seed(t), nil)
	ctx := context.Background()

	cs, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "gao", cs[0].Slug)
	assert.Equal(t, "do-uong", cs[1].Slug)

	c, err := svc.GetCategoryBySlug(ctx, "do-uong")
	require.NoError(t, err)
	assert.Equal(t, "cat-drinks", c.ID)

	c, err = svc.GetCategoryBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

type failingOffers struct {
	*memstore.Store
}

func (failingOffers) ListAvailableOffersByProduct(context.Context, string) ([]entity.PriceOffer, error) {
	return nil, errors.New("timeout")
}

func TestService_StoreFailurePropagates(t *testing.T) {
	svc := catalog.NewService(failingOffers{seed(t)}, nil)
	_, err := svc.GetProductWithPrices(context.Background(), "p1")
	require.Error(t, err)
	assert.False(t, apperr.IsLabeled(err))
}
