package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebkasanzew/comoi/internal/access"
	"github.com/sebkasanzew/comoi/internal/apperr"
	catalog "github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/store/memstore"
	"github.com/sebkasanzew/comoi/internal/user"
	"github.com/sebkasanzew/comoi/internal/user/entity"
)

func strptr(s string) *string { return &s }

type fixture struct {
	store *memstore.Store
	guard *access.Guard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.InsertVendor(ctx, &catalog.Vendor{ID: "v1", Name: "Tạp hóa Cô Ba", Phone: "091", IsActive: true}))
	require.NoError(t, s.InsertVendor(ctx, &catalog.Vendor{ID: "v-nophone", Name: "No phone", Phone: ""}))
	require.NoError(t, s.InsertCustomer(ctx, &catalog.Customer{ID: "c1", Phone: "091"}))
	require.NoError(t, s.InsertCustomer(ctx, &catalog.Customer{ID: "c2", Phone: "092"}))

	users := []entity.User{
		{ID: "u-vendor", Subject: "sub-vendor", Role: entity.RoleVendor, Phone: strptr("091")},
		{ID: "u-other-vendor", Subject: "sub-other-vendor", Role: entity.RoleVendor, Phone: strptr("000")},
		{ID: "u-vendor-nophone", Subject: "sub-vendor-nophone", Role: entity.RoleVendor},
		{ID: "u-customer", Subject: "sub-customer", Role: entity.RoleCustomer, Phone: strptr("091")},
		{ID: "u-admin", Subject: "sub-admin", Role: entity.RoleAdmin},
		{ID: "u-weird", Subject: "sub-weird", Role: entity.Role("support")},
	}
	for i := range users {
		require.NoError(t, s.InsertUser(ctx, &users[i]))
	}
	g := access.NewGuard(user.NewResolver(s, nil), s, s, nil)
	return &fixture{store: s, guard: g}
}

func as(subject string) context.Context {
	if subject == "" {
		return context.Background()
	}
	return access.ContextWithSubject(context.Background(), subject)
}

func TestGuard_RequireVendorAccess(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name     string
		subject  string
		vendorID string
		want     error
	}{
		{"owner with matching phone", "sub-vendor", "v1", nil},
		{"vendor with different phone", "sub-other-vendor", "v1", apperr.ErrForbidden},
		{"vendor without phone", "sub-vendor-nophone", "v1", apperr.ErrForbidden},
		{"vendor without phone on vendor without phone", "sub-vendor-nophone", "v-nophone", apperr.ErrForbidden},
		{"admin on any vendor", "sub-admin", "v1", nil},
		{"admin on missing vendor", "sub-admin", "missing", nil},
		{"customer", "sub-customer", "v1", apperr.ErrForbidden},
		{"unknown role", "sub-weird", "v1", apperr.ErrForbidden},
		{"missing vendor", "sub-vendor", "missing", apperr.ErrNotFound},
		{"unauthenticated", "", "v1", apperr.ErrUnauthenticated},
		{"unauthenticated on missing vendor", "", "missing", apperr.ErrUnauthenticated},
		{"no user record", "sub-ghost", "v1", apperr.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := f.guard.RequireVendorAccess(as(tt.subject), tt.vendorID)
			if tt.want == nil {
				require.NoError(t, err)
				assert.NotNil(t, caller)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, caller)
		})
	}
}

func TestGuard_RequireOrderAccess(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name    string
		subject string
		ref     access.OrderRef
		want    error
	}{
		{"customer owner", "sub-customer", access.OrderRef{CustomerID: "c1", VendorID: "anything"}, nil},
		{"customer not owner", "sub-customer", access.OrderRef{CustomerID: "c2", VendorID: "v1"}, apperr.ErrForbidden},
		{"customer missing", "sub-customer", access.OrderRef{CustomerID: "missing", VendorID: "v1"}, apperr.ErrNotFound},
		{"vendor owner", "sub-vendor", access.OrderRef{CustomerID: "c2", VendorID: "v1"}, nil},
		{"vendor not owner", "sub-other-vendor", access.OrderRef{CustomerID: "c1", VendorID: "v1"}, apperr.ErrForbidden},
		{"vendor without phone vs empty vendor phone", "sub-vendor-nophone", access.OrderRef{VendorID: "v-nophone"}, apperr.ErrForbidden},
		{"vendor missing", "sub-vendor", access.OrderRef{CustomerID: "c1", VendorID: "missing"}, apperr.ErrNotFound},
		{"admin", "sub-admin", access.OrderRef{CustomerID: "x", VendorID: "y"}, nil},
		{"unknown role", "sub-weird", access.OrderRef{CustomerID: "c1", VendorID: "v1"}, apperr.ErrForbidden},
		{"unauthenticated", "", access.OrderRef{CustomerID: "c1", VendorID: "v1"}, apperr.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.guard.RequireOrderAccess(as(tt.subject), tt.ref)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// A vendor caller with phone P is allowed on vendor V exactly when P == V.phone.
func TestGuard_VendorPhoneEquality(t *testing.T) {
	ctx := context.Background()
	phones := []string{"091", "0912", "000", "+8491"}
	for _, vp := range phones {
		for _, up := range phones {
			s := memstore.New()
			require.NoError(t, s.InsertVendor(ctx, &catalog.Vendor{ID: "v", Phone: vp}))
			require.NoError(t, s.InsertUser(ctx, &entity.User{ID: "u", Subject: "s", Role: entity.RoleVendor, Phone: strptr(up)}))
			g := access.NewGuard(user.NewResolver(s, nil), s, s, nil)

			_, err := g.RequireVendorAccess(as("s"), "v")
			if vp == up {
				assert.NoError(t, err, "user %s vendor %s", up, vp)
			} else {
				assert.ErrorIs(t, err, apperr.ErrForbidden, "user %s vendor %s", up, vp)
			}
		}
	}
}

type failingVendors struct{}

func (failingVendors) GetVendor(context.Context, string) (*catalog.Vendor, error) {
	return nil, errors.New("connection refused")
}

func TestGuard_StoreFailurePropagates(t *testing.T) {
	f := newFixture(t)
	g := access.NewGuard(user.NewResolver(f.store, nil), failingVendors{}, f.store, nil)
	_, err := g.RequireVendorAccess(as("sub-vendor"), "v1")
	require.Error(t, err)
	assert.False(t, apperr.IsLabeled(err), "store failures stay unlabeled: %v", err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGuard_RequireOrderAccess_EmptyPhonesNeverMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.InsertCustomer(ctx, &catalog.Customer{ID: "c-nophone"}))
	require.NoError(t, f.store.InsertUser(ctx, &entity.User{ID: "u-customer-nophone", Subject: "sub-customer-nophone", Role: entity.RoleCustomer}))

	_, err := f.guard.RequireOrderAccess(as("sub-vendor-nophone"), access.OrderRef{VendorID: "v-nophone", CustomerID: "c1"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.guard.RequireOrderAccess(as("sub-customer-nophone"), access.OrderRef{VendorID: "v1", CustomerID: "c-nophone"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
