// Package access decides whether the current caller may read or mutate a
// vendor's order queue or a single order.
//
// Ownership is a natural-key join: a user owns a vendor (or customer) record
// when both carry the same phone number. Users come from the identity
// provider while vendors and customers come from onboarding, and the phone is
// the only key both sides share. See phonesMatch.
package access

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	catalog "github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/apperr"
	"github.com/sebkasanzew/comoi/internal/store"
	"github.com/sebkasanzew/comoi/internal/user/entity"
)

type CallerResolver interface {
	ResolveCaller(ctx context.Context, subject string) (*entity.User, error)
}

type VendorLookup interface {
	GetVendor(ctx context.Context, id string) (*catalog.Vendor, error)
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, id string) (*catalog.Customer, error)
}

// OrderRef is the part of an order that access decisions look at.
type OrderRef struct {
	VendorID   string
	CustomerID string
}

// Guard evaluates every request afresh; nothing is cached between calls.
type Guard struct {
	callers   CallerResolver
	vendors   VendorLookup
	customers CustomerLookup
	logger    *zap.SugaredLogger
}

func NewGuard(callers CallerResolver, vendors VendorLookup, customers CustomerLookup, logger *zap.SugaredLogger) *Guard {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Guard{callers: callers, vendors: vendors, customers: customers, logger: logger}
}

// RequireVendorAccess allows admins, and vendors whose phone matches the vendor's.
// It returns the resolved caller on success.
func (g *Guard) RequireVendorAccess(ctx context.Context, vendorID string) (*entity.User, error) {
	caller, err := g.callers.ResolveCaller(ctx, SubjectFromContext(ctx))
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case entity.RoleAdmin:
		return caller, nil
	case entity.RoleVendor:
		v, err := g.vendor(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		if !phonesMatch(caller, v.Phone) {
			return nil, g.deny(caller, "vendor", vendorID)
		}
		return caller, nil
	case entity.RoleCustomer:
		return nil, g.deny(caller, "vendor", vendorID)
	default:
		return nil, g.deny(caller, "vendor", vendorID)
	}
}

// RequireOrderAccess allows admins, the order's vendor owner and the order's
// customer owner. Ownership needs a non-empty caller phone: a caller and an
// owner that both lack a phone do not match.
func (g *Guard) RequireOrderAccess(ctx context.Context, ref OrderRef) (*entity.User, error) {
	caller, err := g.callers.ResolveCaller(ctx, SubjectFromContext(ctx))
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case entity.RoleAdmin:
		return caller, nil
	case entity.RoleVendor:
		v, err := g.vendor(ctx, ref.VendorID)
		if err != nil {
			return nil, err
		}
		if !phonesMatch(caller, v.Phone) {
			return nil, g.deny(caller, "order vendor", ref.VendorID)
		}
		return caller, nil
	case entity.RoleCustomer:
		c, err := g.customer(ctx, ref.CustomerID)
		if err != nil {
			return nil, err
		}
		if !phonesMatch(caller, c.Phone) {
			return nil, g.deny(caller, "order customer", ref.CustomerID)
		}
		return caller, nil
	default:
		return nil, g.deny(caller, "order vendor", ref.VendorID)
	}
}

// phonesMatch is the ownership predicate. A caller without a phone owns nothing,
// even a record whose phone is also empty.
func phonesMatch(caller *entity.User, ownerPhone string) bool {
	p := caller.PhoneNumber()
	return p != "" && p == ownerPhone
}

func (g *Guard) vendor(ctx context.Context, id string) (*catalog.Vendor, error) {
	v, err := g.vendors.GetVendor(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, fmt.Errorf("vendor %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load vendor %s: %w", id, err)
	}
	return v, nil
}

func (g *Guard) customer(ctx context.Context, id string) (*catalog.Customer, error) {
	c, err := g.customers.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, fmt.Errorf("customer %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load customer %s: %w", id, err)
	}
	return c, nil
}

func (g *Guard) deny(caller *entity.User, kind, id string) error {
	g.logger.Debugw("access denied", "user_id", caller.ID, "role", caller.Role, "target", kind, "target_id", id)
	return fmt.Errorf("%s %s: %w", kind, id, apperr.ErrForbidden)
}
