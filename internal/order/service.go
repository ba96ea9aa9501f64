package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sebkasanzew/comoi/internal/access"
	"github.com/sebkasanzew/comoi/internal/apperr"
	catalog "github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/events"
	"github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/store"
	user "github.com/sebkasanzew/comoi/internal/user/entity"
)

// Store is the order side of the document store.
type Store interface {
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	ListOrdersByVendor(ctx context.Context, vendorID string, status *entity.Status) ([]entity.Order, error)
	ListItemsByOrder(ctx context.Context, orderID string) ([]entity.Item, error)
	PatchOrderStatus(ctx context.Context, id string, status entity.Status, updatedAt time.Time) error
}

// References are the read-only documents joined into order responses.
type References interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	GetCustomer(ctx context.Context, id string) (*catalog.Customer, error)
	GetVendor(ctx context.Context, id string) (*catalog.Vendor, error)
}

type Guard interface {
	RequireVendorAccess(ctx context.Context, vendorID string) (*user.User, error)
	RequireOrderAccess(ctx context.Context, ref access.OrderRef) (*user.User, error)
}

type EventPublisher interface {
	OrderStatusChanged(ctx context.Context, evt events.StatusChanged) error
}

type TransitionObserver interface {
	ObserveTransition(from, to string)
}

// joinLimit bounds concurrent point lookups per request.
const joinLimit = 8

// Service is the order query and mutation path. Every operation checks access
// itself; callers never pass an already-authorized identity.
type Service struct {
	store  Store
	refs   References
	guard  Guard
	logger *zap.SugaredLogger

	// optional knobs
	Policy  TransitionPolicy
	Events  EventPublisher
	Metrics TransitionObserver
	Now     func() time.Time
}

func NewService(s Store, refs References, guard Guard, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: s, refs: refs, guard: guard, logger: logger, Policy: PolicyPermissive, Now: time.Now}
}

type ProductSummary struct {
	NameVI string  `json:"name_vi"`
	NameEN *string `json:"name_en,omitempty"`
	Unit   string  `json:"unit"`
}

type CustomerSummary struct {
	Name  *string `json:"name"`
	Phone string  `json:"phone"`
}

type ListedItem struct {
	entity.Item
	Product *ProductSummary `json:"product"`
}

type ListedOrder struct {
	entity.Order
	Items    []ListedItem     `json:"items"`
	Customer *CustomerSummary `json:"customer"`
}

type DetailItem struct {
	entity.Item
	Product *catalog.Product `json:"product"`
}

type OrderDetail struct {
	entity.Order
	Items    []DetailItem      `json:"items"`
	Customer *catalog.Customer `json:"customer"`
	Vendor   *catalog.Vendor   `json:"vendor"`
}

// StatusCounts always carries all seven statuses.
type StatusCounts map[entity.Status]int

type UpdateResult struct {
	Success bool `json:"success"`
}

// ListByVendor returns the vendor's orders, optionally with one status, newest
// first. Each order carries its items (with a product summary, or null when
// the product is gone) and a customer summary.
func (s *Service) ListByVendor(ctx context.Context, vendorID string, status *entity.Status) ([]ListedOrder, error) {
	if status != nil {
		if _, err := entity.ParseStatus(string(*status)); err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperr.ErrInvalidArgument)
		}
	}
	if _, err := s.guard.RequireVendorAccess(ctx, vendorID); err != nil {
		return nil, err
	}

	orders, err := s.store.ListOrdersByVendor(ctx, vendorID, status)
	if err != nil {
		return nil, fmt.Errorf("list orders of vendor %s: %w", vendorID, err)
	}

	out := make([]ListedOrder, len(orders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(joinLimit)
	for i := range orders {
		g.Go(func() error {
			listed, err := s.joinSummary(gctx, orders[i])
			if err != nil {
				return err
			}
			out[i] = listed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the index is not ordered by time within a vendor/status prefix
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Service) joinSummary(ctx context.Context, o entity.Order) (ListedOrder, error) {
	items, err := s.store.ListItemsByOrder(ctx, o.ID)
	if err != nil {
		return ListedOrder{}, fmt.Errorf("list items of order %s: %w", o.ID, err)
	}
	listed := ListedOrder{Order: o, Items: make([]ListedItem, len(items))}
	for i, it := range items {
		p, err := optional(s.refs.GetProduct(ctx, it.ProductID))
		if err != nil {
			return ListedOrder{}, fmt.Errorf("load product %s: %w", it.ProductID, err)
		}
		listed.Items[i] = ListedItem{Item: it}
		if p != nil {
			listed.Items[i].Product = &ProductSummary{NameVI: p.NameVI, NameEN: p.NameEN, Unit: p.Unit}
		}
	}
	c, err := optional(s.refs.GetCustomer(ctx, o.CustomerID))
	if err != nil {
		return ListedOrder{}, fmt.Errorf("load customer %s: %w", o.CustomerID, err)
	}
	if c != nil {
		listed.Customer = &CustomerSummary{Name: c.Name, Phone: c.Phone}
	}
	return listed, nil
}

// Get returns the order with full items, customer and vendor, or nil when the
// id does not resolve. Existence is checked before access, so an authenticated
// caller can tell a missing order (nil) from someone else's (FORBIDDEN).
func (s *Service) Get(ctx context.Context, orderID string) (*OrderDetail, error) {
	if access.SubjectFromContext(ctx) == "" {
		return nil, apperr.ErrUnauthenticated
	}
	o, err := optional(s.store.GetOrder(ctx, orderID))
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if o == nil {
		return nil, nil
	}
	if _, err := s.guard.RequireOrderAccess(ctx, access.OrderRef{VendorID: o.VendorID, CustomerID: o.CustomerID}); err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: *o}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.store.ListItemsByOrder(gctx, o.ID)
		if err != nil {
			return fmt.Errorf("list items of order %s: %w", o.ID, err)
		}
		detail.Items = make([]DetailItem, len(items))
		for i, it := range items {
			p, err := optional(s.refs.GetProduct(gctx, it.ProductID))
			if err != nil {
				return fmt.Errorf("load product %s: %w", it.ProductID, err)
			}
			detail.Items[i] = DetailItem{Item: it, Product: p}
		}
		return nil
	})
	g.Go(func() error {
		c, err := optional(s.refs.GetCustomer(gctx, o.CustomerID))
		if err != nil {
			return fmt.Errorf("load customer %s: %w", o.CustomerID, err)
		}
		detail.Customer = c
		return nil
	})
	g.Go(func() error {
		v, err := optional(s.refs.GetVendor(gctx, o.VendorID))
		if err != nil {
			return fmt.Errorf("load vendor %s: %w", o.VendorID, err)
		}
		detail.Vendor = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// CountsByStatus tallies the vendor's orders per status.
func (s *Service) CountsByStatus(ctx context.Context, vendorID string) (StatusCounts, error) {
	if _, err := s.guard.RequireVendorAccess(ctx, vendorID); err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrdersByVendor(ctx, vendorID, nil)
	if err != nil {
		return nil, fmt.Errorf("list orders of vendor %s: %w", vendorID, err)
	}
	counts := make(StatusCounts, len(entity.Statuses))
	for _, st := range entity.Statuses {
		counts[st] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts, nil
}

// UpdateStatus is the only write path. Only the order's vendor owner (or an
// admin) may change status; customers are always refused.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status entity.Status) (UpdateResult, error) {
	if _, err := entity.ParseStatus(string(status)); err != nil {
		return UpdateResult{}, fmt.Errorf("%v: %w", err, apperr.ErrInvalidArgument)
	}
	if access.SubjectFromContext(ctx) == "" {
		return UpdateResult{}, apperr.ErrUnauthenticated
	}
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return UpdateResult{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
		}
		return UpdateResult{}, fmt.Errorf("load order %s: %w", orderID, err)
	}
	caller, err := s.guard.RequireVendorAccess(ctx, o.VendorID)
	if err != nil {
		return UpdateResult{}, err
	}
	if !s.Policy.Allows(o.Status, status) {
		return UpdateResult{}, fmt.Errorf("%s -> %s under %s policy: %w", o.Status, status, s.Policy, apperr.ErrInvalidTransition)
	}

	now := s.Now()
	if err := s.store.PatchOrderStatus(ctx, orderID, status, now); err != nil {
		return UpdateResult{}, fmt.Errorf("patch order %s: %w", orderID, err)
	}
	s.logger.Infow("order status updated", "order_id", orderID, "from", o.Status, "to", status, "user_id", caller.ID)
	if s.Metrics != nil {
		s.Metrics.ObserveTransition(string(o.Status), string(status))
	}
	if s.Events != nil {
		evt := events.StatusChanged{
			OrderID:    o.ID,
			VendorID:   o.VendorID,
			CustomerID: o.CustomerID,
			From:       o.Status,
			To:         status,
			ChangedBy:  caller.ID,
			OccurredAt: now.UTC(),
		}
		// the patch is committed; a lost event must not fail the request
		if err := s.Events.OrderStatusChanged(ctx, evt); err != nil {
			s.logger.Warnw("publish status event failed", "order_id", orderID, "err", err)
		}
	}
	return UpdateResult{Success: true}, nil
}

// optional turns a store miss into a nil document.
func optional[T any](doc *T, err error) (*T, error) {
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	return doc, err
}
