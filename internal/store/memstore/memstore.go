// Package memstore is an in-process document store with the same contract as
// the Postgres and Mongo backends. Reads return copies; index scans return
// documents in insertion order.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	catalog "github.com/sebkasanzew/comoi/internal/catalog/entity"
	order "github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/store"
	user "github.com/sebkasanzew/comoi/internal/user/entity"
)

type Store struct {
	mu sync.RWMutex

	users      map[string]user.User // by subject
	vendors    table[catalog.Vendor]
	customers  table[catalog.Customer]
	products   table[catalog.Product]
	categories table[catalog.Category]
	offers     table[catalog.PriceOffer]
	orders     table[order.Order]
	items      table[order.Item]
}

// table keeps documents by id plus their insertion order.
type table[T any] struct {
	docs  map[string]T
	order []string
}

func (t *table[T]) put(id string, doc T) error {
	if t.docs == nil {
		t.docs = make(map[string]T)
	}
	if _, dup := t.docs[id]; dup {
		return fmt.Errorf("duplicate id %s", id)
	}
	t.docs[id] = doc
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) get(id string) (T, error) {
	doc, ok := t.docs[id]
	if !ok {
		var zero T
		return zero, store.ErrNoDocument
	}
	return doc, nil
}

func (t *table[T]) scan(match func(T) bool) []T {
	out := []T{}
	for _, id := range t.order {
		if d := t.docs[id]; match(d) {
			out = append(out, d)
		}
	}
	return out
}

func New() *Store {
	return &Store{users: make(map[string]user.User)}
}

func (s *Store) GetBySubject(ctx context.Context, subject string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[subject]
	if !ok {
		return nil, store.ErrNoDocument
	}
	return &u, nil
}

func (s *Store) InsertUser(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.users[u.Subject]; dup {
		return fmt.Errorf("duplicate subject %s", u.Subject)
	}
	s.users[u.Subject] = *u
	return nil
}

func (s *Store) GetVendor(ctx context.Context, id string) (*catalog.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.vendors.get(id)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) ListActiveVendors(ctx context.Context) ([]catalog.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors.scan(func(v catalog.Vendor) bool { return v.IsActive }), nil
}

func (s *Store) SearchVendors(ctx context.Context, term string, limit int) ([]catalog.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	term = strings.ToLower(term)
	out := s.vendors.scan(func(v catalog.Vendor) bool {
		return v.IsActive && strings.Contains(strings.ToLower(v.Name), term)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return truncate(out, limit), nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*catalog.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.customers.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.products.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, categoryID *string) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.scan(func(p catalog.Product) bool {
		return categoryID == nil || p.CategoryID == *categoryID
	}), nil
}

func (s *Store) SearchProducts(ctx context.Context, term string, limit int) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	term = strings.ToLower(term)
	out := s.products.scan(func(p catalog.Product) bool {
		return strings.Contains(strings.ToLower(p.NameVI), term)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].NameVI < out[j].NameVI })
	return truncate(out, limit), nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.categories.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := s.categories.scan(func(c catalog.Category) bool { return c.Slug == slug })
	if len(found) == 0 {
		return nil, store.ErrNoDocument
	}
	return &found[0], nil
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.scan(func(catalog.Category) bool { return true }), nil
}

func (s *Store) ListAvailableOffersByVendor(ctx context.Context, vendorID string) ([]catalog.PriceOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offers.scan(func(o catalog.PriceOffer) bool { return o.VendorID == vendorID && o.IsAvailable }), nil
}

func (s *Store) ListAvailableOffersByProduct(ctx context.Context, productID string) ([]catalog.PriceOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offers.scan(func(o catalog.PriceOffer) bool { return o.ProductID == productID && o.IsAvailable }), nil
}

func (s *Store) InsertVendor(ctx context.Context, v *catalog.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vendors.put(v.ID, *v)
}

func (s *Store) InsertCustomer(ctx context.Context, c *catalog.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customers.put(c.ID, *c)
}

func (s *Store) InsertProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products.put(p.ID, *p)
}

func (s *Store) InsertCategory(ctx context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories.put(c.ID, *c)
}

func (s *Store) InsertPriceOffer(ctx context.Context, o *catalog.PriceOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offers.put(o.ID, *o)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.orders.get(id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) ListOrdersByVendor(ctx context.Context, vendorID string, status *order.Status) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders.scan(func(o order.Order) bool {
		return o.VendorID == vendorID && (status == nil || o.Status == *status)
	}), nil
}

func (s *Store) ListItemsByOrder(ctx context.Context, orderID string) ([]order.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.scan(func(i order.Item) bool { return i.OrderID == orderID }), nil
}

func (s *Store) PatchOrderStatus(ctx context.Context, id string, status order.Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.orders.get(id)
	if err != nil {
		return err
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	s.orders.docs[id] = o
	return nil
}

// InsertOrder stores the order and its items atomically.
func (s *Store) InsertOrder(ctx context.Context, o *order.Order, items []order.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.orders.get(o.ID); err == nil {
		return fmt.Errorf("duplicate id %s", o.ID)
	}
	batch := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, err := s.items.get(it.ID); err == nil {
			return fmt.Errorf("duplicate id %s", it.ID)
		}
		if _, dup := batch[it.ID]; dup {
			return fmt.Errorf("duplicate id %s in order %s", it.ID, o.ID)
		}
		batch[it.ID] = struct{}{}
	}
	// every id was checked above, so no put below can fail
	if err := s.orders.put(o.ID, *o); err != nil {
		return err
	}
	for _, it := range items {
		if err := s.items.put(it.ID, it); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops every document.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]user.User)
	s.vendors = table[catalog.Vendor]{}
	s.customers = table[catalog.Customer]{}
	s.products = table[catalog.Product]{}
	s.categories = table[catalog.Category]{}
	s.offers = table[catalog.PriceOffer]{}
	s.orders = table[order.Order]{}
	s.items = table[order.Item]{}
	return nil
}

func truncate[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
