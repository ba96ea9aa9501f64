// Package seed fills a store with Vietnamese marketplace data for local runs.
//
// Every vendor and customer gets a user account with the same phone number, so
// the generated accounts can exercise ownership checks directly. Subjects are
// "seed|vendor|<id>", "seed|customer|<id>" and "seed|admin".
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	catalog "github.com/sebkasanzew/comoi/internal/catalog/entity"
	order "github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/store/backend"
	user "github.com/sebkasanzew/comoi/internal/user/entity"
	"github.com/sebkasanzew/comoi/pkg/utilities"
)

const AdminSubject = "seed|admin"

type Counts struct {
	Categories int
	Products   int
	Vendors    int
	Customers  int
	Orders     int
}

func DefaultCounts() Counts {
	return Counts{Categories: 8, Products: 40, Vendors: 12, Customers: 25, Orders: 50}
}

type Summary struct {
	Categories  int `json:"categories"`
	Products    int `json:"products"`
	Vendors     int `json:"vendors"`
	PriceOffers int `json:"price_offers"`
	Customers   int `json:"customers"`
	Orders      int `json:"orders"`
	Users       int `json:"users"`
}

type Generator struct {
	b      *backend.Backend
	rng    *rand.Rand
	logger *zap.SugaredLogger
	Now    func() time.Time
	NewID  func() string
}

// New returns a generator; the same seed yields the same data apart from ids.
func New(b *backend.Backend, seed uint64, logger *zap.SugaredLogger) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{
		b:      b,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger,
		Now:    time.Now,
		NewID:  utilities.NewSnowflakeID,
	}
}

type seededProduct struct {
	catalog.Product
	min, max int64
}

func (g *Generator) Run(ctx context.Context, c Counts, reset bool) (Summary, error) {
	var sum Summary
	if reset {
		g.logger.Info("clearing all collections")
		if err := g.b.Reset(ctx); err != nil {
			return sum, fmt.Errorf("reset: %w", err)
		}
	}
	now := g.Now().UTC()

	cats, err := g.categories(ctx, c.Categories)
	if err != nil {
		return sum, err
	}
	sum.Categories = len(cats)

	products, err := g.products(ctx, cats, c.Products, now)
	if err != nil {
		return sum, err
	}
	sum.Products = len(products)

	vendors, err := g.vendors(ctx, c.Vendors, now)
	if err != nil {
		return sum, err
	}
	sum.Vendors = len(vendors)

	offers, err := g.offers(ctx, vendors, products, now)
	if err != nil {
		return sum, err
	}
	sum.PriceOffers = len(offers)

	customers, err := g.customers(ctx, c.Customers, now)
	if err != nil {
		return sum, err
	}
	sum.Customers = len(customers)

	if sum.Users, err = g.users(ctx, vendors, customers, now); err != nil {
		return sum, err
	}

	if sum.Orders, err = g.orders(ctx, c.Orders, vendors, customers, offers, now); err != nil {
		return sum, err
	}
	g.logger.Infow("seed complete", "summary", sum)
	return sum, nil
}

func (g *Generator) categories(ctx context.Context, n int) ([]catalog.Category, error) {
	n = min(n, len(categoryTable))
	out := make([]catalog.Category, 0, n)
	for i, cd := range categoryTable[:n] {
		c := catalog.Category{
			ID:     g.NewID(),
			NameVI: cd.NameVI,
			NameEN: ptr(cd.NameEN),
			Slug:   cd.Slug,
			Icon:   ptr(cd.Icon),
			Order:  i,
		}
		if err := g.b.Catalog.InsertCategory(ctx, &c); err != nil {
			return nil, fmt.Errorf("insert category %s: %w", cd.Slug, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (g *Generator) products(ctx context.Context, cats []catalog.Category, n int, now time.Time) ([]seededProduct, error) {
	var out []seededProduct
	for ci, c := range cats {
		for _, pd := range categoryTable[ci].Products {
			if len(out) >= n {
				return out, nil
			}
			p := catalog.Product{
				ID:         g.NewID(),
				SKU:        fmt.Sprintf("%s-%04d", skuPrefix(c.Slug), len(out)),
				NameVI:     pd.NameVI,
				NameEN:     ptr(pd.NameEN),
				Barcode:    ptr("893" + g.digits(10)),
				CategoryID: c.ID,
				Unit:       pd.Unit,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := g.b.Catalog.InsertProduct(ctx, &p); err != nil {
				return nil, fmt.Errorf("insert product %s: %w", p.SKU, err)
			}
			out = append(out, seededProduct{Product: p, min: pd.Min, max: pd.Max})
		}
	}
	return out, nil
}

func (g *Generator) vendors(ctx context.Context, n int, now time.Time) ([]catalog.Vendor, error) {
	out := make([]catalog.Vendor, 0, n)
	for range n {
		loc, addr := g.address()
		v := catalog.Vendor{
			ID:               g.NewID(),
			Name:             pick(g.rng, vendorNames) + " " + pick(g.rng, vendorSuffixes),
			Phone:            g.phone(),
			Location:         loc,
			Address:          addr,
			DeliveryRadiusKM: float64(pick(g.rng, []int{1, 2, 3, 5})),
			IsActive:         g.rng.Float64() < 0.9,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if g.rng.Float64() < 0.6 {
			v.ZaloID = ptr(g.alnum(10))
		}
		if err := g.b.Catalog.InsertVendor(ctx, &v); err != nil {
			return nil, fmt.Errorf("insert vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (g *Generator) offers(ctx context.Context, vendors []catalog.Vendor, products []seededProduct, now time.Time) ([]catalog.PriceOffer, error) {
	var out []catalog.PriceOffer
	for _, v := range vendors {
		share := 0.6 + 0.3*g.rng.Float64()
		k := int(float64(len(products)) * share)
		for _, idx := range g.rng.Perm(len(products))[:k] {
			p := products[idx]
			o := catalog.PriceOffer{
				ID:          g.NewID(),
				VendorID:    v.ID,
				ProductID:   p.ID,
				Price:       g.price(p.min, p.max),
				StockStatus: weighted(g.rng, []weight[catalog.StockStatus]{{70, catalog.InStock}, {20, catalog.LowStock}, {10, catalog.OutOfStock}}),
				IsAvailable: g.rng.Float64() < 0.85,
				UpdatedAt:   now,
			}
			if err := g.b.Catalog.InsertPriceOffer(ctx, &o); err != nil {
				return nil, fmt.Errorf("insert price offer: %w", err)
			}
			out = append(out, o)
		}
	}
	return out, nil
}

func (g *Generator) customers(ctx context.Context, n int, now time.Time) ([]catalog.Customer, error) {
	out := make([]catalog.Customer, 0, n)
	for range n {
		loc, addr := g.address()
		addrs := catalog.CustomerAddresses{{ID: utilities.NewKSUID(), Label: "Nhà", Location: loc, Address: addr, IsDefault: true}}
		if g.rng.IntN(2) == 0 {
			loc2, addr2 := g.address()
			addrs = append(addrs, catalog.CustomerAddress{ID: utilities.NewKSUID(), Label: "Văn phòng", Location: loc2, Address: addr2})
		}
		c := catalog.Customer{
			ID:                g.NewID(),
			Phone:             g.phone(),
			Name:              ptr(g.personName()),
			Addresses:         addrs,
			PreferredLanguage: weighted(g.rng, []weight[string]{{90, "vi"}, {10, "en"}}),
			CreatedAt:         now,
		}
		if g.rng.Float64() < 0.7 {
			c.Email = ptr(strings.ToLower(g.alnum(8)) + "@example.vn")
		}
		if err := g.b.Catalog.InsertCustomer(ctx, &c); err != nil {
			return nil, fmt.Errorf("insert customer: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// users creates one account per vendor and customer sharing its phone, plus an admin.
func (g *Generator) users(ctx context.Context, vendors []catalog.Vendor, customers []catalog.Customer, now time.Time) (int, error) {
	var us []user.User
	for _, v := range vendors {
		us = append(us, user.User{ID: g.NewID(), Subject: "seed|vendor|" + v.ID, Role: user.RoleVendor, Phone: ptr(v.Phone), Name: ptr(v.Name), CreatedAt: now, UpdatedAt: now})
	}
	for _, c := range customers {
		us = append(us, user.User{ID: g.NewID(), Subject: "seed|customer|" + c.ID, Role: user.RoleCustomer, Phone: ptr(c.Phone), Name: c.Name, Email: c.Email, CreatedAt: now, UpdatedAt: now})
	}
	us = append(us, user.User{ID: g.NewID(), Subject: AdminSubject, Role: user.RoleAdmin, Name: ptr("Quản trị viên"), CreatedAt: now, UpdatedAt: now})
	for i := range us {
		if err := g.b.Users.InsertUser(ctx, &us[i]); err != nil {
			return 0, fmt.Errorf("insert user %s: %w", us[i].Subject, err)
		}
	}
	return len(us), nil
}

func (g *Generator) orders(ctx context.Context, n int, vendors []catalog.Vendor, customers []catalog.Customer, offers []catalog.PriceOffer, now time.Time) (int, error) {
	if len(vendors) == 0 || len(customers) == 0 {
		return 0, nil
	}
	byVendor := map[string][]catalog.PriceOffer{}
	for _, o := range offers {
		if o.IsAvailable {
			byVendor[o.VendorID] = append(byVendor[o.VendorID], o)
		}
	}

	created := 0
	for range n {
		c := pick(g.rng, customers)
		v := pick(g.rng, vendors)
		avail := byVendor[v.ID]
		if len(avail) == 0 || len(c.Addresses) == 0 {
			continue
		}
		addr := c.Addresses[0]
		for _, a := range c.Addresses {
			if a.IsDefault {
				addr = a
				break
			}
		}

		at := now.Add(-time.Duration(g.rng.Int64N(int64(30 * 24 * time.Hour)))).Truncate(time.Millisecond)
		o := order.Order{
			ID:              g.NewID(),
			CustomerID:      c.ID,
			VendorID:        v.ID,
			Status:          order.StatusPending,
			PaymentMethod:   weighted(g.rng, []weight[order.PaymentMethod]{{50, order.PaymentCOD}, {25, order.PaymentMoMo}, {15, order.PaymentVNPay}, {10, order.PaymentPayOS}}),
			PaymentStatus:   weighted(g.rng, []weight[order.PaymentStatus]{{10, order.PaymentPending}, {5, order.PaymentProcessing}, {75, order.PaymentCompleted}, {5, order.PaymentFailed}, {5, order.PaymentRefunded}}),
			DeliveryFee:     pick(g.rng, []int64{0, 15000, 20000, 25000, 30000}),
			DeliveryAddress: order.DeliveryAddress{Location: addr.Location, Address: addr.Address},
			CreatedAt:       at,
			UpdatedAt:       at,
		}
		if g.rng.Float64() < 0.6 {
			o.PaymentReference = ptr(strings.ToUpper(g.alnum(16)))
		}
		if g.rng.Float64() < 0.3 {
			o.Notes = ptr(pick(g.rng, orderNotes))
		}

		k := min(1+g.rng.IntN(5), len(avail))
		var items []order.Item
		for _, idx := range g.rng.Perm(len(avail))[:k] {
			off := avail[idx]
			q := 1 + g.rng.IntN(3)
			it := order.Item{
				ID:         g.NewID(),
				OrderID:    o.ID,
				ProductID:  off.ProductID,
				VendorID:   v.ID,
				Quantity:   q,
				UnitPrice:  off.Price,
				TotalPrice: int64(q) * off.Price,
			}
			o.Subtotal += it.TotalPrice
			items = append(items, it)
		}
		o.Total = o.Subtotal + o.DeliveryFee
		if err := order.ValidateNew(o, items); err != nil {
			return created, fmt.Errorf("generated order %s: %w", o.ID, err)
		}
		// the order was placed PENDING; give it some history
		o.Status = weighted(g.rng, []weight[order.Status]{
			{5, order.StatusPending}, {5, order.StatusConfirmed}, {5, order.StatusPreparing}, {5, order.StatusReady},
			{5, order.StatusDelivering}, {60, order.StatusCompleted}, {15, order.StatusCancelled},
		})

		if err := g.b.Orders.InsertOrder(ctx, &o, items); err != nil {
			return created, fmt.Errorf("insert order: %w", err)
		}
		created++
	}
	return created, nil
}

func (g *Generator) address() (catalog.Location, catalog.Address) {
	city := pick(g.rng, cities)
	a := catalog.Address{
		Street:   fmt.Sprintf("%d %s", 1+g.rng.IntN(500), pick(g.rng, streets)),
		Ward:     pick(g.rng, wards),
		District: pick(g.rng, city.Districts),
		City:     city.City,
	}
	a.Raw = strings.Join([]string{a.Street, a.Ward, a.District, a.City}, ", ")
	// around central Ho Chi Minh City
	loc := catalog.Location{
		Lat: 10.762622 + (g.rng.Float64()-0.5)*0.1,
		Lng: 106.660172 + (g.rng.Float64()-0.5)*0.1,
	}
	return loc, a
}

func (g *Generator) personName() string {
	last, first := pick(g.rng, lastNames), pick(g.rng, firstNames)
	if g.rng.Float64() < 0.7 {
		return last + " " + pick(g.rng, firstNames) + " " + first
	}
	return last + " " + first
}

func (g *Generator) phone() string {
	return pick(g.rng, phonePrefixes) + g.digits(7)
}

// price rounds to the nearest 500 VND.
func (g *Generator) price(lo, hi int64) int64 {
	p := lo + g.rng.Int64N(hi-lo+1)
	return (p + 250) / 500 * 500
}

func skuPrefix(slug string) string {
	s := strings.ToUpper(strings.ReplaceAll(slug, "-", ""))
	return s[:min(3, len(s))]
}

func (g *Generator) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + g.rng.IntN(10))
	}
	return string(b)
}

func (g *Generator) alnum(n int) string {
	const set = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = set[g.rng.IntN(len(set))]
	}
	return string(b)
}

type weight[T any] struct {
	w int
	v T
}

func weighted[T any](r *rand.Rand, ws []weight[T]) T {
	total := 0
	for _, w := range ws {
		total += w.w
	}
	n := r.IntN(total)
	for _, w := range ws {
		if n < w.w {
			return w.v
		}
		n -= w.w
	}
	return ws[len(ws)-1].v
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

func ptr[T any](v T) *T { return &v }
