package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sebkasanzew/comoi/internal/apperr"
	"github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/store"
)

const (
	VendorSearchLimit  = 10
	ProductSearchLimit = 20
)

// Store is the reference-data side of the document store.
type Store interface {
	GetVendor(ctx context.Context, id string) (*entity.Vendor, error)
	ListActiveVendors(ctx context.Context) ([]entity.Vendor, error)
	SearchVendors(ctx context.Context, term string, limit int) ([]entity.Vendor, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	ListProducts(ctx context.Context, categoryID *string) ([]entity.Product, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]entity.Product, error)
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
	ListAvailableOffersByVendor(ctx context.Context, vendorID string) ([]entity.PriceOffer, error)
	ListAvailableOffersByProduct(ctx context.Context, productID string) ([]entity.PriceOffer, error)
}

// Service serves the public catalog reads. None of them require a caller.
type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewService(s Store, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: s, logger: logger}
}

// VendorProduct is one available offer of a vendor, flattened onto its product.
type VendorProduct struct {
	entity.Product
	Category    *entity.Category   `json:"category"`
	Price       int64              `json:"price"`
	StockStatus entity.StockStatus `json:"stock_status"`
	OfferID     string             `json:"offer_id"`
}

type VendorWithProducts struct {
	entity.Vendor
	Products []VendorProduct `json:"products"`
}

// VendorOffer is one vendor's price for a product.
type VendorOffer struct {
	VendorID   string             `json:"vendorId"`
	VendorName string             `json:"vendorName"`
	Price      int64              `json:"price"`
	Stock      entity.StockStatus `json:"stock"`
	District   string             `json:"district"`
}

type ProductWithPrices struct {
	Product  entity.Product   `json:"product"`
	Category *entity.Category `json:"category"`
	Offers   []VendorOffer    `json:"offers"`
}

func (s *Service) ListVendors(ctx context.Context, limit int) ([]entity.Vendor, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, apperr.ErrInvalidArgument)
	}
	vs, err := s.store.ListActiveVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return head(vs, limit), nil
}

func (s *Service) GetVendor(ctx context.Context, id string) (*entity.Vendor, error) {
	v, err := optional(s.store.GetVendor(ctx, id))
	if err != nil {
		return nil, fmt.Errorf("load vendor %s: %w", id, err)
	}
	return v, nil
}

// GetVendorWithProducts returns the vendor with every available offer joined
// to its product and category. Offers whose product is gone are dropped.
func (s *Service) GetVendorWithProducts(ctx context.Context, id string) (*VendorWithProducts, error) {
	v, err := s.GetVendor(ctx, id)
	if err != nil || v == nil {
		return nil, err
	}
	offers, err := s.store.ListAvailableOffersByVendor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list offers of vendor %s: %w", id, err)
	}

	joined := make([]*VendorProduct, len(offers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, o := range offers {
		g.Go(func() error {
			p, err := optional(s.store.GetProduct(gctx, o.ProductID))
			if err != nil {
				return fmt.Errorf("load product %s: %w", o.ProductID, err)
			}
			if p == nil {
				return nil
			}
			c, err := optional(s.store.GetCategory(gctx, p.CategoryID))
			if err != nil {
				return fmt.Errorf("load category %s: %w", p.CategoryID, err)
			}
			joined[i] = &VendorProduct{Product: *p, Category: c, Price: o.Price, StockStatus: o.StockStatus, OfferID: o.ID}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &VendorWithProducts{Vendor: *v, Products: []VendorProduct{}}
	for _, vp := range joined {
		if vp != nil {
			out.Products = append(out.Products, *vp)
		}
	}
	return out, nil
}

// SearchVendors matches active vendor names. A blank term matches nothing.
func (s *Service) SearchVendors(ctx context.Context, term string) ([]entity.Vendor, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []entity.Vendor{}, nil
	}
	vs, err := s.store.SearchVendors(ctx, term, VendorSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search vendors: %w", err)
	}
	return head(vs, VendorSearchLimit), nil
}

func (s *Service) ListProducts(ctx context.Context, categoryID *string, limit int) ([]entity.Product, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, apperr.ErrInvalidArgument)
	}
	ps, err := s.store.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return head(ps, limit), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := optional(s.store.GetProduct(ctx, id))
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) SearchProducts(ctx context.Context, term string) ([]entity.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []entity.Product{}, nil
	}
	ps, err := s.store.SearchProducts(ctx, term, ProductSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return head(ps, ProductSearchLimit), nil
}

// GetProductWithPrices lists the product's available offers cheapest first.
// Offers from vendors that no longer exist are left out.
func (s *Service) GetProductWithPrices(ctx context.Context, productID string) (*ProductWithPrices, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil || p == nil {
		return nil, err
	}

	out := &ProductWithPrices{Product: *p, Offers: []VendorOffer{}}
	var offers []entity.PriceOffer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := optional(s.store.GetCategory(gctx, p.CategoryID))
		if err != nil {
			return fmt.Errorf("load category %s: %w", p.CategoryID, err)
		}
		out.Category = c
		return nil
	})
	g.Go(func() error {
		var err error
		offers, err = s.store.ListAvailableOffersByProduct(gctx, productID)
		if err != nil {
			return fmt.Errorf("list offers of product %s: %w", productID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, o := range offers {
		v, err := optional(s.store.GetVendor(ctx, o.VendorID))
		if err != nil {
			return nil, fmt.Errorf("load vendor %s: %w", o.VendorID, err)
		}
		if v == nil {
			continue
		}
		out.Offers = append(out.Offers, VendorOffer{
			VendorID:   o.VendorID,
			VendorName: v.Name,
			Price:      o.Price,
			Stock:      o.StockStatus,
			District:   v.Address.District,
		})
	}
	sort.SliceStable(out.Offers, func(i, j int) bool { return out.Offers[i].Price < out.Offers[j].Price })
	return out, nil
}

// ListCategories returns categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]entity.Category, error) {
	cs, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := append([]entity.Category{}, cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	c, err := optional(s.store.GetCategoryBySlug(ctx, slug))
	if err != nil {
		return nil, fmt.Errorf("load category %q: %w", slug, err)
	}
	return c, nil
}

// head returns at most limit elements; limit 0 means all. Never returns nil.
func head[T any](in []T, limit int) []T {
	if in == nil {
		return []T{}
	}
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

func optional[T any](doc *T, err error) (*T, error) {
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	return doc, err
}
