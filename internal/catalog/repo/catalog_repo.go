package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/store"
)

// CatalogRepo reads and seeds vendors, customers, products, categories and
// price offers in Postgres. Nested objects live in JSONB columns.
type CatalogRepo struct {
	db *sqlx.DB
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// EnsureTable creates the catalog tables and their indexes (idempotent).
func (r *CatalogRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name_vi TEXT NOT NULL,
  name_en TEXT,
  slug TEXT NOT NULL,
  parent_id TEXT,
  icon TEXT,
  sort_order INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id);
CREATE INDEX IF NOT EXISTS idx_categories_slug ON categories(slug);

CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL,
  name_vi TEXT NOT NULL,
  name_en TEXT,
  description_vi TEXT,
  description_en TEXT,
  image_url TEXT,
  barcode TEXT,
  category_id TEXT NOT NULL,
  unit TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode);

CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_en TEXT,
  phone TEXT NOT NULL,
  zalo_id TEXT,
  location JSONB NOT NULL,
  address JSONB NOT NULL,
  delivery_radius_km DOUBLE PRECISION NOT NULL DEFAULT 0,
  is_active BOOLEAN NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_vendors_active ON vendors(is_active);

CREATE TABLE IF NOT EXISTS price_offers (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  price BIGINT NOT NULL,
  stock_status TEXT NOT NULL,
  is_available BOOLEAN NOT NULL DEFAULT true,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_price_offers_vendor ON price_offers(vendor_id, is_available);
CREATE INDEX IF NOT EXISTS idx_price_offers_product ON price_offers(product_id, is_available);
CREATE INDEX IF NOT EXISTS idx_price_offers_vendor_product ON price_offers(vendor_id, product_id);

CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  phone TEXT NOT NULL,
  name TEXT,
  email TEXT,
  addresses JSONB NOT NULL DEFAULT '[]'::jsonb,
  preferred_language TEXT NOT NULL DEFAULT 'vi',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const (
	vendorCols   = `id, name, name_en, phone, zalo_id, location, address, delivery_radius_km, is_active, created_at, updated_at`
	customerCols = `id, phone, name, email, addresses, preferred_language, created_at`
	productCols  = `id, sku, name_vi, name_en, description_vi, description_en, image_url, barcode, category_id, unit, created_at, updated_at`
	categoryCols = `id, name_vi, name_en, slug, parent_id, icon, sort_order`
	offerCols    = `id, vendor_id, product_id, price, stock_status, is_available, updated_at`
)

// get runs a single-row query and maps sql.ErrNoRows to store.ErrNoDocument.
func (r *CatalogRepo) get(ctx context.Context, dst any, q string, args ...any) error {
	if err := r.db.GetContext(ctx, dst, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNoDocument
		}
		return err
	}
	return nil
}

func (r *CatalogRepo) GetVendor(ctx context.Context, id string) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := r.get(ctx, &v, `SELECT `+vendorCols+` FROM vendors WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *CatalogRepo) ListActiveVendors(ctx context.Context) ([]entity.Vendor, error) {
	var out []entity.Vendor
	err := r.db.SelectContext(ctx, &out, `SELECT `+vendorCols+` FROM vendors WHERE is_active ORDER BY created_at, id`)
	return out, err
}

// SearchVendors matches active vendors whose name contains term, case-insensitively.
func (r *CatalogRepo) SearchVendors(ctx context.Context, term string, limit int) ([]entity.Vendor, error) {
	var out []entity.Vendor
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+vendorCols+` FROM vendors WHERE is_active AND name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2`,
		escapeLike(term), limit)
	return out, err
}

func (r *CatalogRepo) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.get(ctx, &c, `SELECT `+customerCols+` FROM customers WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if err := r.get(ctx, &p, `SELECT `+productCols+` FROM products WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns all products, or those of one category when categoryID is set.
func (r *CatalogRepo) ListProducts(ctx context.Context, categoryID *string) ([]entity.Product, error) {
	var out []entity.Product
	if categoryID != nil {
		err := r.db.SelectContext(ctx, &out, `SELECT `+productCols+` FROM products WHERE category_id=$1 ORDER BY created_at, id`, *categoryID)
		return out, err
	}
	err := r.db.SelectContext(ctx, &out, `SELECT `+productCols+` FROM products ORDER BY created_at, id`)
	return out, err
}

func (r *CatalogRepo) SearchProducts(ctx context.Context, term string, limit int) ([]entity.Product, error) {
	var out []entity.Product
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+productCols+` FROM products WHERE name_vi ILIKE '%' || $1 || '%' ORDER BY name_vi LIMIT $2`,
		escapeLike(term), limit)
	return out, err
}

func (r *CatalogRepo) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	if err := r.get(ctx, &c, `SELECT `+categoryCols+` FROM categories WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var c entity.Category
	if err := r.get(ctx, &c, `SELECT `+categoryCols+` FROM categories WHERE slug=$1 LIMIT 1`, slug); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var out []entity.Category
	err := r.db.SelectContext(ctx, &out, `SELECT `+categoryCols+` FROM categories`)
	return out, err
}

// ListAvailableOffersByVendor scans the (vendor_id, is_available) index.
func (r *CatalogRepo) ListAvailableOffersByVendor(ctx context.Context, vendorID string) ([]entity.PriceOffer, error) {
	var out []entity.PriceOffer
	err := r.db.SelectContext(ctx, &out, `SELECT `+offerCols+` FROM price_offers WHERE vendor_id=$1 AND is_available ORDER BY id`, vendorID)
	return out, err
}

// ListAvailableOffersByProduct scans the (product_id, is_available) index.
func (r *CatalogRepo) ListAvailableOffersByProduct(ctx context.Context, productID string) ([]entity.PriceOffer, error) {
	var out []entity.PriceOffer
	err := r.db.SelectContext(ctx, &out, `SELECT `+offerCols+` FROM price_offers WHERE product_id=$1 AND is_available ORDER BY id`, productID)
	return out, err
}

func (r *CatalogRepo) InsertVendor(ctx context.Context, v *entity.Vendor) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO vendors (`+vendorCols+`) VALUES
	  (:id, :name, :name_en, :phone, :zalo_id, :location, :address, :delivery_radius_km, :is_active, :created_at, :updated_at)`, v)
	return err
}

func (r *CatalogRepo) InsertCustomer(ctx context.Context, c *entity.Customer) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO customers (`+customerCols+`) VALUES
	  (:id, :phone, :name, :email, :addresses, :preferred_language, :created_at)`, c)
	return err
}

func (r *CatalogRepo) InsertProduct(ctx context.Context, p *entity.Product) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO products (`+productCols+`) VALUES
	  (:id, :sku, :name_vi, :name_en, :description_vi, :description_en, :image_url, :barcode, :category_id, :unit, :created_at, :updated_at)`, p)
	return err
}

func (r *CatalogRepo) InsertCategory(ctx context.Context, c *entity.Category) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO categories (`+categoryCols+`) VALUES
	  (:id, :name_vi, :name_en, :slug, :parent_id, :icon, :sort_order)`, c)
	return err
}

func (r *CatalogRepo) InsertPriceOffer(ctx context.Context, o *entity.PriceOffer) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO price_offers (`+offerCols+`) VALUES
	  (:id, :vendor_id, :product_id, :price, :stock_status, :is_available, :updated_at)`, o)
	return err
}

// DeleteAll clears every catalog table in one transaction.
func (r *CatalogRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, t := range []string{"price_offers", "products", "categories", "customers", "vendors"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}
	return tx.Commit()
}
