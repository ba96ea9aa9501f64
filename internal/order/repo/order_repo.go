package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/store"
)

// OrderRepo provides data access for orders and order_items using sqlx.
type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// EnsureTable creates orders and order_items with their indexes (idempotent).
func (r *OrderRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  payment_reference TEXT,
  subtotal BIGINT NOT NULL,
  delivery_fee BIGINT NOT NULL,
  total BIGINT NOT NULL,
  delivery_address JSONB NOT NULL,
  notes TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at);
CREATE INDEX IF NOT EXISTS idx_orders_vendor ON orders(vendor_id, status);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  quantity INT NOT NULL CHECK (quantity > 0),
  unit_price BIGINT NOT NULL,
  total_price BIGINT NOT NULL,
  CHECK (total_price = quantity * unit_price)
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const (
	orderCols = `id, customer_id, vendor_id, status, payment_method, payment_status, payment_reference,
		subtotal, delivery_fee, total, delivery_address, notes, created_at, updated_at`
	itemCols = `id, order_id, product_id, vendor_id, quantity, unit_price, total_price`
)

// GetOrder returns store.ErrNoDocument when id does not resolve.
func (r *OrderRepo) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	if err := r.db.GetContext(ctx, &o, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoDocument
		}
		return nil, err
	}
	return &o, nil
}

// ListOrdersByVendor scans idx_orders_vendor, on (vendor_id, status) when
// status is set and on its vendor_id prefix otherwise. No ordering is implied.
func (r *OrderRepo) ListOrdersByVendor(ctx context.Context, vendorID string, status *entity.Status) ([]entity.Order, error) {
	var out []entity.Order
	if status != nil {
		err := r.db.SelectContext(ctx, &out, `SELECT `+orderCols+` FROM orders WHERE vendor_id=$1 AND status=$2`, vendorID, string(*status))
		return out, err
	}
	err := r.db.SelectContext(ctx, &out, `SELECT `+orderCols+` FROM orders WHERE vendor_id=$1`, vendorID)
	return out, err
}

func (r *OrderRepo) ListItemsByOrder(ctx context.Context, orderID string) ([]entity.Item, error) {
	var out []entity.Item
	err := r.db.SelectContext(ctx, &out, `SELECT `+itemCols+` FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	return out, err
}

// PatchOrderStatus sets status and updated_at only. Last write wins.
func (r *OrderRepo) PatchOrderStatus(ctx context.Context, id string, status entity.Status, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1`, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNoDocument
	}
	return nil
}

// InsertOrder writes an order and its items in one transaction.
func (r *OrderRepo) InsertOrder(ctx context.Context, o *entity.Order, items []entity.Item) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `INSERT INTO orders (`+orderCols+`) VALUES
	  (:id, :customer_id, :vendor_id, :status, :payment_method, :payment_status, :payment_reference,
	   :subtotal, :delivery_fee, :total, :delivery_address, :notes, :created_at, :updated_at)`, o); err != nil {
		return err
	}
	for i := range items {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO order_items (`+itemCols+`) VALUES
		  (:id, :order_id, :product_id, :vendor_id, :quantity, :unit_price, :total_price)`, &items[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteAll removes every order; items go with them through ON DELETE CASCADE.
func (r *OrderRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders`)
	return err
}
