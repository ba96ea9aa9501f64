package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalog "github.com/sebkasanzew/comoi/internal/catalog/entity"
)

// Status is the order lifecycle state. PENDING is the only initial state;
// COMPLETED and CANCELLED are terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPreparing  Status = "PREPARING"
	StatusReady      Status = "READY"
	StatusDelivering Status = "DELIVERING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivering,
	StatusCompleted,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

type PaymentMethod string

const (
	PaymentMoMo  PaymentMethod = "MOMO"
	PaymentVNPay PaymentMethod = "VNPAY"
	PaymentPayOS PaymentMethod = "PAYOS"
	PaymentCOD   PaymentMethod = "COD"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

type DeliveryAddress struct {
	Location catalog.Location `json:"location" bson:"location"`
	Address  catalog.Address  `json:"address" bson:"address"`
}

func (d DeliveryAddress) Value() (driver.Value, error) { return json.Marshal(d) }

func (d *DeliveryAddress) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into DeliveryAddress", src)
	}
}

// Order amounts are whole VND. Only Status and UpdatedAt change after creation.
type Order struct {
	ID               string          `db:"id" json:"id" bson:"_id"`
	CustomerID       string          `db:"customer_id" json:"customer_id" bson:"customer_id"`
	VendorID         string          `db:"vendor_id" json:"vendor_id" bson:"vendor_id"`
	Status           Status          `db:"status" json:"status" bson:"status"`
	PaymentMethod    PaymentMethod   `db:"payment_method" json:"payment_method" bson:"payment_method"`
	PaymentStatus    PaymentStatus   `db:"payment_status" json:"payment_status" bson:"payment_status"`
	PaymentReference *string         `db:"payment_reference" json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`
	Subtotal         int64           `db:"subtotal" json:"subtotal" bson:"subtotal"`
	DeliveryFee      int64           `db:"delivery_fee" json:"delivery_fee" bson:"delivery_fee"`
	Total            int64           `db:"total" json:"total" bson:"total"`
	DeliveryAddress  DeliveryAddress `db:"delivery_address" json:"delivery_address" bson:"delivery_address"`
	Notes            *string         `db:"notes" json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at" bson:"updated_at"`
}

// Item is one order line. Created with its order and never mutated.
type Item struct {
	ID         string `db:"id" json:"id" bson:"_id"`
	OrderID    string `db:"order_id" json:"order_id" bson:"order_id"`
	ProductID  string `db:"product_id" json:"product_id" bson:"product_id"`
	VendorID   string `db:"vendor_id" json:"vendor_id" bson:"vendor_id"`
	Quantity   int    `db:"quantity" json:"quantity" bson:"quantity"`
	UnitPrice  int64  `db:"unit_price" json:"unit_price" bson:"unit_price"`
	TotalPrice int64  `db:"total_price" json:"total_price" bson:"total_price"`
}

var (
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	ErrItemTotalMismatch   = errors.New("total_price must equal quantity * unit_price")
	ErrNoItems             = errors.New("order has no items")
	ErrOrderTotalMismatch  = errors.New("order totals do not add up")
)

// Validate checks the creation-time invariants of a line.
func (i Item) Validate() error {
	if i.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if i.TotalPrice != int64(i.Quantity)*i.UnitPrice {
		return ErrItemTotalMismatch
	}
	return nil
}

// ValidateNew checks an order about to be inserted together with its items:
// at least one item, every item valid and belonging to the order and its
// vendor, subtotal equal to the item sum and total = subtotal + delivery fee.
func ValidateNew(o Order, items []Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	var sum int64
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %s: %w", it.ID, err)
		}
		if it.OrderID != o.ID || it.VendorID != o.VendorID {
			return fmt.Errorf("item %s does not belong to order %s", it.ID, o.ID)
		}
		sum += it.TotalPrice
	}
	if sum != o.Subtotal || o.Subtotal+o.DeliveryFee != o.Total {
		return ErrOrderTotalMismatch
	}
	if o.Status != StatusPending {
		return fmt.Errorf("new order must start %s, got %s", StatusPending, o.Status)
	}
	return nil
}
