package entity

import "time"

// Vendor is a mini-market. Its owner is the user whose phone equals Phone;
// there is no foreign key from users to vendors.
type Vendor struct {
	ID               string    `db:"id" json:"id" bson:"_id"`
	Name             string    `db:"name" json:"name" bson:"name"`
	NameEN           *string   `db:"name_en" json:"name_en,omitempty" bson:"name_en,omitempty"`
	Phone            string    `db:"phone" json:"phone" bson:"phone"`
	ZaloID           *string   `db:"zalo_id" json:"zalo_id,omitempty" bson:"zalo_id,omitempty"`
	Location         Location  `db:"location" json:"location" bson:"location"`
	Address          Address   `db:"address" json:"address" bson:"address"`
	DeliveryRadiusKM float64   `db:"delivery_radius_km" json:"delivery_radius_km" bson:"delivery_radius_km"`
	IsActive         bool      `db:"is_active" json:"is_active" bson:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at" bson:"updated_at"`
}

// Customer is a consumer; linked to its user by phone like Vendor.
type Customer struct {
	ID                string            `db:"id" json:"id" bson:"_id"`
	Phone             string            `db:"phone" json:"phone" bson:"phone"`
	Name              *string           `db:"name" json:"name,omitempty" bson:"name,omitempty"`
	Email             *string           `db:"email" json:"email,omitempty" bson:"email,omitempty"`
	Addresses         CustomerAddresses `db:"addresses" json:"addresses" bson:"addresses"`
	PreferredLanguage string            `db:"preferred_language" json:"preferred_language" bson:"preferred_language"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at" bson:"created_at"`
}

type Product struct {
	ID            string    `db:"id" json:"id" bson:"_id"`
	SKU           string    `db:"sku" json:"sku" bson:"sku"`
	NameVI        string    `db:"name_vi" json:"name_vi" bson:"name_vi"`
	NameEN        *string   `db:"name_en" json:"name_en,omitempty" bson:"name_en,omitempty"`
	DescriptionVI *string   `db:"description_vi" json:"description_vi,omitempty" bson:"description_vi,omitempty"`
	DescriptionEN *string   `db:"description_en" json:"description_en,omitempty" bson:"description_en,omitempty"`
	ImageURL      *string   `db:"image_url" json:"image_url,omitempty" bson:"image_url,omitempty"`
	Barcode       *string   `db:"barcode" json:"barcode,omitempty" bson:"barcode,omitempty"`
	CategoryID    string    `db:"category_id" json:"category_id" bson:"category_id"`
	Unit          string    `db:"unit" json:"unit" bson:"unit"`
	CreatedAt     time.Time `db:"created_at" json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at" bson:"updated_at"`
}

type Category struct {
	ID       string  `db:"id" json:"id" bson:"_id"`
	NameVI   string  `db:"name_vi" json:"name_vi" bson:"name_vi"`
	NameEN   *string `db:"name_en" json:"name_en,omitempty" bson:"name_en,omitempty"`
	Slug     string  `db:"slug" json:"slug" bson:"slug"`
	ParentID *string `db:"parent_id" json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Icon     *string `db:"icon" json:"icon,omitempty" bson:"icon,omitempty"`
	Order    int     `db:"sort_order" json:"order" bson:"order"`
}

type StockStatus string

const (
	InStock    StockStatus = "IN_STOCK"
	LowStock   StockStatus = "LOW_STOCK"
	OutOfStock StockStatus = "OUT_OF_STOCK"
)

// PriceOffer is a vendor's price for a product, in whole VND.
type PriceOffer struct {
	ID          string      `db:"id" json:"id" bson:"_id"`
	VendorID    string      `db:"vendor_id" json:"vendor_id" bson:"vendor_id"`
	ProductID   string      `db:"product_id" json:"product_id" bson:"product_id"`
	Price       int64       `db:"price" json:"price" bson:"price"`
	StockStatus StockStatus `db:"stock_status" json:"stock_status" bson:"stock_status"`
	IsAvailable bool        `db:"is_available" json:"is_available" bson:"is_available"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at" bson:"updated_at"`
}
