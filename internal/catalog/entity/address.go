package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Address is a Vietnamese street address. Raw keeps the user's original input.
type Address struct {
	Street   string `json:"street" bson:"street"`
	Ward     string `json:"ward" bson:"ward"`
	District string `json:"district" bson:"district"`
	City     string `json:"city" bson:"city"`
	Raw      string `json:"raw" bson:"raw"`
}

// CustomerAddress is one saved delivery address of a customer.
type CustomerAddress struct {
	ID        string   `json:"id" bson:"id"`
	Label     string   `json:"label" bson:"label"`
	Location  Location `json:"location" bson:"location"`
	Address   Address  `json:"address" bson:"address"`
	IsDefault bool     `json:"is_default" bson:"is_default"`
}

// CustomerAddresses is stored as a JSONB array in Postgres.
type CustomerAddresses []CustomerAddress

func (l Location) Value() (driver.Value, error)          { return json.Marshal(l) }
func (a Address) Value() (driver.Value, error)           { return json.Marshal(a) }
func (c CustomerAddresses) Value() (driver.Value, error) { return json.Marshal(c) }

func (l *Location) Scan(src any) error          { return scanJSON(src, l) }
func (a *Address) Scan(src any) error           { return scanJSON(src, a) }
func (c *CustomerAddresses) Scan(src any) error { return scanJSON(src, c) }

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
}
