package entity

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles. Role and phone are the only
// inputs to authorization decisions.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is an account synced from the external identity provider.
// Subject is the provider's stable user id and is unique.
type User struct {
	ID        string    `db:"id" json:"id" bson:"_id"`
	Subject   string    `db:"subject" json:"subject" bson:"subject"`
	Role      Role      `db:"role" json:"role" bson:"role"`
	Phone     *string   `db:"phone" json:"phone,omitempty" bson:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty" bson:"email,omitempty"`
	Name      *string   `db:"name" json:"name,omitempty" bson:"name,omitempty"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" bson:"updated_at"`
}

// PhoneNumber returns the phone or "" when unset.
func (u *User) PhoneNumber() string {
	if u == nil || u.Phone == nil {
		return ""
	}
	return *u.Phone
}
