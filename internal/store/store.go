// Package store holds what every document-store backend shares.
package store

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoDocument is returned by point lookups when the id or unique key does not resolve.
var ErrNoDocument = errors.New("no document")

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongo"
	DriverMemory   Driver = "memory"
)

// DriverFromEnv reads STORE_DRIVER, defaulting to postgres.
func DriverFromEnv() (Driver, error) {
	v := os.Getenv("STORE_DRIVER")
	if v == "" {
		return DriverPostgres, nil
	}
	switch d := Driver(v); d {
	case DriverPostgres, DriverMongo, DriverMemory:
		return d, nil
	default:
		return "", fmt.Errorf("unknown STORE_DRIVER %q", v)
	}
}
