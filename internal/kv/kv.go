// Package kv holds the key-value backends the storefront persists into.
// Every value is an opaque byte slice replaced as a whole on write.
package kv

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Backend is a whole-value key-value store.
type Backend interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PutAll replaces several keys in one atomic step.
	PutAll(ctx context.Context, values map[string][]byte) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver   string
	Path     string // sqlite file
	URL      string // mongo or postgres connection string
	Database string // mongo database name
}

// Open connects the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite, "":
		return NewSQLite(opts.Path)
	case DriverMongo:
		return NewMongo(ctx, opts.URL, opts.Database)
	case DriverPostgres:
		return NewPostgres(ctx, opts.URL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
