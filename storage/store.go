// Package storage holds the durable key-value state of the panel: the byte
// level Store backends and the Local adapter that reads and writes record
// collections on top of them.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when a key has never been written
var ErrNotFound = errors.New("storage: key not found")

// Store is a flat key-value store. Values are opaque bytes; Set overwrites.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keys used by the panel
const (
	KeyOrders        = "orders"
	KeyClients       = "clients"
	KeyLoggedIn      = "isAdminLoggedIn"
	KeyCurrentUser   = "adminUser"
	KeySessionToken  = "adminToken"
	KeyAuthSource    = "adminAuthSource"
	KeyDeletedOrders = "deletedOrders"
)
