// Package store persists contacts.
//
// Three backends implement Store: a pgx backend (Postgres), a gorm backend
// over the same PostgreSQL pool (Gorm) and an in-process map (Memory). Open
// selects one from configuration. All backends assign IDs themselves,
// return core.ErrNotFound from Get for unknown IDs, report a missing row on
// Update or Delete as false, and wrap medium failures in *core.StorageError.
package store

import (
	"context"

	"github.com/JonMunkholm/contacts/internal/core"
)

// Store is the contact persistence contract.
type Store interface {
	// Create ignores c.ContactID, assigns a fresh ID, persists the record
	// and writes the new ID back into c.
	Create(ctx context.Context, c *core.Contact) (core.ContactID, error)

	// Get returns the contact with id, or core.ErrNotFound.
	Get(ctx context.Context, id core.ContactID) (*core.Contact, error)

	// List returns every contact in ascending ID order.
	List(ctx context.Context) ([]*core.Contact, error)

	// Update replaces all mutable fields of the record with c.ContactID.
	// It reports whether exactly one record was changed.
	Update(ctx context.Context, c *core.Contact) (bool, error)

	// Delete removes the record with id and reports whether one existed.
	Delete(ctx context.Context, id core.ContactID) (bool, error)

	// Close releases the backend's connections.
	Close() error
}
