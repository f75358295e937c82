// Package docstore defines the document store port used by every repository.
//
// A store holds schemaless documents in named collections. Identifiers are opaque
// strings assigned by the store on create. Implementations live under
// internal/infrastructure/storage (memory, postgres, firestore).
package docstore

import (
	"context"
	"errors"
)

// IDField is the reserved key under which returned documents carry their id.
const IDField = "id"

// Document is a schemaless document body.
// Values are primitives: string, bool, int64, float64 or nil.
type Document map[string]any

// ID returns the id attached by the store, if any.
func (d Document) ID() string {
	s, _ := d[IDField].(string)
	return s
}

var (
	// ErrNotFound is returned by Get and UpdatePartial for a missing id.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrTransport marks failures of the underlying store (network, auth, quota).
	ErrTransport = errors.New("docstore: transport failure")
)

// Store is the document store port.
type Store interface {
	// Create writes doc and returns the store-assigned id.
	Create(ctx context.Context, collection string, doc Document) (string, error)

	// Get returns ErrNotFound when the document is absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// GetMany fetches several documents in one round trip. Missing ids are skipped
	// and the result order is unspecified.
	GetMany(ctx context.Context, collection string, ids []string) ([]Document, error)

	// GetAll returns every document of the collection, unordered.
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// QueryEqual returns documents where field == value.
	QueryEqual(ctx context.Context, collection, field string, value any) ([]Document, error)

	// QueryIn returns documents where field equals any of values.
	QueryIn(ctx context.Context, collection, field string, values []any) ([]Document, error)

	// CountEqual counts documents where field == value without fetching them.
	CountEqual(ctx context.Context, collection, field string, value any) (int, error)

	// UpdatePartial merges patch into the stored document.
	// Returns ErrNotFound when the document is absent.
	UpdatePartial(ctx context.Context, collection, id string, patch Document) error

	// Delete removes the document. A missing id is not an error.
	Delete(ctx context.Context, collection, id string) error

	Close() error
}
