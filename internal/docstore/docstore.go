// Package docstore defines a collection-oriented document store: named
// collections of semi-structured records keyed by store-assigned ids, queried
// through a normalized, backend-agnostic descriptor.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("document not found")

// Document is a semi-structured record. Time values are stored as UTC RFC3339
// strings so range predicates and ordering behave identically across
// backends.
type Document map[string]interface{}

// Snapshot is a document together with its store-assigned id.
type Snapshot struct {
	ID   string
	Data Document
}

// Collection is one named set of documents.
type Collection interface {
	// Add persists a new document and returns its assigned id.
	Add(ctx context.Context, doc Document) (string, error)
	// Get fetches a document by id, ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Snapshot, error)
	// Update merges fields into an existing document, ErrNotFound if absent.
	Update(ctx context.Context, id string, fields Document) error
	// Delete removes a document by id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// Find runs a query and returns matching snapshots in order.
	Find(ctx context.Context, q *Query) ([]*Snapshot, error)
	// Count returns the number of documents matching the predicates,
	// ignoring offset and limit.
	Count(ctx context.Context, preds []Predicate) (int, error)
}

// Store is the external persistence boundary, injected into repositories.
type Store interface {
	Collection(name string) Collection
}

// EncodeTime normalizes a timestamp to its stored representation.
func EncodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// DecodeTime parses a stored timestamp.
func DecodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
