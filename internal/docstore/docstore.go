// Package docstore is the boundary to the hierarchical document database.
// Documents live under slash-separated collection paths
// (users/{uid}/patients/{pid}/{testType}) and carry snake_case field names;
// the codec converts to and from camelCase struct fields.
package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document exists at the requested key
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned by strict creates when the key is taken
	ErrConflict = errors.New("document already exists")
)

// Document pairs a store-assigned id with the raw snake_case field map
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document database capability. Implementations must assign
// ids on Add, honor strict creates, and return query results in ascending
// order of the named field.
type Store interface {
	// Create writes a document at an explicit id; fails with ErrConflict
	// if one already exists (no merge, no overwrite).
	Create(ctx context.Context, path, id string, data map[string]any) error

	// Get retrieves one document; ErrNotFound when absent.
	Get(ctx context.Context, path, id string) (map[string]any, error)

	// Add appends a document with a store-assigned id and returns it.
	Add(ctx context.Context, path string, data map[string]any) (string, error)

	// Update merges the given fields into an existing document;
	// ErrNotFound when absent.
	Update(ctx context.Context, path, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent id is a no-op.
	Delete(ctx context.Context, path, id string) error

	// Query returns every document in a collection. With a non-empty
	// orderBy the results are sorted ascending by that field; otherwise
	// the store's insertion order is used.
	Query(ctx context.Context, path, orderBy string) ([]Document, error)
}
