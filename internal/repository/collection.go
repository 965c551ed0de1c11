package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document matches the given ID.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when the ID is not in the store's identifier format.
	ErrInvalidID = errors.New("invalid document id")
)

// Collection defines data access for one named collection of documents of type T.
// Implementations contain no business logic, strictly persistence operations.
type Collection[T any] interface {
	// FindAll returns every document in the collection. An empty collection yields an empty slice.
	FindAll(ctx context.Context) ([]T, error)

	// FindByID returns the document with the given ID.
	FindByID(ctx context.Context, id string) (*T, error)

	// Insert stores doc under a newly assigned ID and returns the stored document.
	Insert(ctx context.Context, doc T) (*T, error)

	// FindByIDAndUpdate sets the given fields on the document and returns it after the update.
	FindByIDAndUpdate(ctx context.Context, id string, changes map[string]any) (*T, error)

	// FindByIDAndDelete removes the document and returns it as it was before removal.
	FindByIDAndDelete(ctx context.Context, id string) (*T, error)
}
