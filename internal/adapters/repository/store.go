// Package repository holds the active venue table as an immutable snapshot.
package repository

import (
	"context"
	"time"

	"github.com/okian/barhop/internal/domain/model"
)

// Filter narrows a venue listing. Zero values match everything.
type Filter struct {
	Style string
	Music string
	// Limit caps the result size; 0 means no cap.
	Limit int
}

// Store provides read access to the active venue table and a way to swap it.
type Store interface {
	// All returns the full table. Callers must treat it as read-only.
	All(ctx context.Context) []model.Venue
	// Get returns one venue or ErrNotFound.
	Get(ctx context.Context, id string) (model.Venue, error)
	// Find returns venues matching f in table order.
	Find(ctx context.Context, f Filter) ([]model.Venue, error)
	// Count returns the number of venues in the table.
	Count(ctx context.Context) int
	// Replace publishes a new table atomically.
	Replace(ctx context.Context, venues []model.Venue) error
	// LoadedAt reports when the current table was published; zero if never.
	LoadedAt() time.Time
}
