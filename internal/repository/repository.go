// Package repository defines the generic persistence contract shared by all
// domain repositories: exact-match and inclusive-range filtering, pagination,
// and id generation. Backends must reproduce the filter resolution semantics
// of Criteria exactly; see Condition.Matches for the reference algorithm.
package repository

import "context"

// Entity is anything with a stable unique identifier.
type Entity interface {
	EntityID() string
}

// Pagination slices a result set. Offset past the end yields an empty page.
type Pagination struct {
	Offset int
	Limit  int
}

// Page is a filtered result page. Total counts matches before pagination.
type Page[T any] struct {
	Data  []T
	Total int
}

// Repository is the generic read/write contract over an entity type.
//
// Absent results are signalled with common.ErrNotFound rather than a zero
// value, so callers can distinguish "no match" from storage failures.
type Repository[T Entity] interface {
	// FindOne returns the first entity satisfying all criteria, in the
	// backend's stable ordering. Empty criteria matches everything.
	FindOne(ctx context.Context, criteria Criteria) (T, error)

	// FindByID looks an entity up by its unique id.
	FindByID(ctx context.Context, id string) (T, error)

	// FindAll returns the page-sliced matches plus the pre-pagination total.
	// A nil page returns all matches.
	FindAll(ctx context.Context, criteria Criteria, page *Pagination) (Page[T], error)

	// Save upserts by id: replaces an entity sharing the same id, otherwise
	// appends. Returns the persisted entity.
	Save(ctx context.Context, entity T) (T, error)

	// GenerateID mints a new id, collision-free for the store's lifetime.
	GenerateID() string
}
