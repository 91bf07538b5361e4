package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/avpetrov/authcore/internal/common"
)

// FieldFunc exposes an entity's filterable fields by name, keyed the same way
// the SQL backend names its columns.
type FieldFunc[T Entity] func(T) map[string]any

// InMemory is an array-backed Repository used for fixtures and tests.
// Entities keep insertion order, which is the store's stable ordering.
// A single mutex guards the slice; it is not meant for write-heavy
// concurrent use.
type InMemory[T Entity] struct {
	mu     sync.Mutex
	items  []T
	fields FieldFunc[T]
}

func NewInMemory[T Entity](fields FieldFunc[T]) *InMemory[T] {
	return &InMemory[T]{fields: fields}
}

func (s *InMemory[T]) FindOne(ctx context.Context, criteria Criteria) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if criteria.MatchesFields(s.fields(item)) {
			return item, nil
		}
	}
	var zero T
	return zero, common.ErrNotFound
}

func (s *InMemory[T]) FindByID(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.EntityID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, common.ErrNotFound
}

func (s *InMemory[T]) FindAll(ctx context.Context, criteria Criteria, page *Pagination) (Page[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []T
	for _, item := range s.items {
		if criteria.MatchesFields(s.fields(item)) {
			matched = append(matched, item)
		}
	}

	total := len(matched)

	if page != nil {
		if page.Offset >= total {
			matched = nil
		} else {
			end := page.Offset + page.Limit
			if end > total {
				end = total
			}
			matched = matched[page.Offset:end]
		}
	}

	return Page[T]{Data: matched, Total: total}, nil
}

func (s *InMemory[T]) Save(ctx context.Context, entity T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.EntityID() == entity.EntityID() {
			s.items[i] = entity
			return entity, nil
		}
	}
	s.items = append(s.items, entity)
	return entity, nil
}

func (s *InMemory[T]) GenerateID() string {
	return uuid.NewString()
}
