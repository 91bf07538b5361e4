// Package users persists user accounts behind the generic repository
// contract. Two backends exist: the generic in-memory store (fixtures and
// tests) and Postgres.
package users

import (
	"github.com/avpetrov/authcore/internal/repository"
	"github.com/avpetrov/authcore/internal/server/models"
)

// Filterable field names, shared by both backends. They double as the
// Postgres column names.
const (
	FieldID           = "id"
	FieldEmail        = "email"
	FieldPasswordHash = "password_hash"
	FieldIsVerified   = "is_verified"
	FieldCreatedAt    = "created_at"
)

type Repository interface {
	repository.Repository[*models.User]
}

// NewInMemoryRepository returns the array-backed fixture store.
func NewInMemoryRepository() *repository.InMemory[*models.User] {
	return repository.NewInMemory((*models.User).Fields)
}
