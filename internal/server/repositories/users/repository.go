// Package users persists credential records in the document store.
package users

import (
	"context"

	"github.com/dsmirnov/drivebox/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail looks a user up by exact, case-sensitive email match.
	// Returns common.ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
