// Package nodes persists file/folder metadata records in the document store.
package nodes

import (
	"context"

	"github.com/dsmirnov/drivebox/internal/server/models"
)

type Repository interface {
	// Create inserts a new node record.
	Create(ctx context.Context, node *models.Node) error

	// Get returns the node with the given id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Node, error)

	// ListByFolder returns nodes whose folder field equals folder exactly,
	// in the store's natural order.
	ListByFolder(ctx context.Context, folder string) ([]*models.Node, error)

	// Rename updates the filename of an existing node. When no document
	// matches the id it returns common.ErrNotFound.
	Rename(ctx context.Context, id, newName string) error

	// Delete removes the node record. When no document matches the id it
	// returns common.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
