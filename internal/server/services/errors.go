// Package services implements the user service (registration, login) and the
// file service orchestrating the metadata and blob stores.
package services

import (
	"context"
	"errors"

	"github.com/dsmirnov/drivebox/internal/common"
)

// storeErr collapses repository and blob-store failures into the shared
// taxonomy. Raw driver errors never cross the service boundary.
func storeErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, common.ErrUnavailable):
		return common.ErrUnavailable
	case errors.Is(err, common.ErrNotFound):
		return common.ErrNotFound
	case errors.Is(err, common.ErrConflict):
		return common.ErrConflict
	default:
		return common.ErrInternal
	}
}
