// internal/store/store.go
package store

import (
	"context"
	"errors"

	"grant-portal/internal/models"
)

// ErrDuplicateID is returned by Append when the application id is already
// recorded. Callers may regenerate the id and try again.
var ErrDuplicateID = errors.New("application id already exists")

// ApplicationStore owns the ordered collection of submitted applications.
// List is most recent first and Append always inserts at the head.
type ApplicationStore interface {
	Append(ctx context.Context, app models.Application) (string, error)
	List(ctx context.Context) ([]models.Application, error)
	Stats(ctx context.Context) (models.Stats, error)
	Name() string
}
