package repository

import (
	"context"

	"boundarycut/internal/decompose/domain/model"
)

// EntityStore is the capability the reference rewriter works through. It
// has exactly two operations; a storage backend implements both and is
// selected at construction time, never swapped mid-run.
type EntityStore interface {
	// ReadEntity returns the named entity, or errors.ErrEntityNotFound.
	ReadEntity(ctx context.Context, name string) (*model.Entity, error)
	// WriteEntity stores the entity, replacing any previous version.
	WriteEntity(ctx context.Context, entity *model.Entity) error
}
