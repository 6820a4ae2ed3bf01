package repository

import (
	"context"

	"boundarycut/internal/decompose/domain/model"
)

// SchemaSource loads the schema description the pipeline analyzes. Reading
// the description is the only input I/O of a run and is treated as an
// external collaborator.
type SchemaSource interface {
	Load(ctx context.Context) (*model.SchemaDescription, error)
}

// PlanSink persists the generated migration plan for the external
// migration executor.
type PlanSink interface {
	Write(ctx context.Context, plan *model.RewritePlan) error
}
