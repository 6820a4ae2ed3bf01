package usecase

import (
	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/decompose/domain/repository"
)

// Request/Response DTOs - Centralized type definitions

// Graph builder
type BuildGraphRequest struct {
	Descriptions []model.EntityDescription `json:"descriptions" validate:"required"`
}

// Boundary analyzer
type AnalyzeBoundariesRequest struct {
	Graph               *model.SchemaGraph    `json:"-" validate:"required"`
	Matrix              *model.CoChangeMatrix `json:"-"`
	CoChangeThreshold   float64               `json:"cochangeThreshold"`
	MaxBoundaryEntities int                   `json:"maxBoundaryEntities"`
}

// Reference rewriter
type RewriteReferencesRequest struct {
	Graph      *model.SchemaGraph     `json:"-" validate:"required"`
	Boundaries *model.BoundarySet     `json:"-" validate:"required"`
	Store      repository.EntityStore `json:"-" validate:"required"`
	LinkSuffix string                 `json:"linkSuffix,omitempty"`
}

type RewriteReferencesResult struct {
	Graph    *model.SchemaGraph `json:"-"`
	Rewrites []FieldRewrite     `json:"rewrites"`
}

// FieldRewrite records one embedded payload converted to a lightweight
// link, for the planner to sequence.
type FieldRewrite struct {
	EntityName   string            `json:"entityName"`
	BoundaryID   string            `json:"boundaryId"`
	FieldName    string            `json:"fieldName"`
	LinkField    string            `json:"linkField"`
	TargetEntity string            `json:"targetEntity"`
	Cardinality  model.Cardinality `json:"cardinality"`
}

// Migration planner
type PlanMigrationRequest struct {
	Graph      *model.SchemaGraph `json:"-" validate:"required"`
	Boundaries *model.BoundarySet `json:"-" validate:"required"`
	Rewrites   []FieldRewrite     `json:"rewrites"`
}
