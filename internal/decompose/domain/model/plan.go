package model

import (
	"errors"
	"fmt"
	"time"
)

// TransformKind identifies a field-level or boundary-level transformation.
type TransformKind string

const (
	// TransformExtractEntities moves a boundary's entities into their own
	// service-owned collection set.
	TransformExtractEntities TransformKind = "extract_entities"
	// TransformAbsorbEntities is the inverse of extraction: the entities
	// are folded back into the monolith.
	TransformAbsorbEntities TransformKind = "absorb_entities"
	// TransformConvertToLink replaces an embedded payload field with a
	// lightweight link storing only the target's identifier.
	TransformConvertToLink TransformKind = "convert_to_link"
	// TransformRestoreEmbedded is the inverse of link conversion: the
	// embedded payload is re-materialized from the linked target.
	TransformRestoreEmbedded TransformKind = "restore_embedded"
)

// Transform describes one mechanical schema change. The executor applies
// transforms verbatim in either direction, so the rollback of a step is
// itself a Transform rather than a textual undo script.
type Transform struct {
	Kind         TransformKind `yaml:"kind" json:"kind"`
	FieldName    string        `yaml:"fieldName,omitempty" json:"fieldName,omitempty"`
	LinkField    string        `yaml:"linkField,omitempty" json:"linkField,omitempty"`
	TargetEntity string        `yaml:"targetEntity,omitempty" json:"targetEntity,omitempty"`
	Entities     []string      `yaml:"entities,omitempty" json:"entities,omitempty"`
}

// Equal reports whether two transforms are identical.
func (t Transform) Equal(other Transform) bool {
	if t.Kind != other.Kind || t.FieldName != other.FieldName ||
		t.LinkField != other.LinkField || t.TargetEntity != other.TargetEntity {
		return false
	}
	if len(t.Entities) != len(other.Entities) {
		return false
	}
	for i := range t.Entities {
		if t.Entities[i] != other.Entities[i] {
			return false
		}
	}
	return true
}

// Inverse returns the transform that undoes this one.
func (t Transform) Inverse() Transform {
	inv := t
	switch t.Kind {
	case TransformExtractEntities:
		inv.Kind = TransformAbsorbEntities
	case TransformAbsorbEntities:
		inv.Kind = TransformExtractEntities
	case TransformConvertToLink:
		inv.Kind = TransformRestoreEmbedded
	case TransformRestoreEmbedded:
		inv.Kind = TransformConvertToLink
	}
	return inv
}

// MigrationStep is one reversible unit of the migration plan. EntityName
// is empty for boundary-level steps such as extraction.
type MigrationStep struct {
	ID         string    `yaml:"id" json:"id"`
	BoundaryID string    `yaml:"boundaryId" json:"boundaryId"`
	EntityName string    `yaml:"entityName,omitempty" json:"entityName,omitempty"`
	Forward    Transform `yaml:"forward" json:"forward"`
	Rollback   Transform `yaml:"rollback" json:"rollback"`
}

// RewritePlan is the ordered migration plan consumed by an external
// executor. Ordering invariant: a step referencing entity E appears after
// the step that extracted (normalized) E.
type RewritePlan struct {
	ID         string          `yaml:"id" json:"id"`
	CreatedAt  time.Time       `yaml:"createdAt" json:"createdAt"`
	Boundaries []Boundary      `yaml:"boundaries" json:"boundaries"`
	Steps      []MigrationStep `yaml:"steps" json:"steps"`
}

// Validate checks the step ordering invariant: every entity referenced by
// a field-level step must already have been extracted, and each rollback
// must be the exact inverse of its forward transform.
func (p *RewritePlan) Validate() error {
	extracted := make(map[string]bool)
	for i, step := range p.Steps {
		if !step.Rollback.Equal(step.Forward.Inverse()) {
			return fmt.Errorf("step %d (%s): %w", i, step.ID, ErrRollbackMismatch)
		}
		switch step.Forward.Kind {
		case TransformExtractEntities:
			for _, entity := range step.Forward.Entities {
				extracted[entity] = true
			}
		case TransformConvertToLink:
			if !extracted[step.EntityName] {
				return fmt.Errorf("step %d references entity %q before extraction: %w", i, step.EntityName, ErrStepOutOfOrder)
			}
			if !extracted[step.Forward.TargetEntity] {
				return fmt.Errorf("step %d links to entity %q before extraction: %w", i, step.Forward.TargetEntity, ErrStepOutOfOrder)
			}
		}
	}
	return nil
}

// StepsForBoundary returns the plan steps targeting one boundary, in plan
// order.
func (p *RewritePlan) StepsForBoundary(boundaryID string) []MigrationStep {
	var steps []MigrationStep
	for _, step := range p.Steps {
		if step.BoundaryID == boundaryID {
			steps = append(steps, step)
		}
	}
	return steps
}

// Plan validation errors
var (
	ErrStepOutOfOrder   = errors.New("migration step out of dependency order")
	ErrRollbackMismatch = errors.New("rollback is not the inverse of the forward transform")
)
