package usecase

import (
	"context"
	"fmt"
	"sort"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"
	"boundarycut/internal/shared/logger"
)

// defaultLinkSuffix is used when the request does not override the link
// field naming convention.
const defaultLinkSuffix = "_id"

// RewriteUsecase converts cross-boundary embedded references into
// lightweight links. Rewriting is idempotent: a second application over
// its own output changes nothing.
type RewriteUsecase interface {
	RewriteReferences(ctx context.Context, req RewriteReferencesRequest) (*RewriteReferencesResult, error)
}

type rewriteUsecase struct {
	log logger.Logger
}

// NewRewriteUsecase creates a new instance of RewriteUsecase.
func NewRewriteUsecase(log logger.Logger) RewriteUsecase {
	return &rewriteUsecase{log: log}
}

// RewriteReferences walks every entity through the entity store. A
// reference whose source and target share a boundary is left as declared;
// a reference crossing boundaries keeps only the target's identifier: the
// embedded payload field is replaced by a link field and the embedded flag
// is cleared. Already-lightweight cross-boundary links are untouched.
func (uc *rewriteUsecase) RewriteReferences(ctx context.Context, req RewriteReferencesRequest) (*RewriteReferencesResult, error) {
	if req.Graph == nil || req.Boundaries == nil {
		return nil, errors.NewValidationError("schema graph and boundary set are required").
			WithComponent("RewriteUsecase")
	}
	if req.Store == nil {
		return nil, errors.NewValidationError("entity store is required").
			WithComponent("RewriteUsecase")
	}
	if err := req.Boundaries.Validate(req.Graph); err != nil {
		return nil, errors.WrapError(err, "boundary set does not partition the graph").
			WithComponent("RewriteUsecase")
	}

	suffix := req.LinkSuffix
	if suffix == "" {
		suffix = defaultLinkSuffix
	}

	uc.log.WithContext(ctx).Infof("Rewriting references across %d boundaries", req.Boundaries.Len())

	result := &RewriteReferencesResult{Graph: model.NewSchemaGraph()}
	for _, name := range req.Graph.EntityNames() {
		entity, err := req.Store.ReadEntity(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read entity %q: %w", name, err)
		}

		rewrites, err := uc.rewriteEntity(entity, req.Boundaries, suffix)
		if err != nil {
			return nil, err
		}

		if len(rewrites) > 0 {
			if err := req.Store.WriteEntity(ctx, entity); err != nil {
				return nil, fmt.Errorf("failed to write entity %q: %w", name, err)
			}
			result.Rewrites = append(result.Rewrites, rewrites...)
		}

		if err := result.Graph.AddEntity(entity); err != nil {
			return nil, errors.WrapError(err, "failed to assemble rewritten graph").
				WithComponent("RewriteUsecase")
		}
	}

	sort.Slice(result.Rewrites, func(i, j int) bool {
		if result.Rewrites[i].EntityName != result.Rewrites[j].EntityName {
			return result.Rewrites[i].EntityName < result.Rewrites[j].EntityName
		}
		return result.Rewrites[i].FieldName < result.Rewrites[j].FieldName
	})

	uc.log.WithContext(ctx).Infof("Reference rewrite complete: %d embedded payloads converted to links",
		len(result.Rewrites))
	return result, nil
}

// rewriteEntity converts the entity's cross-boundary embedded references
// in place and reports what changed.
func (uc *rewriteUsecase) rewriteEntity(entity *model.Entity, boundaries *model.BoundarySet, suffix string) ([]FieldRewrite, error) {
	var rewrites []FieldRewrite

	for i := range entity.References {
		ref := &entity.References[i]
		if boundaries.SameBoundary(ref.SourceEntity, ref.TargetEntity) {
			continue
		}
		if !ref.Embedded {
			// Already a lightweight link.
			continue
		}

		field := entity.FieldByName(ref.FieldName)
		if field == nil {
			return nil, errors.NewInternalError(
				fmt.Sprintf("entity %q reference field %q has no matching field", entity.Name, ref.FieldName)).
				WithComponent("RewriteUsecase")
		}

		boundaryID, _ := boundaries.BoundaryOf(entity.Name)
		originalField := ref.FieldName
		linkField := originalField + suffix

		// Drop the embedded payload, keep only the target identifier.
		field.Name = linkField
		field.Type = model.FieldTypeString
		field.EmbeddedEntity = ""
		ref.FieldName = linkField
		ref.Embedded = false

		rewrites = append(rewrites, FieldRewrite{
			EntityName:   entity.Name,
			BoundaryID:   boundaryID,
			FieldName:    originalField,
			LinkField:    linkField,
			TargetEntity: ref.TargetEntity,
			Cardinality:  ref.Cardinality,
		})
	}

	return rewrites, nil
}
