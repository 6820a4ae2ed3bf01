package usecase

import (
	"context"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"
	"boundarycut/internal/shared/logger"
)

// GraphUsecase builds the entity/reference graph from a schema description.
type GraphUsecase interface {
	BuildGraph(ctx context.Context, req BuildGraphRequest) (*model.SchemaGraph, error)
}

type graphUsecase struct {
	log logger.Logger
}

// NewGraphUsecase creates a new instance of GraphUsecase.
func NewGraphUsecase(log logger.Logger) GraphUsecase {
	return &graphUsecase{log: log}
}

// BuildGraph derives the entity/reference graph from the input
// descriptions. Embedded sub-structures sharing a name with a known entity
// become embedded references; declared reference fields become lightweight
// link references. A reference to an entity absent from the input aborts
// the run.
func (uc *graphUsecase) BuildGraph(ctx context.Context, req BuildGraphRequest) (*model.SchemaGraph, error) {
	uc.log.WithContext(ctx).Infof("Building schema graph from %d entity descriptions", len(req.Descriptions))

	if len(req.Descriptions) == 0 {
		return nil, errors.NewInvalidSchemaError("", "schema description contains no entities").
			WithComponent("GraphUsecase").
			WithCause(errors.ErrEmptySchema)
	}

	known := make(map[string]bool, len(req.Descriptions))
	for _, desc := range req.Descriptions {
		if desc.Name == "" {
			return nil, errors.NewInvalidSchemaError("", "entity name is required").
				WithComponent("GraphUsecase")
		}
		if known[desc.Name] {
			return nil, errors.NewInvalidSchemaError(desc.Name, "duplicate entity name").
				WithComponent("GraphUsecase")
		}
		known[desc.Name] = true
	}

	graph := model.NewSchemaGraph()
	for _, desc := range req.Descriptions {
		entity, err := uc.buildEntity(desc, known)
		if err != nil {
			uc.log.WithContext(ctx).Errorf("Failed to build entity %q: %v", desc.Name, err)
			return nil, err
		}
		if err := graph.AddEntity(entity); err != nil {
			return nil, errors.NewInvalidSchemaError(desc.Name, err.Error()).
				WithComponent("GraphUsecase").
				WithCause(err)
		}
	}

	uc.log.WithContext(ctx).Infof("Schema graph built: %d entities, %d references",
		graph.Size(), len(graph.References()))
	return graph, nil
}

// buildEntity converts one description into an entity with its outgoing
// references resolved against the set of known entity names.
func (uc *graphUsecase) buildEntity(desc model.EntityDescription, known map[string]bool) (*model.Entity, error) {
	entity := &model.Entity{Name: desc.Name}

	for _, field := range desc.Fields {
		if field.Name == "" {
			return nil, errors.NewInvalidSchemaError(desc.Name, "field name is required").
				WithComponent("GraphUsecase")
		}
		if field.IsReference() && field.IsEmbedded() {
			return nil, errors.NewInvalidSchemaError(desc.Name,
				"field "+field.Name+" declares both a reference and an embedded sub-structure").
				WithComponent("GraphUsecase")
		}

		cardinality, err := parseCardinality(field.Cardinality)
		if err != nil {
			return nil, errors.NewInvalidSchemaError(desc.Name,
				"field "+field.Name+" has invalid cardinality "+field.Cardinality).
				WithComponent("GraphUsecase").
				WithCause(err)
		}

		switch {
		case field.IsReference():
			// Foreign-key-like field: a lightweight link to another entity.
			if !known[field.References] {
				return nil, errors.NewUnresolvedReferenceError(desc.Name, field.Name, field.References).
					WithComponent("GraphUsecase")
			}
			entity.Fields = append(entity.Fields, model.Field{
				Name: field.Name,
				Type: field.Type,
			})
			entity.References = append(entity.References, model.Reference{
				SourceEntity: desc.Name,
				TargetEntity: field.References,
				FieldName:    field.Name,
				Cardinality:  cardinality,
				Embedded:     false,
			})

		case field.IsEmbedded() && known[field.Name]:
			// Embedded sub-document sharing a name with a known entity:
			// a physically duplicated copy of that entity.
			entity.Fields = append(entity.Fields, model.Field{
				Name:           field.Name,
				Type:           model.FieldTypeDocument,
				EmbeddedEntity: field.Name,
			})
			entity.References = append(entity.References, model.Reference{
				SourceEntity: desc.Name,
				TargetEntity: field.Name,
				FieldName:    field.Name,
				Cardinality:  cardinality,
				Embedded:     true,
			})

		default:
			// Plain field, or a nested structure that matches no entity.
			entity.Fields = append(entity.Fields, model.Field{
				Name: field.Name,
				Type: field.Type,
			})
		}
	}

	return entity, nil
}

// parseCardinality maps the declared cardinality string to its model
// value, defaulting to "one" when unset.
func parseCardinality(raw string) (model.Cardinality, error) {
	if raw == "" {
		return model.CardinalityOne, nil
	}
	c := model.Cardinality(raw)
	if !c.IsValid() {
		return "", model.ErrInvalidCardinality
	}
	return c, nil
}
