package model

import (
	"errors"
	"sort"
)

// SchemaGraph is the entity/reference graph shared by the pipeline stages.
// It is an explicit object passed by reference through the pipeline, never
// package state. Iteration helpers return entity names in sorted order so
// every stage is deterministic.
type SchemaGraph struct {
	entities map[string]*Entity
}

// NewSchemaGraph creates an empty schema graph.
func NewSchemaGraph() *SchemaGraph {
	return &SchemaGraph{
		entities: make(map[string]*Entity),
	}
}

// AddEntity inserts an entity into the graph.
func (g *SchemaGraph) AddEntity(entity *Entity) error {
	if entity == nil || entity.Name == "" {
		return ErrEmptyEntityName
	}
	if _, exists := g.entities[entity.Name]; exists {
		return ErrDuplicateEntity
	}
	g.entities[entity.Name] = entity
	return nil
}

// Entity returns the entity with the given name, or nil.
func (g *SchemaGraph) Entity(name string) *Entity {
	return g.entities[name]
}

// HasEntity reports whether the graph contains the named entity.
func (g *SchemaGraph) HasEntity(name string) bool {
	_, ok := g.entities[name]
	return ok
}

// Size returns the number of entities in the graph.
func (g *SchemaGraph) Size() int {
	return len(g.entities)
}

// EntityNames returns all entity names in sorted order.
func (g *SchemaGraph) EntityNames() []string {
	names := make([]string, 0, len(g.entities))
	for name := range g.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entities returns all entities ordered by name.
func (g *SchemaGraph) Entities() []*Entity {
	names := g.EntityNames()
	entities := make([]*Entity, 0, len(names))
	for _, name := range names {
		entities = append(entities, g.entities[name])
	}
	return entities
}

// References returns every reference in the graph, ordered by source
// entity name and then field name.
func (g *SchemaGraph) References() []Reference {
	var refs []Reference
	for _, entity := range g.Entities() {
		refs = append(refs, entity.References...)
	}
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].SourceEntity != refs[j].SourceEntity {
			return refs[i].SourceEntity < refs[j].SourceEntity
		}
		return refs[i].FieldName < refs[j].FieldName
	})
	return refs
}

// OutgoingReferences returns the references declared by the named entity.
func (g *SchemaGraph) OutgoingReferences(name string) []Reference {
	entity := g.entities[name]
	if entity == nil {
		return nil
	}
	refs := make([]Reference, len(entity.References))
	copy(refs, entity.References)
	return refs
}

// Clone returns a deep copy of the graph.
func (g *SchemaGraph) Clone() *SchemaGraph {
	clone := NewSchemaGraph()
	for name, entity := range g.entities {
		clone.entities[name] = entity.Clone()
	}
	return clone
}

// Equal reports whether two graphs contain identical entities.
func (g *SchemaGraph) Equal(other *SchemaGraph) bool {
	if other == nil || len(g.entities) != len(other.entities) {
		return false
	}
	for name, entity := range g.entities {
		if !entity.Equal(other.entities[name]) {
			return false
		}
	}
	return true
}

// Graph validation errors
var (
	ErrEntityMissing = errors.New("entity missing from graph")
)
