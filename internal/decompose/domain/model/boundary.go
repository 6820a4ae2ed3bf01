package model

import (
	"errors"
	"fmt"
	"sort"
)

// Boundary is a proposed independent service: the set of entities it owns.
type Boundary struct {
	ID       string   `yaml:"id" json:"id"`
	Entities []string `yaml:"entities" json:"entities"`
}

// Contains reports whether the boundary owns the named entity.
func (b *Boundary) Contains(entity string) bool {
	for _, e := range b.Entities {
		if e == entity {
			return true
		}
	}
	return false
}

// Size returns the number of entities owned by the boundary.
func (b *Boundary) Size() int {
	return len(b.Entities)
}

// BoundaryIDPrefix prefixes generated boundary identifiers. A boundary's
// ID is the prefix plus its lowest lexical member name, which keeps merge
// results stable across runs.
const BoundaryIDPrefix = "svc-"

// BoundarySet is the full partition of graph entities into boundaries.
// Invariant: every entity belongs to exactly one boundary.
type BoundarySet struct {
	byEntity   map[string]string
	boundaries map[string]*Boundary
}

// NewBoundarySet creates an empty boundary set.
func NewBoundarySet() *BoundarySet {
	return &BoundarySet{
		byEntity:   make(map[string]string),
		boundaries: make(map[string]*Boundary),
	}
}

// Assign places an entity into the named boundary, creating the boundary
// on first use. Reassigning an entity is an error: boundaries are computed
// once and immutable afterwards.
func (s *BoundarySet) Assign(entity, boundaryID string) error {
	if entity == "" {
		return ErrEmptyEntityName
	}
	if boundaryID == "" {
		return ErrEmptyBoundaryID
	}
	if existing, ok := s.byEntity[entity]; ok {
		return fmt.Errorf("entity %q already assigned to boundary %q: %w", entity, existing, ErrEntityReassigned)
	}
	s.byEntity[entity] = boundaryID

	boundary, ok := s.boundaries[boundaryID]
	if !ok {
		boundary = &Boundary{ID: boundaryID}
		s.boundaries[boundaryID] = boundary
	}
	boundary.Entities = append(boundary.Entities, entity)
	sort.Strings(boundary.Entities)
	return nil
}

// BoundaryOf returns the boundary ID owning the named entity.
func (s *BoundarySet) BoundaryOf(entity string) (string, bool) {
	id, ok := s.byEntity[entity]
	return id, ok
}

// SameBoundary reports whether two entities share a boundary.
func (s *BoundarySet) SameBoundary(a, b string) bool {
	ba, okA := s.byEntity[a]
	bb, okB := s.byEntity[b]
	return okA && okB && ba == bb
}

// Boundary returns the boundary with the given ID, or nil.
func (s *BoundarySet) Boundary(id string) *Boundary {
	return s.boundaries[id]
}

// Boundaries returns all boundaries ordered by ID.
func (s *BoundarySet) Boundaries() []*Boundary {
	ids := s.BoundaryIDs()
	boundaries := make([]*Boundary, 0, len(ids))
	for _, id := range ids {
		boundaries = append(boundaries, s.boundaries[id])
	}
	return boundaries
}

// BoundaryIDs returns all boundary IDs in sorted order.
func (s *BoundarySet) BoundaryIDs() []string {
	ids := make([]string, 0, len(s.boundaries))
	for id := range s.boundaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of boundaries.
func (s *BoundarySet) Len() int {
	return len(s.boundaries)
}

// EntityCount returns the number of assigned entities.
func (s *BoundarySet) EntityCount() int {
	return len(s.byEntity)
}

// Validate checks the partition invariant against a graph: every graph
// entity is assigned to exactly one boundary and no boundary names an
// entity missing from the graph.
func (s *BoundarySet) Validate(graph *SchemaGraph) error {
	for _, name := range graph.EntityNames() {
		if _, ok := s.byEntity[name]; !ok {
			return fmt.Errorf("entity %q has no boundary: %w", name, ErrUnassignedEntity)
		}
	}
	seen := make(map[string]string)
	for id, boundary := range s.boundaries {
		for _, entity := range boundary.Entities {
			if !graph.HasEntity(entity) {
				return fmt.Errorf("boundary %q owns unknown entity %q: %w", id, entity, ErrEntityMissing)
			}
			if prev, ok := seen[entity]; ok {
				return fmt.Errorf("entity %q appears in boundaries %q and %q: %w", entity, prev, id, ErrEntityReassigned)
			}
			seen[entity] = id
		}
	}
	return nil
}

// Boundary validation errors
var (
	ErrEmptyBoundaryID  = errors.New("boundary ID is required")
	ErrEntityReassigned = errors.New("entity assigned to more than one boundary")
	ErrUnassignedEntity = errors.New("entity not assigned to any boundary")
)
