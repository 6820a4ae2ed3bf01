package memory

import (
	"context"
	"fmt"
	"sync"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"
)

// EntityStore is the in-memory entity storage backend. The rewriter runs
// against it during a planning session; entities are cloned on the way in
// and out so callers can never mutate stored state through aliases.
type EntityStore struct {
	mu       sync.RWMutex
	entities map[string]*model.Entity
}

// NewEntityStore creates an empty in-memory entity store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		entities: make(map[string]*model.Entity),
	}
}

// NewEntityStoreFromGraph seeds a store with clones of a graph's entities.
func NewEntityStoreFromGraph(graph *model.SchemaGraph) *EntityStore {
	store := NewEntityStore()
	for _, entity := range graph.Entities() {
		store.entities[entity.Name] = entity.Clone()
	}
	return store
}

// ReadEntity returns a clone of the named entity.
func (s *EntityStore) ReadEntity(ctx context.Context, name string) (*model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[name]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", name, errors.ErrEntityNotFound)
	}
	return entity.Clone(), nil
}

// WriteEntity stores a clone of the entity, replacing any previous version.
func (s *EntityStore) WriteEntity(ctx context.Context, entity *model.Entity) error {
	if entity == nil || entity.Name == "" {
		return errors.NewValidationError("entity name is required").WithComponent("memory.EntityStore")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities[entity.Name] = entity.Clone()
	return nil
}

// Graph materializes the stored entities as a schema graph.
func (s *EntityStore) Graph() *model.SchemaGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph := model.NewSchemaGraph()
	for _, entity := range s.entities {
		// AddEntity only fails on empty or duplicate names, which the
		// store's map keys already rule out.
		_ = graph.AddEntity(entity.Clone())
	}
	return graph
}

// Len returns the number of stored entities.
func (s *EntityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}
