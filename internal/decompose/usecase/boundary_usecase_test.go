package usecase

import (
	"context"
	"math"
	"testing"

	"boundarycut/internal/decompose/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestGraph(t *testing.T, names ...string) *model.SchemaGraph {
	t.Helper()
	graph := model.NewSchemaGraph()
	for _, name := range names {
		require.NoError(t, graph.AddEntity(&model.Entity{Name: name}))
	}
	return graph
}

func TestBoundaryUsecase_InfiniteThresholdYieldsSingletons(t *testing.T) {
	uc := NewBoundaryUsecase(testLogger())
	graph := buildTestGraph(t, "orders", "users", "invoices")

	matrix := model.NewCoChangeMatrix()
	matrix.Add("orders", "users", 100)
	matrix.Add("orders", "invoices", 100)

	boundaries, err := uc.AnalyzeBoundaries(context.Background(), AnalyzeBoundariesRequest{
		Graph:             graph,
		Matrix:            matrix,
		CoChangeThreshold: math.Inf(1),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, boundaries.Len())
	for _, name := range graph.EntityNames() {
		id, ok := boundaries.BoundaryOf(name)
		require.True(t, ok)
		assert.Equal(t, model.BoundaryIDPrefix+name, id)
	}
}

func TestBoundaryUsecase_ZeroThresholdYieldsMonolith(t *testing.T) {
	uc := NewBoundaryUsecase(testLogger())
	graph := buildTestGraph(t, "orders", "users", "invoices")

	// Co-change data connects every entity.
	matrix := model.NewCoChangeMatrix()
	matrix.Add("orders", "users", 2)
	matrix.Add("users", "invoices", 1)

	boundaries, err := uc.AnalyzeBoundaries(context.Background(), AnalyzeBoundariesRequest{
		Graph:             graph,
		Matrix:            matrix,
		CoChangeThreshold: 0,
	})
	require.NoError(t, err)

	require.Equal(t, 1, boundaries.Len())
	boundary := boundaries.Boundaries()[0]
	assert.Equal(t, model.BoundaryIDPrefix+"invoices", boundary.ID)
	assert.Equal(t, []string{"invoices", "orders", "users"}, boundary.Entities)
}

func TestBoundaryUsecase_NoCoChangeDataStaysSingleton(t *testing.T) {
	uc := NewBoundaryUsecase(testLogger())
	graph := buildTestGraph(t, "orders", "users", "audit_log")

	matrix := model.NewCoChangeMatrix()
	matrix.Add("orders", "users", 10)

	boundaries, err := uc.AnalyzeBoundaries(context.Background(), AnalyzeBoundariesRequest{
		Graph:             graph,
		Matrix:            matrix,
		CoChangeThreshold: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, boundaries.Len())
	id, ok := boundaries.BoundaryOf("audit_log")
	require.True(t, ok)
	assert.Equal(t, model.BoundaryIDPrefix+"audit_log", id)
	assert.True(t, boundaries.SameBoundary("orders", "users"))
}

func TestBoundaryUsecase_MaxBoundaryEntitiesCapsMerging(t *testing.T) {
	uc := NewBoundaryUsecase(testLogger())
	graph := buildTestGraph(t, "a", "b", "c")

	// Everything co-changes heavily, but boundaries above one entity may
	// not merge again.
	matrix := model.NewCoChangeMatrix()
	matrix.Add("a", "b", 10)
	matrix.Add("b", "c", 10)
	matrix.Add("a", "c", 10)

	boundaries, err := uc.AnalyzeBoundaries(context.Background(), AnalyzeBoundariesRequest{
		Graph:               graph,
		Matrix:              matrix,
		CoChangeThreshold:   0.1,
		MaxBoundaryEntities: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, boundaries.Len())
	assert.True(t, boundaries.SameBoundary("a", "b"))
	assert.False(t, boundaries.SameBoundary("a", "c"))
}

func TestBoundaryUsecase_TieBrokenByLexicalOrder(t *testing.T) {
	uc := NewBoundaryUsecase(testLogger())
	graph := buildTestGraph(t, "a", "b", "c", "d")

	// Two candidate merges with identical scores; (a,b) wins lexically.
	matrix := model.NewCoChangeMatrix()
	matrix.Add("c", "d", 5)
	matrix.Add("a", "b", 5)

	boundaries, err := uc.AnalyzeBoundaries(context.Background(), AnalyzeBoundariesRequest{
		Graph:               graph,
		Matrix:              matrix,
		CoChangeThreshold:   0.5,
		MaxBoundaryEntities: 2,
	})
	require.NoError(t, err)

	assert.True(t, boundaries.SameBoundary("a", "b"))
	assert.True(t, boundaries.SameBoundary("c", "d"))
	assert.Equal(t, 2, boundaries.Len())
}

func TestBoundaryUsecase_PartitionInvariant(t *testing.T) {
	uc := NewBoundaryUsecase(testLogger())
	graph := buildTestGraph(t, "orders", "users", "invoices", "products", "audit_log")

	matrix := model.NewCoChangeMatrix()
	matrix.Add("orders", "invoices", 9)
	matrix.Add("orders", "products", 4)
	matrix.Add("users", "orders", 6)

	boundaries, err := uc.AnalyzeBoundaries(context.Background(), AnalyzeBoundariesRequest{
		Graph:             graph,
		Matrix:            matrix,
		CoChangeThreshold: 0.4,
	})
	require.NoError(t, err)

	// Every entity in exactly one boundary.
	require.NoError(t, boundaries.Validate(graph))
	assert.Equal(t, graph.Size(), boundaries.EntityCount())
}

func TestBoundaryUsecase_NilGraphRejected(t *testing.T) {
	uc := NewBoundaryUsecase(testLogger())

	_, err := uc.AnalyzeBoundaries(context.Background(), AnalyzeBoundariesRequest{})
	assert.Error(t, err)
}
