package usecase

import (
	"context"
	"testing"

	"boundarycut/internal/decompose/adapter/persistence/memory"
	"boundarycut/internal/decompose/config"
	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/decompose/domain/repository"
	"boundarycut/internal/shared/errors"
	"boundarycut/internal/shared/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSchemaSource struct {
	description *model.SchemaDescription
	err         error
}

func (s *stubSchemaSource) Load(ctx context.Context) (*model.SchemaDescription, error) {
	return s.description, s.err
}

type capturePlanSink struct {
	plan *model.RewritePlan
	err  error
}

func (s *capturePlanSink) Write(ctx context.Context, plan *model.RewritePlan) error {
	s.plan = plan
	return s.err
}

func newTestPipeline(cfg *config.DecomposeConfig, source repository.SchemaSource, sink repository.PlanSink, bus eventbus.EventBusInterface) PipelineUsecase {
	log := testLogger()
	return NewPipelineUsecase(
		cfg, source, sink,
		func(graph *model.SchemaGraph) repository.EntityStore {
			return memory.NewEntityStoreFromGraph(graph)
		},
		NewGraphUsecase(log),
		NewBoundaryUsecase(log),
		NewRewriteUsecase(log),
		NewPlanUsecase(log),
		bus, log,
	)
}

func ordersUsersDescription() *model.SchemaDescription {
	return &model.SchemaDescription{
		Entities: []model.EntityDescription{
			{
				Name: "orders",
				Fields: []model.FieldDescription{
					{Name: "total", Type: model.FieldTypeNumber},
					{Name: "userId", Type: model.FieldTypeString, References: "users"},
				},
			},
			{Name: "users", Fields: []model.FieldDescription{{Name: "email"}}},
		},
		CoChange: []model.CoChangePair{
			{A: "orders", B: "users", Count: 1},
		},
	}
}

func TestPipelineUsecase_RunEndToEnd(t *testing.T) {
	cfg := config.DefaultDecomposeConfig()
	// Threshold excludes merging orders and users.
	cfg.Analyzer.CoChangeThreshold = 2

	source := &stubSchemaSource{description: ordersUsersDescription()}
	sink := &capturePlanSink{}

	bus := eventbus.NewEventBus(nil)
	var events []string
	for _, eventType := range []string{
		eventbus.EventTypeStageStarted,
		eventbus.EventTypeStageCompleted,
		eventbus.EventTypeStageFailed,
		eventbus.EventTypePlanGenerated,
	} {
		bus.Subscribe(eventType, func(ctx context.Context, event eventbus.Event) error {
			events = append(events, event.Type())
			return nil
		})
	}

	plan, err := newTestPipeline(cfg, source, sink, bus).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, plan, sink.plan)

	t.Run("boundaries stay separate and link is preserved", func(t *testing.T) {
		require.Len(t, plan.Boundaries, 2)
		assert.Equal(t, []string{"orders"}, plan.Boundaries[0].Entities)
		assert.Equal(t, []string{"users"}, plan.Boundaries[1].Entities)

		// Orders.userId was already a lightweight link, so no field
		// conversion step is needed.
		for _, step := range plan.Steps {
			assert.Equal(t, model.TransformExtractEntities, step.Forward.Kind)
		}
	})

	t.Run("users is planned before orders", func(t *testing.T) {
		require.Len(t, plan.Steps, 2)
		assert.Equal(t, model.BoundaryIDPrefix+"users", plan.Steps[0].BoundaryID)
		assert.Equal(t, model.BoundaryIDPrefix+"orders", plan.Steps[1].BoundaryID)
	})

	t.Run("stage events published in order", func(t *testing.T) {
		assert.Equal(t, []string{
			eventbus.EventTypeStageStarted, eventbus.EventTypeStageCompleted,
			eventbus.EventTypeStageStarted, eventbus.EventTypeStageCompleted,
			eventbus.EventTypeStageStarted, eventbus.EventTypeStageCompleted,
			eventbus.EventTypeStageStarted, eventbus.EventTypeStageCompleted,
			eventbus.EventTypePlanGenerated,
		}, events)
	})
}

func TestPipelineUsecase_FailFastOnUnresolvedReference(t *testing.T) {
	cfg := config.DefaultDecomposeConfig()
	source := &stubSchemaSource{description: &model.SchemaDescription{
		Entities: []model.EntityDescription{
			{Name: "A", Fields: []model.FieldDescription{{Name: "bId", References: "B"}}},
		},
	}}
	sink := &capturePlanSink{}

	_, err := newTestPipeline(cfg, source, sink, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvedReference(err))
	assert.Nil(t, sink.plan, "no plan may be written after a stage failure")
}

func TestPipelineUsecase_SourceErrorAborts(t *testing.T) {
	cfg := config.DefaultDecomposeConfig()
	sourceErr := errors.NewInfrastructureError("schema file unreadable")
	source := &stubSchemaSource{err: sourceErr}
	sink := &capturePlanSink{}

	_, err := newTestPipeline(cfg, source, sink, nil).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sourceErr)
	assert.Nil(t, sink.plan)
}
