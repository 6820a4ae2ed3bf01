package usecase

import (
	"context"
	"fmt"

	"boundarycut/internal/decompose/config"
	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/decompose/domain/repository"
	"boundarycut/internal/shared/eventbus"
	"boundarycut/internal/shared/logger"
)

// Pipeline stage names, in execution order.
const (
	StageGraphBuilder     = "schema_graph_builder"
	StageBoundaryAnalyzer = "boundary_analyzer"
	StageRewriter         = "reference_rewriter"
	StagePlanner          = "migration_planner"
)

// EntityStoreFactory creates the storage backend the rewriter works
// through, seeded with the built graph. The backend is selected here, at
// construction, and never swapped mid-run.
type EntityStoreFactory func(graph *model.SchemaGraph) repository.EntityStore

// PipelineUsecase runs the full decomposition: graph building, boundary
// analysis, reference rewriting and migration planning, strictly in order.
// The first stage error aborts the run and is surfaced unmodified.
type PipelineUsecase interface {
	Run(ctx context.Context) (*model.RewritePlan, error)
}

type pipelineUsecase struct {
	cfg        *config.DecomposeConfig
	source     repository.SchemaSource
	sink       repository.PlanSink
	newStore   EntityStoreFactory
	graphUC    GraphUsecase
	boundaryUC BoundaryUsecase
	rewriteUC  RewriteUsecase
	planUC     PlanUsecase
	bus        eventbus.EventBusInterface
	log        logger.Logger
}

// NewPipelineUsecase creates a new instance of PipelineUsecase.
func NewPipelineUsecase(
	cfg *config.DecomposeConfig,
	source repository.SchemaSource,
	sink repository.PlanSink,
	newStore EntityStoreFactory,
	graphUC GraphUsecase,
	boundaryUC BoundaryUsecase,
	rewriteUC RewriteUsecase,
	planUC PlanUsecase,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) PipelineUsecase {
	return &pipelineUsecase{
		cfg:        cfg,
		source:     source,
		sink:       sink,
		newStore:   newStore,
		graphUC:    graphUC,
		boundaryUC: boundaryUC,
		rewriteUC:  rewriteUC,
		planUC:     planUC,
		bus:        bus,
		log:        log,
	}
}

// Run executes one planning session end to end.
func (uc *pipelineUsecase) Run(ctx context.Context) (*model.RewritePlan, error) {
	description, err := uc.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema description: %w", err)
	}

	uc.stageStarted(ctx, StageGraphBuilder)
	graph, err := uc.graphUC.BuildGraph(ctx, BuildGraphRequest{Descriptions: description.Entities})
	if err != nil {
		uc.stageFailed(ctx, StageGraphBuilder, err)
		return nil, err
	}
	uc.stageCompleted(ctx, StageGraphBuilder)

	uc.stageStarted(ctx, StageBoundaryAnalyzer)
	boundaries, err := uc.boundaryUC.AnalyzeBoundaries(ctx, AnalyzeBoundariesRequest{
		Graph:               graph,
		Matrix:              model.NewCoChangeMatrixFromPairs(description.CoChange),
		CoChangeThreshold:   uc.cfg.Analyzer.CoChangeThreshold,
		MaxBoundaryEntities: uc.cfg.Analyzer.MaxBoundaryEntities,
	})
	if err != nil {
		uc.stageFailed(ctx, StageBoundaryAnalyzer, err)
		return nil, err
	}
	uc.stageCompleted(ctx, StageBoundaryAnalyzer)

	uc.stageStarted(ctx, StageRewriter)
	rewritten, err := uc.rewriteUC.RewriteReferences(ctx, RewriteReferencesRequest{
		Graph:      graph,
		Boundaries: boundaries,
		Store:      uc.newStore(graph),
		LinkSuffix: uc.cfg.LinkSuffix,
	})
	if err != nil {
		uc.stageFailed(ctx, StageRewriter, err)
		return nil, err
	}
	uc.stageCompleted(ctx, StageRewriter)

	uc.stageStarted(ctx, StagePlanner)
	plan, err := uc.planUC.PlanMigration(ctx, PlanMigrationRequest{
		Graph:      rewritten.Graph,
		Boundaries: boundaries,
		Rewrites:   rewritten.Rewrites,
	})
	if err != nil {
		uc.stageFailed(ctx, StagePlanner, err)
		return nil, err
	}
	uc.stageCompleted(ctx, StagePlanner)

	if err := uc.sink.Write(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to write migration plan: %w", err)
	}

	uc.publish(ctx, eventbus.EventTypePlanGenerated, map[string]interface{}{
		"plan_id":    plan.ID,
		"boundaries": len(plan.Boundaries),
		"steps":      len(plan.Steps),
	})

	return plan, nil
}

func (uc *pipelineUsecase) stageStarted(ctx context.Context, stage string) {
	uc.log.WithContext(ctx).Infof("Stage started: %s", stage)
	uc.publish(ctx, eventbus.EventTypeStageStarted, map[string]interface{}{"stage": stage})
}

func (uc *pipelineUsecase) stageCompleted(ctx context.Context, stage string) {
	uc.log.WithContext(ctx).Infof("Stage completed: %s", stage)
	uc.publish(ctx, eventbus.EventTypeStageCompleted, map[string]interface{}{"stage": stage})
}

func (uc *pipelineUsecase) stageFailed(ctx context.Context, stage string, err error) {
	uc.log.WithContext(ctx).Errorf("Stage failed: %s: %v", stage, err)
	uc.publish(ctx, eventbus.EventTypeStageFailed, map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}

// publish emits a bus event. Event delivery failures are logged but never
// override the pipeline outcome.
func (uc *pipelineUsecase) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if uc.bus == nil {
		return
	}
	event := eventbus.NewBasicEventWithSource(eventType, data, "decompose.pipeline")
	if err := uc.bus.Publish(ctx, event); err != nil {
		uc.log.WithContext(ctx).Warnf("Failed to publish event %s: %v", eventType, err)
	}
}
