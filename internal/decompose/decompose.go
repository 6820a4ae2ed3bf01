package decompose

import (
	"context"

	"boundarycut/internal/decompose/adapter/persistence/memory"
	"boundarycut/internal/decompose/adapter/persistence/yamlfile"
	"boundarycut/internal/decompose/config"
	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/decompose/domain/repository"
	"boundarycut/internal/decompose/usecase"
	"boundarycut/internal/shared/eventbus"
	"boundarycut/internal/shared/logger"

	"go.uber.org/zap"
)

// Module wires the decomposition pipeline: YAML schema source, the four
// analysis usecases, the in-memory entity store and the plan sink.
type Module struct {
	Config     *config.DecomposeConfig
	Source     repository.SchemaSource
	Sink       repository.PlanSink
	GraphUC    usecase.GraphUsecase
	BoundaryUC usecase.BoundaryUsecase
	RewriteUC  usecase.RewriteUsecase
	PlanUC     usecase.PlanUsecase
	Pipeline   usecase.PipelineUsecase
	EventBus   eventbus.EventBusInterface
	Logger     logger.Logger
}

// NewModule creates and initializes the decomposition module.
func NewModule(cfg *config.DecomposeConfig, log logger.Logger, adapterLog *zap.Logger) (*Module, error) {
	log.Info("Initializing decomposition module...")

	if cfg == nil {
		loaded, err := config.LoadConfig()
		if err != nil {
			log.Warn("Failed to load decompose config from environment, using defaults: ", err)
			loaded = config.DefaultDecomposeConfig()
		}
		cfg = loaded
	}

	bus := eventbus.NewEventBus(log)
	registerStageLogging(bus, log)

	source := yamlfile.NewSchemaSource(cfg.SchemaPath, adapterLog)
	sink := yamlfile.NewPlanSink(cfg.PlanPath, adapterLog)

	graphUC := usecase.NewGraphUsecase(log)
	boundaryUC := usecase.NewBoundaryUsecase(log)
	rewriteUC := usecase.NewRewriteUsecase(log)
	planUC := usecase.NewPlanUsecase(log)

	storeFactory := func(graph *model.SchemaGraph) repository.EntityStore {
		return memory.NewEntityStoreFromGraph(graph)
	}

	pipeline := usecase.NewPipelineUsecase(
		cfg, source, sink, storeFactory,
		graphUC, boundaryUC, rewriteUC, planUC,
		bus, log,
	)

	log.Info("Decomposition module initialized successfully.")
	return &Module{
		Config:     cfg,
		Source:     source,
		Sink:       sink,
		GraphUC:    graphUC,
		BoundaryUC: boundaryUC,
		RewriteUC:  rewriteUC,
		PlanUC:     planUC,
		Pipeline:   pipeline,
		EventBus:   bus,
		Logger:     log,
	}, nil
}

// Run executes one planning session.
func (m *Module) Run(ctx context.Context) (*model.RewritePlan, error) {
	return m.Pipeline.Run(ctx)
}

// registerStageLogging subscribes a logging handler for every pipeline
// event type.
func registerStageLogging(bus eventbus.EventBusInterface, log logger.Logger) {
	handler := func(ctx context.Context, event eventbus.Event) error {
		log.WithComponent("pipeline").WithFields(map[string]interface{}{
			"event":  event.Type(),
			"source": event.Source(),
			"data":   event.Data(),
		}).Debug("Pipeline event")
		return nil
	}
	for _, eventType := range []string{
		eventbus.EventTypeStageStarted,
		eventbus.EventTypeStageCompleted,
		eventbus.EventTypeStageFailed,
		eventbus.EventTypePlanGenerated,
	} {
		bus.Subscribe(eventType, handler)
	}
}
