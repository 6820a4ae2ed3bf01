package yamlfile

import (
	"context"
	"os"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// planFileMode is the permission mode for written plan files.
const planFileMode = 0o644

// PlanSink writes the generated migration plan to a YAML file for the
// external migration executor.
type PlanSink struct {
	path string
	log  *zap.Logger
}

// NewPlanSink creates a plan sink for the given file path.
func NewPlanSink(path string, log *zap.Logger) *PlanSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanSink{path: path, log: log}
}

// Write serializes the plan and persists it.
func (s *PlanSink) Write(ctx context.Context, plan *model.RewritePlan) error {
	if plan == nil {
		return errors.NewValidationError("plan is required").
			WithComponent("yamlfile.PlanSink")
	}

	data, err := yaml.Marshal(plan)
	if err != nil {
		s.log.Error("Failed to marshal migration plan",
			zap.String("planID", plan.ID),
			zap.Error(err))
		return errors.NewInternalError("failed to marshal migration plan").
			WithComponent("yamlfile.PlanSink").
			WithCause(err)
	}

	if err := os.WriteFile(s.path, data, planFileMode); err != nil {
		s.log.Error("Failed to write migration plan",
			zap.String("path", s.path),
			zap.Error(err))
		return errors.NewInfrastructureError("failed to write migration plan file").
			WithComponent("yamlfile.PlanSink").
			WithDetail("path", s.path).
			WithCause(err)
	}

	s.log.Info("Migration plan written",
		zap.String("path", s.path),
		zap.String("planID", plan.ID),
		zap.Int("steps", len(plan.Steps)))
	return nil
}
