package usecase

import (
	"context"
	"sort"
	"time"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"
	"boundarycut/internal/shared/logger"

	"github.com/google/uuid"
)

// PlanUsecase sequences the rewrites into a dependency-ordered migration
// plan with paired rollback steps.
type PlanUsecase interface {
	PlanMigration(ctx context.Context, req PlanMigrationRequest) (*model.RewritePlan, error)
}

type planUsecase struct {
	log logger.Logger
}

// NewPlanUsecase creates a new instance of PlanUsecase.
func NewPlanUsecase(log logger.Logger) PlanUsecase {
	return &planUsecase{log: log}
}

// PlanMigration topologically sorts the boundaries by their remaining
// cross-boundary references: a boundary is scheduled only after every
// boundary it links to. Each scheduled boundary contributes one extraction
// step plus one link-conversion step per rewritten field, every step paired
// with its inverse rollback. A cycle in the boundary dependencies aborts
// the run.
func (uc *planUsecase) PlanMigration(ctx context.Context, req PlanMigrationRequest) (*model.RewritePlan, error) {
	if req.Graph == nil || req.Boundaries == nil {
		return nil, errors.NewValidationError("schema graph and boundary set are required").
			WithComponent("PlanUsecase")
	}
	if err := req.Boundaries.Validate(req.Graph); err != nil {
		return nil, errors.WrapError(err, "boundary set does not partition the graph").
			WithComponent("PlanUsecase")
	}

	uc.log.WithContext(ctx).Infof("Planning migration for %d boundaries, %d field rewrites",
		req.Boundaries.Len(), len(req.Rewrites))

	order, err := uc.topologicalOrder(req.Graph, req.Boundaries)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("Failed to linearize boundaries: %v", err)
		return nil, err
	}

	rewritesByBoundary := make(map[string][]FieldRewrite)
	for _, rewrite := range req.Rewrites {
		rewritesByBoundary[rewrite.BoundaryID] = append(rewritesByBoundary[rewrite.BoundaryID], rewrite)
	}

	plan := &model.RewritePlan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	for _, boundary := range req.Boundaries.Boundaries() {
		plan.Boundaries = append(plan.Boundaries, *boundary)
	}

	for _, boundaryID := range order {
		boundary := req.Boundaries.Boundary(boundaryID)

		extract := model.Transform{
			Kind:     model.TransformExtractEntities,
			Entities: append([]string{}, boundary.Entities...),
		}
		plan.Steps = append(plan.Steps, model.MigrationStep{
			ID:         uuid.NewString(),
			BoundaryID: boundaryID,
			Forward:    extract,
			Rollback:   extract.Inverse(),
		})

		rewrites := rewritesByBoundary[boundaryID]
		sort.Slice(rewrites, func(i, j int) bool {
			if rewrites[i].EntityName != rewrites[j].EntityName {
				return rewrites[i].EntityName < rewrites[j].EntityName
			}
			return rewrites[i].FieldName < rewrites[j].FieldName
		})
		for _, rewrite := range rewrites {
			convert := model.Transform{
				Kind:         model.TransformConvertToLink,
				FieldName:    rewrite.FieldName,
				LinkField:    rewrite.LinkField,
				TargetEntity: rewrite.TargetEntity,
			}
			plan.Steps = append(plan.Steps, model.MigrationStep{
				ID:         uuid.NewString(),
				BoundaryID: boundaryID,
				EntityName: rewrite.EntityName,
				Forward:    convert,
				Rollback:   convert.Inverse(),
			})
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, errors.NewInternalError("generated plan violates step ordering").
			WithComponent("PlanUsecase").
			WithCause(err)
	}

	uc.log.WithContext(ctx).Infof("Migration plan generated: %d steps", len(plan.Steps))
	return plan, nil
}

// topologicalOrder linearizes the boundaries so that every boundary is
// scheduled after the boundaries its remaining references point to. Kahn's
// algorithm with a lexical tiebreak keeps the output deterministic.
func (uc *planUsecase) topologicalOrder(graph *model.SchemaGraph, boundaries *model.BoundarySet) ([]string, error) {
	// dependsOn[x][y]: boundary x links to boundary y, so y is planned first.
	dependsOn := make(map[string]map[string]bool)
	for _, id := range boundaries.BoundaryIDs() {
		dependsOn[id] = make(map[string]bool)
	}
	for _, ref := range graph.References() {
		source, okS := boundaries.BoundaryOf(ref.SourceEntity)
		target, okT := boundaries.BoundaryOf(ref.TargetEntity)
		if !okS || !okT || source == target {
			continue
		}
		dependsOn[source][target] = true
	}

	var order []string
	planned := make(map[string]bool)
	remaining := len(dependsOn)

	for remaining > 0 {
		scheduled := ""
		for _, id := range boundaries.BoundaryIDs() {
			if planned[id] {
				continue
			}
			ready := true
			for dep := range dependsOn[id] {
				if !planned[dep] {
					ready = false
					break
				}
			}
			if ready {
				scheduled = id
				break
			}
		}
		if scheduled == "" {
			cycle := uc.findCycle(dependsOn, planned)
			return nil, errors.NewCyclicBoundaryError(cycle).WithComponent("PlanUsecase")
		}
		order = append(order, scheduled)
		planned[scheduled] = true
		remaining--
	}

	return order, nil
}

// findCycle locates one dependency cycle among the unplanned boundaries
// and returns its members sorted.
func (uc *planUsecase) findCycle(dependsOn map[string]map[string]bool, planned map[string]bool) []string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int)
	var stack []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		state[node] = inStack
		stack = append(stack, node)
		deps := make([]string, 0, len(dependsOn[node]))
		for dep := range dependsOn[node] {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		for _, dep := range deps {
			if planned[dep] {
				continue
			}
			switch state[dep] {
			case inStack:
				// Extract the cycle from the stack.
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append(cycle, stack[i])
					if stack[i] == dep {
						break
					}
				}
				return true
			case unvisited:
				if visit(dep) {
					return true
				}
			}
		}
		state[node] = done
		stack = stack[:len(stack)-1]
		return false
	}

	nodes := make([]string, 0, len(dependsOn))
	for node := range dependsOn {
		if !planned[node] {
			nodes = append(nodes, node)
		}
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if state[node] == unvisited && visit(node) {
			break
		}
	}

	sort.Strings(cycle)
	return cycle
}
