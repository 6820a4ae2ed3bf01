package usecase

import (
	"context"
	"sort"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"
	"boundarycut/internal/shared/logger"
)

// BoundaryUsecase partitions the schema graph into candidate service
// boundaries.
type BoundaryUsecase interface {
	AnalyzeBoundaries(ctx context.Context, req AnalyzeBoundariesRequest) (*model.BoundarySet, error)
}

type boundaryUsecase struct {
	log logger.Logger
}

// NewBoundaryUsecase creates a new instance of BoundaryUsecase.
func NewBoundaryUsecase(log logger.Logger) BoundaryUsecase {
	return &boundaryUsecase{log: log}
}

// cluster is a working boundary during greedy merging. Its key is the
// lowest lexical member name, which doubles as the merge tiebreaker and
// the final boundary ID seed.
type cluster struct {
	key     string
	members []string
}

// AnalyzeBoundaries runs greedy clustering: every entity starts as its own
// boundary; the pair with the highest normalized co-change score above the
// threshold is merged, as long as neither side already exceeds the
// max-entity cap. Ties are broken by lexical entity-name order. Entities
// with no co-change data remain singleton boundaries.
func (uc *boundaryUsecase) AnalyzeBoundaries(ctx context.Context, req AnalyzeBoundariesRequest) (*model.BoundarySet, error) {
	if req.Graph == nil {
		return nil, errors.NewValidationError("schema graph is required").WithComponent("BoundaryUsecase")
	}
	matrix := req.Matrix
	if matrix == nil {
		matrix = model.NewCoChangeMatrix()
	}

	uc.log.WithContext(ctx).Infof("Analyzing boundaries: %d entities, %d co-change pairs, threshold %v",
		req.Graph.Size(), matrix.Len(), req.CoChangeThreshold)

	clusters := make(map[string]*cluster)
	for _, name := range req.Graph.EntityNames() {
		clusters[name] = &cluster{key: name, members: []string{name}}
	}

	for {
		a, b, ok := uc.bestMerge(clusters, matrix, req.CoChangeThreshold, req.MaxBoundaryEntities)
		if !ok {
			break
		}
		uc.log.WithContext(ctx).Debugf("Merging boundaries %q and %q", a.key, b.key)
		uc.merge(clusters, a, b)
	}

	boundaries := model.NewBoundarySet()
	keys := make([]string, 0, len(clusters))
	for key := range clusters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		id := model.BoundaryIDPrefix + key
		for _, member := range clusters[key].members {
			if err := boundaries.Assign(member, id); err != nil {
				return nil, errors.WrapError(err, "failed to assign entity to boundary").
					WithComponent("BoundaryUsecase")
			}
		}
	}

	if err := boundaries.Validate(req.Graph); err != nil {
		return nil, errors.WrapError(err, "boundary partition invariant violated").
			WithComponent("BoundaryUsecase")
	}

	uc.log.WithContext(ctx).Infof("Boundary analysis complete: %d boundaries", boundaries.Len())
	return boundaries, nil
}

// bestMerge selects the mergeable cluster pair with the highest co-change
// score, tie-broken by lexical key order. The score of a cluster pair is
// the highest normalized score across its entity pairs.
func (uc *boundaryUsecase) bestMerge(clusters map[string]*cluster, matrix *model.CoChangeMatrix, threshold float64, maxEntities int) (*cluster, *cluster, bool) {
	keys := make([]string, 0, len(clusters))
	for key := range clusters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var bestA, bestB *cluster
	bestScore := 0.0

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			a, b := clusters[keys[i]], clusters[keys[j]]
			if maxEntities > 0 && (len(a.members) > maxEntities || len(b.members) > maxEntities) {
				continue
			}
			score := uc.pairScore(a, b, matrix)
			if score <= threshold {
				continue
			}
			// Strictly greater keeps the earliest lexical pair on ties.
			if bestA == nil || score > bestScore {
				bestA, bestB, bestScore = a, b, score
			}
		}
	}

	return bestA, bestB, bestA != nil
}

// pairScore returns the highest normalized co-change score between any two
// entities across the clusters.
func (uc *boundaryUsecase) pairScore(a, b *cluster, matrix *model.CoChangeMatrix) float64 {
	best := 0.0
	for _, ma := range a.members {
		for _, mb := range b.members {
			if score := matrix.Score(ma, mb); score > best {
				best = score
			}
		}
	}
	return best
}

// merge folds cluster b into cluster a, keyed by the lowest member name.
func (uc *boundaryUsecase) merge(clusters map[string]*cluster, a, b *cluster) {
	delete(clusters, a.key)
	delete(clusters, b.key)

	merged := &cluster{members: append(append([]string{}, a.members...), b.members...)}
	sort.Strings(merged.members)
	merged.key = merged.members[0]
	clusters[merged.key] = merged
}
