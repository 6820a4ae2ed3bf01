package model

import "sort"

// pairKey is an order-independent key for an entity pair.
type pairKey struct {
	low, high string
}

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// CoChangeMatrix holds how often entity pairs were historically modified
// within the same transaction. Scores are normalized to [0,1] by the
// maximum observed pair count, so thresholds are scale-free.
type CoChangeMatrix struct {
	counts   map[pairKey]int
	maxCount int
}

// NewCoChangeMatrix creates an empty co-change matrix.
func NewCoChangeMatrix() *CoChangeMatrix {
	return &CoChangeMatrix{
		counts: make(map[pairKey]int),
	}
}

// NewCoChangeMatrixFromPairs builds a matrix from input pairs. Pairs are
// symmetric; repeated pairs accumulate.
func NewCoChangeMatrixFromPairs(pairs []CoChangePair) *CoChangeMatrix {
	m := NewCoChangeMatrix()
	for _, p := range pairs {
		m.Add(p.A, p.B, p.Count)
	}
	return m
}

// Add accumulates co-change observations for an entity pair. Self pairs
// and non-positive counts are ignored.
func (m *CoChangeMatrix) Add(a, b string, count int) {
	if a == b || count <= 0 {
		return
	}
	key := newPairKey(a, b)
	m.counts[key] += count
	if m.counts[key] > m.maxCount {
		m.maxCount = m.counts[key]
	}
}

// Count returns the raw co-change count for an entity pair.
func (m *CoChangeMatrix) Count(a, b string) int {
	return m.counts[newPairKey(a, b)]
}

// Score returns the normalized co-change score in [0,1] for an entity
// pair: the raw count divided by the maximum pair count in the matrix.
func (m *CoChangeMatrix) Score(a, b string) float64 {
	if m.maxCount == 0 {
		return 0
	}
	return float64(m.Count(a, b)) / float64(m.maxCount)
}

// HasData reports whether the named entity appears in any pair.
func (m *CoChangeMatrix) HasData(entity string) bool {
	for key := range m.counts {
		if key.low == entity || key.high == entity {
			return true
		}
	}
	return false
}

// Pairs returns all recorded pairs ordered lexically.
func (m *CoChangeMatrix) Pairs() []CoChangePair {
	pairs := make([]CoChangePair, 0, len(m.counts))
	for key, count := range m.counts {
		pairs = append(pairs, CoChangePair{A: key.low, B: key.high, Count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// Len returns the number of distinct pairs in the matrix.
func (m *CoChangeMatrix) Len() int {
	return len(m.counts)
}
