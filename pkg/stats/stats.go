// Package stats derives read-only metrics from a forest
package stats

import (
	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/tree"
)

// Stats summarizes a forest
type Stats struct {
	Nodes    int                `json:"nodes"`
	Roots    int                `json:"roots"`
	MaxDepth int                `json:"maxDepth"`
	Leaves   int                `json:"leaves"`
	Expanded int                `json:"expanded"`
	ByKind   map[model.Kind]int `json:"byKind"`
}

// CountNodes returns the number of nodes in the forest
func CountNodes(forest *tree.Forest) int {
	return forest.Len()
}

// MaxDepth returns the deepest level in the forest. Roots are at depth 0, so
// a forest of roots only and an empty forest both report 0.
func MaxDepth(forest *tree.Forest) int {
	depth := 0
	for _, n := range forest.Nodes() {
		depth = max(depth, n.Level)
	}
	return depth
}

// Collect computes all statistics in one pass
func Collect(forest *tree.Forest) Stats {
	s := Stats{
		Nodes:  forest.Len(),
		Roots:  len(forest.Roots()),
		ByKind: make(map[model.Kind]int),
	}
	for _, n := range forest.Nodes() {
		s.MaxDepth = max(s.MaxDepth, n.Level)
		s.ByKind[n.Kind]++
		if !n.HasChildren() {
			s.Leaves++
		}
		if n.Expanded {
			s.Expanded++
		}
	}
	return s
}
