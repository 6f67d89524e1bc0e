// Package search computes which nodes of a forest survive a label query.
// Filtering is pure: it never touches expansion state.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ritzau/ontology-explorer/pkg/tree"
)

// VisibilitySet is the result of filtering one forest. A node is visible when
// it matches, or is an ancestor of a match.
type VisibilitySet struct {
	forest  *tree.Forest
	query   string
	visible []bool
	matched []bool
	count   int
	full    bool
}

// Filter matches query case-insensitively against labels. The empty query
// makes every node visible; whitespace is matched like any other text.
func Filter(forest *tree.Forest, query string) *VisibilitySet {
	n := forest.Len()
	vs := &VisibilitySet{
		forest:  forest,
		query:   query,
		visible: make([]bool, n),
		matched: make([]bool, n),
	}

	if query == "" {
		for i := range vs.visible {
			vs.visible[i] = true
		}
		vs.count = n
		vs.full = true
		return vs
	}

	fold := cases.Fold()
	needle := fold.String(query)

	// Children sit after their parents in the arena, so a reverse sweep
	// settles every subtree before its root.
	for i := n - 1; i >= 0; i-- {
		node := forest.At(i)
		if strings.Contains(fold.String(node.Label), needle) {
			vs.matched[i] = true
			vs.visible[i] = true
		}
		if !vs.visible[i] {
			continue
		}
		vs.count++
		if parent, ok := forest.Parent(node); ok {
			vs.visible[parent.Index()] = true
		}
	}

	return vs
}

// Query returns the query the set was computed for
func (vs *VisibilitySet) Query() string {
	return vs.query
}

// Full reports whether the set is the identity (blank query)
func (vs *VisibilitySet) Full() bool {
	return vs.full
}

// Len returns the number of visible nodes
func (vs *VisibilitySet) Len() int {
	return vs.count
}

func (vs *VisibilitySet) index(id string) (int, bool) {
	n, ok := vs.forest.Node(id)
	if !ok || n.Index() >= len(vs.visible) {
		return 0, false
	}
	return n.Index(), true
}

// Contains reports whether id is visible
func (vs *VisibilitySet) Contains(id string) bool {
	i, ok := vs.index(id)
	return ok && vs.visible[i]
}

// Matched reports whether id's own label matched the query
func (vs *VisibilitySet) Matched(id string) bool {
	i, ok := vs.index(id)
	return ok && vs.matched[i]
}

// IDs returns visible ids in display order
func (vs *VisibilitySet) IDs() []string {
	out := make([]string, 0, vs.count)
	for i, v := range vs.visible {
		if v {
			out = append(out, vs.forest.At(i).ID)
		}
	}
	return out
}

// Matches returns the ids of matching nodes in display order
func (vs *VisibilitySet) Matches() []string {
	var out []string
	for i, m := range vs.matched {
		if m {
			out = append(out, vs.forest.At(i).ID)
		}
	}
	return out
}

// VisibleAt reports visibility by display position
func (vs *VisibilitySet) VisibleAt(i int) bool {
	return i >= 0 && i < len(vs.visible) && vs.visible[i]
}

// MatchedAt reports a label match by display position
func (vs *VisibilitySet) MatchedAt(i int) bool {
	return i >= 0 && i < len(vs.matched) && vs.matched[i]
}
