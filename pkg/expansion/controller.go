// Package expansion flips the expanded flag of nodes in the current forest.
// Every operation is total: unknown ids and leaves are reported as no-ops.
package expansion

import (
	"github.com/ritzau/ontology-explorer/pkg/tree"
)

// Controller mutates expansion state of whatever forest the store holds
type Controller struct {
	store *tree.Store
}

// NewController creates a controller bound to store
func NewController(store *tree.Store) *Controller {
	return &Controller{store: store}
}

// Toggle flips the named node and reports whether anything changed.
// Leaves and unknown ids are left alone.
func (c *Controller) Toggle(id string) bool {
	n, ok := c.store.FindByID(id)
	if !ok || !n.HasChildren() {
		return false
	}
	n.Expanded = !n.Expanded
	return true
}

// ExpandAll expands every node and returns how many changed
func (c *Controller) ExpandAll() int {
	return setAll(c.store.Forest(), true)
}

// CollapseAll collapses every node and returns how many changed
func (c *Controller) CollapseAll() int {
	return setAll(c.store.Forest(), false)
}

func setAll(f *tree.Forest, expanded bool) int {
	changed := 0
	for _, n := range f.Nodes() {
		if n.Expanded != expanded {
			n.Expanded = expanded
			changed++
		}
	}
	return changed
}

// ExpandPath expands every ancestor of id, leaving id itself untouched, so
// the node becomes reachable from its root. Returns how many changed.
func (c *Controller) ExpandPath(id string) int {
	changed := 0
	for _, n := range c.store.Forest().Ancestors(id) {
		if !n.Expanded {
			n.Expanded = true
			changed++
		}
	}
	return changed
}
