package tree

import (
	"github.com/ritzau/ontology-explorer/pkg/model"
)

// Node is a concept in the ontology forest. Identity fields are fixed when the
// forest is built; Expanded is the only display state mutated afterwards.
type Node struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Kind       model.Kind       `json:"kind"`
	Icon       string           `json:"icon"`
	Properties model.Properties `json:"properties"`
	Expanded   bool             `json:"expanded"`
	Level      int              `json:"level"`
	ParentID   string           `json:"parentId,omitempty"`

	index    int
	parent   int // -1 for roots
	children []int
}

// HasChildren reports whether the node owns any children
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// ChildCount returns the number of direct children
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Index is the node's position in display order
func (n *Node) Index() int {
	return n.index
}

// IsRoot reports whether the node is a root of its tree
func (n *Node) IsRoot() bool {
	return n.parent < 0
}

// Forest is an arena of nodes. Nodes are stored in display (pre-)order, so a
// child always sits after its parent; iterating backwards visits every child
// before its parent. A nil *Forest is an empty forest.
type Forest struct {
	nodes []*Node
	roots []int
	byID  map[string]int
}

func newForest(capacity int) *Forest {
	return &Forest{
		nodes: make([]*Node, 0, capacity),
		roots: make([]int, 0),
		byID:  make(map[string]int, capacity),
	}
}

// add appends n under parent (-1 for a root) and returns its index
func (f *Forest) add(parent int, n *Node) int {
	n.index = len(f.nodes)
	n.parent = parent
	if parent < 0 {
		n.Level = 0
		n.ParentID = ""
		f.roots = append(f.roots, n.index)
	} else {
		p := f.nodes[parent]
		n.Level = p.Level + 1
		n.ParentID = p.ID
		p.children = append(p.children, n.index)
	}
	f.nodes = append(f.nodes, n)
	f.byID[n.ID] = n.index
	return n.index
}

// Len returns the number of nodes in the forest
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

// Nodes returns all nodes in display order. The slice must not be modified.
func (f *Forest) Nodes() []*Node {
	if f == nil {
		return nil
	}
	return f.nodes
}

// Roots returns the root nodes in display order
func (f *Forest) Roots() []*Node {
	if f == nil {
		return nil
	}
	out := make([]*Node, len(f.roots))
	for i, idx := range f.roots {
		out[i] = f.nodes[idx]
	}
	return out
}

// Children returns the children of n in display order
func (f *Forest) Children(n *Node) []*Node {
	if f == nil || n == nil {
		return nil
	}
	out := make([]*Node, len(n.children))
	for i, idx := range n.children {
		out[i] = f.nodes[idx]
	}
	return out
}

// Parent returns the parent of n, or false for a root
func (f *Forest) Parent(n *Node) (*Node, bool) {
	if f == nil || n == nil || n.parent < 0 {
		return nil, false
	}
	return f.nodes[n.parent], true
}

// At returns the node at display position i
func (f *Forest) At(i int) *Node {
	return f.nodes[i]
}

// Node looks up a node by ID
func (f *Forest) Node(id string) (*Node, bool) {
	if f == nil {
		return nil, false
	}
	idx, ok := f.byID[id]
	if !ok {
		return nil, false
	}
	return f.nodes[idx], true
}

// Path returns the nodes from the root down to and including id,
// or nil if id is not in the forest.
func (f *Forest) Path(id string) []*Node {
	n, ok := f.Node(id)
	if !ok {
		return nil
	}

	path := make([]*Node, n.Level+1)
	for cur := n; ; cur = f.nodes[cur.parent] {
		path[cur.Level] = cur
		if cur.parent < 0 {
			break
		}
	}
	return path
}

// Ancestors returns the ancestors of id from the root down, excluding id itself
func (f *Forest) Ancestors(id string) []*Node {
	path := f.Path(id)
	if len(path) == 0 {
		return nil
	}
	return path[:len(path)-1]
}

// Walk visits nodes in display order until fn returns false
func (f *Forest) Walk(fn func(n *Node) bool) {
	for _, n := range f.Nodes() {
		if !fn(n) {
			return
		}
	}
}
