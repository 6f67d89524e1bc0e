package cycles

import (
	"gonum.org/v1/gonum/graph"
)

// TarjanSCC finds strongly connected components using Tarjan's algorithm.
// The traversal keeps its own explicit call stack so deep parent chains
// cannot exhaust the goroutine stack.
type TarjanSCC struct {
	graph   graph.Directed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	sccs    [][]int64
}

// NewTarjanSCC creates a new Tarjan SCC finder
func NewTarjanSCC(g graph.Directed) *TarjanSCC {
	return &TarjanSCC{
		graph:   g,
		stack:   make([]int64, 0),
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
		sccs:    make([][]int64, 0),
	}
}

// FindSCCs returns every component that forms a cycle: more than one node,
// or a single node with an edge to itself.
func (t *TarjanSCC) FindSCCs() [][]int64 {
	nodes := t.graph.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		if _, visited := t.indices[id]; !visited {
			t.strongConnect(id)
		}
	}
	return t.sccs
}

type frame struct {
	id         int64
	successors []int64
	next       int
}

func (t *TarjanSCC) visit(id int64) *frame {
	t.indices[id] = t.index
	t.lowLink[id] = t.index
	t.index++
	t.stack = append(t.stack, id)
	t.onStack[id] = true

	f := &frame{id: id}
	it := t.graph.From(id)
	for it.Next() {
		f.successors = append(f.successors, it.Node().ID())
	}
	return f
}

func (t *TarjanSCC) strongConnect(root int64) {
	callStack := []*frame{t.visit(root)}

	for len(callStack) > 0 {
		f := callStack[len(callStack)-1]

		if f.next < len(f.successors) {
			succ := f.successors[f.next]
			f.next++
			if _, visited := t.indices[succ]; !visited {
				callStack = append(callStack, t.visit(succ))
			} else if t.onStack[succ] {
				t.lowLink[f.id] = min(t.lowLink[f.id], t.indices[succ])
			}
			continue
		}

		// All successors done: f.id is finished
		callStack = callStack[:len(callStack)-1]
		if len(callStack) > 0 {
			parent := callStack[len(callStack)-1]
			t.lowLink[parent.id] = min(t.lowLink[parent.id], t.lowLink[f.id])
		}

		if t.lowLink[f.id] == t.indices[f.id] {
			scc := make([]int64, 0)
			for {
				w := t.stack[len(t.stack)-1]
				t.stack = t.stack[:len(t.stack)-1]
				t.onStack[w] = false
				scc = append(scc, w)
				if w == f.id {
					break
				}
			}
			if len(scc) > 1 || t.graph.HasEdgeFromTo(f.id, f.id) {
				t.sccs = append(t.sccs, scc)
			}
		}
	}
}
