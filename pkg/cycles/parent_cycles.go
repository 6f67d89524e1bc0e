package cycles

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

// ParentGraph is a directed child -> parent reference graph keyed by node ID
type ParentGraph struct {
	graph  *simple.DirectedGraph
	ids    map[string]int64
	names  map[int64]string
	nextID int64
	selfs  map[string]bool
}

// NewParentGraph creates an empty reference graph
func NewParentGraph() *ParentGraph {
	return &ParentGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
		selfs: make(map[string]bool),
	}
}

func (pg *ParentGraph) node(id string) int64 {
	if n, ok := pg.ids[id]; ok {
		return n
	}
	n := pg.nextID
	pg.nextID++
	pg.ids[id] = n
	pg.names[n] = id
	pg.graph.AddNode(simple.Node(n))
	return n
}

// AddReference records that child names parent
func (pg *ParentGraph) AddReference(child, parent string) {
	if child == parent {
		// simple graphs reject self loops, so track them on the side
		pg.node(child)
		pg.selfs[child] = true
		return
	}
	from, to := pg.node(child), pg.node(parent)
	if !pg.graph.HasEdgeFromTo(from, to) {
		pg.graph.SetEdge(pg.graph.NewEdge(pg.graph.Node(from), pg.graph.Node(to)))
	}
}

// Cycles returns the members of every reference cycle. Members of each cycle
// are sorted, and cycles are ordered by their first member.
func (pg *ParentGraph) Cycles() [][]string {
	var result [][]string

	for id := range pg.selfs {
		result = append(result, []string{id})
	}

	for _, scc := range NewTarjanSCC(pg.graph).FindSCCs() {
		members := make([]string, 0, len(scc))
		for _, n := range scc {
			members = append(members, pg.names[n])
		}
		sort.Strings(members)
		result = append(result, members)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i][0] < result[j][0]
	})
	return result
}

// FindParentCycles is a convenience wrapper over a child -> parent map
func FindParentCycles(parents map[string]string) [][]string {
	pg := NewParentGraph()
	for child, parent := range parents {
		if parent != "" {
			pg.AddReference(child, parent)
		}
	}
	return pg.Cycles()
}
