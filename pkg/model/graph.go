package model

// Tier records where a graph node came from, for hierarchical layout ordering
type Tier int

const (
	TierTopic       Tier = 1
	TierSubtopic    Tier = 2
	TierProperty    Tier = 3
	TierDerivedFact Tier = 4
)

// Graph is the export handed to renderers: nodes and labeled edges.
// Nodes and edges keep insertion order so repeated exports serialize identically.
type Graph struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`

	// Skipped counts inputs that could not be turned into nodes or edges
	Skipped int `json:"-"`

	index    map[string]int
	edgeKeys map[EdgeID]bool
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make([]*GraphNode, 0),
		Edges:    make([]*GraphEdge, 0),
		index:    make(map[string]int),
		edgeKeys: make(map[EdgeID]bool),
	}
}

// GraphNode is a vertex of the exported graph.
// Color and Size are styling hints only.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
	Size  int    `json:"size"`
	Tier  Tier   `json:"tier"`
}

// GraphEdge is a directed labeled connection between two nodes.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// AddNode adds a node unless one with the same ID exists; the first one wins.
// Returns true if the node was added.
func (g *Graph) AddNode(node *GraphNode) bool {
	g.lazyInit()
	if _, exists := g.index[node.ID]; exists {
		return false
	}
	g.index[node.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, node)
	return true
}

// Node returns the node with the given ID
func (g *Graph) Node(id string) (*GraphNode, bool) {
	g.lazyInit()
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.Nodes[i], true
}

// HasNode reports whether a node with the given ID exists
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// AddEdge adds an edge if both endpoints exist and the same (from, to, label)
// edge has not been added before. Returns true if the edge was added.
func (g *Graph) AddEdge(edge *GraphEdge) bool {
	if !g.HasNode(edge.From) || !g.HasNode(edge.To) {
		return false
	}
	g.lazyInit()
	key := EdgeKey(edge.From, edge.To, edge.Label)
	if g.edgeKeys[key] {
		return false
	}
	g.edgeKeys[key] = true
	g.Edges = append(g.Edges, edge)
	return true
}

// lazyInit makes the zero Graph usable
func (g *Graph) lazyInit() {
	if g.index == nil {
		g.index = make(map[string]int, len(g.Nodes))
		for i, n := range g.Nodes {
			g.index[n.ID] = i
		}
	}
	if g.edgeKeys == nil {
		g.edgeKeys = make(map[EdgeID]bool, len(g.Edges))
		for _, e := range g.Edges {
			g.edgeKeys[EdgeKey(e.From, e.To, e.Label)] = true
		}
	}
}

// EdgeID is the identity of an edge used for deduplication
type EdgeID struct {
	From, To, Label string
}

// EdgeKey returns the identity of the edge from -> to labeled label
func EdgeKey(from, to, label string) EdgeID {
	return EdgeID{From: from, To: to, Label: label}
}
