package cycles

import (
	"reflect"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
)

func TestFindParentCyclesNone(t *testing.T) {
	parents := map[string]string{
		"Animal": "Thing",
		"Plant":  "Thing",
		"Dog":    "Animal",
	}

	if got := FindParentCycles(parents); len(got) != 0 {
		t.Errorf("Expected no cycles, got %v", got)
	}
}

func TestFindParentCyclesTwoNode(t *testing.T) {
	parents := map[string]string{
		"A":     "B",
		"B":     "A",
		"C":     "A",
		"Thing": "",
	}

	got := FindParentCycles(parents)
	want := [][]string{{"A", "B"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindParentCycles() = %v, want %v", got, want)
	}
}

func TestFindParentCyclesSelfReference(t *testing.T) {
	got := FindParentCycles(map[string]string{"Loop": "Loop"})
	want := [][]string{{"Loop"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindParentCycles() = %v, want %v", got, want)
	}
}

func TestFindParentCyclesSeveral(t *testing.T) {
	pg := NewParentGraph()
	pg.AddReference("x", "y")
	pg.AddReference("y", "z")
	pg.AddReference("z", "x")
	pg.AddReference("b", "a")
	pg.AddReference("a", "b")
	pg.AddReference("a", "b") // duplicate reference is harmless

	got := pg.Cycles()
	want := [][]string{{"a", "b"}, {"x", "y", "z"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cycles() = %v, want %v", got, want)
	}
}

func TestTarjanDeepChain(t *testing.T) {
	g := simple.NewDirectedGraph()
	const n = 50000
	for i := int64(0); i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := int64(0); i < n-1; i++ {
		g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(i+1)))
	}
	g.SetEdge(g.NewEdge(simple.Node(n-1), simple.Node(0)))

	sccs := NewTarjanSCC(g).FindSCCs()
	if len(sccs) != 1 || len(sccs[0]) != n {
		t.Fatalf("Expected one SCC of %d nodes, got %d SCCs", n, len(sccs))
	}
}
