package search

import (
	"reflect"
	"testing"

	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/tree"
)

func buildForest(t *testing.T) *tree.Forest {
	t.Helper()
	forest, err := tree.Literal{
		{Label: "Thing", Children: []model.LiteralNode{
			{Label: "Animal", Children: []model.LiteralNode{
				{Label: "Dog"},
				{Label: "Cat"},
			}},
			{Label: "Plant", Children: []model.LiteralNode{
				{Label: "Oak Tree"},
			}},
		}},
		{Label: "Straße"},
	}.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return forest
}

func TestFilter(t *testing.T) {
	forest := buildForest(t)

	tests := []struct {
		name    string
		query   string
		visible []string
		matches []string
	}{
		{"empty", "", []string{"Thing", "Animal", "Dog", "Cat", "Plant", "Oak Tree", "Straße"}, nil},
		{"space", " ", []string{"Thing", "Plant", "Oak Tree"}, []string{"Oak Tree"}},
		{"blank", "   ", []string{}, nil},
		{"leaf", "dog", []string{"Thing", "Animal", "Dog"}, []string{"Dog"}},
		{"case insensitive", "OAK", []string{"Thing", "Plant", "Oak Tree"}, []string{"Oak Tree"}},
		{"inner node", "anim", []string{"Thing", "Animal"}, []string{"Animal"}},
		{"several", "a", []string{"Thing", "Animal", "Cat", "Plant", "Oak Tree", "Straße"}, []string{"Animal", "Cat", "Plant", "Oak Tree", "Straße"}},
		{"unicode folding", "STRASSE", []string{"Straße"}, []string{"Straße"}},
		{"no match", "fungus", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := Filter(forest, tt.query)
			if got := vs.IDs(); !reflect.DeepEqual(got, tt.visible) {
				t.Errorf("IDs() = %v, want %v", got, tt.visible)
			}
			if got := vs.Matches(); !reflect.DeepEqual(got, tt.matches) {
				t.Errorf("Matches() = %v, want %v", got, tt.matches)
			}
			if vs.Len() != len(tt.visible) {
				t.Errorf("Len() = %d, want %d", vs.Len(), len(tt.visible))
			}
		})
	}
}

func TestFilterAncestorPreservation(t *testing.T) {
	forest := buildForest(t)
	vs := Filter(forest, "cat")

	for _, n := range forest.Ancestors("Cat") {
		if !vs.Contains(n.ID) {
			t.Errorf("Ancestor %s of a match should be visible", n.ID)
		}
		if vs.Matched(n.ID) {
			t.Errorf("Ancestor %s should not count as a match", n.ID)
		}
	}
	if vs.Contains("Dog") {
		t.Error("Sibling of a match should be hidden")
	}
}

func TestFilterRoundTrip(t *testing.T) {
	forest := buildForest(t)

	initial := Filter(forest, "")
	Filter(forest, "oak")
	restored := Filter(forest, "")

	if !restored.Full() || !reflect.DeepEqual(initial.IDs(), restored.IDs()) {
		t.Errorf("Round trip lost visibility: %v vs %v", initial.IDs(), restored.IDs())
	}
	if restored.Len() != forest.Len() {
		t.Errorf("Full set should contain all %d nodes, got %d", forest.Len(), restored.Len())
	}
}

func TestFilterDoesNotExpand(t *testing.T) {
	forest := buildForest(t)
	Filter(forest, "dog")

	for _, n := range forest.Nodes() {
		if n.Expanded {
			t.Errorf("Filter expanded %s", n.ID)
		}
	}
}

func TestFilterUnknownIDs(t *testing.T) {
	vs := Filter(buildForest(t), "")
	if vs.Contains("Unicorn") || vs.Matched("Unicorn") {
		t.Error("Unknown ids are never visible")
	}

	empty := Filter(nil, "x")
	if empty.Len() != 0 || len(empty.IDs()) != 0 {
		t.Error("Filtering an empty forest should yield nothing")
	}
}
