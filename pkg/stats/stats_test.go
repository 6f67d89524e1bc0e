package stats

import (
	"encoding/json"
	"testing"

	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/tree"
)

func TestStats(t *testing.T) {
	tests := []struct {
		name      string
		literal   tree.Literal
		wantNodes int
		wantDepth int
	}{
		{"empty", nil, 0, 0},
		{"single root", tree.Literal{{Label: "Thing"}}, 1, 0},
		{"two roots", tree.Literal{{Label: "A"}, {Label: "B"}}, 2, 0},
		{"nested", tree.Literal{{Label: "Thing", Children: []model.LiteralNode{
			{Label: "Animal", Children: []model.LiteralNode{{Label: "Dog"}}},
			{Label: "Plant"},
		}}}, 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest, err := tt.literal.Build()
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if got := CountNodes(forest); got != tt.wantNodes {
				t.Errorf("CountNodes() = %d, want %d", got, tt.wantNodes)
			}
			if got := MaxDepth(forest); got != tt.wantDepth {
				t.Errorf("MaxDepth() = %d, want %d", got, tt.wantDepth)
			}
			for _, n := range forest.Nodes() {
				if n.Level > tt.wantDepth || len(forest.Ancestors(n.ID)) != n.Level {
					t.Errorf("%s: level %d, %d ancestors, max depth %d", n.ID, n.Level, len(forest.Ancestors(n.ID)), tt.wantDepth)
				}
			}
		})
	}
}

func TestCollect(t *testing.T) {
	forest, err := tree.Literal{{Label: "Person", Kind: model.KindClass, Children: []model.LiteralNode{
		{Label: "Arya", Kind: model.KindInstance},
		{Label: "V N", Kind: model.KindInstance},
	}}}.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	person, _ := forest.Node("Person")
	person.Expanded = true

	s := Collect(forest)
	if s.Nodes != 3 || s.Roots != 1 || s.MaxDepth != 1 || s.Leaves != 2 || s.Expanded != 1 {
		t.Errorf("Unexpected stats: %+v", s)
	}
	if s.ByKind[model.KindInstance] != 2 || s.ByKind[model.KindClass] != 1 {
		t.Errorf("Unexpected kind counts: %v", s.ByKind)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var decoded struct {
		ByKind map[string]int `json:"byKind"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded.ByKind["instance"] != 2 {
		t.Errorf("Kinds should serialize by name, got %v", decoded.ByKind)
	}
}

func TestCollectNil(t *testing.T) {
	s := Collect(nil)
	if s.Nodes != 0 || s.MaxDepth != 0 || s.Roots != 0 {
		t.Errorf("Expected zero stats, got %+v", s)
	}
}
