package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPropertiesKeepOrder(t *testing.T) {
	want := Properties{
		{Key: "zeta", Value: "1"},
		{Key: "alpha", Value: "true"},
		{Key: "mid", Value: "text"},
	}

	tests := []struct {
		name   string
		decode func(*Properties) error
	}{
		{"json", func(p *Properties) error {
			return json.Unmarshal([]byte(`{"zeta": 1, "alpha": true, "mid": "text"}`), p)
		}},
		{"yaml", func(p *Properties) error {
			return yaml.Unmarshal([]byte("zeta: 1\nalpha: true\nmid: text\n"), p)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Properties
			if err := tt.decode(&got); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Got %v, want %v", got, want)
			}
		})
	}
}

func TestPropertiesJSONObject(t *testing.T) {
	p := Properties{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"b":"2","a":"1"}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestPropertiesRejectNested(t *testing.T) {
	var p Properties
	if err := yaml.Unmarshal([]byte("owner:\n  name: Arya\n"), &p); err == nil {
		t.Error("Expected an error for a nested value")
	}
	if err := json.Unmarshal([]byte(`["a"]`), &p); err == nil {
		t.Error("Expected an error for a JSON array")
	}
}

func TestPropertiesSetAndClone(t *testing.T) {
	var p Properties
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")

	if v, _ := p.Get("a"); v != "3" || len(p) != 2 || p[0].Key != "a" {
		t.Errorf("Set should overwrite in place: %v", p)
	}

	c := p.Clone()
	c.Set("a", "changed")
	if v, _ := p.Get("a"); v != "3" {
		t.Error("Clone shares storage with the original")
	}
	if Properties(nil).Clone() != nil {
		t.Error("Clone of nil should stay nil")
	}
}

func TestPropertiesAdd(t *testing.T) {
	var p Properties
	if !p.Add("nick", "A") || !p.Add("nick", "N") {
		t.Error("Add should accept a repeated key with a new value")
	}
	if p.Add("nick", "A") {
		t.Error("Add should skip an identical pair")
	}
	want := Properties{{Key: "nick", Value: "A"}, {Key: "nick", Value: "N"}}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("Got %v, want %v", p, want)
	}
}

func TestKindText(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"class", KindClass},
		{" Instance ", KindInstance},
		{"individual", KindInstance},
		{"properties", KindProperty},
		{"", KindGeneric},
		{"unknown", KindGeneric},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	var lit LiteralNode
	if err := yaml.Unmarshal([]byte("label: Thing\nkind: class\n"), &lit); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if lit.Kind != KindClass {
		t.Errorf("Kind = %v, want class", lit.Kind)
	}

	data, _ := json.Marshal(map[Kind]int{KindInstance: 2})
	if string(data) != `{"instance":2}` {
		t.Errorf("Kind map key marshalled as %s", data)
	}
}

func TestGraphDedup(t *testing.T) {
	g := NewGraph()
	if !g.AddNode(&GraphNode{ID: "A", Label: "first"}) {
		t.Error("First AddNode should succeed")
	}
	if g.AddNode(&GraphNode{ID: "A", Label: "second"}) {
		t.Error("Duplicate AddNode should be ignored")
	}
	g.AddNode(&GraphNode{ID: "B"})

	if n, _ := g.Node("A"); n.Label != "first" {
		t.Errorf("First node should win, got %q", n.Label)
	}

	if !g.AddEdge(&GraphEdge{From: "A", To: "B", Label: "x"}) {
		t.Error("AddEdge should succeed")
	}
	if g.AddEdge(&GraphEdge{From: "A", To: "B", Label: "x"}) {
		t.Error("Duplicate edge should be ignored")
	}
	if !g.AddEdge(&GraphEdge{From: "A", To: "B", Label: "y"}) {
		t.Error("Different label is a different edge")
	}
	if g.AddEdge(&GraphEdge{From: "A", To: "Ghost"}) {
		t.Error("Dangling edge should be rejected")
	}
	if len(g.Edges) != 2 {
		t.Errorf("Expected 2 edges, got %d", len(g.Edges))
	}

	var zero Graph
	zero.AddNode(&GraphNode{ID: "Z"})
	if !zero.HasNode("Z") {
		t.Error("Zero Graph should be usable")
	}
}
