package tree

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/ritzau/ontology-explorer/pkg/model"
)

func thingLiteral() Literal {
	return Literal{
		{
			Label: "Thing",
			Kind:  model.KindClass,
			Children: []model.LiteralNode{
				{Label: "Animal", Kind: model.KindClass, Children: []model.LiteralNode{
					{Label: "Dog", Kind: model.KindClass},
				}},
				{Label: "Plant", Kind: model.KindClass},
			},
		},
	}
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestLoadLiteral(t *testing.T) {
	store := NewStore()

	forest, err := store.Load(thingLiteral())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if forest.Len() != 4 {
		t.Errorf("Expected 4 nodes, got %d", forest.Len())
	}

	wantOrder := []string{"Thing", "Animal", "Dog", "Plant"}
	if got := ids(forest.Nodes()); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("Display order = %v, want %v", got, wantOrder)
	}

	wantLevels := map[string]int{"Thing": 0, "Animal": 1, "Dog": 2, "Plant": 1}
	for id, level := range wantLevels {
		n, ok := store.FindByID(id)
		if !ok {
			t.Fatalf("FindByID(%q) not found", id)
		}
		if n.Level != level {
			t.Errorf("%s level = %d, want %d", id, n.Level, level)
		}
		if n.Expanded {
			t.Errorf("%s should start collapsed", id)
		}
	}

	thing, _ := store.FindByID("Thing")
	if got := ids(forest.Children(thing)); !reflect.DeepEqual(got, []string{"Animal", "Plant"}) {
		t.Errorf("Children(Thing) = %v", got)
	}
	if thing.Icon != "folder" {
		t.Errorf("Expected default class icon, got %q", thing.Icon)
	}
}

func TestLoadLiteralPreservesProperties(t *testing.T) {
	lit := Literal{{
		ID:    "p1",
		Label: "Arya",
		Kind:  model.KindInstance,
		Properties: model.Properties{
			{Key: "hasRole", Value: "Teacher"},
			{Key: "hasAge", Value: "30"},
		},
	}}

	forest, err := lit.Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	n, _ := forest.Node("p1")
	if n.Label != "Arya" {
		t.Errorf("Expected label Arya, got %q", n.Label)
	}
	if n.Properties[0].Key != "hasRole" || n.Properties[1].Key != "hasAge" {
		t.Errorf("Property order not preserved: %v", n.Properties)
	}

	// The forest owns its own copy
	lit[0].Properties[0].Value = "changed"
	if v, _ := n.Properties.Get("hasRole"); v != "Teacher" {
		t.Errorf("Forest properties alias the input: %q", v)
	}
}

func TestLoadLiteralDuplicateID(t *testing.T) {
	lit := Literal{
		{Label: "A", Children: []model.LiteralNode{{Label: "B"}}},
		{Label: "B"},
	}

	_, err := lit.Build()
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got %v", err)
	}
	if malformed.Reason != ReasonDuplicateID || malformed.ID != "B" {
		t.Errorf("Unexpected error details: %+v", malformed)
	}
}

func TestLoadLiteralMissingID(t *testing.T) {
	_, err := Literal{{Kind: model.KindClass}}.Build()
	if !IsMalformed(err) {
		t.Fatalf("Expected MalformedInputError, got %v", err)
	}
}

func TestLoadRecords(t *testing.T) {
	recs := Records{
		{ID: "Animal", Parent: "Thing"},
		{ID: "Thing"},
		{ID: "Plant", Parent: "Thing"},
		{ID: "Dog", Parent: "Animal", Label: "Good Dog"},
	}

	forest, err := recs.Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	want := []string{"Thing", "Animal", "Dog", "Plant"}
	if got := ids(forest.Nodes()); !reflect.DeepEqual(got, want) {
		t.Errorf("Display order = %v, want %v", got, want)
	}

	dog, _ := forest.Node("Dog")
	if dog.Label != "Good Dog" || dog.Level != 2 || dog.ParentID != "Animal" {
		t.Errorf("Unexpected Dog node: %+v", dog)
	}
}

func TestLoadRecordsUnresolvedParent(t *testing.T) {
	recs := Records{
		{ID: "Thing"},
		{ID: "Animal", Parent: "Missing"},
	}

	_, err := recs.Build()
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got %v", err)
	}
	if malformed.Reason != ReasonUnresolvedParent || malformed.Ref != "Missing" || malformed.ID != "Animal" {
		t.Errorf("Unexpected error details: %+v", malformed)
	}
}

func TestLoadCycleKeepsPreviousForest(t *testing.T) {
	store := NewStore()
	if _, err := store.Load(thingLiteral()); err != nil {
		t.Fatalf("initial Load() error: %v", err)
	}
	before := store.Forest()

	cyclic := Records{
		{ID: "Root"},
		{ID: "A", Parent: "B"},
		{ID: "B", Parent: "A"},
		{ID: "C", Parent: "A"},
	}

	_, err := store.Load(cyclic)
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got %v", err)
	}
	if malformed.Reason != ReasonCycle {
		t.Errorf("Expected cycle reason, got %q", malformed.Reason)
	}
	if !reflect.DeepEqual(malformed.Cycle, []string{"A", "B"}) {
		t.Errorf("Cycle members = %v, want [A B]", malformed.Cycle)
	}

	if store.Forest() != before {
		t.Error("Failed load replaced the forest")
	}
	if store.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", store.Generation())
	}
	if _, ok := store.FindByID("Root"); ok {
		t.Error("Partial forest from failed load is visible")
	}
}

func TestLoadTriplesScenario(t *testing.T) {
	triples := Triples{
		model.NewTriple("A", "type", "Class"),
		model.NewTriple("A", "subClassOf", "B"),
	}

	forest, err := triples.Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if forest.Len() != 2 {
		t.Fatalf("Expected 2 nodes, got %d", forest.Len())
	}
	a, _ := forest.Node("A")
	b, _ := forest.Node("B")
	if a.Kind != model.KindClass || b.Kind != model.KindClass {
		t.Errorf("Expected both class kind, got A=%v B=%v", a.Kind, b.Kind)
	}
	if a.ParentID != "B" || !b.IsRoot() {
		t.Errorf("Expected A under root B, got parent %q", a.ParentID)
	}
}

func TestLoadTriplesInstancesAndProperties(t *testing.T) {
	triples := Triples{
		model.NewTriple("ex:Person", "rdf:type", "owl:Class"),
		model.NewTriple("ex:arya", "rdf:type", "ex:Person"),
		{Subject: "ex:arya", Predicate: "rdfs:label", Object: "Arya", Literal: true},
		{Subject: "ex:arya", Predicate: "ex:hasAge", Object: "30", Literal: true},
		model.NewTriple("ex:arya", "ex:owns", "ex:corolla"),
		model.NewTriple("ex:Student", "rdfs:subClassOf", "ex:Person"),
		model.NewTriple("ex:arya", "rdf:type", "ex:Student"),
	}

	forest, err := triples.Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	arya, ok := forest.Node("ex:arya")
	if !ok {
		t.Fatal("ex:arya not found")
	}
	if arya.Label != "Arya" || arya.Kind != model.KindInstance {
		t.Errorf("Unexpected arya: label=%q kind=%v", arya.Label, arya.Kind)
	}
	if arya.ParentID != "ex:Person" {
		t.Errorf("First type assertion should own arya, got %q", arya.ParentID)
	}

	want := model.Properties{
		{Key: "hasAge", Value: "30"},
		{Key: "owns", Value: "corolla"},
		{Key: "type", Value: "Student"},
	}
	if !reflect.DeepEqual(arya.Properties, want) {
		t.Errorf("Properties = %v, want %v", arya.Properties, want)
	}

	if _, ok := forest.Node("ex:corolla"); ok {
		t.Error("Objects of plain relations should not become nodes")
	}

	student, _ := forest.Node("ex:Student")
	if student.Label != "Student" || student.Level != 1 {
		t.Errorf("Unexpected Student node: %+v", student)
	}
}

func TestLoadTriplesRepeated(t *testing.T) {
	once := Triples{
		model.NewTriple("ex:arya", "rdf:type", "ex:Person"),
		model.NewTriple("ex:arya", "rdf:type", "ex:Student"),
		{Subject: "ex:arya", Predicate: "ex:hasAge", Object: "25", Literal: true},
		{Subject: "ex:arya", Predicate: "ex:nick", Object: "A", Literal: true},
		{Subject: "ex:arya", Predicate: "ex:nick", Object: "N", Literal: true},
		model.NewTriple("ex:arya", "ex:owns", "ex:corolla"),
	}
	twice := append(append(Triples{}, once...), once...)

	want := model.Properties{
		{Key: "type", Value: "Student"},
		{Key: "hasAge", Value: "25"},
		{Key: "nick", Value: "A"},
		{Key: "nick", Value: "N"},
		{Key: "owns", Value: "corolla"},
	}
	for name, triples := range map[string]Triples{"once": once, "twice": twice} {
		forest, err := triples.Build()
		if err != nil {
			t.Fatalf("%s: Build() unexpected error: %v", name, err)
		}
		arya, _ := forest.Node("ex:arya")
		if !reflect.DeepEqual(arya.Properties, want) {
			t.Errorf("%s: Properties = %v, want %v", name, arya.Properties, want)
		}
		if forest.Len() != 3 {
			t.Errorf("%s: expected 3 nodes, got %d", name, forest.Len())
		}
	}
}

func TestLoadTriplesCycle(t *testing.T) {
	triples := Triples{
		model.NewTriple("A", "subClassOf", "B"),
		model.NewTriple("B", "subClassOf", "A"),
	}

	_, err := triples.Build()
	if !IsMalformed(err) {
		t.Fatalf("Expected MalformedInputError, got %v", err)
	}

	self := Triples{model.NewTriple("A", "subClassOf", "A")}
	if _, err := self.Build(); !IsMalformed(err) {
		t.Fatalf("Expected MalformedInputError for self reference, got %v", err)
	}
}

func TestPathAndFind(t *testing.T) {
	store := NewStore()
	if _, err := store.Load(thingLiteral()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := ids(store.Path("Dog")); !reflect.DeepEqual(got, []string{"Thing", "Animal", "Dog"}) {
		t.Errorf("Path(Dog) = %v", got)
	}
	if got := ids(store.Forest().Ancestors("Dog")); !reflect.DeepEqual(got, []string{"Thing", "Animal"}) {
		t.Errorf("Ancestors(Dog) = %v", got)
	}
	if got := store.Path("Thing"); len(got) != 1 {
		t.Errorf("Path(root) should contain only the root, got %d", len(got))
	}
	if got := store.Path("Unicorn"); got != nil {
		t.Errorf("Path(unknown) = %v, want nil", got)
	}
	if _, ok := store.FindByID("Unicorn"); ok {
		t.Error("FindByID(unknown) should report not found")
	}
}

func TestEmptyStore(t *testing.T) {
	store := NewStore()
	if store.Forest().Len() != 0 {
		t.Errorf("Expected empty forest")
	}
	if _, ok := store.FindByID("x"); ok {
		t.Error("Empty store should not find anything")
	}

	var nilForest *Forest
	if nilForest.Len() != 0 || nilForest.Roots() != nil {
		t.Error("nil forest should behave as empty")
	}
}

func TestLoadDeepChain(t *testing.T) {
	const depth = 100000
	recs := make(Records, depth)
	for i := range recs {
		recs[i] = model.Record{ID: fmt.Sprintf("n%d", i)}
		if i > 0 {
			recs[i].Parent = fmt.Sprintf("n%d", i-1)
		}
	}

	forest, err := recs.Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	last, _ := forest.Node(fmt.Sprintf("n%d", depth-1))
	if last.Level != depth-1 {
		t.Errorf("Expected level %d, got %d", depth-1, last.Level)
	}
}
