package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ritzau/ontology-explorer/pkg/expansion"
	"github.com/ritzau/ontology-explorer/pkg/ingest"
	"github.com/ritzau/ontology-explorer/pkg/search"
	"github.com/ritzau/ontology-explorer/pkg/stats"
	"github.com/ritzau/ontology-explorer/pkg/tree"
	"github.com/ritzau/ontology-explorer/pkg/view"
)

func init() {
	color.NoColor = true
}

func sampleStore(t *testing.T) *tree.Store {
	t.Helper()
	store := tree.NewStore()
	if _, err := store.Load(ingest.Sample().Source); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return store
}

func TestPrintView(t *testing.T) {
	store := sampleStore(t)
	expansion.NewController(store).Toggle("Person")
	vis := search.Filter(store.Forest(), "arya")
	snap := view.Build(store.Forest(), vis, store.Generation())

	var buf bytes.Buffer
	PrintView(&buf, "sample", snap)
	out := buf.String()

	for _, want := range []string{
		"Ontology: sample",
		`Filter: "arya"`,
		"▾ folder Person",
		"    entity Arya",
		"2 of 6 nodes shown",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Car") {
		t.Errorf("Filtered-out node printed:\n%s", out)
	}
}

func TestPrintViewEmpty(t *testing.T) {
	store := tree.NewStore()
	var buf bytes.Buffer
	PrintView(&buf, "empty", view.Build(store.Forest(), nil, 0))
	if !strings.Contains(buf.String(), "(nothing to show)") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}

func TestPrintStats(t *testing.T) {
	store := sampleStore(t)
	var buf bytes.Buffer
	PrintStats(&buf, "sample", stats.Collect(store.Forest()))
	out := buf.String()

	for _, want := range []string{"Nodes: 6", "Roots: 2", "Max depth: 1", "class      2", "instance   4"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "cycle",
			err:  &tree.MalformedInputError{Reason: tree.ReasonCycle, ID: "A", Cycle: []string{"A", "B"}},
			want: []string{"Malformed input: cycle", "Node: A", "Cycle: A -> B -> A"},
		},
		{
			name: "unresolved parent",
			err:  &tree.MalformedInputError{Reason: tree.ReasonUnresolvedParent, ID: "A", Ref: "Ghost"},
			want: []string{"unresolved parent", "Parent reference: Ghost"},
		},
		{
			name: "other",
			err:  errors.New("failed to read onto.yaml"),
			want: []string{"✗ failed to read onto.yaml"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintError(&buf, tt.err)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("Output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
