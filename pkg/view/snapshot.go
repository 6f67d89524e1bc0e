// Package view renders the read-only snapshot a UI draws after each interaction
package view

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/search"
	"github.com/ritzau/ontology-explorer/pkg/tree"
)

// Row is one rendered line of the tree
type Row struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Kind        model.Kind `json:"kind"`
	Icon        string     `json:"icon"`
	Level       int        `json:"level"`
	Expanded    bool       `json:"expanded"`
	HasChildren bool       `json:"hasChildren"`
	Match       bool       `json:"match,omitempty"`
}

// Snapshot lists the rows to draw in display order
type Snapshot struct {
	Generation int    `json:"generation"`
	Query      string `json:"query,omitempty"`
	Total      int    `json:"total"`
	Rows       []Row  `json:"rows"`
	Hash       string `json:"hash"`
}

// Build selects the nodes that pass the filter and whose ancestors are all
// expanded. vis may be nil, meaning no filter.
func Build(forest *tree.Forest, vis *search.VisibilitySet, generation int) *Snapshot {
	if vis == nil {
		vis = search.Filter(forest, "")
	}

	snap := &Snapshot{
		Generation: generation,
		Query:      vis.Query(),
		Total:      forest.Len(),
		Rows:       make([]Row, 0, vis.Len()),
	}

	// open[i] is true when every ancestor of node i is expanded
	open := make([]bool, forest.Len())
	for i, n := range forest.Nodes() {
		parent, hasParent := forest.Parent(n)
		open[i] = !hasParent || (open[parent.Index()] && parent.Expanded)
		if !open[i] || !vis.VisibleAt(i) {
			continue
		}
		snap.Rows = append(snap.Rows, Row{
			ID:          n.ID,
			Label:       n.Label,
			Kind:        n.Kind,
			Icon:        n.Icon,
			Level:       n.Level,
			Expanded:    n.Expanded,
			HasChildren: n.HasChildren(),
			Match:       vis.MatchedAt(i),
		})
	}

	snap.Hash = hashRows(snap.Rows)
	return snap
}

// IDs returns the row ids in order
func (s Snapshot) IDs() []string {
	out := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.ID
	}
	return out
}

func hashRows(rows []Row) string {
	data, err := json.Marshal(rows)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
