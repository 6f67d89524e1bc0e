// Package graph exports forests and triple sets as node/edge graphs for renderers.
// Exports are deterministic: the same input always yields the same node and
// edge sequences, so unchanged data serializes byte for byte identically.
package graph

import (
	"strconv"

	"github.com/ritzau/ontology-explorer/pkg/logging"
	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/search"
	"github.com/ritzau/ontology-explorer/pkg/tree"
	"github.com/ritzau/ontology-explorer/pkg/vocab"
)

// Style is the rendering hint attached to a node
type Style struct {
	Color string
	Size  int
}

// DefaultStyles colors nodes by kind
var DefaultStyles = map[model.Kind]Style{
	model.KindClass:    {Color: "lightblue", Size: 30},
	model.KindInstance: {Color: "lightgreen", Size: 20},
	model.KindProperty: {Color: "orange", Size: 15},
	model.KindGeneric:  {Color: "lightgray", Size: 20},
}

// UntypedStyle is used for triple nodes no type assertion classifies
var UntypedStyle = Style{Color: "gray", Size: 10}

// Builder turns forests and triples into graphs
type Builder struct {
	Styles map[model.Kind]Style
}

// NewBuilder creates a builder with the default styles
func NewBuilder() *Builder {
	return &Builder{Styles: DefaultStyles}
}

func (b *Builder) style(k model.Kind) Style {
	if s, ok := b.Styles[k]; ok {
		return s
	}
	return DefaultStyles[model.KindGeneric]
}

// PropertyNodeID is the id of the node synthesized for one property of owner.
// Each part is quoted, so no owner, key or value can spill into another.
func PropertyNodeID(owner string, p model.Property) string {
	return "prop:" + strconv.Quote(owner) + " " + strconv.Quote(p.Key) + " " + strconv.Quote(p.Value)
}

// FromForest exports every node of the forest
func (b *Builder) FromForest(forest *tree.Forest) *model.Graph {
	return b.FromVisible(forest, nil)
}

// FromVisible exports the nodes in vis (all nodes when vis is nil). A
// parent-child edge is emitted only when both ends are visible.
func (b *Builder) FromVisible(forest *tree.Forest, vis *search.VisibilitySet) *model.Graph {
	g := model.NewGraph()
	include := func(i int) bool { return vis == nil || vis.VisibleAt(i) }

	for i, n := range forest.Nodes() {
		if !include(i) {
			continue
		}

		tier := model.TierSubtopic
		if n.IsRoot() {
			tier = model.TierTopic
		}
		st := b.style(n.Kind)
		g.AddNode(&model.GraphNode{ID: n.ID, Label: n.Label, Color: st.Color, Size: st.Size, Tier: tier})

		if parent, ok := forest.Parent(n); ok && include(parent.Index()) {
			label := vocab.RelationSubtopic
			if n.Kind == model.KindInstance {
				label = vocab.RelationInstanceOf
			}
			g.AddEdge(&model.GraphEdge{From: parent.ID, To: n.ID, Label: label})
		}

		propTier := min(tier+1, model.TierDerivedFact)
		propStyle := b.style(model.KindProperty)
		for _, p := range n.Properties {
			id := PropertyNodeID(n.ID, p)
			g.AddNode(&model.GraphNode{
				ID:    id,
				Label: p.Key + ": " + p.Value,
				Color: propStyle.Color,
				Size:  propStyle.Size,
				Tier:  propTier,
			})
			g.AddEdge(&model.GraphEdge{From: n.ID, To: id, Label: p.Key})
		}
	}

	return g
}

// literalNodeID keeps literal values apart from resources with the same spelling
func literalNodeID(value string) string {
	return strconv.Quote(value)
}

// FromTriples adds one edge per statement. Type assertions against meta
// classes (owl:Class, owl:ObjectProperty, ...) only classify their subject.
// Incomplete and self-referential triples are skipped and counted.
func (b *Builder) FromTriples(triples []model.Triple) *model.Graph {
	g := model.NewGraph()

	// Classification depends on every triple, so settle kinds first
	kinds := make(map[string]model.Kind)
	explicit := make(map[string]bool)
	labels := make(map[string]string)
	for _, t := range triples {
		if !usable(t) {
			continue
		}
		switch {
		case vocab.IsType(t.Predicate) && !t.Literal:
			if kind, meta := vocab.MetaKind(t.Object); meta {
				kinds[t.Subject] = kind
				explicit[t.Subject] = true
				continue
			}
			if !explicit[t.Subject] {
				kinds[t.Subject] = model.KindInstance
			}
			if !explicit[t.Object] {
				kinds[t.Object] = model.KindClass
			}
		case vocab.IsLabel(t.Predicate) && t.Literal:
			if _, seen := labels[t.Subject]; !seen {
				labels[t.Subject] = t.Object
			}
		}
	}

	ensure := func(id string, literal bool) {
		if g.HasNode(id) {
			return
		}
		if literal {
			st := b.style(model.KindProperty)
			g.AddNode(&model.GraphNode{ID: id, Label: id[1 : len(id)-1], Color: st.Color, Size: st.Size, Tier: model.TierProperty})
			return
		}

		label, ok := labels[id]
		if !ok {
			label = vocab.LocalName(id)
		}
		kind, typed := kinds[id]
		if !typed {
			g.AddNode(&model.GraphNode{ID: id, Label: label, Color: UntypedStyle.Color, Size: UntypedStyle.Size, Tier: model.TierDerivedFact})
			return
		}
		st := b.style(kind)
		g.AddNode(&model.GraphNode{ID: id, Label: label, Color: st.Color, Size: st.Size, Tier: tripleTier(kind)})
	}

	for _, t := range triples {
		if !usable(t) {
			g.Skipped++
			continue
		}
		if vocab.IsType(t.Predicate) && !t.Literal {
			if _, meta := vocab.MetaKind(t.Object); meta {
				ensure(t.Subject, false)
				continue
			}
		}

		object := t.Object
		if t.Literal {
			object = literalNodeID(t.Object)
		}
		ensure(t.Subject, false)
		ensure(object, t.Literal)
		g.AddEdge(&model.GraphEdge{From: t.Subject, To: object, Label: t.Predicate})
	}

	if g.Skipped > 0 {
		logging.Debug("skipped unusable triples", "count", g.Skipped, "total", len(triples))
	}
	return g
}

func usable(t model.Triple) bool {
	if t.Subject == "" || t.Predicate == "" || t.Object == "" {
		return false
	}
	return t.Literal || t.Subject != t.Object
}

func tripleTier(k model.Kind) model.Tier {
	switch k {
	case model.KindClass:
		return model.TierTopic
	case model.KindInstance:
		return model.TierSubtopic
	case model.KindProperty:
		return model.TierProperty
	default:
		return model.TierDerivedFact
	}
}
