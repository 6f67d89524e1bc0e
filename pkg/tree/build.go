package tree

import (
	"github.com/ritzau/ontology-explorer/pkg/cycles"
	"github.com/ritzau/ontology-explorer/pkg/logging"
	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/vocab"
)

// Source is an already materialized ontology that can be built into a forest
type Source interface {
	Build() (*Forest, error)
}

// Literal is a static nested ontology literal
type Literal []model.LiteralNode

// Records is a flat list of entries with explicit parent references
type Records []model.Record

// Triples is a flat set of (subject, predicate, object) statements
type Triples []model.Triple

func newNode(id, label string, kind model.Kind, icon string, props model.Properties) *Node {
	if label == "" {
		label = id
	}
	if icon == "" {
		icon = kind.DefaultIcon()
	}
	return &Node{
		ID:         id,
		Label:      label,
		Kind:       kind,
		Icon:       icon,
		Properties: props.Clone(),
	}
}

// Build lays out the literal depth first with an explicit stack
func (l Literal) Build() (*Forest, error) {
	type pending struct {
		lit    *model.LiteralNode
		parent int
	}

	forest := newForest(len(l))
	stack := make([]pending, 0, len(l))
	for i := len(l) - 1; i >= 0; i-- {
		stack = append(stack, pending{lit: &l[i], parent: -1})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := top.lit.ID
		if id == "" {
			id = top.lit.Label
		}
		if id == "" {
			return nil, &MalformedInputError{Reason: ReasonMissingID}
		}
		if _, dup := forest.byID[id]; dup {
			return nil, &MalformedInputError{Reason: ReasonDuplicateID, ID: id}
		}

		n := newNode(id, top.lit.Label, top.lit.Kind, top.lit.Icon, top.lit.Properties)
		idx := forest.add(top.parent, n)

		children := top.lit.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pending{lit: &children[i], parent: idx})
		}
	}

	return forest, nil
}

// entry is a node waiting for its place in the forest
type entry struct {
	node   *Node
	parent string
}

// Build resolves parent references, rejects cycles, then lays out the forest
func (r Records) Build() (*Forest, error) {
	entries := make([]*entry, 0, len(r))
	byID := make(map[string]*entry, len(r))

	for _, rec := range r {
		if rec.ID == "" {
			return nil, &MalformedInputError{Reason: ReasonMissingID}
		}
		if _, dup := byID[rec.ID]; dup {
			return nil, &MalformedInputError{Reason: ReasonDuplicateID, ID: rec.ID}
		}
		e := &entry{
			node:   newNode(rec.ID, rec.Label, rec.Kind, rec.Icon, rec.Properties),
			parent: rec.Parent,
		}
		entries = append(entries, e)
		byID[rec.ID] = e
	}

	return assemble(entries, byID)
}

// Build maps triples onto a forest: subClassOf/subPropertyOf and instance
// typing define parents, meta-class typing defines kinds, rdfs:label sets
// labels, and every other statement becomes a property of its subject.
func (t Triples) Build() (*Forest, error) {
	var entries []*entry
	byID := make(map[string]*entry)
	explicitKind := make(map[string]bool)

	ensure := func(id string) *entry {
		if e, ok := byID[id]; ok {
			return e
		}
		e := &entry{node: &Node{ID: id, Label: vocab.LocalName(id), Kind: model.KindGeneric}}
		entries = append(entries, e)
		byID[id] = e
		return e
	}
	infer := func(e *entry, kind model.Kind) {
		if !explicitKind[e.node.ID] && e.node.Kind == model.KindGeneric {
			e.node.Kind = kind
		}
	}
	attach := func(child *entry, predicate, parent string) {
		if child.parent == "" {
			child.parent = parent
			return
		}
		if child.parent != parent {
			// a tree node has exactly one owner; extra parents stay visible as properties
			child.node.Properties.Add(vocab.LocalName(predicate), vocab.LocalName(parent))
		}
	}

	skipped := 0
	for _, tr := range t {
		if tr.Subject == "" || tr.Predicate == "" || tr.Object == "" {
			skipped++
			continue
		}
		subject := ensure(tr.Subject)

		switch {
		case tr.Literal && vocab.IsLabel(tr.Predicate):
			subject.node.Label = tr.Object

		case tr.Literal:
			subject.node.Properties.Add(vocab.LocalName(tr.Predicate), tr.Object)

		case vocab.IsType(tr.Predicate):
			if kind, meta := vocab.MetaKind(tr.Object); meta {
				subject.node.Kind = kind
				explicitKind[tr.Subject] = true
				continue
			}
			class := ensure(tr.Object)
			infer(class, model.KindClass)
			infer(subject, model.KindInstance)
			attach(subject, tr.Predicate, tr.Object)

		case vocab.IsParent(tr.Predicate):
			parent := ensure(tr.Object)
			kind := model.KindClass
			if vocab.LocalName(tr.Predicate) == vocab.SubPropertyOf {
				kind = model.KindProperty
			}
			infer(parent, kind)
			infer(subject, kind)
			attach(subject, tr.Predicate, tr.Object)

		default:
			subject.node.Properties.Add(vocab.LocalName(tr.Predicate), vocab.LocalName(tr.Object))
		}
	}

	if skipped > 0 {
		logging.Debug("skipped incomplete triples", "count", skipped)
	}

	for _, e := range entries {
		e.node.Icon = e.node.Kind.DefaultIcon()
	}
	return assemble(entries, byID)
}

// assemble validates parent references and lays entries out depth first.
// Children keep the order in which their entries were declared.
func assemble(entries []*entry, byID map[string]*entry) (*Forest, error) {
	for _, e := range entries {
		if e.parent == "" {
			continue
		}
		if _, ok := byID[e.parent]; !ok {
			return nil, &MalformedInputError{Reason: ReasonUnresolvedParent, ID: e.node.ID, Ref: e.parent}
		}
	}

	if id, ok := findCycle(entries, byID); ok {
		parents := make(map[string]string, len(entries))
		for _, e := range entries {
			parents[e.node.ID] = e.parent
		}
		err := &MalformedInputError{Reason: ReasonCycle, ID: id}
		for _, members := range cycles.FindParentCycles(parents) {
			if contains(members, id) {
				err.Cycle = members
				break
			}
		}
		return nil, err
	}

	children := make(map[string][]*entry, len(entries))
	var roots []*entry
	for _, e := range entries {
		if e.parent == "" {
			roots = append(roots, e)
		} else {
			children[e.parent] = append(children[e.parent], e)
		}
	}

	type pending struct {
		e      *entry
		parent int
	}

	forest := newForest(len(entries))
	stack := make([]pending, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pending{e: roots[i], parent: -1})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := forest.add(top.parent, top.e.node)
		kids := children[top.e.node.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, pending{e: kids[i], parent: idx})
		}
	}

	return forest, nil
}

// findCycle walks each parent chain with a set of visited ancestors. Chains
// already proven to end at a root are remembered, keeping the whole check linear.
func findCycle(entries []*entry, byID map[string]*entry) (string, bool) {
	grounded := make(map[string]bool, len(entries))

	for _, e := range entries {
		ancestors := make(map[string]bool)
		var chain []string

		for cur := e; cur != nil && !grounded[cur.node.ID]; {
			if ancestors[cur.node.ID] {
				return cur.node.ID, true
			}
			ancestors[cur.node.ID] = true
			chain = append(chain, cur.node.ID)
			if cur.parent == "" {
				break
			}
			cur = byID[cur.parent]
		}

		for _, id := range chain {
			grounded[id] = true
		}
	}
	return "", false
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
