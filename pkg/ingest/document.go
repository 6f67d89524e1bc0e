// Package ingest turns files on disk into ontology sources the tree store can
// build. Supported inputs are nested literals and flat records (YAML or JSON)
// and RDF (N-Triples or Turtle). An empty path selects the built-in sample
// ontology.
package ingest

import (
	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/tree"
	"github.com/ritzau/ontology-explorer/pkg/vocab"
)

// Format identifies how a document was encoded
type Format string

const (
	FormatLiteral  Format = "literal"
	FormatRecords  Format = "records"
	FormatNTriples Format = "ntriples"
	FormatTurtle   Format = "turtle"
)

// Document is a materialized ontology ready to be loaded
type Document struct {
	Name   string
	Format Format
	Source tree.Source
}

// Statements returns the document as triples. Triple documents are returned
// as read; literal and record documents are described with rdf:type,
// rdfs:subClassOf, rdfs:label and one literal triple per property.
func (d *Document) Statements() []model.Triple {
	switch src := d.Source.(type) {
	case tree.Triples:
		return []model.Triple(src)
	case tree.Literal:
		var out []model.Triple
		type pending struct {
			lit    *model.LiteralNode
			parent *model.LiteralNode
		}
		stack := make([]pending, 0, len(src))
		for i := len(src) - 1; i >= 0; i-- {
			stack = append(stack, pending{lit: &src[i]})
		}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			rec := model.Record{ID: literalID(top.lit), Label: top.lit.Label, Kind: top.lit.Kind, Properties: top.lit.Properties}
			if top.parent != nil {
				rec.Parent = literalID(top.parent)
			}
			out = append(out, describe(rec)...)

			for i := len(top.lit.Children) - 1; i >= 0; i-- {
				stack = append(stack, pending{lit: &top.lit.Children[i], parent: top.lit})
			}
		}
		return out
	case tree.Records:
		var out []model.Triple
		for _, rec := range src {
			out = append(out, describe(rec)...)
		}
		return out
	}
	return nil
}

func literalID(l *model.LiteralNode) string {
	if l.ID != "" {
		return l.ID
	}
	return l.Label
}

var metaObject = map[model.Kind]string{
	model.KindClass:    "owl:Class",
	model.KindProperty: "owl:ObjectProperty",
}

func describe(rec model.Record) []model.Triple {
	var out []model.Triple

	if meta, ok := metaObject[rec.Kind]; ok {
		out = append(out, model.NewTriple(rec.ID, "rdf:type", meta))
	}
	if rec.Parent != "" {
		switch rec.Kind {
		case model.KindInstance:
			out = append(out, model.NewTriple(rec.ID, "rdf:type", rec.Parent))
		case model.KindProperty:
			out = append(out, model.NewTriple(rec.ID, "rdfs:"+vocab.SubPropertyOf, rec.Parent))
		default:
			out = append(out, model.NewTriple(rec.ID, "rdfs:"+vocab.SubClassOf, rec.Parent))
		}
	}
	if rec.Label != "" && rec.Label != rec.ID {
		out = append(out, model.Triple{Subject: rec.ID, Predicate: "rdfs:" + vocab.Label, Object: rec.Label, Literal: true})
	}
	for _, p := range rec.Properties {
		out = append(out, model.Triple{Subject: rec.ID, Predicate: p.Key, Object: p.Value, Literal: true})
	}
	return out
}
