// Package vocab recognizes the RDF, RDFS and OWL terms the explorer gives
// structural meaning to. Terms may be spelled as full IRIs, prefixed names
// (rdf:type) or bare local names (type).
package vocab

import (
	"strings"

	"github.com/ritzau/ontology-explorer/pkg/model"
)

// Namespaces for the standard prefixes
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Prefixes maps prefix names to namespaces for expanding prefixed names
var Prefixes = map[string]string{
	"rdf":  RDF,
	"rdfs": RDFS,
	"owl":  OWL,
	"xsd":  XSD,
}

// Predicate local names with structural meaning
const (
	Type          = "type"
	SubClassOf    = "subClassOf"
	SubPropertyOf = "subPropertyOf"
	Label         = "label"
)

// Relation names used on edges synthesized from a forest
const (
	RelationSubtopic   = "hasSubtopic"
	RelationInstanceOf = "instanceOf"
)

// metaClasses are type-assertion objects that classify their subject
var metaClasses = map[string]model.Kind{
	"Class":              model.KindClass,
	"Thing":              model.KindClass,
	"ObjectProperty":     model.KindProperty,
	"DatatypeProperty":   model.KindProperty,
	"AnnotationProperty": model.KindProperty,
	"Property":           model.KindProperty,
	"NamedIndividual":    model.KindInstance,
}

// LocalName strips the namespace or prefix from a term.
// "http://x.org/a#B" -> "B", "rdf:type" -> "type", "<http://x/y>" -> "y".
func LocalName(term string) string {
	term = strings.TrimSuffix(strings.TrimPrefix(term, "<"), ">")
	if i := strings.LastIndexAny(term, "#/"); i >= 0 {
		if i < len(term)-1 {
			return term[i+1:]
		}
		return term
	}
	if i := strings.LastIndex(term, ":"); i >= 0 && i < len(term)-1 {
		return term[i+1:]
	}
	return term
}

// Expand turns a prefixed name with a known prefix into a full IRI.
// Anything else is returned unchanged.
func Expand(term string) string {
	prefix, local, ok := strings.Cut(term, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return term
	}
	if ns, known := Prefixes[prefix]; known {
		return ns + local
	}
	return term
}

// is reports whether term names ns+local, spelled as a full IRI, a prefixed
// name with a standard prefix or the bare local name
func is(term, ns, local string) bool {
	term = strings.TrimSuffix(strings.TrimPrefix(term, "<"), ">")
	return term == local || Expand(term) == ns+local
}

// IsType reports whether the predicate is rdf:type (or "a", as in Turtle)
func IsType(predicate string) bool {
	return predicate == "a" || is(predicate, RDF, Type)
}

// IsParent reports whether the predicate places its subject under its object
func IsParent(predicate string) bool {
	return is(predicate, RDFS, SubClassOf) || is(predicate, RDFS, SubPropertyOf)
}

// IsLabel reports whether the predicate is rdfs:label
func IsLabel(predicate string) bool {
	return is(predicate, RDFS, Label)
}

// MetaKind returns the kind a type assertion with this object assigns,
// and false when the object is an ordinary (user defined) class.
func MetaKind(object string) (model.Kind, bool) {
	kind, ok := metaClasses[LocalName(object)]
	return kind, ok
}
