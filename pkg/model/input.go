package model

// LiteralNode is one entry of a static nested ontology literal.
// ID defaults to Label when empty.
type LiteralNode struct {
	ID         string        `json:"id,omitempty" yaml:"id,omitempty"`
	Label      string        `json:"label" yaml:"label"`
	Kind       Kind          `json:"kind" yaml:"kind"`
	Icon       string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Properties Properties    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Children   []LiteralNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Record is a flat ontology entry that names its parent explicitly.
// An empty Parent marks a root.
type Record struct {
	ID         string     `json:"id" yaml:"id"`
	Label      string     `json:"label,omitempty" yaml:"label,omitempty"`
	Kind       Kind       `json:"kind" yaml:"kind"`
	Icon       string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Parent     string     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Properties Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Triple is a (subject, predicate, object) statement.
// Literal is set when Object is a literal value rather than a resource identifier.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Literal   bool   `json:"literal,omitempty"`
}

// NewTriple creates a resource-valued triple
func NewTriple(s, p, o string) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}
