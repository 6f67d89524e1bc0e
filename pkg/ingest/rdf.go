package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/knakk/rdf"

	"github.com/ritzau/ontology-explorer/pkg/model"
)

// DecodeTriples reads every statement of an N-Triples or Turtle document.
// IRIs lose their angle brackets, blank nodes keep their _: label and
// literals keep only their lexical form.
func DecodeTriples(r io.Reader, format rdf.Format) ([]model.Triple, error) {
	dec := rdf.NewTripleDecoder(r, format)

	var triples []model.Triple
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return triples, nil
		}
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", len(triples)+1, err)
		}
		triples = append(triples, convert(t))
	}
}

func convert(t rdf.Triple) model.Triple {
	object, literal := term(t.Obj)
	subject, _ := term(t.Subj)
	predicate, _ := term(t.Pred)
	return model.Triple{Subject: subject, Predicate: predicate, Object: object, Literal: literal}
}

// term returns the identifier of an RDF term and whether it is a literal
func term(t rdf.Term) (string, bool) {
	switch v := t.(type) {
	case rdf.Literal:
		return v.String(), true
	case rdf.Blank:
		return "_:" + strings.TrimPrefix(v.String(), "_:"), false
	default:
		return t.String(), false
	}
}
