package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
	"gopkg.in/yaml.v3"

	"github.com/ritzau/ontology-explorer/pkg/logging"
	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/tree"
)

// treeFile is the layout of YAML and JSON sources. Exactly one of the two
// sections must be present.
type treeFile struct {
	Tree    []model.LiteralNode `json:"tree" yaml:"tree"`
	Records []model.Record      `json:"records" yaml:"records"`
}

// Loader reads ontology documents through a Reader
type Loader struct {
	reader Reader
}

// NewLoader creates a loader over the local filesystem
func NewLoader() *Loader {
	return &Loader{reader: NewReader()}
}

// NewLoaderWithReader creates a loader over a custom reader
func NewLoaderWithReader(r Reader) *Loader {
	return &Loader{reader: r}
}

// Load reads and decodes path. The format follows the file extension:
// .nt for N-Triples, .ttl for Turtle, .json for JSON, anything else is
// read as YAML.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	if path == "" {
		logging.DebugContext(ctx, "no source configured, using sample ontology")
		return Sample(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := logging.New("ingest")

	data, err := l.reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Decode(path, data)
	if err != nil {
		return nil, err
	}

	logger.Debug("source decoded", "path", path, "format", doc.Format, "bytes", len(data))
	return doc, nil
}

var rdfFormats = map[string]struct {
	name Format
	rdf  rdf.Format
}{
	".nt":  {FormatNTriples, rdf.NTriples},
	".ttl": {FormatTurtle, rdf.Turtle},
}

// Decode interprets data using the extension of name
func Decode(name string, data []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(name))

	if format, ok := rdfFormats[ext]; ok {
		triples, err := DecodeTriples(bytes.NewReader(data), format.rdf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return &Document{Name: name, Format: format.name, Source: tree.Triples(triples)}, nil
	}

	var f treeFile
	if ext == ".json" {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}

	switch {
	case f.Tree != nil && f.Records != nil:
		return nil, fmt.Errorf("%s: both tree and records sections present", name)
	case f.Records != nil:
		return &Document{Name: name, Format: FormatRecords, Source: tree.Records(f.Records)}, nil
	case f.Tree != nil:
		return &Document{Name: name, Format: FormatLiteral, Source: tree.Literal(f.Tree)}, nil
	}
	return nil, fmt.Errorf("%s: no tree or records section", name)
}
