package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Property is a single name/value pair attached to a node
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Properties is an insertion-ordered mapping of property names to values.
// It decodes from YAML and JSON objects without losing key order.
type Properties []Property

// Get returns the value stored under key
func (p Properties) Get(key string) (string, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return "", false
}

// Set overwrites an existing key in place or appends a new one
func (p *Properties) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: value})
}

// Add appends a pair unless the identical pair is already present. Keys may
// repeat with different values, as a triple set allows.
func (p *Properties) Add(key, value string) bool {
	for _, prop := range *p {
		if prop.Key == key && prop.Value == value {
			return false
		}
	}
	*p = append(*p, Property{Key: key, Value: value})
	return true
}

// Clone returns an independent copy
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	copy(out, p)
	return out
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(prop.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	var out Properties
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("properties: expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("properties: value of %q: %w", key, err)
		}
		out.Set(key, scalarJSON(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// scalarJSON renders a raw JSON value as display text: strings unquoted,
// everything else verbatim.
func scalarJSON(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*p = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("properties: line %d: expected mapping", node.Line)
	}

	var out Properties
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if valueNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("properties: line %d: value of %q must be a scalar", valueNode.Line, keyNode.Value)
		}
		out.Set(keyNode.Value, valueNode.Value)
	}
	*p = out
	return nil
}
