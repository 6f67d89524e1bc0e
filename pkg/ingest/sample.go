package ingest

import (
	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/tree"
)

// SampleName names the built-in document
const SampleName = "sample"

type sampleClass struct {
	name      string
	instances []string
	keys      []string
	values    [][]string // values[i] belongs to instances[i]
}

var sampleClasses = []sampleClass{
	{
		name:      "Person",
		instances: []string{"V N", "Arya"},
		keys:      []string{"hasAge", "hasRole"},
		values:    [][]string{{"25", "Student"}, {"30", "Teacher"}},
	},
	{
		name:      "Car",
		instances: []string{"Tesla Model 3", "Toyota Corolla"},
		keys:      []string{"isElectric", "owner"},
		values:    [][]string{{"true", "V N"}, {"false", "Arya"}},
	},
}

// Sample returns the built-in Person/Car ontology
func Sample() *Document {
	lit := make(tree.Literal, 0, len(sampleClasses))
	for _, c := range sampleClasses {
		class := model.LiteralNode{Label: c.name, Kind: model.KindClass}
		for i, inst := range c.instances {
			props := make(model.Properties, 0, len(c.keys))
			for k, key := range c.keys {
				props = append(props, model.Property{Key: key, Value: c.values[i][k]})
			}
			class.Children = append(class.Children, model.LiteralNode{
				Label:      inst,
				Kind:       model.KindInstance,
				Properties: props,
			})
		}
		lit = append(lit, class)
	}

	return &Document{Name: SampleName, Format: FormatLiteral, Source: lit}
}
