package crate

import (
	"github.com/cottand/variance/frontend/ir"
	"gopkg.in/yaml.v3"
)

// crateDesc is a crate as written in a description file
type crateDesc struct {
	Crate string     `yaml:"crate" json:"crate"`
	Items []itemDesc `yaml:"items" json:"items"`
}

type itemDesc struct {
	Name   string `yaml:"name" json:"name"`
	Kind   string `yaml:"kind" json:"kind"`
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty"`

	// Generics are parameter declarations, like 'a, T or const N: usize
	Generics []string      `yaml:"generics,omitempty" json:"generics,omitempty"`
	Fields   []fieldDesc   `yaml:"fields,omitempty" json:"fields,omitempty"`
	Variants []variantDesc `yaml:"variants,omitempty" json:"variants,omitempty"`
	Inputs   []string      `yaml:"inputs,omitempty" json:"inputs,omitempty"`

	// Output is required for local functions, and is () for functions returning nothing
	Output *string  `yaml:"output,omitempty" json:"output,omitempty"`
	Bounds []string `yaml:"bounds,omitempty" json:"bounds,omitempty"`

	External  bool     `yaml:"external,omitempty" json:"external,omitempty"`
	Variances []string `yaml:"variances,omitempty" json:"variances,omitempty"`
	Attrs     []string `yaml:"attrs,omitempty" json:"attrs,omitempty"`

	pos ir.Pos
}

type fieldDesc struct {
	// Name is empty for positional fields
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Type string `yaml:"type" json:"type"`

	pos ir.Pos
}

type variantDesc struct {
	Name   string      `yaml:"name" json:"name"`
	Fields []fieldDesc `yaml:"fields,omitempty" json:"fields,omitempty"`
	Attrs  []string    `yaml:"attrs,omitempty" json:"attrs,omitempty"`

	pos ir.Pos
}

func yamlPos(node *yaml.Node) ir.Pos {
	return ir.Pos{Line: node.Line, Column: node.Column}
}

func (d *itemDesc) UnmarshalYAML(value *yaml.Node) error {
	type plain itemDesc
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	d.pos = yamlPos(value)
	return nil
}

func (d *fieldDesc) UnmarshalYAML(value *yaml.Node) error {
	// a field may be written as just its type
	if value.Kind == yaml.ScalarNode {
		d.Type = value.Value
		d.pos = yamlPos(value)
		return nil
	}
	type plain fieldDesc
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	d.pos = yamlPos(value)
	return nil
}

func (d *variantDesc) UnmarshalYAML(value *yaml.Node) error {
	type plain variantDesc
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	d.pos = yamlPos(value)
	return nil
}

func decodeYAML(data []byte) (crateDesc, error) {
	var desc crateDesc
	err := yaml.Unmarshal(data, &desc)
	return desc, err
}

// withFilename sets the file of every position in desc
func (d *crateDesc) withFilename(filename string) {
	set := func(pos *ir.Pos) {
		if pos.Line > 0 {
			pos.Filename = filename
		}
	}
	for i := range d.Items {
		item := &d.Items[i]
		set(&item.pos)
		for j := range item.Fields {
			set(&item.Fields[j].pos)
		}
		for j := range item.Variants {
			variant := &item.Variants[j]
			set(&variant.pos)
			for k := range variant.Fields {
				set(&variant.Fields[k].pos)
			}
		}
	}
}
