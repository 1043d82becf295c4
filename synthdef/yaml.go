package synthdef

import (
	"fmt"
)

// def is a wire form of Def. Unknown keys are inputs written inline.
type def struct {
	ID     string           `yaml:"id,omitempty"`
	UGen   string           `yaml:"ugen,omitempty"`
	Inputs map[string]Value `yaml:"inputs,omitempty"`
	Inline map[string]Value `yaml:",inline"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Def) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w def
	if err := unmarshal(&w); err != nil {
		return err
	}
	d.ID = w.ID
	d.UGen = w.UGen
	d.Inputs = w.Inputs
	for name, v := range w.Inline {
		if _, ok := d.Inputs[name]; ok {
			return fmt.Errorf("input %q is defined twice", name)
		}
		d.Set(name, v)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Def) MarshalYAML() (interface{}, error) {
	return def{
		ID:     d.ID,
		UGen:   d.UGen,
		Inputs: d.Inputs,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Alternatives are tried in
// order: number, array of numbers, definition, array of definitions.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var num float64
	if err := unmarshal(&num); err == nil {
		*v = NumberValue(num)
		return nil
	}
	var nums []float64
	if err := unmarshal(&nums); err == nil {
		*v = NumbersValue(nums...)
		return nil
	}
	var d Def
	if err := unmarshal(&d); err == nil {
		*v = NodeValue(d)
		return nil
	}
	var defs []Def
	if err := unmarshal(&defs); err != nil {
		return fmt.Errorf("input must be a number, an array of numbers, a node or an array of nodes: %w", err)
	}
	*v = NodesValue(defs...)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case Number:
		return v.num, nil
	case Numbers:
		return v.nums, nil
	case Node:
		return v.def, nil
	case Nodes:
		return v.defs, nil
	}
	return nil, fmt.Errorf("marshal %v value", v.kind)
}
