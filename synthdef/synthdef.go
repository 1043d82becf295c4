// Package synthdef describes synth definitions: trees of unit generator
// specs with named inputs. Definitions can be decoded from YAML or JSON
// documents of the following form:
//
//	id: sine
//	ugen: sinOsc
//	inputs:
//	  freq: 440
//	  mul:
//	    ugen: lfSaw
//	    freq: 2
//
// Inputs may be written either under the inputs key or inline next to id
// and ugen.
package synthdef

import (
	"fmt"
	"io"
	"io/ioutil"
	"sort"

	"gopkg.in/yaml.v2"
)

type (
	// Def is a node of synth definition.
	Def struct {
		ID     string
		UGen   string
		Inputs map[string]Value
	}

	// Value is an input of definition node. It holds either a number,
	// an array of numbers, a nested definition or an array of nested
	// definitions.
	Value struct {
		kind Kind
		num  float64
		nums []float64
		def  *Def
		defs []*Def
	}

	// Kind of input value.
	Kind int
)

const (
	// Invalid is a zero value.
	Invalid Kind = iota
	// Number is a scalar literal.
	Number
	// Numbers is an array of literals.
	Numbers
	// Node is a nested definition.
	Node
	// Nodes is an array of nested definitions.
	Nodes
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Numbers:
		return "numbers"
	case Node:
		return "node"
	case Nodes:
		return "nodes"
	default:
		return "invalid"
	}
}

// NumberValue returns scalar value.
func NumberValue(v float64) Value {
	return Value{kind: Number, num: v}
}

// NumbersValue returns array value.
func NumbersValue(v ...float64) Value {
	return Value{kind: Numbers, nums: append([]float64{}, v...)}
}

// NodeValue returns nested definition value.
func NodeValue(d Def) Value {
	return Value{kind: Node, def: &d}
}

// NodesValue returns array of nested definitions value.
func NodesValue(defs ...Def) Value {
	v := Value{kind: Nodes, defs: make([]*Def, 0, len(defs))}
	for i := range defs {
		d := defs[i]
		v.defs = append(v.defs, &d)
	}
	return v
}

// Kind returns kind of value.
func (v Value) Kind() Kind {
	return v.kind
}

// Number returns scalar literal.
func (v Value) Number() float64 {
	return v.num
}

// Numbers returns array of literals.
func (v Value) Numbers() []float64 {
	return v.nums
}

// Def returns nested definition or nil if value is not a node.
func (v Value) Def() *Def {
	return v.def
}

// Defs returns nested definitions.
func (v Value) Defs() []*Def {
	return v.defs
}

// Clone returns deep copy of the value.
func (v Value) Clone() Value {
	switch v.kind {
	case Numbers:
		return NumbersValue(v.nums...)
	case Node:
		return NodeValue(v.def.Clone())
	case Nodes:
		c := Value{kind: Nodes, defs: make([]*Def, 0, len(v.defs))}
		for _, d := range v.defs {
			dc := d.Clone()
			c.defs = append(c.defs, &dc)
		}
		return c
	}
	return v
}

// Clone returns deep copy of the definition.
func (d Def) Clone() Def {
	c := Def{ID: d.ID, UGen: d.UGen}
	if d.Inputs != nil {
		c.Inputs = make(map[string]Value, len(d.Inputs))
		for name, v := range d.Inputs {
			c.Inputs[name] = v.Clone()
		}
	}
	return c
}

// InputNames returns sorted names of defined inputs.
func (d Def) InputNames() []string {
	names := make([]string, 0, len(d.Inputs))
	for name := range d.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns nested node with provided id. Search is depth-first in
// sorted input order.
func (d *Def) Find(id string) *Def {
	if d.ID == id {
		return d
	}
	for _, name := range d.InputNames() {
		v := d.Inputs[name]
		switch v.kind {
		case Node:
			if found := v.def.Find(id); found != nil {
				return found
			}
		case Nodes:
			for _, nested := range v.defs {
				if found := nested.Find(id); found != nil {
					return found
				}
			}
		}
	}
	return nil
}

// Walk calls fn for the definition and every nested definition, parents
// first.
func (d *Def) Walk(fn func(*Def)) {
	fn(d)
	for _, name := range d.InputNames() {
		v := d.Inputs[name]
		switch v.kind {
		case Node:
			v.def.Walk(fn)
		case Nodes:
			for _, nested := range v.defs {
				nested.Walk(fn)
			}
		}
	}
}

// IDs returns ids of all nodes in the definition.
func (d *Def) IDs() []string {
	var ids []string
	d.Walk(func(n *Def) {
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
	})
	return ids
}

// Set replaces the input value of the definition.
func (d *Def) Set(input string, v Value) {
	if d.Inputs == nil {
		d.Inputs = make(map[string]Value)
	}
	d.Inputs[input] = v
}

// Decode reads definition from YAML or JSON document.
func Decode(r io.Reader) (Def, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return Def{}, err
	}
	return Unmarshal(b)
}

// Unmarshal parses definition from YAML or JSON document.
func Unmarshal(b []byte) (Def, error) {
	var d Def
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Def{}, fmt.Errorf("synthdef: %w", err)
	}
	if d.UGen == "" && d.ID == "" {
		return Def{}, fmt.Errorf("synthdef: empty definition")
	}
	return d, nil
}

// Marshal renders definition as YAML document.
func Marshal(d Def) ([]byte, error) {
	return yaml.Marshal(d)
}

// UnmarshalValue parses single input value from YAML or JSON document,
// for example "220", "[1, 2]" or "{ugen: sinOsc, freq: 2}".
func UnmarshalValue(b []byte) (Value, error) {
	var v Value
	if err := yaml.Unmarshal(b, &v); err != nil {
		return Value{}, fmt.Errorf("synthdef: %w", err)
	}
	if v.kind == Invalid {
		return Value{}, fmt.Errorf("synthdef: empty value")
	}
	return v, nil
}
