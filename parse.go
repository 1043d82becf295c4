package flock

import (
	"pipelined.dev/flock/synthdef"
	"pipelined.dev/flock/ugen"
)

// OutputID is the reserved id of the synth head.
const OutputID = "flock-out"

// Parser creates unit generator graphs from definitions.
type Parser struct {
	Registry *ugen.Registry
	Context  ugen.Context
}

// Parse creates a graph from definition using core unit generators.
func Parse(def synthdef.Def, ctx ugen.Context) (*Graph, error) {
	return Parser{Registry: ugen.Default(), Context: ctx}.Parse(def)
}

// Parse creates a graph from the definition. Definition without the
// output head is wrapped into an out node that expands the signal to all
// output channels. Parse is atomic: either a complete graph or an error
// is returned.
func (p Parser) Parse(def synthdef.Def) (*Graph, error) {
	var serial int64
	return p.parse(def, &serial)
}

func (p Parser) parse(def synthdef.Def, serial *int64) (*Graph, error) {
	root, err := p.wrap(def)
	if err != nil {
		return nil, err
	}
	st := p.newState(nil, serial)
	head, err := st.node(&root)
	if err != nil {
		return nil, err
	}
	return newGraph(head), nil
}

// wrap returns definition with the head. Output root without id becomes
// the head.
func (p Parser) wrap(def synthdef.Def) (synthdef.Def, error) {
	spec, ok := p.registry().Lookup(def.UGen)
	if def.ID == OutputID {
		if ok && !spec.Output {
			return def, &NodeError{ID: def.ID, Type: def.UGen, Err: invalid("head must be an output")}
		}
		return def, nil
	}
	if ok && spec.Output {
		if def.ID != "" {
			return def, &NodeError{ID: def.ID, Type: def.UGen, Err: invalid("output root must have id %q or none", OutputID)}
		}
		def.ID = OutputID
		return def, nil
	}
	expand := p.Context.NumOutputs
	if expand < 1 {
		expand = 1
	}
	return synthdef.Def{
		ID:   OutputID,
		UGen: ugen.TypeOut,
		Inputs: map[string]synthdef.Value{
			"sources": synthdef.NodeValue(def),
			"expand":  synthdef.NumberValue(float64(expand)),
		},
	}, nil
}

func (p Parser) registry() *ugen.Registry {
	if p.Registry == nil {
		return ugen.Default()
	}
	return p.Registry
}

// parseState tracks ids of a single parse. Reserved ids belong to the
// rest of the graph when a subgraph is parsed. Serial numbers nodes of
// the graph, it outlives the parse when a subgraph is parsed.
type parseState struct {
	Parser
	ids      map[string]struct{}
	reserved map[string]struct{}
	serial   *int64
}

func (p Parser) newState(reserved map[string]struct{}, serial *int64) *parseState {
	return &parseState{
		Parser:   p,
		ids:      make(map[string]struct{}),
		reserved: reserved,
		serial:   serial,
	}
}

// nodeSeed mixes the graph seed with the node serial, so random unit
// generators of one graph are not correlated.
func nodeSeed(seed, serial int64) int64 {
	z := uint64(seed) + uint64(serial+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// inputValue returns the value given for the input by its name or alias.
func inputValue(d *synthdef.Def, is ugen.InputSpec) (synthdef.Value, bool, error) {
	v, ok := d.Inputs[is.Name]
	for _, alias := range is.Aliases {
		a, given := d.Inputs[alias]
		if !given {
			continue
		}
		if ok {
			return synthdef.Value{}, false, invalid("input is given twice")
		}
		v, ok = a, true
	}
	return v, ok, nil
}

// node instantiates definition, inputs first.
func (st *parseState) node(d *synthdef.Def) (ugen.UGen, error) {
	if d.UGen == "" {
		return nil, &NodeError{ID: d.ID, Err: invalid("missing ugen type")}
	}
	spec, ok := st.registry().Lookup(d.UGen)
	if !ok {
		return nil, &NodeError{ID: d.ID, Type: d.UGen, Err: ErrUnknownUGenType}
	}
	if d.ID != "" {
		_, seen := st.ids[d.ID]
		_, taken := st.reserved[d.ID]
		if seen || taken {
			return nil, &NodeError{ID: d.ID, Type: d.UGen, Err: ErrDuplicateNodeID}
		}
		st.ids[d.ID] = struct{}{}
	}
	for _, name := range d.InputNames() {
		if _, ok := spec.Input(name); !ok {
			return nil, &NodeError{ID: d.ID, Type: d.UGen, Input: name, Err: invalid("unknown input")}
		}
	}

	inputs := ugen.NewInputs()
	for _, is := range spec.Inputs {
		v, ok, err := inputValue(d, is)
		if err != nil {
			return nil, &NodeError{ID: d.ID, Type: d.UGen, Input: is.Name, Err: err}
		}
		var slot ugen.Input
		if ok {
			slot, err = st.slot(is, v)
		} else {
			slot, err = st.defaultSlot(is)
		}
		if err != nil {
			if _, located := err.(*NodeError); located {
				return nil, err
			}
			return nil, &NodeError{ID: d.ID, Type: d.UGen, Input: is.Name, Err: err}
		}
		inputs.Add(is.Name, slot)
	}
	ctx := st.Context
	ctx.Seed = nodeSeed(ctx.Seed, *st.serial)
	*st.serial++
	return spec.New(ugen.NewBase(ctx, d.ID, d.UGen, spec.Rate, inputs)), nil
}

// slot creates input slot for the value.
func (st *parseState) slot(is ugen.InputSpec, v synthdef.Value) (ugen.Input, error) {
	switch is.Kind {
	case ugen.Signal:
		switch v.Kind() {
		case synthdef.Number:
			if err := is.Validate(v.Number()); err != nil {
				return ugen.Input{}, invalid("%v", err)
			}
			return ugen.Input{Kind: ugen.Signal, UGen: ugen.NewValue(st.Context, v.Number())}, nil
		case synthdef.Node:
			u, err := st.node(v.Def())
			if err != nil {
				return ugen.Input{}, err
			}
			return ugen.Input{Kind: ugen.Signal, UGen: u}, nil
		}
	case ugen.Scalar:
		if v.Kind() == synthdef.Number {
			if err := is.Validate(v.Number()); err != nil {
				return ugen.Input{}, invalid("%v", err)
			}
			return ugen.Input{Kind: ugen.Scalar, Number: v.Number()}, nil
		}
	case ugen.Array:
		if v.Kind() == synthdef.Numbers {
			if err := is.Validate(v.Numbers()...); err != nil {
				return ugen.Input{}, invalid("%v", err)
			}
			return ugen.Input{Kind: ugen.Array, Values: append([]float64{}, v.Numbers()...)}, nil
		}
	case ugen.Sources:
		switch v.Kind() {
		case synthdef.Node:
			u, err := st.node(v.Def())
			if err != nil {
				return ugen.Input{}, err
			}
			return ugen.Input{Kind: ugen.Sources, UGens: []ugen.UGen{u}}, nil
		case synthdef.Nodes:
			ugens := make([]ugen.UGen, 0, len(v.Defs()))
			for _, d := range v.Defs() {
				u, err := st.node(d)
				if err != nil {
					return ugen.Input{}, err
				}
				ugens = append(ugens, u)
			}
			return ugen.Input{Kind: ugen.Sources, UGens: ugens}, nil
		}
	}
	return ugen.Input{}, invalid("%v value for %v input", v.Kind(), is.Kind)
}

// defaultSlot creates slot for omitted input.
func (st *parseState) defaultSlot(is ugen.InputSpec) (ugen.Input, error) {
	if is.Required {
		return ugen.Input{}, invalid("missing required input")
	}
	switch is.Kind {
	case ugen.Signal:
		return ugen.Input{Kind: ugen.Signal, UGen: ugen.NewValue(st.Context, is.Default)}, nil
	case ugen.Scalar:
		return ugen.Input{Kind: ugen.Scalar, Number: is.Default}, nil
	default:
		return ugen.Input{Kind: is.Kind}, nil
	}
}
