package flock

import (
	"pipelined.dev/flock/synthdef"
	"pipelined.dev/flock/ugen"
)

type (
	// Graph is a parsed synth.
	Graph struct {
		// Head is the output node, it's evaluated last.
		Head ugen.UGen
		// Nodes maps ids to nodes. Anonymous nodes are not listed.
		Nodes map[string]ugen.UGen
		// Order lists all reachable nodes, inputs before consumers.
		Order []ugen.UGen

		handles map[string]handle
	}

	// handle locates a node in its parent.
	handle struct {
		parent ugen.UGen
		input  string
		// index within sources slot, -1 for signal slot.
		index int
	}
)

// newGraph indexes nodes reachable from the head.
func newGraph(head ugen.UGen) *Graph {
	g := &Graph{
		Head:    head,
		Nodes:   make(map[string]ugen.UGen),
		handles: make(map[string]handle),
	}
	visited := make(map[ugen.UGen]struct{})
	var visit func(u ugen.UGen)
	visit = func(u ugen.UGen) {
		if _, ok := visited[u]; ok {
			return
		}
		visited[u] = struct{}{}
		inputs := u.Inputs()
		for _, name := range inputs.Names() {
			slot, _ := inputs.Get(name)
			switch slot.Kind {
			case ugen.Signal:
				g.bind(slot.UGen, handle{parent: u, input: name, index: -1})
				visit(slot.UGen)
			case ugen.Sources:
				for i, child := range slot.UGens {
					g.bind(child, handle{parent: u, input: name, index: i})
					visit(child)
				}
			}
		}
		if id := u.ID(); id != "" {
			g.Nodes[id] = u
		}
		g.Order = append(g.Order, u)
	}
	visit(head)
	return g
}

func (g *Graph) bind(u ugen.UGen, h handle) {
	if id := u.ID(); id != "" {
		g.handles[id] = h
	}
}

// ids returns set of ids reachable from the node.
func ids(u ugen.UGen) map[string]struct{} {
	result := make(map[string]struct{})
	for _, n := range newGraph(u).Nodes {
		result[n.ID()] = struct{}{}
	}
	return result
}

// Describe returns definition of the live node. Anonymous value holders
// are described as numbers.
func Describe(u ugen.UGen) synthdef.Def {
	d := synthdef.Def{
		ID:     u.ID(),
		UGen:   u.Type(),
		Inputs: make(map[string]synthdef.Value),
	}
	inputs := u.Inputs()
	for _, name := range inputs.Names() {
		slot, _ := inputs.Get(name)
		switch slot.Kind {
		case ugen.Signal:
			if v, ok := slot.UGen.(ugen.Valuer); ok && v.ID() == "" {
				d.Inputs[name] = synthdef.NumberValue(v.Value())
				continue
			}
			d.Inputs[name] = synthdef.NodeValue(Describe(slot.UGen))
		case ugen.Scalar:
			d.Inputs[name] = synthdef.NumberValue(slot.Number)
		case ugen.Array:
			d.Inputs[name] = synthdef.NumbersValue(slot.Values...)
		case ugen.Sources:
			defs := make([]synthdef.Def, 0, len(slot.UGens))
			for _, child := range slot.UGens {
				defs = append(defs, Describe(child))
			}
			d.Inputs[name] = synthdef.NodesValue(defs...)
		}
	}
	return d
}
