package flock

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"

	"pipelined.dev/flock/log"
	"pipelined.dev/flock/synthdef"
	"pipelined.dev/flock/ugen"
)

type (
	// Synth is an addressable instance of parsed graph. Nodes are
	// addressed by "<nodeId>.<inputName>" paths, bare "<nodeId>" addresses
	// the node itself.
	//
	// Get and Set are safe to call from any goroutine. Gen is called by
	// the evaluator. Substitutions become visible at a block boundary:
	// Gen never waits for Set, it repeats the previous block instead.
	Synth struct {
		name   string
		logger log.Logger
		parser Parser
		head   ugen.UGen

		// control serializes Get and Set.
		control sync.Mutex

		// gen guards graph structure and held values against Gen.
		gen   sync.Mutex
		graph *Graph
		stale int64

		// serial numbers created nodes, replacements continue it.
		serial int64
	}

	// SynthOption configures synth.
	SynthOption func(*Synth)

	// slotRef locates an input slot. Index addresses a single element of
	// sources slot, -1 addresses the whole slot.
	slotRef struct {
		owner ugen.UGen
		input string
		index int
		spec  ugen.InputSpec
		slot  *ugen.Input
	}
)

// WithName sets synth name.
func WithName(name string) SynthOption {
	return func(s *Synth) {
		s.name = name
	}
}

// WithLogger sets synth logger.
func WithLogger(l log.Logger) SynthOption {
	return func(s *Synth) {
		s.logger = l
	}
}

// WithRegistry sets registry used to parse definitions.
func WithRegistry(r *ugen.Registry) SynthOption {
	return func(s *Synth) {
		s.parser.Registry = r
	}
}

// NewSynth parses definition in the provided context.
func NewSynth(def synthdef.Def, ctx ugen.Context, options ...SynthOption) (*Synth, error) {
	s := &Synth{
		name:   xid.New().String(),
		parser: Parser{Registry: ugen.Default(), Context: ctx},
	}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}

	g, err := s.parser.parse(def, &s.serial)
	if err != nil {
		return nil, err
	}
	s.graph = g
	s.head = g.Head
	s.logger.Debugf("synth %s: created with %d nodes", s.name, len(g.Order))
	return s, nil
}

// Name returns synth name.
func (s *Synth) Name() string {
	return s.name
}

// Head returns the output node.
func (s *Synth) Head() ugen.UGen {
	return s.head
}

// Def returns definition of the graph the synth currently runs. Omitted
// inputs are described with their defaults.
func (s *Synth) Def() synthdef.Def {
	s.control.Lock()
	defer s.control.Unlock()
	return Describe(s.head)
}

// Node returns node by id.
func (s *Synth) Node(id string) (ugen.UGen, bool) {
	s.control.Lock()
	defer s.control.Unlock()
	u, ok := s.graph.Nodes[id]
	return u, ok
}

// Stale returns number of periods when the previous block was repeated
// because the graph was being mutated.
func (s *Synth) Stale() int64 {
	return atomic.LoadInt64(&s.stale)
}

// Gen evaluates the graph. If the graph is being mutated, the head
// writes the previous block again.
func (s *Synth) Gen(numSamples int) {
	if !s.gen.TryLock() {
		atomic.AddInt64(&s.stale, 1)
		if w, ok := s.head.(ugen.BusWriter); ok {
			w.WriteBuses(numSamples)
		}
		return
	}
	for _, u := range s.graph.Order {
		u.Gen(numSamples)
	}
	s.gen.Unlock()
}

// Get returns the input addressed by path. Value holders report their
// value with Input.Value, subgraph inputs hold live nodes. Bare node id
// returns signal input holding the node.
func (s *Synth) Get(path string) (ugen.Input, error) {
	s.control.Lock()
	defer s.control.Unlock()
	id, input := splitPath(path)
	u, ok := s.graph.Nodes[id]
	if !ok {
		return ugen.Input{}, &PathError{Path: path, Err: ErrUnresolvedPath}
	}
	if input == "" {
		return ugen.Input{Kind: ugen.Signal, UGen: u}, nil
	}
	if spec, ok := s.parser.registry().Lookup(u.Type()); ok {
		if is, ok := spec.Input(input); ok {
			input = is.Name
		}
	}
	slot, ok := u.Inputs().Get(input)
	if !ok {
		return ugen.Input{}, &PathError{Path: path, Err: ErrUnresolvedPath}
	}
	result := *slot
	if slot.Kind == ugen.Array {
		result.Values = append([]float64{}, slot.Values...)
	}
	if slot.Kind == ugen.Sources {
		result.UGens = append([]ugen.UGen{}, slot.UGens...)
	}
	return result, nil
}

// Set updates the input addressed by path. Numbers update value holders
// in place, definitions replace subgraphs. On error the synth is left
// unchanged.
func (s *Synth) Set(path string, v synthdef.Value) error {
	s.control.Lock()
	defer s.control.Unlock()
	ref, err := s.resolve(path)
	if err != nil {
		return err
	}
	k := v.Kind()
	structural := k == synthdef.Node || k == synthdef.Nodes
	var before synthdef.Def
	if structural {
		before = Describe(s.head)
	}
	if err := s.assign(ref, v); err != nil {
		return &PathError{Path: path, Err: err}
	}
	if structural {
		diff, _ := synthdef.Diff(before, Describe(s.head))
		s.logger.Debugf("synth %s: %s replaced\n%s", s.name, path, diff)
	}
	return nil
}

func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// resolve finds the slot addressed by path.
func (s *Synth) resolve(path string) (slotRef, error) {
	unresolved := &PathError{Path: path, Err: ErrUnresolvedPath}
	id, input := splitPath(path)
	u, ok := s.graph.Nodes[id]
	if !ok {
		return slotRef{}, unresolved
	}
	ref := slotRef{owner: u, input: input, index: -1}
	if input == "" {
		if u == s.head {
			return slotRef{}, &PathError{Path: path, Err: invalid("head can't be replaced")}
		}
		h := s.graph.handles[id]
		ref = slotRef{owner: h.parent, input: h.input, index: h.index}
	}
	spec, ok := s.parser.registry().Lookup(ref.owner.Type())
	if !ok {
		return slotRef{}, unresolved
	}
	if ref.spec, ok = spec.Input(ref.input); !ok {
		return slotRef{}, unresolved
	}
	ref.input = ref.spec.Name
	if ref.slot, ok = ref.owner.Inputs().Get(ref.input); !ok {
		return slotRef{}, unresolved
	}
	return ref, nil
}

// assign applies the value to the slot. Value updates are done in place,
// everything else is parsed first and then substituted at once.
func (s *Synth) assign(ref slotRef, v synthdef.Value) error {
	slot := ref.slot
	if ref.index < 0 {
		switch {
		case v.Kind() == synthdef.Number && slot.Kind == ugen.Scalar:
			if err := ref.spec.Validate(v.Number()); err != nil {
				return invalid("%v", err)
			}
			s.gen.Lock()
			slot.Number = v.Number()
			if valuer, ok := ref.owner.(ugen.Valuer); ok {
				valuer.SetValue(v.Number())
			}
			s.gen.Unlock()
			return nil
		case v.Kind() == synthdef.Number && slot.Kind == ugen.Signal:
			if valuer, ok := slot.UGen.(ugen.Valuer); ok {
				if err := ref.spec.Validate(v.Number()); err != nil {
					return invalid("%v", err)
				}
				s.gen.Lock()
				valuer.SetValue(v.Number())
				s.gen.Unlock()
				return nil
			}
		case v.Kind() == synthdef.Numbers && slot.Kind == ugen.Array:
			if err := ref.spec.Validate(v.Numbers()...); err != nil {
				return invalid("%v", err)
			}
			values := append([]float64{}, v.Numbers()...)
			s.gen.Lock()
			slot.Values = values
			s.gen.Unlock()
			return nil
		}
	}

	// ids of the replaced part can be reused by the replacement.
	var replaced []ugen.UGen
	if ref.index < 0 {
		switch slot.Kind {
		case ugen.Signal:
			replaced = []ugen.UGen{slot.UGen}
		case ugen.Sources:
			replaced = slot.UGens
		}
	} else {
		replaced = []ugen.UGen{slot.UGens[ref.index]}
	}
	reserved := make(map[string]struct{}, len(s.graph.Nodes))
	for id := range s.graph.Nodes {
		reserved[id] = struct{}{}
	}
	for _, u := range replaced {
		for id := range ids(u) {
			delete(reserved, id)
		}
	}

	st := s.parser.newState(reserved, &s.serial)
	var replacement ugen.Input
	if ref.index < 0 {
		var err error
		if replacement, err = st.slot(ref.spec, v); err != nil {
			return err
		}
	} else {
		// single source is replaced with a signal.
		single, err := st.slot(ugen.InputSpec{Name: ref.input, Kind: ugen.Signal}, v)
		if err != nil {
			return err
		}
		replacement = ugen.Input{Kind: ugen.Sources, UGens: append([]ugen.UGen{}, slot.UGens...)}
		replacement.UGens[ref.index] = single.UGen
	}

	s.gen.Lock()
	*slot = replacement
	s.graph = newGraph(s.head)
	s.gen.Unlock()
	return nil
}
