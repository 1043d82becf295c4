package ugen

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateType is returned when a type name is registered twice.
var ErrDuplicateType = errors.New("duplicate ugen type")

type (
	// Spec describes a unit generator type.
	Spec struct {
		Rate Rate
		// Output types write buses and can be synth heads.
		Output bool
		Inputs []InputSpec
		// New creates unit generator. All declared inputs are bound in
		// the base.
		New func(b Base) UGen
	}

	// Registry maps type names to specs.
	Registry struct {
		specs map[string]Spec
	}
)

// Input returns declared input by its name or alias.
func (s Spec) Input(name string) (InputSpec, bool) {
	for _, in := range s.Inputs {
		if in.Name == name {
			return in, true
		}
		for _, alias := range in.Aliases {
			if alias == name {
				return in, true
			}
		}
	}
	return InputSpec{}, false
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds a spec for the given type name.
func (r *Registry) Register(typ string, spec Spec) error {
	if typ == "" {
		return errors.New("empty ugen type")
	}
	if spec.New == nil {
		return fmt.Errorf("ugen %s: nil constructor", typ)
	}
	if _, ok := r.specs[typ]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, typ)
	}
	r.specs[typ] = spec
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(typ string, spec Spec) {
	if err := r.Register(typ, spec); err != nil {
		panic("ugen registry: " + err.Error())
	}
}

// Lookup returns the spec for the given type name.
func (r *Registry) Lookup(typ string) (Spec, bool) {
	s, ok := r.specs[typ]
	return s, ok
}

// Types returns sorted registered type names.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.specs))
	for typ := range r.specs {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	RegisterCore(r)
	return r
}()

// Default returns registry with core unit generators. It must not be
// modified after startup.
func Default() *Registry {
	return defaultRegistry
}

// RegisterCore adds core unit generators to the registry.
func RegisterCore(r *Registry) {
	r.MustRegister(TypeValue, Spec{
		Rate: Constant,
		Inputs: []InputSpec{
			{Name: "value", Kind: Scalar, Default: 0},
		},
		New: newValue,
	})
	r.MustRegister("sinOsc", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "freq", Kind: Signal, Default: 440},
			InputSpec{Name: "phase", Kind: Signal, Default: 0},
		),
		New: newSinOsc,
	})
	r.MustRegister("lfSaw", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "freq", Kind: Signal, Default: 440},
		),
		New: newLFSaw,
	})
	r.MustRegister("lfPulse", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "freq", Kind: Signal, Default: 440},
			InputSpec{Name: "width", Kind: Signal, Default: 0.5, Check: NonNegative},
		),
		New: newLFPulse,
	})
	r.MustRegister("triOsc", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "freq", Kind: Signal, Default: 440},
		),
		New: newTriOsc,
	})
	r.MustRegister("impulse", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "freq", Kind: Signal, Default: 1, Check: NonNegative},
		),
		New: newImpulse,
	})
	r.MustRegister("whiteNoise", Spec{
		Rate:   Audio,
		Inputs: mulAddInputs(),
		New:    newWhiteNoise,
	})
	r.MustRegister("dust", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "density", Kind: Signal, Default: 1, Check: NonNegative},
		),
		New: newDust,
	})
	r.MustRegister("line", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "start", Kind: Scalar, Default: 0},
			InputSpec{Name: "end", Kind: Scalar, Default: 1},
			InputSpec{Name: "duration", Kind: Scalar, Default: 1, Check: Positive},
		),
		New: newLine,
	})
	r.MustRegister("sequencer", Spec{
		Rate: Control,
		Inputs: mulAddInputs(
			InputSpec{Name: "durations", Kind: Array, Required: true, Check: Positive},
			InputSpec{Name: "values", Kind: Array, Required: true},
			InputSpec{Name: "loop", Kind: Scalar, Default: 0},
		),
		New: newSequencer,
	})
	r.MustRegister("sum", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "sources", Kind: Sources, Required: true},
		),
		New: newSum,
	})
	r.MustRegister("in", Spec{
		Rate: Audio,
		Inputs: mulAddInputs(
			InputSpec{Name: "bus", Kind: Scalar, Required: true, Check: NonNegative},
		),
		New: newIn,
	})
	r.MustRegister(TypeOut, Spec{
		Rate:   Audio,
		Output: true,
		Inputs: []InputSpec{
			{Name: "sources", Kind: Sources, Aliases: []string{"source"}, Required: true},
			{Name: "bus", Kind: Scalar, Default: 0, Check: NonNegative},
			{Name: "expand", Kind: Scalar, Default: 1, Check: AtLeast(1)},
		},
		New: newOut(0),
	})
	r.MustRegister("stereoOut", Spec{
		Rate:   Audio,
		Output: true,
		Inputs: []InputSpec{
			// single source is expanded to both channels.
			{Name: "sources", Kind: Sources, Aliases: []string{"source"}, Required: true},
			{Name: "bus", Kind: Scalar, Default: 0, Check: NonNegative},
		},
		New: newOut(2),
	})
}
