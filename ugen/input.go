package ugen

import (
	"errors"
	"fmt"
)

// Kind of input slot.
type Kind int

const (
	// Signal slot holds a unit generator. Literals are held by Value.
	Signal Kind = iota
	// Scalar slot holds a literal number read by its owner directly.
	Scalar
	// Array slot holds literal numbers.
	Array
	// Sources slot holds a sequence of unit generators.
	Sources
)

func (k Kind) String() string {
	switch k {
	case Signal:
		return "signal"
	case Scalar:
		return "scalar"
	case Array:
		return "array"
	default:
		return "sources"
	}
}

// Input is a slot of unit generator input. Only the field that matches
// Kind is used.
type Input struct {
	Kind   Kind
	UGen   UGen
	Number float64
	Values []float64
	UGens  []UGen
}

// Signal returns output buffer of bound unit generator.
func (in *Input) Signal() []float64 {
	return in.UGen.Output()
}

// Value returns held scalar. It's defined for scalar slots and for signal
// slots bound to a Valuer.
func (in Input) Value() (float64, bool) {
	switch in.Kind {
	case Scalar:
		return in.Number, true
	case Signal:
		if v, ok := in.UGen.(Valuer); ok {
			return v.Value(), true
		}
	}
	return 0, false
}

// Inputs is an ordered set of named slots.
type Inputs struct {
	names []string
	slots map[string]*Input
}

// NewInputs returns empty inputs.
func NewInputs() *Inputs {
	return &Inputs{slots: make(map[string]*Input)}
}

// Add binds the slot to the name. Existing slot keeps its position.
func (in *Inputs) Add(name string, slot Input) {
	if s, ok := in.slots[name]; ok {
		*s = slot
		return
	}
	s := slot
	in.names = append(in.names, name)
	in.slots[name] = &s
}

// Get returns the slot. Returned pointer stays valid for the lifetime of
// the unit generator, slot replacement mutates it in place.
func (in *Inputs) Get(name string) (*Input, bool) {
	s, ok := in.slots[name]
	return s, ok
}

// Names returns slot names in declaration order.
func (in *Inputs) Names() []string {
	return in.names
}

// Len returns number of slots.
func (in *Inputs) Len() int {
	return len(in.names)
}

// UGens returns all unit generators bound to the inputs in declaration
// order.
func (in *Inputs) UGens() []UGen {
	var ugens []UGen
	for _, name := range in.names {
		s := in.slots[name]
		switch s.Kind {
		case Signal:
			ugens = append(ugens, s.UGen)
		case Sources:
			ugens = append(ugens, s.UGens...)
		}
	}
	return ugens
}

// InputSpec declares an input of unit generator type.
type InputSpec struct {
	Name    string
	Kind    Kind
	Default float64
	// Aliases are alternative names accepted in definitions.
	Aliases []string
	// Required inputs have no default.
	Required bool
	// Check validates literal numbers.
	Check func(float64) error
}

// Validate checks literal numbers against input constraints.
func (s InputSpec) Validate(values ...float64) error {
	if s.Check == nil {
		return nil
	}
	for _, v := range values {
		if err := s.Check(v); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return nil
}

var (
	errNegative    = errors.New("must not be negative")
	errNonPositive = errors.New("must be positive")
)

// NonNegative allows zero and positive numbers.
func NonNegative(v float64) error {
	if v < 0 {
		return errNegative
	}
	return nil
}

// Positive allows positive numbers.
func Positive(v float64) error {
	if v <= 0 {
		return errNonPositive
	}
	return nil
}

// AtLeast allows numbers greater or equal to min.
func AtLeast(min float64) func(float64) error {
	return func(v float64) error {
		if v < min {
			return fmt.Errorf("must be at least %v", min)
		}
		return nil
	}
}
