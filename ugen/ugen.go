/*
Package ugen provides unit generators: the nodes of a synthesis graph.

Every unit generator owns an output buffer of block size and overwrites it
wholesale on each Gen call. Inputs are slots: a slot holds another unit
generator, a literal array or a sequence of unit generators. Scalar literals
are held by Value unit generators, so consumers read every signal input
as a buffer regardless of the producer's rate.

Concrete unit generators are created by a Registry from a Spec. Optional
behaviour is exposed through capability interfaces: Valuer, MultiOutput
and BusWriter.
*/
package ugen

import (
	"github.com/cwbudde/algo-vecmath"
)

// Rate is the update rate of unit generator output.
type Rate int

const (
	// Constant output changes only when the value is set.
	Constant Rate = iota
	// Control output is computed once per block and held.
	Control
	// Audio output is computed per sample.
	Audio
)

func (r Rate) String() string {
	switch r {
	case Constant:
		return "constant"
	case Control:
		return "control"
	default:
		return "audio"
	}
}

type (
	// UGen is a unit generator.
	UGen interface {
		ID() string
		Type() string
		Rate() Rate
		Inputs() *Inputs
		Output() []float64
		// Gen computes numSamples of output. It must not block or
		// allocate.
		Gen(numSamples int)
	}

	// Valuer is a unit generator that holds a single value.
	Valuer interface {
		UGen
		Value() float64
		SetValue(float64)
	}

	// MultiOutput is a unit generator with per-channel outputs.
	MultiOutput interface {
		UGen
		Outputs() [][]float64
	}

	// BusWriter is a unit generator that writes its outputs to buses.
	// WriteBuses repeats the write of the last generated block.
	BusWriter interface {
		UGen
		WriteBuses(numSamples int)
	}

	// Buses is the table of interconnection buses.
	Buses interface {
		Len() int
		Bus(i int) []float64
		// Write puts samples to the bus. First write in the period
		// overwrites the bus, subsequent writes accumulate.
		Write(i int, samples []float64)
	}

	// Context is the environment unit generators are created in.
	Context struct {
		SampleRate float64
		BlockSize  int
		NumOutputs int
		// Buses might be nil, then bus writers only fill their outputs.
		Buses Buses
		// Seed for noise generators.
		Seed int64
	}
)

// Base implements common UGen behaviour. Concrete unit generators embed
// it.
type Base struct {
	ctx    Context
	id     string
	typ    string
	rate   Rate
	inputs *Inputs
	output []float64
	mul    *Input
	add    *Input
}

// NewBase allocates output and binds inputs.
func NewBase(ctx Context, id, typ string, rate Rate, inputs *Inputs) Base {
	if inputs == nil {
		inputs = NewInputs()
	}
	b := Base{
		ctx:    ctx,
		id:     id,
		typ:    typ,
		rate:   rate,
		inputs: inputs,
		output: make([]float64, ctx.BlockSize),
	}
	b.mul, _ = inputs.Get("mul")
	b.add, _ = inputs.Get("add")
	return b
}

// ID returns unique id or empty string for anonymous unit generator.
func (b *Base) ID() string {
	return b.id
}

// Type returns registered type name.
func (b *Base) Type() string {
	return b.typ
}

// Rate returns output rate.
func (b *Base) Rate() Rate {
	return b.rate
}

// Inputs returns input slots.
func (b *Base) Inputs() *Inputs {
	return b.inputs
}

// Output returns output buffer.
func (b *Base) Output() []float64 {
	return b.output
}

// Context returns creation environment.
func (b *Base) Context() Context {
	return b.ctx
}

// slot returns input slot. Registry guarantees all declared inputs are
// bound, so missing slot is a programming error.
func (b *Base) slot(name string) *Input {
	in, ok := b.inputs.Get(name)
	if !ok {
		panic("ugen " + b.typ + ": unbound input " + name)
	}
	return in
}

// step returns duration of one sample in seconds.
func (b *Base) step() float64 {
	return 1 / b.ctx.SampleRate
}

// mulAdd scales and offsets first n output samples with mul and add
// inputs if they are bound.
func (b *Base) mulAdd(n int) {
	out := b.output[:n]
	if b.mul != nil && !isValue(b.mul.UGen, 1) {
		vecmath.MulBlockInPlace(out, b.mul.Signal()[:n])
	}
	if b.add != nil && !isValue(b.add.UGen, 0) {
		vecmath.AddBlockInPlace(out, b.add.Signal()[:n])
	}
}

func isValue(u UGen, v float64) bool {
	valuer, ok := u.(Valuer)
	return ok && valuer.Value() == v
}

// mulAddInputs are inputs most of generators accept.
func mulAddInputs(inputs ...InputSpec) []InputSpec {
	return append(inputs,
		InputSpec{Name: "mul", Kind: Signal, Default: 1},
		InputSpec{Name: "add", Kind: Signal, Default: 0},
	)
}
