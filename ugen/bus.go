package ugen

import (
	"github.com/cwbudde/algo-vecmath"
)

// TypeOut is the type name of the bus writer used for synth heads.
const TypeOut = "out"

// Out writes its sources to consecutive buses starting from bus. Number
// of channels is the maximum of sources count and expand, channel i
// takes source i modulo sources count. That makes a single source with
// expand 2 a stereo merge. Channel buffers are allocated once, for the
// whole bus table.
type Out struct {
	Base
	fixed    int
	channels [][]float64
	// numChannels and first are only touched by Gen, so the last block
	// can be written again while inputs are being replaced.
	numChannels int
	first       int
	sources     *Input
	bus         *Input
	expand      *Input
}

func newOut(fixedChannels int) func(b Base) UGen {
	return func(b Base) UGen {
		o := &Out{
			Base:    b,
			fixed:   fixedChannels,
			sources: b.slot("sources"),
			bus:     b.slot("bus"),
		}
		o.expand, _ = b.inputs.Get("expand")
		o.numChannels = o.channelCount()
		o.first = int(o.bus.Number)
		// channels past the bus table are never written, so the table
		// bounds the number of channels.
		n := o.numChannels
		if b.ctx.Buses != nil && b.ctx.Buses.Len() > n {
			n = b.ctx.Buses.Len()
		}
		o.channels = make([][]float64, n)
		for c := range o.channels {
			o.channels[c] = make([]float64, b.ctx.BlockSize)
		}
		o.output = o.channels[0]
		return o
	}
}

func (o *Out) channelCount() int {
	if o.fixed > 0 {
		return o.fixed
	}
	n := len(o.sources.UGens)
	if expand := int(o.expand.Number); expand > n {
		n = expand
	}
	if n < 1 {
		n = 1
	}
	if o.channels != nil && n > len(o.channels) {
		n = len(o.channels)
	}
	return n
}

// Outputs returns per-channel outputs of the last block.
func (o *Out) Outputs() [][]float64 {
	return o.channels[:o.numChannels]
}

// Gen mixes sources into channels and writes them to buses.
func (o *Out) Gen(numSamples int) {
	sources := o.sources.UGens
	o.numChannels = o.channelCount()
	o.first = int(o.bus.Number)
	for c := 0; c < o.numChannels; c++ {
		out := o.channels[c][:numSamples]
		if len(sources) == 0 {
			for i := range out {
				out[i] = 0
			}
			continue
		}
		copy(out, sources[c%len(sources)].Output()[:numSamples])
	}
	o.WriteBuses(numSamples)
}

// WriteBuses writes channels of the last block to the buses. Channels
// that fall out of the bus table are dropped.
func (o *Out) WriteBuses(numSamples int) {
	buses := o.ctx.Buses
	if buses == nil {
		return
	}
	for c := 0; c < o.numChannels; c++ {
		bus := o.first + c
		if bus < 0 || bus >= buses.Len() {
			continue
		}
		buses.Write(bus, o.channels[c][:numSamples])
	}
}

// In reads a bus. Reading a bus out of the table yields silence.
type In struct {
	Base
	bus *Input
}

func newIn(b Base) UGen {
	return &In{
		Base: b,
		bus:  b.slot("bus"),
	}
}

// Gen copies the bus into output.
func (s *In) Gen(numSamples int) {
	out := s.output[:numSamples]
	bus := int(s.bus.Number)
	if s.ctx.Buses == nil || bus < 0 || bus >= s.ctx.Buses.Len() {
		for i := range out {
			out[i] = 0
		}
	} else {
		copy(out, s.ctx.Buses.Bus(bus)[:numSamples])
	}
	s.mulAdd(numSamples)
}

// Sum adds its sources.
type Sum struct {
	Base
	sources *Input
}

func newSum(b Base) UGen {
	return &Sum{
		Base:    b,
		sources: b.slot("sources"),
	}
}

// Gen sums sources.
func (s *Sum) Gen(numSamples int) {
	out := s.output[:numSamples]
	for i := range out {
		out[i] = 0
	}
	for _, source := range s.sources.UGens {
		vecmath.AddBlockInPlace(out, source.Output()[:numSamples])
	}
	s.mulAdd(numSamples)
}
