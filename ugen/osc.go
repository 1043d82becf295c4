package ugen

import "math"

// phasor accumulates normalized phase in cycles. Phase is kept in [0, 1)
// and persists between blocks.
type phasor struct {
	phase float64
}

// advance returns current phase and moves it by freq.
func (p *phasor) advance(freq, step float64) float64 {
	current := p.phase
	p.phase += freq * step
	p.phase -= math.Floor(p.phase)
	return current
}

// SinOsc is a sine oscillator. Phase input is an offset in radians.
type SinOsc struct {
	Base
	phasor
	freq, phaseOffset *Input
}

func newSinOsc(b Base) UGen {
	return &SinOsc{
		Base:        b,
		freq:        b.slot("freq"),
		phaseOffset: b.slot("phase"),
	}
}

// Gen computes sine samples.
func (s *SinOsc) Gen(numSamples int) {
	freq, offset := s.freq.Signal(), s.phaseOffset.Signal()
	step := s.step()
	for i := 0; i < numSamples; i++ {
		p := s.advance(freq[i], step)
		s.output[i] = math.Sin(2*math.Pi*p + offset[i])
	}
	s.mulAdd(numSamples)
}

// LFSaw is a non-band-limited sawtooth rising from -1 to 1.
type LFSaw struct {
	Base
	phasor
	freq *Input
}

func newLFSaw(b Base) UGen {
	return &LFSaw{
		Base: b,
		freq: b.slot("freq"),
	}
}

// Gen computes sawtooth samples.
func (s *LFSaw) Gen(numSamples int) {
	freq := s.freq.Signal()
	step := s.step()
	for i := 0; i < numSamples; i++ {
		s.output[i] = 2*s.advance(freq[i], step) - 1
	}
	s.mulAdd(numSamples)
}

// LFPulse is a non-band-limited bipolar pulse. It outputs 1 for the width
// part of the cycle and -1 for the rest.
type LFPulse struct {
	Base
	phasor
	freq, width *Input
}

func newLFPulse(b Base) UGen {
	return &LFPulse{
		Base:  b,
		freq:  b.slot("freq"),
		width: b.slot("width"),
	}
}

// Gen computes pulse samples.
func (s *LFPulse) Gen(numSamples int) {
	freq, width := s.freq.Signal(), s.width.Signal()
	step := s.step()
	for i := 0; i < numSamples; i++ {
		if s.advance(freq[i], step) < width[i] {
			s.output[i] = 1
		} else {
			s.output[i] = -1
		}
	}
	s.mulAdd(numSamples)
}

// TriOsc is a non-band-limited triangle starting at -1.
type TriOsc struct {
	Base
	phasor
	freq *Input
}

func newTriOsc(b Base) UGen {
	return &TriOsc{
		Base: b,
		freq: b.slot("freq"),
	}
}

// Gen computes triangle samples.
func (s *TriOsc) Gen(numSamples int) {
	freq := s.freq.Signal()
	step := s.step()
	for i := 0; i < numSamples; i++ {
		s.output[i] = 1 - 4*math.Abs(s.advance(freq[i], step)-0.5)
	}
	s.mulAdd(numSamples)
}

// Impulse outputs single sample impulses at freq. The first sample is an
// impulse.
type Impulse struct {
	Base
	phase float64
	freq  *Input
}

func newImpulse(b Base) UGen {
	return &Impulse{
		Base:  b,
		phase: 1,
		freq:  b.slot("freq"),
	}
}

// Gen computes impulse samples.
func (s *Impulse) Gen(numSamples int) {
	freq := s.freq.Signal()
	step := s.step()
	for i := 0; i < numSamples; i++ {
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
			s.output[i] = 1
		} else {
			s.output[i] = 0
		}
		s.phase += freq[i] * step
	}
	s.mulAdd(numSamples)
}
