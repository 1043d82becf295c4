package ugen

import "math/rand"

// WhiteNoise outputs uniformly distributed samples in [-1, 1).
type WhiteNoise struct {
	Base
	rand *rand.Rand
}

func newWhiteNoise(b Base) UGen {
	return &WhiteNoise{
		Base: b,
		rand: rand.New(rand.NewSource(b.ctx.Seed)),
	}
}

// Gen computes noise samples.
func (s *WhiteNoise) Gen(numSamples int) {
	for i := 0; i < numSamples; i++ {
		s.output[i] = s.rand.Float64()*2 - 1
	}
	s.mulAdd(numSamples)
}

// Dust outputs random impulses in (0, 1) with average density per
// second.
type Dust struct {
	Base
	rand    *rand.Rand
	density *Input
}

func newDust(b Base) UGen {
	return &Dust{
		Base:    b,
		rand:    rand.New(rand.NewSource(b.ctx.Seed)),
		density: b.slot("density"),
	}
}

// Gen computes dust samples.
func (s *Dust) Gen(numSamples int) {
	density := s.density.Signal()
	step := s.step()
	for i := 0; i < numSamples; i++ {
		threshold := density[i] * step
		r := s.rand.Float64()
		if threshold > 0 && r < threshold {
			s.output[i] = r / threshold
		} else {
			s.output[i] = 0
		}
	}
	s.mulAdd(numSamples)
}
