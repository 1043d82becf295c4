package ugen

// Line ramps linearly from start to end over duration seconds and holds
// the end value afterwards.
type Line struct {
	Base
	elapsed              int64
	start, end, duration *Input
}

func newLine(b Base) UGen {
	return &Line{
		Base:     b,
		start:    b.slot("start"),
		end:      b.slot("end"),
		duration: b.slot("duration"),
	}
}

// Gen computes ramp samples.
func (s *Line) Gen(numSamples int) {
	start, end := s.start.Number, s.end.Number
	length := float64(int64(s.duration.Number * s.ctx.SampleRate))
	if length < 1 {
		length = 1
	}
	for i := 0; i < numSamples; i++ {
		pos := float64(s.elapsed) / length
		if pos >= 1 {
			s.output[i] = end
			continue
		}
		s.output[i] = start + (end-start)*pos
		s.elapsed++
	}
	s.mulAdd(numSamples)
}

// Sequencer steps through values, holding each for the corresponding
// duration in seconds. It's evaluated once per block. With loop > 0 it
// starts over after the last value, otherwise the last value is held.
type Sequencer struct {
	Base
	index                   int
	elapsed                 float64
	done                    bool
	durations, values, loop *Input
}

func newSequencer(b Base) UGen {
	return &Sequencer{
		Base:      b,
		durations: b.slot("durations"),
		values:    b.slot("values"),
		loop:      b.slot("loop"),
	}
}

// Gen holds current value for the whole block and advances the sequence.
func (s *Sequencer) Gen(numSamples int) {
	durations, values := s.durations.Values, s.values.Values
	steps := len(durations)
	if len(values) < steps {
		steps = len(values)
	}
	if steps == 0 {
		s.hold(numSamples, 0)
		return
	}
	if s.index >= steps {
		s.index = steps - 1
	}
	s.hold(numSamples, values[s.index])

	if s.done {
		return
	}
	s.elapsed += float64(numSamples) * s.step()
	for s.elapsed >= durations[s.index] {
		s.elapsed -= durations[s.index]
		s.index++
		if s.index < steps {
			continue
		}
		if s.loop.Number > 0 {
			s.index = 0
			continue
		}
		s.index = steps - 1
		s.done = true
		return
	}
}

func (s *Sequencer) hold(numSamples int, value float64) {
	for i := 0; i < numSamples; i++ {
		s.output[i] = value
	}
	s.mulAdd(numSamples)
}
