package flock

import (
	"fmt"

	"pipelined.dev/flock/metric"
	"pipelined.dev/flock/mutable"
	"pipelined.dev/flock/ugen"
)

// headsCapacity is preallocated, so adding heads doesn't allocate on the
// audio goroutine in common cases.
const headsCapacity = 32

type (
	// Node is a head node of the evaluator.
	Node interface {
		Gen(numSamples int)
	}

	// Settings of the evaluation environment.
	Settings struct {
		SampleRate int
		BlockSize  int
		NumOutputs int
		NumInputs  int
		// NumBuses is the total number of buses. It's raised to fit
		// outputs and inputs.
		NumBuses int
		// Seed for noise generators.
		Seed int64
	}

	// Evaluator owns the bus table and evaluates head nodes once per
	// period. Gen must be called from a single goroutine, Add and Remove
	// are safe to call from any goroutine and take effect on the next
	// period.
	Evaluator struct {
		mutable.Context
		settings Settings
		buses    *Buses
		heads    []Node
		queue    mutable.Queue
		measure  metric.MeasureFunc
	}
)

// Validate checks settings.
func (s Settings) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", s.SampleRate)
	}
	if s.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive: %d", s.BlockSize)
	}
	if s.NumOutputs < 0 || s.NumInputs < 0 || s.NumBuses < 0 {
		return fmt.Errorf("number of buses must not be negative")
	}
	return nil
}

// NewEvaluator creates evaluator with allocated buses.
func NewEvaluator(s Settings) (*Evaluator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	buses, err := NewBuses(s.NumBuses, s.NumOutputs, s.NumInputs, s.BlockSize)
	if err != nil {
		return nil, err
	}
	e := &Evaluator{
		Context:  mutable.Mutable(),
		settings: s,
		buses:    buses,
		heads:    make([]Node, 0, headsCapacity),
	}
	e.measure = metric.Meter(e, s.SampleRate)
	return e, nil
}

// Settings returns evaluation settings.
func (e *Evaluator) Settings() Settings {
	return e.settings
}

// Buses returns the bus table.
func (e *Evaluator) Buses() *Buses {
	return e.buses
}

// UGenContext returns context to create unit generators that write to
// the evaluator's buses.
func (e *Evaluator) UGenContext() ugen.Context {
	return ugen.Context{
		SampleRate: float64(e.settings.SampleRate),
		BlockSize:  e.settings.BlockSize,
		NumOutputs: e.settings.NumOutputs,
		Buses:      e.buses,
		Seed:       e.settings.Seed,
	}
}

// Add registers head node. Node that is already registered is ignored.
func (e *Evaluator) Add(n Node) {
	e.queue.Put(e.Mutate(func() {
		if e.index(n) < 0 {
			e.heads = append(e.heads, n)
		}
	}))
}

// Remove unregisters head node. Buses the node wrote are not cleared.
func (e *Evaluator) Remove(n Node) {
	e.queue.Put(e.Mutate(func() {
		if i := e.index(n); i >= 0 {
			copy(e.heads[i:], e.heads[i+1:])
			e.heads[len(e.heads)-1] = nil
			e.heads = e.heads[:len(e.heads)-1]
		}
	}))
}

// NumHeads returns number of evaluated heads. It must be called from the
// goroutine that calls Gen.
func (e *Evaluator) NumHeads() int {
	return len(e.heads)
}

func (e *Evaluator) index(n Node) int {
	for i := range e.heads {
		if e.heads[i] == n {
			return i
		}
	}
	return -1
}

// Gen evaluates one period: pending mutations are applied, heads are
// evaluated in registration order and output buses nobody wrote are
// silenced.
func (e *Evaluator) Gen() {
	e.queue.Apply()
	e.buses.begin()
	for _, h := range e.heads {
		h.Gen(e.settings.BlockSize)
	}
	e.buses.silenceUntouched()
	e.measure(int64(e.settings.BlockSize))
}
