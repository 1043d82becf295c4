// Package mock provides test doubles for evaluator heads and bus tables.
package mock

import (
	"pipelined.dev/flock/signal"
	"pipelined.dev/flock/ugen"
)

// Head mocks an evaluator head. Every period it writes Value to Bus.
type Head struct {
	counter
	Buses ugen.Buses
	Bus   int
	Value float64

	buffer []float64
}

// Gen writes the value to the bus.
func (m *Head) Gen(numSamples int) {
	if len(m.buffer) < numSamples {
		m.buffer = make([]float64, numSamples)
	}
	out := signal.Fill(m.buffer[:numSamples], m.Value)
	if m.Buses != nil && m.Bus >= 0 && m.Bus < m.Buses.Len() {
		m.Buses.Write(m.Bus, out)
	}
	m.advance(numSamples)
}

// Buses mocks a bus table. Writes accumulate until Clear is called.
type Buses struct {
	buses  signal.Float64
	writes []int
}

// NewBuses allocates numBuses zeroed buses.
func NewBuses(numBuses, blockSize int) *Buses {
	return &Buses{
		buses:  signal.EmptyFloat64(numBuses, blockSize),
		writes: make([]int, numBuses),
	}
}

// Len returns number of buses.
func (m *Buses) Len() int {
	return len(m.buses)
}

// Bus returns bus buffer.
func (m *Buses) Bus(i int) []float64 {
	return m.buses[i]
}

// Write adds samples to the bus.
func (m *Buses) Write(i int, samples []float64) {
	bus := m.buses[i]
	for j := range samples {
		bus[j] += samples[j]
	}
	m.writes[i]++
}

// Writes returns number of writes to the bus since last Clear.
func (m *Buses) Writes(i int) int {
	return m.writes[i]
}

// Clear zeroes all buses and write counters.
func (m *Buses) Clear() {
	for i := range m.buses {
		signal.Silence(m.buses[i])
		m.writes[i] = 0
	}
}

// counter counts periods and samples.
type counter struct {
	periods int
	samples int
}

func (c *counter) advance(size int) {
	c.periods++
	c.samples = c.samples + size
}

// Count returns periods and samples metrics.
func (c *counter) Count() (int, int) {
	return c.periods, c.samples
}

// Reset resets counter's metrics.
func (c *counter) Reset() {
	c.periods, c.samples = 0, 0
}
