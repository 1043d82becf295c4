package flock

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"pipelined.dev/flock/signal"
)

// Buses is the bus table. Output buses come first, input buses follow
// them, the rest are interconnection buses. Bus contents are valid only
// within the current period.
//
// Buses are never cleared in advance. The first write to a bus in a
// period overwrites it and subsequent writes accumulate, so the sum
// doesn't depend on the order of writers. Output buses nobody wrote
// get silence at the end of the period.
type Buses struct {
	buses      [][]float64
	touched    []uint64
	period     uint64
	numOutputs int
	numInputs  int
}

// NewBuses allocates the bus table.
func NewBuses(numBuses, numOutputs, numInputs, blockSize int) (*Buses, error) {
	if numOutputs < 0 || numInputs < 0 || blockSize <= 0 {
		return nil, fmt.Errorf("invalid bus layout: %d outputs, %d inputs, block size %d", numOutputs, numInputs, blockSize)
	}
	if numBuses < numOutputs+numInputs {
		numBuses = numOutputs + numInputs
	}
	return &Buses{
		buses:      signal.EmptyFloat64(numBuses, blockSize),
		touched:    make([]uint64, numBuses),
		period:     1,
		numOutputs: numOutputs,
		numInputs:  numInputs,
	}, nil
}

// Len returns number of buses.
func (b *Buses) Len() int {
	return len(b.buses)
}

// Bus returns bus buffer for direct access.
func (b *Buses) Bus(i int) []float64 {
	return b.buses[i]
}

// OutputRange returns first and past-the-last output bus.
func (b *Buses) OutputRange() (int, int) {
	return 0, b.numOutputs
}

// InputRange returns first and past-the-last input bus.
func (b *Buses) InputRange() (int, int) {
	return b.numOutputs, b.numOutputs + b.numInputs
}

// Write puts samples to the bus. First write in the period overwrites
// the bus, subsequent writes accumulate.
func (b *Buses) Write(i int, samples []float64) {
	bus := b.buses[i][:len(samples)]
	if b.touched[i] != b.period {
		b.touched[i] = b.period
		copy(bus, samples)
		return
	}
	vecmath.AddBlockInPlace(bus, samples)
}

// begin starts a new period.
func (b *Buses) begin() {
	b.period++
}

// silenceUntouched writes silence to output buses that weren't written in
// the current period.
func (b *Buses) silenceUntouched() {
	for i := 0; i < b.numOutputs; i++ {
		if b.touched[i] != b.period {
			signal.Silence(b.buses[i])
		}
	}
}
