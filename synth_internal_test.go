package flock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/flock/synthdef"
)

func TestSynthStaleBlock(t *testing.T) {
	e, err := NewEvaluator(Settings{SampleRate: 100, BlockSize: 4, NumOutputs: 1})
	require.NoError(t, err)
	s, err := NewSynth(synthdef.Def{
		UGen: "line",
		Inputs: map[string]synthdef.Value{
			"start":    synthdef.NumberValue(0),
			"end":      synthdef.NumberValue(1),
			"duration": synthdef.NumberValue(1),
		},
	}, e.UGenContext())
	require.NoError(t, err)
	e.Add(s)

	e.Gen()
	first := append([]float64{}, e.Buses().Bus(0)...)
	assert.InDeltaSlice(t, []float64{0, 0.01, 0.02, 0.03}, first, 1e-12)

	// graph is being mutated, previous block is written again.
	s.gen.Lock()
	e.Gen()
	s.gen.Unlock()
	assert.Equal(t, first, e.Buses().Bus(0))
	assert.Equal(t, int64(1), s.Stale())

	e.Gen()
	assert.InDeltaSlice(t, []float64{0.04, 0.05, 0.06, 0.07}, e.Buses().Bus(0), 1e-12)
	assert.Equal(t, int64(1), s.Stale())
}

func TestBusesFirstTouch(t *testing.T) {
	b, err := NewBuses(0, 2, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Len())

	b.begin()
	b.Write(0, []float64{1, 2})
	b.Write(0, []float64{0.5, 0.5})
	b.silenceUntouched()
	assert.Equal(t, []float64{1.5, 2.5}, b.Bus(0))
	assert.Equal(t, []float64{0, 0}, b.Bus(1))

	b.begin()
	b.Write(0, []float64{1, 1})
	b.silenceUntouched()
	assert.Equal(t, []float64{1, 1}, b.Bus(0))

	_, err = NewBuses(0, -1, 0, 2)
	assert.Error(t, err)
}
