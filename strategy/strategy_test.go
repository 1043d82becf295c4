package strategy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/flock"
	"pipelined.dev/flock/mock"
	"pipelined.dev/flock/signal"
	"pipelined.dev/flock/strategy"
	"pipelined.dev/flock/synthdef"
)

func TestMinBufferSize(t *testing.T) {
	tests := []struct {
		sampleRate  int
		numChannels int
		latency     time.Duration
		expected    int
	}{
		{sampleRate: 44100, numChannels: 2, latency: 500 * time.Millisecond, expected: 44100},
		{sampleRate: 44100, numChannels: 1, latency: 500 * time.Millisecond, expected: 22050},
		{sampleRate: 48000, numChannels: 2, latency: 250 * time.Millisecond, expected: 24000},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, strategy.MinBufferSize(test.sampleRate, test.numChannels, test.latency))
	}
}

func TestRoundToBlock(t *testing.T) {
	tests := []struct {
		size, blockSize, expected int
	}{
		{size: 22050, blockSize: 64, expected: 22080},
		{size: 128, blockSize: 64, expected: 128},
		{size: 1, blockSize: 64, expected: 64},
		{size: 10, blockSize: 0, expected: 10},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, strategy.RoundToBlock(test.size, test.blockSize))
	}
}

func TestSettings(t *testing.T) {
	defaults := strategy.DefaultSettings()
	assert.NoError(t, defaults.Validate())
	assert.Equal(t, 0, defaults.BufferSize%defaults.BlockSize)

	tests := []struct {
		bufferSize int
		valid      bool
	}{
		{bufferSize: 64, valid: true},
		{bufferSize: 256, valid: true},
		{bufferSize: 100},
		{bufferSize: 0},
	}
	for _, test := range tests {
		s := defaults
		s.BufferSize = test.bufferSize
		err := s.Validate()
		if test.valid {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, strategy.ErrInvalidSettings)
		}
	}
}

func TestPlayState(t *testing.T) {
	p := strategy.PlayState{Total: 10}
	assert.False(t, p.Advance(4))
	assert.False(t, p.Advance(4))
	assert.True(t, p.Advance(4))
	assert.Equal(t, int64(12), p.Written)

	unbounded := strategy.PlayState{}
	assert.False(t, unbounded.Advance(1<<40))
}

var testSettings = strategy.Settings{
	Settings: flock.Settings{
		SampleRate: 100,
		BlockSize:  4,
		NumOutputs: 1,
		NumInputs:  1,
		NumBuses:   4,
	},
	BufferSize: 16,
}

func newStrategy(t *testing.T) (*strategy.Strategy, *mock.Head) {
	t.Helper()
	s, err := strategy.New(testSettings, nil)
	require.NoError(t, err)
	e := s.Evaluator()
	// input bus goes straight to the output.
	synth, err := flock.NewSynth(synthdef.Def{
		UGen: "in",
		Inputs: map[string]synthdef.Value{
			"bus": synthdef.NumberValue(1),
		},
	}, e.UGenContext())
	require.NoError(t, err)
	head := &mock.Head{Buses: e.Buses(), Bus: 3, Value: 1}
	e.Add(synth)
	e.Add(head)
	return s, head
}

func TestProcess(t *testing.T) {
	s, head := newStrategy(t)
	in := [][]float32{make([]float32, testSettings.BufferSize)}
	for i := range in[0] {
		in[0][i] = 0.5
	}
	out := signal.EmptyFloat32(1, testSettings.BufferSize)

	// not playing.
	assert.False(t, s.Process(in, out))
	periods, _ := head.Count()
	assert.Equal(t, 0, periods)

	// 100ms is 10 samples, so play stops after the third block.
	s.Play(100 * time.Millisecond)
	assert.True(t, s.Process(in, out))
	periods, _ = head.Count()
	assert.Equal(t, 3, periods)
	for i, sample := range out[0] {
		if i < 12 {
			assert.Equal(t, float32(0.5), sample)
		} else {
			assert.Equal(t, float32(0), sample)
		}
	}
	assert.Equal(t, int64(12), s.State().Written)

	// stopped once, no more periods.
	assert.False(t, s.Process(in, out))
	periods, _ = head.Count()
	assert.Equal(t, 3, periods)
	assert.Equal(t, make([]float32, testSettings.BufferSize), out[0])
}

func TestProcessStop(t *testing.T) {
	s, head := newStrategy(t)
	in := signal.EmptyFloat32(1, testSettings.BufferSize)
	out := signal.EmptyFloat32(1, testSettings.BufferSize)

	s.Play(0)
	for i := 0; i < 3; i++ {
		assert.False(t, s.Process(in, out))
	}
	periods, _ := head.Count()
	assert.Equal(t, 3*testSettings.Periods(), periods)

	s.Stop()
	assert.False(t, s.Process(in, out))
	periods, _ = head.Count()
	assert.Equal(t, 3*testSettings.Periods(), periods)
}
