package wav_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/flock"
	"pipelined.dev/flock/signal"
	"pipelined.dev/flock/strategy"
	"pipelined.dev/flock/synthdef"
	"pipelined.dev/flock/wav"
)

func newStrategy(t *testing.T, value float64) *strategy.Strategy {
	t.Helper()
	s, err := strategy.New(strategy.Settings{
		Settings: flock.Settings{
			SampleRate: 1000,
			BlockSize:  10,
			NumOutputs: 2,
		},
		BufferSize: 100,
	}, nil)
	require.NoError(t, err)
	synth, err := flock.NewSynth(synthdef.Def{
		UGen: "value",
		Inputs: map[string]synthdef.Value{
			"value": synthdef.NumberValue(value),
		},
	}, s.Evaluator().UGenContext())
	require.NoError(t, err)
	s.Evaluator().Add(synth)
	return s
}

func TestRender(t *testing.T) {
	tests := []struct {
		bitDepth signal.BitDepth
		duration time.Duration
		frames   int
	}{
		{bitDepth: signal.BitDepth16, duration: 250 * time.Millisecond, frames: 250},
		{bitDepth: signal.BitDepth32, duration: 100 * time.Millisecond, frames: 100},
		{bitDepth: signal.BitDepth16, duration: 5 * time.Millisecond, frames: 5},
	}
	for _, test := range tests {
		path := filepath.Join(t.TempDir(), "out.wav")
		err := wav.Render(path, newStrategy(t, 0.5), test.bitDepth, test.duration)
		require.NoError(t, err)

		b, sampleRate, err := wav.Decode(path)
		require.NoError(t, err)
		assert.Equal(t, 1000, sampleRate)
		assert.Equal(t, 2, b.NumChannels())
		assert.Equal(t, test.frames, b.Size())
		for c := range b {
			for _, sample := range b[c] {
				assert.InDelta(t, 0.5, sample, 1e-3)
			}
		}
	}
}

func TestRenderClipped(t *testing.T) {
	tests := []struct {
		value    float64
		expected float64
	}{
		{value: 1.5, expected: 1},
		{value: -2, expected: -1},
	}
	for _, test := range tests {
		path := filepath.Join(t.TempDir(), "out.wav")
		err := wav.Render(path, newStrategy(t, test.value), signal.BitDepth16, 10*time.Millisecond)
		require.NoError(t, err)

		b, _, err := wav.Decode(path)
		require.NoError(t, err)
		for c := range b {
			for _, sample := range b[c] {
				assert.InDelta(t, test.expected, sample, 1e-3)
			}
		}
	}
}

func TestRenderErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	err := wav.Render(path, newStrategy(t, 0), signal.BitDepth8, time.Second)
	assert.ErrorIs(t, err, wav.ErrUnsupportedBitDepth)

	err = wav.Render(path, newStrategy(t, 0), signal.BitDepth16, 0)
	assert.Error(t, err)

	_, _, err = wav.Decode(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
