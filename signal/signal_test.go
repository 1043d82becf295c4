package signal_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/flock/signal"
)

func TestInterIntsAsFloat64(t *testing.T) {
	tests := []struct {
		ints        []int
		numChannels int
		bitDepth    signal.BitDepth
		expected    [][]float64
	}{
		{
			ints:        []int{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2},
			numChannels: 2,
			expected: [][]float64{
				[]float64{1, 1, 1, 1, 1, 1, 1, 1},
				[]float64{2, 2, 2, 2, 2, 2, 2, 2},
			},
		},
		{
			ints:        []int{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1},
			numChannels: 2,
			expected: [][]float64{
				[]float64{1, 1, 1, 1, 1, 1, 1, 1},
				[]float64{2, 2, 2, 2, 2, 2, 2, 0},
			},
		},
		{
			ints:        []int{math.MaxInt16, math.MaxInt16 * 2},
			numChannels: 2,
			expected: [][]float64{
				[]float64{1},
				[]float64{2},
			},
			bitDepth: signal.BitDepth16,
		},
		{
			ints:     nil,
			expected: nil,
		},
		{
			ints:     []int{1, 2, 3},
			expected: nil,
		},
		{
			ints:        []int{1, 2, 3, 4},
			numChannels: 5,
			expected: [][]float64{
				[]float64{1},
				[]float64{2},
				[]float64{3},
				[]float64{4},
				[]float64{0},
			},
		},
	}

	for _, test := range tests {
		ints := signal.InterInt{
			Data:        test.ints,
			NumChannels: test.numChannels,
			BitDepth:    test.bitDepth,
		}
		result := ints.AsFloat64()
		assert.Equal(t, len(test.expected), len(result))
		for i := range test.expected {
			for j, val := range test.expected[i] {
				assert.Equal(t, val, result[i][j])
			}
		}
	}
}

func TestFloat64AsInterInt(t *testing.T) {
	tests := []struct {
		floats   [][]float64
		bitDepth signal.BitDepth
		expected []int
	}{
		{
			floats: [][]float64{
				[]float64{1, 1, 1, 1, 1, 1, 1, 1},
				[]float64{2, 2, 2, 2, 2, 2, 2, 2},
			},
			expected: []int{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2},
		},
		{
			floats: [][]float64{
				[]float64{1, 1, 1, 1, 1, 1, 1, 1},
				[]float64{2, 2, 2, 2, 2, 2},
			},
			expected: []int{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 0, 1, 0},
		},
		{
			floats: [][]float64{
				[]float64{1},
				[]float64{0.5},
			},
			bitDepth: signal.BitDepth16,
			expected: []int{math.MaxInt16 - 1, (math.MaxInt16 - 1) / 2},
		},
		{
			// clipped.
			floats: [][]float64{
				[]float64{2, 1.5},
				[]float64{-2, -1.5},
			},
			bitDepth: signal.BitDepth16,
			expected: []int{math.MaxInt16 - 1, -(math.MaxInt16 - 1), math.MaxInt16 - 1, -(math.MaxInt16 - 1)},
		},
		{
			floats:   nil,
			expected: nil,
		},
		{
			floats:   [][]float64{},
			expected: nil,
		},
		{
			floats: [][]float64{
				[]float64{},
				[]float64{},
			},
			expected: []int{},
		},
		{
			floats: [][]float64{
				[]float64{1},
				[]float64{2},
				[]float64{3},
				[]float64{4},
				[]float64{5},
			},
			expected: []int{1, 2, 3, 4, 5},
		},
	}

	for _, test := range tests {
		floats := signal.Float64(test.floats)
		ints := floats.AsInterInt(test.bitDepth)
		assert.Equal(t, len(test.expected), len(ints))
		for i := range test.expected {
			assert.Equal(t, test.expected[i], ints[i])
		}
	}
}

func TestFill(t *testing.T) {
	actual := signal.Fill(make([]float64, 3), 42)
	assert.Equal(t, []float64{42, 42, 42}, actual)

	signal.Silence(actual)
	assert.Equal(t, []float64{0, 0, 0}, actual)
}

func TestFloat32(t *testing.T) {
	bus := []float64{0.5, -0.25, 1}
	device := make([]float32, 2)
	signal.WriteFloat32(device, bus)
	assert.Equal(t, []float32{0.5, -0.25}, device)

	signal.ReadFloat32(bus, device)
	assert.Equal(t, []float64{0.5, -0.25, 0}, bus)

	signal.WriteFloat32(device, []float64{1.5, -3})
	assert.Equal(t, []float32{1, -1}, device)

	empty := signal.EmptyFloat32(2, 4)
	assert.Len(t, empty, 2)
	assert.Len(t, empty[1], 4)
}

func TestClip(t *testing.T) {
	tests := []struct {
		sample, expected float64
	}{
		{sample: 0.25, expected: 0.25},
		{sample: 1, expected: 1},
		{sample: 1.5, expected: 1},
		{sample: -1.01, expected: -1},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, signal.Clip(test.sample))
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		sampleRate int
		samples    int64
		duration   time.Duration
	}{
		{sampleRate: 44100, samples: 44100, duration: time.Second},
		{sampleRate: 48000, samples: 12000, duration: 250 * time.Millisecond},
		{sampleRate: 44100, samples: 0, duration: 0},
	}
	for _, test := range tests {
		assert.Equal(t, test.duration, signal.DurationOf(test.sampleRate, test.samples))
		assert.Equal(t, test.samples, signal.SamplesOf(test.sampleRate, test.duration))
	}
}
