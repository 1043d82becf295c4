// Package strategy drives the evaluator from host audio callbacks. Host
// buffers are split into blocks: every block input channels are copied to
// input buses, the evaluator generates a period and output buses are
// copied to the host buffer.
package strategy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"pipelined.dev/flock"
	"pipelined.dev/flock/log"
	"pipelined.dev/flock/metric"
	"pipelined.dev/flock/mutable"
	"pipelined.dev/flock/signal"
)

// ErrInvalidSettings is returned when buffer size doesn't match the
// evaluation settings.
var ErrInvalidSettings = errors.New("invalid audio settings")

type (
	// Settings of the audio strategy.
	Settings struct {
		flock.Settings
		// BufferSize is the number of frames per host callback. It must
		// be a multiple of block size.
		BufferSize int
	}

	// PlayState tracks number of written samples. Samples are counted
	// over all output channels. Zero Total means unbounded play.
	PlayState struct {
		Total   int64
		Written int64
	}

	// Strategy processes host buffers. Process is called by the host
	// audio goroutine, Play and Stop are safe to call from any goroutine
	// and take effect on the next callback.
	Strategy struct {
		mutable.Context
		settings  Settings
		evaluator *flock.Evaluator
		logger    log.Logger
		queue     mutable.Queue
		measure   metric.MeasureFunc

		// owned by the audio goroutine.
		playing bool
		state   PlayState
	}
)

// DefaultSettings returns stereo settings with half a second of latency.
func DefaultSettings() Settings {
	const (
		sampleRate = 44100
		blockSize  = 64
		numOutputs = 2
	)
	return Settings{
		Settings: flock.Settings{
			SampleRate: sampleRate,
			BlockSize:  blockSize,
			NumOutputs: numOutputs,
			NumBuses:   8,
		},
		BufferSize: RoundToBlock(MinBufferSize(sampleRate, numOutputs, 500*time.Millisecond)/numOutputs, blockSize),
	}
}

// Validate checks settings.
func (s Settings) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if s.BufferSize <= 0 || s.BufferSize%s.BlockSize != 0 {
		return fmt.Errorf("%w: buffer size %d is not a multiple of block size %d", ErrInvalidSettings, s.BufferSize, s.BlockSize)
	}
	return nil
}

// Periods returns number of evaluation periods per host buffer.
func (s Settings) Periods() int {
	return s.BufferSize / s.BlockSize
}

// MinBufferSize returns number of samples over all channels that covers
// the latency.
func MinBufferSize(sampleRate, numChannels int, latency time.Duration) int {
	return int(math.Round(float64(sampleRate) * latency.Seconds() * float64(numChannels)))
}

// RoundToBlock rounds size up to the multiple of block size.
func RoundToBlock(size, blockSize int) int {
	if blockSize <= 0 {
		return size
	}
	if rem := size % blockSize; rem != 0 {
		return size + blockSize - rem
	}
	return size
}

// Advance counts written samples and reports whether the total is
// reached.
func (p *PlayState) Advance(samples int64) bool {
	p.Written += samples
	return p.Total > 0 && p.Written >= p.Total
}

// New creates strategy with a new evaluator.
func New(s Settings, logger log.Logger) (*Strategy, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	e, err := flock.NewEvaluator(s.Settings)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	st := &Strategy{
		Context:   mutable.Mutable(),
		settings:  s,
		evaluator: e,
		logger:    logger,
	}
	st.measure = metric.Meter(st, s.SampleRate)
	return st, nil
}

// Settings returns strategy settings.
func (s *Strategy) Settings() Settings {
	return s.settings
}

// Evaluator returns the driven evaluator.
func (s *Strategy) Evaluator() *flock.Evaluator {
	return s.evaluator
}

// Play starts generation. Zero duration plays until Stop is called.
func (s *Strategy) Play(d time.Duration) {
	total := signal.SamplesOf(s.settings.SampleRate, d) * int64(s.settings.NumOutputs)
	s.logger.Debugf("strategy: play %v (%d samples)", d, total)
	s.queue.Put(s.Mutate(func() {
		s.playing = true
		s.state = PlayState{Total: total}
	}))
}

// Stop stops generation. Output is silent after the stop.
func (s *Strategy) Stop() {
	s.logger.Debugf("strategy: stop")
	s.queue.Put(s.Mutate(func() {
		s.playing = false
	}))
}

// Process fills host output buffers. It reports true once, in the call
// that reaches the play state total. Periods are never evaluated after
// that and the rest of the buffer is silent.
func (s *Strategy) Process(in, out [][]float32) bool {
	s.queue.Apply()
	if !s.playing {
		silence(out, 0)
		return false
	}

	var (
		blockSize  = s.settings.BlockSize
		buses      = s.evaluator.Buses()
		first, _   = buses.InputRange()
		numOutputs = s.settings.NumOutputs
		done       bool
	)
	for p := 0; p < s.settings.Periods(); p++ {
		offset := p * blockSize
		if done {
			silence(out, offset)
			break
		}
		for c := 0; c < s.settings.NumInputs; c++ {
			var src []float32
			if c < len(in) && offset < len(in[c]) {
				src = in[c][offset:]
			}
			signal.ReadFloat32(buses.Bus(first+c), src)
		}
		s.evaluator.Gen()
		for c := 0; c < numOutputs && c < len(out); c++ {
			if offset >= len(out[c]) {
				continue
			}
			signal.WriteFloat32(out[c][offset:], buses.Bus(c))
		}
		s.measure(int64(blockSize))
		if s.state.Advance(int64(blockSize * numOutputs)) {
			s.playing = false
			done = true
		}
	}
	return done
}

// State returns play state. It must be called from the goroutine that
// calls Process.
func (s *Strategy) State() PlayState {
	return s.state
}

// silence zeroes output buffers starting from offset.
func silence(out [][]float32, offset int) {
	for c := range out {
		if offset >= len(out[c]) {
			continue
		}
		for i := range out[c][offset:] {
			out[c][offset+i] = 0
		}
	}
}
