// Package portaudio plays the strategy on the default audio device.
package portaudio

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"pipelined.dev/flock/strategy"
)

// Initialize initializes portaudio. It must be called before any host is
// opened, every successful call must be paired with Terminate.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate releases portaudio resources.
func Terminate() error {
	return portaudio.Terminate()
}

// Host runs the strategy in the portaudio callback.
type Host struct {
	strategy *strategy.Strategy
	stream   *portaudio.Stream
	done     chan struct{}
}

// Open opens default stream for the strategy settings.
func Open(s *strategy.Strategy) (*Host, error) {
	h := &Host{
		strategy: s,
		done:     make(chan struct{}, 1),
	}
	settings := s.Settings()
	stream, err := portaudio.OpenDefaultStream(
		settings.NumInputs,
		settings.NumOutputs,
		float64(settings.SampleRate),
		settings.BufferSize,
		h.process,
	)
	if err != nil {
		return nil, fmt.Errorf("open default stream: %w", err)
	}
	h.stream = stream
	return h, nil
}

// process is called by portaudio on its own thread.
func (h *Host) process(in, out [][]float32) {
	if h.strategy.Process(in, out) {
		select {
		case h.done <- struct{}{}:
		default:
		}
	}
}

// Start plays for the duration. Zero duration plays until the host is
// closed.
func (h *Host) Start(d time.Duration) error {
	h.strategy.Play(d)
	return h.stream.Start()
}

// Wait blocks until the play is done or context is cancelled.
func (h *Host) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops and closes the stream.
func (h *Host) Close() error {
	h.strategy.Stop()
	if err := h.stream.Stop(); err != nil {
		return err
	}
	return h.stream.Close()
}
