// Package wav renders the strategy into wav files offline.
package wav

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"pipelined.dev/flock/signal"
	"pipelined.dev/flock/strategy"
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

// pcmFormat is the wav audio format code of integer PCM.
const pcmFormat = 1

// Render plays the strategy for the duration and writes output channels
// to the file.
func Render(path string, s *strategy.Strategy, bitDepth signal.BitDepth, d time.Duration) error {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return ErrUnsupportedBitDepth
	}
	if d <= 0 {
		return fmt.Errorf("render %s: duration must be positive: %v", path, d)
	}
	settings := s.Settings()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	e := wav.NewEncoder(f, settings.SampleRate, int(bitDepth), settings.NumOutputs, pcmFormat)
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: settings.NumOutputs,
			SampleRate:  settings.SampleRate,
		},
		SourceBitDepth: int(bitDepth),
	}

	in := signal.EmptyFloat32(settings.NumInputs, settings.BufferSize)
	out := signal.EmptyFloat32(settings.NumOutputs, settings.BufferSize)
	buf := signal.EmptyFloat64(settings.NumOutputs, settings.BufferSize)
	left := signal.SamplesOf(settings.SampleRate, d)
	var (
		done bool
		werr error
	)
	s.Play(d)
	for !done && left > 0 {
		done = s.Process(in, out)
		frames := settings.BufferSize
		if int64(frames) > left {
			frames = int(left)
		}
		left -= int64(frames)
		for c := range out {
			buf[c] = buf[c][:frames]
			for i := range buf[c] {
				buf[c][i] = float64(out[c][i])
			}
		}
		ib.Data = buf.AsInterInt(bitDepth)
		if werr = e.Write(ib); werr != nil {
			break
		}
	}
	if err := e.Close(); err != nil && werr == nil {
		werr = err
	}
	if err := f.Close(); err != nil && werr == nil {
		werr = err
	}
	return werr
}

// Decode reads the whole wav file.
func Decode(path string) (signal.Float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: wav is not valid", path)
	}
	bitDepth := signal.BitDepth(decoder.BitDepth)
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, 0, ErrUnsupportedBitDepth
	}
	ib, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	numChannels := decoder.Format().NumChannels
	b := signal.InterInt{Data: ib.Data, NumChannels: numChannels, BitDepth: bitDepth}.AsFloat64()
	return b, int(decoder.SampleRate), nil
}
