// Package signal provides helpers to manipulate sample buffers. It allows to:
// 	- fill and silence buffers
//	- move samples between float32 device buffers and float64 buses
// 	- convert interleaved int data to non-interleaved float and back
package signal

import (
	"math"
	"time"
)

// Float64 is a non-interleaved float64 signal.
type Float64 [][]float64

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// InterInt is an interleaved int signal.
type InterInt struct {
	Data        []int
	NumChannels int
	BitDepth
}

// BitDepth contains values required for int-to-float and backward conversion.
type BitDepth int

// devider is used when int to float conversion is done.
func (bitDepth BitDepth) devider() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8 - 1
	case BitDepth16:
		return math.MaxInt16 - 1
	case BitDepth32:
		return math.MaxInt32 - 1
	default:
		return 1
	}
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// SamplesOf returns number of samples that last for provided duration.
func SamplesOf(sampleRate int, d time.Duration) int64 {
	return int64(math.Round(float64(sampleRate) * d.Seconds()))
}

// Fill sets every sample of the buffer to the value and returns it.
func Fill(buf []float64, value float64) []float64 {
	for i := range buf {
		buf[i] = value
	}
	return buf
}

// Silence writes zeros to the buffer.
func Silence(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ReadFloat32 copies device samples into the bus buffer.
func ReadFloat32(dst []float64, src []float32) {
	for i := range dst {
		if i < len(src) {
			dst[i] = float64(src[i])
		} else {
			dst[i] = 0
		}
	}
}

// WriteFloat32 copies bus samples into the device buffer. Samples are
// clipped to [-1, 1].
func WriteFloat32(dst []float32, src []float64) {
	for i := range dst {
		if i >= len(src) {
			return
		}
		dst[i] = float32(Clip(src[i]))
	}
}

// Clip limits the sample to [-1, 1].
func Clip(sample float64) float64 {
	switch {
	case sample > 1:
		return 1
	case sample < -1:
		return -1
	default:
		return sample
	}
}

// AsFloat64 converts interleaved int signal to float64.
func (ints InterInt) AsFloat64() Float64 {
	if ints.Data == nil || ints.NumChannels == 0 {
		return nil
	}
	floats := make([][]float64, ints.NumChannels)
	bufSize := int(math.Ceil(float64(len(ints.Data)) / float64(ints.NumChannels)))

	// determine the devider for bit depth conversion
	devider := float64(ints.BitDepth.devider())

	for i := range floats {
		floats[i] = make([]float64, bufSize)
		pos := 0
		for j := i; j < len(ints.Data); j = j + ints.NumChannels {
			floats[i][pos] = float64(ints.Data[j]) / devider
			pos++
		}
	}
	return floats
}

// AsInterInt converts float64 signal to interleaved int. Samples are
// clipped to [-1, 1] for known bit depths, so they never overflow it.
func (floats Float64) AsInterInt(bitDepth BitDepth) []int {
	var numChannels int
	if numChannels = len(floats); numChannels == 0 {
		return nil
	}

	// determine the multiplier for bit depth conversion
	multiplier := float64(bitDepth.multiplier())

	ints := make([]int, len(floats[0])*numChannels)

	clip := bitDepth.multiplier() > 1
	for j := range floats {
		for i := range floats[j] {
			sample := floats[j][i]
			if clip {
				sample = Clip(sample)
			}
			ints[i*numChannels+j] = int(sample * multiplier)
		}
	}
	return ints
}

// EmptyFloat64 returns an empty buffer of specified dimentions.
func EmptyFloat64(numChannels int, bufferSize int) Float64 {
	result := make([][]float64, numChannels)
	for i := range result {
		result[i] = make([]float64, bufferSize)
	}
	return result
}

// EmptyFloat32 returns an empty device buffer of specified dimentions.
func EmptyFloat32(numChannels int, bufferSize int) [][]float32 {
	result := make([][]float32, numChannels)
	for i := range result {
		result[i] = make([]float32, bufferSize)
	}
	return result
}

// NumChannels returns number of channels in this sample slice
func (floats Float64) NumChannels() int {
	return len(floats)
}

// Size returns number of samples in single block in this sample slice
func (floats Float64) Size() int {
	if floats.NumChannels() == 0 {
		return 0
	}
	return len(floats[0])
}
