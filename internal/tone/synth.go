// Package tone synthesizes the count bell and plays it on whatever output the
// terminal offers. Playback never reports failure to its caller.
package tone

import (
	"bytes"
	"encoding/binary"
	"math"
)

// DefaultSampleRate is used when no rate is configured.
const DefaultSampleRate = 44100

// DefaultGain matches the playback volume of the bell.
const DefaultGain = 0.5

// partial is one harmonic of the bell.
type partial struct {
	freq float64
	amp  float64
}

// C5, G5 and C6 with a shared exponential decay.
var bellPartials = []partial{
	{freq: 523.25, amp: 0.5},
	{freq: 783.99, amp: 0.3},
	{freq: 1046.5, amp: 0.2},
}

const bellDecay = 4.0

// Bell returns one second of mono samples in [-1, 1].
func Bell(sampleRate int) []float64 {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	samples := make([]float64, sampleRate)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		env := math.Exp(-bellDecay * t)
		var v float64
		for _, p := range bellPartials {
			v += p.amp * math.Sin(2*math.Pi*p.freq*t) * env
		}
		samples[i] = v
	}
	return samples
}

// EncodeWAV renders samples as a 16-bit mono PCM WAV file scaled by gain.
func EncodeWAV(samples []float64, sampleRate int, gain float64) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := len(samples) * channels * bitsPerSample / 8
	byteRate := sampleRate * channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*bitsPerSample/8))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		v := s * gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.Write(&buf, binary.LittleEndian, int16(math.Round(v*math.MaxInt16)))
	}
	return buf.Bytes()
}
