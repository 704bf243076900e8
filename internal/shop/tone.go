// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
)

// Notification tone parameters: a short 880 Hz sine with an exponential
// attack to peak gain and a decay back to the floor.
const (
	ToneSampleRate = 22050
	toneFrequency  = 880.0
	toneFloorGain  = 0.0001
	tonePeakGain   = 0.3
	toneAttack     = 0.010 // seconds to peak
	toneDecayEnd   = 0.250 // seconds until back at the floor
	toneLength     = 0.280 // total seconds
)

// ToneSamples is the number of PCM samples in the notification tone.
var ToneSamples = int(math.Round(toneLength * ToneSampleRate))

// ToneWAV returns the notification tone as a 16-bit mono PCM WAV file.
// It is synthesized once and shared.
var ToneWAV = sync.OnceValue(func() []byte {
	return encodeWAV(toneSamples(), ToneSampleRate)
})

// toneGain is the gain envelope at time t seconds.
func toneGain(t float64) float64 {
	switch {
	case t <= 0:
		return toneFloorGain
	case t < toneAttack:
		return toneFloorGain * math.Pow(tonePeakGain/toneFloorGain, t/toneAttack)
	case t < toneDecayEnd:
		return tonePeakGain * math.Pow(toneFloorGain/tonePeakGain, (t-toneAttack)/(toneDecayEnd-toneAttack))
	default:
		return toneFloorGain
	}
}

func toneSamples() []int16 {
	samples := make([]int16, ToneSamples)
	for i := range samples {
		t := float64(i) / ToneSampleRate
		v := math.Sin(2*math.Pi*toneFrequency*t) * toneGain(t)
		samples[i] = int16(math.Round(v * math.MaxInt16))
	}
	return samples
}

// encodeWAV writes a canonical 44-byte RIFF header followed by samples.
func encodeWAV(samples []int16, rate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataLen := len(samples) * 2
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	le := binary.LittleEndian
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, le, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, le, uint32(16)) // PCM chunk size
	_ = binary.Write(&buf, le, uint16(1))  // PCM format
	_ = binary.Write(&buf, le, uint16(channels))
	_ = binary.Write(&buf, le, uint32(rate))
	_ = binary.Write(&buf, le, uint32(rate*blockAlign))
	_ = binary.Write(&buf, le, uint16(blockAlign))
	_ = binary.Write(&buf, le, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, le, uint32(dataLen))
	_ = binary.Write(&buf, le, samples)

	return buf.Bytes()
}
