// Package wavio wraps the go-audio WAV codec for the fixed needs of the
// exporter: deinterleaved float32 render buffers in, 16-bit PCM files out.
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Info describes an existing WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Duration   float64 // seconds
}

// WriteFile encodes per-channel float32 samples as an interleaved PCM WAV.
// Samples outside [-1, 1] are clipped.
func WriteFile(path string, sampleRate, bitDepth int, channels [][]float32) error {
	if len(channels) == 0 {
		return errors.New("wavio: no channels to write")
	}
	frames := len(channels[0])
	for _, ch := range channels {
		if len(ch) != frames {
			return errors.New("wavio: channel lengths differ")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, len(channels), 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(channels),
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, frames*len(channels)),
	}
	max := (1 << (bitDepth - 1)) - 1
	min := -(1 << (bitDepth - 1))
	for i := 0; i < frames; i++ {
		for c := range channels {
			buf.Data[i*len(channels)+c] = quantize(channels[c][i], min, max)
		}
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return f.Close()
}

func quantize(v float32, min, max int) int {
	s := int(math.Round(float64(v) * float64(max)))
	if s > max {
		return max
	}
	if s < min {
		return min
	}
	return s
}

// ReadInfo probes an existing WAV file without loading its sample data.
func ReadInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if dec.Err() != nil {
		return Info{}, fmt.Errorf("failed to read WAV header of %s: %w", path, dec.Err())
	}
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%s is not a valid WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("no PCM chunk in %s: %w", path, err)
	}

	bytesPerFrame := int(dec.NumChans) * int(dec.BitDepth) / 8
	frames := 0
	if bytesPerFrame > 0 {
		frames = int(dec.PCMLen()) / bytesPerFrame
	}
	return Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Frames:     frames,
		Duration:   float64(frames) / float64(dec.SampleRate),
	}, nil
}
