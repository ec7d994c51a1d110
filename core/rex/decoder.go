package rex

import "math"

// Info describes a decoded REX2 container after the output sample rate has
// been locked in. Units are the SDK's native ones: tempo in milli-BPM,
// musical length in PPQ ticks (15360 per quarter note).
type Info struct {
	SampleRate    int
	Channels      int
	TempoMilliBPM int
	PPQLength     float64
	SliceCount    int
}

// BPM returns the loop tempo in beats per minute.
func (i Info) BPM() float64 {
	return float64(i.TempoMilliBPM) / 1000.0
}

// LengthFrames returns the full render length in frames at the output
// sample rate. The 1000/256 ratio folds the milli-BPM tempo scale and the
// 15360-tick PPQ resolution into a single factor.
func (i Info) LengthFrames() int {
	exact := float64(i.SampleRate) * 1000.0 * i.PPQLength / (float64(i.TempoMilliBPM) * 256.0)
	return int(math.Round(exact))
}

// Marker is one slice start reported by the decoder, in PPQ ticks.
// Markers arrive in slice-index order.
type Marker struct {
	PPQPos float64
}

// Clip is a fully rendered loop: stream info, the slice markers in arrival
// order, and one float32 sample buffer per channel.
type Clip struct {
	Info     Info
	Markers  []Marker
	Channels [][]float32
}

// Frames returns the number of frames actually rendered.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Decoder renders a REX2 container and lists its slice markers. The
// proprietary SDK lives behind this interface so everything downstream can
// be exercised with literal fixtures.
type Decoder interface {
	Decode(path string) (*Clip, error)
}
