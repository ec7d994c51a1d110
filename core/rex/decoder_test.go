package rex

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoUnits(t *testing.T) {
	t.Parallel()

	// One 4/4 bar at 120 BPM: 4 quarters x 15360 ticks.
	info := Info{
		SampleRate:    44100,
		Channels:      2,
		TempoMilliBPM: 120000,
		PPQLength:     61440,
	}
	assert.Equal(t, 120.0, info.BPM())
	assert.Equal(t, 88200, info.LengthFrames(), "exactly two seconds of audio")
}

func TestInfoFractionalTempo(t *testing.T) {
	t.Parallel()

	info := Info{
		SampleRate:    48000,
		TempoMilliBPM: 174500,
		PPQLength:     61440,
	}
	assert.Equal(t, 174.5, info.BPM())

	// 4 beats at 174.5 BPM = 1.37535... s; rounded to whole frames.
	want := int(math.Round(48000.0 * 240.0 / 174.5))
	assert.Equal(t, want, info.LengthFrames())
}

func TestDeinterleave(t *testing.T) {
	t.Parallel()

	samples := []float32{0.1, -0.5, 0.2, -0.6}
	pcm := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(pcm[i*4:], math.Float32bits(s))
	}

	chans, err := deinterleave(pcm, 2)
	require.NoError(t, err)
	require.Len(t, chans, 2)
	assert.Equal(t, []float32{0.1, 0.2}, chans[0])
	assert.Equal(t, []float32{-0.5, -0.6}, chans[1])
}

func TestDeinterleaveMono(t *testing.T) {
	t.Parallel()

	pcm := make([]byte, 12)
	chans, err := deinterleave(pcm, 1)
	require.NoError(t, err)
	require.Len(t, chans, 1)
	assert.Len(t, chans[0], 3)
}

func TestDeinterleaveRaggedPayload(t *testing.T) {
	t.Parallel()

	_, err := deinterleave(make([]byte, 10), 2)
	assert.Error(t, err)
}

func TestClipFrames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, (&Clip{}).Frames())
	clip := &Clip{Channels: [][]float32{make([]float32, 7), make([]float32, 7)}}
	assert.Equal(t, 7, clip.Frames())
}
