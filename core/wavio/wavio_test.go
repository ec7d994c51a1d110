package wavio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileRoundTrip(t *testing.T) {
	t.Parallel()

	left := []float32{0, 0.25, -0.25, 1.0, -1.0, 0.5}
	right := []float32{0.5, 0, 0, 0, 0, 0}
	path := filepath.Join(t.TempDir(), "stereo.wav")

	require.NoError(t, WriteFile(path, 44100, 16, [][]float32{left, right}))

	info, err := ReadInfo(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 16, info.BitDepth)
	assert.Equal(t, 6, info.Frames)
	assert.InDelta(t, 6.0/44100.0, info.Duration, 1e-9)
}

func TestWriteFileQuantization(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mono.wav")
	require.NoError(t, WriteFile(path, 48000, 16, [][]float32{{0, 0.25, 1.0, -1.0, 1.5, -2.0}}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, 6)

	assert.Equal(t, 0, buf.Data[0])
	assert.Equal(t, 8192, buf.Data[1])
	assert.Equal(t, 32767, buf.Data[2])
	assert.Equal(t, -32767, buf.Data[3])
	assert.Equal(t, 32767, buf.Data[4], "overshoot clips to full scale")
	assert.Equal(t, -32768, buf.Data[5], "undershoot clips to full scale")
}

func TestWriteFileRejectsBadInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.Error(t, WriteFile(filepath.Join(dir, "none.wav"), 44100, 16, nil))
	assert.Error(t, WriteFile(filepath.Join(dir, "ragged.wav"), 44100, 16, [][]float32{{0, 0}, {0}}))
}

func TestReadInfoRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "noise.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a riff file at all"), 0644))

	_, err := ReadInfo(path)
	assert.Error(t, err)
}
