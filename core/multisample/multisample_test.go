package multisample

import (
	"archive/zip"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildXML(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(filepath.Join("out", "break.wav"), 44100, 88200)
	gen.AddSlice(1.0) // added out of order on purpose
	gen.AddSlice(0.0)
	gen.AddSlice(0.5)

	data, err := gen.buildXML()
	require.NoError(t, err)

	var doc xmlMultisample
	require.NoError(t, xml.Unmarshal(data, &doc))

	assert.Equal(t, "break", doc.Name)
	require.Len(t, doc.Samples, 3)

	// Slices are sorted and mapped chromatically from note 36.
	assert.Equal(t, "0.000", doc.Samples[0].SampleStart)
	assert.Equal(t, "22050.000", doc.Samples[1].SampleStart)
	assert.Equal(t, "44100.000", doc.Samples[2].SampleStart)
	for i, s := range doc.Samples {
		assert.Equal(t, "break.wav", s.File)
		assert.Equal(t, "88200.000", s.SampleStop)
		assert.Equal(t, "always-play", s.ZoneLogic)
		assert.Equal(t, doc.Samples[i].Key.Low, s.Key.High, "one note per zone")
		assert.Equal(t, "60", s.Key.Root)
		assert.Equal(t, "off", s.Loop.Mode)
		assert.Equal(t, s.SampleStart, s.Loop.Start)
	}
	assert.Equal(t, "36", doc.Samples[0].Key.Low)
	assert.Equal(t, "37", doc.Samples[1].Key.Low)
	assert.Equal(t, "38", doc.Samples[2].Key.Low)
}

func TestBuildXMLNoteClamp(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("long.wav", 44100, 10000000)
	for i := 0; i < 100; i++ {
		gen.AddSlice(float64(i))
	}

	data, err := gen.buildXML()
	require.NoError(t, err)

	var doc xmlMultisample
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Samples, 100)

	// 36 + 91 would pass 127; everything after sticks there.
	assert.Equal(t, "127", doc.Samples[91].Key.Low)
	assert.Equal(t, "127", doc.Samples[99].Key.Low)
}

func TestSaveBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wavPath := filepath.Join(dir, "break.wav")
	require.NoError(t, os.WriteFile(wavPath, []byte("RIFF fake audio"), 0644))

	gen := NewGenerator(wavPath, 44100, 88200)
	gen.AddSlice(0.0)
	gen.AddSlice(0.5)

	out, err := gen.Save()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "break.multisample"), out)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["multisample.xml"])
	assert.True(t, names["break.wav"])
}

func TestSaveMissingWav(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(filepath.Join(t.TempDir(), "absent.wav"), 44100, 88200)
	gen.AddSlice(0)
	_, err := gen.Save()
	assert.Error(t, err)
}
