package rex

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"rx2kit/logger"
)

// HelperDecoder implements Decoder by shelling out to an external renderer
// binary that links the REX SDK. The helper prints a JSON header on stdout
// and writes interleaved float32 little-endian PCM to the path given with
// --pcm.
type HelperDecoder struct {
	helperPath string
}

// NewHelperDecoder creates a HelperDecoder using the given binary.
func NewHelperDecoder(helperPath string) *HelperDecoder {
	return &HelperDecoder{helperPath: helperPath}
}

// helperHeader mirrors the JSON the renderer prints. Field names follow
// the SDK's REXInfo struct.
type helperHeader struct {
	SampleRate int     `json:"sampleRate"`
	Channels   int     `json:"channels"`
	Tempo      int     `json:"tempo"` // milli-BPM
	PPQLength  float64 `json:"ppqLength"`
	Slices     []struct {
		PPQPos float64 `json:"ppqPos"`
	} `json:"slices"`
}

// Decode renders inputPath through the helper binary.
func (d *HelperDecoder) Decode(inputPath string) (*Clip, error) {
	pcmPath := filepath.Join(os.TempDir(), "rx2kit-"+uuid.NewString()+".f32")
	defer os.Remove(pcmPath)

	cmd := exec.Command(d.helperPath, "--pcm", pcmPath, inputPath)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	logger.Debug("running REX helper",
		logger.String("helper", d.helperPath),
		logger.String("input", inputPath))

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("REX helper failed for %s: %w\nhelper stderr: %s", inputPath, err, stderr.String())
	}

	var header helperHeader
	if err := json.Unmarshal(out.Bytes(), &header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal REX helper output: %w", err)
	}
	if header.SampleRate <= 0 || header.Tempo <= 0 || header.PPQLength <= 0 {
		return nil, fmt.Errorf("REX helper returned invalid stream info for %s", inputPath)
	}
	if header.Channels < 1 || header.Channels > 2 {
		return nil, fmt.Errorf("unsupported channel count %d in %s", header.Channels, inputPath)
	}

	pcm, err := os.ReadFile(pcmPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered PCM: %w", err)
	}

	clip := &Clip{
		Info: Info{
			SampleRate:    header.SampleRate,
			Channels:      header.Channels,
			TempoMilliBPM: header.Tempo,
			PPQLength:     header.PPQLength,
			SliceCount:    len(header.Slices),
		},
	}
	for _, s := range header.Slices {
		clip.Markers = append(clip.Markers, Marker{PPQPos: s.PPQPos})
	}
	clip.Channels, err = deinterleave(pcm, header.Channels)
	if err != nil {
		return nil, fmt.Errorf("bad PCM payload for %s: %w", inputPath, err)
	}

	if want := clip.Info.LengthFrames(); clip.Frames() != want {
		logger.Warn("rendered frame count differs from musical length",
			logger.String("input", inputPath),
			logger.Int("rendered", clip.Frames()),
			logger.Int("expected", want))
	}

	return clip, nil
}

// deinterleave splits interleaved float32 LE bytes into per-channel buffers.
func deinterleave(pcm []byte, channels int) ([][]float32, error) {
	const sampleSize = 4
	if len(pcm)%(sampleSize*channels) != 0 {
		return nil, fmt.Errorf("PCM size %d is not a whole number of %d-channel frames", len(pcm), channels)
	}
	frames := len(pcm) / sampleSize / channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			bits := binary.LittleEndian.Uint32(pcm[(i*channels+c)*sampleSize:])
			out[c][i] = math.Float32frombits(bits)
		}
	}
	return out, nil
}
