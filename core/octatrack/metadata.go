// Package octatrack encodes the Elektron Octatrack .ot sample sidecar, a
// fixed 832-byte big-endian record carrying tempo, trim and slice data.
package octatrack

import (
	"encoding/binary"
	"math"
)

const (
	// FileSize is the exact size of a .ot file.
	FileSize = 832
	// MaxSlices is the slice capacity of the format.
	MaxSlices = 64
)

// "FORM....DPS1SMPA" magic, followed by the constant flag/reserved run the
// device writes at offsets 16-22.
var (
	formHeader = []byte{
		0x46, 0x4F, 0x52, 0x4D, 0x00, 0x00, 0x00, 0x00,
		0x44, 0x50, 0x53, 0x31, 0x53, 0x4D, 0x50, 0x41,
	}
	headerFlags = []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00}
)

// Slice is one entry of the slice table, inclusive frame positions.
type Slice struct {
	Start uint32
	End   uint32
}

// Metadata is the complete content of a .ot sidecar. It is built once from
// the render parameters and the full slice list; nothing is mutated after
// construction.
type Metadata struct {
	TempoValue uint32 // BPM in 1/24 BPM units
	TrimLen    uint32 // bar-quantized loop length in 1/25 bar units
	TrimEnd    uint32 // total rendered frames
	slices     []Slice
}

// NewMetadata derives the device fields from the render parameters and
// keeps at most MaxSlices entries; anything beyond the cap is dropped
// silently, as the device format demands.
func NewMetadata(bpm float64, sampleRate, totalFrames int, slices []Slice) *Metadata {
	// 240 = 60 seconds x 4 beats per bar.
	bars := math.Round(bpm * float64(totalFrames) / (float64(sampleRate) * 240.0))
	if len(slices) > MaxSlices {
		slices = slices[:MaxSlices]
	}
	return &Metadata{
		TempoValue: uint32(math.Round(bpm * 24.0)),
		TrimLen:    uint32(bars * 25.0),
		TrimEnd:    uint32(totalFrames),
		slices:     append([]Slice(nil), slices...),
	}
}

// SliceCount returns the number of slices that will be encoded.
func (m *Metadata) SliceCount() int {
	return len(m.slices)
}

// Encode serializes the metadata into its fixed 832-byte layout and stamps
// the checksum.
func (m *Metadata) Encode() []byte {
	buf := make([]byte, FileSize)
	copy(buf[0:], formHeader)
	copy(buf[16:], headerFlags)

	binary.BigEndian.PutUint32(buf[23:], m.TempoValue)
	binary.BigEndian.PutUint32(buf[27:], m.TrimLen)
	binary.BigEndian.PutUint32(buf[31:], m.TrimLen) // loop length mirrors trim length
	binary.BigEndian.PutUint16(buf[43:], 48)
	buf[45] = 0xFF
	binary.BigEndian.PutUint32(buf[50:], m.TrimEnd)

	for i, s := range m.slices {
		off := 58 + i*12
		binary.BigEndian.PutUint32(buf[off:], s.Start)
		binary.BigEndian.PutUint32(buf[off+4:], s.End)
		// Loop marker: 0xFFFFFFFF means no per-slice loop point.
		binary.BigEndian.PutUint32(buf[off+8:], 0xFFFFFFFF)
	}

	binary.BigEndian.PutUint32(buf[826:], uint32(len(m.slices)))
	binary.BigEndian.PutUint16(buf[830:], Checksum(buf))
	return buf
}

// Checksum sums bytes 16 through 829 as a wrapping 16-bit value. The
// device uses it to spot accidental corruption only.
func Checksum(buf []byte) uint16 {
	var sum uint16
	for _, b := range buf[16:830] {
		sum += uint16(b)
	}
	return sum
}
