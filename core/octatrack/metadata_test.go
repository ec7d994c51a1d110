package octatrack

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifyChecksum(t *testing.T, buf []byte) {
	t.Helper()
	var sum uint16
	for _, b := range buf[16:830] {
		sum += uint16(b)
	}
	assert.Equal(t, sum, binary.BigEndian.Uint16(buf[830:]), "stored checksum must match the additive sum")
}

func TestEncodeFixedSize(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 3, 64, 100} {
		slices := make([]Slice, n)
		buf := NewMetadata(174, 44100, 500000, slices).Encode()
		assert.Len(t, buf, FileSize, "%d slices", n)
	}
}

func TestEncodeExampleLoop(t *testing.T) {
	t.Parallel()

	m := NewMetadata(120, 44100, 88200, []Slice{
		{Start: 0, End: 44035},
		{Start: 44036, End: 88135},
		{Start: 88136, End: 88199},
	})
	require.Equal(t, 3, m.SliceCount())

	buf := m.Encode()
	require.Len(t, buf, FileSize)

	assert.Equal(t, []byte("FORM\x00\x00\x00\x00DPS1SMPA"), buf[0:16])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00}, buf[16:23])

	assert.Equal(t, uint32(2880), binary.BigEndian.Uint32(buf[23:]), "tempo in 1/24 BPM")
	assert.Equal(t, uint32(25), binary.BigEndian.Uint32(buf[27:]), "one bar in 1/25 bar units")
	assert.Equal(t, uint32(25), binary.BigEndian.Uint32(buf[31:]), "loop length mirrors trim length")
	assert.Equal(t, uint16(48), binary.BigEndian.Uint16(buf[43:]))
	assert.Equal(t, byte(0xFF), buf[45])
	assert.Equal(t, uint32(88200), binary.BigEndian.Uint32(buf[50:]), "trim end is the full render")

	// Slice table.
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(buf[58:]))
	assert.Equal(t, uint32(44035), binary.BigEndian.Uint32(buf[62:]))
	assert.Equal(t, uint32(0xFFFFFFFF), binary.BigEndian.Uint32(buf[66:]))
	assert.Equal(t, uint32(44036), binary.BigEndian.Uint32(buf[70:]))
	assert.Equal(t, uint32(88136), binary.BigEndian.Uint32(buf[82:]))
	assert.Equal(t, uint32(88199), binary.BigEndian.Uint32(buf[86:]))

	// Unused slots stay zeroed, including their loop marker.
	slot3 := 58 + 3*12
	assert.Equal(t, make([]byte, 12), buf[slot3:slot3+12])

	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(buf[826:]))
	verifyChecksum(t, buf)
}

func TestTempoEncoding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		bpm  float64
		want uint32
	}{
		{60, 1440},
		{120, 2880},
		{120.5, 2892},
		{174, 4176},
		{99.97, 2399}, // round(2399.28)
	}
	for _, tc := range cases {
		m := NewMetadata(tc.bpm, 44100, 88200, nil)
		assert.Equal(t, tc.want, m.TempoValue, "bpm %v", tc.bpm)
	}
}

func TestSliceCapTruncatesSilently(t *testing.T) {
	t.Parallel()

	slices := make([]Slice, 70)
	for i := range slices {
		slices[i] = Slice{Start: uint32(i * 100), End: uint32(i*100 + 99)}
	}
	m := NewMetadata(140, 48000, 700000, slices)
	require.Equal(t, MaxSlices, m.SliceCount())

	buf := m.Encode()
	assert.Equal(t, uint32(MaxSlices), binary.BigEndian.Uint32(buf[826:]))

	// Slot 63 holds the 64th input slice; there is no slot 64.
	last := 58 + 63*12
	assert.Equal(t, uint32(6300), binary.BigEndian.Uint32(buf[last:]))
	assert.Equal(t, uint32(6399), binary.BigEndian.Uint32(buf[last+4:]))
	verifyChecksum(t, buf)
}

func TestConstructorCopiesSlices(t *testing.T) {
	t.Parallel()

	in := []Slice{{Start: 1, End: 2}}
	m := NewMetadata(120, 44100, 88200, in)
	in[0].Start = 999

	buf := m.Encode()
	assert.Equal(t, uint32(1), binary.BigEndian.Uint32(buf[58:]))
}

func TestChecksumWrapsAt16Bits(t *testing.T) {
	t.Parallel()

	buf := make([]byte, FileSize)
	for i := 16; i < 830; i++ {
		buf[i] = 0xFF
	}
	// 814 * 255 = 207570, which only fits mod 65536.
	assert.Equal(t, uint16(207570%65536), Checksum(buf))
}

func TestBarQuantization(t *testing.T) {
	t.Parallel()

	// 1.5 bars at 120 BPM / 44.1kHz rounds up to 2 bars.
	m := NewMetadata(120, 44100, 132300, nil)
	assert.Equal(t, uint32(50), m.TrimLen)
	assert.Equal(t, uint32(132300), m.TrimEnd)
}
