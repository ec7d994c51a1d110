package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// sixteenths builds n slice starts on a straight 16th grid at the given
// BPM, with odd steps shifted by swing (1.0 = a full 32nd).
func sixteenths(n int, bpm, swing float64) []float64 {
	d := 15.0 / bpm
	starts := make([]float64, n)
	for i := range starts {
		shift := 0.0
		if i%2 != 0 {
			shift = swing * d / 2.0
		}
		starts[i] = float64(i)*d + shift
	}
	return starts
}

func TestEstimateBPMPerfectGrid(t *testing.T) {
	t.Parallel()

	bpm := EstimateBPM(sixteenths(16, 120, 0), 0)
	assert.InDelta(t, 120.0, bpm, 0.2)
}

func TestEstimateBPMSuggestionPicksCluster(t *testing.T) {
	t.Parallel()

	// Eighth notes at 120 BPM fit the 60 BPM 16th grid just as well; the
	// suggestion disambiguates.
	d := 0.25
	starts := make([]float64, 12)
	for i := range starts {
		starts[i] = float64(i) * d
	}

	assert.InDelta(t, 120.0, EstimateBPM(starts, 118), 0.2)
	assert.InDelta(t, 60.0, EstimateBPM(starts, 70), 0.2)
}

func TestEstimateBPMEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultBPM, EstimateBPM(nil, 0))
	assert.Equal(t, 93.5, EstimateBPM(nil, 93.5))
}

func TestEstimateSwingStraightGrid(t *testing.T) {
	t.Parallel()

	swing := EstimateSwing(sixteenths(16, 120, 0), 120)
	assert.InDelta(t, 0.0, swing, 0.01)
}

func TestEstimateSwingShuffledGrid(t *testing.T) {
	t.Parallel()

	swing := EstimateSwing(sixteenths(16, 120, 0.6), 120)
	assert.InDelta(t, 0.6, swing, 0.01)
}

func TestEstimateSwingClipped(t *testing.T) {
	t.Parallel()

	// Odd steps pushed past a full 32nd still report at most 1.0.
	swing := EstimateSwing(sixteenths(16, 120, 1.4), 120)
	assert.LessOrEqual(t, swing, 1.0)

	assert.Equal(t, 0.0, EstimateSwing(nil, 120))
}

func TestEstimateSwingOnsetOffsetAnchored(t *testing.T) {
	t.Parallel()

	// The grid anchors at the first slice, so a global offset changes
	// nothing.
	starts := sixteenths(16, 120, 0.5)
	for i := range starts {
		starts[i] += 1.37
	}
	assert.InDelta(t, 0.5, EstimateSwing(starts, 120), 0.01)
}
