// Package dawproject assembles a DAWProject bundle (project.xml plus audio
// inside a zip) from sliced WAV files, warping each clip onto the tempo
// grid estimated from its slices.
package dawproject

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"rx2kit/core/grid"
	"rx2kit/logger"
)

// DefaultSnapThreshold is how far (seconds) a slice may sit from its
// theoretical grid position and still produce a warp marker.
const DefaultSnapThreshold = 0.05

// WavInfo carries the audio properties the project needs per file.
type WavInfo struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
}

// WarpPoint pins a beat position to a time in the audio file.
type WarpPoint struct {
	Beat    float64
	Seconds float64
}

// Track is one analyzed audio file ready to be written into the project.
type Track struct {
	Name              string
	WavPath           string
	BPM               float64
	Swing             float64
	Warps             []WarpPoint
	FirstSliceOffset  float64
	ClipDurationBeats float64
	FileDuration      float64
	SampleRate        int
	Channels          int

	trackID   string
	channelID string
}

// Generator accumulates tracks and writes the final bundle.
type Generator struct {
	include16ths  bool
	snapThreshold float64
	idCounter     int
	tracks        []*Track
}

// NewGenerator creates a Generator. A snapThreshold of 0 selects
// DefaultSnapThreshold; include16ths keeps warp markers on odd 16th steps.
func NewGenerator(include16ths bool, snapThreshold float64) *Generator {
	if snapThreshold <= 0 {
		snapThreshold = DefaultSnapThreshold
	}
	return &Generator{
		include16ths:  include16ths,
		snapThreshold: snapThreshold,
		idCounter:     100,
	}
}

func (g *Generator) nextID() string {
	g.idCounter++
	return fmt.Sprintf("id%d", g.idCounter)
}

// Tracks returns the tracks added so far.
func (g *Generator) Tracks() []*Track {
	return g.tracks
}

// AddTrack analyzes one WAV plus its slice starts (seconds, ascending) and
// registers it. A BPM suggestion of 0 means none.
func (g *Generator) AddTrack(wavPath string, starts []float64, info WavInfo, suggestion float64) *Track {
	bpm := grid.EstimateBPM(starts, suggestion)
	swing := grid.EstimateSwing(starts, bpm)

	d := 15.0 / bpm
	firstOffset := 0.0
	if len(starts) > 0 {
		firstOffset = starts[0]
	}
	// The grid is anchored at the first slice, not at file start.
	endRawIndex := math.Round((info.Duration - firstOffset) / d)

	var warps []WarpPoint
	var gridError float64
	for _, s := range starts {
		raw := math.Round((s - firstOffset) / d)
		idx := int(raw)
		swingOffset := 0.0
		if idx%2 != 0 {
			swingOffset = swing * 0.5
		}
		theoretical := firstOffset + (raw+swingOffset)*d
		timeError := math.Abs(s - theoretical)
		gridError += timeError / d

		if timeError <= g.snapThreshold && (idx%2 == 0 || g.include16ths) {
			warps = append(warps, WarpPoint{Beat: (raw + swingOffset) / 4.0, Seconds: s})
		}
	}

	clipBeats := math.Ceil(endRawIndex) / 4.0
	if clipBeats < 1.0 {
		clipBeats = 1.0
	}

	logger.Info("analyzed track",
		logger.String("file", filepath.Base(wavPath)),
		logger.Float64("bpm", bpm),
		logger.Float64("swing", swing),
		logger.Float64("gridError16ths", gridError))

	t := &Track{
		Name:              filepath.Base(wavPath),
		WavPath:           wavPath,
		BPM:               bpm,
		Swing:             swing,
		Warps:             warps,
		FirstSliceOffset:  firstOffset,
		ClipDurationBeats: clipBeats,
		FileDuration:      info.Duration,
		SampleRate:        info.SampleRate,
		Channels:          info.Channels,
		trackID:           g.nextID(),
		channelID:         g.nextID(),
	}
	g.tracks = append(g.tracks, t)
	return t
}

// GlobalBPM is the project tempo: the override if given, else the fastest
// track.
func (g *Generator) GlobalBPM(override float64) float64 {
	if override > 0 {
		return override
	}
	bpm := 0.0
	for _, t := range g.tracks {
		if t.BPM > bpm {
			bpm = t.BPM
		}
	}
	if bpm == 0 {
		bpm = grid.DefaultBPM
	}
	return bpm
}

// fnum renders a float the way the project format expects: shortest exact
// decimal form.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
