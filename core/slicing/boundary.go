// Package slicing converts musical-time slice markers into sample-accurate
// frame boundaries.
package slicing

import "math"

// LatencyOffset compensates for the fixed delay of the SDK preview
// rendering pipeline, in frames. It is applied to every computed position,
// so adjacent slices stay contiguous.
const LatencyOffset = -64

// Marker is one slice start in musical time, expressed in the same units
// as the total musical length passed to Boundaries.
type Marker struct {
	PPQPos float64
}

// Boundary is a resolved slice as an inclusive frame range.
type Boundary struct {
	Start int
	End   int
}

// Boundaries maps markers to frame ranges over a render of totalFrames
// frames spanning ppqLength musical units. Each slice ends one frame before
// the next one starts; the last slice ends at totalFrames-1. Positions that
// go negative after latency compensation clamp to zero.
//
// Markers are assumed ascending in musical position and are not validated;
// out-of-order input yields inverted ranges (End < Start), matching the
// upstream decoder contract.
func Boundaries(totalFrames int, ppqLength float64, markers []Marker) []Boundary {
	bounds := make([]Boundary, 0, len(markers))
	for i, m := range markers {
		start := frameAt(m.PPQPos, ppqLength, totalFrames)
		if start < 0 {
			start = 0
		}

		end := totalFrames - 1
		if i < len(markers)-1 {
			end = frameAt(markers[i+1].PPQPos, ppqLength, totalFrames) - 1
			if end < 0 {
				end = 0
			}
		}

		bounds = append(bounds, Boundary{Start: start, End: end})
	}
	return bounds
}

func frameAt(ppqPos, ppqLength float64, totalFrames int) int {
	return int(math.Round(ppqPos/ppqLength*float64(totalFrames))) + LatencyOffset
}
