// Package grid estimates tempo and swing from a list of slice start times
// by scoring candidate BPMs against a 16th-note grid.
package grid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultBPM is returned when there is nothing to analyze.
	DefaultBPM = 100.0

	minBPM  = 60.0
	maxBPM  = 170.0
	bpmStep = 0.1

	// kernelSigma is the Gaussian tolerance (seconds) for a slice to count
	// as on-grid.
	kernelSigma = 0.02
	// corrQuantile keeps only the best-correlated BPM candidates before
	// clustering.
	corrQuantile = 0.98
	// clusterEps is the widest BPM gap allowed inside one cluster.
	clusterEps = 4.0
)

type peak struct {
	bpm  float64
	corr float64
}

// EstimateBPM scans 60-170 BPM in 0.1 steps and scores each candidate by
// how tightly the slice starts hug its 16th-note grid. The top candidates
// are clustered; with a suggestion (> 0) the cluster peak nearest to it
// wins, otherwise the best-correlated one. The result is rounded to two
// decimals.
func EstimateBPM(starts []float64, suggestion float64) float64 {
	if len(starts) == 0 {
		if suggestion > 0 {
			return suggestion
		}
		return DefaultBPM
	}

	steps := int(math.Round((maxBPM-minBPM)/bpmStep)) + 1
	bpms := make([]float64, steps)
	corrs := make([]float64, steps)
	for i := 0; i < steps; i++ {
		bpm := minBPM + bpmStep*float64(i)
		d := 15.0 / bpm // 16th-note length in seconds
		var sum float64
		for _, s := range starts {
			off := math.Mod(s, d)
			if off > d/2 {
				off -= d
			}
			sum += math.Exp(-(off * off) / (2 * kernelSigma * kernelSigma))
		}
		bpms[i] = bpm
		corrs[i] = sum / float64(len(starts))
	}

	sorted := append([]float64(nil), corrs...)
	sort.Float64s(sorted)
	threshold := stat.Quantile(corrQuantile, stat.Empirical, sorted, nil)

	var hiBPMs, hiCorrs []float64
	for i := range corrs {
		if corrs[i] >= threshold {
			hiBPMs = append(hiBPMs, bpms[i])
			hiCorrs = append(hiCorrs, corrs[i])
		}
	}
	peaks := clusterPeaks(hiBPMs, hiCorrs)
	if len(peaks) == 0 {
		return round2(bpms[argmax(corrs)])
	}

	best := peaks[0]
	if suggestion > 0 {
		for _, p := range peaks[1:] {
			if math.Abs(p.bpm-suggestion) < math.Abs(best.bpm-suggestion) {
				best = p
			}
		}
	} else {
		for _, p := range peaks[1:] {
			if p.corr > best.corr {
				best = p
			}
		}
	}
	return round2(best.bpm)
}

// clusterPeaks splits the ascending BPM list wherever the gap to the
// previous candidate exceeds clusterEps and keeps the best-correlated
// point of each run. Equivalent to 1-D DBSCAN with a minimum cluster size
// of one.
func clusterPeaks(bpms, corrs []float64) []peak {
	var peaks []peak
	for i := range bpms {
		if i == 0 || bpms[i]-bpms[i-1] > clusterEps {
			peaks = append(peaks, peak{bpm: bpms[i], corr: corrs[i]})
			continue
		}
		last := &peaks[len(peaks)-1]
		if corrs[i] > last.corr {
			last.bpm = bpms[i]
			last.corr = corrs[i]
		}
	}
	return peaks
}

// EstimateSwing fits the deviation of each slice from a straight 16th grid
// anchored at the first slice. A swing of 1.0 shifts every odd grid step by
// a 32nd note. The regression runs through the origin; the result is
// clipped to [0, 1].
func EstimateSwing(starts []float64, bpm float64) float64 {
	if len(starts) == 0 {
		return 0
	}

	d := 15.0 / bpm
	anchor := starts[0]
	xs := make([]float64, len(starts))
	ys := make([]float64, len(starts))
	for i, s := range starts {
		n := math.Round((s - anchor) / d)
		idx := int(n)
		ys[i] = s - (anchor + n*d)
		if idx%2 != 0 {
			// odd grid step carries the swing shift
			xs[i] = d / 2.0
		}
	}

	_, beta := stat.LinearRegression(xs, ys, nil, true)
	if math.IsNaN(beta) {
		return 0
	}
	return math.Min(1.0, math.Max(0.0, beta))
}

func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
