// Package convert runs the REX2 export pipeline: decode and render through
// the external SDK bridge, write the WAV, derive slice boundaries and write
// the metadata sidecar.
package convert

import (
	"bytes"
	"fmt"

	"rx2kit/core/fsutil"
	"rx2kit/core/octatrack"
	"rx2kit/core/rex"
	"rx2kit/core/sliceexport"
	"rx2kit/core/slicing"
	"rx2kit/core/wavio"
	"rx2kit/logger"
)

// Options tune one conversion run.
type Options struct {
	Format      Format
	WavBitDepth int // 0 means 16
}

// Result summarizes one completed conversion for the caller to report.
type Result struct {
	Paths         Paths
	Frames        int
	BPM           float64
	Boundaries    []slicing.Boundary
	EncodedSlices int // slices actually written to the sidecar
}

// Convert renders inputPath through dec and writes the WAV plus the
// requested metadata sidecar.
func Convert(dec rex.Decoder, inputPath string, opts Options) (*Result, error) {
	clip, err := dec.Decode(inputPath)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	frames := clip.Frames()
	if frames == 0 {
		return nil, fmt.Errorf("decoder returned an empty render for %s", inputPath)
	}

	paths := DerivePaths(inputPath, opts.Format)
	bitDepth := opts.WavBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	if err := wavio.WriteFile(paths.WavPath, clip.Info.SampleRate, bitDepth, clip.Channels); err != nil {
		return nil, fmt.Errorf("WAV export failed: %w", err)
	}
	logger.Info("exported audio",
		logger.String("path", paths.WavPath),
		logger.Int("frames", frames),
		logger.Int("sampleRate", clip.Info.SampleRate),
		logger.Int("channels", clip.Info.Channels))

	markers := make([]slicing.Marker, len(clip.Markers))
	for i, m := range clip.Markers {
		markers[i] = slicing.Marker{PPQPos: m.PPQPos}
	}
	bounds := slicing.Boundaries(frames, clip.Info.PPQLength, markers)

	res := &Result{
		Paths:      paths,
		Frames:     frames,
		BPM:        clip.Info.BPM(),
		Boundaries: bounds,
	}

	switch opts.Format {
	case FormatOctatrack:
		slices := make([]octatrack.Slice, len(bounds))
		for i, b := range bounds {
			slices[i] = octatrack.Slice{Start: uint32(b.Start), End: uint32(b.End)}
		}
		meta := octatrack.NewMetadata(clip.Info.BPM(), clip.Info.SampleRate, frames, slices)
		if meta.SliceCount() < len(bounds) {
			logger.Warn("slice table full, extra slices dropped",
				logger.Int("kept", meta.SliceCount()),
				logger.Int("total", len(bounds)))
		}
		if err := fsutil.WriteFile(paths.MetaPath, meta.Encode()); err != nil {
			return nil, fmt.Errorf("OT export failed: %w", err)
		}
		res.EncodedSlices = meta.SliceCount()

	default:
		starts := make([]int, len(bounds))
		for i, b := range bounds {
			starts[i] = b.Start
		}
		var buf bytes.Buffer
		if err := sliceexport.Write(&buf, paths.BaseName+".wav", clip.Info.SampleRate, starts); err != nil {
			return nil, fmt.Errorf("slice list generation failed: %w", err)
		}
		if err := fsutil.WriteFile(paths.MetaPath, buf.Bytes()); err != nil {
			return nil, fmt.Errorf("slice list export failed: %w", err)
		}
		res.EncodedSlices = len(starts)
	}

	logger.Info("exported slice metadata",
		logger.String("path", paths.MetaPath),
		logger.Int("slices", res.EncodedSlices))
	return res, nil
}
