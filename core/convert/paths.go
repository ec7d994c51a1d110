package convert

import (
	"path/filepath"
	"strings"
)

// Format selects the slice metadata sidecar written next to the WAV.
type Format int

const (
	// FormatSlices writes a generic .slices XML list under a .slices/
	// subdirectory.
	FormatSlices Format = iota
	// FormatOctatrack writes an Octatrack .ot binary beside the WAV.
	FormatOctatrack
)

// SliceDirName is the subdirectory that holds .slices files.
const SliceDirName = ".slices"

// Paths are the derived output locations for one input file.
type Paths struct {
	BaseName string // input name without directory or extension
	WavPath  string
	MetaPath string
}

// DerivePaths maps an input path to its output locations. The WAV always
// lands beside the input; the metadata location depends on the format.
func DerivePaths(inputPath string, format Format) Paths {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	p := Paths{
		BaseName: base,
		WavPath:  filepath.Join(dir, base+".wav"),
	}
	if format == FormatOctatrack {
		p.MetaPath = filepath.Join(dir, base+".ot")
	} else {
		p.MetaPath = filepath.Join(dir, SliceDirName, base+".slices")
	}
	return p
}
