package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rx2kit/core/convert"
	"rx2kit/core/rex"
	"rx2kit/core/sliceexport"
)

// inputFile is one file argument with an optional BPM suggestion
// ("loop.rx2:174" means prefer the tempo cluster nearest 174).
type inputFile struct {
	path       string
	suggestion float64
}

// parseFileArg splits an optional ":bpm" suffix off a file argument.
func parseFileArg(arg string) inputFile {
	if i := strings.LastIndex(arg, ":"); i > 0 {
		if bpm, err := strconv.ParseFloat(arg[i+1:], 64); err == nil {
			return inputFile{path: arg[:i], suggestion: bpm}
		}
	}
	return inputFile{path: arg}
}

// collectInputs merges positional args with the lines of an optional list
// file.
func collectInputs(args []string, listPath string) ([]inputFile, error) {
	inputs := make([]inputFile, 0, len(args))
	for _, a := range args {
		inputs = append(inputs, parseFileArg(a))
	}

	if listPath != "" {
		f, err := os.Open(listPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open list file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				inputs = append(inputs, parseFileArg(line))
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read list file: %w", err)
		}
	}
	return inputs, nil
}

// resolveSliced makes sure an input has a WAV and a .slices list,
// converting .rx2 inputs first, and returns the WAV path plus the slice
// starts in ascending order.
func resolveSliced(in inputFile) (string, []float64, error) {
	wavPath := in.path
	if strings.EqualFold(filepath.Ext(in.path), ".rx2") {
		dec := rex.NewHelperDecoder(cfg.RexHelperPath)
		opts := convert.Options{Format: convert.FormatSlices, WavBitDepth: cfg.WavBitDepth}
		res, err := convert.Convert(dec, in.path, opts)
		if err != nil {
			return "", nil, fmt.Errorf("failed to convert %s: %w", in.path, err)
		}
		wavPath = res.Paths.WavPath
	}

	base := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	slicesPath := filepath.Join(filepath.Dir(wavPath), convert.SliceDirName, base+".slices")
	doc, err := sliceexport.Read(slicesPath)
	if err != nil {
		return "", nil, err
	}
	return wavPath, doc.Starts(), nil
}
