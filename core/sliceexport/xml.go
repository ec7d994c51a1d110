// Package sliceexport reads and writes the generic .slices XML sidecar: a
// start-marker-only slice list referencing its companion WAV by name.
package sliceexport

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
)

// Write emits the .slices document for the given boundary starts. Output is
// kept byte-compatible with the original exporter, so the layout (prolog,
// seven-space indent, fixed six decimals) is produced directly rather than
// through an XML marshaller. Slice starts are frame positions converted to
// seconds; there is no slice-count cap in this format.
func Write(w io.Writer, wavName string, sampleRate int, starts []int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"yes\"?>\n")
	fmt.Fprintf(bw, "<audio filename=\"%s\">\n", escapeAttr(wavName))
	for _, s := range starts {
		fmt.Fprintf(bw, "       <slice start=\"%.6f\" />\n", float64(s)/float64(sampleRate))
	}
	fmt.Fprintf(bw, "</audio>\n")
	return bw.Flush()
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Document is a parsed .slices file.
type Document struct {
	XMLName  xml.Name   `xml:"audio"`
	Filename string     `xml:"filename,attr"`
	Slices   []SliceRef `xml:"slice"`
}

// SliceRef is one slice marker, start in seconds.
type SliceRef struct {
	Start float64 `xml:"start,attr"`
}

// Starts returns the slice start times in ascending order.
func (d *Document) Starts() []float64 {
	starts := make([]float64, 0, len(d.Slices))
	for _, s := range d.Slices {
		starts = append(starts, s.Start)
	}
	sort.Float64s(starts)
	return starts
}

// Read parses a .slices file from disk.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read slice list: %w", err)
	}
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse slice list %s: %w", path, err)
	}
	return &doc, nil
}
