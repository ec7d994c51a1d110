// Package multisample builds a Bitwig .multisample bundle from a sliced
// WAV: one chromatically-mapped zone per slice, all playing to the end of
// the file.
package multisample

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	firstNote = 36 // C2, the usual drum-rack origin
	lastNote  = 127
	rootNote  = 60
)

// Generator accumulates slice starts for one WAV file.
type Generator struct {
	wavPath     string
	sampleRate  int
	totalFrames int
	starts      []float64 // seconds
}

// NewGenerator creates a Generator for the given audio file.
func NewGenerator(wavPath string, sampleRate, totalFrames int) *Generator {
	return &Generator{
		wavPath:     wavPath,
		sampleRate:  sampleRate,
		totalFrames: totalFrames,
	}
}

// AddSlice registers one slice start, in seconds.
func (g *Generator) AddSlice(startSec float64) {
	g.starts = append(g.starts, startSec)
}

type xmlMultisample struct {
	XMLName xml.Name    `xml:"multisample"`
	Name    string      `xml:"name,attr"`
	Samples []xmlSample `xml:"sample"`
}

type xmlSample struct {
	File        string  `xml:"file,attr"`
	SampleStart string  `xml:"sample-start,attr"`
	SampleStop  string  `xml:"sample-stop,attr"`
	ZoneLogic   string  `xml:"zone-logic,attr"`
	Key         xmlKey  `xml:"key"`
	Loop        xmlLoop `xml:"loop"`
}

type xmlKey struct {
	High  string `xml:"high,attr"`
	Low   string `xml:"low,attr"`
	Root  string `xml:"root,attr"`
	Track string `xml:"track,attr"`
}

type xmlLoop struct {
	Mode  string `xml:"mode,attr"`
	Start string `xml:"start,attr"`
	Stop  string `xml:"stop,attr"`
}

func (g *Generator) buildXML() ([]byte, error) {
	base := filepath.Base(g.wavPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	stop := fmt.Sprintf("%.3f", float64(g.totalFrames))

	doc := xmlMultisample{Name: name}
	starts := append([]float64(nil), g.starts...)
	sort.Float64s(starts)

	note := firstNote
	for _, startSec := range starts {
		startFrame := fmt.Sprintf("%.3f", startSec*float64(g.sampleRate))
		doc.Samples = append(doc.Samples, xmlSample{
			File:        base,
			SampleStart: startFrame,
			SampleStop:  stop,
			ZoneLogic:   "always-play",
			Key: xmlKey{
				High:  strconv.Itoa(note),
				Low:   strconv.Itoa(note),
				Root:  strconv.Itoa(rootNote),
				Track: "0.0000",
			},
			Loop: xmlLoop{Mode: "off", Start: startFrame, Stop: stop},
		})
		if note < lastNote {
			note++
		}
	}

	body, err := xml.MarshalIndent(doc, "", "   ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal multisample.xml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Save writes <wav base>.multisample beside the WAV and returns its path.
func (g *Generator) Save() (string, error) {
	doc, err := g.buildXML()
	if err != nil {
		return "", err
	}

	outputPath := strings.TrimSuffix(g.wavPath, filepath.Ext(g.wavPath)) + ".multisample"
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	zw := zip.NewWriter(f)

	w, err := zw.Create("multisample.xml")
	if err == nil {
		_, err = w.Write(doc)
	}
	if err != nil {
		zw.Close()
		f.Close()
		return "", fmt.Errorf("failed to write multisample.xml: %w", err)
	}

	src, err := os.Open(g.wavPath)
	if err != nil {
		zw.Close()
		f.Close()
		return "", fmt.Errorf("failed to open %s: %w", g.wavPath, err)
	}
	w, err = zw.Create(filepath.Base(g.wavPath))
	if err == nil {
		_, err = io.Copy(w, src)
	}
	src.Close()
	if err != nil {
		zw.Close()
		f.Close()
		return "", fmt.Errorf("failed to bundle %s: %w", g.wavPath, err)
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to finalize %s: %w", outputPath, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return outputPath, nil
}
