package dawproject

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const metadataXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><MetaData/>`

// Save writes the .dawproject zip: metadata.xml, project.xml and every
// track's audio under audio/. A bpmOverride of 0 uses the fastest track.
func (g *Generator) Save(outputPath string, bpmOverride float64) error {
	if len(g.tracks) == 0 {
		return errors.New("dawproject: no tracks to save")
	}

	projectXML, err := g.buildProjectXML(g.GlobalBPM(bpmOverride))
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	zw := zip.NewWriter(f)

	writeEntry := func(name string, data []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		return nil
	}

	if err := writeEntry("metadata.xml", []byte(metadataXML)); err != nil {
		return closeAndFail(zw, f, err)
	}
	if err := writeEntry("project.xml", projectXML); err != nil {
		return closeAndFail(zw, f, err)
	}

	for _, t := range g.tracks {
		src, err := os.Open(t.WavPath)
		if err != nil {
			return closeAndFail(zw, f, fmt.Errorf("failed to open %s: %w", t.WavPath, err))
		}
		w, err := zw.Create("audio/" + filepath.Base(t.WavPath))
		if err == nil {
			_, err = io.Copy(w, src)
		}
		src.Close()
		if err != nil {
			return closeAndFail(zw, f, fmt.Errorf("failed to bundle %s: %w", t.WavPath, err))
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize %s: %w", outputPath, err)
	}
	return f.Close()
}

func closeAndFail(zw *zip.Writer, f *os.File, err error) error {
	zw.Close()
	f.Close()
	return err
}
