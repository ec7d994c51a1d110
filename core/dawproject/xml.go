package dawproject

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
)

// XML shapes of project.xml. Attribute values stay strings so the output
// matches what DAW importers expect (no forced exponent notation, bools as
// "true").

type xmlProject struct {
	XMLName     xml.Name       `xml:"Project"`
	Version     string         `xml:"version,attr"`
	Application xmlApplication `xml:"Application"`
	Transport   xmlTransport   `xml:"Transport"`
	Structure   xmlStructure   `xml:"Structure"`
	Arrangement xmlArrangement `xml:"Arrangement"`
	Scenes      xmlScenes      `xml:"Scenes"`
}

type xmlApplication struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

type xmlTransport struct {
	Tempo         xmlTempo         `xml:"Tempo"`
	TimeSignature xmlTimeSignature `xml:"TimeSignature"`
}

type xmlTempo struct {
	Value string `xml:"value,attr"`
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
}

type xmlTimeSignature struct {
	Denominator string `xml:"denominator,attr"`
	Numerator   string `xml:"numerator,attr"`
	ID          string `xml:"id,attr"`
}

type xmlStructure struct {
	Tracks []xmlTrack `xml:"Track"`
}

type xmlTrack struct {
	ContentType string     `xml:"contentType,attr"`
	Loaded      string     `xml:"loaded,attr"`
	ID          string     `xml:"id,attr"`
	Name        string     `xml:"name,attr"`
	Channel     xmlChannel `xml:"Channel"`
}

type xmlChannel struct {
	AudioChannels string     `xml:"audioChannels,attr"`
	Destination   string     `xml:"destination,attr,omitempty"`
	Role          string     `xml:"role,attr,omitempty"`
	ID            string     `xml:"id,attr"`
	Volume        *xmlVolume `xml:"Volume,omitempty"`
}

type xmlVolume struct {
	Value string `xml:"value,attr"`
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
}

type xmlArrangement struct {
	ID    string      `xml:"id,attr"`
	Lanes xmlArrLanes `xml:"Lanes"`
}

type xmlArrLanes struct {
	TimeUnit string         `xml:"timeUnit,attr"`
	Lanes    []xmlTrackLane `xml:"Lanes"`
}

type xmlTrackLane struct {
	Track string `xml:"track,attr"`
	ID    string `xml:"id,attr"`
}

type xmlScenes struct {
	Scene xmlScene `xml:"Scene"`
}

type xmlScene struct {
	ID    string        `xml:"id,attr"`
	Name  string        `xml:"name,attr"`
	Lanes xmlSceneLanes `xml:"Lanes"`
}

type xmlSceneLanes struct {
	ID    string        `xml:"id,attr"`
	Slots []xmlClipSlot `xml:"ClipSlot"`
}

type xmlClipSlot struct {
	HasStop string  `xml:"hasStop,attr"`
	Track   string  `xml:"track,attr"`
	ID      string  `xml:"id,attr"`
	Clip    xmlClip `xml:"Clip"`
}

type xmlClip struct {
	Time     string   `xml:"time,attr"`
	Duration string   `xml:"duration,attr"`
	Name     string   `xml:"name,attr"`
	Clips    xmlClips `xml:"Clips"`
}

type xmlClips struct {
	Clip xmlClipEvent `xml:"Clip"`
}

type xmlClipEvent struct {
	Time            string   `xml:"time,attr"`
	Duration        string   `xml:"duration,attr"`
	ContentTimeUnit string   `xml:"contentTimeUnit,attr"`
	Warps           xmlWarps `xml:"Warps"`
}

type xmlWarps struct {
	ContentTimeUnit string    `xml:"contentTimeUnit,attr"`
	TimeUnit        string    `xml:"timeUnit,attr"`
	Audio           xmlAudio  `xml:"Audio"`
	Warps           []xmlWarp `xml:"Warp"`
}

type xmlAudio struct {
	Channels   string  `xml:"channels,attr"`
	SampleRate string  `xml:"sampleRate,attr"`
	Duration   string  `xml:"duration,attr"`
	ID         string  `xml:"id,attr"`
	File       xmlFile `xml:"File"`
}

type xmlFile struct {
	Path string `xml:"path,attr"`
}

type xmlWarp struct {
	Time        string `xml:"time,attr"`
	ContentTime string `xml:"contentTime,attr"`
}

// buildProjectXML renders project.xml for the accumulated tracks.
func (g *Generator) buildProjectXML(globalBPM float64) ([]byte, error) {
	p := xmlProject{
		Version:     "1.0",
		Application: xmlApplication{Name: "rx2kit", Version: "1.0"},
		Transport: xmlTransport{
			Tempo:         xmlTempo{Value: fnum(globalBPM), ID: "id0", Name: "Tempo"},
			TimeSignature: xmlTimeSignature{Denominator: "4", Numerator: "4", ID: "id1"},
		},
		Arrangement: xmlArrangement{
			ID:    "arr_id",
			Lanes: xmlArrLanes{TimeUnit: "beats"},
		},
		Scenes: xmlScenes{
			Scene: xmlScene{
				ID:    "scene0",
				Name:  "Scene 1",
				Lanes: xmlSceneLanes{ID: "lanes_id"},
			},
		},
	}

	for _, t := range g.tracks {
		p.Structure.Tracks = append(p.Structure.Tracks, xmlTrack{
			ContentType: "audio",
			Loaded:      "true",
			ID:          t.trackID,
			Name:        t.Name,
			Channel: xmlChannel{
				AudioChannels: strconv.Itoa(t.Channels),
				Destination:   "master_chan",
				ID:            t.channelID,
				Volume:        &xmlVolume{Value: "1.0", ID: g.nextID(), Name: "Volume"},
			},
		})
	}
	p.Structure.Tracks = append(p.Structure.Tracks, xmlTrack{
		ContentType: "audio notes",
		Loaded:      "true",
		ID:          "master_track",
		Name:        "Master",
		Channel: xmlChannel{
			AudioChannels: "2",
			Role:          "master",
			ID:            "master_chan",
		},
	})

	for _, t := range g.tracks {
		p.Arrangement.Lanes.Lanes = append(p.Arrangement.Lanes.Lanes, xmlTrackLane{
			Track: t.trackID,
			ID:    g.nextID(),
		})
	}

	for _, t := range g.tracks {
		duration := fnum(t.ClipDurationBeats)
		warps := xmlWarps{
			ContentTimeUnit: "seconds",
			TimeUnit:        "beats",
			Audio: xmlAudio{
				Channels:   strconv.Itoa(t.Channels),
				SampleRate: strconv.Itoa(t.SampleRate),
				Duration:   fnum(t.FileDuration),
				ID:         g.nextID(),
				File:       xmlFile{Path: "audio/" + filepath.Base(t.WavPath)},
			},
		}
		for _, w := range t.Warps {
			warps.Warps = append(warps.Warps, xmlWarp{
				Time:        fnum(w.Beat),
				ContentTime: fnum(w.Seconds),
			})
		}
		// Final anchor: end of clip maps to end of file.
		warps.Warps = append(warps.Warps, xmlWarp{
			Time:        duration,
			ContentTime: fnum(t.FileDuration),
		})

		p.Scenes.Scene.Lanes.Slots = append(p.Scenes.Scene.Lanes.Slots, xmlClipSlot{
			HasStop: "true",
			Track:   t.trackID,
			ID:      g.nextID(),
			Clip: xmlClip{
				Time:     "0.0",
				Duration: duration,
				Name:     t.Name,
				Clips: xmlClips{
					Clip: xmlClipEvent{
						Time:            fnum(-t.FirstSliceOffset),
						Duration:        duration,
						ContentTimeUnit: "beats",
						Warps:           warps,
					},
				},
			},
		})
	}

	body, err := xml.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project.xml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
