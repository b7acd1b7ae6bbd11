package storage

import (
	"encoding/json"
	"io"
	"math"
)

// ExportData is a capture with its samples, as written by ExportJSON.
// Non-finite sample coordinates are exported as null.
type ExportData struct {
	CaptureMetadata
	Samples []exportSample `json:"samples"`
}

type exportSample struct {
	Frame int      `json:"frame"`
	Time  float64  `json:"time"`
	Count int32    `json:"count"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	FPS   float64  `json:"fps"`
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ExportJSON writes capture id and all of its samples to w.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(id)
	if err != nil {
		return err
	}

	data := ExportData{CaptureMetadata: *meta, Samples: make([]exportSample, len(samples))}
	for i, smp := range samples {
		data.Samples[i] = exportSample{
			Frame: smp.Frame,
			Time:  smp.Time,
			Count: smp.Count,
			X:     finitePtr(smp.X),
			Y:     finitePtr(smp.Y),
			FPS:   smp.FPS,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
