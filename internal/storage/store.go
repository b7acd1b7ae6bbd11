package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir is the directory holding the files of capture id.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// Sample is one frame of a headless render. X and Y are the coordinates of
// point 0 and may be NaN.
type Sample struct {
	Frame int
	Time  float64
	Count int32
	X, Y  float64
	FPS   float64
}

// Capture is a finished headless render ready to be stored.
type Capture struct {
	Effect   string
	Seed     int64
	Speed    float64
	Density  float64
	Zoom     float64
	ZoomAuto bool
	Width    int
	Height   int
	Scale    float64
	FPS      int
	Files    []string
	Samples  []Sample
}

type CaptureMetadata struct {
	ID        string             `json:"id"`
	Effect    string             `json:"effect"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Speed     float64            `json:"speed"`
	Density   float64            `json:"density"`
	Zoom      float64            `json:"zoom"`
	ZoomAuto  bool               `json:"zoom_auto"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Scale     float64            `json:"scale"`
	FPS       int                `json:"fps"`
	Frames    int                `json:"frames"`
	Files     []string           `json:"files,omitempty"`
	Stats     map[string]float64 `json:"stats"`
}

var sampleHeader = []string{"frame", "time", "count", "sample_x", "sample_y", "fps"}

func (s *Store) Save(c *Capture) (string, error) {
	now := s.now()
	id := fmt.Sprintf("%s_%d_%s", c.Effect, now.UnixNano(), uuid.NewString()[:8])
	dir := s.Dir(id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := CaptureMetadata{
		ID:        id,
		Effect:    c.Effect,
		Timestamp: now,
		Seed:      c.Seed,
		Speed:     c.Speed,
		Density:   c.Density,
		Zoom:      c.Zoom,
		ZoomAuto:  c.ZoomAuto,
		Width:     c.Width,
		Height:    c.Height,
		Scale:     c.Scale,
		FPS:       c.FPS,
		Frames:    len(c.Samples),
		Files:     c.Files,
		Stats:     stats(c.Samples),
	}

	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(dir, "samples.csv"), c.Samples); err != nil {
		return "", err
	}
	return id, nil
}

func stats(samples []Sample) map[string]float64 {
	out := map[string]float64{}
	if len(samples) == 0 {
		return out
	}
	points := make([]float64, len(samples))
	fps := make([]float64, len(samples))
	for i, smp := range samples {
		points[i] = float64(smp.Count)
		fps[i] = smp.FPS
	}
	out["mean_points"] = stat.Mean(points, nil)
	out["peak_points"] = floats.Max(points)
	out["mean_fps"] = stat.Mean(fps, nil)
	if len(fps) > 1 {
		out["fps_stddev"] = stat.StdDev(fps, nil)
	}
	out["duration"] = samples[len(samples)-1].Time
	return out
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Frame),
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.FormatInt(int64(smp.Count), 10),
			strconv.FormatFloat(smp.X, 'f', 3, 64),
			strconv.FormatFloat(smp.Y, 'f', 3, 64),
			strconv.FormatFloat(smp.FPS, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable capture, oldest first.
func (s *Store) List() ([]CaptureMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CaptureMetadata{}, nil
		}
		return nil, err
	}

	captures := make([]CaptureMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		captures = append(captures, *meta)
	}

	sort.Slice(captures, func(i, j int) bool {
		return captures[i].Timestamp.Before(captures[j].Timestamp)
	})
	return captures, nil
}

func (s *Store) Load(id string) (*CaptureMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(id), "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta CaptureMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(id string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.Dir(id), "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("frame %q: %w", rec[0], err)
		}
		count, err := strconv.ParseInt(rec[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("count %q: %w", rec[2], err)
		}
		samples = append(samples, Sample{
			Frame: frame,
			Time:  parseFloat(rec[1]),
			Count: int32(count),
			X:     parseFloat(rec[3]),
			Y:     parseFloat(rec[4]),
			FPS:   parseFloat(rec[5]),
		})
	}
	return samples, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
