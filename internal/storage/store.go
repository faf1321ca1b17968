package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Timestamp   time.Time          `json:"timestamp"`
	Duration    float64            `json:"duration"`
	FixedStep   float64            `json:"fixed_step"`
	MaxSubsteps int                `json:"max_substeps"`
	Gravity     [3]float64         `json:"gravity"`
	Bodies      []string           `json:"bodies"`
	Samples     int                `json:"samples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv into a new run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, trace *Trace) (string, error) {
	name := strings.ReplaceAll(meta.Preset, "/", "-")
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Bodies = trace.Bodies
	meta.Samples = len(trace.Times)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, "states.csv"), trace); err != nil {
		return "", err
	}
	return runID, nil
}

func writeStates(path string, trace *Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"time"}
	for _, b := range trace.Bodies {
		header = append(header, b+"_x", b+"_y", b+"_z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range trace.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, p := range trace.Positions[i] {
			for k := 0; k < 3; k++ {
				row = append(row, strconv.FormatFloat(p[k], 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every run with readable metadata, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads a run's states.csv back into a trace.
func (s *Store) LoadStates(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := &Trace{}
	if len(records) == 0 {
		return trace, nil
	}
	header := records[0]
	for i := 1; i+2 < len(header); i += 3 {
		name := header[i]
		trace.Bodies = append(trace.Bodies, name[:len(name)-2])
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]mgl64.Vec3, len(trace.Bodies))
		for b := range row {
			for k := 0; k < 3; k++ {
				idx := 1 + b*3 + k
				if idx >= len(record) {
					break
				}
				v, err := strconv.ParseFloat(record[idx], 64)
				if err != nil {
					continue
				}
				row[b][k] = v
			}
		}
		trace.Times = append(trace.Times, t)
		trace.Positions = append(trace.Positions, row)
	}
	return trace, nil
}
