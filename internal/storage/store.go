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

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/report"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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

type RunMetadata struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Timestamp   time.Time           `json:"timestamp"`
	Dt          float32             `json:"dt"`
	Steps       int                 `json:"steps"`
	ReportEvery int                 `json:"report_every"`
	StepsTaken  int                 `json:"steps_taken"`
	FinalTime   float32             `json:"final_time"`
	Bodies      []config.BodyConfig `json:"bodies"`
	Metrics     map[string]float64  `json:"metrics"`
}

// Save writes the run's metadata and recorded snapshots under a new run
// directory and returns its id.
func (s *Store) Save(cfg *config.Config, result *sim.Result, snapshots []sim.Snapshot) (string, error) {
	now := time.Now()
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", name, now.Format("20060102T150405.000000"))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   now,
		Dt:          cfg.Dt,
		Steps:       cfg.Steps,
		ReportEvery: cfg.ReportEvery,
		StepsTaken:  result.StepsTaken,
		FinalTime:   result.Time,
		Bodies:      cfg.Bodies,
		Metrics:     make(map[string]float64, len(result.Metrics)),
	}
	// JSON has no NaN or Inf
	for k, v := range result.Metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			meta.Metrics[k] = v
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), snapshots); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeTrajectory(path string, snapshots []sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := report.NewCSV(f)
	for _, snap := range snapshots {
		if err := w.OnStep(snap); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// List returns all readable runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads the recorded snapshots of a run. Masses are restored
// from the run metadata.
func (s *Store) LoadTrajectory(runID string) ([]sim.Snapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(report.CSVHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snapshots := make([]sim.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		snap, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		for j := range snap.Bodies {
			if j < len(meta.Bodies) {
				snap.Bodies[j].Mass = meta.Bodies[j].Mass
			}
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

func parseRow(record []string) (sim.Snapshot, error) {
	var snap sim.Snapshot

	step, err := strconv.Atoi(record[0])
	if err != nil {
		return snap, err
	}
	snap.Step = step

	vals := make([]float32, len(record)-1)
	for i, field := range record[1:] {
		v, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return snap, err
		}
		vals[i] = float32(v)
	}

	snap.Time = vals[0]
	for i := range snap.Bodies {
		o := 1 + i*6
		var b body.Body
		b.Position.Set(vals[o], vals[o+1], vals[o+2])
		b.Velocity.Set(vals[o+3], vals[o+4], vals[o+5])
		snap.Bodies[i] = b
	}

	return snap, nil
}
