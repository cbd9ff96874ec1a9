// Package storage persists simulation runs to disk. Each run gets its
// own directory under the base dir with a metadata.json and a
// states.csv holding the full trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/skyward-labs/quadsim/internal/quad"
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
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Trajectory string             `json:"trajectory"`
	Metrics    map[string]float64 `json:"metrics"`
}

// csvHeader is the fixed column layout of states.csv. The quaternion is
// stored scalar-first; rotor rates are rad/s.
var csvHeader = []string{
	"time",
	"px", "py", "pz",
	"vx", "vy", "vz",
	"qw", "qx", "qy", "qz",
	"wx", "wy", "wz",
	"r1", "r2", "r3", "r4",
	"ref_x", "ref_y", "ref_z", "ref_yaw",
}

func (s *Store) Save(model, integrator, controller, trajectory string, dt, duration float64, h *quad.History) (string, error) {
	runID := fmt.Sprintf("%s_%d", model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Model:      model,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Controller: controller,
		Trajectory: trajectory,
		Metrics:    h.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for i := range h.Times {
		st := h.States[i]
		cmd := h.Commands[i]
		ref := h.Refs[i]
		row := make([]string, 0, len(csvHeader))
		for _, v := range []float64{
			h.Times[i],
			st.Pos.X, st.Pos.Y, st.Pos.Z,
			st.Vel.X, st.Vel.Y, st.Vel.Z,
			st.Att.W, st.Att.X, st.Att.Y, st.Att.Z,
			st.Omega.X, st.Omega.Y, st.Omega.Z,
			cmd[0], cmd[1], cmd[2], cmd[3],
			ref.Pos.X, ref.Pos.Y, ref.Pos.Z, ref.Yaw,
		} {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// ExportCSV streams the stored states.csv as-is.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return err
}

// LoadHistory rebuilds a typed history from a saved run. Metrics come
// from the metadata; the trajectory columns come from states.csv.
func (s *Store) LoadHistory(runID string) (*quad.History, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}

	h := &quad.History{
		Times:    make([]float64, 0, len(states)),
		States:   make([]quad.VehicleState, 0, len(states)),
		Commands: make([]quad.RotorCommands, 0, len(states)),
		Refs:     make([]quad.Reference, 0, len(states)),
		Metrics:  meta.Metrics,
	}
	for i, row := range states {
		if len(row) < len(csvHeader)-1 {
			continue
		}
		h.Times = append(h.Times, times[i])
		h.States = append(h.States, quad.VehicleState{
			Pos:   quad.Vec3{X: row[0], Y: row[1], Z: row[2]},
			Vel:   quad.Vec3{X: row[3], Y: row[4], Z: row[5]},
			Att:   quad.Quat{W: row[6], X: row[7], Y: row[8], Z: row[9]},
			Omega: quad.Vec3{X: row[10], Y: row[11], Z: row[12]},
		})
		h.Commands = append(h.Commands, quad.RotorCommands{row[13], row[14], row[15], row[16]})
		h.Refs = append(h.Refs, quad.Reference{
			Time: times[i],
			Pos:  quad.Vec3{X: row[17], Y: row[18], Z: row[19]},
			Yaw:  row[20],
		})
	}
	return h, nil
}

// LoadStates reads states.csv back as raw numeric columns, time first.
// Malformed rows are skipped.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-1)
		ok := true
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			row = append(row, val)
		}
		if !ok {
			continue
		}
		times = append(times, t)
		states = append(states, row)
	}

	return states, times, nil
}
