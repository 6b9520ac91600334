package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ingestcli/internal/exporter"
)

// RunManifest records what an ingestion run consumed and produced
type RunManifest struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	WrittenAt time.Time `json:"written_at"`

	// Inputs
	Source      string  `json:"source"`
	ParamsFile  string  `json:"params_file"`
	TestSize    float64 `json:"test_size"`
	RandomState int64   `json:"random_state"`
	Shuffle     bool    `json:"shuffle"`

	// Outputs
	Rows    map[string]int         `json:"rows"`
	Outputs []exporter.WrittenFile `json:"outputs"`

	CompletedStages []StageExecution `json:"completed_stages"`
}

// StageExecution tracks the execution of a single step
type StageExecution struct {
	StageID   string    `json:"stage_id"`
	StageName string    `json:"stage_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  string    `json:"duration"`
	Status    string    `json:"status"`
}

// NewRunManifest creates a manifest for the given run
func NewRunManifest(runID string, startTime time.Time) *RunManifest {
	return &RunManifest{
		ID:              runID,
		StartTime:       startTime,
		Rows:            make(map[string]int),
		Outputs:         []exporter.WrittenFile{},
		CompletedStages: []StageExecution{},
	}
}

// RecordStage appends a finished step. Steps that never started are ignored.
func (m *RunManifest) RecordStage(s *StepState) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil || s.EndTime == nil {
		return
	}
	m.CompletedStages = append(m.CompletedStages, StageExecution{
		StageID:   s.ID,
		StageName: s.Name,
		StartTime: *s.StartTime,
		EndTime:   *s.EndTime,
		Duration:  s.EndTime.Sub(*s.StartTime).String(),
		Status:    string(s.Status),
	})
}

// SaveToFile saves the manifest to a JSON file
func (m *RunManifest) SaveToFile(path string) error {
	m.WrittenAt = time.Now()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &manifest, nil
}
