package operations

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestcli/internal/exporter"
)

func TestRunManifest_RecordStage(t *testing.T) {
	manifest := NewRunManifest("run-1", time.Now())

	done := NewStepState(StepIDLoadData, StepNameLoadData)
	done.Start()
	done.Complete()

	skipped := NewStepState(StepIDSave, StepNameSave)
	skipped.Skip("previous step failed")

	manifest.RecordStage(done)
	manifest.RecordStage(skipped)

	require.Len(t, manifest.CompletedStages, 1)
	assert.Equal(t, StepIDLoadData, manifest.CompletedStages[0].StageID)
	assert.Equal(t, string(StepStatusCompleted), manifest.CompletedStages[0].Status)
	assert.NotEmpty(t, manifest.CompletedStages[0].Duration)
}

func TestRunManifest_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.json")

	manifest := NewRunManifest("run-2", time.Now())
	manifest.Source = "spam.csv"
	manifest.TestSize = 0.25
	manifest.RandomState = 42
	manifest.Rows["train"] = 3
	manifest.Outputs = append(manifest.Outputs, exporter.WrittenFile{Path: "train.csv", Rows: 3, Bytes: 40, SHA256: "abc"})

	require.NoError(t, manifest.SaveToFile(path))
	assert.False(t, manifest.WrittenAt.IsZero())

	loaded, err := LoadManifestFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "run-2", loaded.ID)
	assert.Equal(t, "spam.csv", loaded.Source)
	assert.Equal(t, 0.25, loaded.TestSize)
	assert.Equal(t, int64(42), loaded.RandomState)
	assert.Equal(t, 3, loaded.Rows["train"])
	assert.Equal(t, manifest.Outputs, loaded.Outputs)
}

func TestRunManifest_SaveToUnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := NewRunManifest("run-3", time.Now()).SaveToFile(filepath.Join(blocker, "manifest.json"))
	assert.Error(t, err)
}

func TestLoadManifestFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadManifestFromFile(path)
	assert.Error(t, err)
}

func TestOperationState_Lifecycle(t *testing.T) {
	state := NewOperationState("run-4")
	state.SetConfig(ConfigKeyDataDir, "out")
	state.SetConfig(ConfigKeySource, 7)

	assert.Equal(t, "out", state.GetConfigString(ConfigKeyDataDir, "data"))
	assert.Equal(t, "fallback", state.GetConfigString(ConfigKeySource, "fallback"))
	assert.Equal(t, "data", state.GetConfigString(ConfigKeyManifest, "data"))

	state.Start()
	step := NewStepState(StepIDSplit, StepNameSplit)
	state.SetStage(StepIDSplit, step)
	step.Start()
	step.Fail(errors.New("one partition would be empty"))
	state.Fail(step.Error)

	assert.Equal(t, OperationStatusFailed, state.GetStatus())
	assert.True(t, state.HasFailures())
	assert.Equal(t, "one partition would be empty", step.Message)
	assert.NotNil(t, state.EndTime)
}
