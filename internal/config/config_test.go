package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "line", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, "logs/data_ingestion.log", cfg.Logging.FilePath)
				assert.Equal(t, "data_ingestion", cfg.Logging.Name)

				assert.Equal(t, "params.yaml", cfg.Paths.ParamsFile)
				assert.Equal(t, "./data", cfg.Paths.DataDir)
				assert.Equal(t, "raw", cfg.Paths.RawSubdir)

				assert.Equal(t, DefaultSourceURL, cfg.Source.Location)
				assert.Equal(t, time.Duration(0), cfg.Source.Timeout)
				assert.Equal(t, "none", cfg.Telemetry.Tracing)
				assert.False(t, cfg.Output.Manifest)
			},
		},
		{
			name: "file overrides defaults",
			fileContent: `
source:
  location: ./spam.csv
  encoding: latin-1
paths:
  data_dir: /tmp/out
output:
  manifest: true
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "./spam.csv", cfg.Source.Location)
				assert.Equal(t, "latin-1", cfg.Source.Encoding)
				assert.Equal(t, "/tmp/out", cfg.Paths.DataDir)
				assert.Equal(t, "raw", cfg.Paths.RawSubdir)
				assert.True(t, cfg.Output.Manifest)
			},
		},
		{
			name: "env overrides file",
			fileContent: `
logging:
  level: info
`,
			env: map[string]string{
				"INGEST_LOGGING_LEVEL":   "error",
				"INGEST_SOURCE_TIMEOUT":  "30s",
				"INGEST_PATHS_DATA_DIR":  "/srv/data",
				"INGEST_OUTPUT_MANIFEST": "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Logging.Level)
				assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
				assert.Equal(t, "/srv/data", cfg.Paths.DataDir)
				assert.True(t, cfg.Output.Manifest)
			},
		},
		{
			name:        "invalid log format",
			fileContent: "logging:\n  format: xml\n",
			wantErr:     true,
		},
		{
			name:    "invalid tracing exporter from env",
			env:     map[string]string{"INGEST_TELEMETRY_TRACING": "otlp"},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "logging: [unclosed",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.fileContent != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "ingest.yaml"), []byte(tt.fileContent), 0644))
			}

			cfg, err := Load("")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  params_file: conf/params.yaml\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "conf/params.yaml", cfg.Paths.ParamsFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_FileOutputNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.FilePath = ""
	assert.Error(t, cfg.Validate())

	cfg.Logging.Output = "console"
	assert.NoError(t, cfg.Validate())
}

func TestGetPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "out"

	paths := cfg.GetPaths()
	assert.Equal(t, filepath.Join("out", "raw"), paths.RawDir)
	assert.Equal(t, filepath.Join("out", "raw", "train.csv"), paths.TrainCSV)
	assert.Equal(t, filepath.Join("out", "raw", "test.csv"), paths.TestCSV)
	assert.Equal(t, filepath.Join("out", "raw", "manifest.json"), paths.ManifestJSON)
	assert.Equal(t, "logs", paths.LogsDir)
	assert.Equal(t, "params.yaml", paths.ParamsFile)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent")))
}

func TestLoad_ShippedConfigMatchesDefaults(t *testing.T) {
	chdir(t, filepath.Join("..", ".."))
	require.FileExists(t, filepath.Join("configs", "ingest.yaml"))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Source.Timeout)
	assert.Equal(t, Default(), cfg)
}
