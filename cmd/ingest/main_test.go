package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = "v1,v2,,,\n" +
	"ham,Go until jurong point,,,\n" +
	"ham,Ok lar...,,,\n" +
	"spam,Free entry in 2 a wkly comp,,,\n" +
	"ham,U dun say so early hor,,,\n" +
	"ham,\"Nah I don't think he goes to usf, he lives around here though\",,,\n"

type workspace struct {
	dir      string
	config   string
	logFile  string
	dataDir  string
	params   string
	textfile string
}

func newWorkspace(t *testing.T, params string) *workspace {
	t.Helper()

	dir := t.TempDir()
	ws := &workspace{
		dir:      dir,
		config:   filepath.Join(dir, "ingest.yaml"),
		logFile:  filepath.Join(dir, "logs", "data_ingestion.log"),
		dataDir:  filepath.Join(dir, "data"),
		params:   filepath.Join(dir, "params.yaml"),
		textfile: filepath.Join(dir, "metrics", "ingest.prom"),
	}

	cfg := fmt.Sprintf(`logging:
  level: debug
  output: file
  file_path: %s
paths:
  params_file: %s
  data_dir: %s
telemetry:
  metrics_textfile: %s
`, ws.logFile, ws.params, ws.dataDir, ws.textfile)
	require.NoError(t, os.WriteFile(ws.config, []byte(cfg), 0644))
	require.NoError(t, os.WriteFile(ws.params, []byte(params), 0644))
	return ws
}

func serveDataset(t *testing.T, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(dataset))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/spam.csv"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	err := cmd.Execute()
	return stdout.String(), err
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestIngest_Success(t *testing.T) {
	ws := newWorkspace(t, "data_ingestion:\n  test_size: 0.2\n")
	source := serveDataset(t, http.StatusOK)

	out, err := execute(t, "--config", ws.config, "--source", source)
	require.NoError(t, err)
	assert.NotContains(t, out, "Error:")

	train, err := os.ReadFile(filepath.Join(ws.dataDir, "raw", "train.csv"))
	require.NoError(t, err)
	test, err := os.ReadFile(filepath.Join(ws.dataDir, "raw", "test.csv"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(train), "target,text\n"))
	assert.True(t, strings.HasPrefix(string(test), "target,text\n"))
	assert.Len(t, strings.Split(strings.TrimSpace(string(train)), "\n"), 1+4)
	assert.Len(t, strings.Split(strings.TrimSpace(string(test)), "\n"), 1+1)

	logs := readLog(t, ws.logFile)
	assert.Contains(t, logs, " - data_ingestion - DEBUG - Data loaded from "+source)
	assert.NotContains(t, logs, " - ERROR - ")

	_, err = os.Stat(filepath.Join(ws.dataDir, "raw", "manifest.json"))
	assert.True(t, os.IsNotExist(err))

	metrics, err := os.ReadFile(ws.textfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "ingest_runs")
}

func TestIngest_ManifestFlag(t *testing.T) {
	ws := newWorkspace(t, "data_ingestion:\n  test_size: 0.2\n")
	source := serveDataset(t, http.StatusOK)

	_, err := execute(t, "--config", ws.config, "--source", source, "--manifest")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(ws.dataDir, "raw", "manifest.json"))
	assert.NoError(t, err)
}

func TestIngest_FlagOverrides(t *testing.T) {
	ws := newWorkspace(t, "data_ingestion:\n  test_size: 0.2\n")
	source := serveDataset(t, http.StatusOK)

	otherParams := filepath.Join(ws.dir, "other.yaml")
	require.NoError(t, os.WriteFile(otherParams, []byte("data_ingestion:\n  test_size: 0.4\n"), 0644))
	otherData := filepath.Join(ws.dir, "elsewhere")

	_, err := execute(t, "--config", ws.config, "--source", source, "--params", otherParams, "--data-dir", otherData)
	require.NoError(t, err)

	test, err := os.ReadFile(filepath.Join(otherData, "raw", "test.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(test)), "\n"), 1+2)
}

func TestIngest_FailureExitsNormally(t *testing.T) {
	tests := []struct {
		name    string
		params  string
		status  int
		wantLog string
	}{
		{
			name:    "invalid test size",
			params:  "data_ingestion:\n  test_size: 0\n",
			status:  http.StatusOK,
			wantLog: "Invalid data_ingestion parameters",
		},
		{
			name:    "source not found",
			params:  "data_ingestion:\n  test_size: 0.2\n",
			status:  http.StatusNotFound,
			wantLog: "Unexpected error during data loading",
		},
		{
			name:    "malformed params",
			params:  "data_ingestion: [unclosed\n",
			status:  http.StatusOK,
			wantLog: "YAML error in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(t, tt.params)
			source := serveDataset(t, tt.status)

			out, err := execute(t, "--config", ws.config, "--source", source)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, "Error: "), out)

			logs := readLog(t, ws.logFile)
			assert.Contains(t, logs, tt.wantLog)
			assert.Contains(t, logs, " - data_ingestion - ERROR - Failed to complete the data ingestion process")
			assert.Equal(t, 2, strings.Count(logs, " - ERROR - "))

			_, statErr := os.Stat(filepath.Join(ws.dataDir, "raw"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestIngest_MissingParamsFile(t *testing.T) {
	ws := newWorkspace(t, "")
	require.NoError(t, os.Remove(ws.params))

	out, err := execute(t, "--config", ws.config, "--source", serveDataset(t, http.StatusOK))
	require.NoError(t, err)
	assert.Contains(t, out, "Error: ")
	assert.Contains(t, readLog(t, ws.logFile), "File not found: "+ws.params)
}

func TestIngest_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0644))

	out, err := execute(t, "--config", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - data_ingestion - ERROR - Failed to complete the data ingestion process: config validation failed`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Error: config validation failed"), lines[1])
}

func TestIngest_RejectsArguments(t *testing.T) {
	_, err := execute(t, "extra")
	assert.Error(t, err)
}
