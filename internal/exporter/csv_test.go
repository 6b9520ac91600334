package exporter

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func frame(t *testing.T, records [][]string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	require.NoError(t, df.Err)
	return df
}

const wantCSV = "target,text\nham,\"hi, there\"\nspam,win\n"

func TestWriteFrame(t *testing.T) {
	logger, _ := newTestLogger()
	df := frame(t, [][]string{
		{"target", "text"},
		{"ham", "hi, there"},
		{"spam", "win"},
	})

	path := filepath.Join(t.TempDir(), "nested", "train.csv")
	written, err := NewCSVWriter(logger).WriteFrame(path, df)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantCSV, string(content))

	sum := sha256.Sum256([]byte(wantCSV))
	assert.Equal(t, WrittenFile{
		Path:   path,
		Rows:   2,
		Bytes:  int64(len(wantCSV)),
		SHA256: hex.EncodeToString(sum[:]),
	}, written)
}

func TestWriteFrame_Overwrites(t *testing.T) {
	logger, _ := newTestLogger()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0644))

	df := frame(t, [][]string{{"target", "text"}, {"ham", "hi, there"}, {"spam", "win"}})
	_, err := NewCSVWriter(logger).WriteFrame(path, df)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantCSV, string(content))
}

func TestWriteFrame_UnwritablePath(t *testing.T) {
	logger, _ := newTestLogger()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	df := frame(t, [][]string{{"target", "text"}, {"ham", "hi"}})
	_, err := NewCSVWriter(logger).WriteFrame(filepath.Join(blocker, "train.csv"), df)
	assert.Error(t, err)
}
