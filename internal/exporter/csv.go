package exporter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

// CSVWriter writes DataFrames as CSV files
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	return &CSVWriter{logger: logger}
}

// WrittenFile describes a file produced by the writer
type WrittenFile struct {
	Path   string `json:"path"`
	Rows   int    `json:"rows"`
	Bytes  int64  `json:"bytes"`
	SHA256 string `json:"sha256"`
}

// countingWriter counts bytes passed through
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// WriteFrame writes df to filePath with a header row and no index column,
// replacing any existing file.
func (w *CSVWriter) WriteFrame(filePath string, df dataframe.DataFrame) (WrittenFile, error) {
	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", df.Nrow()))

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return WrittenFile{}, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return WrittenFile{}, fmt.Errorf("failed to open file: %w", err)
	}

	hash := sha256.New()
	counter := &countingWriter{}
	if err := df.WriteCSV(io.MultiWriter(file, hash, counter)); err != nil {
		file.Close()
		return WrittenFile{}, fmt.Errorf("failed to write records: %w", err)
	}
	if err := file.Close(); err != nil {
		return WrittenFile{}, fmt.Errorf("failed to close file: %w", err)
	}

	return WrittenFile{
		Path:   filePath,
		Rows:   df.Nrow(),
		Bytes:  counter.n,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}
