package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"ingestcli/internal/config"
	apperrors "ingestcli/internal/errors"
)

// Persister saves train and test partitions under <data path>/<raw subdir>
type Persister struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
	rawSubdir string
}

// SaveResult describes the files written by SaveData
type SaveResult struct {
	RawDir string
	Train  WrittenFile
	Test   WrittenFile
}

// Files returns the written files in write order
func (r *SaveResult) Files() []WrittenFile {
	return []WrittenFile{r.Train, r.Test}
}

// NewPersister creates a persister. An empty rawSubdir means "raw".
func NewPersister(logger *slog.Logger, rawSubdir string) *Persister {
	if rawSubdir == "" {
		rawSubdir = config.DefaultRawSubdir
	}
	return &Persister{
		csvWriter: NewCSVWriter(logger),
		logger:    logger,
		rawSubdir: rawSubdir,
	}
}

// SaveData writes train.csv and test.csv. The raw directory is created if
// needed. Any failure is logged once and returned as a storage error.
func (p *Persister) SaveData(ctx context.Context, train, test dataframe.DataFrame, dataPath string) (*SaveResult, error) {
	result, err := p.save(ctx, train, test, dataPath)
	if err != nil {
		p.logger.ErrorContext(ctx, "Unexpected error occurred while saving the data", slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.DebugContext(ctx, fmt.Sprintf("Train and test data saved to %s", result.RawDir),
		slog.Int("train_rows", result.Train.Rows),
		slog.Int("test_rows", result.Test.Rows))
	return result, nil
}

func (p *Persister) save(ctx context.Context, train, test dataframe.DataFrame, dataPath string) (*SaveResult, error) {
	const op = "save_data"

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeUnexpected, op, "save cancelled", err)
	}

	rawDir := filepath.Join(dataPath, p.rawSubdir)
	if err := os.MkdirAll(rawDir, 0755); err != nil {
		return nil, apperrors.NewStorageError(op, rawDir, err)
	}

	result := &SaveResult{RawDir: rawDir}

	trainPath := filepath.Join(rawDir, config.TrainFileName)
	written, err := p.csvWriter.WriteFrame(trainPath, train)
	if err != nil {
		return nil, apperrors.NewStorageError(op, trainPath, err)
	}
	result.Train = written

	testPath := filepath.Join(rawDir, config.TestFileName)
	written, err = p.csvWriter.WriteFrame(testPath, test)
	if err != nil {
		return nil, apperrors.NewStorageError(op, testPath, err)
	}
	result.Test = written

	return result, nil
}
