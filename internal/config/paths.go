package config

import (
	"os"
	"path/filepath"
)

// Paths contains every file path a run touches.
// Paths are relative to the working directory unless configured absolute.
type Paths struct {
	ParamsFile string
	DataDir    string
	RawDir     string
	LogsDir    string
	LogFile    string

	// Output partitions
	TrainCSV     string
	TestCSV      string
	ManifestJSON string
}

// GetPaths derives the run paths from the configuration
func (c *Config) GetPaths() *Paths {
	rawDir := filepath.Join(c.Paths.DataDir, c.Paths.RawSubdir)
	return &Paths{
		ParamsFile:   c.Paths.ParamsFile,
		DataDir:      c.Paths.DataDir,
		RawDir:       rawDir,
		LogsDir:      filepath.Dir(c.Logging.FilePath),
		LogFile:      c.Logging.FilePath,
		TrainCSV:     filepath.Join(rawDir, TrainFileName),
		TestCSV:      filepath.Join(rawDir, TestFileName),
		ManifestJSON: filepath.Join(rawDir, ManifestFileName),
	}
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
