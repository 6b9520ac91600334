package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "ingestcli/internal/errors"
)

const opLoadParams = "load_params"

// Params is the parameter set read from params.yaml. It is immutable once
// loaded; values are reached through Get and the typed section accessors.
type Params struct {
	source string
	values map[string]interface{}
}

// DataIngestionParams is the typed view of the data_ingestion section
type DataIngestionParams struct {
	TestSize      float64 `yaml:"test_size" validate:"gt=0,lt=1"`
	RandomState   int64   `yaml:"random_state"`
	Shuffle       bool    `yaml:"shuffle"`
	DropMissingOK bool    `yaml:"drop_missing_ok"`
}

// LoadParams reads and parses the YAML parameter file at path. Failures are
// logged once at error level before being returned.
func LoadParams(logger *slog.Logger, path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Error(fmt.Sprintf("File not found: %s", path), slog.String("error", err.Error()))
			return nil, apperrors.NewNotFoundError(opLoadParams, path, err)
		}
		logger.Error(fmt.Sprintf("Unexpected error occurred while reading %s", path), slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(apperrors.ErrTypeUnexpected, opLoadParams, "unexpected error", err).
			WithContext("path", path)
	}

	values := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &values); err != nil {
		logger.Error(fmt.Sprintf("YAML error in %s", path), slog.String("error", err.Error()))
		return nil, apperrors.NewMalformedDataError(opLoadParams, path, err)
	}

	logger.Debug(fmt.Sprintf("Parameters retrieved from %s", path))
	return &Params{source: path, values: values}, nil
}

// Source returns the file the parameters were read from
func (p *Params) Source() string {
	return p.source
}

// Get looks up a dotted key such as "data_ingestion.test_size"
func (p *Params) Get(key string) (interface{}, bool) {
	var current interface{} = p.values
	for _, part := range strings.Split(key, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		case map[interface{}]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}

// Float returns a numeric value at key
func (p *Params) Float(key string) (float64, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, apperrors.NewValidationError(opLoadParams, fmt.Sprintf("missing parameter %s", key), nil)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, apperrors.NewValidationError(opLoadParams, fmt.Sprintf("parameter %s is not a number: %v", key, v), nil)
	}
}

// DataIngestion decodes and validates the data_ingestion section, filling
// random_state and shuffle defaults when absent.
func (p *Params) DataIngestion() (DataIngestionParams, error) {
	settings := DataIngestionParams{
		RandomState: DefaultRandomState,
		Shuffle:     true,
	}

	section, ok := p.Get("data_ingestion")
	if !ok {
		return settings, apperrors.NewValidationError(opLoadParams, "missing section data_ingestion", nil)
	}
	if _, ok := p.Get("data_ingestion.test_size"); !ok {
		return settings, apperrors.NewValidationError(opLoadParams, "missing parameter data_ingestion.test_size", nil)
	}

	// Round-trip the section so yaml handles numeric widening
	raw, err := yaml.Marshal(section)
	if err != nil {
		return settings, apperrors.NewMalformedDataError(opLoadParams, p.source, err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return settings, apperrors.NewMalformedDataError(opLoadParams, p.source, err)
	}

	if err := validator.New().Struct(settings); err != nil {
		return settings, apperrors.NewValidationError(opLoadParams,
			fmt.Sprintf("data_ingestion.test_size must be in (0,1), got %v", settings.TestSize), err)
	}
	return settings, nil
}
