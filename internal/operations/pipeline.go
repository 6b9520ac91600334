package operations

import (
	"log/slog"

	"ingestcli/internal/config"
	"ingestcli/internal/dataprocessing"
	"ingestcli/internal/exporter"
	"ingestcli/internal/infrastructure"
)

// PipelineOptions holds the collaborators of the ingestion steps
type PipelineOptions struct {
	Logger        *slog.Logger
	Loader        *dataprocessing.Loader
	Persister     *exporter.Persister
	Tracer        *OperationTracer
	WriteManifest bool
}

// NewIngestionManager returns a manager with the ingestion steps registered
// in execution order: load_params, load_data, preprocess, split, save and,
// when enabled, manifest.
func NewIngestionManager(opts PipelineOptions) (*Manager, error) {
	if opts.Logger == nil {
		opts.Logger = infrastructure.DiscardLogger()
	}
	if opts.Loader == nil {
		opts.Loader = dataprocessing.NewLoader(opts.Logger)
	}
	if opts.Persister == nil {
		opts.Persister = exporter.NewPersister(opts.Logger, config.DefaultRawSubdir)
	}

	manager := NewManager(NewRegistry(), opts.Logger, opts.Tracer)

	steps := []Step{
		NewLoadParamsStage(opts.Logger),
		NewLoadDataStage(opts.Loader),
		NewPreprocessStage(opts.Logger),
		NewSplitStage(opts.Logger),
		NewSaveStage(opts.Persister),
	}
	if opts.WriteManifest {
		steps = append(steps, NewManifestStage(opts.Logger))
	}

	for _, step := range steps {
		if err := manager.RegisterStage(step); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

// RequestFromConfig builds the run request from application configuration
func RequestFromConfig(runID string, cfg *config.Config) OperationRequest {
	return OperationRequest{
		ID: runID,
		Parameters: map[string]interface{}{
			ConfigKeyParamsFile: cfg.Paths.ParamsFile,
			ConfigKeySource:     cfg.Source.Location,
			ConfigKeyDataDir:    cfg.Paths.DataDir,
		},
	}
}
