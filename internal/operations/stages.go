package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"ingestcli/internal/config"
	"ingestcli/internal/dataprocessing"
	apperrors "ingestcli/internal/errors"
	"ingestcli/internal/exporter"
)

// LoadParamsStage reads params.yaml and validates its data_ingestion section
type LoadParamsStage struct {
	BaseStage
	logger *slog.Logger
}

// NewLoadParamsStage creates the parameter loading step
func NewLoadParamsStage(logger *slog.Logger) *LoadParamsStage {
	return &LoadParamsStage{
		BaseStage: NewBaseStage(StepIDLoadParams, StepNameLoadParams),
		logger:    logger,
	}
}

// Execute loads the parameter file named by the params_file request parameter
func (s *LoadParamsStage) Execute(ctx context.Context, state *OperationState) error {
	path := state.GetConfigString(ConfigKeyParamsFile, config.DefaultParamsFile)

	params, err := config.LoadParams(s.logger, path)
	if err != nil {
		return err
	}

	ingestion, err := params.DataIngestion()
	if err != nil {
		s.logger.ErrorContext(ctx, fmt.Sprintf("Invalid data_ingestion parameters in %s", path),
			slog.String("error", err.Error()))
		return err
	}

	state.SetContext(ContextKeyParams, params)
	state.SetContext(ContextKeyIngestion, ingestion)
	return nil
}

// LoadDataStage fetches the labeled dataset
type LoadDataStage struct {
	BaseStage
	loader *dataprocessing.Loader
}

// NewLoadDataStage creates the data loading step
func NewLoadDataStage(loader *dataprocessing.Loader) *LoadDataStage {
	return &LoadDataStage{
		BaseStage: NewBaseStage(StepIDLoadData, StepNameLoadData),
		loader:    loader,
	}
}

// Execute loads the location named by the source request parameter
func (s *LoadDataStage) Execute(ctx context.Context, state *OperationState) error {
	source := state.GetConfigString(ConfigKeySource, config.DefaultSourceURL)

	df, err := s.loader.LoadData(ctx, source)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyRawData, df)
	state.GetStage(s.ID()).SetMetadata(MetadataKeyRows, df.Nrow())
	return nil
}

// PreprocessStage drops placeholder columns and renames v1/v2
type PreprocessStage struct {
	BaseStage
	logger *slog.Logger
}

// NewPreprocessStage creates the preprocessing step
func NewPreprocessStage(logger *slog.Logger) *PreprocessStage {
	return &PreprocessStage{
		BaseStage: NewBaseStage(StepIDPreprocess, StepNamePreprocess),
		logger:    logger,
	}
}

// Validate requires a loaded dataset
func (s *PreprocessStage) Validate(state *OperationState) error {
	_, err := frameFromContext(state, s.ID(), ContextKeyRawData)
	return err
}

// Execute produces the cleaned dataset
func (s *PreprocessStage) Execute(ctx context.Context, state *OperationState) error {
	raw, err := frameFromContext(state, s.ID(), ContextKeyRawData)
	if err != nil {
		return err
	}

	dropMissingOK := false
	if ingestion, err := ingestionFromContext(state, s.ID()); err == nil {
		dropMissingOK = ingestion.DropMissingOK
	}

	clean, err := dataprocessing.NewPreprocessor(s.logger, dataprocessing.WithDropMissingOK(dropMissingOK)).Preprocess(raw)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyCleanData, clean)
	state.GetStage(s.ID()).SetMetadata(MetadataKeyRows, clean.Nrow())
	return nil
}

// SplitStage partitions the cleaned dataset into train and test
type SplitStage struct {
	BaseStage
	logger *slog.Logger
}

// NewSplitStage creates the split step
func NewSplitStage(logger *slog.Logger) *SplitStage {
	return &SplitStage{
		BaseStage: NewBaseStage(StepIDSplit, StepNameSplit),
		logger:    logger,
	}
}

// Validate requires the cleaned dataset and the split parameters
func (s *SplitStage) Validate(state *OperationState) error {
	if _, err := frameFromContext(state, s.ID(), ContextKeyCleanData); err != nil {
		return err
	}
	_, err := ingestionFromContext(state, s.ID())
	return err
}

// Execute applies the seeded split
func (s *SplitStage) Execute(ctx context.Context, state *OperationState) error {
	clean, err := frameFromContext(state, s.ID(), ContextKeyCleanData)
	if err != nil {
		return err
	}
	ingestion, err := ingestionFromContext(state, s.ID())
	if err != nil {
		return err
	}

	train, test, err := dataprocessing.TrainTestSplit(clean, dataprocessing.SplitOptions{
		TestSize:    ingestion.TestSize,
		RandomState: ingestion.RandomState,
		Shuffle:     ingestion.Shuffle,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Unable to split the data", slog.String("error", err.Error()))
		return err
	}

	s.logger.DebugContext(ctx, "Train/test split completed",
		slog.Int("train_rows", train.Nrow()),
		slog.Int("test_rows", test.Nrow()),
		slog.Float64("test_size", ingestion.TestSize),
		slog.Int64("random_state", ingestion.RandomState))

	state.SetContext(ContextKeyTrain, train)
	state.SetContext(ContextKeyTest, test)
	state.GetStage(s.ID()).SetMetadata(MetadataKeyRows, train.Nrow()+test.Nrow())
	return nil
}

// SaveStage writes the partitions under the data directory
type SaveStage struct {
	BaseStage
	persister *exporter.Persister
}

// NewSaveStage creates the persistence step
func NewSaveStage(persister *exporter.Persister) *SaveStage {
	return &SaveStage{
		BaseStage: NewBaseStage(StepIDSave, StepNameSave),
		persister: persister,
	}
}

// Validate requires both partitions
func (s *SaveStage) Validate(state *OperationState) error {
	if _, err := frameFromContext(state, s.ID(), ContextKeyTrain); err != nil {
		return err
	}
	_, err := frameFromContext(state, s.ID(), ContextKeyTest)
	return err
}

// Execute writes train.csv and test.csv
func (s *SaveStage) Execute(ctx context.Context, state *OperationState) error {
	train, err := frameFromContext(state, s.ID(), ContextKeyTrain)
	if err != nil {
		return err
	}
	test, err := frameFromContext(state, s.ID(), ContextKeyTest)
	if err != nil {
		return err
	}

	result, err := s.persister.SaveData(ctx, train, test, state.GetConfigString(ConfigKeyDataDir, config.DefaultDataDir))
	if err != nil {
		return err
	}

	state.SetContext(ContextKeySaveResult, result)
	state.GetStage(s.ID()).SetMetadata(MetadataKeyRows, result.Train.Rows+result.Test.Rows)
	return nil
}

// ManifestStage writes manifest.json describing the run
type ManifestStage struct {
	BaseStage
	logger *slog.Logger
}

// NewManifestStage creates the manifest step
func NewManifestStage(logger *slog.Logger) *ManifestStage {
	return &ManifestStage{
		BaseStage: NewBaseStage(StepIDManifest, StepNameManifest),
		logger:    logger,
	}
}

// Validate requires a completed save
func (s *ManifestStage) Validate(state *OperationState) error {
	_, err := saveResultFromContext(state, s.ID())
	return err
}

// Execute writes the manifest next to the partitions unless manifest_path
// names another location.
func (s *ManifestStage) Execute(ctx context.Context, state *OperationState) error {
	result, err := saveResultFromContext(state, s.ID())
	if err != nil {
		return err
	}

	manifest := NewRunManifest(state.ID, state.StartTime)
	manifest.Source = state.GetConfigString(ConfigKeySource, config.DefaultSourceURL)
	manifest.ParamsFile = state.GetConfigString(ConfigKeyParamsFile, config.DefaultParamsFile)
	if ingestion, err := ingestionFromContext(state, s.ID()); err == nil {
		manifest.TestSize = ingestion.TestSize
		manifest.RandomState = ingestion.RandomState
		manifest.Shuffle = ingestion.Shuffle
	}
	if raw, err := frameFromContext(state, s.ID(), ContextKeyRawData); err == nil {
		manifest.Rows["loaded"] = raw.Nrow()
	}
	manifest.Rows["train"] = result.Train.Rows
	manifest.Rows["test"] = result.Test.Rows
	manifest.Outputs = result.Files()

	for _, id := range state.Order {
		if step := state.GetStage(id); step != nil && step.GetStatus() == StepStatusCompleted {
			manifest.RecordStage(step)
		}
	}

	path := state.GetConfigString(ConfigKeyManifest, filepath.Join(result.RawDir, config.ManifestFileName))
	if err := manifest.SaveToFile(path); err != nil {
		appErr := apperrors.NewStorageError("write_manifest", path, err)
		s.logger.ErrorContext(ctx, "Unable to write the run manifest", slog.String("error", appErr.Error()))
		return appErr
	}

	s.logger.DebugContext(ctx, fmt.Sprintf("Run manifest written to %s", path))
	return nil
}

func frameFromContext(state *OperationState, stepID, key string) (dataframe.DataFrame, error) {
	v, ok := state.GetContext(key)
	if !ok {
		return dataframe.DataFrame{}, missingInput(stepID, key)
	}
	df, ok := v.(dataframe.DataFrame)
	if !ok {
		return dataframe.DataFrame{}, missingInput(stepID, key)
	}
	return df, nil
}

func ingestionFromContext(state *OperationState, stepID string) (config.DataIngestionParams, error) {
	v, ok := state.GetContext(ContextKeyIngestion)
	if !ok {
		return config.DataIngestionParams{}, missingInput(stepID, ContextKeyIngestion)
	}
	ingestion, ok := v.(config.DataIngestionParams)
	if !ok {
		return config.DataIngestionParams{}, missingInput(stepID, ContextKeyIngestion)
	}
	return ingestion, nil
}

func saveResultFromContext(state *OperationState, stepID string) (*exporter.SaveResult, error) {
	v, ok := state.GetContext(ContextKeySaveResult)
	if !ok {
		return nil, missingInput(stepID, ContextKeySaveResult)
	}
	result, ok := v.(*exporter.SaveResult)
	if !ok || result == nil {
		return nil, missingInput(stepID, ContextKeySaveResult)
	}
	return result, nil
}

func missingInput(stepID, key string) error {
	return apperrors.NewValidationError(stepID, fmt.Sprintf("step input %q not available", key), nil)
}
