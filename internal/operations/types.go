package operations

import (
	"time"
)

// Ingestion step identifiers
const (
	StepIDLoadParams = "load_params"
	StepIDLoadData   = "load_data"
	StepIDPreprocess = "preprocess"
	StepIDSplit      = "split"
	StepIDSave       = "save"
	StepIDManifest   = "manifest"
)

// Ingestion step names
const (
	StepNameLoadParams = "Load Parameters"
	StepNameLoadData   = "Load Data"
	StepNamePreprocess = "Preprocess"
	StepNameSplit      = "Train/Test Split"
	StepNameSave       = "Save Partitions"
	StepNameManifest   = "Write Manifest"
)

// Context keys for data passed between steps
const (
	ContextKeyParams     = "params"
	ContextKeyIngestion  = "data_ingestion"
	ContextKeyRawData    = "raw_data"
	ContextKeyCleanData  = "clean_data"
	ContextKeyTrain      = "train"
	ContextKeyTest       = "test"
	ContextKeySaveResult = "save_result"
)

// MetadataKeyRows is the step metadata key holding the rows a step produced
const MetadataKeyRows = "rows"

// Request parameter keys
const (
	ConfigKeyParamsFile = "params_file"
	ConfigKeySource     = "source"
	ConfigKeyDataDir    = "data_dir"
	ConfigKeyManifest   = "manifest_path"
)

// OperationRequest represents a request to execute an operation
type OperationRequest struct {
	ID         string                 `json:"id"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// OperationResponse represents the response from an operation execution
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Order    []string              `json:"order"`
	Error    string                `json:"error,omitempty"`
}
