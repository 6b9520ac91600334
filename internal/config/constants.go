package config

// Application constants
const (
	AppName    = "ingest"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment overrides, e.g. INGEST_SOURCE_LOCATION
	EnvPrefix = "INGEST"

	DefaultLoggerName = "data_ingestion"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/data_ingestion.log"
	DefaultParamsFile = "params.yaml"
	DefaultDataDir    = "./data"
	DefaultRawSubdir  = "raw"
	DefaultSourceURL  = "https://raw.githubusercontent.com/vikashishere/Datasets/main/spam.csv"

	TrainFileName    = "train.csv"
	TestFileName     = "test.csv"
	ManifestFileName = "manifest.json"

	// DefaultRandomState seeds the train/test permutation
	DefaultRandomState int64 = 42
)

// Columns of the reference dataset
const (
	ColumnLabel  = "v1"
	ColumnText   = "v2"
	ColumnTarget = "target"
	ColumnBody   = "text"
)

// PlaceholderColumns are the blank trailing header cells of the reference dataset
var PlaceholderColumns = []string{"Unnamed: 2", "Unnamed: 3", "Unnamed: 4"}
