// Package config provides configuration management for the ingestion job.
// It handles loading the application configuration from multiple sources and
// reading the run parameter file (params.yaml).
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (ingest.yaml or configs/ingest.yaml, YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern INGEST_<SECTION>_<KEY>:
//
//	INGEST_SOURCE_LOCATION=./spam.csv
//	INGEST_PATHS_DATA_DIR=/var/lib/ingest
//	INGEST_LOGGING_LEVEL=info
//	INGEST_TELEMETRY_TRACING=stdout
//
// # Parameters
//
// The parameter file is a nested YAML mapping consumed by the pipeline:
//
//	data_ingestion:
//	  test_size: 0.2
//	  random_state: 42   # optional
//	  shuffle: true      # optional
//
// LoadParams classifies failures as resource-not-found, malformed data or
// unexpected, logging each once before returning it.
package config
