// Package dataprocessing turns a raw labeled text dataset into train and
// test partitions held as gota DataFrames.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: fetches a CSV or .xlsx source from a URL or local path
// 2. Preprocessor: drops placeholder columns and renames v1/v2 to target/text
// 3. Splitter: seeded shuffle split into train and test partitions
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.WithEncoding("latin-1"))
//	df, err := loader.LoadData(ctx, "https://example.com/spam.csv")
//	if err != nil {
//	    return err
//	}
//
//	clean, err := dataprocessing.NewPreprocessor(logger).Preprocess(df)
//	if err != nil {
//	    return err
//	}
//
//	train, test, err := dataprocessing.TrainTestSplit(clean, dataprocessing.DefaultSplitOptions())
//
// # Data Flow
//
//	CSV/XLSX → Loader → DataFrame → Preprocessor → DataFrame → Splitter → train, test
//
// # Header Handling
//
// Blank header cells are named "Unnamed: <index>" and duplicated names get
// ".1", ".2" suffixes. Every column is loaded as a string exactly as it
// appears in the source.
//
// # Error Handling
//
// Every failure is logged once by the component that detects it and
// returned as an *errors.AppError:
//
//	- Loader: RESOURCE_NOT_FOUND, PARSE_ERROR, NETWORK or UNEXPECTED
//	- Preprocessor: MISSING_COLUMN naming every absent column
//	- Splitter: VALIDATION when a partition would be empty
package dataprocessing
