// Package exporter persists the train and test partitions as CSV files.
//
// This package contains two components:
//
// CSVWriter: writes a DataFrame with a header row and no index column and
// reports the row count, size and SHA-256 of the file it produced.
//
// Persister: lays out <data path>/raw/train.csv and test.csv.
//
// Example usage:
//
//	persister := exporter.NewPersister(logger, "raw")
//	result, err := persister.SaveData(ctx, train, test, "./data")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Train.Path, result.Train.SHA256)
package exporter
