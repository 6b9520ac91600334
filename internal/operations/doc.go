// Package operations runs the ingestion job as a sequence of registered steps.
//
// Core Components:
//
// Manager: executes the registered steps in order, tracks their state and
// wraps each one in a span. The first failing step stops the run and the
// remaining steps are marked skipped.
//
// Step: a single unit of work. Steps exchange data through the
// OperationState context map.
//
// Registry: keeps steps in registration order and rejects duplicate IDs.
//
// State: runtime state of the run and of each step, including timings and
// per-step metadata such as row counts.
//
// RunManifest: optional manifest.json recording inputs, row counts, output
// checksums and step durations.
//
// Example usage:
//
//	manager, err := operations.NewIngestionManager(operations.PipelineOptions{
//		Logger:    logger,
//		Loader:    dataprocessing.NewLoader(logger),
//		Persister: exporter.NewPersister(logger, "raw"),
//	})
//	if err != nil {
//		return err
//	}
//
//	resp, err := manager.Execute(ctx, operations.RequestFromConfig(runID, cfg))
package operations
