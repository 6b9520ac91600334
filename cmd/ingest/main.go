package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"ingestcli/internal/config"
	"ingestcli/internal/dataprocessing"
	"ingestcli/internal/exporter"
	"ingestcli/internal/infrastructure"
	"ingestcli/internal/operations"
)

const shutdownTimeout = 5 * time.Second

// options holds command line overrides of the loaded configuration
type options struct {
	configFile string
	paramsFile string
	source     string
	dataDir    string
	manifest   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Fetch the labeled spam dataset and write seeded train/test partitions",
		Long: `ingest reads data_ingestion.test_size from params.yaml, downloads the
labeled dataset, drops the placeholder columns, renames v1/v2 to target/text
and writes train.csv and test.csv under <data_dir>/raw.

Pipeline failures are logged and printed; the process still exits normally.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       config.AppVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Console logger until the configured one exists
			console := slog.New(infrastructure.NewLineHandler(stdout, config.DefaultLoggerName, slog.LevelDebug))

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				fail(cmd.Context(), console, stdout, err)
				return nil
			}
			ingest(cmd.Context(), cfg, stdout)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (default: ingest.yaml or configs/ingest.yaml when present)")
	flags.StringVar(&opts.paramsFile, "params", "", "parameter file holding data_ingestion.test_size")
	flags.StringVar(&opts.source, "source", "", "dataset URL or local path")
	flags.StringVar(&opts.dataDir, "data-dir", "", "root directory of the written partitions")
	flags.BoolVar(&opts.manifest, "manifest", false, "write manifest.json next to the partitions")

	return cmd
}

// loadConfig loads configuration and applies flags that were set explicitly
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("params") {
		cfg.Paths.ParamsFile = opts.paramsFile
	}
	if flags.Changed("source") {
		cfg.Source.Location = opts.source
	}
	if flags.Changed("data-dir") {
		cfg.Paths.DataDir = opts.dataDir
	}
	if flags.Changed("manifest") {
		cfg.Output.Manifest = opts.manifest
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ingest runs the pipeline once. Failures are logged and printed but never
// turned into a non-zero exit status.
func ingest(ctx context.Context, cfg *config.Config, stdout io.Writer) {
	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		logger = slog.New(infrastructure.NewLineHandler(stdout, cfg.Logging.Name, slog.LevelDebug))
		logger.Warn("Failed to initialize logger, logging to console only", slog.String("error", err.Error()))
	} else {
		defer closer.Close()
	}

	runID := infrastructure.GenerateRunID()
	ctx = infrastructure.WithRunID(ctx, runID)

	tracer := operations.NewNoopTracer()
	var tp trace.TracerProvider

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger, stdout)
	if err != nil {
		logger.WarnContext(ctx, "Telemetry disabled", slog.String("error", err.Error()))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := providers.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()

		if t, err := operations.NewOperationTracer(providers); err != nil {
			logger.WarnContext(ctx, "Pipeline metrics disabled", slog.String("error", err.Error()))
		} else {
			tracer = t
		}
		if providers.TracerProvider != nil {
			tp = providers.TracerProvider
		}
	}

	loader := dataprocessing.NewLoader(logger,
		dataprocessing.WithHTTPClient(dataprocessing.NewHTTPClient(cfg.Source.Timeout, tp)),
		dataprocessing.WithEncoding(cfg.Source.Encoding),
		dataprocessing.WithSheet(cfg.Source.Sheet),
	)

	manager, err := operations.NewIngestionManager(operations.PipelineOptions{
		Logger:        logger,
		Loader:        loader,
		Persister:     exporter.NewPersister(logger, cfg.Paths.RawSubdir),
		Tracer:        tracer,
		WriteManifest: cfg.Output.Manifest,
	})
	if err != nil {
		fail(ctx, logger, stdout, err)
		return
	}

	resp, err := manager.Execute(ctx, operations.RequestFromConfig(runID, cfg))
	if err != nil {
		fail(ctx, logger, stdout, err)
		return
	}

	logger.DebugContext(ctx, "Data ingestion completed",
		slog.String("status", string(resp.Status)),
		slog.Duration("duration", resp.Duration))
}

func fail(ctx context.Context, logger *slog.Logger, stdout io.Writer, err error) {
	logger.ErrorContext(ctx, "Failed to complete the data ingestion process", slog.String("error", err.Error()))
	fmt.Fprintf(stdout, "Error: %v\n", err)
}
