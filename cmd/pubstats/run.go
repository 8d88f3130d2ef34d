package main

import (
	"context"

	"github.com/scrim-network/pubstats/internal/importer"
	"github.com/scrim-network/pubstats/internal/metrics"
	"github.com/scrim-network/pubstats/internal/report"
)

// mustBuildReport reads the roster and bibliography named by args and runs
// the pipeline. Trailing args replace the configured tag list. Exits on
// error.
func mustBuildReport(ctx context.Context, args []string, rec *metrics.Recorder) *report.Report {
	keys, err := importer.ReadKeys(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	raw, err := importer.ReadPublications(args[1])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	filter := cfg.Filter()
	if len(args) > 2 {
		filter.Tags = args[2:]
	}

	rep, err := report.Build(ctx, keys, raw, report.Options{
		Filter:   filter,
		Logger:   logger,
		Recorder: rec,
	})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return rep
}

// writeMetrics writes the run's metrics when metrics_file is configured.
func writeMetrics(rec *metrics.Recorder) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("writing metrics", "path", cfg.MetricsFile, "error", err)
	}
}
