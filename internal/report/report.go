// Package report runs the pubstats pipeline: roster, filter, statistics.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scrim-network/pubstats/internal/bibliography"
	"github.com/scrim-network/pubstats/internal/metrics"
	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
	"github.com/scrim-network/pubstats/internal/stats"
)

// Report is the finished result of a run. Renderers must treat it as
// read-only.
type Report struct {
	RunID     uuid.UUID
	Generated time.Time
	Tags      []string

	Authors      *roster.Registry
	Publications []reference.Publication
	Translation  roster.Translation

	// Read is the number of raw records before filtering.
	Read int
	// Dropped counts filtered-out records by reason.
	Dropped map[bibliography.DropReason]int

	// Warnings are non-fatal problems found in the roster and bibliography.
	Warnings []error
}

// Options configure Build.
type Options struct {
	Filter bibliography.Options

	// Statistics replaces the built-in statistics when non-nil.
	Statistics []stats.Statistic

	Logger   *slog.Logger
	Recorder *metrics.Recorder

	// Now defaults to time.Now.
	Now func() time.Time
}

// Build constructs the registry, filters the bibliography and runs every
// statistic, each phase completing before the next starts.
func Build(ctx context.Context, keys []roster.KeyRecord, raw []reference.RawRecord, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	rep := &Report{
		RunID:     uuid.New(),
		Generated: start,
		Tags:      opts.Filter.Tags,
		Read:      len(raw),
		Dropped:   make(map[bibliography.DropReason]int),
	}
	logger = logger.With(slog.String("run", rep.RunID.String()))

	reg, errs := roster.Build(keys)
	for _, err := range errs {
		logger.WarnContext(ctx, "roster row skipped", slog.Any("error", err))
	}
	rep.Warnings = append(rep.Warnings, errs...)
	rep.Authors = reg
	rep.Translation = reg.Translation()
	logger.DebugContext(ctx, "registry built", slog.Int("authors", reg.Len()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	filterOpts := opts.Filter
	userDrop := filterOpts.OnDrop
	filterOpts.OnDrop = func(pos int, reason bibliography.DropReason) {
		rep.Dropped[reason]++
		if opts.Recorder != nil {
			opts.Recorder.PublicationDropped(string(reason))
		}
		if userDrop != nil {
			userDrop(pos, reason)
		}
	}

	pubs, errs := bibliography.Filter(raw, filterOpts, rep.Translation)
	for _, err := range errs {
		logger.WarnContext(ctx, "publication skipped", slog.Any("error", err))
	}
	rep.Warnings = append(rep.Warnings, errs...)
	rep.Publications = pubs
	logger.DebugContext(ctx, "bibliography filtered",
		slog.Int("read", len(raw)), slog.Int("kept", len(pubs)))

	engineOpts := []stats.Option{stats.WithLogger(logger)}
	if opts.Statistics != nil {
		engineOpts = append(engineOpts, stats.WithStatistics(opts.Statistics...))
	}
	if opts.Recorder != nil {
		engineOpts = append(engineOpts, stats.WithObserver(opts.Recorder))
	}
	engine, err := stats.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}
	if err := engine.Run(ctx, pubs, reg); err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	if opts.Recorder != nil {
		opts.Recorder.PublicationsRead(len(raw))
		opts.Recorder.PublicationsKept(len(pubs))
		opts.Recorder.AuthorsRegistered(reg.Len())
		opts.Recorder.ObserveRun(now().Sub(start))
	}
	logger.InfoContext(ctx, "report built",
		slog.Int("authors", reg.Len()),
		slog.Int("publications", len(pubs)),
		slog.Int("warnings", len(rep.Warnings)))

	return rep, nil
}

// Author returns the record for id.
func (r *Report) Author(id roster.Identity) (*roster.Record, bool) {
	return r.Authors.Author(id)
}

// Publication returns the publication at a 0-based index.
func (r *Report) Publication(index int) (reference.Publication, bool) {
	if index < 0 || index >= len(r.Publications) {
		return reference.Publication{}, false
	}
	return r.Publications[index], true
}
