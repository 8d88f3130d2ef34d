// Package stats computes the named per-publication statistics and
// accumulates them onto key authors.
package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
)

// ErrDuplicateStatistic is returned when two statistics share a name.
var ErrDuplicateStatistic = errors.New("duplicate statistic")

// Func inspects one publication and records its findings on the matched
// authors of reg. index is the publication's position in the filtered
// sequence. A Func must not modify pub and must only mutate records
// belonging to the publication's resolved authors.
type Func func(pub reference.Publication, reg *roster.Registry, index int)

// Statistic is a named Func.
type Statistic struct {
	Name  string
	Apply Func
}

// Observer is notified of every statistic application.
type Observer interface {
	StatisticApplied(name string)
	StatisticFailed(name string)
}

// Engine applies an ordered list of statistics to every publication.
type Engine struct {
	stats    []Statistic
	names    map[string]struct{}
	logger   *slog.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report failing statistics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets an observer for statistic applications.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithStatistics replaces the built-in statistics.
func WithStatistics(s ...Statistic) Option {
	return func(e *Engine) { e.stats = s }
}

// New returns an engine running Builtin() unless WithStatistics says
// otherwise.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		stats:  Builtin(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	list := e.stats
	e.stats = nil
	e.names = make(map[string]struct{}, len(list))
	for _, s := range list {
		if err := e.Register(s); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Register appends a statistic. Names must be unique and non-empty.
func (e *Engine) Register(s Statistic) error {
	if s.Name == "" || s.Apply == nil {
		return fmt.Errorf("statistic %q: name and function are required", s.Name)
	}
	if _, ok := e.names[s.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStatistic, s.Name)
	}
	e.names[s.Name] = struct{}{}
	e.stats = append(e.stats, s)
	return nil
}

// Statistics returns the registered statistic names in application order.
func (e *Engine) Statistics() []string {
	names := make([]string, len(e.stats))
	for i, s := range e.stats {
		names[i] = s.Name
	}
	return names
}

// Run applies every statistic to every publication, publications in order.
//
// A statistic that panics is logged and skipped for that publication; the
// rest of the pass continues. Run only returns an error when ctx is done.
func (e *Engine) Run(ctx context.Context, pubs []reference.Publication, reg *roster.Registry) error {
	for i, pub := range pubs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("statistics pass stopped at publication %d: %w", i+1, err)
		}
		for _, s := range e.stats {
			e.apply(ctx, s, pub, reg, i)
		}
	}
	return nil
}

func (e *Engine) apply(ctx context.Context, s Statistic, pub reference.Publication, reg *roster.Registry, index int) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "statistic failed",
				slog.String("statistic", s.Name),
				slog.Int("publication", index+1),
				slog.Any("panic", r))
			if e.observer != nil {
				e.observer.StatisticFailed(s.Name)
			}
		}
	}()

	s.Apply(pub, reg, index)
	if e.observer != nil {
		e.observer.StatisticApplied(s.Name)
	}
}
