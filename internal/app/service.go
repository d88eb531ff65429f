// Package service provides the analytics service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	repository "github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/report"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/logger"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/metrics"
)

// Analysis names used in logs and metrics.
const (
	AnalysisTradeoff   = "tradeoff"
	AnalysisRelative   = "relative_performance"
	AnalysisUniversity = "university_comparison"
)

// Defaults are the parameters an analysis runs with when a caller does not
// override them.
type Defaults struct {
	Tradeoff         report.TradeoffParams
	Relative         report.RelativeParams
	University       report.UniversityParams
	UniversityFilter repository.Filter
}

// DefaultDefaults returns the built-in analysis parameters.
func DefaultDefaults() Defaults {
	return Defaults{
		Tradeoff:   report.DefaultTradeoffParams(),
		Relative:   report.DefaultRelativeParams(),
		University: report.DefaultUniversityParams(),
		UniversityFilter: repository.Filter{
			YearStart:               2015,
			YearEnd:                 2022,
			MinRecordsPerUniversity: 40,
		},
	}
}

// OverviewResult bundles every analysis over one snapshot.
type OverviewResult struct {
	Tradeoff     report.TradeoffResult   `json:"tradeoff"`
	Relative     report.RelativeResult   `json:"relative_performance"`
	Universities report.UniversityResult `json:"universities"`
	Filters      report.FilterOptions    `json:"filters"`
}

// Service runs survey analyses over the current snapshot.
type Service struct {
	mu sync.RWMutex

	store    *repository.SnapshotStore
	source   repository.Source
	defaults Defaults
	refresh  time.Duration

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where survey snapshots are loaded from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithDefaults sets the default analysis parameters.
func WithDefaults(d Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// WithRefreshInterval reloads the snapshot periodically once started.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refresh = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{defaults: DefaultDefaults()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ErrNoSource is returned by Start when no source was configured.
var ErrNoSource = errors.New("no survey source configured")

// Start loads the first snapshot and starts background refresh.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting analytics service", logger.String("source", s.source.Name()))
	s.store = repository.NewSnapshotStore(s.source, repository.WithRefreshInterval(s.refresh))
	snap, err := s.store.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load")
		return err
	}
	s.store.StartRefresh(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("records", snap.Dataset.Len()),
		logger.Strings("columns", snap.Dataset.Columns),
		logger.Duration("refresh", s.refresh),
	)
	return nil
}

// Stop stops background refresh.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	_ = s.store.Close()
	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

// Reload replaces the snapshot from the source. A failed reload keeps the
// current snapshot.
func (s *Service) Reload(ctx context.Context) (*repository.Snapshot, error) {
	store, err := s.currentStore()
	if err != nil {
		return nil, err
	}
	snap, err := store.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "reload")
		s.logger.Error(ctx, "snapshot reload failed", logger.Error(err))
		return nil, err
	}
	s.logger.Info(ctx, "snapshot reloaded", logger.Int("records", snap.Dataset.Len()))
	return snap, nil
}

// Defaults returns the configured default parameters.
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Tradeoff runs the employment vs salary analysis.
func (s *Service) Tradeoff(ctx context.Context, f repository.Filter, p report.TradeoffParams) (report.TradeoffResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return report.TradeoffResult{}, err
	}
	return s.tradeoff(ctx, snap, f, p)
}

func (s *Service) tradeoff(ctx context.Context, snap *repository.Snapshot, f repository.Filter, p report.TradeoffParams) (report.TradeoffResult, error) {
	return analyze(ctx, s, snap, AnalysisTradeoff, f, func(ds model.Dataset) (report.TradeoffResult, observation, error) {
		res, err := report.Tradeoff(ds, p)
		obs := observation{runID: res.Meta.RunID, rows: res.Meta.RowsUsed, groups: len(res.Summary), dropped: res.Meta.MissingBeforeDrop}
		obs.addValue("correlation", res.Correlation)
		obs.addValue("correlation_weighted", res.CorrelationWeighted)
		if res.Trendline != nil {
			obs.addValue("trendline_r2", res.Trendline.R2)
		}
		return res, obs, err
	})
}

// RelativePerformance runs the year-normalised salary index.
func (s *Service) RelativePerformance(ctx context.Context, f repository.Filter, p report.RelativeParams) (report.RelativeResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return report.RelativeResult{}, err
	}
	return s.relative(ctx, snap, f, p)
}

func (s *Service) relative(ctx context.Context, snap *repository.Snapshot, f repository.Filter, p report.RelativeParams) (report.RelativeResult, error) {
	return analyze(ctx, s, snap, AnalysisRelative, f, func(ds model.Dataset) (report.RelativeResult, observation, error) {
		res, err := report.RelativePerformance(ds, p)
		obs := observation{runID: res.Meta.RunID, rows: res.Meta.RowsUsed, groups: res.Meta.GroupsUsed, dropped: res.Meta.Dropped}
		for _, sl := range res.Slopes {
			obs.addValue("slope_r2", sl.R2)
		}
		return res, obs, err
	})
}

// UniversityComparison runs the cross-university comparison.
func (s *Service) UniversityComparison(ctx context.Context, f repository.Filter, p report.UniversityParams) (report.UniversityResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return report.UniversityResult{}, err
	}
	return s.university(ctx, snap, f, p)
}

func (s *Service) university(ctx context.Context, snap *repository.Snapshot, f repository.Filter, p report.UniversityParams) (report.UniversityResult, error) {
	return analyze(ctx, s, snap, AnalysisUniversity, f, func(ds model.Dataset) (report.UniversityResult, observation, error) {
		res, err := report.UniversityComparison(ds, p)
		obs := observation{runID: res.Meta.RunID, rows: res.Meta.RowsUsed, groups: len(res.Meta.Universities)}
		for _, g := range res.Growth {
			obs.addValue("growth_rate", g.GrowthRate)
		}
		return res, obs, err
	})
}

// Overview runs every analysis with default parameters over the same
// snapshot. Filter f applies to all of them; the university analysis also
// applies its configured year window and minimum record count.
func (s *Service) Overview(ctx context.Context, f repository.Filter) (OverviewResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return OverviewResult{}, err
	}
	out := OverviewResult{Filters: report.Filters(snap.Dataset)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := s.tradeoff(gctx, snap, f, s.defaults.Tradeoff)
		out.Tradeoff = res
		return err
	})
	g.Go(func() error {
		res, err := s.relative(gctx, snap, f, s.defaults.Relative)
		out.Relative = res
		return err
	})
	g.Go(func() error {
		res, err := s.university(gctx, snap, MergeFilter(f, s.defaults.UniversityFilter), s.defaults.University)
		out.Universities = res
		return err
	})

	if err := g.Wait(); err != nil {
		return OverviewResult{}, err
	}
	return out, nil
}

// Filters lists the values callers can filter the current snapshot by.
func (s *Service) Filters(ctx context.Context) (report.FilterOptions, error) {
	snap, err := s.snapshot()
	if err != nil {
		return report.FilterOptions{}, err
	}
	if err := ctx.Err(); err != nil {
		return report.FilterOptions{}, err
	}
	return report.Filters(snap.Dataset), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"refresh": s.refresh.String(),
	}
	if s.source != nil {
		stats["source"] = s.source.Name()
	}
	if s.started {
		stats["records"] = s.store.Count()
		stats["loadedAt"] = s.store.LoadedAt().UTC().Format(time.RFC3339)
		metrics.UpdateSnapshotRecords(s.store.Count())
	}
	return stats
}

// MergeFilter fills the unset fields of f from def.
func MergeFilter(f, def repository.Filter) repository.Filter {
	if f.YearStart == 0 {
		f.YearStart = def.YearStart
	}
	if f.YearEnd == 0 {
		f.YearEnd = def.YearEnd
	}
	if len(f.Universities) == 0 {
		f.Universities = def.Universities
	}
	if len(f.Categories) == 0 {
		f.Categories = def.Categories
	}
	if len(f.Courses) == 0 {
		f.Courses = def.Courses
	}
	if f.MinRecordsPerUniversity <= 0 {
		f.MinRecordsPerUniversity = def.MinRecordsPerUniversity
	}
	return f
}

func (s *Service) currentStore() (*repository.SnapshotStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, repository.ErrNotLoaded
	}
	return s.store, nil
}

func (s *Service) snapshot() (*repository.Snapshot, error) {
	store, err := s.currentStore()
	if err != nil {
		return nil, err
	}
	return store.Snapshot()
}

// observation is what an analysis run reports back for logging and metrics.
type observation struct {
	runID     string
	rows      int
	groups    int
	dropped   map[string]int
	undefined []undefinedStat
}

type undefinedStat struct {
	statistic string
	reason    types.Reason
}

func (o *observation) addValue(statistic string, v types.Value) {
	if !v.IsDefined() {
		o.undefined = append(o.undefined, undefinedStat{statistic: statistic, reason: v.Reason()})
	}
}

func analyze[T any](ctx context.Context, s *Service, snap *repository.Snapshot, name string, f repository.Filter, run func(model.Dataset) (T, observation, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	start := time.Now()
	res, obs, err := run(f.Apply(snap.Dataset))
	elapsed := time.Since(start)
	metrics.RecordAnalysisLatency(name, float64(elapsed.Milliseconds()))

	if err != nil {
		outcome := "error"
		if errors.Is(err, engine.ErrMissingFields) {
			outcome = "missing_fields"
		}
		metrics.RecordAnalysis(name, outcome)
		metrics.RecordErrorByComponent("service", outcome)
		s.logger.Warn(ctx, "analysis failed", logger.String("analysis", name), logger.Error(err))
		return zero, err
	}

	metrics.RecordAnalysis(name, "success")
	metrics.UpdateAnalysisGroups(name, obs.groups)
	for field, n := range obs.dropped {
		metrics.RecordDroppedRecords(field, n)
	}
	for _, u := range obs.undefined {
		metrics.RecordUndefinedStatistic(u.statistic, string(u.reason))
	}
	s.logger.Info(ctx, "analysis finished",
		logger.String("analysis", name),
		logger.String("run_id", obs.runID),
		logger.Int("rows", obs.rows),
		logger.Int("groups", obs.groups),
		logger.Duration("duration", elapsed),
	)
	return res, nil
}
