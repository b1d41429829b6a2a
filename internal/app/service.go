// Package service runs the analysis pipeline behind the HTTP API and the CLI:
// records are normalized, summarized and turned into suggestions.
//
// Records must arrive oldest first. Gaps and recency weights read input order
// as time order; the time field is carried but never used for sorting.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/spinlens/internal/adapters/source"
	"github.com/okian/spinlens/internal/domain/model"
	"github.com/okian/spinlens/internal/domain/normalize"
	"github.com/okian/spinlens/internal/domain/stats"
	"github.com/okian/spinlens/internal/domain/suggest"
	"github.com/okian/spinlens/pkg/logger"
	"github.com/okian/spinlens/pkg/metrics"
)

// AnalyzeOptions overrides the service defaults for a single analysis.
// Zero values keep the defaults.
type AnalyzeOptions struct {
	Mapping  *model.FieldMapping
	Strategy string
	K        int
	Decay    float64
}

// Report is the full result of one analysis.
type Report struct {
	ID            string           `json:"id"`
	GeneratedAt   time.Time        `json:"generated_at"`
	Strategy      suggest.Strategy `json:"strategy"`
	K             int              `json:"k"`
	Decay         float64          `json:"decay"`
	Normalization normalize.Report `json:"normalization"`
	Stats         stats.Snapshot   `json:"stats"`
	Suggestions   suggest.Result   `json:"suggestions"`
}

// Service implements the API dependencies for spin analysis.
type Service struct {
	mu sync.RWMutex

	fetcher source.Fetcher
	source  source.Request
	mapping model.FieldMapping
	engine  *suggest.Engine
	now     func() time.Time

	// State
	reportsServed  int64
	fetchFailures  int64
	lastReportID   string
	lastReportTime time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFetcher sets the record source used by FetchAndAnalyze and Report.
func WithFetcher(f source.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSource sets the upstream request used by Report.
func WithSource(req source.Request) Option {
	return func(s *Service) {
		s.source = req
	}
}

// WithFieldMapping sets the default field mapping.
func WithFieldMapping(m model.FieldMapping) Option {
	return func(s *Service) {
		if m.Number != "" {
			s.mapping = m
		}
	}
}

// WithStrategy sets the default suggestion strategy. Unknown names are ignored.
func WithStrategy(name string) Option {
	return func(s *Service) {
		st := suggest.Strategy(strings.ToLower(strings.TrimSpace(name)))
		s.engine = rebuild(s.engine, suggest.WithDefaultStrategy(st))
	}
}

// WithK sets the default number of picks.
func WithK(k int) Option {
	return func(s *Service) {
		s.engine = rebuild(s.engine, suggest.WithK(k))
	}
}

// WithDecay sets the default recency decay.
func WithDecay(decay float64) Option {
	return func(s *Service) {
		s.engine = rebuild(s.engine, suggest.WithDecay(decay))
	}
}

// WithClock overrides the time source used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// rebuild applies opt on top of the current engine defaults.
func rebuild(e *suggest.Engine, opt suggest.Option) *suggest.Engine {
	return suggest.NewEngine(
		suggest.WithK(e.K()),
		suggest.WithDecay(e.Decay()),
		suggest.WithDefaultStrategy(e.Strategy()),
		opt,
	)
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		mapping: model.DefaultFieldMapping(),
		engine:  suggest.NewEngine(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("analysis")
	}
	if s.fetcher == nil && s.source.URL != "" {
		s.fetcher = source.NewHTTPFetcher()
	}
	return s
}

// Analyze normalizes records and produces a report. It never fails: records
// that cannot be read are dropped and an empty window yields an empty report.
func (s *Service) Analyze(ctx context.Context, records []any, opts AnalyzeOptions) Report {
	start := time.Now()

	mapping := s.mapping
	if opts.Mapping != nil && opts.Mapping.Number != "" {
		mapping = *opts.Mapping
	}
	strategy, k, decay := s.resolve(opts)

	spins, norm := normalize.NormalizeWithReport(records, mapping)
	metrics.RecordNormalization(norm.Records, norm.DroppedRecords, norm.DroppedLightning)
	if norm.DroppedRecords > 0 || norm.DroppedLightning > 0 {
		s.logger.Debug(ctx, "records dropped during normalization",
			logger.Int("records", norm.Records),
			logger.Int("droppedRecords", norm.DroppedRecords),
			logger.Int("droppedLightning", norm.DroppedLightning),
		)
	}

	snapshot := stats.Analyze(spins)
	suggestions := suggest.Suggest(spins, strategy, k, decay)

	rep := Report{
		ID:            uuid.NewString(),
		GeneratedAt:   s.now().UTC(),
		Strategy:      strategy,
		K:             k,
		Decay:         decay,
		Normalization: norm,
		Stats:         snapshot,
		Suggestions:   suggestions,
	}

	elapsed := time.Since(start)
	metrics.RecordReport(string(strategy), snapshot.TotalSpins, snapshot.LightningRate, float64(elapsed.Microseconds())/1000.0)

	s.mu.Lock()
	s.reportsServed++
	s.lastReportID = rep.ID
	s.lastReportTime = rep.GeneratedAt
	s.mu.Unlock()

	s.logger.Info(ctx, "report generated",
		logger.String("id", rep.ID),
		logger.String("strategy", string(strategy)),
		logger.Int("spins", snapshot.TotalSpins),
		logger.Any("picks", suggestions.Picks),
		logger.Duration("elapsed", elapsed),
	)
	return rep
}

// FetchAndAnalyze fetches records described by req and analyzes them.
// Only fetch failures are returned, wrapped with ErrFetch.
func (s *Service) FetchAndAnalyze(ctx context.Context, req source.Request, opts AnalyzeOptions) (Report, error) {
	if s.fetcher == nil {
		return Report{}, ErrSourceUnconfigured
	}
	records, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		s.mu.Lock()
		s.fetchFailures++
		s.mu.Unlock()
		s.logger.Error(ctx, "fetch failed",
			logger.String("url", req.URL),
			logger.Error(err),
		)
		return Report{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	s.logger.Debug(ctx, "records fetched",
		logger.String("url", req.URL),
		logger.Int("records", len(records)),
	)
	return s.Analyze(ctx, records, opts), nil
}

// Report fetches from the configured source and analyzes the result.
func (s *Service) Report(ctx context.Context, opts AnalyzeOptions) (Report, error) {
	if !s.SourceConfigured() {
		return Report{}, ErrSourceUnconfigured
	}
	return s.FetchAndAnalyze(ctx, s.source, opts)
}

// SourceConfigured reports whether Report can fetch records.
func (s *Service) SourceConfigured() bool {
	return s.fetcher != nil && s.source.URL != ""
}

// resolve merges per-call overrides with the engine defaults.
func (s *Service) resolve(opts AnalyzeOptions) (suggest.Strategy, int, float64) {
	strategy := s.engine.Strategy()
	if opts.Strategy != "" {
		strategy = suggest.ParseStrategy(opts.Strategy)
	}
	k := s.engine.K()
	if opts.K > 0 {
		k = opts.K
	}
	decay := s.engine.Decay()
	if opts.Decay > 0 && opts.Decay < 1 {
		decay = opts.Decay
	}
	return strategy, k, decay
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"reportsServed":    s.reportsServed,
		"fetchFailures":    s.fetchFailures,
		"strategy":         string(s.engine.Strategy()),
		"k":                s.engine.K(),
		"decay":            s.engine.Decay(),
		"sourceConfigured": s.fetcher != nil && s.source.URL != "",
	}
	if s.lastReportID != "" {
		out["lastReportId"] = s.lastReportID
		out["lastReportAt"] = s.lastReportTime
	}
	return out
}
