// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/rosterbias/internal/adapters/dto"
	"github.com/okian/rosterbias/internal/adapters/repository"
	"github.com/okian/rosterbias/internal/config"
	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/estimator"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/internal/domain/random"
	"github.com/okian/rosterbias/internal/domain/solver"
	"github.com/okian/rosterbias/pkg/logger"
	"github.com/okian/rosterbias/pkg/metrics"

	"github.com/google/uuid"
)

// ErrNotStarted is returned by calls made before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the roster solver.
type Service struct {
	mu sync.RWMutex
	// solveMu serializes solver access so draws happen in a stable order.
	solveMu sync.Mutex

	// Core components
	cfg       *config.Config
	catalog   *catalog.Catalog
	estimator *estimator.Estimator
	store     repository.Store
	source    random.Source
	solves    int64

	// State
	started   bool
	startedAt time.Time
	stopCh    chan struct{}
	done      chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. Defaults come from config.New.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithCatalog uses cat instead of loading one at Start.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = cat
	}
}

// WithStore replaces the in-memory result store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSource pins the percentile source for every solve. Results then
// record a zero seed.
func WithSource(src random.Source) Option {
	return func(s *Service) {
		s.source = src
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
	s := &Service{
		cfg: config.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog, builds the solver components and starts the
// system metrics loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting roster service...")

	if s.catalog == nil {
		cat, err := loadCatalog(s.cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		s.catalog = cat
	}
	s.estimator = estimator.New(estimator.WithCacheSize(s.cfg.EstimatorCacheSize))
	if s.store == nil {
		s.store = repository.NewMemoryStore(
			repository.WithCapacity(s.cfg.ResultStoreSize),
			repository.WithLogger(s.logger.Named("store")),
		)
	}
	metrics.SetEnabled(s.cfg.MetricsEnabled)

	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.refreshSystemMetrics(metrics.Default().RefreshInterval())

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "roster service started",
		logger.Int("skills", len(s.catalog.Skills())),
		logger.Float64("pointsBudget", s.cfg.PointsBudget),
		logger.Int("resultStoreSize", s.cfg.ResultStoreSize),
		logger.String("catalog", catalogName(s.cfg.CatalogPath)),
	)
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func catalogName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping roster service...")

	close(s.stopCh)
	<-s.done

	s.started = false
	s.logger.Info(context.Background(), "roster service stopped")
}

func (s *Service) refreshSystemMetrics(interval time.Duration) {
	defer close(s.done)
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var mem runtime.MemStats
	for {
		runtime.ReadMemStats(&mem)
		metrics.UpdateSystemMemoryUsage(mem.Alloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
		}
	}
}

// Catalog returns the loaded catalog, or nil before Start.
func (s *Service) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Solve runs a team solve, stores the result and returns it with its id.
func (s *Service) Solve(ctx context.Context, req dto.SolveRequest) (dto.SolveResponse, error) {
	cat, err := s.running()
	if err != nil {
		return dto.SolveResponse{}, err
	}
	team, err := req.ToDomain(cat)
	if err != nil {
		metrics.RecordSolve(metrics.OutcomeError, 0)
		return dto.SolveResponse{}, err
	}
	if len(team.Categories) == 0 {
		team.Categories = s.cfg.DefaultCategories
	}

	start := time.Now()
	s.solveMu.Lock()
	seed, engine := s.solver(cat)
	res, err := engine.Solve(ctx, team)
	s.solveMu.Unlock()
	elapsed := time.Since(start)
	latency := float64(elapsed.Microseconds()) / 1000
	if err != nil {
		metrics.RecordSolve(metrics.OutcomeError, latency)
		return dto.SolveResponse{}, err
	}
	metrics.RecordSolve(metrics.OutcomeOK, latency)

	rec := repository.Record{
		ID:        uuid.NewString(),
		CreatedAt: start.UTC(),
		Duration:  elapsed,
		Seed:      seed,
		Result:    res,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return dto.SolveResponse{}, fmt.Errorf("store result: %w", err)
	}
	s.logger.Info(ctx, "team solved",
		logger.String("id", rec.ID),
		logger.Int("slots", len(team.Slots)),
		logger.Int("failures", len(res.Failures)),
		logger.Int("unmet", len(res.Unmet)),
		logger.Duration("took", elapsed),
	)
	return dto.FromRecord(rec, cat), nil
}

// Result returns a stored solve by id.
func (s *Service) Result(ctx context.Context, id string) (dto.SolveResponse, error) {
	cat, err := s.running()
	if err != nil {
		return dto.SolveResponse{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return dto.SolveResponse{}, err
	}
	return dto.FromRecord(rec, cat), nil
}

// AssignOne picks and finalizes a background for a single slot.
func (s *Service) AssignOne(ctx context.Context, req dto.AssignRequest) (dto.AssignResponse, error) {
	cat, err := s.running()
	if err != nil {
		return dto.AssignResponse{}, err
	}
	in, scorer, err := req.ToDomain(cat)
	if err != nil {
		metrics.RecordAssign(metrics.OutcomeError)
		return dto.AssignResponse{}, err
	}
	if len(in.Categories) == 0 {
		in.Categories = s.cfg.DefaultCategories
	}

	s.solveMu.Lock()
	_, engine := s.solver(cat)
	out, err := engine.AssignOne(ctx, in, scorer)
	s.solveMu.Unlock()
	if err != nil {
		metrics.RecordAssign(metrics.OutcomeError)
		return dto.AssignResponse{}, err
	}
	metrics.RecordAssign(metrics.OutcomeOK)
	return dto.FromAssignment(out, cat), nil
}

// solver builds a Solver for one call. Callers hold solveMu.
func (s *Service) solver(cat *catalog.Catalog) (int64, *solver.Solver) {
	s.solves++
	src, seed := s.source, int64(0)
	if src == nil {
		seed = s.cfg.Seed + s.solves
		if s.cfg.Seed == 0 {
			seed = time.Now().UnixNano()
		}
		src = random.NewSeeded(seed)
	}
	return seed, solver.New(cat, cat, cat,
		solver.WithSource(src),
		solver.WithEstimator(s.estimator),
		solver.WithLogger(s.logger.Named("solver")),
		solver.WithPointsBudget(s.cfg.PointsBudget),
		solver.WithVariation(model.FloatRange{Min: s.cfg.VariationMin, Max: s.cfg.VariationMax}),
		solver.WithAgeRange(model.FloatRange{Min: s.cfg.AgeMin, Max: s.cfg.AgeMax}),
		solver.WithMaxCandidates(s.cfg.MaxCandidates),
	)
}

func (s *Service) running() (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.catalog, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"pointsBudget": s.cfg.PointsBudget,
		"storeSize":    s.cfg.ResultStoreSize,
	}
	if s.started {
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
		stats["storedResults"] = s.store.Count(context.Background())
		stats["skills"] = len(s.catalog.Skills())
	}
	return stats
}
