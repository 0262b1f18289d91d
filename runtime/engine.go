package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
	"vision-pilot/errors"
	"vision-pilot/internal"
	"vision-pilot/observability"
	"vision-pilot/runtime/workers"
	"vision-pilot/safety"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	CleanupUnloadSpecialists = "unload_specialists"
	CleanupPurgeCache        = "purge_cache"

	maxHostUsedPct = 90
)

// Deps are the collaborators the engine does not build itself.
type Deps struct {
	Catalog  contract.SpecialistCatalog
	Factory  contract.SpecialistFactory
	Executor contract.InputExecutor
	Audit    contract.AuditRepository
	// Metrics registry, a private one is created when nil.
	Prometheus *prometheus.Registry
	Handlers   []event.Handler
}

// Engine is the service context: it owns every long-lived component and
// their background workers. Build one per process with NewEngine.
type Engine struct {
	log    *slog.Logger
	config internal.Config

	Bus          *EventBus
	Ledger       *ResourceLedger
	Registry     *SpecialistRegistry
	Cache        *AnalysisCache
	Orchestrator *Orchestrator
	Safety       *safety.Validator
	Stats        *observability.PipelineStats
	Metrics      *observability.Metrics
	Prometheus   *prometheus.Registry
	Health       *workers.HealthMonitoringWorker
	Counter      *event.Counter

	executor   contract.InputExecutor
	audit      contract.AuditRepository
	handlers   []event.Handler
	supervisor *workers.Supervisor

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	cleanup []func() int
}

func NewEngine(log *slog.Logger, config internal.Config, deps Deps) (*Engine, error) {
	if deps.Catalog == nil || deps.Factory == nil {
		return nil, fmt.Errorf("engine needs a specialist catalog and factory")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	reg := deps.Prometheus
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	e := &Engine{
		log:        log,
		config:     config,
		Bus:        NewEventBus(log, config.HistorySize),
		Stats:      observability.NewPipelineStats(),
		Metrics:    observability.NewMetrics(reg),
		Prometheus: reg,
		Counter:    event.NewCounter(),
		Cache:      NewAnalysisCache(config.CacheTTL, config.CacheSize),
		executor:   deps.Executor,
		audit:      deps.Audit,
		handlers:   deps.Handlers,
	}
	e.Ledger = NewResourceLedger(log, e.Bus, config.MemoryBudgetMB, config.PressureSoftThreshold, config.PressureEmergencyThreshold)
	e.Registry = NewSpecialistRegistry(log, deps.Catalog, deps.Factory, e.Ledger, e.Bus)
	e.supervisor = workers.NewSupervisor(log, e.Bus)
	e.Health = workers.NewHealthMonitoringWorker(log, e.Bus, config.HealthInterval)

	opts := safety.NewOptions(config)
	if set, err := safety.DefaultKeywordLoader().LoadAll("dictionaries"); err == nil {
		opts.BlockedKeywords = lo.Uniq(append(opts.BlockedKeywords, set.Words...))
		log.Debug("Blocked keyword dictionaries loaded", "languages", set.Languages, "words", len(set.Words))
	} else {
		log.Warn("No blocked keyword dictionary", "error", err)
	}
	validator, err := safety.NewValidator(log, e.Bus, e.Metrics, opts)
	if err != nil {
		return nil, err
	}
	e.Safety = validator
	e.Orchestrator = NewOrchestrator(log, NewPipelineConfig(config), e.Registry, e.Bus, e.Cache, e.Stats, e.Metrics, e.Safety)

	for _, action := range config.EmergencyCleanupList() {
		switch action {
		case CleanupUnloadSpecialists:
			e.cleanup = append(e.cleanup, e.Registry.UnloadAll)
		case CleanupPurgeCache:
			e.cleanup = append(e.cleanup, e.Cache.Purge)
		default:
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownCleanup, action)
		}
	}
	e.Ledger.RegisterPressureCallback(e.Registry.EvictLeastRecentlyUsed)
	e.Ledger.RegisterEmergencyCallback(func(_ context.Context, usage domain.MemoryUsage) {
		e.emergencyCleanup(fmt.Sprintf("critical memory pressure %d/%dMB", usage.CurrentMB, usage.BudgetMB))
	})
	e.Safety.OnEmergencyStop(e.emergencyCleanup)
	return e, nil
}

func (e *Engine) emergencyCleanup(reason string) {
	released := 0
	for _, fn := range e.cleanup {
		released += fn()
	}
	e.log.Warn("Emergency cleanup done", "reason", reason, "released", released)
}

// Preload loads names concurrently. Every failure is reported, a failed
// name does not stop the others.
func (e *Engine) Preload(ctx context.Context, names ...string) error {
	var mu sync.Mutex
	var errs []error
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			if err := e.Registry.Load(ctx, name); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Start preloads the pipeline specialists and runs the background workers
// until Shutdown or ctx is done. Extra workers join the same supervisor.
func (e *Engine) Start(ctx context.Context, extra ...contract.Worker) {
	names := lo.Compact([]string{e.config.DetectorName, e.config.MatcherName, e.config.ReaderName, e.config.SegmenterName})
	if err := e.Preload(ctx, names...); err != nil {
		e.log.Warn("Some specialists could not be preloaded", "error", err)
	}

	handlers := append([]event.Handler{
		event.NewWorkerRestartedHandler(e.log, e.Counter),
		event.NewProcessSampleHandler(e.log, maxHostUsedPct),
		event.NewSafetyHandler(e.log, e.Counter),
	}, e.handlers...)

	e.supervisor.Add(
		workers.NewTelemetryWorker(e.log, e.Bus, e.audit, e.config.BusBuffer, handlers...),
		workers.NewMemoryPressureWorker(e.log, e.Ledger, e.Metrics, e.config.PressureInterval),
		workers.NewSpecialistEvictionWorker(e.log, e.Registry, e.Metrics, e.config.EvictionIdleAge, e.config.EvictionInterval),
		workers.NewConfirmationSweeper(e.log, e.Safety, e.config.SweepInterval),
		workers.NewCacheJanitor(e.log, e.Cache, e.config.CacheJanitorPeriod),
		e.Health,
	).Add(extra...)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.mu.Lock()
	e.cancel, e.done = cancel, done
	e.mu.Unlock()

	go func() {
		defer close(done)
		e.supervisor.Run(runCtx)
	}()
	e.log.Info("Engine started", "specialists", len(e.Registry.ListUsage()), "budget_mb", e.config.MemoryBudgetMB)
}

// Shutdown stops the workers, unloads every specialist and closes the bus.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	unloaded := e.Registry.UnloadAll()
	e.Bus.Close()
	e.log.Info("Engine stopped", "unloaded", unloaded)
}

func (e *Engine) Analyze(ctx context.Context, command string, image []byte, width, height int) (domain.AnalysisResult, error) {
	return e.Orchestrator.Process(ctx, command, image, width, height)
}

func (e *Engine) Propose(result domain.AnalysisResult, command string) (domain.ActionRequest, domain.SafetyResult) {
	return e.Orchestrator.ProposeAction(result, command)
}

// Execute hands an approved action to the input executor.
func (e *Engine) Execute(ctx context.Context, action domain.ActionRequest, verdict domain.SafetyResult) error {
	if !verdict.Allowed {
		return fmt.Errorf("%w: %s", errors.ErrActionNotAllowed, verdict.Reason)
	}
	if e.executor == nil {
		return errors.ErrNoExecutor
	}

	outcome := event.ActionOutcome{ActionID: action.ID, Kind: action.Kind}
	if best, ok := lo.First(action.Targets); ok {
		outcome.Point = best.Point
	}
	err := e.executor.Execute(ctx, action)
	priority := event.NORMAL
	if err != nil {
		outcome.Err = err.Error()
		priority = event.HIGH
	}
	e.Bus.Publish(event.New(event.ActionExecuted, event.ACTION, priority, outcome).WithCorrelation(action.ID))
	return err
}

func (e *Engine) Confirm(id string, approved bool) domain.SafetyResult {
	return e.Safety.ProcessConfirmation(id, approved)
}

func (e *Engine) EmergencyStop(reason string) {
	e.Safety.EmergencyStop(reason)
}

func (e *Engine) ClearEmergencyStop() {
	e.Safety.ClearEmergencyStop()
}

// Track hands a sidecar process to the health monitor.
func (e *Engine) Track(proc domain.Process) {
	e.Health.Track(proc)
}
