package workers

import (
	"context"
	"log/slog"
	"time"
	"vision-pilot/contract"
	"vision-pilot/observability"
)

// MemoryPressureWorker runs the ledger pressure check on every tick.
type MemoryPressureWorker struct {
	log      *slog.Logger
	ledger   contract.IResourceLedger
	metrics  *observability.Metrics
	interval time.Duration
}

func NewMemoryPressureWorker(log *slog.Logger, ledger contract.IResourceLedger, metrics *observability.Metrics, interval time.Duration) *MemoryPressureWorker {
	return &MemoryPressureWorker{log: log, ledger: ledger, metrics: metrics, interval: interval}
}

func (w *MemoryPressureWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping memory pressure checks")
			return nil
		case <-ticker.C:
			level := w.ledger.CheckPressure(ctx)
			usage := w.ledger.Usage()
			w.metrics.SetMemoryUsed(usage.CurrentMB)
			w.log.Debug("Memory pressure checked", "level", level, "current_mb", usage.CurrentMB, "budget_mb", usage.BudgetMB)
		}
	}
}

// SpecialistEvictionWorker unloads specialists idle for longer than maxIdle.
// The registry only evicts while memory is under pressure.
type SpecialistEvictionWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	metrics  *observability.Metrics
	maxIdle  time.Duration
	interval time.Duration
}

func NewSpecialistEvictionWorker(log *slog.Logger, registry contract.IRegistry, metrics *observability.Metrics, maxIdle, interval time.Duration) *SpecialistEvictionWorker {
	return &SpecialistEvictionWorker{log: log, registry: registry, metrics: metrics, maxIdle: maxIdle, interval: interval}
}

func (w *SpecialistEvictionWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if evicted := w.registry.EvictIdle(w.maxIdle); len(evicted) > 0 {
				w.log.Info("Idle specialists evicted", "names", evicted)
			}
			w.metrics.SetLoadedSpecialists(len(w.registry.ListUsage()))
		}
	}
}

// ConfirmationSweeper denies confirmations nobody answered in time.
type ConfirmationSweeper struct {
	log       *slog.Logger
	validator contract.ISafetyValidator
	interval  time.Duration
	now       func() time.Time
}

func NewConfirmationSweeper(log *slog.Logger, validator contract.ISafetyValidator, interval time.Duration) *ConfirmationSweeper {
	return &ConfirmationSweeper{log: log, validator: validator, interval: interval, now: time.Now}
}

func (w *ConfirmationSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := w.validator.SweepExpired(w.now()); n > 0 {
				w.log.Info("Confirmations expired", "count", n)
			}
		}
	}
}

// Pruner drops expired entries and says how many went.
type Pruner interface {
	PruneExpired() int
}

// CacheJanitor keeps expired analysis results from piling up between writes.
type CacheJanitor struct {
	log      *slog.Logger
	cache    Pruner
	interval time.Duration
}

func NewCacheJanitor(log *slog.Logger, cache Pruner, interval time.Duration) *CacheJanitor {
	return &CacheJanitor{log: log, cache: cache, interval: interval}
}

func (w *CacheJanitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := w.cache.PruneExpired(); n > 0 {
				w.log.Debug("Expired analyses pruned", "count", n)
			}
		}
	}
}
