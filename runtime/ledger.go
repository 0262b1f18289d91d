package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
	"vision-pilot/errors"

	"github.com/google/uuid"
)

var _ contract.IResourceLedger = (*ResourceLedger)(nil)

// ResourceLedger is the single source of truth for the memory the orchestrator has promised.
// It is advisory accounting: it keeps the core from over-committing, nothing more.
type ResourceLedger struct {
	mu          sync.Mutex
	log         *slog.Logger
	bus         contract.EventPublisher
	budgetMB    int64
	currentMB   int64
	allocations map[domain.AllocationID]domain.MemoryAllocation

	softThreshold      float64
	emergencyThreshold float64

	cbMu               sync.RWMutex
	pressureCallbacks  []contract.PressureCallback
	emergencyCallbacks []contract.PressureCallback
}

func NewResourceLedger(log *slog.Logger, bus contract.EventPublisher, budgetMB int64, softThreshold, emergencyThreshold float64) *ResourceLedger {
	return &ResourceLedger{
		log:                log,
		bus:                bus,
		budgetMB:           budgetMB,
		allocations:        make(map[domain.AllocationID]domain.MemoryAllocation),
		softThreshold:      softThreshold,
		emergencyThreshold: emergencyThreshold,
	}
}

// Allocate grants sizeMB to owner or fails without touching the current usage.
func (l *ResourceLedger) Allocate(sizeMB int64, owner string) (domain.AllocationID, error) {
	if sizeMB <= 0 {
		return "", errors.ErrInvalidAllocation
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.budgetMB - l.currentMB
	if sizeMB > available {
		return "", &errors.InsufficientMemoryError{Required: sizeMB, Available: available}
	}

	id := domain.AllocationID(uuid.NewString())
	l.allocations[id] = domain.MemoryAllocation{
		ID:          id,
		SizeMB:      sizeMB,
		Owner:       owner,
		AllocatedAt: time.Now(),
	}
	l.currentMB += sizeMB
	l.log.Debug("Memory allocated", "owner", owner, "size_mb", sizeMB, "current_mb", l.currentMB)
	return id, nil
}

// Deallocate is safe to call twice, an unknown id is only logged.
func (l *ResourceLedger) Deallocate(id domain.AllocationID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	allocation, ok := l.allocations[id]
	if !ok {
		l.log.Warn("Deallocating unknown allocation", "id", id)
		return
	}
	delete(l.allocations, id)
	l.currentMB -= allocation.SizeMB
	l.log.Debug("Memory released", "owner", allocation.Owner, "size_mb", allocation.SizeMB, "current_mb", l.currentMB)
}

func (l *ResourceLedger) Usage() domain.MemoryUsage {
	l.mu.Lock()
	defer l.mu.Unlock()

	perOwner := make(map[string]int64)
	for _, a := range l.allocations {
		perOwner[a.Owner] += a.SizeMB
	}
	return domain.MemoryUsage{
		CurrentMB:   l.currentMB,
		AvailableMB: l.budgetMB - l.currentMB,
		BudgetMB:    l.budgetMB,
		PerOwner:    perOwner,
		Allocations: len(l.allocations),
	}
}

func (l *ResourceLedger) Level() domain.PressureLevel {
	return l.levelOf(l.Usage().Ratio())
}

func (l *ResourceLedger) levelOf(ratio float64) domain.PressureLevel {
	switch {
	case ratio >= l.emergencyThreshold:
		return domain.CRITICAL_PRESSURE
	case ratio >= l.softThreshold:
		return domain.HIGH_PRESSURE
	default:
		return domain.NORMAL
	}
}

func (l *ResourceLedger) RegisterPressureCallback(fn contract.PressureCallback) {
	l.cbMu.Lock()
	defer l.cbMu.Unlock()
	l.pressureCallbacks = append(l.pressureCallbacks, fn)
}

func (l *ResourceLedger) RegisterEmergencyCallback(fn contract.PressureCallback) {
	l.cbMu.Lock()
	defer l.cbMu.Unlock()
	l.emergencyCallbacks = append(l.emergencyCallbacks, fn)
}

// CheckPressure runs the cleanup callbacks above the soft threshold, and the
// emergency ones too above the emergency threshold. Callbacks run without the
// ledger lock held since they usually deallocate.
func (l *ResourceLedger) CheckPressure(ctx context.Context) domain.PressureLevel {
	usage := l.Usage()
	level := l.levelOf(usage.Ratio())
	if level == domain.NORMAL {
		return level
	}

	l.log.Warn("Memory pressure", "level", level, "current_mb", usage.CurrentMB, "budget_mb", usage.BudgetMB)
	l.bus.Publish(event.New(event.MemoryPressure, event.PERFORMANCE, priorityOf(level), event.MemoryPressureSample{
		Level:     level,
		Ratio:     usage.Ratio(),
		CurrentMB: usage.CurrentMB,
		BudgetMB:  usage.BudgetMB,
	}))

	l.cbMu.RLock()
	pressure := append([]contract.PressureCallback(nil), l.pressureCallbacks...)
	emergency := append([]contract.PressureCallback(nil), l.emergencyCallbacks...)
	l.cbMu.RUnlock()

	for _, fn := range pressure {
		if ctx.Err() != nil {
			return level
		}
		fn(ctx, usage)
	}
	if level == domain.CRITICAL_PRESSURE {
		for _, fn := range emergency {
			fn(ctx, l.Usage())
		}
	}
	return l.Level()
}

func priorityOf(level domain.PressureLevel) event.Priority {
	if level == domain.CRITICAL_PRESSURE {
		return event.CRITICAL
	}
	return event.HIGH
}
