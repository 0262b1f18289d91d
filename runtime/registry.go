package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
	"vision-pilot/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var _ contract.IRegistry = (*SpecialistRegistry)(nil)

var validate = validator.New()

// LoadedSpecialist owns a live specialist and its ledger reservation.
type LoadedSpecialist struct {
	Descriptor   domain.SpecialistDescriptor
	Instance     contract.Specialist
	AllocationID domain.AllocationID
	LoadedAt     time.Time

	invocations atomic.Uint64
	lastUsed    atomic.Int64
}

func (s *LoadedSpecialist) touch(now time.Time) {
	s.invocations.Add(1)
	s.lastUsed.Store(now.UnixNano())
}

func (s *LoadedSpecialist) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *LoadedSpecialist) Usage() domain.SpecialistUsage {
	return domain.SpecialistUsage{
		Name:        s.Descriptor.Name,
		Kind:        s.Descriptor.Kind,
		Device:      s.Descriptor.Device,
		MemoryMB:    s.Descriptor.MemoryMB,
		Invocations: s.invocations.Load(),
		LoadedAt:    s.LoadedAt.UnixNano(),
		LastUsedAt:  s.lastUsed.Load(),
	}
}

// keyLock is a one slot semaphore, so waiting for it can be abandoned with the context.
type keyLock chan struct{}

func (l keyLock) lock(ctx context.Context) error {
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l keyLock) unlock() {
	<-l
}

// SpecialistRegistry owns the loaded specialists. Loads are serialized per
// name through a lock table created on demand, so N concurrent loads of the
// same name run the factory once.
type SpecialistRegistry struct {
	log     *slog.Logger
	catalog contract.SpecialistCatalog
	factory contract.SpecialistFactory
	ledger  contract.IResourceLedger
	bus     contract.EventPublisher
	now     func() time.Time

	mu     sync.RWMutex
	loaded map[string]*LoadedSpecialist

	locksMu sync.Mutex
	locks   map[string]keyLock
}

func NewSpecialistRegistry(
	log *slog.Logger,
	catalog contract.SpecialistCatalog,
	factory contract.SpecialistFactory,
	ledger contract.IResourceLedger,
	bus contract.EventPublisher,
) *SpecialistRegistry {
	return &SpecialistRegistry{
		log:     log,
		catalog: catalog,
		factory: factory,
		ledger:  ledger,
		bus:     bus,
		now:     time.Now,
		loaded:  make(map[string]*LoadedSpecialist),
		locks:   make(map[string]keyLock),
	}
}

func (r *SpecialistRegistry) lockFor(name string) keyLock {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.locks[name]
	if !ok {
		l = make(keyLock, 1)
		r.locks[name] = l
	}
	return l
}

func (r *SpecialistRegistry) lookup(name string) (*LoadedSpecialist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.loaded[name]
	return s, ok
}

// Load makes name available. Memory is reserved before the factory runs and
// released again if it fails, so a failed load leaves nothing behind.
func (r *SpecialistRegistry) Load(ctx context.Context, name string) error {
	l := r.lockFor(name)
	if err := l.lock(ctx); err != nil {
		return &errors.SpecialistLoadError{Name: name, Kind: errors.LoadFailed, Err: err}
	}
	defer l.unlock()

	if _, ok := r.lookup(name); ok {
		return nil
	}

	descriptor, ok := r.catalog.Descriptor(name)
	if !ok {
		return r.fail(&errors.SpecialistLoadError{Name: name, Kind: errors.LoadNotFound})
	}
	if err := validate.Struct(descriptor); err != nil {
		return r.fail(&errors.SpecialistLoadError{Name: name, Kind: errors.LoadValidationFailed, Err: err})
	}

	allocationID, err := r.ledger.Allocate(descriptor.MemoryMB, name)
	if err != nil {
		return r.fail(&errors.SpecialistLoadError{Name: name, Kind: errors.LoadFailed, Err: err})
	}

	instance, err := r.factory.Create(ctx, descriptor)
	if err != nil {
		r.ledger.Deallocate(allocationID)
		kind := errors.LoadFailed
		if errors.Is(err, errors.ErrDeviceInitFailed) {
			kind = errors.LoadDeviceInitFailed
		}
		return r.fail(&errors.SpecialistLoadError{Name: name, Kind: kind, Err: err})
	}
	if instance.IsZero() || instance.Kind() != descriptor.Kind {
		r.ledger.Deallocate(allocationID)
		_ = instance.Close()
		return r.fail(&errors.SpecialistLoadError{
			Name: name,
			Kind: errors.LoadFailed,
			Err:  fmt.Errorf("%w: want %s, got %q", errors.ErrSpecialistKind, descriptor.Kind, instance.Kind()),
		})
	}

	now := r.now()
	loaded := &LoadedSpecialist{
		Descriptor:   descriptor,
		Instance:     instance,
		AllocationID: allocationID,
		LoadedAt:     now,
	}
	loaded.lastUsed.Store(now.UnixNano())

	r.mu.Lock()
	r.loaded[name] = loaded
	r.mu.Unlock()

	r.log.Info("Specialist loaded", "name", name, "kind", descriptor.Kind, "memory_mb", descriptor.MemoryMB)
	r.bus.Publish(event.New(event.SpecialistLoaded, event.AI, event.NORMAL, event.SpecialistLifecycle{
		Name:     name,
		Kind:     descriptor.Kind,
		MemoryMB: descriptor.MemoryMB,
	}))
	return nil
}

func (r *SpecialistRegistry) fail(err *errors.SpecialistLoadError) error {
	r.log.Warn("Specialist load failed", "name", err.Name, "kind", err.Kind, "error", err.Err)
	r.bus.Publish(event.New(event.SpecialistLoadFailed, event.AI, event.HIGH, event.SpecialistLifecycle{
		Name:   err.Name,
		Reason: err.Error(),
	}))
	return err
}

// Get returns the live instance of name and counts the use.
func (r *SpecialistRegistry) Get(name string) (contract.Specialist, bool) {
	s, ok := r.lookup(name)
	if !ok {
		return contract.Specialist{}, false
	}
	s.touch(r.now())
	return s.Instance, true
}

func (r *SpecialistRegistry) Loaded(name string) (*LoadedSpecialist, bool) {
	return r.lookup(name)
}

func (r *SpecialistRegistry) Unload(name string) error {
	if !r.unload(name, event.SpecialistUnloaded, "unloaded") {
		return fmt.Errorf("%w: %s", errors.ErrSpecialistNotLoaded, name)
	}
	return nil
}

// unload waits for an in-flight load of the same name, then releases the
// ledger entry before the instance is dropped.
func (r *SpecialistRegistry) unload(name string, kind event.Kind, reason string) bool {
	l := r.lockFor(name)
	_ = l.lock(context.Background())
	defer l.unlock()

	r.mu.Lock()
	s, ok := r.loaded[name]
	if ok {
		delete(r.loaded, name)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}

	r.ledger.Deallocate(s.AllocationID)
	if err := s.Instance.Close(); err != nil {
		r.log.Warn("Error while closing specialist", "name", name, "error", err)
	}
	r.log.Info("Specialist released", "name", name, "reason", reason)
	r.bus.Publish(event.New(kind, event.AI, event.NORMAL, event.SpecialistLifecycle{
		Name:     name,
		Kind:     s.Descriptor.Kind,
		MemoryMB: s.Descriptor.MemoryMB,
		Reason:   reason,
	}))
	return true
}

func (r *SpecialistRegistry) ListUsage() []domain.SpecialistUsage {
	r.mu.RLock()
	usage := lo.MapToSlice(r.loaded, func(_ string, s *LoadedSpecialist) domain.SpecialistUsage {
		return s.Usage()
	})
	r.mu.RUnlock()
	sort.Slice(usage, func(i, j int) bool { return usage[i].Name < usage[j].Name })
	return usage
}

// EvictIdle unloads the specialists unused for longer than maxIdle, only
// while the ledger reports pressure.
func (r *SpecialistRegistry) EvictIdle(maxIdle time.Duration) []string {
	if r.ledger.Level() == domain.NORMAL {
		return nil
	}
	cutoff := r.now().Add(-maxIdle)

	r.mu.RLock()
	idle := lo.Filter(lo.Values(r.loaded), func(s *LoadedSpecialist, _ int) bool {
		return s.LastUsed().Before(cutoff)
	})
	r.mu.RUnlock()

	var evicted []string
	for _, s := range idle {
		if r.unload(s.Descriptor.Name, event.SpecialistEvicted, fmt.Sprintf("idle for more than %s", maxIdle)) {
			evicted = append(evicted, s.Descriptor.Name)
		}
	}
	return evicted
}

// EvictLeastRecentlyUsed is the ledger pressure callback: it drops the specialist used the longest time ago.
func (r *SpecialistRegistry) EvictLeastRecentlyUsed(_ context.Context, usage domain.MemoryUsage) {
	r.mu.RLock()
	candidates := lo.Values(r.loaded)
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return
	}
	lru := lo.MinBy(candidates, func(a, b *LoadedSpecialist) bool {
		return a.lastUsed.Load() < b.lastUsed.Load()
	})
	reason := fmt.Sprintf("memory pressure %d/%dMB", usage.CurrentMB, usage.BudgetMB)
	r.unload(lru.Descriptor.Name, event.SpecialistEvicted, reason)
}

func (r *SpecialistRegistry) UnloadAll() int {
	r.mu.RLock()
	names := lo.Keys(r.loaded)
	r.mu.RUnlock()

	count := 0
	for _, name := range names {
		if r.unload(name, event.SpecialistUnloaded, "unload all") {
			count++
		}
	}
	return count
}
