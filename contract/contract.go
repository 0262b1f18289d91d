//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type Detector interface {
	Detect(ctx context.Context, image []byte) ([]domain.DetectedObject, error)
}

type Matcher interface {
	Match(ctx context.Context, text string, elements []domain.DetectedObject) ([]domain.MatchResult, error)
}

// TextReader reads one region at a time so a bad region can be skipped alone.
type TextReader interface {
	Extract(ctx context.Context, image []byte, region domain.DetectedObject) (domain.ExtractedText, error)
}

type Segmenter interface {
	Segment(ctx context.Context, image []byte, prompts []domain.DetectedObject) ([]domain.Mask, error)
}

type SpecialistFactory interface {
	Create(ctx context.Context, descriptor domain.SpecialistDescriptor) (Specialist, error)
}

type SpecialistCatalog interface {
	Descriptor(name string) (domain.SpecialistDescriptor, bool)
}

type ScreenCapture interface {
	Capture(ctx context.Context) (image []byte, width, height int, err error)
}

type InputExecutor interface {
	Execute(ctx context.Context, action domain.ActionRequest) error
}

type EventPublisher interface {
	Publish(e event.Event)
}

type IEventBus interface {
	EventPublisher
	Subscribe(name string, filter event.Filter, buffer int) <-chan event.Event
	Unsubscribe(name string)
	History(limit int) []event.Event
	Close()
}

type PressureCallback func(ctx context.Context, usage domain.MemoryUsage)

type IResourceLedger interface {
	Allocate(sizeMB int64, owner string) (domain.AllocationID, error)
	Deallocate(id domain.AllocationID)
	Usage() domain.MemoryUsage
	Level() domain.PressureLevel
	RegisterPressureCallback(fn PressureCallback)
	RegisterEmergencyCallback(fn PressureCallback)
	CheckPressure(ctx context.Context) domain.PressureLevel
}

type IRegistry interface {
	Load(ctx context.Context, name string) error
	Unload(name string) error
	Get(name string) (Specialist, bool)
	ListUsage() []domain.SpecialistUsage
	EvictIdle(maxIdle time.Duration) []string
	UnloadAll() int
}

type ISafetyValidator interface {
	Validate(action domain.ActionRequest) domain.SafetyResult
	ProcessConfirmation(id string, approved bool) domain.SafetyResult
	EmergencyStop(reason string)
	ClearEmergencyStop()
	SweepExpired(now time.Time) int
}

type IOrchestrator interface {
	Process(ctx context.Context, command string, image []byte, width, height int) (domain.AnalysisResult, error)
}

type AuditRepository interface {
	SaveDecision(decision event.SafetyDecision, at time.Time) error
	SaveAnalysis(outcome event.AnalysisOutcome, at time.Time) error
	ListRecent(prefix string, limit int) ([]AuditRecord, error)
}

// AuditSearcher finds audit records by the words of their command or reason.
type AuditSearcher interface {
	Search(ctx context.Context, query, kind string, limit int) ([]AuditRecord, error)
}

type AuditRecord struct {
	Key       string
	Kind      string
	CreatedAt time.Time
	Fields    map[string]any
}
