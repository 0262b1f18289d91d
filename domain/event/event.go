package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the subscription key of the bus.
type Kind uint8

const (
	SpecialistLoaded Kind = iota + 1
	SpecialistLoadFailed
	SpecialistUnloaded
	SpecialistEvicted
	MemoryPressure
	AnalysisStarted
	AnalysisCompleted
	AnalysisDegraded
	AnalysisFailed
	SafetyCheckPassed
	SafetyCheckFailed
	ConfirmationRequested
	ConfirmationApproved
	ConfirmationDenied
	ConfirmationExpired
	EmergencyStopActivated
	EmergencyStopCleared
	WorkerRestartedAfterPanic
	PerformanceSample
	ActionExecuted
)

var kindNames = map[Kind]string{
	SpecialistLoaded:          "SPECIALIST_LOADED",
	SpecialistLoadFailed:      "SPECIALIST_LOAD_FAILED",
	SpecialistUnloaded:        "SPECIALIST_UNLOADED",
	SpecialistEvicted:         "SPECIALIST_EVICTED",
	MemoryPressure:            "MEMORY_PRESSURE",
	AnalysisStarted:           "ANALYSIS_STARTED",
	AnalysisCompleted:         "ANALYSIS_COMPLETED",
	AnalysisDegraded:          "ANALYSIS_DEGRADED",
	AnalysisFailed:            "ANALYSIS_FAILED",
	SafetyCheckPassed:         "SAFETY_CHECK_PASSED",
	SafetyCheckFailed:         "SAFETY_CHECK_FAILED",
	ConfirmationRequested:     "CONFIRMATION_REQUESTED",
	ConfirmationApproved:      "CONFIRMATION_APPROVED",
	ConfirmationDenied:        "CONFIRMATION_DENIED",
	ConfirmationExpired:       "CONFIRMATION_EXPIRED",
	EmergencyStopActivated:    "EMERGENCY_STOP_ACTIVATED",
	EmergencyStopCleared:      "EMERGENCY_STOP_CLEARED",
	WorkerRestartedAfterPanic: "WORKER_RESTARTED_AFTER_PANIC",
	PerformanceSample:         "PERFORMANCE_SAMPLE",
	ActionExecuted:            "ACTION_EXECUTED",
}

// String is only meant for logs, subscriptions use the Kind itself.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

type Source string

const (
	SYSTEM      Source = "SYSTEM"
	COMMAND     Source = "COMMAND"
	AI          Source = "AI"
	ACTION      Source = "ACTION"
	SAFETY      Source = "SAFETY"
	UI          Source = "UI"
	PERFORMANCE Source = "PERFORMANCE"
)

type Priority int

const (
	LOW Priority = iota
	NORMAL
	HIGH
	CRITICAL
)

func (p Priority) String() string {
	switch p {
	case LOW:
		return "LOW"
	case NORMAL:
		return "NORMAL"
	case HIGH:
		return "HIGH"
	case CRITICAL:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

type Event struct {
	ID            uuid.UUID
	Kind          Kind
	Source        Source
	Priority      Priority
	CreatedAt     time.Time
	Payload       any
	CorrelationID string
}

func New(kind Kind, source Source, priority Priority, payload any) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    source,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}

func (e Event) WithCorrelation(id string) Event {
	e.CorrelationID = id
	return e
}
