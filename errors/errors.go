package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrInvalidPayload = fmt.Errorf("invalid event payload")

	ErrInsufficientMemory = fmt.Errorf("insufficient memory")
	ErrInvalidAllocation  = fmt.Errorf("invalid allocation size")

	ErrSpecialistNotFound    = fmt.Errorf("specialist not found")
	ErrSpecialistLoadFailed  = fmt.Errorf("specialist load failed")
	ErrDeviceInitFailed      = fmt.Errorf("device init failed")
	ErrSpecialistValidation  = fmt.Errorf("specialist descriptor validation failed")
	ErrSpecialistNotLoaded   = fmt.Errorf("specialist not loaded")
	ErrSpecialistKind        = fmt.Errorf("specialist does not provide the requested capability")
	ErrSpecialistStartFailed = fmt.Errorf("specialist process failed to start")
	ErrSpecialistUnavailable = fmt.Errorf("specialist unavailable")

	ErrStageTimeout         = fmt.Errorf("stage timeout")
	ErrCriticalStageFailed  = fmt.Errorf("critical stage failed")
	ErrWholePipelineTimeout = fmt.Errorf("whole pipeline timeout")
	ErrEmptyCommand         = fmt.Errorf("command is empty")
	ErrInvalidImage         = fmt.Errorf("invalid image")

	ErrRateLimited         = fmt.Errorf("rate limit exceeded")
	ErrEmergencyStopActive = fmt.Errorf("emergency stop active")
	ErrUnknownConfirmation = fmt.Errorf("unknown confirmation")
	ErrInvalidAction       = fmt.Errorf("invalid action request")
	ErrEmptyKeywords       = fmt.Errorf("no blocked keyword found")
	ErrActionNotAllowed    = fmt.Errorf("action not allowed")
	ErrNoExecutor          = fmt.Errorf("no input executor configured")
	ErrUnknownCleanup      = fmt.Errorf("unknown emergency cleanup action")

	ErrWeakSecret = fmt.Errorf("sidecar secret is too weak")
)

// InsufficientMemoryError is returned by the ledger when a grant would exceed the budget.
type InsufficientMemoryError struct {
	Required  int64
	Available int64
}

func (e *InsufficientMemoryError) Error() string {
	return fmt.Sprintf("%v: required %dMB, available %dMB", ErrInsufficientMemory, e.Required, e.Available)
}

func (e *InsufficientMemoryError) Unwrap() error {
	return ErrInsufficientMemory
}

type LoadFailureKind string

const (
	LoadNotFound         LoadFailureKind = "NOT_FOUND"
	LoadFailed           LoadFailureKind = "LOAD_FAILED"
	LoadDeviceInitFailed LoadFailureKind = "DEVICE_INIT_FAILED"
	LoadValidationFailed LoadFailureKind = "VALIDATION_FAILED"
)

// SpecialistLoadError names the specialist and the reason a load was refused.
type SpecialistLoadError struct {
	Name string
	Kind LoadFailureKind
	Err  error
}

func (e *SpecialistLoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("loading %s: %s", e.Name, e.Kind)
	}
	return fmt.Sprintf("loading %s: %s: %v", e.Name, e.Kind, e.Err)
}

func (e *SpecialistLoadError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *SpecialistLoadError) sentinel() error {
	switch e.Kind {
	case LoadNotFound:
		return ErrSpecialistNotFound
	case LoadDeviceInitFailed:
		return ErrDeviceInitFailed
	case LoadValidationFailed:
		return ErrSpecialistValidation
	default:
		return ErrSpecialistLoadFailed
	}
}

type PipelineFailureKind string

const (
	StageTimeout         PipelineFailureKind = "STAGE_TIMEOUT"
	CriticalStageFailed  PipelineFailureKind = "CRITICAL_STAGE_FAILED"
	WholePipelineTimeout PipelineFailureKind = "WHOLE_PIPELINE_TIMEOUT"
)

// PipelineError is surfaced when a stage fails and no fallback is allowed.
type PipelineError struct {
	Kind  PipelineFailureKind
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("pipeline %s at stage %s", e.Kind, e.Stage)
	}
	return fmt.Sprintf("pipeline %s at stage %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case StageTimeout:
		sentinel = ErrStageTimeout
	case WholePipelineTimeout:
		sentinel = ErrWholePipelineTimeout
	default:
		sentinel = ErrCriticalStageFailed
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// Is, As and Join are re-exported so callers importing this package under
// its own name keep access to the standard helpers.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
	New  = errors.New
)
