package event

import (
	"fmt"
	"log/slog"
	"sync"
	"vision-pilot/errors"
)

// Handler Each kind of event has his own handler
// Based on the Chain of responsibility pattern
type Handler interface {
	Handle(event Event)
}

type Counter struct {
	mu     sync.Mutex
	counts map[Kind]int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[Kind]int)}
}

func (c *Counter) Increment(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[kind]++
}

func (c *Counter) Get(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind]
}

// LogHandler writes every event it receives, louder as the priority grows.
type LogHandler struct {
	log *slog.Logger
}

func NewLogHandler(log *slog.Logger) *LogHandler {
	return &LogHandler{log: log}
}

func (h LogHandler) Handle(e Event) {
	attrs := []any{
		"kind", e.Kind.String(),
		"source", e.Source,
		"priority", e.Priority.String(),
		"id", e.ID.String(),
	}
	if e.CorrelationID != "" {
		attrs = append(attrs, "correlation_id", e.CorrelationID)
	}
	switch {
	case e.Priority >= CRITICAL:
		h.log.Error("event", attrs...)
	case e.Priority == HIGH:
		h.log.Warn("event", attrs...)
	default:
		h.log.Debug("event", attrs...)
	}
}

// WorkerRestartedHandler handles events when a worker panics and is restarted.
type WorkerRestartedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewWorkerRestartedHandler(log *slog.Logger, counter *Counter) *WorkerRestartedHandler {
	return &WorkerRestartedHandler{log: log, counter: counter}
}

func (h *WorkerRestartedHandler) Handle(e Event) {
	switch e.Kind {
	case WorkerRestartedAfterPanic:
		payload, ok := e.Payload.(WorkerRestarted)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(WorkerRestartedAfterPanic)
		h.log.Debug(fmt.Sprintf("Worker %s restarted after panic, total: %d",
			payload.WorkerName, h.counter.Get(WorkerRestartedAfterPanic)))
	}
}

type ProcessSampleHandler struct {
	log            *slog.Logger
	maxHostUsedPct float64
}

func NewProcessSampleHandler(log *slog.Logger, maxHostUsedPct float64) *ProcessSampleHandler {
	return &ProcessSampleHandler{log: log, maxHostUsedPct: maxHostUsedPct}
}

func (h ProcessSampleHandler) Handle(e Event) {
	switch e.Kind {
	case PerformanceSample:
		payload, ok := e.Payload.(ProcessSample)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.log.Debug(fmt.Sprintf(" [%s] | PID %d | STATUS %s | CPU %.2f%% | RSS %dMB",
			payload.Name, payload.PID, payload.Status, payload.CPUPercent, payload.RSSMB))
		if h.maxHostUsedPct > 0 && payload.HostUsedPct >= h.maxHostUsedPct {
			h.log.Warn("host memory is running low", "used_pct", payload.HostUsedPct)
		}
	}
}

// SafetyHandler reports blocked actions and confirmation outcomes.
type SafetyHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewSafetyHandler(log *slog.Logger, counter *Counter) *SafetyHandler {
	return &SafetyHandler{log: log, counter: counter}
}

func (h *SafetyHandler) Handle(e Event) {
	switch e.Kind {
	case SafetyCheckFailed, ConfirmationDenied, ConfirmationExpired, ConfirmationApproved, ConfirmationRequested:
		payload, ok := e.Payload.(SafetyDecision)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(e.Kind)
		h.log.Info("safety decision",
			"kind", e.Kind.String(),
			"action_id", payload.ActionID,
			"risk", payload.Risk.String(),
			"reason", payload.Reason,
			"total", h.counter.Get(e.Kind))
	case EmergencyStopActivated, EmergencyStopCleared:
		payload, ok := e.Payload.(EmergencyStop)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(e.Kind)
		h.log.Warn(fmt.Sprintf("%s: %s", e.Kind, payload.Reason), "cleared_confirmations", payload.Cleared)
	}
}
