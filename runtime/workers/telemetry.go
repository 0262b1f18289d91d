package workers

import (
	"context"
	"log/slog"
	"vision-pilot/contract"
	"vision-pilot/domain/event"
)

const telemetrySubscriber = "telemetry"

// TelemetryWorker drains a bus subscription into the event handlers and
// writes safety decisions and analysis outcomes to the audit store.
type TelemetryWorker struct {
	log      *slog.Logger
	bus      contract.IEventBus
	audit    contract.AuditRepository
	handlers []event.Handler
	buffer   int
}

// NewTelemetryWorker accepts a nil audit repository, nothing is stored then.
func NewTelemetryWorker(log *slog.Logger, bus contract.IEventBus, audit contract.AuditRepository, buffer int, handlers ...event.Handler) *TelemetryWorker {
	return &TelemetryWorker{log: log, bus: bus, audit: audit, handlers: handlers, buffer: buffer}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	events := w.bus.Subscribe(telemetrySubscriber, event.Filter{}, w.buffer)
	defer w.bus.Unsubscribe(telemetrySubscriber)

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				w.log.Debug("Event bus closed, stopping telemetry")
				return nil
			}
			w.handle(evt)
		}
	}
}

func (w *TelemetryWorker) handle(evt event.Event) {
	for _, h := range w.handlers {
		h.Handle(evt)
	}
	if w.audit == nil {
		return
	}

	var err error
	switch payload := evt.Payload.(type) {
	case event.SafetyDecision:
		err = w.audit.SaveDecision(payload, evt.CreatedAt)
	case event.AnalysisOutcome:
		if evt.Kind != event.AnalysisStarted {
			err = w.audit.SaveAnalysis(payload, evt.CreatedAt)
		}
	}
	if err != nil {
		w.log.Error("Audit write failed", "kind", evt.Kind.String(), "error", err)
	}
}
