package runtime

import (
	"log/slog"
	"testing"
	"vision-pilot/domain/event"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestEventBus_FiltersByKindSourceAndPriority(t *testing.T) {
	req := require.New(t)
	bus := NewEventBus(logs.GetLoggerFromLevel(slog.LevelDebug), 16)
	defer bus.Close()

	safety := bus.Subscribe("safety", event.Filter{Kinds: []event.Kind{event.SafetyCheckFailed}}, 4)
	critical := bus.Subscribe("critical", event.Filter{MinPriority: event.CRITICAL}, 4)
	ai := bus.Subscribe("ai", event.Filter{Sources: []event.Source{event.AI}}, 4)

	// When three events are published
	bus.Publish(event.New(event.SafetyCheckFailed, event.SAFETY, event.HIGH, nil))
	bus.Publish(event.New(event.EmergencyStopActivated, event.SAFETY, event.CRITICAL, nil))
	bus.Publish(event.New(event.AnalysisCompleted, event.AI, event.NORMAL, nil))

	// Then each subscriber only sees what it asked for
	req.Len(safety, 1)
	req.Equal(event.SafetyCheckFailed, (<-safety).Kind)
	req.Len(critical, 1)
	req.Equal(event.EmergencyStopActivated, (<-critical).Kind)
	req.Len(ai, 1)
	req.Equal(event.AnalysisCompleted, (<-ai).Kind)
}

func TestEventBus_FullQueueDropsWithoutBlocking(t *testing.T) {
	req := require.New(t)
	bus := NewEventBus(logs.GetLoggerFromLevel(slog.LevelDebug), 0)
	defer bus.Close()

	slow := bus.Subscribe("slow", event.Filter{}, 1)

	for i := 0; i < 5; i++ {
		bus.Publish(event.New(event.PerformanceSample, event.PERFORMANCE, event.LOW, nil))
	}

	published, dropped := bus.Stats()
	req.Equal(uint64(5), published)
	req.Equal(uint64(4), dropped)
	req.Len(slow, 1)
}

func TestEventBus_ResubscribeAndClose(t *testing.T) {
	req := require.New(t)
	bus := NewEventBus(logs.GetLoggerFromLevel(slog.LevelDebug), 0)

	first := bus.Subscribe("ui", event.Filter{}, 1)
	second := bus.Subscribe("ui", event.Filter{}, 1)

	// Then the replaced subscription is closed
	_, open := <-first
	req.False(open)

	bus.Unsubscribe("ui")
	_, open = <-second
	req.False(open)

	// When the bus is closed, a late subscriber gets a closed channel
	last := bus.Subscribe("late", event.Filter{}, 1)
	bus.Close()
	_, open = <-last
	req.False(open)
	req.Empty(bus.Subscribe("after", event.Filter{}, 1))

	bus.Publish(event.New(event.AnalysisCompleted, event.AI, event.NORMAL, nil))
}

func TestEventBus_HistoryKeepsTheMostRecent(t *testing.T) {
	req := require.New(t)
	bus := NewEventBus(logs.GetLoggerFromLevel(slog.LevelDebug), 3)
	defer bus.Close()

	kinds := []event.Kind{event.SpecialistLoaded, event.AnalysisStarted, event.AnalysisCompleted, event.SafetyCheckPassed, event.ActionExecuted}
	for _, k := range kinds {
		bus.Publish(event.New(k, event.SYSTEM, event.LOW, nil))
	}

	history := bus.History(0)
	req.Len(history, 3)
	req.Equal(event.AnalysisCompleted, history[0].Kind)
	req.Equal(event.ActionExecuted, history[2].Kind)

	last := bus.History(2)
	req.Equal([]event.Kind{event.SafetyCheckPassed, event.ActionExecuted}, []event.Kind{last[0].Kind, last[1].Kind})
}
