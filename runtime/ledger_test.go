package runtime

import (
	"context"
	"log/slog"
	"testing"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
	"vision-pilot/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type nopPublisher struct{}

func (nopPublisher) Publish(event.Event) {}

func newTestLedger(budget int64) *ResourceLedger {
	return NewResourceLedger(logs.GetLoggerFromLevel(slog.LevelDebug), nopPublisher{}, budget, 0.75, 0.9)
}

func TestResourceLedger_AllocateAndRelease(t *testing.T) {
	req := require.New(t)
	ledger := newTestLedger(512)

	// Given clip and florence loaded
	clip, err := ledger.Allocate(150, "clip")
	req.NoError(err)
	_, err = ledger.Allocate(280, "florence")
	req.NoError(err)

	usage := ledger.Usage()
	req.Equal(int64(430), usage.CurrentMB)
	req.Equal(int64(82), usage.AvailableMB)
	req.Equal(map[string]int64{"clip": 150, "florence": 280}, usage.PerOwner)

	// When sam asks for more than what is left
	_, err = ledger.Allocate(200, "sam")

	// Then the grant is refused and nothing moved
	var memErr *errors.InsufficientMemoryError
	req.ErrorAs(err, &memErr)
	req.ErrorIs(err, errors.ErrInsufficientMemory)
	req.Equal(int64(200), memErr.Required)
	req.Equal(int64(82), memErr.Available)
	req.Equal(int64(430), ledger.Usage().CurrentMB)

	// When clip is released twice
	ledger.Deallocate(clip)
	ledger.Deallocate(clip)

	req.Equal(int64(280), ledger.Usage().CurrentMB)
}

func TestResourceLedger_RejectsNonPositiveSize(t *testing.T) {
	req := require.New(t)
	ledger := newTestLedger(512)

	_, err := ledger.Allocate(0, "clip")
	req.ErrorIs(err, errors.ErrInvalidAllocation)
	_, err = ledger.Allocate(-5, "clip")
	req.ErrorIs(err, errors.ErrInvalidAllocation)
}

func TestResourceLedger_PressureLevels(t *testing.T) {
	req := require.New(t)
	ledger := newTestLedger(1000)

	var cleanups, emergencies int
	ledger.RegisterPressureCallback(func(context.Context, domain.MemoryUsage) { cleanups++ })
	ledger.RegisterEmergencyCallback(func(context.Context, domain.MemoryUsage) { emergencies++ })

	req.Equal(domain.NORMAL, ledger.CheckPressure(context.Background()))
	req.Zero(cleanups)

	// Given 80% in use
	id, err := ledger.Allocate(800, "florence")
	req.NoError(err)
	req.Equal(domain.HIGH_PRESSURE, ledger.CheckPressure(context.Background()))
	req.Equal(1, cleanups)
	req.Zero(emergencies)

	// Given 95% in use
	_, err = ledger.Allocate(150, "sam")
	req.NoError(err)
	req.Equal(domain.CRITICAL_PRESSURE, ledger.CheckPressure(context.Background()))
	req.Equal(2, cleanups)
	req.Equal(1, emergencies)

	ledger.Deallocate(id)
	req.Equal(domain.NORMAL, ledger.Level())
}

func TestResourceLedger_CallbackCanDeallocate(t *testing.T) {
	req := require.New(t)
	ledger := newTestLedger(100)
	id, err := ledger.Allocate(95, "florence")
	req.NoError(err)

	// Given a cleanup callback releasing memory through the ledger itself
	ledger.RegisterPressureCallback(func(context.Context, domain.MemoryUsage) {
		ledger.Deallocate(id)
	})

	// Then the level reported is the one after the cleanup
	req.Equal(domain.NORMAL, ledger.CheckPressure(context.Background()))
}

func TestResourceLedger_NeverExceedsBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		budget := rapid.Int64Range(128, 2048).Draw(t, "budget")
		ledger := newTestLedger(budget)
		var granted []domain.AllocationID

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(granted) > 0 && rapid.Bool().Draw(t, "release") {
				idx := rapid.IntRange(0, len(granted)-1).Draw(t, "idx")
				ledger.Deallocate(granted[idx])
				granted = append(granted[:idx], granted[idx+1:]...)
				continue
			}
			before := ledger.Usage().CurrentMB
			size := rapid.Int64Range(1, 600).Draw(t, "size")
			id, err := ledger.Allocate(size, "owner")
			if err != nil {
				if ledger.Usage().CurrentMB != before {
					t.Fatalf("failed allocation changed usage from %d to %d", before, ledger.Usage().CurrentMB)
				}
				continue
			}
			granted = append(granted, id)
			if current := ledger.Usage().CurrentMB; current > budget {
				t.Fatalf("usage %d exceeds budget %d", current, budget)
			}
		}
	})
}
