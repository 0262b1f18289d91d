// Package executor holds the input executors the pilot can hand approved actions to.
package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/errors"

	"github.com/samber/lo"
)

var _ contract.InputExecutor = (*DryRunExecutor)(nil)

// DryRunExecutor describes the input it would send instead of sending it.
type DryRunExecutor struct {
	mu  sync.Mutex
	log *slog.Logger
	out io.Writer
}

func NewDryRunExecutor(log *slog.Logger, out io.Writer) *DryRunExecutor {
	return &DryRunExecutor{log: log, out: out}
}

func (e *DryRunExecutor) Execute(ctx context.Context, action domain.ActionRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := Describe(action)
	if err != nil {
		return err
	}
	e.log.Info("Dry run", "action_id", action.ID, "kind", action.Kind, "input", line)

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err = fmt.Fprintln(e.out, line)
	return err
}

// Describe renders the input an action stands for, e.g. "CLICK at (140, 65)".
func Describe(action domain.ActionRequest) (string, error) {
	best, hasTarget := lo.First(action.Targets)
	switch action.Kind {
	case domain.CLICK, domain.DRAG:
		if !hasTarget {
			return "", fmt.Errorf("%w: %s without target", errors.ErrInvalidAction, action.Kind)
		}
		return fmt.Sprintf("%s at (%d, %d)", action.Kind, best.Point.X, best.Point.Y), nil
	case domain.TYPE:
		return fmt.Sprintf("TYPE %q", action.Parameters["text"]), nil
	case domain.KEY_PRESS:
		return fmt.Sprintf("KEY_PRESS %s", strings.ToUpper(action.Parameters["keys"])), nil
	case domain.SCROLL:
		return fmt.Sprintf("SCROLL %s", lo.CoalesceOrEmpty(action.Parameters["direction"], "down")), nil
	case domain.LAUNCH:
		return fmt.Sprintf("LAUNCH %s", action.TargetApp), nil
	default:
		return fmt.Sprintf("%s %q", action.Kind, action.Command), nil
	}
}
