package runtime

import (
	"context"
	"fmt"
	"time"
	"vision-pilot/domain"
	"vision-pilot/errors"
)

// runStage calls fn with a context bounded by timeout and stops waiting at
// the deadline. fn receives the context, so a cooperative specialist is
// cancelled too; one that ignores it keeps running in the background and
// its result is discarded.
func runStage[T any](ctx context.Context, stage domain.Stage, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, &errors.PipelineError{Kind: errors.WholePipelineTimeout, Stage: string(stage), Err: err}
	}

	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%s panicked: %v", stage, r)}
			}
		}()
		v, err := fn(stageCtx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err == nil {
			return out.value, nil
		}
		return zero, classify(ctx, stageCtx, stage, out.err)
	case <-stageCtx.Done():
		return zero, classify(ctx, stageCtx, stage, stageCtx.Err())
	}
}

func classify(pipelineCtx, stageCtx context.Context, stage domain.Stage, err error) error {
	switch {
	case pipelineCtx.Err() != nil:
		return &errors.PipelineError{Kind: errors.WholePipelineTimeout, Stage: string(stage), Err: err}
	case stageCtx.Err() != nil:
		return &errors.PipelineError{Kind: errors.StageTimeout, Stage: string(stage), Err: err}
	default:
		return &errors.PipelineError{Kind: errors.CriticalStageFailed, Stage: string(stage), Err: err}
	}
}

func isPipelineTimeout(err error) bool {
	var pErr *errors.PipelineError
	return errors.As(err, &pErr) && pErr.Kind == errors.WholePipelineTimeout
}
