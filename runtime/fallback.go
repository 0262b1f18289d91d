package runtime

import (
	"context"
	"fmt"
	"vision-pilot/domain"
	"vision-pilot/matching"

	"github.com/google/uuid"
)

const (
	fallbackPenalty     = 0.5
	emergencyConfidence = 0.1
)

// fallback is the second level of the cascade: detection plus keyword
// matching, nothing else. Objects already detected by the failed full run
// are reused. ctx carries the pipeline deadline, so a re-detection never
// extends the run past it.
func (o *Orchestrator) fallback(ctx context.Context, run *pipelineRun, cause error) (domain.AnalysisResult, error) {
	result := &run.result
	if !run.detected {
		ctx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
		defer cancel()
		if err := o.detect(ctx, run); err != nil {
			return domain.AnalysisResult{}, err
		}
	}

	matches := matching.KeywordMatch(run.req.Command, result.Objects, matching.DefaultThreshold)
	targets := coordinate(result.Objects, matches, nil, o.cfg.MaxCandidates)
	for i := range targets {
		targets[i].Confidence *= fallbackPenalty
		targets[i].Reasoning = fmt.Sprintf("Keyword fallback: '%s' (%s)", targets[i].Text, targets[i].ElementType)
	}

	result.Matches = matches
	result.Texts = nil
	result.Masks = nil
	result.Targets = targets
	result.Confidence = aggregate(targets)
	result.Mode = domain.FALLBACK
	result.Metadata["fallback"] = "keyword"
	result.Metadata["degraded_reason"] = cause.Error()
	return *result, nil
}

// emergency is the last level: one target at the center of the image, tagged so the UI can tell.
func (o *Orchestrator) emergency(run *pipelineRun, cause error) domain.AnalysisResult {
	result := &run.result
	center := domain.Point{X: run.req.Width / 2, Y: run.req.Height / 2}
	result.Targets = []domain.ClickTarget{{
		ID:          uuid.NewString(),
		Point:       center,
		Confidence:  emergencyConfidence,
		ElementType: domain.UNKNOWN,
		Reasoning:   fmt.Sprintf("Emergency fallback: AI analysis failed (%v), targeting the image center", cause),
		SourceID:    string(domain.EMERGENCY),
	}}
	result.Matches = nil
	result.Texts = nil
	result.Masks = nil
	result.Confidence = emergencyConfidence
	result.Mode = domain.EMERGENCY
	result.Metadata["fallback"] = "emergency"
	result.Metadata["degraded_reason"] = cause.Error()
	return *result
}
