package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
	"vision-pilot/errors"
	"vision-pilot/internal"
	"vision-pilot/matching"
	"vision-pilot/observability"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type PipelineConfig struct {
	DetectorName        string
	MatcherName         string
	ReaderName          string
	SegmenterName       string
	DetectorConfidence  float64
	MatcherConfidence   float64
	ReaderConfidence    float64
	SegmenterConfidence float64
	PipelineTimeout     time.Duration
	StageTimeout        time.Duration
	MaxCandidates       int
	RefineTopK          int
	OCRParallelism      int
	EnableSegmentation  bool
	EnableFallbacks     bool
}

func NewPipelineConfig(config internal.Config) PipelineConfig {
	return PipelineConfig{
		DetectorName:        config.DetectorName,
		MatcherName:         config.MatcherName,
		ReaderName:          config.ReaderName,
		SegmenterName:       config.SegmenterName,
		DetectorConfidence:  config.DetectorConfidence,
		MatcherConfidence:   config.MatcherConfidence,
		ReaderConfidence:    config.ReaderConfidence,
		SegmenterConfidence: config.SegmenterConfidence,
		PipelineTimeout:     config.PipelineTimeout,
		StageTimeout:        config.StageTimeout,
		MaxCandidates:       config.MaxCandidates,
		RefineTopK:          config.RefineTopK,
		OCRParallelism:      config.OCRParallelism,
		EnableSegmentation:  config.EnableSegmentation,
		EnableFallbacks:     config.EnableFallbacks,
	}
}

// Orchestrator drives the specialists for one command and screenshot:
// detection, OCR, matching, segmentation, coordination. A failing stage
// degrades to the keyword fallback, then to the emergency target.
type Orchestrator struct {
	log      *slog.Logger
	cfg      PipelineConfig
	registry contract.IRegistry
	bus      contract.EventPublisher
	cache    *AnalysisCache
	stats    *observability.PipelineStats
	metrics  *observability.Metrics
	safety   contract.ISafetyValidator
}

func NewOrchestrator(
	log *slog.Logger,
	cfg PipelineConfig,
	registry contract.IRegistry,
	bus contract.EventPublisher,
	cache *AnalysisCache,
	stats *observability.PipelineStats,
	metrics *observability.Metrics,
	safety contract.ISafetyValidator,
) *Orchestrator {
	return &Orchestrator{
		log:      log,
		cfg:      cfg,
		registry: registry,
		bus:      bus,
		cache:    cache,
		stats:    stats,
		metrics:  metrics,
		safety:   safety,
	}
}

type pipelineRun struct {
	req      domain.AnalysisRequest
	result   domain.AnalysisResult
	detected bool
}

// Process analyses the screenshot for command. It returns an error for
// invalid input or a cancelled ctx, and for a stage failure when fallbacks
// are disabled. PipelineTimeout bounds the whole call, fallback included.
func (o *Orchestrator) Process(ctx context.Context, command string, image []byte, width, height int) (domain.AnalysisResult, error) {
	start := time.Now()
	if strings.TrimSpace(command) == "" {
		return domain.AnalysisResult{}, errors.ErrEmptyCommand
	}
	if len(image) == 0 || width <= 0 || height <= 0 {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %dx%d, %d bytes", errors.ErrInvalidImage, width, height, len(image))
	}

	key := CacheKey(command, image)
	if cached, ok := o.cache.Get(key); ok {
		o.stats.RecordCacheHit()
		o.metrics.CacheLookup(true)
		cached.Metadata["cache"] = "hit"
		o.log.Debug("Analysis served from cache", "result_id", cached.ID)
		o.publish(event.AnalysisCompleted, event.LOW, cached, command, time.Since(start), true)
		return cached, nil
	}
	o.metrics.CacheLookup(false)

	run := &pipelineRun{
		req: domain.AnalysisRequest{Command: command, Image: image, Width: width, Height: height},
		result: domain.AnalysisResult{
			ID:        uuid.NewString(),
			Timings:   make(map[domain.Stage]time.Duration),
			Metadata:  map[string]string{"cache": "miss", "language": matching.Language(command)},
			CreatedAt: time.Now().UTC(),
		},
	}
	o.bus.Publish(event.New(event.AnalysisStarted, event.COMMAND, event.LOW, event.AnalysisOutcome{
		ResultID: run.result.ID,
		Command:  command,
	}).WithCorrelation(run.result.ID))

	// One deadline covers the full run and the fallback re-detection.
	pipelineCtx, cancel := context.WithTimeout(ctx, o.cfg.PipelineTimeout)
	defer cancel()
	err := o.full(pipelineCtx, run)

	if err == nil {
		run.result.Mode = domain.FULL
		run.result.Metadata["mode"] = string(domain.FULL)
		o.cache.Put(key, run.result)
		o.finish(run.result, command, start)
		return run.result, nil
	}

	stage := failedStage(err)
	run.result.Metadata["failed_stage"] = string(stage)
	if ctx.Err() != nil {
		return domain.AnalysisResult{}, o.fail(run, command, start, stage, ctx.Err())
	}
	if !o.cfg.EnableFallbacks {
		return domain.AnalysisResult{}, o.fail(run, command, start, stage, err)
	}

	o.log.Warn("Pipeline degraded, running fallback", "stage", stage, "error", err)
	result, fallbackErr := o.fallback(pipelineCtx, run, err)
	if ctx.Err() != nil {
		return domain.AnalysisResult{}, o.fail(run, command, start, stage, ctx.Err())
	}
	if fallbackErr != nil {
		o.log.Warn("Fallback failed, emergency target", "error", fallbackErr)
		result = o.emergency(run, errors.Join(err, fallbackErr))
	}
	result.Metadata["mode"] = string(result.Mode)
	o.finish(result, command, start)
	return result, nil
}

// fail records a run that ends without any result and returns err.
func (o *Orchestrator) fail(run *pipelineRun, command string, start time.Time, stage domain.Stage, err error) error {
	d := time.Since(start)
	o.stats.RecordFailure(d)
	o.metrics.ObserveAnalysis(domain.FULL, "failed", d)
	o.log.Error("Pipeline failed", "stage", stage, "error", err)
	o.bus.Publish(event.New(event.AnalysisFailed, event.AI, event.HIGH, event.AnalysisOutcome{
		ResultID: run.result.ID,
		Command:  command,
		Duration: d,
		Stage:    stage,
		Reason:   err.Error(),
	}).WithCorrelation(run.result.ID))
	return err
}

func (o *Orchestrator) full(ctx context.Context, run *pipelineRun) error {
	if err := o.detect(ctx, run); err != nil {
		return err
	}
	if err := o.extractText(ctx, run); err != nil {
		return err
	}
	if err := o.match(ctx, run); err != nil {
		return err
	}
	if err := o.segment(ctx, run); err != nil {
		return err
	}

	start := time.Now()
	run.result.Targets = coordinate(run.result.Objects, run.result.Matches, run.result.Masks, o.cfg.MaxCandidates)
	run.result.Confidence = aggregate(run.result.Targets)
	o.timed(run, domain.StageCoordination, start)
	return ctx.Err()
}

func (o *Orchestrator) detect(ctx context.Context, run *pipelineRun) error {
	start := time.Now()
	s, err := o.acquire(ctx, domain.StageDetection, o.cfg.DetectorName)
	if err == nil && s.Detector == nil {
		err = wrongKind(domain.StageDetection, o.cfg.DetectorName)
	}
	if err != nil {
		o.timed(run, domain.StageDetection, start)
		return err
	}
	objects, err := runStage(ctx, domain.StageDetection, o.cfg.StageTimeout, func(ctx context.Context) ([]domain.DetectedObject, error) {
		return s.Detector.Detect(ctx, run.req.Image)
	})
	o.timed(run, domain.StageDetection, start)
	if err != nil {
		return err
	}

	objects = lo.Filter(objects, func(obj domain.DetectedObject, _ int) bool {
		return obj.Confidence >= o.cfg.DetectorConfidence
	})
	for i := range objects {
		if objects[i].ID == "" {
			objects[i].ID = uuid.NewString()
		}
		if objects[i].ElementType == "" {
			objects[i].ElementType = domain.UNKNOWN
		}
	}
	run.result.Objects = objects
	run.result.Metadata["detector"] = o.cfg.DetectorName
	run.detected = true
	return nil
}

// extractText is best-effort: only the whole pipeline timeout is reported.
func (o *Orchestrator) extractText(ctx context.Context, run *pipelineRun) error {
	if o.cfg.ReaderName == "" || len(run.result.Objects) == 0 {
		return nil
	}
	s, err := o.acquire(ctx, domain.StageOCR, o.cfg.ReaderName)
	if err != nil || s.TextReader == nil {
		if isPipelineTimeout(err) {
			return err
		}
		o.log.Debug("OCR unavailable", "reader", o.cfg.ReaderName, "error", err)
		run.result.Metadata["ocr"] = "unavailable"
		return nil
	}

	start := time.Now()
	objects := append([]domain.DetectedObject(nil), run.result.Objects...)
	texts, err := runStage(ctx, domain.StageOCR, o.cfg.StageTimeout, func(ctx context.Context) ([]domain.ExtractedText, error) {
		return o.readRegions(ctx, s.TextReader, run.req.Image, objects), nil
	})
	o.timed(run, domain.StageOCR, start)
	if err != nil {
		if isPipelineTimeout(err) {
			return err
		}
		o.log.Debug("OCR skipped", "error", err)
		run.result.Metadata["ocr"] = "skipped"
		return nil
	}

	byObject := lo.KeyBy(texts, func(t domain.ExtractedText) string { return t.ObjectID })
	for i, obj := range run.result.Objects {
		if t, ok := byObject[obj.ID]; ok && obj.Text == "" {
			run.result.Objects[i].Text = t.Text
		}
	}
	run.result.Texts = texts
	return nil
}

func (o *Orchestrator) readRegions(ctx context.Context, reader contract.TextReader, image []byte, objects []domain.DetectedObject) []domain.ExtractedText {
	found := make([]*domain.ExtractedText, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.OCRParallelism)
	for i, obj := range objects {
		g.Go(func() error {
			text, err := reader.Extract(gctx, image, obj)
			if err != nil {
				o.log.Debug("Region skipped", "object_id", obj.ID, "error", err)
				return nil
			}
			if text.Confidence < o.cfg.ReaderConfidence || strings.TrimSpace(text.Text) == "" {
				return nil
			}
			if text.ObjectID == "" {
				text.ObjectID = obj.ID
			}
			found[i] = &text
			return nil
		})
	}
	_ = g.Wait()
	return lo.FilterMap(found, func(t *domain.ExtractedText, _ int) (domain.ExtractedText, bool) {
		if t == nil {
			return domain.ExtractedText{}, false
		}
		return *t, true
	})
}

func (o *Orchestrator) match(ctx context.Context, run *pipelineRun) error {
	if len(run.result.Objects) == 0 {
		return nil
	}
	start := time.Now()
	s, err := o.acquire(ctx, domain.StageMatching, o.cfg.MatcherName)
	if err == nil && s.Matcher == nil {
		err = wrongKind(domain.StageMatching, o.cfg.MatcherName)
	}
	if err != nil {
		o.timed(run, domain.StageMatching, start)
		return err
	}
	objects := append([]domain.DetectedObject(nil), run.result.Objects...)
	matches, err := runStage(ctx, domain.StageMatching, o.cfg.StageTimeout, func(ctx context.Context) ([]domain.MatchResult, error) {
		return s.Matcher.Match(ctx, run.req.Command, objects)
	})
	o.timed(run, domain.StageMatching, start)
	if err != nil {
		return err
	}

	known := lo.SliceToMap(objects, func(obj domain.DetectedObject) (string, struct{}) { return obj.ID, struct{}{} })
	matches = lo.Filter(matches, func(m domain.MatchResult, _ int) bool {
		_, ok := known[m.ObjectID]
		return ok && m.Confidence >= o.cfg.MatcherConfidence
	})
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Confidence > matches[j].Confidence })
	run.result.Matches = matches
	run.result.Metadata["matcher"] = o.cfg.MatcherName
	return nil
}

// segment refines the top-K matches. It is optional: anything but the
// whole pipeline timeout only skips it.
func (o *Orchestrator) segment(ctx context.Context, run *pipelineRun) error {
	if !o.cfg.EnableSegmentation || o.cfg.SegmenterName == "" || len(run.result.Matches) == 0 {
		run.result.Metadata["segmentation"] = "skipped"
		return nil
	}
	s, err := o.acquire(ctx, domain.StageSegmentation, o.cfg.SegmenterName)
	if err != nil || s.Segmenter == nil {
		if isPipelineTimeout(err) {
			return err
		}
		o.log.Debug("Segmentation unavailable", "segmenter", o.cfg.SegmenterName, "error", err)
		run.result.Metadata["segmentation"] = "unavailable"
		return nil
	}

	byID := lo.KeyBy(run.result.Objects, func(obj domain.DetectedObject) string { return obj.ID })
	prompts := lo.FilterMap(lo.Slice(run.result.Matches, 0, o.cfg.RefineTopK), func(m domain.MatchResult, _ int) (domain.DetectedObject, bool) {
		obj, ok := byID[m.ObjectID]
		return obj, ok
	})

	start := time.Now()
	masks, err := runStage(ctx, domain.StageSegmentation, o.cfg.StageTimeout, func(ctx context.Context) ([]domain.Mask, error) {
		return s.Segmenter.Segment(ctx, run.req.Image, prompts)
	})
	o.timed(run, domain.StageSegmentation, start)
	if err != nil {
		if isPipelineTimeout(err) {
			return err
		}
		o.log.Debug("Segmentation skipped", "error", err)
		run.result.Metadata["segmentation"] = "failed"
		return nil
	}
	run.result.Masks = lo.Filter(masks, func(m domain.Mask, _ int) bool {
		return m.Confidence >= o.cfg.SegmenterConfidence
	})
	return nil
}

// acquire returns the named specialist, loading it again when it was
// evicted since the last run. The load is bounded by the pipeline context
// only: dialing a sidecar may take longer than one stage.
func (o *Orchestrator) acquire(ctx context.Context, stage domain.Stage, name string) (contract.Specialist, error) {
	if s, ok := o.registry.Get(name); ok {
		return s, nil
	}
	err := o.registry.Load(ctx, name)
	if err == nil {
		if s, ok := o.registry.Get(name); ok {
			return s, nil
		}
		err = fmt.Errorf("%w: %s", errors.ErrSpecialistNotLoaded, name)
	}
	return contract.Specialist{}, classify(ctx, ctx, stage, err)
}

func wrongKind(stage domain.Stage, name string) error {
	return &errors.PipelineError{
		Kind:  errors.CriticalStageFailed,
		Stage: string(stage),
		Err:   fmt.Errorf("%w: %s", errors.ErrSpecialistKind, name),
	}
}

func (o *Orchestrator) timed(run *pipelineRun, stage domain.Stage, start time.Time) {
	d := time.Since(start)
	run.result.Timings[stage] = d
	o.metrics.ObserveStage(stage, d)
}

func (o *Orchestrator) finish(result domain.AnalysisResult, command string, start time.Time) {
	d := time.Since(start)
	result.Timings[domain.StagePipeline] = d
	o.stats.RecordRun(result.Mode, d, len(result.Objects))
	o.metrics.ObserveAnalysis(result.Mode, "ok", d)

	kind, priority := event.AnalysisCompleted, event.NORMAL
	if result.Mode != domain.FULL {
		kind, priority = event.AnalysisDegraded, event.HIGH
	}
	o.publish(kind, priority, result, command, d, false)
}

func (o *Orchestrator) publish(kind event.Kind, priority event.Priority, result domain.AnalysisResult, command string, d time.Duration, cacheHit bool) {
	o.bus.Publish(event.New(kind, event.AI, priority, event.AnalysisOutcome{
		ResultID:   result.ID,
		Command:    command,
		Mode:       result.Mode,
		Targets:    len(result.Targets),
		Confidence: result.Confidence,
		Duration:   d,
		CacheHit:   cacheHit,
		Stage:      domain.Stage(result.Metadata["failed_stage"]),
		Reason:     result.Metadata["degraded_reason"],
	}).WithCorrelation(result.ID))
}

// ProposeAction turns the best target of result into an action and runs it
// through the safety validator. The caller executes it only when allowed.
func (o *Orchestrator) ProposeAction(result domain.AnalysisResult, command string) (domain.ActionRequest, domain.SafetyResult) {
	best, found := result.Best()
	kind, argument := matching.InferActionKind(command, found)
	action := domain.ActionRequest{
		ID:         uuid.NewString(),
		Command:    command,
		Kind:       kind,
		Parameters: make(map[string]string),
	}
	if found {
		action.Targets = []domain.ClickTarget{best}
	}
	switch kind {
	case domain.TYPE:
		action.Parameters["text"] = argument
	case domain.KEY_PRESS:
		action.Parameters["keys"] = argument
	case domain.SCROLL:
		action.Parameters["direction"] = argument
	case domain.LAUNCH:
		action.TargetApp = argument
	}

	if (kind == domain.CLICK || kind == domain.DRAG) && len(action.Targets) == 0 {
		return action, domain.Blocked(domain.LOW, "no click target found for the command")
	}
	if o.safety == nil {
		return action, domain.Approved(domain.LOW, "safety validation not configured")
	}
	return action, o.safety.Validate(action)
}

func (o *Orchestrator) Cache() *AnalysisCache {
	return o.cache
}

func failedStage(err error) domain.Stage {
	var pErr *errors.PipelineError
	if errors.As(err, &pErr) {
		return domain.Stage(pErr.Stage)
	}
	return domain.StagePipeline
}
