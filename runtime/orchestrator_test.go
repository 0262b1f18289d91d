package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
	"vision-pilot/errors"
	"vision-pilot/mocks"
	"vision-pilot/observability"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	screenWidth  = 800
	screenHeight = 600
	saveCommand  = "click the save button"
)

var (
	screenshot = []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	saveButton = domain.DetectedObject{
		ID:          "save",
		Label:       "button",
		Text:        "Save",
		ElementType: domain.BUTTON,
		BBox:        domain.BoundingBox{X: 100, Y: 50, Width: 80, Height: 30},
		Confidence:  0.9,
	}
	cancelButton = domain.DetectedObject{
		ID:          "cancel",
		Label:       "button",
		Text:        "Cancel",
		ElementType: domain.BUTTON,
		BBox:        domain.BoundingBox{X: 300, Y: 50, Width: 80, Height: 30},
		Confidence:  0.8,
	}
)

func testPipelineConfig() PipelineConfig {
	return PipelineConfig{
		DetectorName:        "florence",
		MatcherName:         "clip",
		ReaderName:          "trocr",
		SegmenterName:       "sam",
		DetectorConfidence:  0.5,
		MatcherConfidence:   0.3,
		ReaderConfidence:    0.5,
		SegmenterConfidence: 0.5,
		PipelineTimeout:     time.Second,
		StageTimeout:        200 * time.Millisecond,
		MaxCandidates:       5,
		RefineTopK:          3,
		OCRParallelism:      2,
		EnableSegmentation:  true,
		EnableFallbacks:     true,
	}
}

type pipelineFixture struct {
	detector  *mocks.MockDetector
	matcher   *mocks.MockMatcher
	reader    *mocks.MockTextReader
	segmenter *mocks.MockSegmenter
	safety    *mocks.MockISafetyValidator
	bus       *EventBus
	stats     *observability.PipelineStats
	loaded    map[string]contract.Specialist
	evicted   map[string]contract.Specialist
	loads     map[string]int
}

// evict drops a loaded specialist the way memory pressure does. The next
// Load brings it back.
func (f *pipelineFixture) evict(name string) {
	f.evicted[name] = f.loaded[name]
	delete(f.loaded, name)
}

// newPipeline wires an orchestrator on mocked specialists. Specialists
// named in missing are reported as not loaded.
func newPipeline(t *testing.T, cfg PipelineConfig, missing ...string) (*Orchestrator, *pipelineFixture) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	f := &pipelineFixture{
		detector:  mocks.NewMockDetector(ctrl),
		matcher:   mocks.NewMockMatcher(ctrl),
		reader:    mocks.NewMockTextReader(ctrl),
		segmenter: mocks.NewMockSegmenter(ctrl),
		safety:    mocks.NewMockISafetyValidator(ctrl),
		bus:       NewEventBus(log, 64),
		stats:     observability.NewPipelineStats(),
	}
	f.loaded = map[string]contract.Specialist{
		cfg.DetectorName:  contract.DetectorSpecialist(f.detector),
		cfg.MatcherName:   contract.MatcherSpecialist(f.matcher),
		cfg.ReaderName:    contract.TextReaderSpecialist(f.reader),
		cfg.SegmenterName: contract.SegmenterSpecialist(f.segmenter),
	}
	f.evicted = make(map[string]contract.Specialist)
	f.loads = make(map[string]int)
	for _, name := range missing {
		delete(f.loaded, name)
	}

	registry := mocks.NewMockIRegistry(ctrl)
	registry.EXPECT().Get(gomock.Any()).DoAndReturn(func(name string) (contract.Specialist, bool) {
		s, ok := f.loaded[name]
		return s, ok
	}).AnyTimes()
	registry.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, name string) error {
		f.loads[name]++
		s, ok := f.evicted[name]
		if !ok {
			return &errors.SpecialistLoadError{Name: name, Kind: errors.LoadNotFound}
		}
		delete(f.evicted, name)
		f.loaded[name] = s
		return nil
	}).AnyTimes()

	o := NewOrchestrator(log, cfg, registry, f.bus, NewAnalysisCache(time.Minute, 5), f.stats,
		observability.NewMetrics(prometheus.NewRegistry()), f.safety)
	return o, f
}

func readLabels() func(context.Context, []byte, domain.DetectedObject) (domain.ExtractedText, error) {
	return func(_ context.Context, _ []byte, region domain.DetectedObject) (domain.ExtractedText, error) {
		return domain.ExtractedText{ObjectID: region.ID, Text: region.Text, Confidence: 0.95, BBox: region.BBox}, nil
	}
}

func TestOrchestrator_ClickTheSaveButton(t *testing.T) {
	req := require.New(t)
	o, f := newPipeline(t, testPipelineConfig())

	// Given a screen with a save and a cancel button
	f.detector.EXPECT().Detect(gomock.Any(), screenshot).Return([]domain.DetectedObject{saveButton, cancelButton}, nil).Times(1)
	f.reader.EXPECT().Extract(gomock.Any(), screenshot, gomock.Any()).DoAndReturn(readLabels()).Times(2)
	f.matcher.EXPECT().Match(gomock.Any(), saveCommand, gomock.Any()).
		Return([]domain.MatchResult{{ObjectID: "save", Confidence: 0.9, Reason: "clip"}}, nil).Times(1)
	f.segmenter.EXPECT().Segment(gomock.Any(), screenshot, []domain.DetectedObject{saveButton}).
		Return([]domain.Mask{{ObjectID: "save", Centroid: domain.Point{X: 140, Y: 65}, Area: 2400, Confidence: 0.9}}, nil).Times(1)

	// When the command is analysed
	result, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then one target sits at the center of the save button
	req.NoError(err)
	req.Equal(domain.FULL, result.Mode)
	req.Len(result.Targets, 1)
	target := result.Targets[0]
	req.Equal(domain.Point{X: 140, Y: 65}, target.Point)
	req.GreaterOrEqual(target.Confidence, 0.9*MatchWeight)
	req.Contains(target.Reasoning, "CLIP match")
	req.Equal("save", target.SourceID)
	req.Len(result.Texts, 2)
	req.Equal("miss", result.Metadata["cache"])
	req.Contains(result.Timings, domain.StageDetection)
	req.Contains(result.Timings, domain.StagePipeline)

	// When the same screenshot and command come again
	again, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then no specialist is called and the cached result is served
	req.NoError(err)
	req.Equal(result.ID, again.ID)
	req.Equal("hit", again.Metadata["cache"])
	req.Equal(uint64(1), f.stats.Snapshot().CacheHits)
}

func TestOrchestrator_ReloadsEvictedSpecialists(t *testing.T) {
	req := require.New(t)
	o, f := newPipeline(t, testPipelineConfig(), "trocr", "sam")

	// Given the detector and the matcher were evicted since the last run
	f.evict("florence")
	f.evict("clip")
	f.detector.EXPECT().Detect(gomock.Any(), screenshot).Return([]domain.DetectedObject{saveButton, cancelButton}, nil).Times(1)
	f.matcher.EXPECT().Match(gomock.Any(), saveCommand, gomock.Any()).
		Return([]domain.MatchResult{{ObjectID: "save", Confidence: 0.9}}, nil).Times(1)

	result, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then both are loaded again and the run is not degraded
	req.NoError(err)
	req.Equal(domain.FULL, result.Mode)
	req.Equal(1, f.loads["florence"])
	req.Equal(1, f.loads["clip"])
	best, ok := result.Best()
	req.True(ok)
	req.Equal("save", best.SourceID)
	req.Equal("unavailable", result.Metadata["ocr"])
}

func TestOrchestrator_WrongSpecialistKind(t *testing.T) {
	req := require.New(t)
	cfg := testPipelineConfig()
	cfg.EnableFallbacks = false
	// Given a matcher configured as the detector
	cfg.DetectorName = cfg.MatcherName
	o, _ := newPipeline(t, cfg)

	_, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	req.ErrorIs(err, errors.ErrSpecialistKind)
	req.ErrorIs(err, errors.ErrCriticalStageFailed)
}

func TestOrchestrator_CallerCancellation(t *testing.T) {
	req := require.New(t)
	o, f := newPipeline(t, testPipelineConfig())
	events := f.bus.Subscribe("test", event.Filter{Kinds: []event.Kind{event.AnalysisFailed}}, 1)
	ctx, cancel := context.WithCancel(context.Background())

	// Given a caller giving up while the detector runs
	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ []byte) ([]domain.DetectedObject, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}).Times(1)

	result, err := o.Process(ctx, saveCommand, screenshot, screenWidth, screenHeight)

	// Then no emergency target is made up and the cancellation is returned
	req.ErrorIs(err, context.Canceled)
	req.Empty(result.Targets)
	req.Len(events, 1)
	req.Equal(uint64(0), f.stats.Snapshot().Emergency)
	req.Equal(uint64(1), f.stats.Snapshot().Failed)
}

func TestOrchestrator_FallbackStaysWithinPipelineTimeout(t *testing.T) {
	req := require.New(t)
	cfg := testPipelineConfig()
	cfg.PipelineTimeout = 100 * time.Millisecond
	cfg.StageTimeout = 80 * time.Millisecond
	o, f := newPipeline(t, cfg)

	// Given a detector hanging past every deadline
	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, []byte) ([]domain.DetectedObject, error) {
		time.Sleep(400 * time.Millisecond)
		return nil, nil
	}).MaxTimes(2)

	start := time.Now()
	result, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then the re-detection shares the pipeline deadline
	req.NoError(err)
	req.Equal(domain.EMERGENCY, result.Mode)
	req.Less(time.Since(start), 150*time.Millisecond)
}

func TestOrchestrator_DetectionFailureGivesEmergencyTarget(t *testing.T) {
	req := require.New(t)
	o, f := newPipeline(t, testPipelineConfig())

	// Given a detector that always fails
	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("model crashed")).Times(2)

	result, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then a single low confidence target at the center is returned
	req.NoError(err)
	req.Equal(domain.EMERGENCY, result.Mode)
	req.Len(result.Targets, 1)
	req.Equal(domain.Point{X: 400, Y: 300}, result.Targets[0].Point)
	req.Equal("emergency", result.Metadata["fallback"])
	req.Equal(string(domain.StageDetection), result.Metadata["failed_stage"])
	req.Contains(result.Targets[0].Reasoning, "model crashed")
	req.Equal(uint64(1), f.stats.Snapshot().Emergency)

	// And degraded results are not cached
	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("model crashed")).Times(2)
	_, err = o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)
	req.NoError(err)
}

func TestOrchestrator_MatcherFailureFallsBackToKeywords(t *testing.T) {
	req := require.New(t)
	o, f := newPipeline(t, testPipelineConfig(), "trocr", "sam")

	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).Return([]domain.DetectedObject{cancelButton, saveButton}, nil).Times(1)
	f.matcher.EXPECT().Match(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("clip unavailable"))

	result, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then the detected objects are reused and scored on keywords
	req.NoError(err)
	req.Equal(domain.FALLBACK, result.Mode)
	best, ok := result.Best()
	req.True(ok)
	req.Equal("save", best.SourceID)
	req.Equal(domain.Point{X: 140, Y: 65}, best.Point)
	req.Contains(best.Reasoning, "Keyword fallback")
	req.Less(best.Confidence, 0.5)
	req.Equal("keyword", result.Metadata["fallback"])
	req.Equal("unavailable", result.Metadata["ocr"])
}

func TestOrchestrator_FallbacksDisabled(t *testing.T) {
	req := require.New(t)
	cfg := testPipelineConfig()
	cfg.EnableFallbacks = false
	o, f := newPipeline(t, cfg)
	events := f.bus.Subscribe("test", event.Filter{Kinds: []event.Kind{event.AnalysisFailed}}, 1)

	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("model crashed"))

	_, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	var pErr *errors.PipelineError
	req.ErrorAs(err, &pErr)
	req.Equal(errors.CriticalStageFailed, pErr.Kind)
	req.Equal(string(domain.StageDetection), pErr.Stage)
	req.ErrorIs(err, errors.ErrCriticalStageFailed)
	req.Len(events, 1)
	req.Equal(uint64(1), f.stats.Snapshot().Failed)
}

func TestOrchestrator_StageTimeout(t *testing.T) {
	req := require.New(t)
	cfg := testPipelineConfig()
	cfg.EnableFallbacks = false
	cfg.StageTimeout = 30 * time.Millisecond
	o, f := newPipeline(t, cfg)

	// Given a detector that ignores its context
	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, []byte) ([]domain.DetectedObject, error) {
		time.Sleep(300 * time.Millisecond)
		return nil, nil
	})

	start := time.Now()
	_, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then the pipeline stops waiting at the stage deadline
	req.ErrorIs(err, errors.ErrStageTimeout)
	req.Less(time.Since(start), 250*time.Millisecond)
}

func TestOrchestrator_WholePipelineTimeout(t *testing.T) {
	req := require.New(t)
	cfg := testPipelineConfig()
	cfg.EnableFallbacks = false
	cfg.PipelineTimeout = 20 * time.Millisecond
	o, f := newPipeline(t, cfg)

	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ []byte) ([]domain.DetectedObject, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	req.ErrorIs(err, errors.ErrWholePipelineTimeout)
}

func TestOrchestrator_OptionalStagesNeverDegrade(t *testing.T) {
	req := require.New(t)
	o, f := newPipeline(t, testPipelineConfig())

	f.detector.EXPECT().Detect(gomock.Any(), gomock.Any()).Return([]domain.DetectedObject{saveButton, cancelButton}, nil)
	// Given OCR failing on the cancel region and a crashing segmenter
	f.reader.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, image []byte, region domain.DetectedObject) (domain.ExtractedText, error) {
			if region.ID == "cancel" {
				return domain.ExtractedText{}, fmt.Errorf("unreadable")
			}
			return readLabels()(ctx, image, region)
		}).Times(2)
	f.matcher.EXPECT().Match(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domain.MatchResult{{ObjectID: "save", Confidence: 0.9}, {ObjectID: "ghost", Confidence: 0.99}}, nil)
	f.segmenter.EXPECT().Segment(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("out of memory"))

	result, err := o.Process(context.Background(), saveCommand, screenshot, screenWidth, screenHeight)

	// Then the run stays full, the box center is used and the unknown match dropped
	req.NoError(err)
	req.Equal(domain.FULL, result.Mode)
	req.Len(result.Texts, 1)
	req.Equal("failed", result.Metadata["segmentation"])
	req.Len(result.Matches, 1)
	req.Equal(domain.Point{X: 140, Y: 65}, result.Targets[0].Point)
}

func TestOrchestrator_RejectsInvalidInput(t *testing.T) {
	req := require.New(t)
	o, _ := newPipeline(t, testPipelineConfig())

	_, err := o.Process(context.Background(), "  ", screenshot, screenWidth, screenHeight)
	req.ErrorIs(err, errors.ErrEmptyCommand)

	_, err = o.Process(context.Background(), saveCommand, nil, screenWidth, screenHeight)
	req.ErrorIs(err, errors.ErrInvalidImage)

	_, err = o.Process(context.Background(), saveCommand, screenshot, 0, screenHeight)
	req.ErrorIs(err, errors.ErrInvalidImage)
}

func TestOrchestrator_ProposeAction(t *testing.T) {
	req := require.New(t)
	o, f := newPipeline(t, testPipelineConfig())
	result := domain.AnalysisResult{Targets: []domain.ClickTarget{{ID: "t1", Point: domain.Point{X: 140, Y: 65}}}}

	// Given a click on a found target
	f.safety.EXPECT().Validate(gomock.Any()).DoAndReturn(func(action domain.ActionRequest) domain.SafetyResult {
		req.Equal(domain.CLICK, action.Kind)
		req.Len(action.Targets, 1)
		return domain.Approved(domain.LOW, "ok")
	})
	action, verdict := o.ProposeAction(result, saveCommand)
	req.True(verdict.Allowed)
	req.NotEmpty(action.ID)

	// Given a typing command
	f.safety.EXPECT().Validate(gomock.Any()).Return(domain.Approved(domain.LOW, "ok"))
	action, _ = o.ProposeAction(result, "type hello world")
	req.Equal(domain.TYPE, action.Kind)
	req.Equal("hello world", action.Parameters["text"])

	// Given an open command on a found menu, it is a click and no app is launched
	f.safety.EXPECT().Validate(gomock.Any()).DoAndReturn(func(action domain.ActionRequest) domain.SafetyResult {
		req.Empty(action.TargetApp)
		return domain.Approved(domain.LOW, "ok")
	})
	action, _ = o.ProposeAction(result, "open the file menu")
	req.Equal(domain.CLICK, action.Kind)
	req.Len(action.Targets, 1)

	// Given an open command with nothing matched on screen
	f.safety.EXPECT().Validate(gomock.Any()).Return(domain.Approved(domain.LOW, "ok"))
	action, _ = o.ProposeAction(domain.AnalysisResult{}, "open firefox")
	req.Equal(domain.LAUNCH, action.Kind)
	req.Equal("firefox", action.TargetApp)

	// Given a click without any target, the validator is not even asked
	_, verdict = o.ProposeAction(domain.AnalysisResult{}, saveCommand)
	req.False(verdict.Allowed)
	req.Equal(domain.LOW, verdict.Risk)
}
