package specialist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/errors"
	"vision-pilot/matching"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

var (
	_ contract.Detector   = (*AnnotationDetector)(nil)
	_ contract.Matcher    = (*LexicalMatcher)(nil)
	_ contract.TextReader = (*LabelReader)(nil)
	_ contract.Segmenter  = (*BoxSegmenter)(nil)
)

// LexicalMatcher scores elements against the command words. It stands in
// for the CLIP matcher when no sidecar is configured.
type LexicalMatcher struct {
	threshold float64
}

func NewLexicalMatcher(threshold float64) *LexicalMatcher {
	return &LexicalMatcher{threshold: threshold}
}

func (m *LexicalMatcher) Match(ctx context.Context, text string, elements []domain.DetectedObject) ([]domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := matching.KeywordMatch(text, elements, m.threshold)
	return lo.Map(matches, func(m domain.MatchResult, _ int) domain.MatchResult {
		m.Reason = "lexical match"
		return m
	}), nil
}

// LabelReader reads the text the detector already attached to a region.
type LabelReader struct{}

func (LabelReader) Extract(ctx context.Context, _ []byte, region domain.DetectedObject) (domain.ExtractedText, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExtractedText{}, err
	}
	text := strings.TrimSpace(region.Text)
	if text == "" {
		text = strings.TrimSpace(region.Label)
	}
	if text == "" {
		return domain.ExtractedText{}, fmt.Errorf("region %s has no readable text", region.ID)
	}
	return domain.ExtractedText{
		ObjectID:   region.ID,
		Text:       text,
		Confidence: region.Confidence,
		BBox:       region.BBox,
	}, nil
}

// BoxSegmenter uses the bounding box itself as the mask.
type BoxSegmenter struct{}

func (BoxSegmenter) Segment(ctx context.Context, _ []byte, prompts []domain.DetectedObject) ([]domain.Mask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return lo.Map(prompts, func(p domain.DetectedObject, _ int) domain.Mask {
		return domain.Mask{
			ObjectID:   p.ID,
			Centroid:   p.BBox.Center(),
			Area:       p.BBox.Area(),
			Confidence: p.Confidence,
		}
	}), nil
}

// Annotation describes the elements of one screenshot.
type Annotation struct {
	Image   string                  `json:"image"`
	Objects []domain.DetectedObject `json:"objects"`
}

// AnnotationDetector answers with hand-labelled elements, looked up by the
// screenshot content. It lets the pilot run end to end without a vision model.
type AnnotationDetector struct {
	byDigest map[string][]domain.DetectedObject
}

func NewAnnotationDetector(annotations map[string][]domain.DetectedObject) *AnnotationDetector {
	return &AnnotationDetector{byDigest: annotations}
}

// LoadAnnotations reads every *.json file of dir. The image each one names
// is resolved relative to dir and hashed.
func LoadAnnotations(dir string) (*AnnotationDetector, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	byDigest := make(map[string][]domain.DetectedObject, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var a Annotation
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("annotation %s: %w", file, err)
		}
		image, err := os.ReadFile(filepath.Join(dir, a.Image))
		if err != nil {
			return nil, fmt.Errorf("annotation %s: %w", file, err)
		}
		byDigest[Digest(image)] = a.Objects
	}
	return NewAnnotationDetector(byDigest), nil
}

// Detect returns nothing for an unknown screenshot and fails on anything that is not an image.
func (d *AnnotationDetector) Detect(ctx context.Context, image []byte) ([]domain.DetectedObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if mtype := mimetype.Detect(image); !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidImage, mtype.String())
	}
	objects := d.byDigest[Digest(image)]
	return append([]domain.DetectedObject(nil), objects...), nil
}

func Digest(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
