package runtime

import (
	"fmt"
	"sort"
	"vision-pilot/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	MatchWeight     = 0.7
	DetectionWeight = 0.3
	dedupeRadius    = 10.0
)

// coordinate turns matches into ranked click targets. A mask centroid wins
// over the box center, which is then kept as an alternative.
func coordinate(objects []domain.DetectedObject, matches []domain.MatchResult, masks []domain.Mask, maxCandidates int) []domain.ClickTarget {
	byID := lo.KeyBy(objects, func(o domain.DetectedObject) string { return o.ID })
	maskByID := lo.KeyBy(masks, func(m domain.Mask) string { return m.ObjectID })

	candidates := lo.FilterMap(matches, func(m domain.MatchResult, _ int) (domain.ClickTarget, bool) {
		obj, ok := byID[m.ObjectID]
		if !ok {
			return domain.ClickTarget{}, false
		}
		point := obj.BBox.Center()
		var alternatives []domain.Point
		if mask, ok := maskByID[obj.ID]; ok && obj.BBox.Contains(mask.Centroid) {
			alternatives = append(alternatives, point)
			point = mask.Centroid
		}
		alternatives = append(alternatives, obj.BBox.Corners()...)

		return domain.ClickTarget{
			ID:           uuid.NewString(),
			Point:        point,
			Confidence:   blend(m.Confidence, obj.Confidence),
			ElementType:  obj.ElementType,
			Text:         displayText(obj),
			Reasoning:    fmt.Sprintf("CLIP match: '%s' (%s) confidence %.2f", displayText(obj), obj.ElementType, m.Confidence),
			Alternatives: alternatives,
			SourceID:     obj.ID,
		}, true
	})
	return rank(candidates, maxCandidates)
}

// rank sorts best first, clickable elements ahead on ties, drops targets
// closer than 10px to a better one of the same type and caps the list.
func rank(candidates []domain.ClickTarget, maxCandidates int) []domain.ClickTarget {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].ElementType.IsClickable() && !candidates[j].ElementType.IsClickable()
	})

	kept := make([]domain.ClickTarget, 0, min(len(candidates), maxCandidates))
	for _, c := range candidates {
		if len(kept) == maxCandidates {
			break
		}
		duplicate := lo.ContainsBy(kept, func(k domain.ClickTarget) bool {
			return k.ElementType == c.ElementType && k.Point.Distance(c.Point) <= dedupeRadius
		})
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

func blend(match, detection float64) float64 {
	return min(MatchWeight*match+DetectionWeight*detection, 1)
}

// aggregate is the confidence of the result: the best target's.
func aggregate(targets []domain.ClickTarget) float64 {
	if len(targets) == 0 {
		return 0
	}
	return targets[0].Confidence
}

func displayText(obj domain.DetectedObject) string {
	if obj.Text != "" {
		return obj.Text
	}
	return obj.Label
}
