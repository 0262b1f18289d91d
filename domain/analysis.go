package domain

import "time"

type ElementType string

const (
	BUTTON   ElementType = "button"
	LINK     ElementType = "link"
	CHECKBOX ElementType = "checkbox"
	RADIO    ElementType = "radio"
	TAB      ElementType = "tab"
	MENU     ElementType = "menu"
	ICON     ElementType = "icon"
	INPUT    ElementType = "input"
	TEXT     ElementType = "text"
	IMAGE    ElementType = "image"
	UNKNOWN  ElementType = "unknown"
)

var clickableTypes = map[ElementType]struct{}{
	BUTTON: {}, LINK: {}, CHECKBOX: {}, RADIO: {}, TAB: {}, MENU: {}, ICON: {},
}

func (t ElementType) IsClickable() bool {
	_, ok := clickableTypes[t]
	return ok
}

type Stage string

const (
	StageDetection    Stage = "detection"
	StageOCR          Stage = "ocr"
	StageMatching     Stage = "matching"
	StageSegmentation Stage = "segmentation"
	StageCoordination Stage = "coordination"
	StagePipeline     Stage = "pipeline"
)

// Mode tells which level of the fallback cascade produced a result.
type Mode string

const (
	FULL      Mode = "full"
	FALLBACK  Mode = "fallback"
	EMERGENCY Mode = "emergency"
)

type AnalysisRequest struct {
	Command string
	Image   []byte
	Width   int
	Height  int
}

type DetectedObject struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	ElementType ElementType `json:"element_type"`
	BBox        BoundingBox `json:"bbox"`
	Confidence  float64     `json:"confidence"`
	Text        string      `json:"text,omitempty"`
}

type ExtractedText struct {
	ObjectID   string      `json:"object_id"`
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

type MatchResult struct {
	ObjectID   string  `json:"object_id"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

type Mask struct {
	ObjectID   string  `json:"object_id"`
	Centroid   Point   `json:"centroid"`
	Area       int     `json:"area"`
	Confidence float64 `json:"confidence"`
}

type ClickTarget struct {
	ID           string      `json:"id"`
	Point        Point       `json:"point"`
	Confidence   float64     `json:"confidence"`
	ElementType  ElementType `json:"element_type"`
	Text         string      `json:"text,omitempty"`
	Reasoning    string      `json:"reasoning"`
	Alternatives []Point     `json:"alternatives,omitempty"`
	SourceID     string      `json:"source_id"`
}

type AnalysisResult struct {
	ID         string
	Objects    []DetectedObject
	Texts      []ExtractedText
	Matches    []MatchResult
	Masks      []Mask
	Targets    []ClickTarget
	Confidence float64
	Mode       Mode
	Timings    map[Stage]time.Duration
	Metadata   map[string]string
	CreatedAt  time.Time
}

// Best returns the highest ranked target, if any.
func (r AnalysisResult) Best() (ClickTarget, bool) {
	if len(r.Targets) == 0 {
		return ClickTarget{}, false
	}
	return r.Targets[0], true
}

// Clone copies the maps and slices a caller could mutate, so cached results stay intact.
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	out.Objects = append([]DetectedObject(nil), r.Objects...)
	out.Texts = append([]ExtractedText(nil), r.Texts...)
	out.Matches = append([]MatchResult(nil), r.Matches...)
	out.Masks = append([]Mask(nil), r.Masks...)
	out.Targets = append([]ClickTarget(nil), r.Targets...)
	out.Timings = make(map[Stage]time.Duration, len(r.Timings))
	for k, v := range r.Timings {
		out.Timings[k] = v
	}
	out.Metadata = make(map[string]string, len(r.Metadata))
	for k, v := range r.Metadata {
		out.Metadata[k] = v
	}
	return out
}
