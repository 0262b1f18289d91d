package matching

import (
	"testing"
	"vision-pilot/domain"

	"github.com/stretchr/testify/require"
)

func TestTokenize_DropsStopWords(t *testing.T) {
	req := require.New(t)
	req.Equal([]string{"save", "button"}, Tokenize("Please click the SAVE button, the save button!"))
}

func TestFuzzyContains(t *testing.T) {
	req := require.New(t)
	req.True(FuzzyContains("submit form", "submitt"))
	req.True(FuzzyContains("settings", "setting"))
	req.False(FuzzyContains("cancel", "save"))
	// Too short to be compared fuzzily
	req.False(FuzzyContains("ok", "ok"))
}

func TestKeywordMatch(t *testing.T) {
	req := require.New(t)
	objects := []domain.DetectedObject{
		{ID: "cancel", Text: "Cancel", ElementType: domain.BUTTON, Confidence: 1},
		{ID: "save", Text: "Save", ElementType: domain.BUTTON, Confidence: 1},
		{ID: "logo", Label: "logo", ElementType: domain.IMAGE, Confidence: 1},
	}

	matches := KeywordMatch("click the save button", objects, DefaultThreshold)

	req.Len(matches, 2)
	req.Equal("save", matches[0].ObjectID)
	req.InDelta(0.6, matches[0].Confidence, 1e-9)
	req.Equal("cancel", matches[1].ObjectID)
	req.Equal("keyword match", matches[0].Reason)
}

func TestScore_ScalesWithDetectionConfidence(t *testing.T) {
	req := require.New(t)
	obj := domain.DetectedObject{Text: "Save", ElementType: domain.BUTTON, Confidence: 0.5}
	req.InDelta(0.3, Score("click the save button", []string{"save", "button"}, obj), 1e-9)
}

func TestInferActionKind(t *testing.T) {
	req := require.New(t)
	cases := []struct {
		command   string
		hasTarget bool
		kind      domain.ActionKind
		argument  string
	}{
		{"click the save button", true, domain.CLICK, "the save button"},
		{"Double click the icon", true, domain.CLICK, "the icon"},
		{"type Hello World", false, domain.TYPE, "Hello World"},
		{"press ctrl+s", false, domain.KEY_PRESS, "ctrl+s"},
		{"scroll down", false, domain.SCROLL, "down"},
		{"open firefox", false, domain.LAUNCH, "firefox"},
		{"open the file menu", true, domain.CLICK, "the file menu"},
		{"launch firefox", true, domain.LAUNCH, "firefox"},
		{"start the terminal", true, domain.LAUNCH, "the terminal"},
		{"delete report.pdf", false, domain.FILE_OP, "report.pdf"},
		{"shutdown", false, domain.SYSTEM_CMD, ""},
		{"the blue link", true, domain.CLICK, "the blue link"},
		{"clickable thing", true, domain.CLICK, "clickable thing"},
		{"opener settings", true, domain.CLICK, "opener settings"},
	}
	for _, c := range cases {
		kind, argument := InferActionKind(c.command, c.hasTarget)
		req.Equal(c.kind, kind, c.command)
		req.Equal(c.argument, argument, c.command)
	}
}
