package safety

import (
	"testing"
	"time"
	"vision-pilot/domain"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestClassifier_Classify(t *testing.T) {
	req := require.New(t)
	c, err := NewClassifier([]string{`(?i)\bdrop\s+table\b`}, []string{"format", "shutdown"})
	req.NoError(err)

	tests := []struct {
		name   string
		action domain.ActionRequest
		risk   domain.RiskLevel
	}{
		{"plain click", domain.ActionRequest{Command: "click the save button", Kind: domain.CLICK}, domain.LOW},
		{"destructive verb", domain.ActionRequest{Command: "delete the selected files", Kind: domain.CLICK}, domain.CRITICAL},
		{"recursive removal", domain.ActionRequest{Command: "type rm -rf /", Kind: domain.TYPE}, domain.CRITICAL},
		{"typed text is checked", domain.ActionRequest{Command: "type it", Kind: domain.TYPE, Parameters: map[string]string{"text": "format d:"}}, domain.CRITICAL},
		{"configured pattern", domain.ActionRequest{Command: "type DROP TABLE users", Kind: domain.TYPE}, domain.CRITICAL},
		{"installer", domain.ActionRequest{Command: "install vscode", Kind: domain.CLICK}, domain.HIGH},
		{"package manager", domain.ActionRequest{Command: "run sudo apt-get update", Kind: domain.TYPE}, domain.HIGH},
		{"key combo", domain.ActionRequest{Command: "press ctrl+alt+del", Kind: domain.KEY_PRESS}, domain.MEDIUM},
		{"protected path", domain.ActionRequest{Command: `open C:\Windows\explorer`, Kind: domain.LAUNCH}, domain.MEDIUM},
		{"system tool", domain.ActionRequest{Command: "open regedit", Kind: domain.LAUNCH}, domain.MEDIUM},
		{"file operation kind", domain.ActionRequest{Command: "move notes.txt", Kind: domain.FILE_OP}, domain.MEDIUM},
		{"leet keyword", domain.ActionRequest{Command: "please f.0.r.m.4.t it", Kind: domain.TYPE}, domain.MEDIUM},
		{"system tool executable", domain.ActionRequest{Command: "click cmd.exe", Kind: domain.CLICK}, domain.MEDIUM},
		{"registry hive", domain.ActionRequest{Command: "click HKEY_LOCAL_MACHINE", Kind: domain.CLICK}, domain.MEDIUM},
		{"word containing a tool name", domain.ActionRequest{Command: "click the dismiss button", Kind: domain.CLICK}, domain.LOW},
		{"word starting with a tool name", domain.ActionRequest{Command: "click the cmdlet help", Kind: domain.CLICK}, domain.LOW},
		{"word containing a keyword", domain.ActionRequest{Command: "click the information tab", Kind: domain.CLICK}, domain.LOW},
		{"keyword across two words", domain.ActionRequest{Command: "click the platform at the top", Kind: domain.CLICK}, domain.LOW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, reason := c.Classify(tt.action)
			req.Equal(tt.risk, risk, "command=%s reason=%s", tt.action.Command, reason)
			req.NotEmpty(reason)
		})
	}
}

func TestClassifier_InvalidPattern(t *testing.T) {
	req := require.New(t)
	_, err := NewClassifier([]string{"(unclosed"}, nil)
	req.Error(err)
	req.Contains(err.Error(), "invalid dangerous pattern")
}

func TestKeywordFilter_Find(t *testing.T) {
	req := require.New(t)
	f, err := NewKeywordFilter([]string{"format", "shutdown", "...", ""})
	req.NoError(err)

	tests := []struct {
		name  string
		input string
		words []string
	}{
		{"plain", "format the disk", []string{"format"}},
		{"leet and punctuation", "please f.0.r.m.4.t it", []string{"format"}},
		{"uppercase and spacing", "SHUT DOWN now, then Format", []string{"shutdown", "format"}},
		{"repeated", "format format", []string{"format"}},
		{"spaced letters", "f o r m a t", []string{"format"}},
		{"inside a word", "click the information tab", nil},
		{"across a word end", "click the platform at the top", nil},
		{"word prefix", "reformatting", nil},
		{"nothing", "click the save button", nil},
		{"noise only", "...", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.words, f.Find(tt.input))
		})
	}
}

func TestKeywordFilter_Empty(t *testing.T) {
	req := require.New(t)
	f, err := NewKeywordFilter([]string{"...", " "})
	req.NoError(err)
	req.Nil(f.Find("format"))
}

func TestKeywordLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	set, err := DefaultKeywordLoader().LoadAll("dictionaries")

	req.NoError(err)
	req.ElementsMatch([]string{"en", "es", "fr"}, set.Languages)
	req.Contains(set.Words, "shutdown")
	req.Contains(set.Words, "supprimer")
	req.Contains(set.Words, "borrar")
}

func TestSlidingWindow_Boundary(t *testing.T) {
	req := require.New(t)
	w := NewSlidingWindow(2, time.Minute)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	req.True(w.Allow(t0))
	req.True(w.Allow(t0.Add(10 * time.Second)))
	req.False(w.Allow(t0.Add(59 * time.Second)))
	req.Equal(2, w.InWindow(t0.Add(59*time.Second)))

	// Exactly one window later the first stamp no longer counts
	req.True(w.Allow(t0.Add(time.Minute)))
	req.False(w.Allow(t0.Add(time.Minute + time.Second)))
}

// Whatever the arrival times, no 60s window ever admits more than the limit.
func TestSlidingWindow_NeverExceedsLimit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 10).Draw(t, "limit")
		gaps := rapid.SliceOfN(rapid.IntRange(0, 30_000), 1, 200).Draw(t, "gapsMs")

		w := NewSlidingWindow(limit, time.Minute)
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		var admitted []time.Time
		for _, gap := range gaps {
			now = now.Add(time.Duration(gap) * time.Millisecond)
			if w.Allow(now) {
				admitted = append(admitted, now)
			}
		}

		for i, end := range admitted {
			inWindow := 0
			for _, at := range admitted[:i+1] {
				if at.After(end.Add(-time.Minute)) {
					inWindow++
				}
			}
			if inWindow > limit {
				t.Fatalf("%d actions admitted in the window ending at %s, limit %d", inWindow, end, limit)
			}
		}
	})
}
