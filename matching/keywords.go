// Package matching holds the lexical scoring shared by the keyword fallback
// and the built-in matcher: command tokenization, keyword scoring and fuzzy
// text comparison.
package matching

import (
	"sort"
	"strings"
	"unicode"
	"vision-pilot/domain"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

const (
	typeHitScore      = 0.3
	wordHitBudget     = 0.4
	clickableBoost    = 0.1
	DefaultThreshold  = 0.3
	fuzzyMinAgreement = 0.8
	reliableLanguage  = 0.5
)

var stopWords = map[whatlanggo.Lang][]string{
	whatlanggo.Eng: {"the", "a", "an", "on", "to", "in", "of", "please", "click", "press", "tap", "select", "open"},
	whatlanggo.Fra: {"le", "la", "les", "un", "une", "sur", "de", "du", "cliquer", "clique", "appuyer", "ouvrir"},
	whatlanggo.Spa: {"el", "la", "los", "las", "un", "una", "en", "de", "haz", "clic", "pulsa", "abrir"},
}

// Language returns the ISO 639-1 code of the command, "en" when unsure.
func Language(text string) string {
	return language(text).Iso6391()
}

func language(text string) whatlanggo.Lang {
	info := whatlanggo.Detect(text)
	if info.Confidence < reliableLanguage {
		return whatlanggo.Eng
	}
	if _, ok := stopWords[info.Lang]; !ok {
		return whatlanggo.Eng
	}
	return info.Lang
}

// Tokenize lowercases the command, splits on anything that is not a letter
// or a digit and removes the stop words of its language.
func Tokenize(command string) []string {
	words := strings.FieldsFunc(strings.ToLower(command), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	stops := stopWords[language(command)]
	return lo.Uniq(lo.Filter(words, func(w string, _ int) bool {
		return !lo.Contains(stops, w)
	}))
}

// Score rates how well an element answers the command words.
func Score(command string, words []string, obj domain.DetectedObject) float64 {
	score := 0.0
	if obj.ElementType != "" && strings.Contains(strings.ToLower(command), string(obj.ElementType)) {
		score += typeHitScore
	}
	text := strings.ToLower(strings.TrimSpace(obj.Text + " " + obj.Label))
	if text != "" && len(words) > 0 {
		for _, w := range words {
			if strings.Contains(text, w) || FuzzyContains(text, w) {
				score += wordHitBudget / float64(len(words))
			}
		}
	}
	if obj.ElementType == domain.BUTTON || obj.ElementType == domain.LINK {
		score += clickableBoost
	}
	return score * obj.Confidence
}

// KeywordMatch scores every element and keeps those above threshold, best first.
func KeywordMatch(command string, objects []domain.DetectedObject, threshold float64) []domain.MatchResult {
	words := Tokenize(command)
	matches := lo.FilterMap(objects, func(obj domain.DetectedObject, _ int) (domain.MatchResult, bool) {
		score := Score(command, words, obj)
		if score < threshold {
			return domain.MatchResult{}, false
		}
		return domain.MatchResult{
			ObjectID:   obj.ID,
			Confidence: min(score, 1),
			Reason:     "keyword match",
		}, true
	})
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Confidence > matches[j].Confidence })
	return matches
}

// FuzzyContains reports whether some word of text agrees with word on at
// least 80% of its characters, position by position.
func FuzzyContains(text, word string) bool {
	target := []rune(word)
	if len(target) < 3 {
		return false
	}
	for _, candidate := range strings.Fields(text) {
		if agreement([]rune(candidate), target) >= fuzzyMinAgreement {
			return true
		}
	}
	return false
}

func agreement(a, b []rune) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	same := 0
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same) / float64(longest)
}
