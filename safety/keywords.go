package safety

import (
	"slices"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// KeywordFilter finds blocked keywords in a command, even when they are
// spelled with leet characters or split by punctuation ("f.0.r.m.4.t").
// A hit must start and end on word boundaries, so "information" does not
// contain format.
type KeywordFilter struct {
	matcher *goahocorasick.Machine
}

// NewKeywordFilter builds the automaton over the normalized keywords.
// Keywords made only of noise are ignored.
func NewKeywordFilter(keywords []string) (*KeywordFilter, error) {
	normalized := lo.Uniq(lo.FilterMap(keywords, func(k string, _ int) (string, bool) {
		runes, _ := normalize(k)
		p := string(runes)
		return p, p != ""
	}))
	if len(normalized) == 0 {
		return &KeywordFilter{}, nil
	}

	// the double-array trie wants sorted, unique keys
	slices.Sort(normalized)
	patterns := lo.Map(normalized, func(p string, _ int) []rune { return []rune(p) })

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &KeywordFilter{matcher: m}, nil
}

// Find returns the normalized keywords present in text, in order of
// appearance, each one once.
func (f *KeywordFilter) Find(text string) []string {
	if f == nil || f.matcher == nil {
		return nil
	}
	normalized, boundary := normalize(text)
	if len(normalized) == 0 {
		return nil
	}
	terms := f.matcher.MultiPatternSearch(normalized, false)
	whole := lo.Filter(terms, func(t *goahocorasick.Term, _ int) bool {
		return boundary[t.Pos] && boundary[t.Pos+len(t.Word)]
	})
	if len(whole) == 0 {
		return nil
	}
	return lo.Uniq(lo.Map(whole, func(t *goahocorasick.Term, _ int) string {
		return string(t.Word)
	}))
}

// normalize lowers text, maps leet characters back to letters and drops
// noise. boundary[i] reports a word break right before rune i; it has one
// more slot than the runes for the end of text.
func normalize(text string) ([]rune, []bool) {
	out := make([]rune, 0, len(text))
	boundary := []bool{true}
	for _, r := range text {
		clean := simplifyRune(r)
		if isNoise(clean) {
			boundary[len(boundary)-1] = true
			continue
		}
		out = append(out, unicode.ToLower(clean))
		boundary = append(boundary, false)
	}
	boundary[len(boundary)-1] = true
	return out, boundary
}

// simplifyRune maps common leet characters back to letters.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
