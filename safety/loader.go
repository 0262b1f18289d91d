package safety

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"
	"vision-pilot/errors"

	"github.com/samber/lo"
)

//go:embed dictionaries/*.txt
var dictionariesFS embed.FS

// KeywordSet carries the loaded keywords and the languages they came from.
type KeywordSet struct {
	Words     []string
	Languages []string
}

// KeywordLoader reads one keyword per line from every .txt file of a
// directory, the file name being the language ("fr.txt" -> "fr").
type KeywordLoader struct {
	fs fs.FS
}

func NewKeywordLoader(f fs.FS) *KeywordLoader {
	return &KeywordLoader{fs: f}
}

// DefaultKeywordLoader reads the dictionaries shipped with the binary.
func DefaultKeywordLoader() *KeywordLoader {
	return NewKeywordLoader(dictionariesFS)
}

func (l *KeywordLoader) LoadAll(path string) (KeywordSet, error) {
	entries, err := fs.ReadDir(l.fs, path)
	if err != nil {
		return KeywordSet{}, err
	}

	var languages []string
	unique := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fs, path+"/"+entry.Name())
		if err != nil {
			return KeywordSet{}, err
		}
		// Scanner copes with \r\n, strings.Split does not
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				unique[strings.ToLower(line)] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return KeywordSet{}, err
		}
	}

	if len(unique) == 0 {
		return KeywordSet{}, errors.ErrEmptyKeywords
	}
	words := lo.Keys(unique)
	return KeywordSet{Words: words, Languages: languages}, nil
}
