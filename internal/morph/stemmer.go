package morph

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
	"github.com/reiver/go-porterstemmer"
)

type porterStemmer struct{}

func (porterStemmer) Stem(word string) (stemmed string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("porter stemmer panic: %v", r)
		}
	}()
	return porterstemmer.StemString(word), nil
}

type snowballStemmer struct {
	lang string
}

func newSnowballStemmer(language string) (*snowballStemmer, error) {
	lang := strings.ToLower(language)
	if lang == "" {
		lang = "english"
	}
	if _, err := snowball.Stem("probe", lang, true); err != nil {
		return nil, fmt.Errorf("snowball stemmer: %w", err)
	}
	return &snowballStemmer{lang: lang}, nil
}

func (s *snowballStemmer) Stem(word string) (string, error) {
	return snowball.Stem(word, s.lang, true)
}
