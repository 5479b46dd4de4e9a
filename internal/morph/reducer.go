package morph

import (
	"fmt"
	"strings"

	"github.com/amankumarsingh77/wordfreq/config"
)

// Reducer maps a token to its stemmed and lemmatized forms.
type Reducer interface {
	Reduce(word string) (stem, lemma string, err error)
}

type ReducerFunc func(word string) (stem, lemma string, err error)

func (f ReducerFunc) Reduce(word string) (string, string, error) {
	return f(word)
}

type Stemmer interface {
	Stem(word string) (string, error)
}

type morphReducer struct {
	stemmer    Stemmer
	lemmatizer *Lemmatizer
}

// New builds the reducer described by cfg. Stemmer and lemma data are set up once here
// and shared by every Reduce call.
func New(cfg *config.MorphConfig) (Reducer, error) {
	stemmer, err := NewStemmer(cfg.Stemmer, cfg.Language)
	if err != nil {
		return nil, err
	}
	lemmatizer, err := NewLemmatizer(cfg.LemmaDict)
	if err != nil {
		return nil, err
	}
	return &morphReducer{
		stemmer:    stemmer,
		lemmatizer: lemmatizer,
	}, nil
}

func (r *morphReducer) Reduce(word string) (string, string, error) {
	stem, err := r.stemmer.Stem(word)
	if err != nil {
		return "", "", fmt.Errorf("failed to stem %q: %w", word, err)
	}
	return stem, r.lemmatizer.Lemma(word), nil
}

func NewStemmer(name, language string) (Stemmer, error) {
	switch strings.ToLower(name) {
	case "", "porter":
		return porterStemmer{}, nil
	case "snowball":
		return newSnowballStemmer(language)
	default:
		return nil, fmt.Errorf("unknown stemmer %q", name)
	}
}
