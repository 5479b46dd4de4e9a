package morph

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/amankumarsingh77/wordfreq/pkg"
)

//go:embed data/lemmas.csv
var defaultLemmas []byte

type suffixRule struct {
	suffix      string
	replacement string
	minLen      int
}

// Noun detachment rules, longest suffix first. minLen is the smallest word length the
// rule applies to.
var nounRules = []suffixRule{
	{"sses", "ss", 5},
	{"ches", "ch", 5},
	{"shes", "sh", 5},
	{"zzes", "zz", 5},
	{"xes", "x", 4},
	{"ies", "y", 5},
	{"s", "", 4},
}

// Keeps words like "glass", "virus" and "analysis" intact under the trailing "s" rule.
var keepEndings = []string{"ss", "us", "is"}

type Lemmatizer struct {
	dict map[string]string
}

// NewLemmatizer loads the embedded exception list, overlaid by dictPath when set.
func NewLemmatizer(dictPath string) (*Lemmatizer, error) {
	dict, err := pkg.ReadLemmaDict(bytes.NewReader(defaultLemmas))
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in lemmas: %w", err)
	}
	if dictPath != "" {
		extra, err := pkg.LoadLemmaDict(dictPath)
		if err != nil {
			return nil, err
		}
		for form, lemma := range extra {
			dict[form] = lemma
		}
	}
	return &Lemmatizer{dict: dict}, nil
}

func (l *Lemmatizer) Lemma(word string) string {
	if lemma, ok := l.dict[word]; ok {
		return lemma
	}
	for _, rule := range nounRules {
		if len(word) < rule.minLen || !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		if rule.suffix == "s" && hasAnySuffix(word, keepEndings) {
			return word
		}
		return strings.TrimSuffix(word, rule.suffix) + rule.replacement
	}
	return word
}

func hasAnySuffix(word string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}
