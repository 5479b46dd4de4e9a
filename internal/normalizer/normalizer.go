package normalizer

import (
	"fmt"
	"strings"

	"github.com/amankumarsingh77/wordfreq/internal/morph"
	"github.com/amankumarsingh77/wordfreq/models"
	log "github.com/sirupsen/logrus"
)

type Stats struct {
	Discarded  int
	Trimmed    int
	Stemmed    int
	Lemmatized int
}

// variant is one mapping being rewritten. reduced holds keys that received counts from a
// morphological reduction, so they survive when their own contribution moves away.
type variant struct {
	wc      models.WordCount
	reduced map[string]bool
}

func newVariant(wc models.WordCount) *variant {
	return &variant{wc: wc, reduced: make(map[string]bool)}
}

func (v *variant) take(word string, amount int) {
	if _, ok := v.wc[word]; !ok {
		return
	}
	v.wc[word] -= amount
	if v.wc[word] <= 0 && !v.reduced[word] {
		delete(v.wc, word)
	}
}

func (v *variant) give(word string, amount int, reduced bool) {
	v.wc[word] += amount
	if reduced {
		v.reduced[word] = true
	}
}

func (v *variant) move(from, to string, amount int, reduced bool) {
	v.take(from, amount)
	v.give(to, amount, reduced)
}

type Normalizer struct {
	reducer morph.Reducer
	log     *log.Entry
}

func New(reducer morph.Reducer, logger *log.Entry) *Normalizer {
	return &Normalizer{reducer: reducer, log: logger}
}

// Process applies the apostrophe and alphabet rules to wc in place.
func (n *Normalizer) Process(wc models.WordCount) Stats {
	stats, _ := n.run(wc, nil, nil)
	return stats
}

// ProcessExtended applies the rules to raw, stem and lemma, then rewrites stem and lemma
// under the reduced forms. stem and lemma must be copies of raw.
func (n *Normalizer) ProcessExtended(raw, stem, lemma models.WordCount) (Stats, error) {
	if n.reducer == nil {
		return Stats{}, fmt.Errorf("extended normalization needs a reducer")
	}
	return n.run(raw, stem, lemma)
}

func (n *Normalizer) run(raw, stem, lemma models.WordCount) (Stats, error) {
	var stats Stats
	rawV := newVariant(raw)
	all := []*variant{rawV}
	var stemV, lemmaV *variant
	if stem != nil {
		stemV, lemmaV = newVariant(stem), newVariant(lemma)
		all = append(all, stemV, lemmaV)
	}

	for _, word := range raw.SortedKeys() {
		count, ok := raw[word]
		if !ok {
			continue
		}
		token, keep := Normalize(word)
		if !keep {
			for _, v := range all {
				v.take(word, count)
			}
			stats.Discarded++
			n.log.Debugf("discarded %q (%d)", word, count)
			continue
		}
		if token != word {
			for _, v := range all {
				v.move(word, token, count, false)
			}
			stats.Trimmed++
		}
		if stemV == nil {
			continue
		}

		stemmed, lemmatized, err := n.reducer.Reduce(token)
		if err != nil {
			return stats, fmt.Errorf("failed to reduce %q: %w", token, err)
		}
		if stemmed != token {
			stemV.move(token, stemmed, count, true)
			stats.Stemmed++
		}
		if lemmatized != token {
			lemmaV.move(token, lemmatized, count, true)
			stats.Lemmatized++
		}
	}
	return stats, nil
}

// Normalize returns the canonical form of word and whether it survives. Words with more
// than one apostrophe are dropped, a single apostrophe keeps the prefix before it, and
// the result must be non-empty lowercase a-z.
func Normalize(word string) (string, bool) {
	switch strings.Count(word, "'") {
	case 0:
	case 1:
		word = word[:strings.IndexByte(word, '\'')]
	default:
		return "", false
	}
	// A leading apostrophe ("'tis") leaves an empty prefix, which is dropped rather than kept as a key.
	if word == "" || !isLowerAlpha(word) {
		return word, false
	}
	return word, true
}

func isLowerAlpha(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}
