package models

import "sort"

// WordCount maps a lower-cased token to its frequency.
type WordCount map[string]int

func (wc WordCount) Insert(word string, count int) {
	wc[word] += count
}

// Move merges the count stored under from into to and removes from.
func (wc WordCount) Move(from, to string) {
	if from == to {
		return
	}
	count, ok := wc[from]
	if !ok {
		return
	}
	delete(wc, from)
	wc[to] += count
}

func (wc WordCount) Total() int {
	total := 0
	for _, count := range wc {
		total += count
	}
	return total
}

func (wc WordCount) Clone() WordCount {
	out := make(WordCount, len(wc))
	for word, count := range wc {
		out[word] = count
	}
	return out
}

func (wc WordCount) SortedKeys() []string {
	keys := make([]string, 0, len(wc))
	for word := range wc {
		keys = append(keys, word)
	}
	sort.Strings(keys)
	return keys
}

type Entry struct {
	Word  string
	Count int
}

// ByCount returns entries ordered by count and then by word. With descending set the
// highest counts come first while ties stay alphabetical.
func (wc WordCount) ByCount(descending bool) []Entry {
	entries := make([]Entry, 0, len(wc))
	for word, count := range wc {
		entries = append(entries, Entry{Word: word, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count == entries[j].Count {
			return entries[i].Word < entries[j].Word
		}
		if descending {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Count < entries[j].Count
	})
	return entries
}
