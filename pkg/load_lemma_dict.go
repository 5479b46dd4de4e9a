package pkg

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

func LoadLemmaDict(filename string) (map[string]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read lemma dictionary %v", err)
	}
	defer file.Close()
	return ReadLemmaDict(file)
}

// ReadLemmaDict reads a csv with a header row holding "form" and "lemma" columns.
func ReadLemmaDict(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read lemma dictionary %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("lemma dictionary is empty")
	}
	formIDX, lemmaIDX := -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "form":
			formIDX = i
		case "lemma":
			lemmaIDX = i
		}
	}
	if formIDX == -1 || lemmaIDX == -1 {
		return nil, fmt.Errorf("failed to find the form and lemma cols in lemma dictionary")
	}
	dict := make(map[string]string, len(records)-1)
	for _, row := range records[1:] {
		if len(row) <= formIDX || len(row) <= lemmaIDX {
			continue
		}
		form := strings.ToLower(strings.TrimSpace(row[formIDX]))
		lemma := strings.ToLower(strings.TrimSpace(row[lemmaIDX]))
		if form == "" || lemma == "" {
			continue
		}
		dict[form] = lemma
	}
	return dict, nil
}
