package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/amankumarsingh77/wordfreq/models"
)

var (
	countLine           = regexp.MustCompile(`^(\d+), ([a-zA-Z]+)$`)
	countLineApostrophe = regexp.MustCompile(`^(\d+), ([a-zA-Z']+)$`)
)

type Loader struct {
	pattern *regexp.Regexp
}

// New returns a loader accepting "<digits>, <letters>" lines. With allowApostrophes the
// word may also contain apostrophes.
func New(allowApostrophes bool) *Loader {
	if allowApostrophes {
		return &Loader{pattern: countLineApostrophe}
	}
	return &Loader{pattern: countLine}
}

// LoadWords opens path and aggregates it. The caller checks that path exists.
func (l *Loader) LoadWords(path string) (models.WordCount, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	wc, err := l.Load(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return wc, nil
}

// Load sums the counts of every matching line per lower-cased word. Lines that do not
// match are skipped.
func (l *Loader) Load(r io.Reader) (models.WordCount, error) {
	wc := make(models.WordCount)
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if err := l.addLine(wc, line); err != nil {
				return nil, err
			}
		}
		if err == io.EOF {
			return wc, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
	}
}

func (l *Loader) addLine(wc models.WordCount, line string) error {
	m := l.pattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", m[1], err)
	}
	wc.Insert(strings.ToLower(m[2]), count)
	return nil
}
