package counter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/amankumarsingh77/wordfreq/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

const maxLineSize = 10 * 1024 * 1024

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}']+`)

type Counter struct {
	log *log.Entry
}

func New(logger *log.Entry) *Counter {
	return &Counter{log: logger}
}

func removeInvalidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	valid := make([]rune, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(s[i:])
			if size == 1 {
				continue
			}
		}
		valid = append(valid, r)
	}
	return string(valid)
}

// Tokenize splits text into lower-cased runs of letters and apostrophes. Apostrophes at
// either end of a run are quotes, not contractions, and are dropped.
func Tokenize(text string) []string {
	text = norm.NFC.String(removeInvalidUTF8(text))
	var tokens []string
	for _, raw := range tokenPattern.FindAllString(text, -1) {
		token := strings.ToLower(strings.Trim(raw, "'"))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// CountReader adds every token read from r to wc.
func (c *Counter) CountReader(ctx context.Context, r io.Reader, wc models.WordCount) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, token := range Tokenize(scanner.Text()) {
			wc.Insert(token, 1)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func (c *Counter) CountFile(ctx context.Context, path string, wc models.WordCount) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()
	if err := c.CountReader(ctx, file, wc); err != nil {
		return fmt.Errorf("failed to count %s: %w", path, err)
	}
	return nil
}

// CountPath counts a single file, or every regular file below a directory.
func (c *Counter) CountPath(ctx context.Context, path string) (models.WordCount, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	wc := make(models.WordCount)
	if !info.IsDir() {
		if err := c.CountFile(ctx, path, wc); err != nil {
			return nil, err
		}
		return wc, nil
	}

	files := 0
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files++
		c.log.Debugf("counting %s", p)
		return c.CountFile(ctx, p, wc)
	})
	if err != nil {
		return nil, err
	}
	c.log.Infof("counted %d tokens (%d distinct) in %d files", wc.Total(), len(wc), files)
	return wc, nil
}
