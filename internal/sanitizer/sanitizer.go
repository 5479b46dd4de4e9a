package sanitizer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

type Sanitizer struct {
	log *log.Entry
}

func New(logger *log.Entry) *Sanitizer {
	return &Sanitizer{log: logger}
}

// Transformer replaces every digit with a single space and lower-cases everything else.
// Input that is not valid UTF-8 fails with encoding.ErrInvalidUTF8.
func Transformer() transform.Transformer {
	digitsToSpace := runes.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return ' '
		}
		return r
	})
	return transform.Chain(encoding.UTF8Validator, digitsToSpace, cases.Lower(language.Und))
}

// Transform streams r through Transformer into w.
func Transform(w io.Writer, r io.Reader) error {
	bw := bufio.NewWriter(w)
	if _, err := io.Copy(bw, transform.NewReader(r, Transformer())); err != nil {
		return err
	}
	return bw.Flush()
}

func (s *Sanitizer) ProcessFile(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", inputPath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	if err := Transform(out, in); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("failed to process %s: %w", inputPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outputPath, err)
	}
	return nil
}

// CopyStructureAndProcess mirrors inputDir under outputDir, rewriting every regular file.
func (s *Sanitizer) CopyStructureAndProcess(ctx context.Context, inputDir, outputDir string) error {
	info, err := os.Stat(inputDir)
	if err != nil {
		return fmt.Errorf("failed to read input dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input %s is not a directory", inputDir)
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}

	processed := 0
	err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(outputDir, relPath)

		if d.IsDir() {
			// The output tree may live inside the input tree.
			if abs, err := filepath.Abs(path); err == nil && abs == absOut {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			s.log.Debugf("skipping %s: not a regular file", path)
			return nil
		}
		if err := s.ProcessFile(path, target); err != nil {
			return err
		}
		processed++
		s.log.Infof("Processed %s to %s", path, target)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Infof("sanitized %d files into %s", processed, outputDir)
	return nil
}
