package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amankumarsingh77/wordfreq/models"
	"github.com/amankumarsingh77/wordfreq/pkg"
)

// Order controls how the by-count file is sorted. Ties are always alphabetical.
type Order int

const (
	Descending Order = iota
	Ascending
)

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	default:
		return Descending, fmt.Errorf("unknown count order %q", s)
	}
}

func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

func WriteAlpha(w io.Writer, wc models.WordCount) error {
	bw := bufio.NewWriter(w)
	for _, word := range wc.SortedKeys() {
		if _, err := fmt.Fprintf(bw, "%d, %s\n", wc[word], word); err != nil {
			return err
		}
	}
	return writeSummary(bw, len(wc))
}

func WriteByCount(w io.Writer, wc models.WordCount, order Order) error {
	bw := bufio.NewWriter(w)
	for _, e := range wc.ByCount(order == Descending) {
		if _, err := fmt.Fprintf(bw, "%d, %s\n", e.Count, e.Word); err != nil {
			return err
		}
	}
	return writeSummary(bw, len(wc))
}

func writeSummary(bw *bufio.Writer, vocabulary int) error {
	if _, err := fmt.Fprintf(bw, "%s\n%s\n", pkg.Separator, pkg.SummaryLine(vocabulary)); err != nil {
		return err
	}
	return bw.Flush()
}

// FileMode is the permission of every exported table.
const FileMode os.FileMode = 0644

type staged struct {
	tmp, path string
}

// Batch stages files next to their targets. Commit renames them into place; until then a
// failure leaves no target touched.
type Batch struct {
	files []staged
}

func (b *Batch) Stage(path string, write func(io.Writer) error) error {
	tmp, err := stage(path, write)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	b.files = append(b.files, staged{tmp: tmp, path: path})
	return nil
}

// StageWords stages the alphabetical and by-count files for wc.
func (b *Batch) StageWords(alphaPath, countPath string, wc models.WordCount, order Order) error {
	if err := b.Stage(alphaPath, func(w io.Writer) error { return WriteAlpha(w, wc) }); err != nil {
		return err
	}
	return b.Stage(countPath, func(w io.Writer) error { return WriteByCount(w, wc, order) })
}

// Commit renames every staged file into place. Targets occupied by a directory are
// rejected before anything is renamed.
func (b *Batch) Commit() error {
	for _, f := range b.files {
		if info, err := os.Stat(f.path); err == nil && info.IsDir() {
			b.Discard()
			return fmt.Errorf("failed to save %s: target is a directory", f.path)
		}
	}
	for i, f := range b.files {
		if err := os.Rename(f.tmp, f.path); err != nil {
			for _, rest := range b.files[i:] {
				os.Remove(rest.tmp)
			}
			b.files = nil
			return fmt.Errorf("failed to save %s: %w", f.path, err)
		}
	}
	b.files = nil
	return nil
}

// Discard removes every staged file. It is a no-op after Commit.
func (b *Batch) Discard() {
	for _, f := range b.files {
		os.Remove(f.tmp)
	}
	b.files = nil
}

// SaveWords writes the alphabetical and by-count files. Both are staged next to their
// targets and only renamed into place once both have been written.
func SaveWords(alphaPath, countPath string, wc models.WordCount, order Order) error {
	var b Batch
	defer b.Discard()
	if err := b.StageWords(alphaPath, countPath, wc, order); err != nil {
		return err
	}
	return b.Commit()
}

// SaveCounts writes only the by-count file.
func SaveCounts(path string, wc models.WordCount, order Order) error {
	var b Batch
	defer b.Discard()
	if err := b.Stage(path, func(w io.Writer) error { return WriteByCount(w, wc, order) }); err != nil {
		return err
	}
	return b.Commit()
}

func stage(path string, write func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	// CreateTemp opens with 0600.
	if err := f.Chmod(FileMode); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
