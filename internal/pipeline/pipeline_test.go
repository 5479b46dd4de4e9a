package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amankumarsingh77/wordfreq/config"
	"github.com/amankumarsingh77/wordfreq/internal/logging"
	"github.com/amankumarsingh77/wordfreq/internal/morph"
	"github.com/amankumarsingh77/wordfreq/internal/zipf"
	"github.com/amankumarsingh77/wordfreq/pkg"
)

func newPipeline(t *testing.T, cfg *config.Config) *Pipeline {
	t.Helper()
	reducer, err := morph.New(&cfg.Morph)
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(cfg, reducer, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunBase(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "counts.txt")
	writeFile(t, input, "2, B\n1, b\n2, a\n7, x1y\nnot a line\n")

	p := newPipeline(t, config.GetDefaultConfig())
	alpha, count := filepath.Join(dir, "alpha.txt"), filepath.Join(dir, "count.txt")
	res, err := p.RunBase(context.Background(), input, alpha, count)
	if err != nil {
		t.Fatalf("RunBase() error = %v", err)
	}
	if got, want := readFile(t, alpha), "2, a\n3, b\n--------------------\n2 Words\n"; got != want {
		t.Errorf("alpha = %q, want %q", got, want)
	}
	if got, want := readFile(t, count), "3, b\n2, a\n--------------------\n2 Words\n"; got != want {
		t.Errorf("count = %q, want %q", got, want)
	}
	if res.Variants[0].Total != 5 || res.Variants[0].Vocabulary != 2 {
		t.Errorf("result = %+v", res.Variants[0])
	}
}

func TestRunBaseAscending(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "counts.txt")
	writeFile(t, input, "3, b\n2, a\n")

	cfg := config.GetDefaultConfig()
	cfg.Export.CountOrder = "asc"
	count := filepath.Join(dir, "count.txt")
	if _, err := newPipeline(t, cfg).RunBase(context.Background(), input, filepath.Join(dir, "alpha.txt"), count); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, count); !strings.HasPrefix(got, "2, a\n3, b\n") {
		t.Errorf("count = %q", got)
	}
}

func TestMissingInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	p := newPipeline(t, config.GetDefaultConfig())
	missing := filepath.Join(dir, "missing.txt")

	if _, err := p.RunBase(context.Background(), missing, filepath.Join(dir, "a.txt"), filepath.Join(dir, "c.txt")); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("RunBase() error = %v, want ErrInputNotFound", err)
	}
	if _, err := p.RunExtended(context.Background(), missing, out, "x"); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("RunExtended() error = %v, want ErrInputNotFound", err)
	}
	if _, err := p.RunCount(context.Background(), missing, filepath.Join(dir, "counts.txt")); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("RunCount() error = %v, want ErrInputNotFound", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output written for missing input: %v", entries)
	}
}

func TestOutputFailureIsNotMissingInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "counts.txt")
	writeFile(t, input, "2, a\n")
	out := filepath.Join(dir, "nodir")

	_, err := newPipeline(t, config.GetDefaultConfig()).RunBase(context.Background(), input, filepath.Join(out, "a.txt"), filepath.Join(out, "c.txt"))
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
	if errors.Is(err, ErrInputNotFound) {
		t.Fatalf("RunBase() error = %v, reported as missing input", err)
	}
}

func TestRunExtendedFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "counts.txt")
	writeFile(t, input, "4, cats\n")
	out := filepath.Join(dir, "out")
	_, lemmaCount := pkg.PreprocessedFiles(out, "moby", pkg.VariantLemming)
	if err := os.MkdirAll(lemmaCount, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := newPipeline(t, config.GetDefaultConfig()).RunExtended(context.Background(), input, out, "moby"); err == nil {
		t.Fatal("expected error when the lemming count target is a directory")
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("files left after a failed run: %v", entries)
	}
}

func TestCheckInput(t *testing.T) {
	dir := t.TempDir()
	if err := CheckInput(dir); err != nil {
		t.Errorf("CheckInput(existing) = %v", err)
	}
	if err := CheckInput(filepath.Join(dir, "none.txt")); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("CheckInput(missing) = %v, want ErrInputNotFound", err)
	}
}

func TestRunExtended(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "counts.txt")
	writeFile(t, input, "4, cats\n1, cat\n2, running\n3, was\n")

	p := newPipeline(t, config.GetDefaultConfig())
	out := filepath.Join(dir, "out")
	res, err := p.RunExtended(context.Background(), input, out, "moby")
	if err != nil {
		t.Fatalf("RunExtended() error = %v", err)
	}
	if len(res.Variants) != 3 {
		t.Fatalf("variants = %d", len(res.Variants))
	}
	for _, v := range res.Variants {
		if v.Total != 10 {
			t.Errorf("%s total = %d, want 10", v.Variant, v.Total)
		}
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Fatalf("wrote %d files, want 6", len(entries))
	}

	_, stemCount := pkg.PreprocessedFiles(out, "moby", pkg.VariantStemming)
	if got, want := readFile(t, stemCount), "5, cat\n3, wa\n2, run\n--------------------\n3 Words\n"; got != want {
		t.Errorf("stemming count = %q, want %q", got, want)
	}
	lemmaAlpha, _ := pkg.PreprocessedFiles(out, "moby", pkg.VariantLemming)
	if got, want := readFile(t, lemmaAlpha), "3, be\n5, cat\n2, running\n--------------------\n3 Words\n"; got != want {
		t.Errorf("lemming alpha = %q, want %q", got, want)
	}
}

func TestCountThenPreprocessThenFit(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "novel.txt")
	var sb strings.Builder
	words := []string{"the", "of", "and", "a", "to", "in", "is", "you", "that", "it"}
	for i, w := range words {
		for n := 0; n < 1000/(i+1); n++ {
			sb.WriteString(w)
			sb.WriteString(" ")
		}
	}
	sb.WriteString("don't it's\n")
	writeFile(t, corpus, sb.String())

	cfg := config.GetDefaultConfig()
	cfg.Loader.AllowApostrophes = true
	p := newPipeline(t, cfg)

	counts := filepath.Join(dir, "counts.txt")
	if _, err := p.RunCount(context.Background(), corpus, counts); err != nil {
		t.Fatalf("RunCount() error = %v", err)
	}
	res, err := p.RunExtended(context.Background(), counts, dir, "novel")
	if err != nil {
		t.Fatalf("RunExtended() error = %v", err)
	}
	if res.Stats.Trimmed != 2 {
		t.Errorf("trimmed = %d, want 2", res.Stats.Trimmed)
	}

	_, normalCount := pkg.PreprocessedFiles(dir, "novel", pkg.VariantNormal)
	points, err := zipf.ReadPoints(normalCount)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 11 || points[0].Frequency != 1000 {
		t.Fatalf("points = %v", points)
	}
	for i, pt := range points {
		if pt.Rank != float64(i+1) {
			t.Fatalf("rank %d = %v", i, pt.Rank)
		}
	}
}
