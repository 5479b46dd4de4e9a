package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/amankumarsingh77/wordfreq/config"
	"github.com/amankumarsingh77/wordfreq/internal/counter"
	"github.com/amankumarsingh77/wordfreq/internal/exporter"
	"github.com/amankumarsingh77/wordfreq/internal/loader"
	"github.com/amankumarsingh77/wordfreq/internal/morph"
	"github.com/amankumarsingh77/wordfreq/internal/normalizer"
	"github.com/amankumarsingh77/wordfreq/models"
	"github.com/amankumarsingh77/wordfreq/pkg"
	log "github.com/sirupsen/logrus"
)

var ErrInputNotFound = errors.New("input file does not exist")

type VariantResult struct {
	Variant    pkg.Variant
	AlphaPath  string
	CountPath  string
	Vocabulary int
	Total      int
}

type Result struct {
	Variants []VariantResult
	Stats    normalizer.Stats
}

type Pipeline struct {
	loader     *loader.Loader
	normalizer *normalizer.Normalizer
	counter    *counter.Counter
	order      exporter.Order
	log        *log.Entry
}

// New wires the stages from cfg. reducer may be nil when only the base variant runs.
func New(cfg *config.Config, reducer morph.Reducer, logger *log.Entry) (*Pipeline, error) {
	order, err := exporter.ParseOrder(cfg.Export.CountOrder)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		loader:     loader.New(cfg.Loader.AllowApostrophes),
		normalizer: normalizer.New(reducer, logger.WithField("stage", "normalizer")),
		counter:    counter.New(logger.WithField("stage", "counter")),
		order:      order,
		log:        logger,
	}, nil
}

// CheckInput returns ErrInputNotFound when path does not exist.
func CheckInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("failed to stat input: %w", err)
	}
	return nil
}

func (p *Pipeline) load(input string) (models.WordCount, error) {
	if err := CheckInput(input); err != nil {
		return nil, err
	}
	wc, err := p.loader.LoadWords(input)
	if err != nil {
		return nil, err
	}
	p.log.Infof("loaded %d words (%d occurrences) from %s", len(wc), wc.Total(), input)
	return wc, nil
}

// RunBase normalizes input and writes the alphabetical and by-count tables.
func (p *Pipeline) RunBase(ctx context.Context, input, alphaOut, countOut string) (*Result, error) {
	wc, err := p.load(input)
	if err != nil {
		return nil, err
	}
	stats := p.normalizer.Process(wc)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := exporter.SaveWords(alphaOut, countOut, wc, p.order); err != nil {
		return nil, err
	}
	return &Result{
		Variants: []VariantResult{{
			Variant:    pkg.VariantNormal,
			AlphaPath:  alphaOut,
			CountPath:  countOut,
			Vocabulary: len(wc),
			Total:      wc.Total(),
		}},
		Stats: stats,
	}, nil
}

// RunExtended writes the normal, stemmed and lemmatized tables for input into outputDir.
// All six files are staged before any is renamed into place.
func (p *Pipeline) RunExtended(ctx context.Context, input, outputDir, name string) (*Result, error) {
	raw, err := p.load(input)
	if err != nil {
		return nil, err
	}
	stem, lemma := raw.Clone(), raw.Clone()
	stats, err := p.normalizer.ProcessExtended(raw, stem, lemma)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	mappings := map[pkg.Variant]models.WordCount{
		pkg.VariantNormal:   raw,
		pkg.VariantStemming: stem,
		pkg.VariantLemming:  lemma,
	}
	var batch exporter.Batch
	defer batch.Discard()
	result := &Result{Stats: stats}
	for _, variant := range pkg.Variants {
		wc := mappings[variant]
		alpha, count := pkg.PreprocessedFiles(outputDir, name, variant)
		if err := batch.StageWords(alpha, count, wc, p.order); err != nil {
			return nil, err
		}
		result.Variants = append(result.Variants, VariantResult{
			Variant:    variant,
			AlphaPath:  alpha,
			CountPath:  count,
			Vocabulary: len(wc),
			Total:      wc.Total(),
		})
	}
	if err := batch.Commit(); err != nil {
		return nil, err
	}
	for _, v := range result.Variants {
		p.log.Debugf("wrote %s variant: %s, %s", v.Variant, v.AlphaPath, v.CountPath)
	}
	return result, nil
}

// RunCount tokenizes a corpus file or directory into a count file the loader accepts.
func (p *Pipeline) RunCount(ctx context.Context, input, output string) (*Result, error) {
	if err := CheckInput(input); err != nil {
		return nil, err
	}
	wc, err := p.counter.CountPath(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := exporter.SaveCounts(output, wc, exporter.Descending); err != nil {
		return nil, err
	}
	return &Result{
		Variants: []VariantResult{{
			Variant:    pkg.VariantNormal,
			CountPath:  output,
			Vocabulary: len(wc),
			Total:      wc.Total(),
		}},
	}, nil
}
