package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amankumarsingh77/wordfreq/config"
	"github.com/amankumarsingh77/wordfreq/internal/logging"
	"github.com/amankumarsingh77/wordfreq/internal/morph"
	"github.com/amankumarsingh77/wordfreq/internal/pipeline"
	"github.com/amankumarsingh77/wordfreq/internal/sanitizer"
	"github.com/amankumarsingh77/wordfreq/internal/zipf"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const usage = `Usage: wordfreq --mode <mode> [flags] args...

  aggregate   input_file output_file_alpha output_file_count
  preprocess  input_file output_dir name
  fit         count_file
  sanitize    [input_dir output_dir]
  count       input_path output_file
`

func main() {
	var (
		configFile = pflag.StringP("config", "c", "wordfreq.yaml", "Path to configuration file")
		mode       = pflag.StringP("mode", "m", "aggregate", "Mode: aggregate, preprocess, fit, sanitize or count")
	)
	pflag.String("log-level", "", "Log level: debug, info, warn or error")
	pflag.Bool("allow-apostrophes", false, "Accept apostrophes in loaded words")
	pflag.String("stemmer", "", "Stemmer: porter or snowball")
	pflag.String("lemma-dict", "", "Extra form,lemma csv for the lemmatizer")
	pflag.String("count-order", "", "Order of the by-count file: desc or asc")
	pflag.String("fit-output", "", "Image written by fit mode")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg, err := loadConfig(*configFile, pflag.CommandLine)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	args := pflag.Args()
	switch *mode {
	case "aggregate":
		requireArgs(args, 3)
		runAggregate(ctx, cfg, args[0], args[1], args[2])

	case "preprocess":
		requireArgs(args, 3)
		runPreprocess(ctx, cfg, args[0], args[1], args[2])

	case "fit":
		requireArgs(args, 1)
		runFit(cfg, args[0])

	case "sanitize":
		input, output := cfg.Sanitize.Input, cfg.Sanitize.Output
		if len(args) == 2 {
			input, output = args[0], args[1]
		} else if len(args) != 0 {
			pflag.Usage()
			os.Exit(2)
		}
		s := sanitizer.New(logging.For("sanitizer"))
		if err := s.CopyStructureAndProcess(ctx, input, output); err != nil {
			log.Fatalf("Failed to sanitize %s: %v", input, err)
		}

	case "count":
		requireArgs(args, 2)
		runCount(ctx, cfg, args[0], args[1])

	default:
		log.Fatalf("Unknown mode: %s. Use aggregate, preprocess, fit, sanitize or count.", *mode)
	}
}

// loadConfig falls back to the defaults when filename cannot be used. Env vars and flags
// still apply to the fallback.
func loadConfig(filename string, flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfig(filename, flags)
	if err == nil {
		return cfg, nil
	}
	log.Printf("Failed to load configuration from %s: %v", filename, err)
	log.Println("Using default configuration with command line flags...")
	return config.LoadConfig("", flags)
}

func requireArgs(args []string, n int) {
	if len(args) != n {
		pflag.Usage()
		os.Exit(2)
	}
}

func newPipeline(cfg *config.Config, withReducer bool) *pipeline.Pipeline {
	var reducer morph.Reducer
	if withReducer {
		var err error
		reducer, err = morph.New(&cfg.Morph)
		if err != nil {
			log.Fatalf("Failed to initialize the morphological reducer: %v", err)
		}
	}
	p, err := pipeline.New(cfg, reducer, logging.For("pipeline"))
	if err != nil {
		log.Fatalf("Failed to initialize the pipeline: %v", err)
	}
	return p
}

// inputMissing reports a missing input the way every mode does: a message and a clean exit.
// Output side failures are not matched.
func inputMissing(err error, input string) bool {
	if errors.Is(err, pipeline.ErrInputNotFound) {
		fmt.Printf("Input file '%s' does not exist.\n", input)
		return true
	}
	return false
}

func runAggregate(ctx context.Context, cfg *config.Config, input, alphaOut, countOut string) {
	res, err := newPipeline(cfg, false).RunBase(ctx, input, alphaOut, countOut)
	if err != nil {
		if inputMissing(err, input) {
			return
		}
		log.Fatalf("Failed to aggregate %s: %v", input, err)
	}
	fmt.Printf("\nChanges saved to %s (alphabetical) and %s (by count)!\n", alphaOut, countOut)
	fmt.Printf("Total: %d Words\n", res.Variants[0].Total)
}

func runPreprocess(ctx context.Context, cfg *config.Config, input, outputDir, name string) {
	res, err := newPipeline(cfg, true).RunExtended(ctx, input, outputDir, name)
	if err != nil {
		if inputMissing(err, input) {
			return
		}
		log.Fatalf("Failed to preprocess %s: %v", input, err)
	}
	for _, v := range res.Variants {
		fmt.Printf("%s: %d words, %d total -> %s, %s\n", v.Variant, v.Vocabulary, v.Total, v.AlphaPath, v.CountPath)
	}
}

func runCount(ctx context.Context, cfg *config.Config, input, output string) {
	res, err := newPipeline(cfg, false).RunCount(ctx, input, output)
	if err != nil {
		if inputMissing(err, input) {
			return
		}
		log.Fatalf("Failed to count %s: %v", input, err)
	}
	fmt.Printf("Counted %d words (%d distinct) into %s\n", res.Variants[0].Total, res.Variants[0].Vocabulary, output)
}

func runFit(cfg *config.Config, countFile string) {
	if err := pipeline.CheckInput(countFile); err != nil {
		if inputMissing(err, countFile) {
			return
		}
		log.Fatalf("Failed to read %s: %v", countFile, err)
	}
	points, err := zipf.ReadPoints(countFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", countFile, err)
	}

	opts := zipf.DefaultFitOptions()
	opts.MaxIterations = cfg.Fit.MaxIterations
	params, err := zipf.Fit(points, opts)
	if err != nil {
		log.Fatalf("Curve fit failed: %v", err)
	}
	fmt.Printf("Fitted parameters: %s\n", params)

	plotOpts := zipf.PlotOptions{Width: cfg.Fit.Width, Height: cfg.Fit.Height}
	if err := zipf.Plot(points, params, cfg.Fit.Output, plotOpts); err != nil {
		log.Fatalf("Failed to render plot: %v", err)
	}
	fmt.Printf("Plot saved as '%s'.\n", cfg.Fit.Output)
}
