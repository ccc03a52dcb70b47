package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"tokeval/backends"
	"tokeval/harness"
)

func evalCmd() *cli.Command {
	return &cli.Command{
		Name:   "eval",
		Usage:  "Evaluate the primary tokenizer and compare against available baselines",
		Flags:  append(commonModelFlags(), evalFlags()...),
		Action: runEval,
	}
}

func runEval(ctx context.Context, cmd *cli.Command) error {
	applyEvalConfig(cmd, loadConfig())
	log := newLogger()

	// Missing primary model artifact is the one fatal precondition: nothing
	// is evaluated without it.
	primary, err := backends.NewHF(modelPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: primary tokenizer: %v\ntrain a tokenizer and export its tokenizer.json first", err), 1)
	}
	defer primary.Close()

	target := harness.NewAdapter(primaryName, harness.KindUnigram, primary,
		harness.WithNormalizedInput(),
	)

	corpus := harness.LoadCorpus(corpusPath, fallbackPath)
	switch corpus.Source {
	case harness.SourceBuiltin:
		log.Warn("no usable corpus, evaluating against the built-in sample",
			"corpus", corpusPath, "fallback", fallbackPath)
	case corpusPath:
	default:
		log.Warn("primary corpus not usable, using fallback", "fallback", corpus.Source)
	}
	log.Info("corpus loaded",
		"lines", corpus.Len(),
		"source", corpus.Source,
		"fingerprint", fmt.Sprintf("%016x", corpus.Fingerprint()))

	adapters := []*harness.Adapter{target}
	adapters = append(adapters, backends.Comparison(modelsDir, log)...)

	bar := progressbar.NewOptions(len(adapters),
		progressbar.OptionSetDescription("Evaluating"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	evaluations := make([]harness.Evaluation, 0, len(adapters))
	results := make([]harness.Result, 0, len(adapters))
	for i, a := range adapters {
		bar.Describe(fmt.Sprintf("Evaluating %s", a.Name()))
		ev := harness.Evaluate(a, corpus, int(topK))
		evaluations = append(evaluations, ev)
		results = append(results, ev.Result)
		// Comparison adapters are done once evaluated; only the primary is
		// needed again for the sample display, and it closes via the defer.
		if i > 0 {
			a.Close()
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	reporter := harness.NewReporter(os.Stdout)
	reporter.PrintStatistics(target, evaluations[0], corpus)
	reporter.PrintComparison(results)

	// The console report above is the run's primary output; a failed
	// snapshot write is only worth a warning.
	if err := harness.WriteSnapshot(outPath, results); err != nil {
		log.Warn("could not save result snapshot", "path", outPath, "error", err)
	} else {
		log.Info("results saved", "path", outPath)
	}
	return nil
}
