package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

var (
	modelPath   string
	primaryName string
	logLevel    string

	corpusPath   string
	fallbackPath string
	modelsDir    string
	outPath      string
	topK         int64
)

// commonModelFlags are shared by every command that loads the primary model.
func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to the primary tokenizer.json artifact",
			Value:       "tokenizer.json",
			Destination: &modelPath,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "display name for the primary tokenizer",
			Value:       "Primary (unigram)",
			Destination: &primaryName,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
	}
}

func evalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "corpus",
			Aliases:     []string{"c"},
			Usage:       "evaluation corpus file",
			Value:       "eval.txt",
			Destination: &corpusPath,
		},
		&cli.StringFlag{
			Name:        "fallback-corpus",
			Usage:       "corpus used when the primary corpus file does not exist",
			Value:       "corpus.txt",
			Destination: &fallbackPath,
		},
		&cli.StringFlag{
			Name:        "models-dir",
			Usage:       "directory holding comparison model artifacts",
			Value:       "models",
			Destination: &modelsDir,
		},
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "result snapshot path",
			Value:       "eval_results.json",
			Destination: &outPath,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Usage:       "number of most frequent tokens to report",
			Value:       10,
			Destination: &topK,
		},
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
