package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/unicode/norm"

	"tokeval/backends"
	"tokeval/harness"
)

func tokenizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "tokenize",
		Usage:     "Tokenize a single text with the primary model and verify the round trip",
		ArgsUsage: "TEXT...",
		Flags:     commonModelFlags(),
		Action:    runTokenize,
	}
}

func runTokenize(ctx context.Context, cmd *cli.Command) error {
	applyCommonConfig(cmd, loadConfig())

	text := strings.Join(cmd.Args().Slice(), " ")
	if text == "" {
		return cli.Exit("error: no text given", 1)
	}

	primary, err := backends.NewHF(modelPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: primary tokenizer: %v", err), 1)
	}
	defer primary.Close()

	target := harness.NewAdapter(primaryName, harness.KindUnigram, primary,
		harness.WithNormalizedInput(),
	)

	pieces, err := target.Encode(text, harness.RepPieces)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: encode: %v", err), 1)
	}
	ids, err := target.Encode(text, harness.RepIDs)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: encode: %v", err), 1)
	}
	decoded, err := target.Decode(ids)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: decode: %v", err), 1)
	}

	fmt.Printf("Original: %s\n", text)
	fmt.Printf("Pieces (%d): %v\n", pieces.Len(), pieces.Pieces)
	fmt.Printf("IDs (%d): %v\n", ids.Len(), ids.IDs)
	fmt.Printf("Decoded: %s\n", decoded)

	switch {
	case decoded == text:
		fmt.Println("\n✓ Round trip: exact match")
	case decoded == norm.NFKC.String(text):
		fmt.Println("\n✓ Round trip: matches the NFKC-normalized input")
	default:
		fmt.Println("\n✗ Round trip: decoded text differs from the input")
	}
	return nil
}
