package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rhasspy/rhasspy-nlu-go/expand"
	"github.com/rhasspy/rhasspy-nlu-go/jsgf"
)

func countsCmd(args []string) error {
	fs := flag.NewFlagSet("counts", flag.ExitOnError)
	grammarPath := fs.String("grammar", "", "Grammar file (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nlubench counts --grammar <file>

Print, per intent, the number of distinct sentences a grammar can produce.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *grammarPath == "" {
		fs.Usage()
		return fmt.Errorf("--grammar is required")
	}

	f, err := os.Open(*grammarPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", *grammarPath, err)
	}
	defer f.Close()

	grammar, err := jsgf.ParseGrammar(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", *grammarPath, err)
	}

	expanded, err := expand.Expand(grammar, nil, expand.Options{})
	if err != nil {
		return fmt.Errorf("expanding %s: %w", *grammarPath, err)
	}

	counts := jsgf.IntentCounts(expanded, nil)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(counts)
}
