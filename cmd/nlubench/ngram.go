package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rhasspy/rhasspy-nlu-go/graph"
)

func ngramCmd(args []string) error {
	fs := flag.NewFlagSet("ngram", flag.ExitOnError)
	grammarPath := fs.String("grammar", "", "Grammar file (required)")
	order := fs.Int("order", 1, "Maximum n-gram order")
	padStart := fs.String("pad-start", "<s>", "Padding word for the position before an intent's first word")
	padEnd := fs.String("pad-end", "</s>", "Padding word for the position after an intent's last word")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nlubench ngram --grammar <file> [options]

Print per-intent word n-gram counts for a compiled grammar as JSON.

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

	g, err := loadGraph(*grammarPath)
	if err != nil {
		return err
	}

	counts, err := graph.NGramCounts(g, *order, *padStart, *padEnd)
	if err != nil {
		return fmt.Errorf("counting n-grams: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(counts)
}
