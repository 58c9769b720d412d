package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rhasspy/rhasspy-nlu-go/recognize"
)

func recognizeCmd(args []string) error {
	fs := flag.NewFlagSet("recognize", flag.ExitOnError)
	grammarPath := fs.String("grammar", "", "Grammar file (required)")
	sentence := fs.String("sentence", "", "Sentence to recognize (required)")
	fuzzy := fs.Bool("fuzzy", false, "Use the fuzzy matcher instead of the strict matcher")
	stopWords := fs.String("stop-words", "", "Comma-separated words the matcher may skip")
	maxRecognitions := fs.Int("max", 0, "Maximum candidates to return; 0 means unbounded")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nlubench recognize --grammar <file> --sentence <text> [options]

Match a sentence against a compiled grammar and print its recognitions as JSON.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *grammarPath == "" || *sentence == "" {
		fs.Usage()
		return fmt.Errorf("--grammar and --sentence are required")
	}

	g, err := loadGraph(*grammarPath)
	if err != nil {
		return err
	}

	opts := recognize.Options{MaxRecognitions: *maxRecognitions, Fuzzy: *fuzzy}
	if *stopWords != "" {
		opts.StopWords = make(map[string]bool)
		for _, w := range strings.Split(*stopWords, ",") {
			opts.StopWords[strings.TrimSpace(w)] = true
		}
	}

	tokens := strings.Fields(*sentence)
	results, err := recognize.Recognize(g, tokens, opts)
	if err != nil {
		return fmt.Errorf("recognizing: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
