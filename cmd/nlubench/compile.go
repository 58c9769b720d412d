package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rhasspy/rhasspy-nlu-go/expand"
	"github.com/rhasspy/rhasspy-nlu-go/graph"
	"github.com/rhasspy/rhasspy-nlu-go/jsgf"
)

func compileCmd(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	grammarPath := fs.String("grammar", "", "Grammar file (required)")
	output := fs.String("output", "", "FST output file; defaults to stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nlubench compile --grammar <file> [options]

Parse, expand, and compile a grammar, writing its graph as an FST.

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

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *output, err)
		}
		defer f.Close()
		return graph.WriteFST(f, g)
	}
	return graph.WriteFST(w, g)
}

func loadGraph(grammarPath string) (*graph.Graph, error) {
	f, err := os.Open(grammarPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", grammarPath, err)
	}
	defer f.Close()

	grammar, err := jsgf.ParseGrammar(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", grammarPath, err)
	}

	expanded, err := expand.Expand(grammar, nil, expand.Options{})
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", grammarPath, err)
	}

	g, err := graph.Compile(expanded)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", grammarPath, err)
	}
	return g, nil
}
