package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "compile":
		if err := compileCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "recognize":
		if err := recognizeCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "ngram":
		if err := ngramCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "counts":
		if err := countsCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `nlubench - compile JSGF-style grammars and recognize sentences against them

Usage: nlubench <command> [options]

Commands:
  compile     Parse and expand a grammar, write its compiled graph as an FST
  recognize   Match a sentence against a compiled grammar
  ngram       Print n-gram counts for a grammar's intents
  counts      Print the number of distinct sentences each intent can produce
  help        Show this message

Run 'nlubench <command> -h' for command-specific options.
`)
}
