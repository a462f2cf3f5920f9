// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command keyrecover-expand prints the candidate keys a pattern expands to,
// one per line, without deriving any address.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"keyrecover/internal/config"
	"keyrecover/internal/core"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keyrecover-expand", flag.ContinueOnError)
	fs.SetOutput(stderr)

	settings := config.DefaultSettings()
	fs.StringVar(&settings.Mode, "mode", settings.Mode, "Expansion mode: wildcard or fuzzy")
	fs.StringVar(&settings.Placeholder, "placeholder", settings.Placeholder, "Character marking unknown positions")
	fs.StringVar(&settings.Alphabet, "alphabet", settings.Alphabet, "auto, hex, base58 or a literal list of symbols")
	limit := fs.Uint64("limit", 0, "Stop after this many candidates (0 prints all)")
	countOnly := fs.Bool("count", false, "Print only the number of candidates")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: keyrecover-expand [options] <pattern-or-key>\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	plan, err := core.BuildSpace(fs.Arg(0), settings, false)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	total := plan.Space.Len()
	if *countOnly {
		fmt.Fprintln(stdout, total)
		return 0
	}
	if *limit > 0 && *limit < total {
		total = *limit
	}

	w := bufio.NewWriter(stdout)
	for i := uint64(0); i < total; i++ {
		if _, err := fmt.Fprintln(w, plan.Space.At(i)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
