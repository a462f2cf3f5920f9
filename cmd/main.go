// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"keyrecover/internal/config"
	"keyrecover/internal/core"
	"keyrecover/internal/formatters"
	"keyrecover/internal/help"
	"keyrecover/internal/keyspace"
	"keyrecover/internal/parallel"
	"keyrecover/internal/paths"
	"keyrecover/internal/security"
	"keyrecover/internal/version"

	// Import formatters to register them
	_ "keyrecover/internal/formatters/csv"
	_ "keyrecover/internal/formatters/json"
	_ "keyrecover/internal/formatters/text"
	_ "keyrecover/internal/formatters/yaml"

	"golang.org/x/term"
)

// Exit codes
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitUsage   = 2
)

// cliFlags holds command line flag values
type cliFlags struct {
	mode         string
	placeholder  string
	policy       string
	workers      int
	batchSize    int
	alphabet     string
	addressType  string
	uncompressed bool
	network      string
	format       string
	verbose      bool
	debug        bool
	noColor      bool
	quiet        bool

	password     string
	askPassword  bool
	outputFile   string
	configFile   string
	profileName  string
	listProfiles bool
	showHelp     bool
	showVersion  bool
}

func newFlagSet(f *cliFlags, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("keyrecover", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&f.mode, "mode", "", "Search mode: wildcard or fuzzy (default: wildcard)")
	fs.StringVar(&f.placeholder, "placeholder", "", "Character marking unknown positions (default: *)")
	fs.StringVar(&f.policy, "policy", "", "first: stop at the first match; all: report every match")
	fs.IntVar(&f.workers, "workers", 0, "Number of search workers (default: number of CPUs)")
	fs.IntVar(&f.batchSize, "batch-size", 0, "Candidates per work batch (default: automatic)")
	fs.StringVar(&f.alphabet, "alphabet", "", "auto, hex, base58 or a literal list of symbols")
	fs.StringVar(&f.addressType, "address-type", "", "auto, p2pkh, p2wpkh or p2sh-p2wpkh")
	fs.BoolVar(&f.uncompressed, "uncompressed", false, "Derive uncompressed public keys for raw hex keys")
	fs.StringVar(&f.network, "network", "", "mainnet, testnet, regtest or signet")
	fs.StringVar(&f.format, "format", "", "Output format: text, json, yaml, csv (default: text)")
	fs.BoolVar(&f.verbose, "verbose", false, "Include search details in the report")
	fs.BoolVar(&f.debug, "debug", false, "Trace every recovery step on stderr")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.quiet, "quiet", false, "Suppress progress output (useful for scripts)")
	fs.StringVar(&f.password, "password", "", "Passphrase for BIP38 encrypted keys")
	fs.BoolVar(&f.askPassword, "ask-password", false, "Prompt for the BIP38 passphrase without echo")
	fs.StringVar(&f.outputFile, "output", "", "Path to output file (if not specified, output to stdout)")
	fs.StringVar(&f.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&f.profileName, "profile", "", "Profile name to use from config file")
	fs.BoolVar(&f.listProfiles, "list-profiles", false, "List available profiles")
	fs.BoolVar(&f.showHelp, "help", false, "Show help information")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")
	return fs
}

// parseArgs parses flags that may appear before, between or after the
// positional arguments
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string, stderr io.Writer) *config.Config {
	// If config file is not specified, try to find one in standard locations
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// resolveSettings applies precedence: defaults < config file < profile < flags
func resolveSettings(cfg *config.Config, activeProfile *config.Profile, fs *flag.FlagSet, f *cliFlags) config.Settings {
	s := config.DefaultSettings()
	if cfg != nil {
		s = cfg.Defaults
	}
	s = config.ApplyProfile(s, activeProfile)

	if isFlagSet(fs, "mode") {
		s.Mode = strings.ToLower(f.mode)
	}
	if isFlagSet(fs, "placeholder") {
		s.Placeholder = f.placeholder
	}
	if isFlagSet(fs, "policy") {
		s.Policy = f.policy
	}
	if isFlagSet(fs, "workers") {
		s.Workers = f.workers
	}
	if isFlagSet(fs, "batch-size") {
		s.BatchSize = f.batchSize
	}
	if isFlagSet(fs, "alphabet") {
		s.Alphabet = f.alphabet
	}
	if isFlagSet(fs, "address-type") {
		s.AddressType = f.addressType
	}
	if isFlagSet(fs, "uncompressed") {
		s.Compressed = !f.uncompressed
	}
	if isFlagSet(fs, "network") {
		s.Network = f.network
	}
	if isFlagSet(fs, "format") {
		s.Format = strings.ToLower(f.format)
	}
	if isFlagSet(fs, "verbose") {
		s.Verbose = f.verbose
	}
	if isFlagSet(fs, "debug") {
		s.Debug = f.debug
	}
	if isFlagSet(fs, "no-color") {
		s.NoColor = f.noColor
	}
	if isFlagSet(fs, "quiet") {
		s.Quiet = f.quiet
	}
	return s
}

// handleProfiles lists profiles or resolves the selected one
func handleProfiles(cfg *config.Config, listProfiles bool, profileName string, stdout io.Writer) (*config.Profile, bool, error) {
	if listProfiles {
		profiles := cfg.ListProfiles()
		if len(profiles) == 0 {
			fmt.Fprintln(stdout, "No profiles defined.")
			return nil, true, nil
		}
		fmt.Fprintln(stdout, "Available profiles:")
		for _, name := range profiles {
			profile := cfg.GetProfile(name)
			if profile != nil && profile.Description != "" {
				fmt.Fprintf(stdout, "  - %s: %s\n", name, profile.Description)
			} else {
				fmt.Fprintf(stdout, "  - %s\n", name)
			}
		}
		return nil, true, nil
	}

	if profileName == "" {
		return nil, false, nil
	}
	activeProfile := cfg.GetProfile(profileName)
	if activeProfile == nil {
		return nil, false, fmt.Errorf("profile '%s' not found (available: %s)", profileName, strings.Join(cfg.ListProfiles(), ", "))
	}
	return activeProfile, false, nil
}

// readPassphrase returns the BIP38 passphrase from the flag or the terminal
func readPassphrase(f *cliFlags) (*security.Passphrase, error) {
	if f.password != "" && f.askPassword {
		return nil, errors.New("use either --password or --ask-password, not both")
	}
	if f.password != "" {
		return security.NewPassphrase(f.password), nil
	}
	if !f.askPassword {
		return nil, nil
	}

	if !isTerminal(os.Stdin) {
		return nil, errors.New("--ask-password needs an interactive terminal")
	}
	fmt.Fprint(os.Stderr, "BIP38 passphrase: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return security.NewPassphraseBytes(raw), nil
}

// shouldSuppressProgressOutput determines if progress output should be suppressed
func shouldSuppressProgressOutput(s config.Settings, isInteractive bool) bool {
	return s.Debug || s.Quiet || !isInteractive
}

// newProgressPrinter returns a throttled progress bar with ETA on w
func newProgressPrinter(w io.Writer, interval time.Duration) parallel.ProgressCallback {
	start := time.Now()
	var last time.Time

	return func(tested, total uint64) {
		now := time.Now()
		if tested < total && now.Sub(last) < interval {
			return
		}
		last = now
		fmt.Fprintf(w, "\r%s", formatProgress(tested, total, now.Sub(start)))
		if tested >= total {
			fmt.Fprintln(w)
		}
	}
}

// formatProgress renders one progress line
func formatProgress(tested, total uint64, elapsed time.Duration) string {
	const barWidth = 40

	fraction := 1.0
	if total > 0 {
		fraction = float64(tested) / float64(total)
	}
	filledWidth := int(float64(barWidth) * fraction)
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

	var rateStr, etaStr string
	if seconds := elapsed.Seconds(); seconds > 0 && tested > 0 {
		rate := float64(tested) / seconds
		rateStr = fmt.Sprintf(" %.0f keys/s", rate)
		if tested < total {
			remaining := time.Duration(float64(total-tested) / rate * float64(time.Second))
			etaStr = fmt.Sprintf(" ETA: %s", remaining.Round(time.Second))
		}
	}

	return fmt.Sprintf("[%s] %d/%d candidates (%.1f%%)%s%s", bar, tested, total, fraction*100, rateStr, etaStr)
}

// writeOutput writes the report to a file or stdout
func writeOutput(result, outputFile string, stdout io.Writer) error {
	if outputFile == "" {
		fmt.Fprintln(stdout, result)
		return nil
	}

	if err := paths.ValidatePath(outputFile); err != nil {
		return err
	}
	cleanOutputPath, err := filepath.Abs(paths.NormalizePath(outputFile))
	if err != nil {
		return fmt.Errorf("invalid output file path %s: %w", outputFile, err)
	}
	// Owner-only permissions: the report holds private keys
	if err := os.MkdirAll(filepath.Dir(cleanOutputPath), 0700); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(cleanOutputPath, []byte(result+"\n"), 0600); err != nil {
		return fmt.Errorf("error writing to output file: %w", err)
	}
	return nil
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var flags cliFlags
	fs := newFlagSet(&flags, stderr)
	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			help.NewSystemWithWriter(stdout, false).ShowGeneralHelp()
			return exitMatch
		}
		return exitUsage
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return exitMatch
	}

	if flags.showHelp {
		helpSystem := help.NewSystemWithWriter(stdout, flags.noColor)
		switch {
		case len(positional) == 0:
			helpSystem.ShowGeneralHelp()
		case positional[0] == "topics":
			helpSystem.ShowTopicsHelp()
		default:
			if !helpSystem.ShowTopicHelp(positional[0]) {
				return exitUsage
			}
		}
		return exitMatch
	}

	cfg := loadConfiguration(flags.configFile, stderr)
	activeProfile, done, err := handleProfiles(cfg, flags.listProfiles, flags.profileName, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if done {
		return exitMatch
	}

	settings := resolveSettings(cfg, activeProfile, fs, &flags)
	if err := config.ValidateSettings(settings); err != nil {
		fmt.Fprintf(stderr, "Error: invalid settings: %v\n", err)
		return exitUsage
	}

	if len(positional) != 2 {
		fmt.Fprintln(stderr, "Error: expected <pattern-or-key> <target-address>")
		fmt.Fprintln(stderr, "Use 'keyrecover --help' for usage information.")
		return exitUsage
	}

	formatter, ok := formatters.Get(settings.Format)
	if !ok {
		fmt.Fprintf(stderr, "Error: unsupported format '%s'. Available formats: %s\n", settings.Format, strings.Join(formatters.List(), ", "))
		return exitUsage
	}

	passphrase, err := readPassphrase(&flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	defer passphrase.Clear()

	input, target := positional[0], positional[1]
	if !passphrase.Empty() && !keyspace.LooksEncrypted(keyspace.Clean(input)) {
		fmt.Fprintln(stderr, "Warning: a passphrase was given but the key is not BIP38 encrypted; ignoring it")
	}

	suppressProgress := shouldSuppressProgressOutput(settings, isStderrTerminal(stderr))
	var progress parallel.ProgressCallback
	if !suppressProgress {
		progress = newProgressPrinter(stderr, settings.ProgressInterval)
	}

	result, err := core.Recover(ctx, core.RecoverConfig{
		Input:       input,
		Target:      target,
		Settings:    settings,
		Passphrase:  passphrase,
		Progress:    progress,
		DebugWriter: stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if result.Outcome.Interrupted && !suppressProgress {
		fmt.Fprintln(stderr)
	}

	output, err := formatter.Format(result.Report, formatters.FormatterOptions{
		Verbose: settings.Verbose,
		NoColor: settings.NoColor || flags.outputFile != "",
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error formatting results: %v\n", err)
		return exitUsage
	}
	if err := writeOutput(output, flags.outputFile, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if result.Outcome.Matched() {
		return exitMatch
	}
	return exitNoMatch
}

// isStderrTerminal reports whether w is a terminal-backed *os.File
func isStderrTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
