// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"keyrecover/internal/generator"
	"keyrecover/internal/keyspace"

	"github.com/fatih/color"
)

// TopicInfo is the help content for one topic
type TopicInfo struct {
	Name                string   // e.g. "fuzzy"
	ShortDescription    string   // line in the topic list
	DetailedDescription string   // body of the topic page
	Details             []string // bullet list under DETAILS
	Examples            []string // usage examples
}

// Provider defines the interface for help content providers
type Provider interface {
	GetTopicInfo() TopicInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	out       io.Writer
	colors    map[string]*color.Color
}

// NewSystem creates a help system writing to stdout, with the built-in topics
func NewSystem(noColor bool) *System {
	return NewSystemWithWriter(os.Stdout, noColor)
}

// NewSystemWithWriter creates a help system writing to out
func NewSystemWithWriter(out io.Writer, noColor bool) *System {
	// Disable colors if requested
	if noColor {
		color.NoColor = true
	}

	h := &System{
		providers: make(map[string]Provider),
		out:       out,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"negative": color.New(color.FgRed),
			"warning":  color.New(color.FgYellow),
			"example":  color.New(color.FgMagenta),
		},
	}
	for _, p := range builtinTopics() {
		h.RegisterProvider(p)
	}
	return h
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetTopicInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// Topics returns the registered topic names, sorted
func (h *System) Topics() []string {
	names := make([]string, 0, len(h.providers))
	for name := range h.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Fprintln(h.out, "keyrecover - Partial Private Key Recovery")
	fmt.Fprintln(h.out, "=========================================")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "USAGE:")
	fmt.Fprintln(h.out, "  keyrecover [options] <pattern-or-key> <target-address>")
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "OPTIONS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --mode\t<mode>\tSearch mode: wildcard or fuzzy (default: wildcard)")
	fmt.Fprintln(w, "  --placeholder\t<char>\tCharacter marking unknown positions (default: *)")
	fmt.Fprintln(w, "  --alphabet\t<name>\tauto, hex, base58 or a literal list of symbols (default: auto)")
	fmt.Fprintln(w, "  --policy\t<policy>\tfirst: stop at the first match; all: report every match (default: first)")
	fmt.Fprintln(w, "  --workers\t<n>\tNumber of search workers (default: number of CPUs)")
	fmt.Fprintln(w, "  --address-type\t<type>\tauto, p2pkh, p2wpkh or p2sh-p2wpkh (default: inferred from the target)")
	fmt.Fprintln(w, "  --uncompressed\t\tDerive uncompressed public keys for raw hex keys")
	fmt.Fprintln(w, "  --network\t<name>\tmainnet, testnet, regtest or signet (default: mainnet)")
	fmt.Fprintln(w, "  --password\t<text>\tPassphrase for BIP38 encrypted keys")
	fmt.Fprintln(w, "  --ask-password\t\tPrompt for the BIP38 passphrase without echo")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json, yaml, csv (default: text)")
	fmt.Fprintln(w, "  --output\t<path>\tWrite the report to a file instead of stdout")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles")
	fmt.Fprintln(w, "  --verbose\t\tInclude search details in the report")
	fmt.Fprintln(w, "  --quiet\t\tSuppress progress output")
	fmt.Fprintln(w, "  --debug\t\tTrace every recovery step on stderr")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help topics\t\tList help topics")
	fmt.Fprintln(w, "  --help <topic>\t\tShow detailed help for a topic")
	w.Flush()

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "EXAMPLES:")
	h.colors["example"].Fprintln(h.out, "  keyrecover 'dc7546c9cef4e980c*63a4cb42efede82c40c0e5fce55c4a7304f32747e029e1' 1JwvWezRrU2yDh1eSwWezyrx3SyKYmtFDQ")
	h.colors["example"].Fprintln(h.out, "  keyrecover --mode fuzzy KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn 1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH")
	h.colors["example"].Fprintln(h.out, "  keyrecover --policy all --format json '5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchu*f' 1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm")

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "EXIT CODES:")
	fmt.Fprintln(h.out, "  0  a key was recovered")
	fmt.Fprintln(h.out, "  1  no key matched, or the search was interrupted")
	fmt.Fprintln(h.out, "  2  invalid input or configuration")

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: keyrecover.yaml or .keyrecover.yaml (in current directory)")
	fmt.Fprintln(h.out, "  User config: <user config dir>/keyrecover/config.yaml")
	fmt.Fprintln(h.out, "  Environment: KEYRECOVER_CONFIG_DIR - Override config directory")
}

// ShowTopicsHelp lists every help topic
func (h *System) ShowTopicsHelp() {
	h.colors["title"].Fprintln(h.out, "Help Topics")
	fmt.Fprintln(h.out, "===========")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  TOPIC\tDESCRIPTION")
	for _, name := range h.Topics() {
		info := h.providers[name].GetTopicInfo()
		fmt.Fprintf(w, "  %s\t%s\n", h.colors["emphasis"].Sprint(info.Name), info.ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For detailed information about a topic, use:")
	h.colors["example"].Fprintln(h.out, "  keyrecover --help <topic>")
}

// ShowTopicHelp displays detailed help for a topic
func (h *System) ShowTopicHelp(topic string) bool {
	provider, exists := h.providers[strings.ToLower(topic)]
	if !exists {
		h.colors["negative"].Fprintf(h.out, "Error: help topic '%s' not found.\n", topic)
		fmt.Fprintln(h.out, "Use 'keyrecover --help topics' to see a list of available topics.")
		return false
	}

	info := provider.GetTopicInfo()
	h.colors["title"].Fprintln(h.out, info.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Name)))
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.DetailedDescription)
	fmt.Fprintln(h.out)

	if len(info.Details) > 0 {
		h.colors["header"].Fprintln(h.out, "DETAILS:")
		for _, d := range info.Details {
			fmt.Fprint(h.out, "  - ")
			h.colors["item"].Fprintln(h.out, d)
		}
		fmt.Fprintln(h.out)
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, example)
		}
	}
	return true
}

type staticTopic TopicInfo

func (t staticTopic) GetTopicInfo() TopicInfo {
	return TopicInfo(t)
}

func builtinTopics() []Provider {
	return []Provider{
		staticTopic{
			Name:             "wildcard",
			ShortDescription: "Fill unknown positions from an alphabet",
			DetailedDescription: "Every placeholder is replaced by every symbol of the alphabet. The\n" +
				"leftmost placeholder varies slowest. A key with k placeholders and an\n" +
				"alphabet of N symbols has N^k candidates.",
			Details: []string{
				fmt.Sprintf("%d characters: hex key, alphabet %s", keyspace.HexKeyLength, keyspace.HexAlphabet),
				fmt.Sprintf("%d characters: WIF key, alphabet %s", keyspace.WIFKeyLength, keyspace.Base58Alphabet),
				"any other length is rejected",
				fmt.Sprintf("%d characters starting with 6P: BIP38 key, needs a passphrase", keyspace.BIP38KeyLength),
				"hex keys are matched in lowercase",
				"the placeholder must not be a symbol of the alphabet",
			},
			Examples: []string{
				"keyrecover 'KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVH*oWn' 1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
				"keyrecover --placeholder '?' --alphabet 0123 '<key with ? marks>' <address>",
			},
		},
		staticTopic{
			Name:             "fuzzy",
			ShortDescription: "Try look-alike characters of a fully written key",
			DetailedDescription: "Each position is independently swapped for characters that are easily\n" +
				"confused when copying a key by hand. The table is fixed:",
			Details:  generator.DefaultConfusionTable.Entries(),
			Examples: []string{"keyrecover --mode fuzzy <key> <address>"},
		},
		staticTopic{
			Name:             "bip38",
			ShortDescription: "Recover BIP38 encrypted keys (6P...)",
			DetailedDescription: "58 character keys starting with 6P are decrypted with --password or\n" +
				"--ask-password before deriving the address. Only non EC-multiplied keys\n" +
				"are supported. Each candidate costs one scrypt run, so searches are slow.",
			Examples: []string{"keyrecover --mode fuzzy --ask-password 6PYNKZ1EAgYgmQfmNVamxyXVWHzK5s6DGhwP4J5o44cvXdoY7sRzhtpUeo 164MQi977u9GUteHr4EPH27VkkdxmfCvGW"},
		},
		staticTopic{
			Name:             "addresses",
			ShortDescription: "Supported target address types",
			DetailedDescription: "The address type is inferred from the target unless --address-type is\n" +
				"given. WIF and BIP38 keys carry their own compression flag; hex keys are\n" +
				"compressed unless --uncompressed is set.",
			Details: []string{
				"p2pkh: legacy addresses (1... on mainnet)",
				"p2wpkh: native segwit addresses (bc1q...)",
				"p2sh-p2wpkh: nested segwit addresses (3...)",
			},
		},
	}
}
