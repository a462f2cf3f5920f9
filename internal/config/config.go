// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"keyrecover/internal/derive"
	"keyrecover/internal/parallel"
	"keyrecover/internal/paths"

	"gopkg.in/yaml.v3"
)

// Search modes
const (
	ModeWildcard = "wildcard"
	ModeFuzzy    = "fuzzy"
)

// Settings are the tunables shared by defaults and the command line
type Settings struct {
	Mode             string        `yaml:"mode"`
	Placeholder      string        `yaml:"placeholder"`
	Policy           string        `yaml:"policy"`
	Workers          int           `yaml:"workers"`
	BatchSize        int           `yaml:"batch_size"`
	Alphabet         string        `yaml:"alphabet"`
	AddressType      string        `yaml:"address_type"`
	Compressed       bool          `yaml:"compressed"`
	Network          string        `yaml:"network"`
	Format           string        `yaml:"format"`
	Verbose          bool          `yaml:"verbose"`
	Debug            bool          `yaml:"debug"`
	NoColor          bool          `yaml:"no_color"`
	Quiet            bool          `yaml:"quiet"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
}

// Config represents the application configuration
type Config struct {
	Defaults Settings `yaml:"defaults"`

	// Profiles for different recovery scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile overrides defaults. Empty strings and zero numbers leave the
// default in place.
type Profile struct {
	Description string `yaml:"description"`
	Mode        string `yaml:"mode"`
	Placeholder string `yaml:"placeholder"`
	Policy      string `yaml:"policy"`
	Workers     int    `yaml:"workers"`
	BatchSize   int    `yaml:"batch_size"`
	Alphabet    string `yaml:"alphabet"`
	AddressType string `yaml:"address_type"`
	Compressed  *bool  `yaml:"compressed"`
	Network     string `yaml:"network"`
	Format      string `yaml:"format"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	NoColor     bool   `yaml:"no_color"`
	Quiet       bool   `yaml:"quiet"`
}

// DefaultSettings returns the built-in defaults
func DefaultSettings() Settings {
	return Settings{
		Mode:             ModeWildcard,
		Placeholder:      "*",
		Policy:           "first",
		Alphabet:         "auto",
		AddressType:      "auto",
		Compressed:       true,
		Network:          "mainnet",
		Format:           "text",
		ProgressInterval: 200 * time.Millisecond,
	}
}

func defaultProfiles() map[string]Profile {
	return map[string]Profile{
		"exhaustive": {
			Description: "Scan every candidate and report all matching keys",
			Policy:      "all",
			Verbose:     true,
		},
		"typos": {
			Description: "Try look-alike substitutions on a fully written key",
			Mode:        ModeFuzzy,
		},
		"testnet": {
			Description: "Recover keys for testnet3 addresses",
			Network:     "testnet",
		},
	}
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Defaults: DefaultSettings(),
		Profiles: defaultProfiles(),
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(paths.NormalizePath(configPath))
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decode over the defaults; absent keys keep their default value
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"keyrecover.yaml", "keyrecover.yml", ".keyrecover.yaml", ".keyrecover.yml"} {
		if fileExists(name) {
			return name
		}
	}

	if standardConfig := paths.GetConfigFile(); fileExists(standardConfig) {
		return standardConfig
	}
	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names, sorted
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile returns s with every value the profile sets
func ApplyProfile(s Settings, p *Profile) Settings {
	if p == nil {
		return s
	}
	if p.Mode != "" {
		s.Mode = p.Mode
	}
	if p.Placeholder != "" {
		s.Placeholder = p.Placeholder
	}
	if p.Policy != "" {
		s.Policy = p.Policy
	}
	if p.Workers > 0 {
		s.Workers = p.Workers
	}
	if p.BatchSize > 0 {
		s.BatchSize = p.BatchSize
	}
	if p.Alphabet != "" {
		s.Alphabet = p.Alphabet
	}
	if p.AddressType != "" {
		s.AddressType = p.AddressType
	}
	if p.Compressed != nil {
		s.Compressed = *p.Compressed
	}
	if p.Network != "" {
		s.Network = p.Network
	}
	if p.Format != "" {
		s.Format = p.Format
	}
	s.Verbose = s.Verbose || p.Verbose
	s.Debug = s.Debug || p.Debug
	s.NoColor = s.NoColor || p.NoColor
	s.Quiet = s.Quiet || p.Quiet
	return s
}

// ValidateConfig validates the defaults and every profile
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := ValidateSettings(config.Defaults); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for name, profile := range config.Profiles {
		if err := ValidateSettings(ApplyProfile(config.Defaults, &profile)); err != nil {
			return fmt.Errorf("profile '%s': %w", name, err)
		}
	}
	return nil
}

// ValidateSettings checks enum values and ranges
func ValidateSettings(s Settings) error {
	var problems []string

	switch s.Mode {
	case ModeWildcard, ModeFuzzy:
	default:
		problems = append(problems, fmt.Sprintf("unknown mode '%s' (valid: %s, %s)", s.Mode, ModeWildcard, ModeFuzzy))
	}
	if len(s.Placeholder) != 1 {
		problems = append(problems, fmt.Sprintf("placeholder must be a single character, got '%s'", s.Placeholder))
	}
	if _, err := parallel.ParsePolicy(s.Policy); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := derive.ParseAddressType(s.AddressType); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := derive.ParseNetwork(s.Network); err != nil {
		problems = append(problems, err.Error())
	}
	if s.Workers < 0 {
		problems = append(problems, "workers cannot be negative")
	}
	if s.BatchSize < 0 {
		problems = append(problems, "batch_size cannot be negative")
	}
	if s.ProgressInterval < 0 {
		problems = append(problems, "progress_interval cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
