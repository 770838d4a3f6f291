// Package config provides configuration loading and validation for the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/nmrenyi/rosenwald-benchmark/internal/grouping"
	"github.com/nmrenyi/rosenwald-benchmark/internal/identifier"
	"github.com/nmrenyi/rosenwald-benchmark/internal/merging"
)

const (
	// DefaultSourceDir holds the exported halves.
	DefaultSourceDir = "exports"
	// DefaultOutputDir receives one merged file per page.
	DefaultOutputDir = "rosenwald-benchmark"
	// MaxJobs caps parallel merges.
	MaxJobs = 64
)

// Environment variables that override config file values.
const (
	EnvSourceDir    = "ROSENWALD_SOURCE_DIR"
	EnvOutputDir    = "ROSENWALD_OUTPUT_DIR"
	EnvPrefixLength = "ROSENWALD_PREFIX_LENGTH"
)

// Config represents the CLI configuration that can be loaded from a YAML (or JSON) file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
// Pointer fields distinguish "unset" from an explicit zero or false.
type Config struct {
	// Paths
	SourceDir   string `yaml:"source_dir,omitempty" validate:"required"`
	OutputDir   string `yaml:"output_dir,omitempty" validate:"required"`
	FilePattern string `yaml:"file_pattern,omitempty" validate:"required"`
	// Manifest is the optional path of the JSON run manifest.
	Manifest string `yaml:"manifest,omitempty"`

	// PrefixLength is the number of characters skipped before the year-page token.
	PrefixLength *int `yaml:"prefix_length,omitempty" validate:"omitempty,min=0"`

	// Merge policy
	VerifyParts         *bool  `yaml:"verify_parts,omitempty"`
	DropSecondaryHeader *bool  `yaml:"drop_secondary_header,omitempty"`
	HeaderCheck         string `yaml:"header_check,omitempty" validate:"omitempty,oneof=off warn strict"`
	Atomic              *bool  `yaml:"atomic,omitempty"`

	// Behavior
	ContinueOnError bool `yaml:"continue_on_error,omitempty"`
	Jobs            int  `yaml:"jobs,omitempty" validate:"min=0,maxjobs"` // 0 means 1
	Verbose         bool `yaml:"verbose,omitempty"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		SourceDir:           DefaultSourceDir,
		OutputDir:           DefaultOutputDir,
		FilePattern:         grouping.DefaultPattern,
		PrefixLength:        intPtr(identifier.DefaultPrefixLength),
		VerifyParts:         boolPtr(true),
		DropSecondaryHeader: boolPtr(true),
		HeaderCheck:         string(merging.HeaderCheckWarn),
		Atomic:              boolPtr(true),
		Jobs:                1,
	}
}

// LoadConfig loads configuration from a YAML or JSON file.
// Unknown keys are rejected so that typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyEnv overrides path and prefix settings from the environment.
// lookup is usually os.Getenv.
func (c *Config) ApplyEnv(lookup func(string) string) error {
	if v := strings.TrimSpace(lookup(EnvSourceDir)); v != "" {
		c.SourceDir = v
	}
	if v := strings.TrimSpace(lookup(EnvOutputDir)); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(lookup(EnvPrefixLength)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer, got %q", EnvPrefixLength, v)
		}
		c.PrefixLength = intPtr(n)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.SourceDir == "" {
		result.SourceDir = defaults.SourceDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.FilePattern == "" {
		result.FilePattern = defaults.FilePattern
	}
	if result.Manifest == "" {
		result.Manifest = defaults.Manifest
	}
	if result.HeaderCheck == "" {
		result.HeaderCheck = defaults.HeaderCheck
	}
	if result.Jobs == 0 {
		result.Jobs = defaults.Jobs
	}

	if result.PrefixLength == nil {
		result.PrefixLength = defaults.PrefixLength
	}
	if result.VerifyParts == nil {
		result.VerifyParts = defaults.VerifyParts
	}
	if result.DropSecondaryHeader == nil {
		result.DropSecondaryHeader = defaults.DropSecondaryHeader
	}
	if result.Atomic == nil {
		result.Atomic = defaults.Atomic
	}

	// Plain bools cannot distinguish unset from false; either source enabling them wins.
	result.ContinueOnError = result.ContinueOnError || defaults.ContinueOnError
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(yamlName)
	if err := validate.RegisterValidation("maxjobs", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= MaxJobs
	}); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// Policy converts the merge settings into a merging.Policy.
// Call it on a config that has been merged with Default().
func (c *Config) Policy() merging.Policy {
	p := merging.DefaultPolicy()
	if c.PrefixLength != nil {
		p.PrefixLength = *c.PrefixLength
	}
	if c.VerifyParts != nil {
		p.VerifyParts = *c.VerifyParts
	}
	if c.DropSecondaryHeader != nil {
		p.DropSecondaryHeader = *c.DropSecondaryHeader
	}
	if c.HeaderCheck != "" {
		p.HeaderCheck = merging.HeaderCheck(c.HeaderCheck)
	}
	if c.Atomic != nil {
		p.Atomic = *c.Atomic
	}
	return p
}

// Prefix returns the configured prefix length, or the default when unset.
func (c *Config) Prefix() int {
	if c.PrefixLength == nil {
		return identifier.DefaultPrefixLength
	}
	return *c.PrefixLength
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", fe.Field())
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("'%s' must be at most %s", fe.Field(), fe.Param())
	case "maxjobs":
		return fmt.Sprintf("'%s' must be at most %d", fe.Field(), MaxJobs)
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("'%s' failed %s", fe.Field(), fe.Tag())
	}
}

func yamlName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
