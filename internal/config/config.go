// Package config loads the optional bd2cmake.toml placed next to a build
// description. Sub-tables whose keys are expressions (for example
// [generate."target_os == 'windows'"]) are evaluated against the host
// environment and merged into the base section when they hold.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
)

// Filename is the well-known name of the tool config inside an FMU.
const Filename = "bd2cmake.toml"

type Config struct {
	Generate GenerateSection `toml:"generate"`
}

// GenerateSection defines the [generate] section. Every field has a CLI
// flag counterpart; flags win over config values.
type GenerateSection struct {
	HeadersDir   string `toml:"headers-dir"`
	CMakeMinimum string `toml:"cmake-minimum"`
	PlatformMode string `toml:"platform-mode"`
	Output       string `toml:"output"`
}

// merge overlays the non-empty fields of src onto s.
func (s *GenerateSection) merge(src GenerateSection) {
	if src.HeadersDir != "" {
		s.HeadersDir = src.HeadersDir
	}
	if src.CMakeMinimum != "" {
		s.CMakeMinimum = src.CMakeMinimum
	}
	if src.PlatformMode != "" {
		s.PlatformMode = src.PlatformMode
	}
	if src.Output != "" {
		s.Output = src.Output
	}
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalConditionalSection parses a section, evaluating sub-tables
// whose keys compile as expressions and merging them in when they hold.
// Conditional sub-tables apply in lexical key order so the result does not
// depend on map iteration order.
func unmarshalConditionalSection(rawCfg map[string]any, name string, dst *GenerateSection, env Env) error {
	sectionData, ok := rawCfg[name]
	if !ok {
		return nil
	}

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}

	baseFields := make(map[string]any)
	conditionalFields := make(map[string]map[string]any)

	for key, val := range sectionMap {
		if subMap, ok := val.(map[string]any); ok {
			if _, err := expr.Compile(key, expr.Env(env)); err == nil {
				conditionalFields[key] = subMap
				continue
			}
		}
		baseFields[key] = val
	}

	if len(baseFields) > 0 {
		if err := toml.Unmarshal([]byte(mustMarshal(baseFields)), dst); err != nil {
			return fmt.Errorf("failed to parse base [%s] section: %w", name, err)
		}
	}

	expressions := make([]string, 0, len(conditionalFields))
	for expression := range conditionalFields {
		expressions = append(expressions, expression)
	}
	slices.Sort(expressions)

	for _, expression := range expressions {
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return fmt.Errorf("failed to compile expression for [%s.%q]: %w", name, expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return fmt.Errorf("failed to run expression for [%s.%q]: %w", name, expression, err)
		}

		if matched, ok := result.(bool); !ok || !matched {
			continue
		}

		var condSection GenerateSection
		if err := toml.Unmarshal([]byte(mustMarshal(conditionalFields[expression])), &condSection); err != nil {
			return fmt.Errorf("failed to parse conditional section [%s.%q]: %w", name, expression, err)
		}
		dst.merge(condSection)
	}

	return nil
}

// Parse reads a bd2cmake.toml from rdr. String values may contain
// {{...}} expressions evaluated against env.
func Parse(rdr io.Reader, env Env) (*Config, error) {
	var rawConfig map[string]any
	dec := toml.NewDecoder(rdr)
	if err := dec.Decode(&rawConfig); err != nil {
		if derr, ok := err.(*toml.DecodeError); ok {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	processedConfig, err := processExpressions(rawConfig, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in config: %w", err)
	}
	rawConfig = processedConfig.(map[string]any)

	cfg := new(Config)
	if err := unmarshalConditionalSection(rawConfig, "generate", &cfg.Generate, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseFile parses a config file from a filepath.
func ParseFile(path string, env Env) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(bufio.NewReader(f), env)
}

// Load looks for a bd2cmake.toml in dir and parses it. A missing file is
// not an error; the zero config is returned.
func Load(dir string, env Env) (*Config, error) {
	path := filepath.Join(dir, Filename)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return new(Config), nil
	}
	return ParseFile(path, env)
}
