// Package config loads the YAML document describing one Context's
// default-builtin allowlist, step budget, and pre-declared extension
// module names, following the YAML-config-struct convention of the
// MongooseMoo pack member (a plain struct with `yaml:"..."` tags,
// loaded with gopkg.in/yaml.v3 and defaulted in Go rather than via
// zero-value YAML tricks).
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration document a host may supply to
// Context.New. The zero Config is invalid; use Default or Load.
type Config struct {
	// MaxSteps bounds the number of Thread.step calls a single Eval may
	// take before it faults with a runtime exception; 0 means
	// unbounded. Mirrors the teacher's Thread.Steps/maxSteps field.
	MaxSteps int64 `yaml:"max_steps"`

	// EnabledBuiltins lists the default builtin names Context.New wires
	// into globals. An empty list after Load keeps the compiled-in
	// default set.
	EnabledBuiltins []string `yaml:"enabled_builtins"`

	// ExtensionNames pre-declares the extension module names the host
	// intends to register, so config alone documents a Context's
	// importable surface even before RegisterExtensionModule runs.
	ExtensionNames []string `yaml:"extension_names"`
}

var defaultBuiltins = []string{
	"len", "range", "int", "float", "str", "print", "isinstance", "next",
}

// Default returns the compiled-in configuration used when Context.New
// receives a nil *Config.
func Default() *Config {
	return &Config{
		MaxSteps:        0,
		EnabledBuiltins: append([]string(nil), defaultBuiltins...),
	}
}

// Load parses a YAML configuration document, filling in compiled-in
// defaults for any field the document omits.
func Load(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.EnabledBuiltins) == 0 {
		cfg.EnabledBuiltins = append([]string(nil), defaultBuiltins...)
	}
	return cfg, nil
}

// BuiltinEnabled reports whether name is in the configured allowlist.
func (c *Config) BuiltinEnabled(name string) bool {
	for _, n := range c.EnabledBuiltins {
		if n == name {
			return true
		}
	}
	return false
}
